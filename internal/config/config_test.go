package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/reservas.db", cfg.Database.Path)
	assert.Equal(t, "configs/spaces.yaml", cfg.SpacesConfigPath)
	assert.Equal(t, 30, cfg.BookingCutoffMinutes())
	assert.Equal(t, "reservas:events", cfg.RedisStream())
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db", "app.db")
	path := writeFile(t, "config.yaml", `
server:
  port: 9090
  rate_limit_rps: 25
  rate_burst: 50
database:
  path: `+dbPath+`
redis:
  address: localhost:6379
  stream: custom:events
monitoring:
  health_check_port: 8081
  prometheus_enabled: true
  prometheus_port: 9091
booking:
  cutoff_minutes: 45
  rules:
    boardroom:
      min_blocks: 2
      max_blocks: 8
spaces_config_path: /etc/reservas/spaces.yaml
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 25.0, cfg.Server.RateLimitRPS)
	assert.Equal(t, dbPath, cfg.Database.Path)
	assert.Equal(t, "custom:events", cfg.RedisStream())
	assert.Equal(t, 45, cfg.BookingCutoffMinutes())
	assert.Equal(t, 2, cfg.Booking.Rules["boardroom"].MinBlocks)
	assert.Equal(t, "/etc/reservas/spaces.yaml", cfg.SpacesConfigPath)

	// Load must create the database directory.
	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "redis.internal:6379")
	path := writeFile(t, "config.yaml", `
redis:
  address: ${TEST_REDIS_ADDR}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Address)
}

func TestLoad_NegativeCutoffDisables(t *testing.T) {
	path := writeFile(t, "config.yaml", `
booking:
  cutoff_minutes: -1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.BookingCutoffMinutes())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

const validSpacesYAML = `
offices:
  - id: 1
    number: "101"
    company_name: Acme Ltda
  - id: 2
    number: "202"
    company_name: Globex SA
spaces:
  - id: 1
    name: Sala Norte
    category: meeting_room
    active: true
  - id: 2
    name: Directorio
    category: boardroom
    active: true
  - id: 3
    name: Parqueo 12
    category: parking
    active: true
    owner_office_id: 1
  - id: 4
    name: Terraza
    category: terrace
    active: true
    use_custom_blocks: true
    custom_blocks:
      - start: "08:00"
        end: "10:00"
        label: Manana
      - start: "16:00"
        end: "18:00"
        label: Tarde
`

func TestLoadSpacesConfig_Valid(t *testing.T) {
	path := writeFile(t, "spaces.yaml", validSpacesYAML)
	cfg, err := LoadSpacesConfig(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Offices, 2)
	assert.Len(t, cfg.Spaces, 4)
	assert.Contains(t, cfg.String(), "4 spaces (4 active)")

	space := cfg.Spaces[3].ToSpace()
	assert.True(t, space.UseCustomBlocks)
	require.Len(t, space.CustomBlocks, 2)
	assert.Equal(t, "08:00", space.CustomBlocks[0].Start)
}

func TestSpacesConfigValidate_Errors(t *testing.T) {
	owner := int64(9)
	tests := []struct {
		name    string
		mutate  func(*SpacesConfig)
		wantErr string
	}{
		{
			name:    "no spaces",
			mutate:  func(c *SpacesConfig) { c.Spaces = nil },
			wantErr: "no spaces",
		},
		{
			name:    "duplicate space id",
			mutate:  func(c *SpacesConfig) { c.Spaces[1].ID = c.Spaces[0].ID },
			wantErr: "duplicate id",
		},
		{
			name:    "duplicate name",
			mutate:  func(c *SpacesConfig) { c.Spaces[1].Name = c.Spaces[0].Name },
			wantErr: "duplicate name",
		},
		{
			name:    "bad category",
			mutate:  func(c *SpacesConfig) { c.Spaces[0].Category = "pool" },
			wantErr: "category",
		},
		{
			name:    "owner on non-parking",
			mutate:  func(c *SpacesConfig) { c.Spaces[0].OwnerOfficeID = &owner },
			wantErr: "only valid for parking",
		},
		{
			name:    "undeclared owner office",
			mutate:  func(c *SpacesConfig) { c.Spaces[2].OwnerOfficeID = &owner },
			wantErr: "not declared",
		},
		{
			name: "custom flag without blocks",
			mutate: func(c *SpacesConfig) {
				c.Spaces[3].CustomBlocks = nil
			},
			wantErr: "without custom_blocks",
		},
		{
			name: "inverted custom block",
			mutate: func(c *SpacesConfig) {
				c.Spaces[3].CustomBlocks[0] = BlockConfig{Start: "10:00", End: "09:00"}
			},
			wantErr: "end must be after start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "spaces.yaml", validSpacesYAML)
			cfg, err := LoadSpacesConfig(path)
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatchSpaces_InitialLoadAndReload(t *testing.T) {
	path := writeFile(t, "spaces.yaml", validSpacesYAML)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan *SpacesConfig, 4)
	err := WatchSpaces(ctx, path, 20*time.Millisecond, func(c *SpacesConfig) {
		updates <- c
	})
	require.NoError(t, err)

	first := <-updates
	assert.Len(t, first.Spaces, 4)

	// Touch the file with new content; mtime granularity on some
	// filesystems is one second, so force it forward.
	updated := validSpacesYAML + `
  - id: 5
    name: Comedor
    category: dining
    active: true
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case second := <-updates:
		assert.Len(t, second.Spaces, 5)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatchSpaces_InvalidFile(t *testing.T) {
	path := writeFile(t, "spaces.yaml", "spaces: []")
	err := WatchSpaces(context.Background(), path, time.Second, nil)
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RuleConfig bounds blocks-per-submission for one category. Zero means
// no bound on that side.
type RuleConfig struct {
	MinBlocks int `yaml:"min_blocks"`
	MaxBlocks int `yaml:"max_blocks"`
}

type Config struct {
	Server struct {
		Port         int     `yaml:"port"`
		RateLimitRPS float64 `yaml:"rate_limit_rps"`
		RateBurst    int     `yaml:"rate_burst"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Stream   string `yaml:"stream"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		StoragePath   string `yaml:"storage_path"`
		RetentionDays int    `yaml:"retention_days"`
		IntervalHours int    `yaml:"interval_hours"`
	} `yaml:"backup"`

	Booking struct {
		// CutoffMinutes closes same-day bookings this many minutes
		// before the block starts. Missing or zero falls back to 30;
		// a negative value disables the rule.
		CutoffMinutes int                   `yaml:"cutoff_minutes"`
		Rules         map[string]RuleConfig `yaml:"rules"`
	} `yaml:"booking"`

	SpacesConfigPath string `yaml:"spaces_config_path"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/reservas.db"
	}
	if cfg.SpacesConfigPath == "" {
		cfg.SpacesConfigPath = "configs/spaces.yaml"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// BookingCutoffMinutes resolves the cutoff with its default.
func (c *Config) BookingCutoffMinutes() int {
	if c.Booking.CutoffMinutes < 0 {
		return 0
	}
	if c.Booking.CutoffMinutes == 0 {
		return 30
	}
	return c.Booking.CutoffMinutes
}

// RedisStream resolves the event stream key with its default.
func (c *Config) RedisStream() string {
	if c.Redis.Stream == "" {
		return "reservas:events"
	}
	return c.Redis.Stream
}

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/config"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/models"
)

// FindSpace returns the space with the given id, or (nil, nil) when it
// does not exist.
func (db *DB) FindSpace(ctx context.Context, id int64) (*models.Space, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, category, is_active, owner_office_id, visitor_parking, use_custom_blocks, custom_blocks
		FROM spaces WHERE id = ?`, id)

	space, err := scanSpace(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find space %d: %w", id, err)
	}
	return space, nil
}

// ListSpaces returns spaces ordered by name. With activeOnly set,
// deactivated spaces are skipped.
func (db *DB) ListSpaces(ctx context.Context, activeOnly bool) ([]models.Space, error) {
	query := `
		SELECT id, name, category, is_active, owner_office_id, visitor_parking, use_custom_blocks, custom_blocks
		FROM spaces`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	defer rows.Close()

	var spaces []models.Space
	for rows.Next() {
		space, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("list spaces: %w", err)
		}
		spaces = append(spaces, *space)
	}
	return spaces, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpace(row rowScanner) (*models.Space, error) {
	var (
		s         models.Space
		owner     sql.NullInt64
		rawBlocks sql.NullString
	)
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Active, &owner, &s.VisitorParking, &s.UseCustomBlocks, &rawBlocks)
	if err != nil {
		return nil, err
	}
	if owner.Valid {
		s.OwnerOfficeID = &owner.Int64
	}
	if rawBlocks.Valid && rawBlocks.String != "" {
		if err := json.Unmarshal([]byte(rawBlocks.String), &s.CustomBlocks); err != nil {
			return nil, fmt.Errorf("decode custom blocks for space %d: %w", s.ID, err)
		}
	}
	return &s, nil
}

// SyncSpacesFromConfig applies spaces.yaml to the database.
// It upserts offices and spaces and marks missing spaces inactive.
func (db *DB) SyncSpacesFromConfig(ctx context.Context, cfg *config.SpacesConfig) error {
	if cfg == nil {
		return fmt.Errorf("spaces config is nil")
	}

	now := time.Now()

	for _, o := range cfg.Offices {
		_, err := db.ExecContext(ctx, `
			INSERT INTO offices (id, number, company_name, created_at, updated_at)
			VALUES (?, ?, ?, COALESCE((SELECT created_at FROM offices WHERE id = ?), ?), ?)
			ON CONFLICT(id) DO UPDATE SET
				number = excluded.number,
				company_name = excluded.company_name,
				updated_at = excluded.updated_at`,
			o.ID, o.Number, o.CompanyName, o.ID, now, now,
		)
		if err != nil {
			return fmt.Errorf("sync office %d: %w", o.ID, err)
		}
	}

	seen := make(map[int64]struct{})
	for _, s := range cfg.Spaces {
		var rawBlocks any
		if len(s.CustomBlocks) > 0 {
			space := s.ToSpace()
			encoded, err := json.Marshal(space.CustomBlocks)
			if err != nil {
				return fmt.Errorf("encode custom blocks for space %d: %w", s.ID, err)
			}
			rawBlocks = string(encoded)
		}

		_, err := db.ExecContext(ctx, `
			INSERT INTO spaces (id, name, category, is_active, owner_office_id, visitor_parking, use_custom_blocks, custom_blocks, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, COALESCE((SELECT created_at FROM spaces WHERE id = ?), ?), ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				category = excluded.category,
				is_active = excluded.is_active,
				owner_office_id = excluded.owner_office_id,
				visitor_parking = excluded.visitor_parking,
				use_custom_blocks = excluded.use_custom_blocks,
				custom_blocks = excluded.custom_blocks,
				updated_at = excluded.updated_at`,
			s.ID, s.Name, s.Category, s.Active, s.OwnerOfficeID, s.VisitorParking, s.UseCustomBlocks, rawBlocks, s.ID, now, now,
		)
		if err != nil {
			return fmt.Errorf("sync space %d: %w", s.ID, err)
		}
		seen[s.ID] = struct{}{}
	}

	// Deactivate spaces that disappeared from config.
	rows, err := db.QueryContext(ctx, `SELECT id FROM spaces`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var stale []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		if _, ok := seen[id]; !ok {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range stale {
		if _, err := db.ExecContext(ctx, `UPDATE spaces SET is_active = 0, updated_at = ? WHERE id = ?`, now, id); err != nil {
			return fmt.Errorf("deactivate space %d: %w", id, err)
		}
		db.logger.Info().Int64("space_id", id).Msg("Space removed from config, deactivated")
	}

	return nil
}

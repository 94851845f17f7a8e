package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB wraps sql.DB for the reservation service.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

// NewDB opens the database at path and runs migrations.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode and a busy timeout so concurrent submissions don't trip
	// over SQLITE_BUSY.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	instance := &DB{DB: db, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, err
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		// Tenant offices
		`CREATE TABLE IF NOT EXISTS offices (
			id INTEGER PRIMARY KEY,
			number TEXT UNIQUE NOT NULL,
			company_name TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Bookable spaces
		`CREATE TABLE IF NOT EXISTS spaces (
			id INTEGER PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			category TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			owner_office_id INTEGER,
			visitor_parking BOOLEAN NOT NULL DEFAULT 0,
			use_custom_blocks BOOLEAN NOT NULL DEFAULT 0,
			custom_blocks TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (owner_office_id) REFERENCES offices(id)
		)`,

		// One row per booked block
		`CREATE TABLE IF NOT EXISTS reservations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			office_id INTEGER NOT NULL,
			space_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			start_minute INTEGER NOT NULL,
			end_minute INTEGER NOT NULL,
			visitor_name TEXT,
			visitor_plate TEXT,
			visitor_company TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (office_id) REFERENCES offices(id),
			FOREIGN KEY (space_id) REFERENCES spaces(id)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_spaces_active ON spaces(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_space_date ON reservations(space_id, date, start_minute, end_minute)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_office ON reservations(office_id, date)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}

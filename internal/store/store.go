package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS shifts (
		id            TEXT PRIMARY KEY,
		date          TEXT NOT NULL,
		start_time    TEXT NOT NULL,
		end_time      TEXT NOT NULL,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		type          TEXT NOT NULL DEFAULT 'normal',
		project       TEXT NOT NULL DEFAULT '',
		location      TEXT NOT NULL DEFAULT '',
		note          TEXT NOT NULL DEFAULT '',
		tags          TEXT NOT NULL DEFAULT '',
		created_at    INTEGER NOT NULL,
		updated_at    INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_date ON shifts(date);
	CREATE INDEX IF NOT EXISTS idx_shifts_type ON shifts(type);

	CREATE TABLE IF NOT EXISTS shift_templates (
		id     TEXT PRIMARY KEY,
		name   TEXT NOT NULL UNIQUE,
		shifts TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('rounding_minutes', '15'),
		('salary_enabled',   '0'),
		('hourly_rate',      '50000'),
		('ot_multiplier',    '1.5'),
		('night_multiplier', '1.3'),
		('ot_rule_enabled',  '1'),
		('ot_after_time',    '18:00'),
		('export_project',   '1'),
		('export_location',  '1'),
		('export_note',      '1'),
		('export_tags',      '0');

	INSERT OR IGNORE INTO shift_templates (id, name, shifts) VALUES
		('office-9-6', 'Office 9-6',
		 '[{"start":"09:00","end":"12:00","breakMinutes":0,"type":"normal"},{"start":"13:30","end":"18:00","breakMinutes":0,"type":"normal"}]');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/shiftlog/shiftlog.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "shiftlog", "shiftlog.db"), nil
}

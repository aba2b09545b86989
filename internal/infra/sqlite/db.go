// Package sqlite provides SQLite-based persistent storage for FanPulse.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Member accounts (the persistence collaborator's user record)
		`CREATE TABLE IF NOT EXISTS users (
			id           TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			language     TEXT NOT NULL DEFAULT '',
			favorites    TEXT NOT NULL DEFAULT '[]',
			active       BOOLEAN NOT NULL DEFAULT 1,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_active ON users(active)`,

		// Per-user gamification ledger state
		`CREATE TABLE IF NOT EXISTS gamification (
			user_id          TEXT PRIMARY KEY,
			experience       INTEGER NOT NULL DEFAULT 0,
			level            INTEGER NOT NULL DEFAULT 1,
			streak_current   INTEGER NOT NULL DEFAULT 0,
			streak_longest   INTEGER NOT NULL DEFAULT 0,
			last_activity_at INTEGER
		)`,

		// Achievement progress, one row per (user, achievement)
		`CREATE TABLE IF NOT EXISTS user_achievements (
			user_id        TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			progress       INTEGER NOT NULL DEFAULT 0,
			earned_at      INTEGER,
			PRIMARY KEY (user_id, achievement_id)
		)`,

		// Append-only audit trail of experience awards
		`CREATE TABLE IF NOT EXISTS experience_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			points     INTEGER NOT NULL,
			reason     TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_xplog_user ON experience_log(user_id, created_at)`,

		// Wearable-device snapshot (latest sync per user)
		`CREATE TABLE IF NOT EXISTS device_state (
			user_id       TEXT PRIMARY KEY,
			battery_level INTEGER NOT NULL DEFAULT 0,
			connected     BOOLEAN NOT NULL DEFAULT 0,
			model         TEXT NOT NULL DEFAULT '',
			last_sync_at  INTEGER
		)`,

		// Accessibility configuration (row present = configured)
		`CREATE TABLE IF NOT EXISTS accessibility_settings (
			user_id        TEXT PRIMARY KEY,
			reduced_motion BOOLEAN NOT NULL DEFAULT 0,
			screen_reader  BOOLEAN NOT NULL DEFAULT 0,
			assistive_tech BOOLEAN NOT NULL DEFAULT 0,
			high_contrast  BOOLEAN NOT NULL DEFAULT 0,
			font_scale     REAL NOT NULL DEFAULT 1.0
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

package store

import (
	"database/sql"
	"fmt"
)

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			date TEXT PRIMARY KEY,
			distance REAL NOT NULL,
			duration INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			minhr INTEGER NOT NULL,
			maxhr INTEGER NOT NULL,
			avghr INTEGER NOT NULL,
			calories INTEGER NOT NULL,
			resting_hr INTEGER NOT NULL,
			activity_type TEXT NOT NULL,
			elev_gain REAL,
			elev_source TEXT NOT NULL DEFAULT '',
			log_id INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS tcx_files (
			date TEXT PRIMARY KEY REFERENCES runs(date) ON DELETE CASCADE,
			body TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reference_elevations (
			date TEXT PRIMARY KEY,
			elev_gain REAL NOT NULL,
			source TEXT NOT NULL,
			activity_id INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_activity_type ON runs(activity_type)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	return nil
}

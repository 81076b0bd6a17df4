package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Sync state keys.
const (
	SyncKeyLastRunSync    = "last_run_sync"
	SyncKeyLastStravaSync = "last_strava_sync"
)

// GetSyncState retrieves a sync state value, returning "" if unset.
func (db *DB) GetSyncState(key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM sync_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting sync state: %w", err)
	}
	return value, nil
}

// SetSyncState stores a sync state value.
func (db *DB) SetSyncState(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO sync_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("setting sync state: %w", err)
	}
	return nil
}

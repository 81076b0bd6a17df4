package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveAuth stores the OAuth tokens, replacing any previous ones.
func (db *DB) SaveAuth(auth Auth) error {
	_, err := db.Exec(`
		INSERT INTO auth (id, access_token, refresh_token, expires_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at
	`, auth.AccessToken, auth.RefreshToken, auth.ExpiresAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	return nil
}

// GetAuth retrieves the stored OAuth tokens, returning ErrNoAuth if none.
func (db *DB) GetAuth() (*Auth, error) {
	var auth Auth
	var expiresAt string
	err := db.QueryRow(`
		SELECT access_token, refresh_token, expires_at FROM auth WHERE id = 1
	`).Scan(&auth.AccessToken, &auth.RefreshToken, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAuth
	}
	if err != nil {
		return nil, fmt.Errorf("getting auth: %w", err)
	}
	auth.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)
	return &auth, nil
}

// DeleteAuth removes the stored tokens.
func (db *DB) DeleteAuth() error {
	if _, err := db.Exec(`DELETE FROM auth WHERE id = 1`); err != nil {
		return fmt.Errorf("deleting auth: %w", err)
	}
	return nil
}

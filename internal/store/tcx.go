package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveTCX caches a raw TCX document for a run date.
func (db *DB) SaveTCX(date, body string) error {
	_, err := db.Exec(`
		INSERT INTO tcx_files (date, body, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, date, body, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving tcx: %w", err)
	}
	return nil
}

// GetTCX retrieves the cached TCX document for a date, returning ErrNoTCX
// if absent.
func (db *DB) GetTCX(date string) (*TCXFile, error) {
	var file TCXFile
	var fetchedAt string
	err := db.QueryRow(`
		SELECT date, body, fetched_at FROM tcx_files WHERE date = ?
	`, date).Scan(&file.Date, &file.Body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoTCX
	}
	if err != nil {
		return nil, fmt.Errorf("getting tcx: %w", err)
	}
	file.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
	return &file, nil
}

// HasTCX reports whether a TCX document is cached for the date.
func (db *DB) HasTCX(date string) (bool, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM tcx_files WHERE date = ?`, date).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking tcx: %w", err)
	}
	return count > 0, nil
}

// ListTCXDates returns the dates that have cached TCX documents, ascending.
func (db *DB) ListTCXDates() ([]string, error) {
	rows, err := db.Query(`SELECT date FROM tcx_files ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing tcx dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scanning tcx date: %w", err)
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

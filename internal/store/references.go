package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// UpsertReference stores a trusted elevation gain for a date.
func (db *DB) UpsertReference(ref ReferenceElevation) error {
	_, err := db.Exec(`
		INSERT INTO reference_elevations (date, elev_gain, source, activity_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			elev_gain = excluded.elev_gain,
			source = excluded.source,
			activity_id = excluded.activity_id
	`, ref.Date, ref.ElevGain, ref.Source, ref.ActivityID)
	if err != nil {
		return fmt.Errorf("upserting reference elevation: %w", err)
	}
	return nil
}

// GetReference retrieves the reference elevation for a date, returning
// ErrNoReference if absent.
func (db *DB) GetReference(date string) (*ReferenceElevation, error) {
	var ref ReferenceElevation
	err := db.QueryRow(`
		SELECT date, elev_gain, source, activity_id
		FROM reference_elevations WHERE date = ?
	`, date).Scan(&ref.Date, &ref.ElevGain, &ref.Source, &ref.ActivityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoReference
	}
	if err != nil {
		return nil, fmt.Errorf("getting reference elevation: %w", err)
	}
	return &ref, nil
}

// ListReferences returns all reference elevations ordered by date ascending.
func (db *DB) ListReferences() ([]ReferenceElevation, error) {
	rows, err := db.Query(`
		SELECT date, elev_gain, source, activity_id
		FROM reference_elevations ORDER BY date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing reference elevations: %w", err)
	}
	defer rows.Close()

	var refs []ReferenceElevation
	for rows.Next() {
		var ref ReferenceElevation
		if err := rows.Scan(&ref.Date, &ref.ElevGain, &ref.Source, &ref.ActivityID); err != nil {
			return nil, fmt.Errorf("scanning reference elevation: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

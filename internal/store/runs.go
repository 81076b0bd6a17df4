package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// UpsertRun inserts or updates a run by date. A re-sync of an existing
// date refreshes the summary fields but preserves a previously computed
// elevation gain unless the new row carries one.
func (db *DB) UpsertRun(run Run) error {
	_, err := db.Exec(`
		INSERT INTO runs (date, distance, duration, steps, minhr, maxhr, avghr,
			calories, resting_hr, activity_type, elev_gain, elev_source, log_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			distance = excluded.distance,
			duration = excluded.duration,
			steps = excluded.steps,
			minhr = excluded.minhr,
			maxhr = excluded.maxhr,
			avghr = excluded.avghr,
			calories = excluded.calories,
			resting_hr = excluded.resting_hr,
			activity_type = excluded.activity_type,
			elev_gain = COALESCE(excluded.elev_gain, runs.elev_gain),
			elev_source = CASE WHEN excluded.elev_gain IS NULL
				THEN runs.elev_source ELSE excluded.elev_source END,
			log_id = excluded.log_id
	`, run.Date, run.Distance, run.Duration, run.Steps, run.MinHR, run.MaxHR,
		run.AvgHR, run.Calories, run.RestingHR, run.ActivityType,
		run.ElevGain, run.ElevSource, run.LogID)
	if err != nil {
		return fmt.Errorf("upserting run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by date, returning ErrRunNotFound if absent.
func (db *DB) GetRun(date string) (*Run, error) {
	run, err := scanRun(db.QueryRow(`
		SELECT date, distance, duration, steps, minhr, maxhr, avghr,
			calories, resting_hr, activity_type, elev_gain, elev_source, log_id
		FROM runs WHERE date = ?
	`, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs ordered by date ascending.
func (db *DB) ListRuns() ([]Run, error) {
	return db.queryRuns(`
		SELECT date, distance, duration, steps, minhr, maxhr, avghr,
			calories, resting_hr, activity_type, elev_gain, elev_source, log_id
		FROM runs ORDER BY date ASC
	`)
}

// ListRunsByType returns runs whose activity type is one of the given
// values, ordered by date ascending.
func (db *DB) ListRunsByType(types ...string) ([]Run, error) {
	if len(types) == 0 {
		return db.ListRuns()
	}
	query := `
		SELECT date, distance, duration, steps, minhr, maxhr, avghr,
			calories, resting_hr, activity_type, elev_gain, elev_source, log_id
		FROM runs WHERE activity_type IN (?` // first placeholder
	args := make([]any, 0, len(types))
	args = append(args, types[0])
	for _, t := range types[1:] {
		query += ", ?"
		args = append(args, t)
	}
	query += ") ORDER BY date ASC"
	return db.queryRuns(query, args...)
}

// ListRunsWithoutElevation returns runs that have no elevation gain yet,
// ordered by date ascending.
func (db *DB) ListRunsWithoutElevation() ([]Run, error) {
	return db.queryRuns(`
		SELECT date, distance, duration, steps, minhr, maxhr, avghr,
			calories, resting_hr, activity_type, elev_gain, elev_source, log_id
		FROM runs WHERE elev_gain IS NULL ORDER BY date ASC
	`)
}

// LatestRunDate returns the most recent run date, or "" when the table is
// empty.
func (db *DB) LatestRunDate() (string, error) {
	var date sql.NullString
	err := db.QueryRow(`SELECT MAX(date) FROM runs`).Scan(&date)
	if err != nil {
		return "", fmt.Errorf("getting latest run date: %w", err)
	}
	if !date.Valid {
		return "", nil
	}
	return date.String, nil
}

// SetElevation records an elevation gain in feet for a run.
func (db *DB) SetElevation(date string, elevGain float64, source string) error {
	result, err := db.Exec(`
		UPDATE runs SET elev_gain = ?, elev_source = ? WHERE date = ?
	`, elevGain, source, date)
	if err != nil {
		return fmt.Errorf("setting elevation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRunNotFound
	}
	return nil
}

// CountRuns returns the number of cached runs.
func (db *DB) CountRuns() (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return count, nil
}

func (db *DB) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var elevGain sql.NullFloat64
	err := row.Scan(&run.Date, &run.Distance, &run.Duration, &run.Steps,
		&run.MinHR, &run.MaxHR, &run.AvgHR, &run.Calories, &run.RestingHR,
		&run.ActivityType, &elevGain, &run.ElevSource, &run.LogID)
	if err != nil {
		return nil, err
	}
	if elevGain.Valid {
		run.ElevGain = &elevGain.Float64
	}
	return &run, nil
}

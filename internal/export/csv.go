// Package export writes the cached run history to CSV for use in
// spreadsheets and external analysis.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/BBrav0/FitbitDataReader/internal/store"
)

// Header is the column layout of the exported CSV.
var Header = []string{
	"date", "distance_mi", "duration_ms", "steps",
	"minhr", "maxhr", "avghr", "calories", "resting_hr",
	"activity_type", "elev_gain_ft", "elev_source",
}

// RunTypes are the activity types included in exports.
var RunTypes = []string{"Run", "Treadmill run"}

// WriteRuns writes runs as CSV to w, oldest first.
func WriteRuns(w io.Writer, runs []store.Run) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, run := range runs {
		elevGain := ""
		if run.ElevGain != nil {
			elevGain = strconv.FormatFloat(*run.ElevGain, 'f', 2, 64)
		}
		record := []string{
			run.Date,
			strconv.FormatFloat(run.Distance, 'f', 2, 64),
			strconv.FormatInt(run.Duration, 10),
			strconv.Itoa(run.Steps),
			strconv.Itoa(run.MinHR),
			strconv.Itoa(run.MaxHR),
			strconv.Itoa(run.AvgHR),
			strconv.Itoa(run.Calories),
			strconv.Itoa(run.RestingHR),
			run.ActivityType,
			elevGain,
			run.ElevSource,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing run %s: %w", run.Date, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ToFile exports all cached runs (outdoor and treadmill) to a CSV file.
func ToFile(db *store.DB, path string) (int, error) {
	runs, err := db.ListRunsByType(RunTypes...)
	if err != nil {
		return 0, fmt.Errorf("loading runs: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteRuns(f, runs); err != nil {
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", path, err)
	}

	return len(runs), nil
}

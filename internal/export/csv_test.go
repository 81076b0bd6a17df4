package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BBrav0/FitbitDataReader/internal/store"
)

func TestWriteRuns(t *testing.T) {
	elev := 215.5
	runs := []store.Run{
		{
			Date: "2026-08-01", Distance: 5.25, Duration: 2700000, Steps: 8200,
			MinHR: 92, MaxHR: 178, AvgHR: 152, Calories: 610, RestingHR: 48,
			ActivityType: "Run", ElevGain: &elev, ElevSource: store.ElevSourceEstimated,
		},
		{
			Date: "2026-08-02", Distance: 3.1, Duration: 1800000, Steps: 5100,
			MinHR: 95, MaxHR: 165, AvgHR: 148, Calories: 350, RestingHR: 48,
			ActivityType: "Treadmill run",
		},
	}

	var sb strings.Builder
	if err := WriteRuns(&sb, runs); err != nil {
		t.Fatalf("WriteRuns: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (header + 2 runs)", len(records))
	}
	if records[0][0] != "date" || records[0][10] != "elev_gain_ft" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][10] != "215.50" {
		t.Errorf("elev_gain_ft = %q, want 215.50", records[1][10])
	}
	// Missing elevation exports as empty, not zero
	if records[2][10] != "" {
		t.Errorf("missing elevation should be empty, got %q", records[2][10])
	}
	if records[2][9] != "Treadmill run" {
		t.Errorf("activity_type = %q", records[2][9])
	}
}

func TestToFileFiltersNonRuns(t *testing.T) {
	db := store.NewTestDB(t)

	base := store.Run{
		Distance: 4, Duration: 2400000, Steps: 6000,
		MinHR: 90, MaxHR: 170, AvgHR: 150, Calories: 500, RestingHR: 50,
	}
	run := base
	run.Date, run.ActivityType = "2026-08-01", "Run"
	treadmill := base
	treadmill.Date, treadmill.ActivityType = "2026-08-02", "Treadmill run"
	walk := base
	walk.Date, walk.ActivityType = "2026-08-03", "Walk"
	for _, r := range []store.Run{run, treadmill, walk} {
		if err := db.UpsertRun(r); err != nil {
			t.Fatalf("UpsertRun: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "runs.csv")
	count, err := ToFile(db, path)
	if err != nil {
		t.Fatalf("ToFile: %v", err)
	}
	if count != 2 {
		t.Errorf("exported %d runs, want 2", count)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if strings.Contains(string(data), "Walk") {
		t.Error("walk should not be exported")
	}
	if !strings.Contains(string(data), "2026-08-01") || !strings.Contains(string(data), "2026-08-02") {
		t.Error("expected both run dates in output")
	}
}

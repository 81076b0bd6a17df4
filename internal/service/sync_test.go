package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/BBrav0/FitbitDataReader/internal/elevation"
	"github.com/BBrav0/FitbitDataReader/internal/fitbit"
	"github.com/BBrav0/FitbitDataReader/internal/store"
	"github.com/BBrav0/FitbitDataReader/internal/strava"
)

type fakeFitbit struct {
	days      map[string]*fitbit.DailyActivities
	tcx       map[int64]string
	restingHR map[string]int
	apiCalls  int
	tcxCalls  int
}

func (f *fakeFitbit) GetActivitiesForDate(ctx context.Context, date string) (*fitbit.DailyActivities, error) {
	f.apiCalls++
	if daily, ok := f.days[date]; ok {
		return daily, nil
	}
	return &fitbit.DailyActivities{}, nil
}

func (f *fakeFitbit) GetTCX(ctx context.Context, logID int64) (string, error) {
	f.tcxCalls++
	body, ok := f.tcx[logID]
	if !ok {
		return "", fmt.Errorf("no tcx for log %d", logID)
	}
	return body, nil
}

func (f *fakeFitbit) GetRestingHeartRate(ctx context.Context, date string) (int, error) {
	return f.restingHR[date], nil
}

func (f *fakeFitbit) RateLimitStatus() int { return 150 }

type fakeStrava struct {
	activities []strava.Activity
}

func (f *fakeStrava) GetAllActivities(ctx context.Context, after time.Time, onProgress func(int)) ([]strava.Activity, error) {
	return f.activities, nil
}

// tcxDocument builds a minimal TCX body with the given altitudes.
func tcxDocument(altitudes []float64) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><TrainingCenterDatabase><Activities><Activity Sport="Running"><Lap><Track>`)
	for _, alt := range altitudes {
		fmt.Fprintf(&sb, `<Trackpoint><AltitudeMeters>%f</AltitudeMeters></Trackpoint>`, alt)
	}
	sb.WriteString(`</Track></Lap></Activity></Activities></TrainingCenterDatabase>`)
	return sb.String()
}

func runActivity(logID int64, name string, distance float64) fitbit.ActivityLog {
	return fitbit.ActivityLog{
		LogID:            logID,
		Name:             name,
		Distance:         distance,
		Duration:         2700000,
		Steps:            8000,
		Calories:         600,
		AverageHeartRate: 150,
		HeartRateZones: []fitbit.HeartRateZone{
			{Name: "Fat Burn", Min: 98, Max: 137, Minutes: 10},
			{Name: "Cardio", Min: 137, Max: 166, Minutes: 25},
		},
	}
}

func newTestSync(t *testing.T, fb *fakeFitbit, sv StravaAPI, now time.Time) (*SyncService, *store.DB) {
	t.Helper()
	db := store.NewTestDB(t)
	s := NewSyncService(fb, sv, db, elevation.DefaultConfig())
	s.now = func() time.Time { return now }
	return s, db
}

func TestSyncAllStoresRunsAndElevation(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	// A climb from 100m to 130m, long enough to survive smoothing.
	trace := make([]float64, 80)
	for i := range trace {
		trace[i] = 100 + float64(i)*30.0/79.0
	}

	fb := &fakeFitbit{
		days: map[string]*fitbit.DailyActivities{
			"2026-08-19": {
				Activities: []fitbit.ActivityLog{runActivity(500, "Run", 5.0)},
				Summary:    fitbit.DailySummary{RestingHeartRate: 47},
			},
		},
		tcx: map[int64]string{500: tcxDocument(trace)},
	}

	s, db := newTestSync(t, fb, nil, now)

	// Seed an older run so the sync window starts the day after it.
	seed := store.Run{Date: "2026-08-18", Distance: 3, Duration: 1800000, ActivityType: "Treadmill run"}
	if err := db.UpsertRun(seed); err != nil {
		t.Fatalf("seeding run: %v", err)
	}

	result, err := s.SyncAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("SyncAll: %v", err)
	}

	if result.DaysChecked != 2 {
		t.Errorf("DaysChecked = %d, want 2 (19th and 20th)", result.DaysChecked)
	}
	if result.RunsStored != 1 {
		t.Errorf("RunsStored = %d, want 1", result.RunsStored)
	}
	if result.TCXFetched != 1 {
		t.Errorf("TCXFetched = %d, want 1", result.TCXFetched)
	}
	// Both the seeded treadmill run and the new outdoor run get elevations
	if result.ElevationsComputed != 2 {
		t.Errorf("ElevationsComputed = %d, want 2", result.ElevationsComputed)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	run, err := db.GetRun("2026-08-19")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.RestingHR != 47 {
		t.Errorf("RestingHR = %d, want 47", run.RestingHR)
	}
	if run.MinHR != 98 || run.MaxHR != 166 {
		t.Errorf("HR bounds = %d/%d, want 98/166", run.MinHR, run.MaxHR)
	}
	if run.ElevGain == nil {
		t.Fatal("expected estimated elevation")
	}
	// 30m climb is ~98.4ft; smoothing trims the window ends
	if *run.ElevGain < 70 || *run.ElevGain > 100 {
		t.Errorf("ElevGain = %v ft, want roughly 80", *run.ElevGain)
	}
	if run.ElevSource != store.ElevSourceEstimated {
		t.Errorf("ElevSource = %q, want estimated", run.ElevSource)
	}

	// Treadmill run gets zero elevation
	treadmill, err := db.GetRun("2026-08-18")
	if err != nil {
		t.Fatalf("GetRun treadmill: %v", err)
	}
	if treadmill.ElevGain == nil || *treadmill.ElevGain != 0 {
		t.Errorf("treadmill ElevGain = %v, want 0", treadmill.ElevGain)
	}
}

func TestSyncPicksLongestRunOfDay(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	fb := &fakeFitbit{
		days: map[string]*fitbit.DailyActivities{
			"2026-08-20": {
				Activities: []fitbit.ActivityLog{
					runActivity(1, "Run", 2.0),
					runActivity(2, "Run", 6.5),
					{LogID: 3, Name: "Walk", Distance: 10},
				},
			},
		},
		tcx: map[int64]string{2: tcxDocument([]float64{100, 100})},
	}

	s, db := newTestSync(t, fb, nil, now)
	if err := db.UpsertRun(store.Run{Date: "2026-08-19", ActivityType: "Run"}); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	if _, err := s.SyncAll(context.Background(), nil); err != nil {
		t.Fatalf("SyncAll: %v", err)
	}

	run, err := db.GetRun("2026-08-20")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.LogID != 2 || run.Distance != 6.5 {
		t.Errorf("picked run %d (%.1f mi), want log 2 at 6.5 mi", run.LogID, run.Distance)
	}
}

func TestSyncAppliesStravaReferences(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	trace := make([]float64, 60)
	for i := range trace {
		trace[i] = 100 + float64(i)*0.5
	}

	fb := &fakeFitbit{
		days: map[string]*fitbit.DailyActivities{
			"2026-08-20": {
				Activities: []fitbit.ActivityLog{runActivity(700, "Run", 4.0)},
			},
		},
		tcx: map[int64]string{700: tcxDocument(trace)},
	}
	sv := &fakeStrava{
		activities: []strava.Activity{
			{
				ID:                 9001,
				Type:               "Run",
				StartDateLocal:     time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC),
				TotalElevationGain: 50, // meters
			},
			{
				ID:             9002,
				Type:           "Ride",
				StartDateLocal: time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC),
			},
		},
	}

	s, db := newTestSync(t, fb, sv, now)
	if err := db.UpsertRun(store.Run{Date: "2026-08-19", ActivityType: "Run"}); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	result, err := s.SyncAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("SyncAll: %v", err)
	}
	if result.ReferencesApplied != 1 {
		t.Errorf("ReferencesApplied = %d, want 1", result.ReferencesApplied)
	}

	run, err := db.GetRun("2026-08-20")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.ElevSource != store.ElevSourceStrava {
		t.Errorf("ElevSource = %q, want strava", run.ElevSource)
	}
	want := 50 * 3.28084
	if run.ElevGain == nil || *run.ElevGain != want {
		t.Errorf("ElevGain = %v, want %v", run.ElevGain, want)
	}

	// The ride should not have produced a reference
	if _, err := db.GetReference("2026-08-20"); err != nil {
		t.Errorf("expected reference for run date: %v", err)
	}
	refs, err := db.ListReferences()
	if err != nil {
		t.Fatalf("ListReferences: %v", err)
	}
	if len(refs) != 1 {
		t.Errorf("got %d references, want 1", len(refs))
	}
}

func TestSyncProgressPhases(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	fb := &fakeFitbit{
		days: map[string]*fitbit.DailyActivities{
			"2026-08-20": {
				Activities: []fitbit.ActivityLog{runActivity(800, "Run", 3.0)},
			},
		},
		tcx: map[int64]string{800: tcxDocument([]float64{100, 101, 102})},
	}

	s, db := newTestSync(t, fb, nil, now)
	if err := db.UpsertRun(store.Run{Date: "2026-08-19", ActivityType: "Run"}); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	progress := make(chan SyncProgress, 64)
	if _, err := s.SyncAll(context.Background(), progress); err != nil {
		t.Fatalf("SyncAll: %v", err)
	}

	phases := map[string]bool{}
	for p := range progress {
		phases[p.Phase] = true
	}
	for _, want := range []string{"runs", "tcx", "elevation"} {
		if !phases[want] {
			t.Errorf("missing progress phase %q", want)
		}
	}
	// No Strava client, so no references phase
	if phases["references"] {
		t.Error("references phase should be skipped without a client")
	}
}

func TestSyncCancelled(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	fb := &fakeFitbit{}

	s, _ := newTestSync(t, fb, nil, now)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SyncAll(ctx, nil)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

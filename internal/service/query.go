package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/BBrav0/FitbitDataReader/internal/calibrate"
	"github.com/BBrav0/FitbitDataReader/internal/elevation"
	"github.com/BBrav0/FitbitDataReader/internal/store"
	"github.com/BBrav0/FitbitDataReader/internal/tcx"
)

// QueryService provides read-only queries for the TUI and CLI
type QueryService struct {
	store     *store.DB
	estimator elevation.Config
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB, estimator elevation.Config) *QueryService {
	return &QueryService{store: db, estimator: estimator}
}

// DashboardData contains all data needed for the dashboard
type DashboardData struct {
	TotalRuns  int
	TotalMiles float64

	// This week
	WeekRunCount int
	WeekDistance float64 // miles
	WeekElevGain float64 // feet

	// Recent runs, newest first
	RecentRuns []store.Run

	// For charts
	WeeklyMileage []float64 // Last 12 weeks of mileage
	WeeklyLabels  []string  // Week labels (e.g., "Jan 06")
}

// GetDashboardData fetches all data needed for the dashboard
func (q *QueryService) GetDashboardData() (*DashboardData, error) {
	runs, err := q.store.ListRunsByType("Run", "Treadmill run")
	if err != nil {
		return nil, err
	}

	data := &DashboardData{TotalRuns: len(runs)}
	for _, run := range runs {
		data.TotalMiles += run.Distance
	}

	data.WeekRunCount, data.WeekDistance, data.WeekElevGain = q.weekStats(runs)
	data.WeeklyMileage, data.WeeklyLabels = q.buildWeeklyMileage(runs)

	// Newest first for the recent list
	for i := len(runs) - 1; i >= 0 && len(data.RecentRuns) < RecentRunsLimit; i-- {
		data.RecentRuns = append(data.RecentRuns, runs[i])
	}

	return data, nil
}

// weekStats aggregates the current week (Monday start)
func (q *QueryService) weekStats(runs []store.Run) (count int, miles, elevGain float64) {
	weekStart := getMonday(time.Now()).Format(DateLayout)
	for _, run := range runs {
		if run.Date < weekStart {
			continue
		}
		count++
		miles += run.Distance
		if run.ElevGain != nil {
			elevGain += *run.ElevGain
		}
	}
	return
}

// buildWeeklyMileage builds the 12-week mileage chart data
func (q *QueryService) buildWeeklyMileage(runs []store.Run) (mileage []float64, labels []string) {
	numWeeks := ChartWeeks
	currentWeekStart := getMonday(time.Now())

	mileage = make([]float64, numWeeks)
	labels = make([]string, numWeeks)

	weekStarts := make([]time.Time, numWeeks)
	for i := 0; i < numWeeks; i++ {
		weekStarts[i] = currentWeekStart.AddDate(0, 0, -7*(numWeeks-1-i))
		labels[i] = weekStarts[i].Format("Jan 02")
	}

	for _, run := range runs {
		date, err := time.Parse(DateLayout, run.Date)
		if err != nil {
			continue
		}
		for i := 0; i < numWeeks; i++ {
			weekEnd := weekStarts[i].AddDate(0, 0, 7)
			if !date.Before(weekStarts[i]) && date.Before(weekEnd) {
				mileage[i] += run.Distance
				break
			}
		}
	}

	return
}

// GetRunsList returns all runs, newest first
func (q *QueryService) GetRunsList() ([]store.Run, error) {
	runs, err := q.store.ListRunsByType("Run", "Treadmill run")
	if err != nil {
		return nil, err
	}
	// Reverse to newest first
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

// RunDetail contains everything the detail screen shows for one run.
type RunDetail struct {
	Run       store.Run
	Trace     []float64 // raw altitude trace in meters, empty without TCX
	Smoothed  []float64
	Climbs    []elevation.Climb
	Stats     *elevation.Stats
	Reference *store.ReferenceElevation // nil when no Strava reference
}

// GetRunDetail returns the run plus its altitude profile and climb
// breakdown when a TCX document is cached.
func (q *QueryService) GetRunDetail(date string) (*RunDetail, error) {
	run, err := q.store.GetRun(date)
	if err != nil {
		return nil, err
	}

	detail := &RunDetail{Run: *run}

	if ref, err := q.store.GetReference(date); err == nil {
		detail.Reference = ref
	}

	file, err := q.store.GetTCX(date)
	if errors.Is(err, store.ErrNoTCX) {
		return detail, nil
	}
	if err != nil {
		return nil, err
	}

	trace, err := tcx.AltitudeTrace(file.Body)
	if errors.Is(err, tcx.ErrNoAltitude) {
		return detail, nil
	}
	if err != nil {
		return nil, err
	}

	detail.Trace = trace
	detail.Smoothed = elevation.Smooth(trace, q.estimator.SmoothingWindow)
	detail.Climbs = elevation.Breakdown(trace, q.estimator)
	stats := elevation.TraceStats(trace)
	detail.Stats = &stats

	return detail, nil
}

// GetTraceStats returns altitude trace statistics for a date.
func (q *QueryService) GetTraceStats(date string) (*elevation.Stats, error) {
	file, err := q.store.GetTCX(date)
	if err != nil {
		return nil, err
	}
	trace, err := tcx.AltitudeTrace(file.Body)
	if err != nil {
		return nil, err
	}
	stats := elevation.TraceStats(trace)
	return &stats, nil
}

// CalibrationCases builds the case set for threshold calibration: every
// run with both a cached altitude trace and a Strava reference.
func (q *QueryService) CalibrationCases() ([]calibrate.Case, error) {
	refs, err := q.store.ListReferences()
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}

	var cases []calibrate.Case
	for _, ref := range refs {
		file, err := q.store.GetTCX(ref.Date)
		if errors.Is(err, store.ErrNoTCX) {
			continue
		}
		if err != nil {
			return nil, err
		}
		trace, err := tcx.AltitudeTrace(file.Body)
		if errors.Is(err, tcx.ErrNoAltitude) {
			continue
		}
		if err != nil {
			continue
		}
		cases = append(cases, calibrate.Case{
			ID:            ref.Date,
			Trace:         trace,
			ReferenceFeet: ref.ElevGain,
		})
	}
	return cases, nil
}

// getMonday returns the Monday of the week containing t, at midnight
func getMonday(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the previous week
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

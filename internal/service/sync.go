// Package service orchestrates the data pipeline: pulling daily logs and
// TCX files from Fitbit, estimating elevation gain from the altitude
// traces, and overriding estimates with Strava references where a run has
// one. It also serves read queries for the TUI.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BBrav0/FitbitDataReader/internal/elevation"
	"github.com/BBrav0/FitbitDataReader/internal/fitbit"
	"github.com/BBrav0/FitbitDataReader/internal/store"
	"github.com/BBrav0/FitbitDataReader/internal/strava"
	"github.com/BBrav0/FitbitDataReader/internal/tcx"
)

// FitbitAPI is the slice of the Fitbit client the sync needs.
type FitbitAPI interface {
	GetActivitiesForDate(ctx context.Context, date string) (*fitbit.DailyActivities, error)
	GetTCX(ctx context.Context, logID int64) (string, error)
	GetRestingHeartRate(ctx context.Context, date string) (int, error)
	RateLimitStatus() (remaining int)
}

// StravaAPI is the slice of the Strava client the sync needs.
type StravaAPI interface {
	GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]strava.Activity, error)
}

// SyncService orchestrates syncing data from Fitbit and Strava
type SyncService struct {
	fitbit    FitbitAPI
	strava    StravaAPI // nil when no Strava token is configured
	store     *store.DB
	estimator elevation.Config
	now       func() time.Time
}

// NewSyncService creates a new sync service. stravaClient may be nil, in
// which case the reference override phase is skipped.
func NewSyncService(fitbitClient FitbitAPI, stravaClient StravaAPI, db *store.DB, estimator elevation.Config) *SyncService {
	return &SyncService{
		fitbit:    fitbitClient,
		strava:    stravaClient,
		store:     db,
		estimator: estimator,
		now:       time.Now,
	}
}

// RateLimitStatus returns remaining Fitbit requests in the current hour.
func (s *SyncService) RateLimitStatus() (remaining int) {
	return s.fitbit.RateLimitStatus()
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase      string // "runs", "tcx", "elevation", "references"
	Total      int
	Completed  int
	CurrentRun string
	Error      error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	DaysChecked        int
	RunsStored         int
	TCXFetched         int
	ElevationsComputed int
	ReferencesApplied  int
	Errors             []error
}

// SyncAll performs a full sync: daily logs -> TCX -> elevation -> references
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	// Phase 1: Pull daily activity logs
	if err := s.syncRuns(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing runs: %w", err)
	}

	// Phase 2: Download TCX for outdoor runs that need it
	if err := s.syncTCX(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing tcx: %w", err)
	}

	// Phase 3: Estimate elevation for runs that lack it
	if err := s.computeElevations(ctx, progress, result); err != nil {
		return result, fmt.Errorf("computing elevations: %w", err)
	}

	// Phase 4: Apply Strava reference elevations where available
	if err := s.applyReferences(ctx, progress, result); err != nil {
		return result, fmt.Errorf("applying references: %w", err)
	}

	return result, nil
}

// syncRuns walks the dates from the day after the newest cached run
// through today and stores any run activities found.
func (s *SyncService) syncRuns(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	today := s.now().Format(DateLayout)

	start, err := s.firstDateToSync()
	if err != nil {
		return err
	}

	var dates []string
	for d := start; d.Format(DateLayout) <= today; d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "runs", Total: len(dates)}
	}

	for i, date := range dates {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		daily, err := s.fitbit.GetActivitiesForDate(ctx, date)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", date, err)
		}
		result.DaysChecked++

		run, found := pickRun(date, daily)
		if found {
			// Resting HR comes from the day summary when present,
			// otherwise from the heart rate series.
			if run.RestingHR == 0 {
				if rhr, err := s.fitbit.GetRestingHeartRate(ctx, date); err == nil {
					run.RestingHR = rhr
				}
			}
			if err := s.store.UpsertRun(run); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("storing run %s: %w", date, err))
			} else {
				result.RunsStored++
			}
		}

		if progress != nil {
			progress <- SyncProgress{Phase: "runs", Total: len(dates), Completed: i + 1, CurrentRun: date}
		}
	}

	s.store.SetSyncState(store.SyncKeyLastRunSync, today)

	return nil
}

// firstDateToSync returns the day after the newest cached run, or the
// start of the backfill window when the cache is empty.
func (s *SyncService) firstDateToSync() (time.Time, error) {
	latest, err := s.store.LatestRunDate()
	if err != nil {
		return time.Time{}, fmt.Errorf("getting latest run date: %w", err)
	}
	if latest == "" {
		return s.now().AddDate(0, 0, -DefaultBackfillDays), nil
	}
	d, err := time.Parse(DateLayout, latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing latest run date %q: %w", latest, err)
	}
	return d.AddDate(0, 0, 1), nil
}

// pickRun selects the run activity to store for a date. When a day has
// several runs, the longest one wins.
func pickRun(date string, daily *fitbit.DailyActivities) (store.Run, bool) {
	var best *fitbit.ActivityLog
	for i := range daily.Activities {
		a := &daily.Activities[i]
		if !RunActivityNames[a.Name] {
			continue
		}
		if best == nil || a.Distance > best.Distance {
			best = a
		}
	}
	if best == nil {
		return store.Run{}, false
	}

	return store.Run{
		Date:         date,
		Distance:     best.Distance,
		Duration:     best.Duration,
		Steps:        best.Steps,
		MinHR:        best.MinHeartRate(),
		MaxHR:        best.MaxHeartRate(),
		AvgHR:        best.AverageHeartRate,
		Calories:     best.Calories,
		RestingHR:    daily.Summary.RestingHeartRate,
		ActivityType: best.Name,
		LogID:        best.LogID,
	}, true
}

// syncTCX downloads TCX documents for outdoor runs that don't have one
// cached yet.
func (s *SyncService) syncTCX(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	runs, err := s.runsNeedingTCX()
	if err != nil {
		return err
	}
	if len(runs) > TCXBatchSize {
		runs = runs[:TCXBatchSize]
	}

	if len(runs) == 0 {
		return nil
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "tcx", Total: len(runs)}
	}

	for i, run := range runs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{Phase: "tcx", Total: len(runs), Completed: i, CurrentRun: run.Date}
		}

		body, err := s.fitbit.GetTCX(ctx, run.LogID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("tcx for %s: %w", run.Date, err))
			continue
		}
		if err := s.store.SaveTCX(run.Date, body); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("saving tcx for %s: %w", run.Date, err))
			continue
		}
		result.TCXFetched++
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "tcx", Total: len(runs), Completed: len(runs)}
	}

	return nil
}

// runsNeedingTCX returns outdoor runs with no cached TCX, oldest first.
func (s *SyncService) runsNeedingTCX() ([]store.Run, error) {
	runs, err := s.store.ListRunsByType("Run")
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	var needed []store.Run
	for _, run := range runs {
		if run.LogID == 0 {
			continue
		}
		has, err := s.store.HasTCX(run.Date)
		if err != nil {
			return nil, err
		}
		if !has {
			needed = append(needed, run)
		}
	}
	return needed, nil
}

// computeElevations estimates elevation gain for runs that lack one.
// Treadmill runs get zero; outdoor runs are estimated from the TCX
// altitude trace.
func (s *SyncService) computeElevations(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	runs, err := s.store.ListRunsWithoutElevation()
	if err != nil {
		return fmt.Errorf("listing runs without elevation: %w", err)
	}

	if len(runs) == 0 {
		return nil
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "elevation", Total: len(runs)}
	}

	for i, run := range runs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{Phase: "elevation", Total: len(runs), Completed: i, CurrentRun: run.Date}
		}

		gain, ok, err := s.estimateRun(run)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("estimating %s: %w", run.Date, err))
			continue
		}
		if !ok {
			continue
		}
		if err := s.store.SetElevation(run.Date, gain, store.ElevSourceEstimated); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("saving elevation for %s: %w", run.Date, err))
			continue
		}
		result.ElevationsComputed++
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "elevation", Total: len(runs), Completed: len(runs)}
	}

	return nil
}

// estimateRun returns the elevation gain in feet for a run, or ok=false
// when nothing can be computed yet (no TCX cached, or no altitude data).
func (s *SyncService) estimateRun(run store.Run) (gain float64, ok bool, err error) {
	if run.ActivityType == "Treadmill run" {
		return 0, true, nil
	}

	file, err := s.store.GetTCX(run.Date)
	if errors.Is(err, store.ErrNoTCX) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	trace, err := tcx.AltitudeTrace(file.Body)
	if errors.Is(err, tcx.ErrNoAltitude) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return elevation.EstimateFeet(trace, s.estimator), true, nil
}

// applyReferences pulls Strava activities, stores their elevation gains
// as references, and overrides run elevations with them.
func (s *SyncService) applyReferences(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	if s.strava == nil {
		return nil
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "references"}
	}

	var after time.Time
	if lastSync, _ := s.store.GetSyncState(store.SyncKeyLastStravaSync); lastSync != "" {
		after, _ = time.Parse(time.RFC3339, lastSync)
	}

	activities, err := s.strava.GetAllActivities(ctx, after, nil)
	if err != nil {
		return fmt.Errorf("fetching strava activities: %w", err)
	}

	for _, a := range activities {
		if !a.IsRun() {
			continue
		}
		ref := store.ReferenceElevation{
			Date:       a.LocalDate(),
			ElevGain:   a.ElevationGainFeet(),
			Source:     "strava",
			ActivityID: a.ID,
		}
		if err := s.store.UpsertReference(ref); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing reference %s: %w", ref.Date, err))
		}
	}

	// Override estimates for any run with a stored reference.
	refs, err := s.store.ListReferences()
	if err != nil {
		return fmt.Errorf("listing references: %w", err)
	}
	for _, ref := range refs {
		run, err := s.store.GetRun(ref.Date)
		if errors.Is(err, store.ErrRunNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if run.ElevSource == store.ElevSourceStrava && run.ElevGain != nil && *run.ElevGain == ref.ElevGain {
			continue
		}
		if err := s.store.SetElevation(ref.Date, ref.ElevGain, store.ElevSourceStrava); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("overriding elevation for %s: %w", ref.Date, err))
			continue
		}
		result.ReferencesApplied++
	}

	s.store.SetSyncState(store.SyncKeyLastStravaSync, s.now().Format(time.RFC3339))

	return nil
}

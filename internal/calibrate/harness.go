// Package calibrate fits the elevation estimator's parameters against runs
// with a known reference elevation. It is an offline grid search over
// cached traces; it never talks to an API and never mutates its inputs.
package calibrate

import (
	"errors"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/BBrav0/FitbitDataReader/internal/elevation"
)

// ErrNoCases is returned when no case carries a usable reference value.
var ErrNoCases = errors.New("no calibration cases with usable references")

// Case is one labeled example: a raw altitude trace and the elevation gain
// the reference service reported for the same run.
type Case struct {
	ID            string // typically the run date, YYYY-MM-DD
	Trace         []float64
	ReferenceFeet float64
}

// usable reports whether the case can contribute to the aggregate error.
// A missing or non-positive reference would make percentage error
// meaningless; such cases are skipped with a warning, not fatal.
func (c Case) usable() bool {
	return c.ReferenceFeet > 0 && !math.IsNaN(c.ReferenceFeet) && len(c.Trace) >= 2
}

// Result is the outcome of a search: the winning config, its aggregate
// error, and the full per-case breakdown so outliers stay diagnosable.
type Result struct {
	Config elevation.Config

	// PerCaseError maps case ID to signed percentage error,
	// (estimated - reference) / reference * 100, under Config.
	PerCaseError map[string]float64

	// MeanAbsError is the mean of |PerCaseError| across usable cases.
	MeanAbsError float64

	// Evaluated is how many configurations the search scored.
	Evaluated int

	// Skipped lists case IDs excluded for unusable references.
	Skipped []string
}

// Progress is reported to the optional progress callback whenever the
// running best improves. Because evaluations may complete out of order,
// the sequence of reported bests is not deterministic; the final Result
// is.
type Progress struct {
	Evaluated int
	Total     int
	BestError float64
	BestIndex int
}

// Option configures Search.
type Option func(*searchOptions)

type searchOptions struct {
	workers  int
	progress func(Progress)
}

// WithWorkers runs the evaluation across n goroutines. Every (trace,
// config) evaluation is independent, so the only shared state is the
// per-index score table; the final minimum is folded deterministically
// after all workers finish.
func WithWorkers(n int) Option {
	return func(o *searchOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithProgress registers a callback for best-so-far updates, for
// diagnostic logging only.
func WithProgress(fn func(Progress)) Option {
	return func(o *searchOptions) { o.progress = fn }
}

// Search evaluates every configuration in the space against the cases and
// returns the one minimizing mean absolute percentage error. Ties break to
// the earliest configuration in the space's enumeration order, so repeated
// runs - sequential or parallel - return identical results.
func Search(cases []Case, space Space, opts ...Option) (*Result, error) {
	o := searchOptions{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	if err := space.validate(); err != nil {
		return nil, err
	}

	var usable []Case
	var skipped []string
	for _, c := range cases {
		if c.usable() {
			usable = append(usable, c)
		} else {
			skipped = append(skipped, c.ID)
		}
	}
	if len(usable) == 0 {
		return nil, ErrNoCases
	}

	total := space.Size()
	scores := make([]float64, total)

	if o.workers <= 1 {
		tracker := newBestTracker(total, o.progress)
		for i := 0; i < total; i++ {
			scores[i] = meanAbsError(space.At(i), usable)
			tracker.observe(i, scores[i])
		}
	} else {
		searchParallel(space, usable, scores, o)
	}

	// Deterministic fold: strict less-than keeps the first-found config on
	// ties regardless of how evaluations were scheduled.
	best := 0
	for i := 1; i < total; i++ {
		if scores[i] < scores[best] {
			best = i
		}
	}

	cfg := space.At(best)
	return &Result{
		Config:       cfg,
		PerCaseError: perCaseErrors(cfg, usable),
		MeanAbsError: scores[best],
		Evaluated:    total,
		Skipped:      skipped,
	}, nil
}

func searchParallel(space Space, usable []Case, scores []float64, o searchOptions) {
	tracker := newBestTracker(len(scores), o.progress)

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				scores[i] = meanAbsError(space.At(i), usable)
				tracker.observe(i, scores[i])
			}
		}()
	}
	for i := range scores {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
}

// meanAbsError scores one configuration: mean absolute percentage error
// across the usable cases, comparing in feet as the reference service
// reports.
func meanAbsError(cfg elevation.Config, cases []Case) float64 {
	errs := make([]float64, len(cases))
	for i, c := range cases {
		estimated := elevation.EstimateFeet(c.Trace, cfg)
		errs[i] = math.Abs((estimated - c.ReferenceFeet) / c.ReferenceFeet * 100)
	}
	return stat.Mean(errs, nil)
}

// perCaseErrors recomputes the signed error table for a single config.
func perCaseErrors(cfg elevation.Config, cases []Case) map[string]float64 {
	errs := make(map[string]float64, len(cases))
	for _, c := range cases {
		estimated := elevation.EstimateFeet(c.Trace, cfg)
		errs[c.ID] = (estimated - c.ReferenceFeet) / c.ReferenceFeet * 100
	}
	return errs
}

// bestTracker serializes best-so-far progress reporting. It has no effect
// on the search result, only on what gets logged while it runs.
type bestTracker struct {
	mu        sync.Mutex
	progress  func(Progress)
	total     int
	evaluated int
	bestErr   float64
	bestIdx   int
}

func newBestTracker(total int, progress func(Progress)) *bestTracker {
	return &bestTracker{
		progress: progress,
		total:    total,
		bestErr:  math.Inf(1),
		bestIdx:  -1,
	}
}

func (t *bestTracker) observe(i int, score float64) {
	if t.progress == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.evaluated++
	if score < t.bestErr {
		t.bestErr = score
		t.bestIdx = i
		t.progress(Progress{
			Evaluated: t.evaluated,
			Total:     t.total,
			BestError: t.bestErr,
			BestIndex: t.bestIdx,
		})
	}
}

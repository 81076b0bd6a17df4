// Package elevation estimates the total elevation gain of a run from its
// raw altitude trace. GPS altitude is noisy enough that summing positive
// deltas overstates gain by several hundred percent, so the estimator
// smooths the trace, segments it into discrete climbs, and only counts
// climbs whose net gain clears an adaptive threshold.
package elevation

import (
	"errors"
	"fmt"
	"math"
)

// MetersToFeet converts meters to feet. Applied once when a result leaves
// the estimator; all internal computation stays in meters.
const MetersToFeet = 3.28084

// ErrInvalidConfig is returned by Config.Validate for malformed configs.
var ErrInvalidConfig = errors.New("invalid estimator config")

// Config holds the tunable parameters of the estimator. The values are
// produced by the calibration harness, not chosen by hand; see the
// calibrate package.
type Config struct {
	// SmoothingWindow is the moving-average window in samples. 1 disables
	// smoothing.
	SmoothingWindow int `json:"smoothing_window"`

	// RangeBreakpoints partitions traces by overall altitude range (meters).
	// A trace whose raw max-min range falls below the first breakpoint uses
	// Thresholds[0], below the second uses Thresholds[1], and so on.
	RangeBreakpoints []float64 `json:"range_breakpoints"`

	// Thresholds holds the minimum counted climb size (meters) per band.
	// Must have exactly one more entry than RangeBreakpoints.
	Thresholds []float64 `json:"thresholds"`

	// MinDescent is the descent from a climb's peak (meters) required to
	// end the climb. 0 means any descent ends it.
	MinDescent float64 `json:"min_descent"`
}

// DefaultConfig returns the current calibration output. Re-derive with the
// -calibrate mode after adding new reference runs.
func DefaultConfig() Config {
	return Config{
		SmoothingWindow:  30,
		RangeBreakpoints: []float64{50, 100},
		Thresholds:       []float64{8, 12, 15},
		MinDescent:       0,
	}
}

// Validate checks the config invariants. Invalid configs are rejected here,
// at construction time, never coerced inside Estimate.
func (c Config) Validate() error {
	if c.SmoothingWindow < 1 {
		return fmt.Errorf("%w: smoothing window %d, must be >= 1", ErrInvalidConfig, c.SmoothingWindow)
	}
	if len(c.Thresholds) != len(c.RangeBreakpoints)+1 {
		return fmt.Errorf("%w: %d thresholds for %d breakpoints, want %d",
			ErrInvalidConfig, len(c.Thresholds), len(c.RangeBreakpoints), len(c.RangeBreakpoints)+1)
	}
	for i := 1; i < len(c.RangeBreakpoints); i++ {
		if c.RangeBreakpoints[i] <= c.RangeBreakpoints[i-1] {
			return fmt.Errorf("%w: breakpoints not strictly increasing at index %d", ErrInvalidConfig, i)
		}
	}
	if c.MinDescent < 0 {
		return fmt.Errorf("%w: negative min descent %v", ErrInvalidConfig, c.MinDescent)
	}
	return nil
}

// Estimate returns the estimated total elevation gain in meters for one
// activity's altitude trace. It is a pure function of (trace, cfg): no
// state, deterministic, and safe to call concurrently.
//
// Traces with fewer than 2 samples always yield 0 - a run with no usable
// GPS data has no measurable gain, and callers must not treat that as an
// error.
func Estimate(trace []float64, cfg Config) float64 {
	if len(trace) < 2 {
		return 0
	}

	threshold := cfg.thresholdFor(rawRange(trace))
	smoothed := Smooth(trace, cfg.SmoothingWindow)

	var total float64
	for _, c := range segmentClimbs(smoothed, cfg.MinDescent) {
		if c.Gain >= threshold {
			total += c.Gain
		}
	}
	return total
}

// EstimateFeet is Estimate converted to feet, the unit the reference
// service reports.
func EstimateFeet(trace []float64, cfg Config) float64 {
	return Estimate(trace, cfg) * MetersToFeet
}

// Breakdown returns every climb the segmenter found, with Counted set per
// the threshold policy. Same semantics as Estimate, exposed for the run
// detail view and diagnostics.
func Breakdown(trace []float64, cfg Config) []Climb {
	if len(trace) < 2 {
		return nil
	}

	threshold := cfg.thresholdFor(rawRange(trace))
	climbs := segmentClimbs(Smooth(trace, cfg.SmoothingWindow), cfg.MinDescent)
	for i := range climbs {
		climbs[i].Counted = climbs[i].Gain >= threshold
	}
	return climbs
}

// thresholdFor selects the per-band threshold from the raw trace's overall
// altitude range. Flat routes get a lower absolute threshold (more of their
// signal is residual noise); mountainous routes tolerate and need a higher
// one. Ordered linear scan: first breakpoint the range is strictly below
// wins, ranges beyond every breakpoint use the last threshold.
func (c Config) thresholdFor(altRange float64) float64 {
	for i, bp := range c.RangeBreakpoints {
		if altRange < bp {
			return c.Thresholds[i]
		}
	}
	return c.Thresholds[len(c.Thresholds)-1]
}

// rawRange is max-min of the unsmoothed trace. NaNs propagate through the
// comparison untouched; a degenerate trace produces a degenerate (and
// observable) result rather than a masked one.
func rawRange(trace []float64) float64 {
	lo, hi := trace[0], trace[0]
	for _, a := range trace[1:] {
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	return hi - lo
}

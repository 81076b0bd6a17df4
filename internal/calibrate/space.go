package calibrate

import (
	"fmt"

	"github.com/BBrav0/FitbitDataReader/internal/elevation"
)

// Space is the enumerated parameter search space. The harness evaluates the
// full Cartesian product of its fields, so sizes multiply quickly; keep the
// lists deliberate.
type Space struct {
	Windows     []int       // smoothing window candidates
	Breakpoints [][]float64 // range breakpoint sets (all the same length)
	Thresholds  [][]float64 // per-band threshold sets (all breakpoint len + 1)
	MinDescents []float64   // descent-reset margins, usually just {0}
}

// DefaultSpace is the search space that produced the shipped default
// config. Window sizes bracket the best known value, the first breakpoint
// floats while the second stays at 100m, and each band's threshold sweeps
// a band-appropriate range.
func DefaultSpace() Space {
	var breakpoints [][]float64
	for _, bp1 := range []float64{50, 60, 75, 80, 85, 90, 95} {
		breakpoints = append(breakpoints, []float64{bp1, 100})
	}

	var thresholds [][]float64
	for _, t1 := range []float64{8, 8.5, 9, 9.5, 10} {
		for _, t2 := range []float64{9, 9.5, 10, 10.5, 11, 12} {
			for _, t3 := range []float64{12, 13, 14, 15, 16} {
				thresholds = append(thresholds, []float64{t1, t2, t3})
			}
		}
	}

	return Space{
		Windows:     []int{25, 27, 29, 30, 31, 33, 35},
		Breakpoints: breakpoints,
		Thresholds:  thresholds,
		MinDescents: []float64{0},
	}
}

// Size returns the number of configurations the space enumerates.
func (s Space) Size() int {
	return len(s.Windows) * len(s.Breakpoints) * len(s.Thresholds) * len(s.MinDescents)
}

// validate checks that every combination in the product forms a valid
// estimator config: consistent breakpoint lengths and matching threshold
// counts.
func (s Space) validate() error {
	if s.Size() == 0 {
		return fmt.Errorf("%w: empty search space", elevation.ErrInvalidConfig)
	}

	bands := len(s.Breakpoints[0])
	for _, bp := range s.Breakpoints {
		if len(bp) != bands {
			return fmt.Errorf("%w: breakpoint sets have mixed lengths", elevation.ErrInvalidConfig)
		}
	}
	for _, th := range s.Thresholds {
		if len(th) != bands+1 {
			return fmt.Errorf("%w: %d thresholds for %d breakpoints", elevation.ErrInvalidConfig, len(th), bands)
		}
	}

	// Catch non-monotonic breakpoints and bad windows up front rather than
	// mid-search.
	for _, cfg := range []elevation.Config{s.At(0), s.At(s.Size() - 1)} {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	for _, w := range s.Windows {
		if w < 1 {
			return fmt.Errorf("%w: smoothing window %d", elevation.ErrInvalidConfig, w)
		}
	}
	for _, bp := range s.Breakpoints {
		for i := 1; i < len(bp); i++ {
			if bp[i] <= bp[i-1] {
				return fmt.Errorf("%w: breakpoints %v not strictly increasing", elevation.ErrInvalidConfig, bp)
			}
		}
	}
	return nil
}

// At returns the i-th configuration in the fixed enumeration order:
// min-descent varies fastest, then thresholds, then breakpoints, then
// window. Reruns over the same space always see the same order, which is
// what makes tie-breaking (and therefore the whole search) reproducible.
func (s Space) At(i int) elevation.Config {
	md := i % len(s.MinDescents)
	i /= len(s.MinDescents)
	th := i % len(s.Thresholds)
	i /= len(s.Thresholds)
	bp := i % len(s.Breakpoints)
	i /= len(s.Breakpoints)
	w := i % len(s.Windows)

	return elevation.Config{
		SmoothingWindow:  s.Windows[w],
		RangeBreakpoints: s.Breakpoints[bp],
		Thresholds:       s.Thresholds[th],
		MinDescent:       s.MinDescents[md],
	}
}

package calibrate

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/BBrav0/FitbitDataReader/internal/elevation"
)

// hillyTrace builds a synthetic trace of n identical climbs of the given
// height with descents in between.
func hillyTrace(n int, height float64) []float64 {
	var trace []float64
	alt := 100.0
	for i := 0; i < n; i++ {
		trace = append(trace, alt, alt+height/2, alt+height, alt+height/2)
	}
	trace = append(trace, alt)
	return trace
}

func testCases() []Case {
	return []Case{
		{ID: "2025-10-02", Trace: hillyTrace(3, 20), ReferenceFeet: 3 * 20 * elevation.MetersToFeet},
		{ID: "2025-10-04", Trace: hillyTrace(5, 30), ReferenceFeet: 5 * 30 * elevation.MetersToFeet},
		{ID: "2025-11-16", Trace: hillyTrace(2, 12), ReferenceFeet: 2 * 12 * elevation.MetersToFeet},
	}
}

func smallSpace() Space {
	return Space{
		Windows:     []int{1, 3},
		Breakpoints: [][]float64{{50, 100}},
		Thresholds:  [][]float64{{5, 8, 10}, {8, 12, 15}, {10, 15, 20}},
		MinDescents: []float64{0, 2},
	}
}

func TestSearchFindsExactConfig(t *testing.T) {
	// With window=1 and thresholds below every climb height, the net-gain
	// method reproduces the synthetic references exactly.
	cases := testCases()

	result, err := Search(cases, smallSpace())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if result.MeanAbsError > 1e-9 {
		t.Errorf("MeanAbsError = %v, want 0", result.MeanAbsError)
	}
	if result.Config.SmoothingWindow != 1 {
		t.Errorf("SmoothingWindow = %d, want 1", result.Config.SmoothingWindow)
	}
	if result.Evaluated != smallSpace().Size() {
		t.Errorf("Evaluated = %d, want %d", result.Evaluated, smallSpace().Size())
	}
}

func TestSearchReproducible(t *testing.T) {
	cases := testCases()
	space := smallSpace()

	sequential, err := Search(cases, space)
	if err != nil {
		t.Fatalf("sequential Search: %v", err)
	}

	for _, workers := range []int{1, 2, 8} {
		parallel, err := Search(cases, space, WithWorkers(workers))
		if err != nil {
			t.Fatalf("Search with %d workers: %v", workers, err)
		}

		if !reflect.DeepEqual(sequential.Config, parallel.Config) {
			t.Errorf("workers=%d: config %+v, want %+v", workers, parallel.Config, sequential.Config)
		}
		if sequential.MeanAbsError != parallel.MeanAbsError {
			t.Errorf("workers=%d: MeanAbsError %v, want %v", workers, parallel.MeanAbsError, sequential.MeanAbsError)
		}
		if !reflect.DeepEqual(sequential.PerCaseError, parallel.PerCaseError) {
			t.Errorf("workers=%d: per-case errors differ", workers)
		}
	}
}

func TestSearchTieBreaksFirstFound(t *testing.T) {
	// A constant trace scores identically (100% error: estimate 0) under
	// every config, so the winner must be enumeration index 0.
	cases := []Case{
		{ID: "flat", Trace: []float64{100, 100, 100, 100}, ReferenceFeet: 50},
	}
	space := smallSpace()

	result, err := Search(cases, space, WithWorkers(4))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := space.At(0)
	if !reflect.DeepEqual(result.Config, want) {
		t.Errorf("tie broke to %+v, want first-enumerated %+v", result.Config, want)
	}
}

func TestSearchSkipsUnusableCases(t *testing.T) {
	cases := append(testCases(),
		Case{ID: "no-reference", Trace: hillyTrace(2, 20), ReferenceFeet: 0},
		Case{ID: "nan-reference", Trace: hillyTrace(2, 20), ReferenceFeet: math.NaN()},
		Case{ID: "no-gps", Trace: []float64{100}, ReferenceFeet: 200},
	)

	result, err := Search(cases, smallSpace())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(result.Skipped) != 3 {
		t.Errorf("Skipped = %v, want 3 entries", result.Skipped)
	}
	if len(result.PerCaseError) != 3 {
		t.Errorf("PerCaseError has %d entries, want 3 usable cases", len(result.PerCaseError))
	}
	for _, id := range result.Skipped {
		if _, ok := result.PerCaseError[id]; ok {
			t.Errorf("skipped case %q leaked into the error table", id)
		}
	}
}

func TestSearchAllCasesUnusable(t *testing.T) {
	cases := []Case{
		{ID: "a", Trace: hillyTrace(1, 10), ReferenceFeet: 0},
		{ID: "b", Trace: hillyTrace(1, 10), ReferenceFeet: -5},
	}

	if _, err := Search(cases, smallSpace()); !errors.Is(err, ErrNoCases) {
		t.Errorf("err = %v, want ErrNoCases", err)
	}
}

func TestSearchRejectsBadSpace(t *testing.T) {
	tests := []struct {
		name  string
		space Space
	}{
		{"empty", Space{}},
		{
			"threshold count mismatch",
			Space{
				Windows:     []int{1},
				Breakpoints: [][]float64{{50}},
				Thresholds:  [][]float64{{5}},
				MinDescents: []float64{0},
			},
		},
		{
			"non-monotonic breakpoints",
			Space{
				Windows:     []int{1},
				Breakpoints: [][]float64{{100, 50}},
				Thresholds:  [][]float64{{5, 8, 10}},
				MinDescents: []float64{0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Search(testCases(), tt.space); !errors.Is(err, elevation.ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSearchResultMatchesRecomputation(t *testing.T) {
	// The reported aggregate must equal what recomputing from the reported
	// config and error table gives.
	cases := testCases()

	result, err := Search(cases, smallSpace())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	var sum float64
	for _, c := range cases {
		estimated := elevation.EstimateFeet(c.Trace, result.Config)
		signed := (estimated - c.ReferenceFeet) / c.ReferenceFeet * 100

		got, ok := result.PerCaseError[c.ID]
		if !ok {
			t.Fatalf("no per-case error for %q", c.ID)
		}
		if math.Abs(got-signed) > 1e-9 {
			t.Errorf("case %q: reported error %v, recomputed %v", c.ID, got, signed)
		}
		sum += math.Abs(signed)
	}

	recomputed := sum / float64(len(cases))
	if math.Abs(result.MeanAbsError-recomputed) > 1e-9 {
		t.Errorf("MeanAbsError = %v, recomputed %v", result.MeanAbsError, recomputed)
	}
}

func TestSearchProgressReportsImprovements(t *testing.T) {
	var updates []Progress
	_, err := Search(testCases(), smallSpace(), WithProgress(func(p Progress) {
		updates = append(updates, p)
	}))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(updates) == 0 {
		t.Fatal("no progress updates reported")
	}
	for i := 1; i < len(updates); i++ {
		if updates[i].BestError >= updates[i-1].BestError {
			t.Errorf("best error did not improve: %v then %v", updates[i-1].BestError, updates[i].BestError)
		}
	}
	if last := updates[len(updates)-1]; last.Total != smallSpace().Size() {
		t.Errorf("Total = %d, want %d", last.Total, smallSpace().Size())
	}
}

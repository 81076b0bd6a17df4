package elevation

import (
	"math"
	"testing"
)

func TestSmoothIdentityWindow(t *testing.T) {
	trace := []float64{1, 5, 2, 9, 3}

	got := Smooth(trace, 1)
	if len(got) != len(trace) {
		t.Fatalf("len = %d, want %d", len(got), len(trace))
	}
	for i := range trace {
		if got[i] != trace[i] {
			t.Errorf("smoothed[%d] = %v, want %v", i, got[i], trace[i])
		}
	}

	// Must be a copy, not an alias.
	got[0] = 100
	if trace[0] == 100 {
		t.Error("Smooth with window=1 aliased the input slice")
	}
}

func TestSmoothCenteredWindow(t *testing.T) {
	trace := []float64{0, 10, 20, 30, 40}

	// window=3: interior element i averages [i-1, i+1]; clipped at edges.
	got := Smooth(trace, 3)
	want := []float64{5, 10, 20, 30, 35}

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("smoothed[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSmoothWindowLargerThanTrace(t *testing.T) {
	trace := []float64{2, 4, 6}

	// Every window clips to the full trace: everything becomes the mean.
	got := Smooth(trace, 100)
	for i, v := range got {
		if math.Abs(v-4) > 1e-9 {
			t.Errorf("smoothed[%d] = %v, want 4", i, v)
		}
	}
}

func TestSmoothSuppressesJitter(t *testing.T) {
	// Alternating +-2m jitter around a flat baseline. After smoothing, the
	// residual oscillation should be much smaller than the raw one.
	trace := make([]float64, 100)
	for i := range trace {
		trace[i] = 100
		if i%2 == 1 {
			trace[i] = 102
		}
	}

	smoothed := Smooth(trace, 10)

	var maxDev float64
	for _, v := range smoothed {
		maxDev = math.Max(maxDev, math.Abs(v-101))
	}
	if maxDev > 0.5 {
		t.Errorf("max deviation after smoothing = %v, want <= 0.5", maxDev)
	}
}

func TestSmoothPreservesLength(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 50} {
		trace := make([]float64, n)
		for _, w := range []int{1, 2, 5, 30} {
			if got := Smooth(trace, w); len(got) != n {
				t.Errorf("len(Smooth(n=%d, w=%d)) = %d, want %d", n, w, len(got), n)
			}
		}
	}
}

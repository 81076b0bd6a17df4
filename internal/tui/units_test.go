package tui

import (
	"testing"

	"github.com/BBrav0/FitbitDataReader/internal/config"
)

func TestFormatDistance(t *testing.T) {
	mi := NewUnits(config.DisplayConfig{DistanceUnit: "mi"})
	km := NewUnits(config.DisplayConfig{DistanceUnit: "km"})

	if got := mi.FormatDistance(5.0); got != "5.0 mi" {
		t.Errorf("FormatDistance(5.0) = %q, want 5.0 mi", got)
	}
	if got := km.FormatDistance(5.0); got != "8.0 km" {
		t.Errorf("FormatDistance(5.0) = %q, want 8.0 km", got)
	}
}

func TestFormatElevation(t *testing.T) {
	ft := NewUnits(config.DisplayConfig{ElevationUnit: "ft"})
	m := NewUnits(config.DisplayConfig{ElevationUnit: "m"})

	if got := ft.FormatElevation(328.084); got != "328 ft" {
		t.Errorf("FormatElevation = %q, want 328 ft", got)
	}
	if got := m.FormatElevation(328.084); got != "100 m" {
		t.Errorf("FormatElevation = %q, want 100 m", got)
	}
}

func TestFormatPace(t *testing.T) {
	mi := NewUnits(config.DisplayConfig{DistanceUnit: "mi"})

	// 5 miles in 45 minutes is 9:00/mi
	if got := mi.FormatPace(45*60*1000, 5); got != "9:00/mi" {
		t.Errorf("FormatPace = %q, want 9:00/mi", got)
	}
	if got := mi.FormatPace(0, 5); got != "-" {
		t.Errorf("FormatPace with zero duration = %q, want -", got)
	}
	if got := mi.FormatPace(1000, 0); got != "-" {
		t.Errorf("FormatPace with zero distance = %q, want -", got)
	}
}

func TestFormatDuration(t *testing.T) {
	u := NewUnits(config.DisplayConfig{})

	if got := u.FormatDuration(45 * 60 * 1000); got != "45m" {
		t.Errorf("FormatDuration = %q, want 45m", got)
	}
	if got := u.FormatDuration(95 * 60 * 1000); got != "1h 35m" {
		t.Errorf("FormatDuration = %q, want 1h 35m", got)
	}
}

func TestDownsample(t *testing.T) {
	trace := make([]float64, 100)
	for i := range trace {
		trace[i] = float64(i)
	}

	out := downsample(trace, 10)
	if len(out) != 10 {
		t.Fatalf("len = %d, want 10", len(out))
	}
	// Each bucket of 10 consecutive values averages to its midpoint
	if out[0] != 4.5 {
		t.Errorf("out[0] = %v, want 4.5", out[0])
	}
	if out[9] != 94.5 {
		t.Errorf("out[9] = %v, want 94.5", out[9])
	}

	short := []float64{1, 2, 3}
	if got := downsample(short, 10); len(got) != 3 {
		t.Errorf("short trace should pass through, got %v", got)
	}
}

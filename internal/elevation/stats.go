package elevation

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the noise characteristics of a raw altitude trace.
// Used to judge whether a device's data is trustworthy enough to estimate
// from, and to sanity-check new reference runs before calibration.
type Stats struct {
	Points int
	Min    float64 // meters
	Max    float64 // meters
	Range  float64 // Max - Min
	Mean   float64
	StdDev float64

	// RawGain is the sum of all positive deltas with no smoothing or
	// thresholding - the naive estimate the rest of the package exists to
	// correct.
	RawGain float64

	MeanAbsDelta float64
	MaxAbsDelta  float64

	// Sample-to-sample delta distribution.
	DeltasUnderHalfMeter int // |delta| < 0.5m
	DeltasUnderTwoMeters int // 0.5m <= |delta| < 2m
	DeltasTwoMetersPlus  int // |delta| >= 2m
}

// TraceStats computes summary statistics for a raw altitude trace.
// Traces with fewer than 2 samples produce a zero-valued Stats aside from
// the point count.
func TraceStats(trace []float64) Stats {
	s := Stats{Points: len(trace)}
	if len(trace) < 2 {
		return s
	}

	s.Min, s.Max = trace[0], trace[0]
	for _, a := range trace[1:] {
		s.Min = math.Min(s.Min, a)
		s.Max = math.Max(s.Max, a)
	}
	s.Range = s.Max - s.Min
	s.Mean = stat.Mean(trace, nil)
	s.StdDev = stat.StdDev(trace, nil)

	for i := 1; i < len(trace); i++ {
		delta := trace[i] - trace[i-1]
		if delta > 0 {
			s.RawGain += delta
		}

		abs := math.Abs(delta)
		s.MeanAbsDelta += abs
		s.MaxAbsDelta = math.Max(s.MaxAbsDelta, abs)

		switch {
		case abs < 0.5:
			s.DeltasUnderHalfMeter++
		case abs < 2:
			s.DeltasUnderTwoMeters++
		default:
			s.DeltasTwoMetersPlus++
		}
	}
	s.MeanAbsDelta /= float64(len(trace) - 1)

	return s
}

package elevation

// Smooth applies a centered moving average of the given window size.
// The window is clipped at the trace boundaries rather than padded, so the
// first and last few samples average over a shorter, asymmetric window.
// window=1 returns a copy of the input unchanged.
//
// Larger windows suppress short-period GPS jitter at the cost of blunting
// genuine short, steep climbs; the right size is a calibration output.
func Smooth(trace []float64, window int) []float64 {
	smoothed := make([]float64, len(trace))
	if window <= 1 {
		copy(smoothed, trace)
		return smoothed
	}

	half := window / 2
	for i := range trace {
		start := i - half
		if start < 0 {
			start = 0
		}
		end := i + half + 1
		if end > len(trace) {
			end = len(trace)
		}

		var sum float64
		for _, a := range trace[start:end] {
			sum += a
		}
		smoothed[i] = sum / float64(end-start)
	}
	return smoothed
}

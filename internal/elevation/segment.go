package elevation

// Climb is a maximal run of non-decreasing smoothed altitude. Its
// contribution is the net gain (peak minus start), not the sum of every
// positive delta inside it.
type Climb struct {
	Start   float64 // altitude where the climb began (meters)
	Peak    float64 // highest altitude reached (meters)
	Gain    float64 // Peak - Start
	Counted bool    // set by Breakdown per the threshold policy
}

// segmentClimbs walks the smoothed trace and partitions it into climbs.
// Two states: flat/descending (initial) and in-climb.
//
//   - a rising sample enters or extends a climb, tracking the running peak
//   - a falling sample ends the climb, unless minDescent > 0 and the drop
//     from the peak is still smaller than that margin
//   - an equal sample changes nothing
//   - trace end emits any in-progress climb with the same rule
//
// Climbs that never exceed their start altitude (gain <= 0) are dropped
// before thresholding.
func segmentClimbs(smoothed []float64, minDescent float64) []Climb {
	if len(smoothed) < 2 {
		return nil
	}

	var climbs []Climb
	inClimb := false
	climbStart := smoothed[0]
	climbPeak := smoothed[0]
	prev := smoothed[0]

	emit := func() {
		if gain := climbPeak - climbStart; gain > 0 {
			climbs = append(climbs, Climb{Start: climbStart, Peak: climbPeak, Gain: gain})
		}
	}

	for _, alt := range smoothed[1:] {
		switch {
		case alt > prev:
			if !inClimb {
				inClimb = true
				climbStart = prev
				climbPeak = alt
			} else if alt > climbPeak {
				climbPeak = alt
			}
		case alt < prev && inClimb:
			if climbPeak-alt >= minDescent {
				emit()
				inClimb = false
			}
		}
		prev = alt
	}

	if inClimb {
		emit()
	}
	return climbs
}

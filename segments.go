package trackcurve

// MovingSegments partitions the sample sequence into maximal
// contiguous runs of power-and-timestamp-bearing samples separated by
// time gaps exceeding the pause threshold. Each segment is a list of
// sample indices in recording order; samples missing power or a
// timestamp belong to no segment and never start one.
//
// Segments are recomputed on demand and never persisted on the track.
func (t *Track) MovingSegments(pauseThresholdSeconds float64) [][]int {
	var segments [][]int
	var current []int

	for i := range t.Samples {
		s := &t.Samples[i]
		if s.Power == nil || !s.HasTimestamp() {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}

		if len(current) > 0 {
			prev := &t.Samples[current[len(current)-1]]
			if s.Timestamp.Sub(prev.Timestamp).Seconds() > pauseThresholdSeconds {
				// Pause detected: close the segment and start over here.
				segments = append(segments, current)
				current = []int{i}
				continue
			}
		}
		current = append(current, i)
	}

	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

// MovingTime returns the total time in seconds spent between
// consecutive timestamped samples, ignoring gaps longer than the pause
// threshold and non-positive deltas.
func (t *Track) MovingTime(pauseThresholdSeconds float64) float64 {
	if len(t.Samples) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(t.Samples); i++ {
		p1 := &t.Samples[i-1]
		p2 := &t.Samples[i]
		if !p1.HasTimestamp() || !p2.HasTimestamp() {
			continue
		}
		dt := p2.Timestamp.Sub(p1.Timestamp).Seconds()
		if dt > 0 && dt <= pauseThresholdSeconds {
			total += dt
		}
	}
	return total
}

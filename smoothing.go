package trackcurve

import "math"

// ApplyWindowAveraging smooths the vertical-speed field with a
// centered time-window moving average. The m/s mirror is recomputed
// from the smoothed m/h value rather than averaged independently.
func (t *Track) ApplyWindowAveraging(windowSeconds float64) {
	if len(t.Samples) < 2 {
		return
	}
	smoothed := t.windowAverage(windowSeconds, func(s *Sample) *float64 { return s.VerticalSpeedMH })
	for i, v := range smoothed {
		if v == nil {
			continue
		}
		mh := *v
		ms := mh / secondsPerHour
		t.Samples[i].VerticalSpeedMH = &mh
		t.Samples[i].VerticalSpeedMS = &ms
	}
}

// SmoothPower applies the same centered window average to the power
// field.
func (t *Track) SmoothPower(windowSeconds float64) {
	smoothed := t.windowAverage(windowSeconds, func(s *Sample) *float64 { return s.Power })
	for i, v := range smoothed {
		if v == nil {
			continue
		}
		p := *v
		t.Samples[i].Power = &p
	}
}

// SmoothSpeed applies the same centered window average to the speed
// field.
func (t *Track) SmoothSpeed(windowSeconds float64) {
	smoothed := t.windowAverage(windowSeconds, func(s *Sample) *float64 { return s.Speed })
	for i, v := range smoothed {
		if v == nil {
			continue
		}
		sp := *v
		t.Samples[i].Speed = &sp
	}
}

// windowAverage computes a centered time-window moving average of the
// given field over a snapshot of its current values, so mid-pass
// mutation cannot bias later windows. The window is defined in elapsed
// time, not sample count, because sampling intervals are irregular.
//
// Entry i of the result is nil when sample i has no defined value or
// timestamp, or when nothing (itself included) fell inside its window.
// The whole result is nil when no sample carries both the field and a
// timestamp.
func (t *Track) windowAverage(windowSeconds float64, field func(*Sample) *float64) []*float64 {
	original := make([]*float64, len(t.Samples))
	usable := false
	for i := range t.Samples {
		original[i] = field(&t.Samples[i])
		if original[i] != nil && t.Samples[i].HasTimestamp() {
			usable = true
		}
	}
	if !usable {
		return nil
	}

	half := windowSeconds / 2
	out := make([]*float64, len(t.Samples))

	for i := range t.Samples {
		center := &t.Samples[i]
		if original[i] == nil || !center.HasTimestamp() {
			continue
		}

		sum := 0.0
		count := 0

		// Expand backward from the center, inclusive.
		for j := i; j >= 0; j-- {
			other := &t.Samples[j]
			if !other.HasTimestamp() {
				continue
			}
			if math.Abs(center.Timestamp.Sub(other.Timestamp).Seconds()) > half {
				break
			}
			if original[j] != nil {
				sum += *original[j]
				count++
			}
		}

		// Expand forward, excluding the center to avoid double counting.
		for j := i + 1; j < len(t.Samples); j++ {
			other := &t.Samples[j]
			if !other.HasTimestamp() {
				continue
			}
			if math.Abs(center.Timestamp.Sub(other.Timestamp).Seconds()) > half {
				break
			}
			if original[j] != nil {
				sum += *original[j]
				count++
			}
		}

		if count == 0 {
			continue
		}
		avg := sum / float64(count)
		out[i] = &avg
	}

	return out
}

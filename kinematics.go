package trackcurve

// ComputeVerticalSpeeds derives vertical speed for every adjacent pair
// of samples that both carry an altitude and a timestamp, storing the
// result on the later sample. Pairs with a non-positive time delta or
// a missing field leave the derived fields unset.
func (t *Track) ComputeVerticalSpeeds() {
	for i := 1; i < len(t.Samples); i++ {
		p1 := &t.Samples[i-1]
		p2 := &t.Samples[i]

		if p1.Altitude == nil || p2.Altitude == nil || !p1.HasTimestamp() || !p2.HasTimestamp() {
			continue
		}
		dt := p2.Timestamp.Sub(p1.Timestamp).Seconds()
		if dt <= 0 {
			continue
		}

		ms := (*p2.Altitude - *p1.Altitude) / dt
		mh := ms * secondsPerHour
		p2.VerticalSpeedMS = &ms
		p2.VerticalSpeedMH = &mh
	}
}

// FillSpeeds computes horizontal speed (km/h) via great-circle
// distance for samples the source left without one. The pass is
// skipped entirely when no timestamped sample lacks speed. The first
// sample, if still unset, is back-filled from the second so rendered
// tracks have no null leading point.
func (t *Track) FillSpeeds() {
	if len(t.Samples) < 2 {
		return
	}

	needed := false
	for i := range t.Samples {
		if t.Samples[i].Speed == nil && t.Samples[i].HasTimestamp() {
			needed = true
			break
		}
	}
	if !needed {
		return
	}

	for i := 1; i < len(t.Samples); i++ {
		p1 := &t.Samples[i-1]
		p2 := &t.Samples[i]

		if p2.Speed != nil || !p1.HasTimestamp() || !p2.HasTimestamp() {
			continue
		}
		dt := p2.Timestamp.Sub(p1.Timestamp).Seconds()
		if dt <= 0 {
			continue
		}

		meters := haversine(p1.Latitude, p1.Longitude, p2.Latitude, p2.Longitude, earthRadiusM)
		kmh := meters / dt * 3.6
		p2.Speed = &kmh
	}

	if t.Samples[0].Speed == nil && t.Samples[1].Speed != nil {
		v := *t.Samples[1].Speed
		t.Samples[0].Speed = &v
	}
}

package trackcurve

import "time"

var testStart = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func fp(v float64) *float64 {
	return &v
}

// sampleAt builds a timestamped sample at testStart+offset seconds.
func sampleAt(offsetSeconds float64) Sample {
	return Sample{
		Latitude:  47.5,
		Longitude: 8.5,
		Timestamp: testStart.Add(time.Duration(offsetSeconds * float64(time.Second))),
	}
}

// powerSampleAt builds a timestamped sample carrying a power reading.
func powerSampleAt(offsetSeconds, watts float64) Sample {
	s := sampleAt(offsetSeconds)
	s.Power = fp(watts)
	return s
}

package ingest

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/tormoder/fit"

	"github.com/jbarrau/trackcurve"
)

// FITParser parses Garmin FIT activity files. FIT encodes "no data"
// as per-type invalid sentinels, which are mapped back to nil fields
// here.
type FITParser struct{}

func (FITParser) Parse(data []byte, name string) (*trackcurve.Track, error) {
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode fit: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity fit expected: %w", err)
	}

	track := &trackcurve.Track{Name: name, Source: "fit"}
	for _, rec := range activity.Records {
		if rec == nil {
			continue
		}
		lat := rec.PositionLat.Degrees()
		lng := rec.PositionLong.Degrees()
		if math.IsNaN(lat) || math.IsNaN(lng) {
			continue
		}

		s := trackcurve.Sample{Latitude: lat, Longitude: lng}
		s.Timestamp = validTimeOrZero(rec.Timestamp)

		if alt := rec.GetAltitudeScaled(); finite(alt) {
			s.Altitude = &alt
		}
		if rec.Power != math.MaxUint16 {
			p := float64(rec.Power)
			s.Power = &p
		}
		if rec.HeartRate != math.MaxUint8 {
			hr := float64(rec.HeartRate)
			s.HeartRate = &hr
		}
		if rec.Cadence != math.MaxUint8 {
			cad := float64(rec.Cadence)
			s.Cadence = &cad
		}
		if rec.Temperature != math.MaxInt8 {
			temp := float64(rec.Temperature)
			s.Temperature = &temp
		}
		if speed, ok := recordSpeed(rec); ok {
			kmh := speed * 3.6
			s.Speed = &kmh
		}

		track.Samples = append(track.Samples, s)
	}
	if len(track.Samples) == 0 {
		return nil, ErrNoTrackData
	}
	return track, nil
}

// recordSpeed prefers the enhanced speed field, falling back to the
// legacy scaled one. Both are m/s.
func recordSpeed(rec *fit.RecordMsg) (float64, bool) {
	speed := rec.GetEnhancedSpeedScaled()
	if finite(speed) && speed >= 0 {
		return speed, true
	}
	speed = rec.GetSpeedScaled()
	if finite(speed) && speed >= 0 {
		return speed, true
	}
	return 0, false
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func init() {
	RegisterParser(".fit", FITParser{})
}

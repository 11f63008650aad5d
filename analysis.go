package trackcurve

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary contains per-track aggregate metrics derived from the
// enriched samples. It is a read-only view; computing it never
// mutates the track.
type Summary struct {
	Name           string    `json:"name"`
	Source         string    `json:"source"`
	StartTime      time.Time `json:"start_time,omitzero"`
	EndTime        time.Time `json:"end_time,omitzero"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	MovingSeconds  float64   `json:"moving_seconds"`
	DistanceKM     float64   `json:"distance_km"`
	ElevationGainM float64   `json:"elevation_gain_m"`
	ElevationLossM float64   `json:"elevation_loss_m"`
	AvgSpeedKMH    float64   `json:"avg_speed_kmh"`
	MaxSpeedKMH    float64   `json:"max_speed_kmh"`
	P95SpeedKMH    float64   `json:"p95_speed_kmh"`
	AvgPowerWatts  float64   `json:"avg_power_watts"`
	MaxPowerWatts  float64   `json:"max_power_watts"`
	PowerStdDev    float64   `json:"power_stddev_watts"`
	AvgHeartRate   float64   `json:"avg_heart_rate_bpm"`
	MaxHeartRate   float64   `json:"max_heart_rate_bpm"`
	AvgCadence     float64   `json:"avg_cadence_rpm"`
	MaxCadence     float64   `json:"max_cadence_rpm"`
	MaxClimbMS     float64   `json:"max_climb_ms"`
	MaxSinkMS      float64   `json:"max_sink_ms"`
	SampleCount    int       `json:"sample_count"`
}

// Summarize aggregates a track's samples into a Summary. Derived
// fields reflect whatever enrichment has already run; call Analyze
// first for a complete picture.
func Summarize(t *Track, cfg Config) *Summary {
	cfg = cfg.withDefaults()

	s := &Summary{
		Name:        t.Name,
		Source:      t.Source,
		SampleCount: len(t.Samples),
		DistanceKM:  t.TotalDistance(),
	}

	var speeds, powers, heartRates, cadences []float64
	for i := range t.Samples {
		p := &t.Samples[i]

		if p.HasTimestamp() {
			if s.StartTime.IsZero() {
				s.StartTime = p.Timestamp
			}
			s.EndTime = p.Timestamp
		}
		if p.Speed != nil {
			speeds = append(speeds, *p.Speed)
		}
		if p.Power != nil {
			powers = append(powers, *p.Power)
		}
		if p.HeartRate != nil {
			heartRates = append(heartRates, *p.HeartRate)
		}
		if p.Cadence != nil {
			cadences = append(cadences, *p.Cadence)
		}
		if p.VerticalSpeedMS != nil {
			if *p.VerticalSpeedMS > s.MaxClimbMS {
				s.MaxClimbMS = *p.VerticalSpeedMS
			}
			if -*p.VerticalSpeedMS > s.MaxSinkMS {
				s.MaxSinkMS = -*p.VerticalSpeedMS
			}
		}

		if i > 0 {
			prev := &t.Samples[i-1]
			if prev.Altitude != nil && p.Altitude != nil {
				diff := *p.Altitude - *prev.Altitude
				if diff > 0 {
					s.ElevationGainM += diff
				} else {
					s.ElevationLossM -= diff
				}
			}
		}
	}

	if !s.StartTime.IsZero() && s.EndTime.After(s.StartTime) {
		s.ElapsedSeconds = s.EndTime.Sub(s.StartTime).Seconds()
	}
	s.MovingSeconds = t.MovingTime(cfg.PauseThresholdSeconds)

	if len(speeds) > 0 {
		s.AvgSpeedKMH = stat.Mean(speeds, nil)
		s.MaxSpeedKMH = maxFloat(speeds)
		sorted := append([]float64(nil), speeds...)
		sort.Float64s(sorted)
		s.P95SpeedKMH = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	}
	if len(powers) > 0 {
		s.AvgPowerWatts = stat.Mean(powers, nil)
		s.MaxPowerWatts = maxFloat(powers)
		if len(powers) > 1 {
			s.PowerStdDev = stat.StdDev(powers, nil)
		}
	}
	if len(heartRates) > 0 {
		s.AvgHeartRate = stat.Mean(heartRates, nil)
		s.MaxHeartRate = maxFloat(heartRates)
	}
	if len(cadences) > 0 {
		s.AvgCadence = stat.Mean(cadences, nil)
		s.MaxCadence = maxFloat(cadences)
	}

	return s
}

func maxFloat(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Package trackcurve derives per-point and per-track analytics from raw
// GPS activity recordings: smoothed kinematic fields (speed, vertical
// speed) and the best-average-power curve across a fixed set of
// durations.
//
// The engine operates on one track at a time, synchronously and fully
// in memory. Samples are enriched in place; missing fields degrade
// silently rather than erroring.
package trackcurve

import (
	"math"
	"time"
)

const (
	earthRadiusM  = 6371000.0
	earthRadiusKM = 6371.0

	secondsPerHour = 3600.0
)

// Sample is one recorded GPS fix with optional sensor readings.
// Optional numeric fields are nil when the source carried no value; a
// zero Timestamp means the fix was not timestamped. Nil is always
// distinguishable from a recorded zero.
type Sample struct {
	Latitude  float64
	Longitude float64
	Altitude  *float64 // meters
	Timestamp time.Time

	Power       *float64 // watts
	HeartRate   *float64 // bpm
	Cadence     *float64 // rpm
	Temperature *float64 // celsius
	Speed       *float64 // km/h, filled in by the engine when absent

	// Derived fields, owned exclusively by the engine.
	VerticalSpeedMS *float64 // m/s
	VerticalSpeedMH *float64 // m/h, mirror of the former x3600
}

// HasTimestamp reports whether the sample carries a timestamp.
func (s *Sample) HasTimestamp() bool {
	return !s.Timestamp.IsZero()
}

// LatLng returns the position as [lat, lng] for mapping consumers.
func (s *Sample) LatLng() [2]float64 {
	return [2]float64{s.Latitude, s.Longitude}
}

// PowerCurve maps a duration label to the best average power sustained
// over that duration. A nil entry means the duration could not be
// determined for this recording.
type PowerCurve map[string]*float64

// Track is an ordered sequence of samples in recording order, plus the
// power curve once computed. A nil PowerCurve means the track carries
// no usable power data at all.
type Track struct {
	Name       string
	Source     string // "gpx", "tcx", "fit"
	Samples    []Sample
	PowerCurve PowerCurve
}

// Config controls the time constants of the analysis passes.
type Config struct {
	PauseThresholdSeconds  float64
	SmoothingWindowSeconds float64
}

// DefaultConfig returns the standard analysis constants: a 900 s pause
// threshold and a 15 s smoothing window.
func DefaultConfig() Config {
	return Config{
		PauseThresholdSeconds:  900,
		SmoothingWindowSeconds: 15,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PauseThresholdSeconds <= 0 {
		c.PauseThresholdSeconds = def.PauseThresholdSeconds
	}
	if c.SmoothingWindowSeconds <= 0 {
		c.SmoothingWindowSeconds = def.SmoothingWindowSeconds
	}
	return c
}

// Analyze runs the full derivation pipeline in its required order:
// vertical speed, horizontal speed fill, window averaging, power
// curve. It is the only entry point callers normally need.
func (t *Track) Analyze(cfg Config) {
	cfg = cfg.withDefaults()
	t.ComputeVerticalSpeeds()
	t.FillSpeeds()
	t.ApplyWindowAveraging(cfg.SmoothingWindowSeconds)
	t.ComputePowerCurve(cfg.PauseThresholdSeconds)
}

// Bounds is the bounding box of a track.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// Bounds returns the track's bounding box, or nil for an empty track.
func (t *Track) Bounds() *Bounds {
	if len(t.Samples) == 0 {
		return nil
	}
	b := &Bounds{
		MinLat: t.Samples[0].Latitude,
		MaxLat: t.Samples[0].Latitude,
		MinLng: t.Samples[0].Longitude,
		MaxLng: t.Samples[0].Longitude,
	}
	for i := 1; i < len(t.Samples); i++ {
		s := &t.Samples[i]
		b.MinLat = math.Min(b.MinLat, s.Latitude)
		b.MaxLat = math.Max(b.MaxLat, s.Latitude)
		b.MinLng = math.Min(b.MinLng, s.Longitude)
		b.MaxLng = math.Max(b.MaxLng, s.Longitude)
	}
	return b
}

// Center returns the midpoint of the track's bounding box.
func (t *Track) Center() (lat, lng float64, ok bool) {
	b := t.Bounds()
	if b == nil {
		return 0, 0, false
	}
	return (b.MinLat + b.MaxLat) / 2, (b.MinLng + b.MaxLng) / 2, true
}

// TotalDistance returns the summed great-circle distance between
// consecutive samples, in kilometers.
func (t *Track) TotalDistance() float64 {
	if len(t.Samples) < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < len(t.Samples)-1; i++ {
		p1 := &t.Samples[i]
		p2 := &t.Samples[i+1]
		total += haversine(p1.Latitude, p1.Longitude, p2.Latitude, p2.Longitude, earthRadiusKM)
	}
	return total
}

// haversine returns the great-circle distance between two positions in
// the units of the given Earth radius.
func haversine(lat1, lon1, lat2, lon2, radius float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return radius * c
}

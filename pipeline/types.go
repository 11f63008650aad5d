package pipeline

import "github.com/jbarrau/trackcurve"

// Options configures the track analysis pipeline.
type Options struct {
	TrackPath              string
	OutDir                 string
	Format                 string // parquet|csv
	PauseThresholdSeconds  float64
	SmoothingWindowSeconds float64
	Overwrite              bool
	CopySource             bool
}

// Result returns generated artifact paths plus the in-memory
// analytics for callers that persist or render them.
type Result struct {
	OutputDir      string `json:"output_dir"`
	ManifestPath   string `json:"manifest_path"`
	SamplesPath    string `json:"samples_path"`
	SummaryPath    string `json:"summary_path"`
	SegmentsPath   string `json:"segments_path"`
	PowerCurvePath string `json:"power_curve_path,omitempty"`
	SourceCopyPath string `json:"source_copy_path,omitempty"`

	Summary *trackcurve.Summary   `json:"-"`
	Curve   trackcurve.PowerCurve `json:"-"`
}

// SampleRow is one row of the enriched sample artifact.
type SampleRow struct {
	TSUTCISO        string   `json:"ts_utc_iso,omitempty"`
	ElapsedS        float64  `json:"elapsed_s"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	AltitudeM       *float64 `json:"altitude_m,omitempty"`
	PowerW          *float64 `json:"power_w,omitempty"`
	HRBPM           *float64 `json:"hr_bpm,omitempty"`
	CadenceRPM      *float64 `json:"cadence_rpm,omitempty"`
	TemperatureC    *float64 `json:"temperature_c,omitempty"`
	SpeedKMH        *float64 `json:"speed_kmh,omitempty"`
	VerticalSpeedMS *float64 `json:"vertical_speed_ms,omitempty"`
	VerticalSpeedMH *float64 `json:"vertical_speed_mh,omitempty"`
	SampleIndex     int      `json:"sample_index"`
}

// SegmentInfo describes one moving segment of the track.
type SegmentInfo struct {
	StartIndex  int     `json:"start_index"`
	EndIndex    int     `json:"end_index"`
	StartTSUTC  string  `json:"start_ts_utc"`
	EndTSUTC    string  `json:"end_ts_utc"`
	DurationS   float64 `json:"duration_s"`
	SampleCount int     `json:"sample_count"`
}

// SegmentsFile is the segmentation artifact.
type SegmentsFile struct {
	PauseThresholdS float64       `json:"pause_threshold_s"`
	MovingTimeS     float64       `json:"moving_time_s"`
	Segments        []SegmentInfo `json:"segments"`
}

// PowerCurveFile is the power-curve artifact: a label-to-watts mapping
// with explicit nulls for undeterminable durations.
type PowerCurveFile struct {
	PauseThresholdS float64             `json:"pause_threshold_s"`
	Curve           map[string]*float64 `json:"curve"`
}

// Manifest describes the artifact bundle.
type Manifest struct {
	Tool           string   `json:"tool"`
	SourceFile     string   `json:"source_file"`
	SourceFormat   string   `json:"source_format"`
	GeneratedAtUTC string   `json:"generated_at_utc"`
	Artifacts      []string `json:"artifacts"`
}

// Package pipeline runs the full track analysis over one recording
// and writes an artifact bundle: enriched samples (CSV or parquet),
// track summary, segmentation, power curve, and a manifest.
package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jbarrau/trackcurve"
	"github.com/jbarrau/trackcurve/ingest"
)

// Run parses, analyzes, and exports one track.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.TrackPath) == "" {
		return nil, fmt.Errorf("track path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return nil, fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}

	track, err := ingest.ParseFile(opts.TrackPath)
	if err != nil {
		return nil, err
	}

	cfg := trackcurve.Config{
		PauseThresholdSeconds:  opts.PauseThresholdSeconds,
		SmoothingWindowSeconds: opts.SmoothingWindowSeconds,
	}
	track.Analyze(cfg)
	summary := trackcurve.Summarize(track, cfg)

	if err := prepareOutDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	result := &Result{
		OutputDir: opts.OutDir,
		Summary:   summary,
		Curve:     track.PowerCurve,
	}

	rows := buildSampleRows(track)
	result.SamplesPath = filepath.Join(opts.OutDir, "enriched_samples."+format)
	switch format {
	case "csv":
		if err := writeSamplesCSV(result.SamplesPath, rows); err != nil {
			return nil, fmt.Errorf("write enriched csv: %w", err)
		}
	case "parquet":
		if err := writeSamplesParquet(result.SamplesPath, rows); err != nil {
			return nil, fmt.Errorf("write enriched parquet: %w", err)
		}
	}

	result.SummaryPath = filepath.Join(opts.OutDir, "track_summary.json")
	if err := writeJSON(result.SummaryPath, summary); err != nil {
		return nil, fmt.Errorf("write track_summary.json: %w", err)
	}

	pause := cfgPause(cfg)
	segFile := buildSegmentsFile(track, pause)
	result.SegmentsPath = filepath.Join(opts.OutDir, "segments.json")
	if err := writeJSON(result.SegmentsPath, segFile); err != nil {
		return nil, fmt.Errorf("write segments.json: %w", err)
	}

	// The curve artifact is only written when the track has usable
	// power data; an absent curve is absent, not a mapping of nulls.
	if track.PowerCurve != nil {
		result.PowerCurvePath = filepath.Join(opts.OutDir, "power_curve.json")
		curveFile := PowerCurveFile{PauseThresholdS: pause, Curve: track.PowerCurve}
		if err := writeJSON(result.PowerCurvePath, curveFile); err != nil {
			return nil, fmt.Errorf("write power_curve.json: %w", err)
		}
	}

	if opts.CopySource {
		result.SourceCopyPath = filepath.Join(opts.OutDir, "source"+strings.ToLower(filepath.Ext(opts.TrackPath)))
		if err := copyFile(opts.TrackPath, result.SourceCopyPath); err != nil {
			return nil, fmt.Errorf("copy source file: %w", err)
		}
	}

	manifest := Manifest{
		Tool:           "trackcurve",
		SourceFile:     filepath.Base(opts.TrackPath),
		SourceFormat:   track.Source,
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Artifacts:      artifactNames(result),
	}
	result.ManifestPath = filepath.Join(opts.OutDir, "manifest.json")
	if err := writeJSON(result.ManifestPath, manifest); err != nil {
		return nil, fmt.Errorf("write manifest.json: %w", err)
	}

	return result, nil
}

func cfgPause(cfg trackcurve.Config) float64 {
	if cfg.PauseThresholdSeconds > 0 {
		return cfg.PauseThresholdSeconds
	}
	return trackcurve.DefaultConfig().PauseThresholdSeconds
}

func prepareOutDir(dir string, overwrite bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if overwrite {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("output directory %s is not empty (use overwrite)", dir)
	}
	return nil
}

func buildSampleRows(track *trackcurve.Track) []SampleRow {
	rows := make([]SampleRow, 0, len(track.Samples))
	var firstTS time.Time
	for i := range track.Samples {
		s := &track.Samples[i]
		row := SampleRow{
			Latitude:        s.Latitude,
			Longitude:       s.Longitude,
			AltitudeM:       s.Altitude,
			PowerW:          s.Power,
			HRBPM:           s.HeartRate,
			CadenceRPM:      s.Cadence,
			TemperatureC:    s.Temperature,
			SpeedKMH:        s.Speed,
			VerticalSpeedMS: s.VerticalSpeedMS,
			VerticalSpeedMH: s.VerticalSpeedMH,
			SampleIndex:     i,
		}
		if s.HasTimestamp() {
			ts := s.Timestamp.UTC()
			if firstTS.IsZero() {
				firstTS = ts
			}
			row.TSUTCISO = ts.Format(time.RFC3339)
			row.ElapsedS = ts.Sub(firstTS).Seconds()
		}
		rows = append(rows, row)
	}
	return rows
}

func buildSegmentsFile(track *trackcurve.Track, pauseThresholdSeconds float64) SegmentsFile {
	out := SegmentsFile{
		PauseThresholdS: pauseThresholdSeconds,
		MovingTimeS:     track.MovingTime(pauseThresholdSeconds),
	}
	for _, segment := range track.MovingSegments(pauseThresholdSeconds) {
		first := &track.Samples[segment[0]]
		last := &track.Samples[segment[len(segment)-1]]
		out.Segments = append(out.Segments, SegmentInfo{
			StartIndex:  segment[0],
			EndIndex:    segment[len(segment)-1],
			StartTSUTC:  first.Timestamp.UTC().Format(time.RFC3339),
			EndTSUTC:    last.Timestamp.UTC().Format(time.RFC3339),
			DurationS:   last.Timestamp.Sub(first.Timestamp).Seconds(),
			SampleCount: len(segment),
		})
	}
	return out
}

func artifactNames(r *Result) []string {
	names := []string{
		filepath.Base(r.SamplesPath),
		filepath.Base(r.SummaryPath),
		filepath.Base(r.SegmentsPath),
		"manifest.json",
	}
	if r.PowerCurvePath != "" {
		names = append(names, filepath.Base(r.PowerCurvePath))
	}
	if r.SourceCopyPath != "" {
		names = append(names, filepath.Base(r.SourceCopyPath))
	}
	return names
}

func writeSamplesCSV(path string, rows []SampleRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"ts_utc_iso", "elapsed_s", "latitude", "longitude", "altitude_m",
		"power_w", "hr_bpm", "cadence_rpm", "temperature_c", "speed_kmh",
		"vertical_speed_ms", "vertical_speed_mh", "sample_index",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			r.TSUTCISO,
			formatFloat(r.ElapsedS),
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			formatFloatPtr(r.AltitudeM),
			formatFloatPtr(r.PowerW),
			formatFloatPtr(r.HRBPM),
			formatFloatPtr(r.CadenceRPM),
			formatFloatPtr(r.TemperatureC),
			formatFloatPtr(r.SpeedKMH),
			formatFloatPtr(r.VerticalSpeedMS),
			formatFloatPtr(r.VerticalSpeedMH),
			strconv.Itoa(r.SampleIndex),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

package trackcurve

import (
	"fmt"
	"math"
	"strings"
)

// BuildTrackNotes turns a summary and power curve into a detailed
// plain-text report.
func BuildTrackNotes(s *Summary, curve PowerCurve) string {
	if s == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Track: %s (%s)\n", s.Name, s.Source)
	if !s.StartTime.IsZero() {
		fmt.Fprintf(&b, "Start: %s\n", s.StartTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(
		&b,
		"Duration %s moving / %s elapsed | Distance %.1f km | Elevation +%.0f/-%.0f m\n",
		formatDuration(s.MovingSeconds),
		formatDuration(s.ElapsedSeconds),
		s.DistanceKM,
		s.ElevationGainM,
		s.ElevationLossM,
	)
	if s.AvgSpeedKMH > 0 || s.MaxSpeedKMH > 0 {
		fmt.Fprintf(
			&b,
			"Speed %.1f avg / %.1f max km/h (P95 %.1f)\n",
			s.AvgSpeedKMH,
			s.MaxSpeedKMH,
			s.P95SpeedKMH,
		)
	}
	if s.AvgPowerWatts > 0 || s.MaxPowerWatts > 0 {
		fmt.Fprintf(
			&b,
			"Power %.0f avg / %.0f max W (stddev %.0f)\n",
			s.AvgPowerWatts,
			s.MaxPowerWatts,
			s.PowerStdDev,
		)
	}
	if s.AvgHeartRate > 0 || s.AvgCadence > 0 {
		fmt.Fprintf(
			&b,
			"HR %.0f avg / %.0f max bpm | Cadence %.0f avg / %.0f max rpm\n",
			s.AvgHeartRate,
			s.MaxHeartRate,
			s.AvgCadence,
			s.MaxCadence,
		)
	}
	if s.MaxClimbMS > 0 || s.MaxSinkMS > 0 {
		fmt.Fprintf(
			&b,
			"Vertical %.1f max climb / %.1f max sink m/s\n",
			s.MaxClimbMS,
			s.MaxSinkMS,
		)
	}

	if curve != nil {
		b.WriteString("\nBest Average Power\n")
		for _, d := range CurveDurations() {
			v, ok := curve[d.Label]
			if !ok || v == nil {
				continue
			}
			fmt.Fprintf(&b, "- %-5s %6.0f W\n", d.Label, *v)
		}
		if v, ok := curve[TotalLabel]; ok && v != nil {
			fmt.Fprintf(&b, "- %-5s %6.0f W\n", TotalLabel, *v)
		}
	}

	return strings.TrimSpace(b.String())
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	s := int(math.Round(seconds))
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, sec)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}

package trackcurve

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeStartEndTimes(t *testing.T) {
	track := summaryTrack()
	s := Summarize(track, Config{})

	require.NotNil(t, s)
	require.False(t, s.StartTime.IsZero())
	assert.Equal(t, testStart, s.StartTime)
	assert.Equal(t, testStart.Add(60*time.Second), s.EndTime)
}

func summaryTrack() *Track {
	track := &Track{Name: "evening loop", Source: "tcx"}
	alt := 400.0
	for i := 0; i <= 60; i++ {
		s := powerSampleAt(float64(i), 150+float64(i%4)*10)
		s.Latitude += float64(i) * 0.0001
		if i%2 == 0 {
			alt += 1
		} else {
			alt -= 0.25
		}
		s.Altitude = fp(alt)
		s.HeartRate = fp(130 + float64(i%10))
		s.Cadence = fp(85)
		track.Samples = append(track.Samples, s)
	}
	return track
}

func TestSummarizeAggregates(t *testing.T) {
	track := summaryTrack()
	track.Analyze(Config{})

	s := Summarize(track, Config{})

	assert.Equal(t, "evening loop", s.Name)
	assert.Equal(t, "tcx", s.Source)
	assert.Equal(t, 61, s.SampleCount)
	assert.Equal(t, testStart, s.StartTime)
	assert.InDelta(t, 60.0, s.ElapsedSeconds, 1e-9)
	assert.InDelta(t, 60.0, s.MovingSeconds, 1e-9)

	assert.Greater(t, s.DistanceKM, 0.0)
	assert.Greater(t, s.AvgSpeedKMH, 0.0)
	assert.GreaterOrEqual(t, s.MaxSpeedKMH, s.AvgSpeedKMH)
	assert.GreaterOrEqual(t, s.MaxSpeedKMH, s.P95SpeedKMH)

	// Power readings cycle 150,160,170,180.
	assert.GreaterOrEqual(t, s.AvgPowerWatts, 150.0)
	assert.LessOrEqual(t, s.AvgPowerWatts, 180.0)
	assert.Equal(t, 180.0, s.MaxPowerWatts)
	assert.Greater(t, s.PowerStdDev, 0.0)

	assert.Equal(t, 139.0, s.MaxHeartRate)
	assert.Equal(t, 85.0, s.AvgCadence)
	assert.Equal(t, 85.0, s.MaxCadence)
}

func TestSummarizeElevationGainLoss(t *testing.T) {
	track := &Track{}
	for i, alt := range []float64{400, 410, 405, 420, 415} {
		s := sampleAt(float64(i * 10))
		s.Altitude = fp(alt)
		track.Samples = append(track.Samples, s)
	}

	s := Summarize(track, Config{})

	assert.InDelta(t, 25.0, s.ElevationGainM, 1e-9)
	assert.InDelta(t, 10.0, s.ElevationLossM, 1e-9)
}

func TestSummarizeVerticalExtremes(t *testing.T) {
	track := &Track{Samples: []Sample{sampleAt(0), sampleAt(1), sampleAt(2)}}
	track.Samples[1].VerticalSpeedMS = fp(2.5)
	track.Samples[2].VerticalSpeedMS = fp(-4.0)

	s := Summarize(track, Config{})

	assert.Equal(t, 2.5, s.MaxClimbMS)
	assert.Equal(t, 4.0, s.MaxSinkMS)
}

func TestSummarizeEmptyTrack(t *testing.T) {
	s := Summarize(&Track{Name: "empty"}, Config{})
	assert.Equal(t, "empty", s.Name)
	assert.Zero(t, s.SampleCount)
	assert.True(t, s.StartTime.IsZero())
	assert.Zero(t, s.ElapsedSeconds)
	assert.Zero(t, s.AvgPowerWatts)
}

func TestBuildTrackNotes(t *testing.T) {
	track := summaryTrack()
	track.Analyze(Config{})
	s := Summarize(track, Config{})

	notes := BuildTrackNotes(s, track.PowerCurve)

	assert.Contains(t, notes, "Track: evening loop (tcx)")
	assert.Contains(t, notes, "Start: 2024-06-01 09:00:00")
	assert.Contains(t, notes, "1m00s moving")
	assert.Contains(t, notes, "Best Average Power")
	assert.Contains(t, notes, "5s")
	assert.Contains(t, notes, "Total")
	assert.NotContains(t, notes, "2h", "unattainable durations are omitted")
}

func TestBuildTrackNotesWithoutCurve(t *testing.T) {
	s := &Summary{Name: "walk", Source: "gpx"}
	notes := BuildTrackNotes(s, nil)
	assert.False(t, strings.Contains(notes, "Best Average Power"))
	assert.Empty(t, BuildTrackNotes(nil, nil))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", formatDuration(0))
	assert.Equal(t, "45s", formatDuration(45))
	assert.Equal(t, "2m05s", formatDuration(125))
	assert.Equal(t, "1h01m01s", formatDuration(3661))
}

package trackcurve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerCurveBestWindow(t *testing.T) {
	// Samples at 0,5,10 s with 100,200,300 W. Moving time is 10 s.
	// For the 5 s duration the trailing window averages
	// (200+300)/2 = 250 W and beats the leading 150 W window.
	track := &Track{Samples: []Sample{
		powerSampleAt(0, 100),
		powerSampleAt(5, 200),
		powerSampleAt(10, 300),
	}}

	track.ComputePowerCurve(900)

	require.NotNil(t, track.PowerCurve)
	best := track.PowerCurve["5s"]
	require.NotNil(t, best)
	assert.InDelta(t, 250.0, *best, 1e-9)

	tenSec := track.PowerCurve["10s"]
	require.NotNil(t, tenSec)
	assert.InDelta(t, 200.0, *tenSec, 1e-9, "full-track window is the trapezoid average")
}

func TestPowerCurveDurationsBeyondMovingTimeAreNull(t *testing.T) {
	track := &Track{Samples: []Sample{
		powerSampleAt(0, 100),
		powerSampleAt(5, 200),
		powerSampleAt(10, 300),
	}}

	track.ComputePowerCurve(900)

	require.NotNil(t, track.PowerCurve)
	for _, label := range []string{"20s", "1min", "1h", "5h"} {
		v, ok := track.PowerCurve[label]
		assert.True(t, ok, "duration %s must be present", label)
		assert.Nil(t, v, "duration %s exceeds moving time", label)
	}
}

func TestPowerCurveTotalEntry(t *testing.T) {
	track := &Track{Samples: []Sample{
		powerSampleAt(0, 100),
		powerSampleAt(5, 200),
		powerSampleAt(10, 300),
	}}

	track.ComputePowerCurve(900)

	require.NotNil(t, track.PowerCurve)
	total, ok := track.PowerCurve[TotalLabel]
	require.True(t, ok)
	require.NotNil(t, total)
	assert.InDelta(t, 200.0, *total, 1e-9)
}

func TestPowerCurveAbsentWithoutPowerData(t *testing.T) {
	// All-null power: the curve attribute itself must be absent, not
	// a mapping of nulls.
	track := &Track{Samples: []Sample{sampleAt(0), sampleAt(5), sampleAt(10)}}
	track.ComputePowerCurve(900)
	assert.Nil(t, track.PowerCurve)

	// All-zero power is "no data" as well.
	track = &Track{Samples: []Sample{
		powerSampleAt(0, 0),
		powerSampleAt(5, 0),
	}}
	track.ComputePowerCurve(900)
	assert.Nil(t, track.PowerCurve)
}

func TestPowerCurveSingleSampleTrack(t *testing.T) {
	track := &Track{Samples: []Sample{powerSampleAt(0, 250)}}
	track.ComputePowerCurve(900)

	// One sample has power and a timestamp, so the curve exists, but
	// no duration is determinable: moving time is zero.
	require.NotNil(t, track.PowerCurve)
	for label, v := range track.PowerCurve {
		assert.Nil(t, v, "label %s", label)
	}
	_, hasTotal := track.PowerCurve[TotalLabel]
	assert.False(t, hasTotal, "zero moving time adds no Total entry")
}

func TestPowerCurveWindowsNeverSpanPauses(t *testing.T) {
	// Two 60 s segments of steady 100 W and 400 W around a 20-minute
	// pause. The 2min duration has enough total moving time but no
	// single segment long enough, so it stays null; 1min must come
	// from the hot segment alone.
	track := &Track{}
	for i := 0; i <= 60; i += 5 {
		track.Samples = append(track.Samples, powerSampleAt(float64(i), 100))
	}
	for i := 0; i <= 60; i += 5 {
		track.Samples = append(track.Samples, powerSampleAt(float64(i)+1500, 400))
	}

	track.ComputePowerCurve(900)

	require.NotNil(t, track.PowerCurve)
	oneMin := track.PowerCurve["1min"]
	require.NotNil(t, oneMin)
	assert.InDelta(t, 400.0, *oneMin, 1e-9, "best 1min window sits entirely in the second segment")

	assert.Nil(t, track.PowerCurve["2min"], "no single segment satisfies 2min")
}

func TestPowerCurveAcceptsNearTargetWindows(t *testing.T) {
	// 58 s of data satisfies the 1min duration via the 95% tolerance
	// once moving time is at least the target.
	track := &Track{}
	for i := 0; i <= 58; i += 2 {
		track.Samples = append(track.Samples, powerSampleAt(float64(i), 200))
	}
	// Pad moving time past 60 s with a second segment too short to win.
	track.Samples = append(track.Samples, sampleAt(59)) // no power: splits segments
	track.Samples = append(track.Samples, powerSampleAt(60, 50))
	track.Samples = append(track.Samples, powerSampleAt(64, 50))

	track.ComputePowerCurve(900)

	require.NotNil(t, track.PowerCurve)
	oneMin := track.PowerCurve["1min"]
	require.NotNil(t, oneMin)
	assert.InDelta(t, 200.0, *oneMin, 1e-9)
}

func TestPowerCurveDeterminism(t *testing.T) {
	build := func() *Track {
		track := &Track{}
		for i := 0; i < 500; i++ {
			watts := 150 + float64((i*37)%180)
			off := float64(i * 2)
			if i > 300 {
				off += 1200 // pause
			}
			s := powerSampleAt(off, watts)
			s.Altitude = fp(500 + float64(i%40))
			track.Samples = append(track.Samples, s)
		}
		return track
	}

	first := build()
	first.Analyze(Config{})
	second := build()
	second.Analyze(Config{})

	if diff := cmp.Diff(first.PowerCurve, second.PowerCurve); diff != "" {
		t.Fatalf("power curve not deterministic (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Samples, second.Samples); diff != "" {
		t.Fatalf("derived samples not deterministic (-first +second):\n%s", diff)
	}
}

package trackcurve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingSegmentsPauseSplit(t *testing.T) {
	// A 20-minute gap between samples 50 and 51 must split the track
	// into two segments ending/starting exactly there.
	track := &Track{}
	for i := 0; i <= 50; i++ {
		track.Samples = append(track.Samples, powerSampleAt(float64(i), 150))
	}
	for i := 51; i <= 100; i++ {
		track.Samples = append(track.Samples, powerSampleAt(float64(i)+1200, 150))
	}

	segments := track.MovingSegments(900)

	require.Len(t, segments, 2)
	assert.Equal(t, 0, segments[0][0])
	assert.Equal(t, 50, segments[0][len(segments[0])-1])
	assert.Equal(t, 51, segments[1][0])
	assert.Equal(t, 100, segments[1][len(segments[1])-1])
}

func TestMovingSegmentsExcludesIneligibleSamples(t *testing.T) {
	noPower := sampleAt(2)
	noTS := Sample{Latitude: 47.5, Longitude: 8.5, Power: fp(150)}

	track := &Track{Samples: []Sample{
		powerSampleAt(0, 100),
		powerSampleAt(1, 110),
		noPower,
		powerSampleAt(3, 120),
		noTS,
		powerSampleAt(5, 130),
		powerSampleAt(6, 140),
	}}

	segments := track.MovingSegments(900)

	require.Len(t, segments, 3)
	assert.Equal(t, []int{0, 1}, segments[0])
	assert.Equal(t, []int{3}, segments[1])
	assert.Equal(t, []int{5, 6}, segments[2])
}

func TestMovingSegmentsCoverage(t *testing.T) {
	// Union of segment indices plus excluded indices covers the full
	// range exactly once.
	track := &Track{}
	for i := 0; i < 200; i++ {
		switch {
		case i%17 == 0:
			track.Samples = append(track.Samples, sampleAt(float64(i))) // no power
		case i%23 == 0:
			track.Samples = append(track.Samples, Sample{Latitude: 47.5, Longitude: 8.5, Power: fp(100)}) // no timestamp
		case i == 150:
			track.Samples = append(track.Samples, powerSampleAt(float64(i)+2000, 100)) // pause jump
		default:
			off := float64(i)
			if i > 150 {
				off += 2000
			}
			track.Samples = append(track.Samples, powerSampleAt(off, 100))
		}
	}

	seen := map[int]int{}
	for _, segment := range track.MovingSegments(900) {
		for _, idx := range segment {
			seen[idx]++
		}
	}

	for i := range track.Samples {
		s := &track.Samples[i]
		eligible := s.Power != nil && s.HasTimestamp()
		if eligible {
			assert.Equal(t, 1, seen[i], "eligible sample %d must appear exactly once", i)
		} else {
			assert.Zero(t, seen[i], "ineligible sample %d must appear in no segment", i)
		}
	}
}

func TestMovingSegmentsFinalSegmentAppended(t *testing.T) {
	track := &Track{Samples: []Sample{
		powerSampleAt(0, 100),
		powerSampleAt(1, 100),
	}}
	segments := track.MovingSegments(900)
	require.Len(t, segments, 1)
	assert.Equal(t, []int{0, 1}, segments[0])
}

func TestMovingTimeIgnoresPausesAndSkews(t *testing.T) {
	track := &Track{Samples: []Sample{
		sampleAt(0),
		sampleAt(10),
		sampleAt(10),   // duplicate timestamp: ignored
		sampleAt(5),    // backwards: ignored
		sampleAt(2000), // 1995 s gap > threshold: ignored
		sampleAt(2010),
	}}

	assert.InDelta(t, 20.0, track.MovingTime(900), 1e-9)
}

func TestMovingTimeEmptyAndSingle(t *testing.T) {
	assert.Zero(t, (&Track{}).MovingTime(900))
	assert.Zero(t, (&Track{Samples: []Sample{sampleAt(0)}}).MovingTime(900))
}

package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tcxFixture = `<?xml version="1.0" encoding="UTF-8"?>
<TrainingCenterDatabase xmlns="http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2">
  <Activities>
    <Activity Sport="Biking">
      <Lap StartTime="2024-06-01T09:00:00Z">
        <Track>
          <Trackpoint>
            <Time>2024-06-01T09:00:00Z</Time>
            <Position>
              <LatitudeDegrees>47.3769</LatitudeDegrees>
              <LongitudeDegrees>8.5417</LongitudeDegrees>
            </Position>
            <AltitudeMeters>408.5</AltitudeMeters>
            <HeartRateBpm><Value>142</Value></HeartRateBpm>
            <Cadence>88</Cadence>
            <Extensions>
              <TPX xmlns="http://www.garmin.com/xmlschemas/ActivityExtension/v2">
                <Speed>8.5</Speed>
                <Watts>215</Watts>
              </TPX>
            </Extensions>
          </Trackpoint>
          <Trackpoint>
            <Time>2024-06-01T09:00:01Z</Time>
          </Trackpoint>
          <Trackpoint>
            <Time>2024-06-01T09:00:02Z</Time>
            <Position>
              <LatitudeDegrees>47.3770</LatitudeDegrees>
              <LongitudeDegrees>8.5418</LongitudeDegrees>
            </Position>
          </Trackpoint>
        </Track>
      </Lap>
    </Activity>
  </Activities>
</TrainingCenterDatabase>`

func TestTCXParse(t *testing.T) {
	track, err := TCXParser{}.Parse([]byte(tcxFixture), "ride.tcx")
	require.NoError(t, err)

	assert.Equal(t, "tcx", track.Source)
	// The positionless trackpoint is dropped.
	require.Len(t, track.Samples, 2)

	first := track.Samples[0]
	assert.Equal(t, 47.3769, first.Latitude)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), first.Timestamp)
	require.NotNil(t, first.Altitude)
	assert.Equal(t, 408.5, *first.Altitude)
	require.NotNil(t, first.HeartRate)
	assert.Equal(t, 142.0, *first.HeartRate)
	require.NotNil(t, first.Cadence)
	assert.Equal(t, 88.0, *first.Cadence)
	require.NotNil(t, first.Power)
	assert.Equal(t, 215.0, *first.Power)
	require.NotNil(t, first.Speed)
	assert.InDelta(t, 30.6, *first.Speed, 1e-9, "TPX speed is m/s, stored as km/h")
}

func TestTCXAbsentSensorsStayNil(t *testing.T) {
	track, err := TCXParser{}.Parse([]byte(tcxFixture), "ride.tcx")
	require.NoError(t, err)

	second := track.Samples[1]
	assert.Nil(t, second.Power, "no zero defaulting in tcx")
	assert.Nil(t, second.Cadence)
	assert.Nil(t, second.HeartRate)
	assert.Nil(t, second.Speed)
	assert.Nil(t, second.Altitude)
}

func TestTCXNoTrackpoints(t *testing.T) {
	fixture := `<TrainingCenterDatabase><Activities><Activity Sport="Biking">
      <Lap><Track></Track></Lap>
    </Activity></Activities></TrainingCenterDatabase>`
	_, err := TCXParser{}.Parse([]byte(fixture), "empty.tcx")
	assert.ErrorIs(t, err, ErrNoTrackData)
}

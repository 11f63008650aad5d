package ingest

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/jbarrau/trackcurve"
)

type tcxFile struct {
	XMLName    xml.Name      `xml:"TrainingCenterDatabase"`
	Activities []tcxActivity `xml:"Activities>Activity"`
}

type tcxActivity struct {
	Sport string   `xml:"Sport,attr"`
	Laps  []tcxLap `xml:"Lap"`
}

type tcxLap struct {
	Tracks []tcxTrack `xml:"Track"`
}

type tcxTrack struct {
	Points []tcxPoint `xml:"Trackpoint"`
}

type tcxPoint struct {
	Time       string         `xml:"Time"`
	Position   *tcxPosition   `xml:"Position"`
	Altitude   *float64       `xml:"AltitudeMeters"`
	HeartRate  *tcxHeartRate  `xml:"HeartRateBpm"`
	Cadence    *float64       `xml:"Cadence"`
	Extensions *tcxExtensions `xml:"Extensions"`
}

type tcxPosition struct {
	Lat float64 `xml:"LatitudeDegrees"`
	Lon float64 `xml:"LongitudeDegrees"`
}

type tcxHeartRate struct {
	Value float64 `xml:"Value"`
}

type tcxExtensions struct {
	TPX *tcxTPX `xml:"TPX"`
}

type tcxTPX struct {
	Speed *float64 `xml:"Speed"` // m/s
	Watts *float64 `xml:"Watts"`
}

// TCXParser parses Garmin Training Center XML recordings. Trackpoints
// without a position are skipped; absent sensor values stay nil so
// the engine sees "no data" rather than zero.
type TCXParser struct{}

func (TCXParser) Parse(data []byte, name string) (*trackcurve.Track, error) {
	var doc tcxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tcx: %w", err)
	}

	track := &trackcurve.Track{Name: name, Source: "tcx"}
	for _, activity := range doc.Activities {
		for _, lap := range activity.Laps {
			for _, trk := range lap.Tracks {
				for _, pt := range trk.Points {
					if pt.Position == nil {
						continue
					}
					track.Samples = append(track.Samples, tcxSample(pt))
				}
			}
		}
	}
	if len(track.Samples) == 0 {
		return nil, ErrNoTrackData
	}
	return track, nil
}

func tcxSample(pt tcxPoint) trackcurve.Sample {
	s := trackcurve.Sample{
		Latitude:  pt.Position.Lat,
		Longitude: pt.Position.Lon,
		Altitude:  pt.Altitude,
		Cadence:   pt.Cadence,
	}
	if ts, err := time.Parse(time.RFC3339, pt.Time); err == nil {
		s.Timestamp = ts
	}
	if pt.HeartRate != nil {
		hr := pt.HeartRate.Value
		s.HeartRate = &hr
	}
	if ext := pt.Extensions; ext != nil && ext.TPX != nil {
		s.Power = ext.TPX.Watts
		if ext.TPX.Speed != nil {
			kmh := *ext.TPX.Speed * 3.6
			s.Speed = &kmh
		}
	}
	return s
}

func init() {
	RegisterParser(".tcx", TCXParser{})
}

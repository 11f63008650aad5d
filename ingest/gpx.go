package ingest

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/jbarrau/trackcurve"
)

// gpxFile is the subset of the GPX schema the engine consumes.
// Element names are matched by local name, so Garmin's v1 and v2
// TrackPointExtension namespaces both resolve.
type gpxFile struct {
	XMLName   xml.Name   `xml:"gpx"`
	Tracks    []gpxTrack `xml:"trk"`
	Routes    []gpxRoute `xml:"rte"`
	Waypoints []gpxPoint `xml:"wpt"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxRoute struct {
	Points []gpxPoint `xml:"rtept"`
}

type gpxPoint struct {
	Lat        float64        `xml:"lat,attr"`
	Lon        float64        `xml:"lon,attr"`
	Ele        *float64       `xml:"ele"`
	Time       string         `xml:"time"`
	Speed      *float64       `xml:"speed"` // GPX 1.0, m/s
	Extensions *gpxExtensions `xml:"extensions"`
}

// gpxExtensions carries sensor readings either directly under
// <extensions> or wrapped in a <TrackPointExtension> element.
type gpxExtensions struct {
	Power       *float64 `xml:"power"`
	HeartRate   *float64 `xml:"hr"`
	Cadence     *float64 `xml:"cad"`
	Temperature *float64 `xml:"atemp"`
	Wrapped     *gpxTPE  `xml:"TrackPointExtension"`
}

type gpxTPE struct {
	Power       *float64 `xml:"power"`
	HeartRate   *float64 `xml:"hr"`
	Cadence     *float64 `xml:"cad"`
	Temperature *float64 `xml:"atemp"`
}

// GPXParser parses GPX 1.0/1.1 recordings.
type GPXParser struct{}

func (GPXParser) Parse(data []byte, name string) (*trackcurve.Track, error) {
	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode gpx: %w", err)
	}

	track := &trackcurve.Track{Name: name, Source: "gpx"}
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				track.Samples = append(track.Samples, gpxSample(pt))
			}
		}
	}
	// Some producers emit routes or bare waypoints instead of tracks.
	if len(track.Samples) == 0 {
		for _, rte := range doc.Routes {
			for _, pt := range rte.Points {
				track.Samples = append(track.Samples, gpxSample(pt))
			}
		}
	}
	if len(track.Samples) == 0 {
		for _, pt := range doc.Waypoints {
			track.Samples = append(track.Samples, gpxSample(pt))
		}
	}
	if len(track.Samples) == 0 {
		return nil, ErrNoTrackData
	}
	return track, nil
}

func gpxSample(pt gpxPoint) trackcurve.Sample {
	s := trackcurve.Sample{
		Latitude:  pt.Lat,
		Longitude: pt.Lon,
		Altitude:  pt.Ele,
	}
	if ts, err := time.Parse(time.RFC3339, pt.Time); err == nil {
		s.Timestamp = ts
	}
	if pt.Speed != nil {
		kmh := *pt.Speed * 3.6
		s.Speed = &kmh
	}

	if ext := pt.Extensions; ext != nil {
		s.Power = firstFloat(ext.Power, wrappedField(ext.Wrapped, func(w *gpxTPE) *float64 { return w.Power }))
		s.HeartRate = firstFloat(ext.HeartRate, wrappedField(ext.Wrapped, func(w *gpxTPE) *float64 { return w.HeartRate }))
		s.Cadence = firstFloat(ext.Cadence, wrappedField(ext.Wrapped, func(w *gpxTPE) *float64 { return w.Cadence }))
		s.Temperature = firstFloat(ext.Temperature, wrappedField(ext.Wrapped, func(w *gpxTPE) *float64 { return w.Temperature }))
	}

	// GPX guarantees a slot for power and cadence, so absent readings
	// mean zero rather than "no data".
	if s.Power == nil {
		zero := 0.0
		s.Power = &zero
	}
	if s.Cadence == nil {
		zero := 0.0
		s.Cadence = &zero
	}
	return s
}

func wrappedField(w *gpxTPE, get func(*gpxTPE) *float64) *float64 {
	if w == nil {
		return nil
	}
	return get(w)
}

func firstFloat(candidates ...*float64) *float64 {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

func init() {
	RegisterParser(".gpx", GPXParser{})
}

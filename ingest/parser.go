// Package ingest turns on-disk activity recordings (GPX, TCX, FIT)
// into raw trackcurve tracks. Parsers only extract ordered samples;
// all derivation is left to the engine.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jbarrau/trackcurve"
)

var (
	// ErrUnsupportedFormat indicates no parser is registered for the
	// file's extension.
	ErrUnsupportedFormat = errors.New("unsupported track file format")

	// ErrNoTrackData indicates the file parsed but contained no
	// usable track points.
	ErrNoTrackData = errors.New("file contains no track points")
)

// Parser converts one recording format into a raw track.
type Parser interface {
	Parse(data []byte, name string) (*trackcurve.Track, error)
}

var parsers = map[string]Parser{}

// RegisterParser associates a file extension (".gpx") with a parser.
func RegisterParser(ext string, p Parser) {
	parsers[strings.ToLower(ext)] = p
}

// ParserFor returns the parser registered for the path's extension.
func ParserFor(path string) (Parser, bool) {
	p, ok := parsers[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

// SupportedExtensions lists the registered file extensions.
func SupportedExtensions() []string {
	out := make([]string, 0, len(parsers))
	for ext := range parsers {
		out = append(out, ext)
	}
	return out
}

// ParseFile reads and parses a recording, dispatching on extension.
// The returned track is raw: no derived fields, no power curve.
func ParseFile(path string) (*trackcurve.Track, error) {
	p, ok := ParserFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read track file: %w", err)
	}
	return p.Parse(data, filepath.Base(path))
}

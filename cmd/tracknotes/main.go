package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jbarrau/trackcurve"
	"github.com/jbarrau/trackcurve/ingest"
)

func main() {
	var (
		pause     = flag.Float64("pause", 900, "Pause threshold in seconds")
		window    = flag.Float64("window", 15, "Smoothing window in seconds")
		jsonOut   = flag.Bool("json", false, "Emit summary and power curve as JSON")
		showCurve = flag.Bool("curve", false, "Include null power-curve entries in text output")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-track-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	track, err := ingest.ParseFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse failed: %v\n", err)
		os.Exit(1)
	}

	cfg := trackcurve.Config{
		PauseThresholdSeconds:  *pause,
		SmoothingWindowSeconds: *window,
	}
	track.Analyze(cfg)
	summary := trackcurve.Summarize(track, cfg)

	if *jsonOut {
		out := struct {
			Summary    *trackcurve.Summary   `json:"summary"`
			PowerCurve trackcurve.PowerCurve `json:"power_curve,omitempty"`
		}{summary, track.PowerCurve}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(trackcurve.BuildTrackNotes(summary, track.PowerCurve))
	if *showCurve && track.PowerCurve != nil {
		fmt.Println()
		fmt.Println("Power Curve (all durations)")
		for _, d := range trackcurve.CurveDurations() {
			v := track.PowerCurve[d.Label]
			if v == nil {
				fmt.Printf("- %-5s      -\n", d.Label)
				continue
			}
			fmt.Printf("- %-5s %6.0f W\n", d.Label, *v)
		}
	}
}

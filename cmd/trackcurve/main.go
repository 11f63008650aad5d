package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jbarrau/trackcurve/pipeline"
	"github.com/jbarrau/trackcurve/trackdb"
)

func main() {
	// .env is optional; flags beat env, env beats defaults.
	_ = godotenv.Load()

	var (
		trackPath = flag.String("track", "", "Path to input .gpx/.tcx/.fit file")
		outDir    = flag.String("out", "", "Output directory")
		format    = flag.String("format", envOr("TRACKCURVE_FORMAT", "parquet"), "Enriched sample format: parquet|csv")
		pause     = flag.Float64("pause", envFloat("TRACKCURVE_PAUSE_THRESHOLD", 900), "Pause threshold in seconds")
		window    = flag.Float64("window", envFloat("TRACKCURVE_SMOOTHING_WINDOW", 15), "Smoothing window in seconds")
		dbPath    = flag.String("db", os.Getenv("TRACKCURVE_DB"), "Optional SQLite database to record the summary and power curve")
		overwrite = flag.Bool("overwrite", true, "Allow writing into non-empty output directories")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --track ride.gpx --out outdir [--format parquet|csv] [--pause 900] [--window 15] [--db tracks.db]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*trackPath) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}

	result, err := pipeline.Run(pipeline.Options{
		TrackPath:              *trackPath,
		OutDir:                 *outDir,
		Format:                 *format,
		PauseThresholdSeconds:  *pause,
		SmoothingWindowSeconds: *window,
		Overwrite:              *overwrite,
		CopySource:             false,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "trackcurve failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("trackcurve complete\n")
	fmt.Printf("Output dir:        %s\n", result.OutputDir)
	fmt.Printf("enriched samples:  %s\n", result.SamplesPath)
	fmt.Printf("track summary:     %s\n", result.SummaryPath)
	fmt.Printf("segments:          %s\n", result.SegmentsPath)
	if result.PowerCurvePath != "" {
		fmt.Printf("power curve:       %s\n", result.PowerCurvePath)
	} else {
		fmt.Printf("power curve:       (no power data)\n")
	}
	fmt.Printf("manifest:          %s\n", result.ManifestPath)

	if strings.TrimSpace(*dbPath) != "" {
		db, err := trackdb.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open track db failed: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		id, err := db.SaveTrack(result.Summary, result.Curve)
		if err != nil {
			fmt.Fprintf(os.Stderr, "save track failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("recorded track:    %s (id %s)\n", *dbPath, id)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LdDl/mot-cleaner/config"
	"github.com/LdDl/mot-cleaner/csvio"
	"github.com/LdDl/mot-cleaner/internal/monitoring"
	"github.com/LdDl/mot-cleaner/mot"
	"github.com/LdDl/mot-cleaner/storage/sqlitestore"
)

var (
	inputCSV   = flag.String("icsv", "", "Input csv path file to process (required)")
	outputCSV  = flag.String("ocsv", "", "Output csv path file to save results (default: same as input with \"_output\" label)")
	windowTime = flag.Float64("wt", config.DefaultWindowTime.Seconds(), "Window time in seconds")
	maxOverlap = flag.Float64("mo", config.DefaultMaxOverlap, "Max overlapping in IoU metric, (0, 1]")
	fps        = flag.Int("fps", config.DefaultFPS, "Frame rate of the source videos")
	fillMode   = flag.String("fill", string(config.DefaultFillMode), "Gap filling mode: forward or kalman")
	workers    = flag.Int("workers", 0, "Tracks interpolated concurrently (0 = number of CPUs)")
	configPath = flag.String("config", "", "Optional TOML config file. Flags given explicitly override it")
	sqlitePath = flag.String("sqlite", "", "Optional SQLite database to store the cleaned table in")
	quiet      = flag.Bool("quiet", false, "Suppress progress logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Improve tracker results with time-window identity merging and frame interpolation.\n\nUsage:\n\t%s -icsv test.csv\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *inputCSV == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}

	cfg, err := buildConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	pipeline, err := mot.NewPipeline(cfg)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	monitoring.Logf("configuration: %s", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := csvio.ReadFile(*inputCSV)
	if err != nil {
		log.Fatalf("Can't load detections: %v", err)
	}
	monitoring.Logf("loaded %d detections from %s", table.Len(), *inputCSV)

	result, err := pipeline.Run(ctx, table)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	output := *outputCSV
	if output == "" {
		output = csvio.DefaultOutputPath(*inputCSV)
	}
	if err := csvio.WriteFile(output, result.Table); err != nil {
		log.Fatalf("Can't save detections: %v", err)
	}
	monitoring.Logf("saved %d detections to %s", result.Table.Len(), output)

	if *sqlitePath != "" {
		if err := saveToDatabase(ctx, *sqlitePath, cfg, result); err != nil {
			log.Fatalf("Can't upload detections: %v", err)
		}
	}

	fmt.Println(result.Summary)
}

// buildConfig layers defaults, optional config file and explicitly set flags
func buildConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		file, err := config.LoadFile(*configPath)
		if err != nil {
			return cfg, err
		}
		file.ApplyTo(&cfg)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "wt":
			cfg.WindowTime = config.Seconds(*windowTime)
		case "mo":
			cfg.MaxOverlap = *maxOverlap
		case "fps":
			cfg.FPS = *fps
		case "fill":
			cfg.FillMode = config.FillMode(*fillMode)
		case "workers":
			cfg.Workers = *workers
		}
	})
	return cfg, cfg.Validate()
}

func saveToDatabase(ctx context.Context, path string, cfg config.Config, result *mot.Result) error {
	store, err := sqlitestore.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	run := sqlitestore.NewRun(*inputCSV, cfg, result.Summary)
	monitoring.Logf("starting registers update: run %s", run.ID)
	if err := store.Save(ctx, run, result.Table); err != nil {
		return err
	}
	monitoring.Logf("registers updated successfully: %d detections in %s", result.Table.Len(), path)
	return nil
}

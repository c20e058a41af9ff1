// Package main provides the visualizer stage: it loads the latest cleaned
// snapshot and renders the chart artifacts plus the markdown summary.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"connstat/internal/config"
	"connstat/internal/logger"
	"connstat/internal/report"
	"connstat/internal/snapshot"
	"connstat/internal/visualizer"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	logg := logger.New(cfg.Logging.Level)

	fmt.Println("📊 Connectivity Visualizer")
	fmt.Printf("Input: %s, Plots: %s\n\n", cfg.Data.ProcessedDir, cfg.Data.PlotsDir)

	store := snapshot.NewStore(cfg.Data.ProcessedDir)

	rows, err := store.LoadLatest("cleaned_data")
	if err != nil {
		if errors.Is(err, snapshot.ErrSnapshotMissing) {
			logg.Error("cleaned snapshot not found, run the cleaner first", "error", err)
		} else {
			logg.Error("failed to load cleaned snapshot", "error", err)
		}

		os.Exit(1)
	}

	if len(rows) == 0 {
		logg.Error("cleaned snapshot is empty, nothing to visualize")
		os.Exit(1)
	}

	fmt.Printf("📂 Loaded %d cleaned rows\n\n", len(rows))

	viz := visualizer.New(cfg.Data.PlotsDir, cfg.Visualize, cfg.Regions, logg)

	created := viz.RenderAll(rows)
	for _, path := range created {
		fmt.Printf("✅ %s\n", path)
	}

	if len(created) == 0 {
		logg.Error("no charts could be rendered")
		os.Exit(1)
	}

	if err := report.Write(cfg.Data.ReportPath, rows, cfg.Visualize.TopN, time.Now()); err != nil {
		logg.Error("failed to write summary report", "error", err)
	} else {
		fmt.Printf("✅ %s\n", cfg.Data.ReportPath)
	}

	fmt.Printf("\n✨ Created %d charts!\n", len(created))
}

// Package main provides the unified pipeline command that runs the fetch,
// clean and visualize phases in a single process. The stages still talk to
// each other through snapshot files only.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"connstat/internal/cleaner"
	"connstat/internal/config"
	"connstat/internal/logger"
	"connstat/internal/report"
	"connstat/internal/snapshot"
	"connstat/internal/visualizer"
	"connstat/internal/worldbank"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	skipFetch := flag.Bool("skip-fetch", false, "Start from the existing raw snapshot")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	logg := logger.New(cfg.Logging.Level)

	logg.Info("🚀 starting connectivity pipeline", "config", cfg.String())

	startTime := time.Now()

	if !*skipFetch {
		if err := runFetch(cfg, logg); err != nil {
			logg.Error("fetch phase failed", "error", err)
			os.Exit(1)
		}
	}

	if err := runClean(cfg, logg); err != nil {
		logg.Error("clean phase failed", "error", err)
		os.Exit(1)
	}

	created, err := runVisualize(cfg, logg)
	if err != nil {
		logg.Error("visualize phase failed", "error", err)
		os.Exit(1)
	}

	logg.Info("✨ pipeline complete")

	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Charts created: %d\n", len(created))

	for _, path := range created {
		fmt.Printf("  - %s\n", path)
	}

	fmt.Printf("Total Duration: %v\n", time.Since(startTime))
	fmt.Println("------------------------------------------------")
}

func runFetch(cfg *config.Config, logg *logger.Logger) error {
	logg.Info("phase 1: fetch")

	ctx := context.Background()
	client := worldbank.NewClient(cfg.API.BaseURL, cfg.API.FallbackIndicator, cfg.API.PerPage, cfg.Timeout(), logg)

	indicatorID := client.ResolveIndicator(ctx)

	records := client.FetchSeries(ctx, indicatorID, cfg.Fetch.StartYear, cfg.Fetch.EndYear)
	if len(records) == 0 {
		return errors.New("no data fetched")
	}

	now := time.Now()

	rows := worldbank.Flatten(records, now, logg)
	if len(rows) == 0 {
		return errors.New("no usable records after flattening")
	}

	store := snapshot.NewStore(cfg.Data.RawDir)

	paths, err := store.Write("raw_data_"+indicatorID, "raw_data", rows, now)
	if err != nil {
		return err
	}

	logg.Info("raw snapshot written", "rows", len(rows), "archive", paths.ArchiveCSV)

	return nil
}

func runClean(cfg *config.Config, logg *logger.Logger) error {
	logg.Info("phase 2: clean")

	rawStore := snapshot.NewStore(cfg.Data.RawDir)

	rows, err := rawStore.LoadLatest("raw_data")
	if err != nil {
		return err
	}

	now := time.Now()

	cleaned, err := cleaner.New(cfg.Countries, logg).Clean(rows, now)
	if err != nil {
		return err
	}

	processedStore := snapshot.NewStore(cfg.Data.ProcessedDir)

	paths, err := processedStore.Write("cleaned_data", "cleaned_data", cleaned, now)
	if err != nil {
		return err
	}

	logg.Info("cleaned snapshot written", "rows", len(cleaned), "archive", paths.ArchiveCSV)

	return nil
}

func runVisualize(cfg *config.Config, logg *logger.Logger) ([]string, error) {
	logg.Info("phase 3: visualize")

	store := snapshot.NewStore(cfg.Data.ProcessedDir)

	rows, err := store.LoadLatest("cleaned_data")
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("cleaned snapshot is empty")
	}

	viz := visualizer.New(cfg.Data.PlotsDir, cfg.Visualize, cfg.Regions, logg)

	created := viz.RenderAll(rows)
	if len(created) == 0 {
		return nil, errors.New("no charts could be rendered")
	}

	if err := report.Write(cfg.Data.ReportPath, rows, cfg.Visualize.TopN, time.Now()); err != nil {
		logg.Warn("failed to write summary report", "error", err)
	}

	return created, nil
}

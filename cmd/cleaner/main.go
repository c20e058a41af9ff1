// Package main provides the cleaner stage: it loads the latest raw snapshot,
// applies the normalization rules and persists the cleaned snapshot pair.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"connstat/internal/cleaner"
	"connstat/internal/config"
	"connstat/internal/logger"
	"connstat/internal/snapshot"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	logg := logger.New(cfg.Logging.Level)

	fmt.Println("🧹 Connectivity Cleaner")
	fmt.Printf("Input: %s, Output: %s\n\n", cfg.Data.RawDir, cfg.Data.ProcessedDir)

	rawStore := snapshot.NewStore(cfg.Data.RawDir)

	rows, err := rawStore.LoadLatest("raw_data")
	if err != nil {
		if errors.Is(err, snapshot.ErrSnapshotMissing) {
			logg.Error("raw snapshot not found, run the fetcher first", "error", err)
		} else {
			logg.Error("failed to load raw snapshot", "error", err)
		}

		os.Exit(1)
	}

	fmt.Printf("📂 Loaded %d raw rows\n", len(rows))

	now := time.Now()

	cleaned, err := cleaner.New(cfg.Countries, logg).Clean(rows, now)
	if err != nil {
		logg.Error("cleaning failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Cleaned table has %d rows\n", len(cleaned))

	fmt.Println("\n📝 Saving cleaned snapshot...")

	processedStore := snapshot.NewStore(cfg.Data.ProcessedDir)

	paths, err := processedStore.Write("cleaned_data", "cleaned_data", cleaned, now)
	if err != nil {
		logg.Error("failed to persist cleaned snapshot", "error", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Saved: %s\n", paths.ArchiveCSV)
	fmt.Printf("✅ Latest: %s\n", paths.LatestCSV)
	fmt.Println("\n✨ Cleaning complete!")
}

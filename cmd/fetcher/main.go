// Package main provides the fetcher stage: it resolves the indicator,
// retrieves the full paginated series and persists the raw snapshot pair.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"connstat/internal/config"
	"connstat/internal/logger"
	"connstat/internal/snapshot"
	"connstat/internal/worldbank"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	logg := logger.New(cfg.Logging.Level)

	fmt.Println("🌐 Connectivity Fetcher")
	fmt.Printf("API: %s (years %d-%d)\n\n", cfg.API.BaseURL, cfg.Fetch.StartYear, cfg.Fetch.EndYear)

	ctx := context.Background()
	client := worldbank.NewClient(cfg.API.BaseURL, cfg.API.FallbackIndicator, cfg.API.PerPage, cfg.Timeout(), logg)

	fmt.Println("🔎 Resolving indicator...")

	indicatorID := client.ResolveIndicator(ctx)
	fmt.Printf("✅ Using indicator: %s\n", indicatorID)

	fmt.Println("⏳ Fetching series...")

	records := client.FetchSeries(ctx, indicatorID, cfg.Fetch.StartYear, cfg.Fetch.EndYear)
	if len(records) == 0 {
		logg.Error("no data fetched, nothing to persist")
		os.Exit(1)
	}

	fmt.Printf("✅ Fetched %d records\n", len(records))

	now := time.Now()

	rows := worldbank.Flatten(records, now, logg)
	if len(rows) == 0 {
		logg.Error("no usable records after flattening")
		os.Exit(1)
	}

	fmt.Println("\n📝 Saving raw snapshot...")

	store := snapshot.NewStore(cfg.Data.RawDir)

	paths, err := store.Write("raw_data_"+indicatorID, "raw_data", rows, now)
	if err != nil {
		logg.Error("failed to persist raw snapshot", "error", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Saved: %s\n", paths.ArchiveCSV)
	fmt.Printf("✅ Latest: %s\n", paths.LatestCSV)
	fmt.Println("\n✨ Fetch complete!")
}

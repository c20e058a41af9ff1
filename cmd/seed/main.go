// Package main provides the seed command-line tool for offline development.
// It writes a small built-in raw snapshot so the cleaner and visualizer can
// run without touching the network.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"connstat/internal/config"
	"connstat/internal/models"
	"connstat/internal/snapshot"
)

const seedIndicator = "Individuals using the Internet (% of population)"

const seedIndicatorCode = "IT.NET.USER.ZS"

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	fmt.Println("🌱 Seeding sample raw snapshot")
	fmt.Printf("Output: %s\n\n", cfg.Data.RawDir)

	now := time.Now()
	rows := sampleRows(now)

	store := snapshot.NewStore(cfg.Data.RawDir)

	paths, err := store.Write("raw_data_"+seedIndicatorCode, "raw_data", rows, now)
	if err != nil {
		log.Fatalf("❌ Failed to write seed snapshot: %v", err)
	}

	fmt.Printf("✅ Saved %d rows to %s\n", len(rows), paths.LatestCSV)
	fmt.Println("\n✨ Seed complete! Run the cleaner next.")
}

// sampleRows covers the interesting cases: name variants the cleaner must
// canonicalize, a missing value, a duplicate row, and enough countries and
// years for every chart to have data.
func sampleRows(now time.Time) []models.Observation {
	stamp := now.Format(time.RFC3339)

	type seed struct {
		country string
		code    string
		year    int
		value   *float64
	}

	seeds := []seed{
		{"USA", "USA", 2020, models.Float(90.9)},
		{"USA", "USA", 2021, models.Float(91.8)},
		{"UK", "GBR", 2020, models.Float(94.8)},
		{"UK", "GBR", 2021, models.Float(95.3)},
		{"Germany", "DEU", 2020, models.Float(89.8)},
		{"Germany", "DEU", 2021, models.Float(91.4)},
		{"Japan", "JPN", 2020, models.Float(90.2)},
		{"Japan", "JPN", 2021, models.Float(82.9)},
		{"Korea, Rep.", "KOR", 2020, models.Float(96.5)},
		{"Korea, Rep.", "KOR", 2021, models.Float(97.6)},
		{"Brazil", "BRA", 2020, models.Float(81.3)},
		{"Brazil", "BRA", 2021, models.Float(80.7)},
		{"Nigeria", "NGA", 2020, models.Float(35.5)},
		{"Nigeria", "NGA", 2021, models.Float(55.4)},
		{"Australia", "AUS", 2020, models.Float(89.6)},
		{"Australia", "AUS", 2021, models.Float(96.2)},
		{"Namibia", "NAM", 2020, models.Float(41.0)},
		{"Namibia", "NAM", 2021, models.Float(53.0)},
		{"Viet Nam", "VNM", 2021, models.Float(74.2)},
		{"Eritrea", "ERI", 2021, nil},
		// Exact duplicate, dropped by the cleaner.
		{"Brazil", "BRA", 2021, models.Float(80.7)},
	}

	rows := make([]models.Observation, 0, len(seeds))

	for _, s := range seeds {
		status := models.StatusRegular
		if s.value == nil {
			status = models.StatusMissing
		}

		year := s.year

		rows = append(rows, models.Observation{
			Country:       s.country,
			CountryCode:   s.code,
			Year:          &year,
			Value:         s.value,
			UnitMeasure:   models.UnitPercentage,
			ObsStatus:     status,
			Indicator:     seedIndicator,
			IndicatorCode: seedIndicatorCode,
			ProcessedAt:   stamp,
		})
	}

	return rows
}

// Package config provides configuration management for the pipeline stages.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no -config flag is given and the file exists.
const DefaultPath = "configs/pipeline.yaml"

// Configuration validation errors.
var (
	ErrMissingBaseURL    = errors.New("api.base_url is required")
	ErrMissingFallback   = errors.New("api.fallback_indicator is required")
	ErrInvalidPerPage    = errors.New("api.per_page must be at least 1")
	ErrInvalidTimeout    = errors.New("api.timeout_sec must be at least 1")
	ErrInvalidYearRange  = errors.New("fetch.start_year cannot exceed fetch.end_year")
	ErrMissingRawDir     = errors.New("data.raw_dir is required")
	ErrMissingWorkDir    = errors.New("data.processed_dir is required")
	ErrMissingPlotsDir   = errors.New("data.plots_dir is required")
	ErrInvalidTopN       = errors.New("visualize.top_n must be at least 1")
	ErrNoRegions         = errors.New("at least one region is required")
	ErrRegionMissingName = errors.New("region name is required")
	ErrRegionEmpty       = errors.New("region must list at least one country")
	ErrInvalidLogLevel   = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete pipeline configuration.
type Config struct {
	API       APIConfig         `yaml:"api"`
	Fetch     FetchConfig       `yaml:"fetch"`
	Data      DataConfig        `yaml:"data"`
	Visualize VisualizeConfig   `yaml:"visualize"`
	Logging   LoggingConfig     `yaml:"logging"`
	Countries map[string]string `yaml:"countries"`
	Regions   []RegionConfig    `yaml:"regions"`
}

// APIConfig contains settings for the statistical API.
type APIConfig struct {
	BaseURL           string `yaml:"base_url"`
	FallbackIndicator string `yaml:"fallback_indicator"`
	PerPage           int    `yaml:"per_page"`
	TimeoutSec        int    `yaml:"timeout_sec"`
}

// FetchConfig bounds the year range requested from the series endpoint.
type FetchConfig struct {
	StartYear int `yaml:"start_year"`
	EndYear   int `yaml:"end_year"`
}

// DataConfig locates the flat-file directories the stages are coupled through.
type DataConfig struct {
	RawDir       string `yaml:"raw_dir"`
	ProcessedDir string `yaml:"processed_dir"`
	PlotsDir     string `yaml:"plots_dir"`
	ReportPath   string `yaml:"report_path"`
}

// VisualizeConfig contains chart settings.
// Year zero means "most recent year present in the data".
type VisualizeConfig struct {
	TopN         int    `yaml:"top_n"`
	Year         int    `yaml:"year"`
	FocusCountry string `yaml:"focus_country"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RegionConfig assigns countries to a named region for the regional chart.
type RegionConfig struct {
	Name      string   `yaml:"name"`
	Countries []string `yaml:"countries"`
}

// Default returns the built-in configuration. Every stage is runnable with
// no config file at all; a YAML file only overrides what it sets.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "https://api.worldbank.org/v2",
			FallbackIndicator: "IT.NET.USER.ZS",
			PerPage:           1000,
			TimeoutSec:        30,
		},
		Fetch: FetchConfig{
			StartYear: 2000,
			EndYear:   2024,
		},
		Data: DataConfig{
			RawDir:       "data/raw",
			ProcessedDir: "data/processed",
			PlotsDir:     "analysis/plots",
			ReportPath:   "analysis/summary.md",
		},
		Visualize: VisualizeConfig{
			TopN:         10,
			FocusCountry: "Namibia",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Countries: DefaultCountryMap(),
		Regions:   DefaultRegions(),
	}
}

// Load reads a YAML file over the defaults, applies environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads the given path, or DefaultPath when it exists, or the
// built-in defaults when neither is given.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	if _, err := os.Stat(DefaultPath); err == nil {
		return Load(DefaultPath)
	}

	cfg := Default()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv layers environment overrides on top of the file values.
// A .env file in the working directory is honored when present.
func (c *Config) applyEnv() {
	_ = godotenv.Load(".env")

	if v := strings.TrimSpace(os.Getenv("PIPELINE_API_BASE_URL")); v != "" {
		c.API.BaseURL = v
	}

	if v := strings.TrimSpace(os.Getenv("PIPELINE_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if c.API.FallbackIndicator == "" {
		return ErrMissingFallback
	}

	if c.API.PerPage < 1 {
		return ErrInvalidPerPage
	}

	if c.API.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Fetch.StartYear > c.Fetch.EndYear {
		return ErrInvalidYearRange
	}

	if c.Data.RawDir == "" {
		return ErrMissingRawDir
	}

	if c.Data.ProcessedDir == "" {
		return ErrMissingWorkDir
	}

	if c.Data.PlotsDir == "" {
		return ErrMissingPlotsDir
	}

	if c.Visualize.TopN < 1 {
		return ErrInvalidTopN
	}

	if len(c.Regions) == 0 {
		return ErrNoRegions
	}

	for i, region := range c.Regions {
		if region.Name == "" {
			return fmt.Errorf("%w: regions[%d]", ErrRegionMissingName, i)
		}

		if len(region.Countries) == 0 {
			return fmt.Errorf("%w: regions[%d]", ErrRegionEmpty, i)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// Timeout returns the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{API: %s, Years: %d-%d, RawDir: %s}",
		c.API.BaseURL,
		c.Fetch.StartYear,
		c.Fetch.EndYear,
		c.Data.RawDir,
	)
}

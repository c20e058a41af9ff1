package visualizer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"connstat/internal/config"
	"connstat/internal/logger"
	"connstat/internal/models"
)

func testVisualizer(t *testing.T) *Visualizer {
	t.Helper()

	return New(t.TempDir(), config.VisualizeConfig{
		TopN:         3,
		Year:         0,
		FocusCountry: "Namibia",
	}, config.DefaultRegions(), logger.New("error"))
}

func obs(country string, year int, value float64) models.Observation {
	return models.Observation{
		Country: country,
		Year:    models.Int(year),
		Value:   models.Float(value),
	}
}

func sampleRows() []models.Observation {
	return []models.Observation{
		obs("Kenya", 2020, 29.5),
		obs("Kenya", 2021, 32.7),
		obs("Nigeria", 2020, 35.5),
		obs("Nigeria", 2021, 38.1),
		obs("Germany", 2020, 89.8),
		obs("Germany", 2021, 91.4),
		obs("Brazil", 2020, 81.3),
		obs("Brazil", 2021, 80.7),
		obs("Namibia", 2020, 51.0),
		obs("Namibia", 2021, 53.9),
	}
}

func TestResolveYear_RequestedYearPresent(t *testing.T) {
	v := testVisualizer(t)

	used, err := v.resolveYear(sampleRows(), 2020)
	if err != nil {
		t.Fatalf("resolveYear failed: %v", err)
	}

	if used != 2020 {
		t.Errorf("Expected 2020, got %d", used)
	}
}

func TestResolveYear_FallsBackToMostRecent(t *testing.T) {
	v := testVisualizer(t)

	used, err := v.resolveYear(sampleRows(), 1999)
	if err != nil {
		t.Fatalf("resolveYear failed: %v", err)
	}

	if used != 2021 {
		t.Errorf("Expected fallback to 2021, got %d", used)
	}
}

func TestResolveYear_ZeroMeansLatest(t *testing.T) {
	v := testVisualizer(t)

	used, err := v.resolveYear(sampleRows(), 0)
	if err != nil {
		t.Fatalf("resolveYear failed: %v", err)
	}

	if used != 2021 {
		t.Errorf("Expected 2021, got %d", used)
	}
}

func TestResolveYear_NoUsableYears(t *testing.T) {
	v := testVisualizer(t)

	rows := []models.Observation{{Country: "Kenya"}}

	if _, err := v.resolveYear(rows, 2020); !errors.Is(err, ErrNoYears) {
		t.Errorf("Expected ErrNoYears, got %v", err)
	}
}

func TestGlobalAverages(t *testing.T) {
	rows := []models.Observation{
		obs("Kenya", 2020, 20),
		obs("Germany", 2020, 80),
		obs("Kenya", 2021, 30),
		{Country: "Eritrea", Year: models.Int(2020)},
		{Country: "Nowhere", Value: models.Float(50)},
	}

	means := globalAverages(rows)

	if len(means) != 2 {
		t.Fatalf("Expected 2 year means, got %d", len(means))
	}

	if means[0].Year != 2020 || means[0].Mean != 50 {
		t.Errorf("Expected 2020 mean 50, got %d mean %v", means[0].Year, means[0].Mean)
	}

	if means[1].Year != 2021 || means[1].Mean != 30 {
		t.Errorf("Expected 2021 mean 30, got %d mean %v", means[1].Year, means[1].Mean)
	}
}

func TestTopCountries_ReportsYearUsed(t *testing.T) {
	v := testVisualizer(t)

	path, used, err := v.TopCountries(sampleRows(), 1999, 3)
	if err != nil {
		t.Fatalf("TopCountries failed: %v", err)
	}

	if used != 2021 {
		t.Errorf("Expected year 2021, got %d", used)
	}

	if filepath.Base(path) != "top_countries_2021.png" {
		t.Errorf("Expected file named for year used, got %s", filepath.Base(path))
	}

	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("Expected non-empty chart file at %s", path)
	}
}

func TestRegionalComparison_ExcludesUnlistedCountries(t *testing.T) {
	regions := []config.RegionConfig{
		{Name: "Test Region", Countries: []string{"Kenya", "Nigeria"}},
	}

	v := New(t.TempDir(), config.VisualizeConfig{TopN: 3, FocusCountry: "Namibia"},
		regions, logger.New("error"))

	// Germany and Brazil belong to no region; only the listed pair counts.
	path, used, err := v.RegionalComparison(sampleRows(), 2020)
	if err != nil {
		t.Fatalf("RegionalComparison failed: %v", err)
	}

	if used != 2020 {
		t.Errorf("Expected year 2020, got %d", used)
	}

	if filepath.Base(path) != "regional_comparison_2020.png" {
		t.Errorf("Expected regional_comparison_2020.png, got %s", filepath.Base(path))
	}
}

func TestRegionalComparison_NoRegionMembers(t *testing.T) {
	regions := []config.RegionConfig{
		{Name: "Empty Region", Countries: []string{"Atlantis"}},
	}

	v := New(t.TempDir(), config.VisualizeConfig{FocusCountry: "Namibia"},
		regions, logger.New("error"))

	if _, _, err := v.RegionalComparison(sampleRows(), 2020); !errors.Is(err, ErrNoRows) {
		t.Errorf("Expected ErrNoRows, got %v", err)
	}
}

func TestFocusTrend_CountryAbsent(t *testing.T) {
	v := New(t.TempDir(), config.VisualizeConfig{FocusCountry: "Atlantis"},
		config.DefaultRegions(), logger.New("error"))

	if _, err := v.FocusTrend(sampleRows()); !errors.Is(err, ErrNoRows) {
		t.Errorf("Expected ErrNoRows, got %v", err)
	}
}

func TestFocusTrend_SinglePoint(t *testing.T) {
	v := testVisualizer(t)

	// One Namibia row only; the series is padded so the line still renders.
	rows := []models.Observation{obs("Namibia", 2021, 53.9)}

	path, err := v.FocusTrend(rows)
	if err != nil {
		t.Fatalf("FocusTrend failed: %v", err)
	}

	if filepath.Base(path) != "namibia_trend.png" {
		t.Errorf("Expected namibia_trend.png, got %s", filepath.Base(path))
	}
}

func TestRenderAll_EmptyTableCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	v := New(dir, config.VisualizeConfig{TopN: 3, FocusCountry: "Namibia"},
		config.DefaultRegions(), logger.New("error"))

	created := v.RenderAll(nil)
	if created != nil {
		t.Errorf("Expected no files, got %v", created)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read plots dir: %v", err)
	}

	if len(entries) != 0 {
		t.Errorf("Expected empty plots dir, found %d entries", len(entries))
	}
}

func TestRenderAll_CreatesChartFiles(t *testing.T) {
	dir := t.TempDir()
	v := New(dir, config.VisualizeConfig{TopN: 3, Year: 2021, FocusCountry: "Namibia"},
		config.DefaultRegions(), logger.New("error"))

	created := v.RenderAll(sampleRows())

	want := map[string]bool{
		"global_trend.png":       false,
		"top_countries_2021.png": false,
		"namibia_trend.png":      false,
	}

	for _, path := range created {
		name := filepath.Base(path)
		if _, ok := want[name]; ok {
			want[name] = true
		}

		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("Expected non-empty file at %s", path)
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("Expected chart %s to be created", name)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Namibia", "namibia"},
		{"United States of America", "united_states_of_america"},
		{"South Korea", "south_korea"},
	}

	for _, tc := range cases {
		if got := slug(tc.in); got != tc.want {
			t.Errorf("slug(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

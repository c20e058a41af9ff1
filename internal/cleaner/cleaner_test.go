package cleaner

import (
	"errors"
	"testing"
	"time"

	"connstat/internal/config"
	"connstat/internal/logger"
	"connstat/internal/models"
)

func testCleaner() *Cleaner {
	return New(config.DefaultCountryMap(), logger.New("error"))
}

func rawRow(country string, year int, value float64) models.Observation {
	return models.Observation{
		Country:       country,
		CountryCode:   "XXX",
		Year:          models.Int(year),
		Value:         models.Float(value),
		UnitMeasure:   models.UnitPercentage,
		ObsStatus:     models.StatusRegular,
		Indicator:     "Individuals using the Internet (% of population)",
		IndicatorCode: "IT.NET.USER.ZS",
		ProcessedAt:   "2026-08-31T12:00:00Z",
	}
}

func TestClean_CanonicalizesCountryNames(t *testing.T) {
	rows := []models.Observation{
		rawRow("USA", 2020, 55.5),
		rawRow("Viet Nam", 2020, 74.2),
		rawRow("Korea, Rep.", 2020, 96.5),
		rawRow("Portugal", 2020, 84.5),
	}

	cleaned, err := testCleaner().Clean(rows, time.Now())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	want := map[string]string{
		"USA":         "United States of America",
		"Viet Nam":    "Vietnam",
		"Korea, Rep.": "South Korea",
		"Portugal":    "Portugal",
	}

	for i, row := range rows {
		if cleaned[i].Country != want[row.Country] {
			t.Errorf("Expected %q -> %q, got %q", row.Country, want[row.Country], cleaned[i].Country)
		}
	}
}

func TestClean_CanonicalizationIsIdempotent(t *testing.T) {
	c := testCleaner()

	rows := []models.Observation{
		rawRow("USA", 2020, 55.5),
		rawRow("Hong Kong SAR, China", 2020, 93.1),
		rawRow("France", 2020, 85.0),
	}

	once, err := c.Clean(rows, time.Now())
	if err != nil {
		t.Fatalf("First clean failed: %v", err)
	}

	twice, err := c.Clean(once, time.Now())
	if err != nil {
		t.Fatalf("Second clean failed: %v", err)
	}

	for i := range once {
		if once[i].Country != twice[i].Country {
			t.Errorf("Country %q changed on second application: %q", once[i].Country, twice[i].Country)
		}
	}
}

func TestClean_USAScenario(t *testing.T) {
	// Raw cells "USA" / "2020" / "55.5" arrive as a coerced row from the
	// snapshot codec; cleaning must canonicalize and keep the numerics.
	rows := []models.Observation{
		{
			Country: "USA",
			Year:    models.ParseYear("2020"),
			Value:   models.ParseValue("55.5"),
		},
	}

	cleaned, err := testCleaner().Clean(rows, time.Now())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	row := cleaned[0]

	if row.Country != "United States of America" {
		t.Errorf("Expected United States of America, got %s", row.Country)
	}

	if row.Year == nil || *row.Year != 2020 {
		t.Errorf("Expected integer year 2020, got %v", row.Year)
	}

	if row.Value == nil || *row.Value != 55.5 {
		t.Errorf("Expected float value 55.5, got %v", row.Value)
	}
}

func TestClean_NullValueRowIsRetained(t *testing.T) {
	rows := []models.Observation{
		{
			Country: "Eritrea",
			Year:    models.Int(2021),
			Value:   models.ParseValue("n/a"),
		},
	}

	cleaned, err := testCleaner().Clean(rows, time.Now())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if len(cleaned) != 1 {
		t.Fatalf("Expected the null-value row to be retained, got %d rows", len(cleaned))
	}

	if cleaned[0].Value != nil {
		t.Errorf("Expected null value, got %v", *cleaned[0].Value)
	}
}

func TestClean_FillsMissingCountry(t *testing.T) {
	rows := []models.Observation{
		{Country: "", Year: models.Int(2020), Value: models.Float(10)},
		{Country: "  ", Year: models.Int(2021), Value: models.Float(11)},
	}

	cleaned, err := testCleaner().Clean(rows, time.Now())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	for _, row := range cleaned {
		if row.Country != models.UnknownLabel {
			t.Errorf("Expected Unknown, got %q", row.Country)
		}
	}
}

func TestClean_DropsExactDuplicates(t *testing.T) {
	rows := []models.Observation{
		rawRow("Brazil", 2021, 80.7),
		rawRow("Brazil", 2021, 80.7),
		rawRow("Brazil", 2020, 81.3),
	}

	cleaned, err := testCleaner().Clean(rows, time.Now())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if len(cleaned) != 2 {
		t.Fatalf("Expected 2 rows after dedup, got %d", len(cleaned))
	}
}

func TestClean_DedupCatchesTypeNormalizedDuplicates(t *testing.T) {
	// "55.5" and "55.50" decode to the same float, so the rows are exact
	// duplicates by the time dedup runs.
	a := rawRow("Chile", 2020, 0)
	a.Value = models.ParseValue("55.5")

	b := rawRow("Chile", 2020, 0)
	b.Value = models.ParseValue("55.50")

	cleaned, err := testCleaner().Clean([]models.Observation{a, b}, time.Now())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if len(cleaned) != 1 {
		t.Errorf("Expected 1 row after dedup, got %d", len(cleaned))
	}
}

func TestClean_DedupIsIdempotent(t *testing.T) {
	rows := []models.Observation{
		rawRow("Brazil", 2021, 80.7),
		rawRow("Brazil", 2021, 80.7),
		rawRow("Chile", 2021, 90.2),
	}

	now := time.Now()

	once, err := testCleaner().Clean(rows, now)
	if err != nil {
		t.Fatalf("First clean failed: %v", err)
	}

	twice, err := testCleaner().Clean(once, now)
	if err != nil {
		t.Fatalf("Second clean failed: %v", err)
	}

	if len(once) != len(twice) {
		t.Errorf("Cleaning an already-deduplicated table changed the row count: %d -> %d", len(once), len(twice))
	}
}

func TestClean_DerivesIndicatorColumns(t *testing.T) {
	rows := []models.Observation{
		rawRow("Kenya", 2020, 29.5),
		rawRow("Ghana", 2020, 58.0),
	}

	cleaned, err := testCleaner().Clean(rows, time.Now())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	for _, row := range cleaned {
		if row.IndicatorClean != rows[0].Indicator {
			t.Errorf("Expected indicator_clean %q, got %q", rows[0].Indicator, row.IndicatorClean)
		}

		if row.ConnectionType != ConnectionUnknown {
			t.Errorf("Expected connection type %q, got %q", ConnectionUnknown, row.ConnectionType)
		}
	}
}

func TestClean_RestampsProcessedAt(t *testing.T) {
	rows := []models.Observation{rawRow("Kenya", 2020, 29.5)}
	now := time.Date(2026, 8, 31, 15, 4, 5, 0, time.UTC)

	cleaned, err := testCleaner().Clean(rows, now)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if cleaned[0].ProcessedAt != "2026-08-31 15:04:05" {
		t.Errorf("Expected restamped processed_at, got %q", cleaned[0].ProcessedAt)
	}

	// The input table is not mutated.
	if rows[0].ProcessedAt != "2026-08-31T12:00:00Z" {
		t.Errorf("Input table was mutated: %q", rows[0].ProcessedAt)
	}
}

func TestClean_EmptyTable(t *testing.T) {
	if _, err := testCleaner().Clean(nil, time.Now()); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestConnectionType_TotalAndDeterministic(t *testing.T) {
	cases := []struct {
		indicator string
		want      string
	}{
		{"Households with fixed-line telephone access", ConnectionFixedLine},
		{"Mobile cellular subscriptions", ConnectionMobile},
		{"Individuals using the Internet (% of population)", ConnectionUnknown},
		{"", ConnectionUnknown},
		{"FIXED broadband", ConnectionFixedLine},
		{"Households with fixed or mobile access", ConnectionFixedLine},
	}

	for _, tc := range cases {
		if got := ConnectionType(tc.indicator); got != tc.want {
			t.Errorf("ConnectionType(%q) = %q, expected %q", tc.indicator, got, tc.want)
		}

		// Deterministic: the same input always maps the same way.
		if again := ConnectionType(tc.indicator); again != ConnectionType(tc.indicator) {
			t.Errorf("ConnectionType(%q) is not deterministic", tc.indicator)
		}
	}
}

// Package cleaner applies the fixed normalization pass that turns a raw
// snapshot into the analytics-ready table.
package cleaner

import (
	"errors"
	"strings"
	"time"

	"connstat/internal/logger"
	"connstat/internal/models"
)

// ErrNoData is returned when there are no rows to clean.
var ErrNoData = errors.New("no data to clean")

// Connection type labels derived from the indicator text.
const (
	ConnectionFixedLine = "fixed-line"
	ConnectionMobile    = "mobile"
	ConnectionUnknown   = "unknown"
)

// processedAtLayout is the timestamp format stamped on cleaned rows.
const processedAtLayout = "2006-01-02 15:04:05"

// Cleaner normalizes observation tables with a static country table.
type Cleaner struct {
	countryMap map[string]string
	log        *logger.Logger
}

// New creates a cleaner using the given canonicalization table.
func New(countryMap map[string]string, log *logger.Logger) *Cleaner {
	return &Cleaner{
		countryMap: countryMap,
		log:        log,
	}
}

// Clean applies the normalization rules in a fixed order: fill missing
// country labels, canonicalize country names, restamp processed_at, drop
// exact duplicate rows, then derive indicator_clean and connection_type
// from the first row's indicator text. Numeric coercion happened when the
// snapshot was decoded, so type-normalized duplicates are already equal by
// the time dedup runs. Canonicalization stays ahead of every later pass
// that groups by country. The input table is never mutated.
func (c *Cleaner) Clean(rows []models.Observation, now time.Time) ([]models.Observation, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	stamp := now.Format(processedAtLayout)
	out := make([]models.Observation, 0, len(rows))

	missingCountries := 0

	for _, row := range rows {
		if strings.TrimSpace(row.Country) == "" {
			row.Country = models.UnknownLabel
			missingCountries++
		}

		row.Country = c.Canonical(row.Country)
		row.ProcessedAt = stamp

		out = append(out, row)
	}

	if missingCountries > 0 {
		c.log.Info("filled missing country labels", "rows", missingCountries)
	}

	before := len(out)
	out = dedupe(out)

	if removed := before - len(out); removed > 0 {
		c.log.Info("removed duplicate rows", "rows", removed)
	}

	indicator := out[0].Indicator
	connType := ConnectionType(indicator)

	for i := range out {
		out[i].IndicatorClean = indicator
		out[i].ConnectionType = connType
	}

	c.log.Info("cleaning complete", "rows", len(out), "connection_type", connType)

	return out, nil
}

// Canonical maps a country name variant to its canonical form. Names outside
// the table pass through unchanged, which also makes the mapping idempotent:
// canonical names are never themselves keys.
func (c *Cleaner) Canonical(country string) string {
	if canon, ok := c.countryMap[country]; ok {
		return canon
	}

	return country
}

// ConnectionType derives the connection label from indicator text. Every
// input maps to exactly one of the three labels.
func ConnectionType(indicator string) string {
	name := strings.ToLower(indicator)

	switch {
	case strings.Contains(name, "fixed"):
		return ConnectionFixedLine
	case strings.Contains(name, "mobile"):
		return ConnectionMobile
	default:
		return ConnectionUnknown
	}
}

// dedupe drops exact duplicate rows, keeping first occurrences in order.
func dedupe(rows []models.Observation) []models.Observation {
	seen := make(map[string]struct{}, len(rows))
	out := make([]models.Observation, 0, len(rows))

	for _, row := range rows {
		key := rowKey(row)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}

		out = append(out, row)
	}

	return out
}

func rowKey(row models.Observation) string {
	return strings.Join([]string{
		row.Country,
		row.CountryCode,
		models.FormatYear(row.Year),
		models.FormatValue(row.Value),
		row.UnitMeasure,
		row.ObsStatus,
		row.Indicator,
		row.IndicatorCode,
		row.ProcessedAt,
	}, "\x1f")
}

package worldbank

import (
	"encoding/json"
	"time"

	"connstat/internal/logger"
	"connstat/internal/models"
)

// SeriesRecord mirrors one nested record of the series endpoint.
type SeriesRecord struct {
	Country     RefValue `json:"country"`
	CountryISO3 string   `json:"countryiso3code"`
	Date        string   `json:"date"`
	Value       *float64 `json:"value"`
	Indicator   RefValue `json:"indicator"`
}

// RefValue is the {id, value} pair the API uses for nested metadata.
type RefValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Flatten maps raw series records onto the Observation shape. A record that
// fails to decode is skipped with a warning and does not abort the batch.
// Absent country or indicator metadata becomes "Unknown"; an absent value
// stays null and marks the row's status as missing.
func Flatten(records []json.RawMessage, fetchedAt time.Time, log *logger.Logger) []models.Observation {
	rows := make([]models.Observation, 0, len(records))
	stamp := fetchedAt.Format(time.RFC3339)

	for i, raw := range records {
		var rec SeriesRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Warn("skipping malformed record", "index", i, "error", err)

			continue
		}

		rows = append(rows, models.Observation{
			Country:       orUnknown(rec.Country.Value),
			CountryCode:   orUnknown(rec.CountryISO3),
			Year:          models.ParseYear(rec.Date),
			Value:         rec.Value,
			UnitMeasure:   models.UnitPercentage,
			ObsStatus:     obsStatus(rec.Value),
			Indicator:     orUnknown(rec.Indicator.Value),
			IndicatorCode: orUnknown(rec.Indicator.ID),
			ProcessedAt:   stamp,
		})
	}

	return rows
}

func orUnknown(s string) string {
	if s == "" {
		return models.UnknownLabel
	}

	return s
}

func obsStatus(value *float64) string {
	if value == nil {
		return models.StatusMissing
	}

	return models.StatusRegular
}

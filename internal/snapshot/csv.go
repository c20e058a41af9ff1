package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"

	"connstat/internal/models"
)

// Column names match the JSON field names so the CSV and JSON members of a
// snapshot pair stay interchangeable. The two derived columns are only
// written once any row carries them, so the raw schema stays narrow.
var (
	baseColumns = []string{
		"Country", "Country_Code", "Year", "Value",
		"UNIT_MEASURE", "OBS_STATUS", "Indicator", "Indicator_Code",
		"processed_at",
	}
	derivedColumns = []string{"indicator_clean", "connection_type"}
)

func encodeCSV(w io.Writer, rows []models.Observation) error {
	header := baseColumns
	if hasDerived(rows) {
		header = append(append([]string{}, baseColumns...), derivedColumns...)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return err
	}

	wide := len(header) > len(baseColumns)

	for _, row := range rows {
		record := []string{
			row.Country,
			row.CountryCode,
			models.FormatYear(row.Year),
			models.FormatValue(row.Value),
			row.UnitMeasure,
			row.ObsStatus,
			row.Indicator,
			row.IndicatorCode,
			row.ProcessedAt,
		}
		if wide {
			record = append(record, row.IndicatorClean, row.ConnectionType)
		}

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// decodeCSV reads rows back by header name, so column order and the presence
// of the derived columns are both free to vary. Numeric cells are coerced
// through the nullable parsers; a bad cell becomes null, never an error.
func decodeCSV(r io.Reader) ([]models.Observation, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	cell := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}

		return record[i]
	}

	var rows []models.Observation

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		rows = append(rows, models.Observation{
			Country:        cell(record, "Country"),
			CountryCode:    cell(record, "Country_Code"),
			Year:           models.ParseYear(cell(record, "Year")),
			Value:          models.ParseValue(cell(record, "Value")),
			UnitMeasure:    cell(record, "UNIT_MEASURE"),
			ObsStatus:      cell(record, "OBS_STATUS"),
			Indicator:      cell(record, "Indicator"),
			IndicatorCode:  cell(record, "Indicator_Code"),
			ProcessedAt:    cell(record, "processed_at"),
			IndicatorClean: cell(record, "indicator_clean"),
			ConnectionType: cell(record, "connection_type"),
		})
	}

	return rows, nil
}

func hasDerived(rows []models.Observation) bool {
	for _, row := range rows {
		if row.IndicatorClean != "" || row.ConnectionType != "" {
			return true
		}
	}

	return false
}

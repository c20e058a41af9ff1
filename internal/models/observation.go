// Package models defines the tabular entity flowing through the pipeline stages.
package models

import (
	"strconv"
	"strings"
)

// Labels stamped on fetched observations.
const (
	UnknownLabel   = "Unknown"
	UnitPercentage = "Percentage"
	StatusRegular  = "Regular"
	StatusMissing  = "Missing"
)

// Observation is one (Country, Year) row of an indicator series.
// Year and Value are pointers so that absent or unparseable numerics stay
// null instead of degrading to zero. IndicatorClean and ConnectionType are
// empty until the cleaner stage derives them.
type Observation struct {
	Country        string   `json:"Country"`
	CountryCode    string   `json:"Country_Code"`
	Year           *int     `json:"Year"`
	Value          *float64 `json:"Value"`
	UnitMeasure    string   `json:"UNIT_MEASURE"`
	ObsStatus      string   `json:"OBS_STATUS"`
	Indicator      string   `json:"Indicator"`
	IndicatorCode  string   `json:"Indicator_Code"`
	ProcessedAt    string   `json:"processed_at"`
	IndicatorClean string   `json:"indicator_clean,omitempty"`
	ConnectionType string   `json:"connection_type,omitempty"`
}

// ParseYear coerces a raw year string to a nullable integer.
// Anything that is not a whole number yields nil, never an error.
func ParseYear(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	year, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}

	return &year
}

// ParseValue coerces a raw value string to a nullable float.
// Anything non-numeric yields nil, never an error.
func ParseValue(raw string) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}

	return &value
}

// FormatYear renders a nullable year for a CSV cell; nil becomes an empty cell.
func FormatYear(year *int) string {
	if year == nil {
		return ""
	}

	return strconv.Itoa(*year)
}

// FormatValue renders a nullable value for a CSV cell; nil becomes an empty cell.
func FormatValue(value *float64) string {
	if value == nil {
		return ""
	}

	return strconv.FormatFloat(*value, 'f', -1, 64)
}

// Int returns a pointer to v. Convenience for building tables in tests.
func Int(v int) *int {
	return &v
}

// Float returns a pointer to v. Convenience for building tables in tests.
func Float(v float64) *float64 {
	return &v
}

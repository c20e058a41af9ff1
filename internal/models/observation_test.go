package models

import (
	"testing"
)

func TestParseYear_Coercion(t *testing.T) {
	cases := []struct {
		input string
		want  *int
	}{
		{"2020", Int(2020)},
		{" 2020 ", Int(2020)},
		{"1999", Int(1999)},
		{"", nil},
		{"n/a", nil},
		{"not-a-year", nil},
		{"20.5x", nil},
	}

	for _, tc := range cases {
		got := ParseYear(tc.input)

		if tc.want == nil {
			if got != nil {
				t.Errorf("ParseYear(%q) = %d, expected nil", tc.input, *got)
			}

			continue
		}

		if got == nil {
			t.Errorf("ParseYear(%q) = nil, expected %d", tc.input, *tc.want)

			continue
		}

		if *got != *tc.want {
			t.Errorf("ParseYear(%q) = %d, expected %d", tc.input, *got, *tc.want)
		}
	}
}

func TestParseValue_Coercion(t *testing.T) {
	cases := []struct {
		input string
		want  *float64
	}{
		{"55.5", Float(55.5)},
		{"0", Float(0)},
		{"-1.25", Float(-1.25)},
		{"", nil},
		{"n/a", nil},
		{"..", nil},
	}

	for _, tc := range cases {
		got := ParseValue(tc.input)

		if tc.want == nil {
			if got != nil {
				t.Errorf("ParseValue(%q) = %f, expected nil", tc.input, *got)
			}

			continue
		}

		if got == nil {
			t.Errorf("ParseValue(%q) = nil, expected %f", tc.input, *tc.want)

			continue
		}

		if *got != *tc.want {
			t.Errorf("ParseValue(%q) = %f, expected %f", tc.input, *got, *tc.want)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	if got := FormatYear(nil); got != "" {
		t.Errorf("Expected empty cell for nil year, got %q", got)
	}

	if got := FormatValue(nil); got != "" {
		t.Errorf("Expected empty cell for nil value, got %q", got)
	}

	year := ParseYear(FormatYear(Int(2020)))
	if year == nil || *year != 2020 {
		t.Errorf("Year did not survive a format round trip: %v", year)
	}

	value := ParseValue(FormatValue(Float(55.5)))
	if value == nil || *value != 55.5 {
		t.Errorf("Value did not survive a format round trip: %v", value)
	}
}

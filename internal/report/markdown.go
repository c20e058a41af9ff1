// Package report renders a markdown summary of a cleaned dataset.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"connstat/internal/models"
)

// ErrNoRows is returned when there is nothing to summarize.
var ErrNoRows = errors.New("no rows to summarize")

// Write builds the summary for rows and writes it to path, creating the
// parent directory when needed.
func Write(path string, rows []models.Observation, topN int, generatedAt time.Time) error {
	content, err := Build(rows, topN, generatedAt)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// Build renders the markdown summary: dataset shape, coverage, and a top-N
// table for the most recent year present.
func Build(rows []models.Observation, topN int, generatedAt time.Time) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}

	countries := make(map[string]struct{})
	years := make(map[int]struct{})
	missing := 0

	for _, row := range rows {
		countries[row.Country] = struct{}{}

		if row.Year != nil {
			years[*row.Year] = struct{}{}
		}

		if row.Value == nil {
			missing++
		}
	}

	minYear, maxYear := yearSpan(years)

	var b strings.Builder

	fmt.Fprintf(&b, "# Connectivity Dataset Summary\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Indicator: %s (%s)\n", rows[0].IndicatorClean, rows[0].ConnectionType)
	fmt.Fprintf(&b, "- Rows: %d\n", len(rows))
	fmt.Fprintf(&b, "- Countries: %d\n", len(countries))
	fmt.Fprintf(&b, "- Years: %d–%d\n", minYear, maxYear)
	fmt.Fprintf(&b, "- Missing values: %d\n\n", missing)

	top := topForYear(rows, maxYear, topN)
	if len(top) > 0 {
		fmt.Fprintf(&b, "## Top %d Countries in %d\n\n", len(top), maxYear)

		table := [][]string{{"Rank", "Country", "Value (%)"}}
		for i, row := range top {
			table = append(table, []string{
				fmt.Sprintf("%d", i+1),
				row.Country,
				fmt.Sprintf("%.1f", *row.Value),
			})
		}

		for _, line := range formatTable(table) {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

func yearSpan(years map[int]struct{}) (int, int) {
	minYear, maxYear := 0, 0
	first := true

	for year := range years {
		if first || year < minYear {
			minYear = year
		}

		if first || year > maxYear {
			maxYear = year
		}

		first = false
	}

	return minYear, maxYear
}

func topForYear(rows []models.Observation, year, n int) []models.Observation {
	var ranked []models.Observation

	for _, row := range rows {
		if row.Year != nil && *row.Year == year && row.Value != nil {
			ranked = append(ranked, row)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return *ranked[i].Value > *ranked[j].Value })

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}

// formatTable renders rows as a markdown table with display-width aligned
// cells. The first row is the header.
func formatTable(table [][]string) []string {
	if len(table) == 0 {
		return nil
	}

	colCount := len(table[0])
	widths := make([]int, colCount)

	for _, row := range table {
		for i, cell := range row {
			if i >= colCount {
				break
			}

			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(table)+1)

	for rowIdx, row := range table {
		cells := make([]string, colCount)
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			cells[i] = runewidth.FillRight(cell, widths[i])
		}

		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")

		// Separator row goes right after the header.
		if rowIdx == 0 {
			seps := make([]string, colCount)
			for i := range seps {
				seps[i] = strings.Repeat("-", widths[i])
			}

			lines = append(lines, "| "+strings.Join(seps, " | ")+" |")
		}
	}

	return lines
}

package visualizer

import (
	"sort"

	"connstat/internal/models"
)

// yearMean is one point of an aggregated trend.
type yearMean struct {
	Year int
	Mean float64
}

// globalAverages groups rows by year and averages the non-null values,
// sorted by year ascending. Rows with a null year or value are ignored.
func globalAverages(rows []models.Observation) []yearMean {
	sums := make(map[int]float64)
	counts := make(map[int]int)

	for _, row := range rows {
		if row.Year == nil || row.Value == nil {
			continue
		}

		sums[*row.Year] += *row.Value
		counts[*row.Year]++
	}

	means := make([]yearMean, 0, len(sums))
	for year, sum := range sums {
		means = append(means, yearMean{Year: year, Mean: sum / float64(counts[year])})
	}

	sort.Slice(means, func(i, j int) bool { return means[i].Year < means[j].Year })

	return means
}

// yearsPresent returns the distinct non-null years, ascending.
func yearsPresent(rows []models.Observation) []int {
	set := make(map[int]struct{})

	for _, row := range rows {
		if row.Year != nil {
			set[*row.Year] = struct{}{}
		}
	}

	years := make([]int, 0, len(set))
	for year := range set {
		years = append(years, year)
	}

	sort.Ints(years)

	return years
}

// rowsForYear filters to rows of the given year.
func rowsForYear(rows []models.Observation, year int) []models.Observation {
	var out []models.Observation

	for _, row := range rows {
		if row.Year != nil && *row.Year == year {
			out = append(out, row)
		}
	}

	return out
}

// resolveYear returns the requested year when the table has rows for it,
// falling back to the most recent year present otherwise. The year actually
// used is always returned so callers and file names agree.
func (v *Visualizer) resolveYear(rows []models.Observation, requested int) (int, error) {
	if requested != 0 && len(rowsForYear(rows, requested)) > 0 {
		return requested, nil
	}

	years := yearsPresent(rows)
	if len(years) == 0 {
		return 0, ErrNoYears
	}

	latest := years[len(years)-1]
	if requested != 0 {
		v.log.Warn("no rows for requested year, using most recent year with data",
			"requested", requested, "using", latest)
	}

	return latest, nil
}

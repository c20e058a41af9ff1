// Package visualizer renders the exploratory chart set from a cleaned table.
package visualizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"connstat/internal/config"
	"connstat/internal/logger"
	"connstat/internal/models"
)

// Chart errors.
var (
	ErrNoRows  = errors.New("no rows to plot")
	ErrNoYears = errors.New("no usable years in table")
)

const (
	chartWidth  = 1280
	chartHeight = 720
)

// Visualizer renders the chart artifacts into a plots directory. Each chart
// is an independent transform from table to file.
type Visualizer struct {
	plotsDir     string
	topN         int
	year         int
	focusCountry string
	regions      []config.RegionConfig
	log          *logger.Logger
}

// New creates a visualizer from the visualize config section.
func New(plotsDir string, viz config.VisualizeConfig, regions []config.RegionConfig, log *logger.Logger) *Visualizer {
	return &Visualizer{
		plotsDir:     plotsDir,
		topN:         viz.TopN,
		year:         viz.Year,
		focusCountry: viz.FocusCountry,
		regions:      regions,
		log:          log,
	}
}

// RenderAll renders every chart, isolating failures: one broken chart is
// logged and the rest are still attempted. It returns the files created.
// An empty table produces no files at all.
func (v *Visualizer) RenderAll(rows []models.Observation) []string {
	if len(rows) == 0 {
		v.log.Error("no cleaned data to visualize")

		return nil
	}

	if err := os.MkdirAll(v.plotsDir, 0755); err != nil {
		v.log.Error("failed to create plots directory", "dir", v.plotsDir, "error", err)

		return nil
	}

	var created []string

	if path, err := v.GlobalTrend(rows); err != nil {
		v.log.Error("global trend chart failed", "error", err)
	} else {
		created = append(created, path)
	}

	if path, _, err := v.TopCountries(rows, v.year, v.topN); err != nil {
		v.log.Error("top countries chart failed", "error", err)
	} else {
		created = append(created, path)
	}

	if path, _, err := v.RegionalComparison(rows, v.year); err != nil {
		v.log.Error("regional comparison chart failed", "error", err)
	} else {
		created = append(created, path)
	}

	if path, err := v.FocusTrend(rows); err != nil {
		if errors.Is(err, ErrNoRows) {
			v.log.Info("skipping focus trend chart, country absent from table",
				"country", v.focusCountry)
		} else {
			v.log.Error("focus trend chart failed", "error", err)
		}
	} else {
		created = append(created, path)
	}

	return created
}

// GlobalTrend renders the mean value by year as a line chart.
func (v *Visualizer) GlobalTrend(rows []models.Observation) (string, error) {
	means := globalAverages(rows)
	if len(means) == 0 {
		return "", ErrNoRows
	}

	xs, ys := trendValues(means)

	ch := chart.Chart{
		Title:  "Global Average Connectivity (% of Population)",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Year", ValueFormatter: yearFormatter},
		YAxis:  chart.YAxis{Name: "Percent"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Global Average",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeWidth: 2, DotWidth: 3},
			},
		},
	}

	return v.render(&ch, "global_trend.png")
}

// TopCountries renders the top n countries by value for the target year as a
// bar chart with value labels. It reports the year actually plotted, which
// may be the most recent year present when the requested one has no rows.
func (v *Visualizer) TopCountries(rows []models.Observation, year, n int) (string, int, error) {
	used, err := v.resolveYear(rows, year)
	if err != nil {
		return "", 0, err
	}

	ranked := valuedRows(rowsForYear(rows, used))
	if len(ranked) == 0 {
		return "", used, ErrNoRows
	}

	sort.SliceStable(ranked, func(i, j int) bool { return *ranked[i].Value > *ranked[j].Value })

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	bars := make([]chart.Value, 0, len(ranked))
	for _, row := range ranked {
		bars = append(bars, chart.Value{
			Value: *row.Value,
			Label: fmt.Sprintf("%s %.1f%%", row.Country, *row.Value),
		})
	}

	ch := chart.BarChart{
		Title:    fmt.Sprintf("Top %d Countries by Connectivity in %d", len(bars), used),
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		XAxis:    chart.Style{TextRotationDegrees: 45},
		Bars:     bars,
	}

	path, err := v.renderBars(&ch, fmt.Sprintf("top_countries_%d.png", used))

	return path, used, err
}

// RegionalComparison renders each region's mean value for the target year.
// Countries outside every region list are excluded from this view. The same
// year fallback as TopCountries applies, and the year used is returned.
func (v *Visualizer) RegionalComparison(rows []models.Observation, year int) (string, int, error) {
	used, err := v.resolveYear(rows, year)
	if err != nil {
		return "", 0, err
	}

	yearRows := valuedRows(rowsForYear(rows, used))

	bars := make([]chart.Value, 0, len(v.regions))

	for _, region := range v.regions {
		members := make(map[string]struct{}, len(region.Countries))
		for _, country := range region.Countries {
			members[country] = struct{}{}
		}

		sum, count := 0.0, 0

		for _, row := range yearRows {
			if _, ok := members[row.Country]; ok {
				sum += *row.Value
				count++
			}
		}

		if count == 0 {
			continue
		}

		mean := sum / float64(count)
		bars = append(bars, chart.Value{
			Value: mean,
			Label: fmt.Sprintf("%s %.1f%%", region.Name, mean),
		})
	}

	if len(bars) == 0 {
		return "", used, ErrNoRows
	}

	ch := chart.BarChart{
		Title:    fmt.Sprintf("Regional Comparison of Connectivity in %d", used),
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 80,
		XAxis:    chart.Style{TextRotationDegrees: 45},
		Bars:     bars,
	}

	path, err := v.renderBars(&ch, fmt.Sprintf("regional_comparison_%d.png", used))

	return path, used, err
}

// FocusTrend renders the focus country's trend against the global average.
// ErrNoRows signals the country has no plottable rows; the caller skips the
// chart without treating it as a failure.
func (v *Visualizer) FocusTrend(rows []models.Observation) (string, error) {
	var focus []yearMean

	for _, row := range rows {
		if row.Country == v.focusCountry && row.Year != nil && row.Value != nil {
			focus = append(focus, yearMean{Year: *row.Year, Mean: *row.Value})
		}
	}

	if len(focus) == 0 {
		return "", ErrNoRows
	}

	sort.Slice(focus, func(i, j int) bool { return focus[i].Year < focus[j].Year })

	focusXs, focusYs := trendValues(focus)
	globalXs, globalYs := trendValues(globalAverages(rows))

	ch := chart.Chart{
		Title:  fmt.Sprintf("%s vs Global Average Connectivity", v.focusCountry),
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Year", ValueFormatter: yearFormatter},
		YAxis:  chart.YAxis{Name: "Percent"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    v.focusCountry,
				XValues: focusXs,
				YValues: focusYs,
				Style:   chart.Style{StrokeWidth: 2, DotWidth: 3},
			},
			chart.ContinuousSeries{
				Name:    "Global Average",
				XValues: globalXs,
				YValues: globalYs,
				Style:   chart.Style{StrokeWidth: 2, StrokeDashArray: []float64{5.0, 5.0}},
			},
		},
	}

	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return v.render(&ch, fmt.Sprintf("%s_trend.png", slug(v.focusCountry)))
}

func (v *Visualizer) render(ch *chart.Chart, name string) (string, error) {
	path := filepath.Join(v.plotsDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := ch.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}

	v.log.Info("saved chart", "path", path)

	return path, nil
}

func (v *Visualizer) renderBars(ch *chart.BarChart, name string) (string, error) {
	path := filepath.Join(v.plotsDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := ch.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}

	v.log.Info("saved chart", "path", path)

	return path, nil
}

// trendValues converts a trend to go-chart series values. A single point is
// padded so the line renderer always has two x values to work with.
func trendValues(means []yearMean) ([]float64, []float64) {
	xs := make([]float64, 0, len(means))
	ys := make([]float64, 0, len(means))

	for _, m := range means {
		xs = append(xs, float64(m.Year))
		ys = append(ys, m.Mean)
	}

	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	return xs, ys
}

// valuedRows filters to rows with a non-null value.
func valuedRows(rows []models.Observation) []models.Observation {
	var out []models.Observation

	for _, row := range rows {
		if row.Value != nil {
			out = append(out, row)
		}
	}

	return out
}

func yearFormatter(v any) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}

	return fmt.Sprintf("%d", int(f))
}

// slug lowercases a country name for use in a file name.
func slug(name string) string {
	out := make([]rune, 0, len(name))

	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}

	return string(out)
}

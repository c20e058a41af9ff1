package config

// DefaultCountryMap returns the built-in many-to-one canonicalization table
// for country name variants. The map is data, not logic: extend it from the
// YAML config without touching any control flow.
func DefaultCountryMap() map[string]string {
	return map[string]string{
		"United States":        "United States of America",
		"USA":                  "United States of America",
		"US":                   "United States of America",
		"UK":                   "United Kingdom",
		"Great Britain":        "United Kingdom",
		"Republic of Korea":    "South Korea",
		"Korea, Rep.":          "South Korea",
		"Korea, Dem. Rep.":     "North Korea",
		"Congo, Dem. Rep.":     "Democratic Republic of the Congo",
		"Congo, Rep.":          "Republic of Congo",
		"Viet Nam":             "Vietnam",
		"Russian Federation":   "Russia",
		"Iran, Islamic Rep.":   "Iran",
		"Egypt, Arab Rep.":     "Egypt",
		"Hong Kong SAR, China": "Hong Kong",
		"Macao SAR, China":     "Macao",
	}
}

// DefaultRegions returns the built-in region membership lists used by the
// regional comparison chart. Countries outside every list are excluded from
// that view.
func DefaultRegions() []RegionConfig {
	return []RegionConfig{
		{Name: "North America", Countries: []string{"United States", "Canada", "Mexico"}},
		{Name: "Europe", Countries: []string{"United Kingdom", "Germany", "France", "Italy", "Spain"}},
		{Name: "Asia", Countries: []string{"China", "Japan", "India", "South Korea", "Indonesia"}},
		{Name: "Africa", Countries: []string{"South Africa", "Nigeria", "Kenya", "Egypt", "Morocco"}},
		{Name: "South America", Countries: []string{"Brazil", "Argentina", "Colombia", "Chile", "Peru"}},
		{Name: "Oceania", Countries: []string{"Australia", "New Zealand"}},
	}
}

package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zalepa/campuscrime/dataset"
)

// YearlySummaries is every chart of the yearly dashboard.
type YearlySummaries struct {
	Offenses     Summary      `json:"offenses"`
	Trend        Summary      `json:"trend"`
	Locations    Summary      `json:"locations"`
	Categories   Summary      `json:"categories"`
	YearOverYear YearOverYear `json:"yearOverYear"`
	Stacked      Stacked      `json:"stacked"`
}

// ComputeYearly builds every yearly summary from records.
func ComputeYearly(records []dataset.Offense, f YearlyFilters) YearlySummaries {
	f = f.Normalize()
	return YearlySummaries{
		Offenses:     OffenseDistribution(records),
		Trend:        YearlyTrend(records, f.Offense),
		Locations:    LocationComparison(records, f.Year),
		Categories:   CategoryDistribution(records),
		YearOverYear: YearOverYearFor(records, f.location()),
		Stacked:      StackedTotals(records),
	}
}

// hasCounts reports whether any location tally of r is valid.
func hasCounts(r dataset.Offense) bool {
	for _, c := range r.Counts {
		if c.Valid {
			return true
		}
	}
	return false
}

// OffenseDistribution sums each offense over all four locations.
func OffenseDistribution(records []dataset.Offense) Summary {
	const title = "Crime Type Distribution (All Years)"
	sums := Sum(records, func(r dataset.Offense) (string, bool) {
		return nonEmpty(r.CriminalOffense)
	}, func(r dataset.Offense) (float64, bool) {
		return float64(r.Total()), hasCounts(r)
	}, nil)
	if len(sums) == 0 {
		return noData(title, "No offense data available")
	}
	return fromEntries(title, ByValueDesc(sums))
}

// YearlyTrend sums every location per year, optionally for one offense.
func YearlyTrend(records []dataset.Offense, offense string) Summary {
	offense = clean(offense)
	title := "Yearly Crime Trends (All Types)"
	var keep func(dataset.Offense) bool
	if offense != "" {
		title = "Yearly Crime Trends: " + offense
		keep = func(r dataset.Offense) bool { return r.CriminalOffense == offense }
	}
	sums := Sum(records, func(r dataset.Offense) (string, bool) {
		return nonEmpty(r.Year)
	}, func(r dataset.Offense) (float64, bool) {
		return float64(r.Total()), true
	}, keep)
	if len(sums) == 0 {
		return noData(title, "No yearly data available for the selected offense")
	}
	return fromEntries(title, ByKeyAsc(sums))
}

// LocationComparison sums each location over all records, optionally for
// one year. Keys follow the fixed location order.
func LocationComparison(records []dataset.Offense, year string) Summary {
	year = clean(year)
	title := fmt.Sprintf("Crime Incidents by Location (%s)", AllYears)
	if year != "" {
		title = fmt.Sprintf("Crime Incidents by Location (%s)", year)
	}
	var totals [dataset.NumLocations]float64
	eligible := false
	for _, r := range records {
		if year != "" && strings.TrimSpace(r.Year) != year {
			continue
		}
		for _, loc := range dataset.Locations() {
			if v, ok := r.Count(loc); ok {
				totals[loc] += float64(v)
				eligible = true
			}
		}
	}
	if !eligible {
		return noData(title, "No location data available for the selected year")
	}
	s := Summary{Title: title}
	for _, loc := range dataset.Locations() {
		s.Keys = append(s.Keys, loc.String())
		s.Values = append(s.Values, totals[loc])
	}
	return s
}

// CategoryDistribution sums offenses into the five classifier buckets.
func CategoryDistribution(records []dataset.Offense) Summary {
	const title = "Crime Categories Distribution"
	sums := Sum(records, func(r dataset.Offense) (string, bool) {
		return string(Classify(r.CriminalOffense)), true
	}, func(r dataset.Offense) (float64, bool) {
		return float64(r.Total()), hasCounts(r)
	}, nil)
	if len(sums) == 0 {
		return noData(title, "No category data available")
	}
	s := Summary{Title: title}
	for _, c := range Categories() {
		s.Keys = append(s.Keys, string(c))
		s.Values = append(s.Values, sums[string(c)])
	}
	return s
}

// YearOverYearFor sums one location per year and the percent change between
// consecutive years.
func YearOverYearFor(records []dataset.Offense, loc dataset.Location) YearOverYear {
	title := "Year-over-Year Crime Trends: " + loc.String()
	sums := Sum(records, func(r dataset.Offense) (string, bool) {
		return nonEmpty(r.Year)
	}, func(r dataset.Offense) (float64, bool) {
		v, ok := r.Count(loc)
		return float64(v), ok
	}, nil)
	if len(sums) == 0 {
		return YearOverYear{
			Summary:       noData(title, "No data available for "+loc.String()),
			Location:      loc,
			PercentChange: []*float64{},
		}
	}
	y := YearOverYear{Summary: fromEntries(title, ByKeyAsc(sums)), Location: loc}
	y.PercentChange = PercentChanges(y.Values)
	return y
}

// PercentChanges returns (curr-prev)/prev*100 for each value after the
// first. Entries are nil where there is no previous value or it is zero.
func PercentChanges(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		pct := round2((values[i] - prev) / prev * 100)
		out[i] = &pct
	}
	return out
}

// StackedTotals sums each location per year, zero-filling missing tallies.
func StackedTotals(records []dataset.Offense) Stacked {
	s := Stacked{Title: "Total Offenses by Location and Year", Locations: dataset.Locations()}
	byYear := make(map[string]*[dataset.NumLocations]float64)
	for _, r := range records {
		year, ok := nonEmpty(r.Year)
		if !ok {
			continue
		}
		row, seen := byYear[year]
		if !seen {
			row = new([dataset.NumLocations]float64)
			byYear[year] = row
			s.Years = append(s.Years, year)
		}
		for _, loc := range dataset.Locations() {
			if v, ok := r.Count(loc); ok {
				row[loc] += float64(v)
			}
		}
	}
	if len(s.Years) == 0 {
		s.Years = []string{}
		s.Totals = [][dataset.NumLocations]float64{}
		s.NoData = "No yearly data available"
		return s
	}
	sort.Strings(s.Years)
	for _, y := range s.Years {
		s.Totals = append(s.Totals, *byYear[y])
	}
	return s
}

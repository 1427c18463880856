package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zalepa/campuscrime/dataset"
)

// DailySummaries is every chart of the daily dashboard.
type DailySummaries struct {
	IncidentTypes Summary `json:"incidentTypes"`
	Monthly       Summary `json:"monthly"`
	Locations     Summary `json:"locations"`
	Weekdays      Summary `json:"weekdays"`
	Hourly        Summary `json:"hourly"`
	Dispositions  Summary `json:"dispositions"`
	DollarTotals  Summary `json:"dollarTotals"`
}

// All returns the summaries in dashboard order.
func (d DailySummaries) All() []Summary {
	return []Summary{d.IncidentTypes, d.Monthly, d.Locations, d.Weekdays, d.Hourly, d.Dispositions, d.DollarTotals}
}

// ComputeDaily builds every daily summary from records. It never fails:
// summaries with nothing to show carry a NoData reason.
func ComputeDaily(records []dataset.Incident, f DailyFilters) DailySummaries {
	f = f.Normalize()
	top := f.TopLocations
	if top <= 0 {
		top = DefaultTopLocations
	}
	return DailySummaries{
		IncidentTypes: IncidentTypeDistribution(records),
		Monthly:       ReportsPerMonth(records, f.CrimeType, f.StartMonth, f.EndMonth),
		Locations:     TopLocations(records, top),
		Weekdays:      WeekdayHistogram(records),
		Hourly:        HourlyAverage(records, f.TimeCrimeType),
		Dispositions:  DispositionBreakdown(records),
		DollarTotals:  DollarTotals(records),
	}
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

func byType(crimeType string) func(dataset.Incident) bool {
	crimeType = clean(crimeType)
	if crimeType == "" {
		return nil
	}
	return func(r dataset.Incident) bool { return r.IncidentType == crimeType }
}

// IncidentTypeDistribution counts incidents per type. Types reported only
// once are left out.
func IncidentTypeDistribution(records []dataset.Incident) Summary {
	const title = "Incident Types Distribution"
	counts := Count(records, func(r dataset.Incident) (string, bool) {
		return nonEmpty(r.IncidentType)
	}, nil)
	for k, v := range counts {
		if v <= 1 {
			delete(counts, k)
		}
	}
	if len(counts) == 0 {
		return noData(title, "No incident type data available")
	}
	return fromEntries(title, ByValueDesc(counts))
}

// ReportsPerMonth counts incidents per YYYY-MM. The crime type filter is
// applied before grouping and the inclusive month range after.
func ReportsPerMonth(records []dataset.Incident, crimeType, start, end string) Summary {
	title := "Reports Per Month"
	if ct := clean(crimeType); ct != "" {
		title += ": " + ct
	}
	if start != "" || end != "" {
		title += fmt.Sprintf(" (%s to %s)", orOpen(start), orOpen(end))
	}
	counts := Count(records, func(r dataset.Incident) (string, bool) {
		return MonthKey(r.OccurredAt)
	}, byType(crimeType))
	for k := range counts {
		if !InRange(k, start, end) {
			delete(counts, k)
		}
	}
	if len(counts) == 0 {
		return noData(title, "No monthly report data available for the selected filters")
	}
	return fromEntries(title, ByKeyAsc(counts))
}

func orOpen(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

// TopLocations keeps the n locations with the most incidents.
func TopLocations(records []dataset.Incident, n int) Summary {
	title := fmt.Sprintf("Top %d Crime Locations", n)
	counts := Count(records, func(r dataset.Incident) (string, bool) {
		return nonEmpty(r.Location)
	}, nil)
	if len(counts) == 0 || n <= 0 {
		return noData(title, "No location data available")
	}
	es := ByValueDesc(counts)
	if len(es) > n {
		es = es[:n]
	}
	return fromEntries(title, es)
}

// WeekdayHistogram counts incidents per weekday, Monday first. Every weekday
// is present once any date parses.
func WeekdayHistogram(records []dataset.Incident) Summary {
	const title = "Crime Reports by Day of the Week"
	counts := Count(records, func(r dataset.Incident) (string, bool) {
		wd, ok := Weekday(r.OccurredAt)
		if !ok {
			return "", false
		}
		return wd.String(), true
	}, nil)
	if len(counts) == 0 {
		return noData(title, "No valid date data available for day of week analysis")
	}
	s := Summary{Title: title}
	for _, wd := range displayWeekdays {
		s.Keys = append(s.Keys, wd.String())
		s.Values = append(s.Values, counts[wd.String()])
	}
	return s
}

// HourlyAverage is the incidents per hour of day divided by the number of
// distinct dates in the filtered records (at least one), rounded to two
// decimals.
func HourlyAverage(records []dataset.Incident, crimeType string) Summary {
	title := "Average Incidents Per Hour of the Day"
	if ct := clean(crimeType); ct != "" {
		title += ": " + ct
	}
	keep := byType(crimeType)
	counts := Count(records, func(r dataset.Incident) (string, bool) {
		h, ok := Hour(r.OccurredAt)
		if !ok {
			return "", false
		}
		return strconv.Itoa(h), true
	}, keep)
	if len(counts) == 0 {
		return noData(title, "No valid time data available for time analysis")
	}
	days := Count(records, func(r dataset.Incident) (string, bool) {
		d, ok := ParseDate(r.OccurredAt)
		if !ok {
			return "", false
		}
		return d.Format("2006-01-02"), true
	}, keep)
	denom := float64(max(1, len(days)))

	s := Summary{Title: title, Keys: make([]string, 24), Values: make([]float64, 24)}
	for h := 0; h < 24; h++ {
		k := strconv.Itoa(h)
		s.Keys[h] = k
		s.Values[h] = round2(counts[k] / denom)
	}
	return s
}

// DispositionBreakdown counts incidents per disposition.
func DispositionBreakdown(records []dataset.Incident) Summary {
	const title = "Incident Status Breakdown"
	counts := Count(records, func(r dataset.Incident) (string, bool) {
		return nonEmpty(r.Disposition)
	}, nil)
	if len(counts) == 0 {
		return noData(title, "No valid status data available")
	}
	return fromEntries(title, ByValueDesc(counts))
}

// DollarTotals sums the dollar amounts found in incident types, grouped by
// type, with the grand total in Total.
func DollarTotals(records []dataset.Incident) Summary {
	const title = "Total Dollar Amount Stolen by Incident Type"
	sums := Sum(records, func(r dataset.Incident) (string, bool) {
		return nonEmpty(r.IncidentType)
	}, func(r dataset.Incident) (float64, bool) {
		return DollarAmount(r.IncidentType)
	}, nil)
	if len(sums) == 0 {
		return noData(title, "No dollar amount data available")
	}
	s := fromEntries(title, ByValueDesc(sums))
	var total float64
	for _, v := range s.Values {
		total += v
	}
	s.Total = &total
	return s
}

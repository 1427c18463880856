package stats

import (
	"math"

	"github.com/zalepa/campuscrime/dataset"
)

// Summary is a chart-ready series: ordered keys with one value each. When
// nothing survives filtering and extraction NoData holds a human readable
// reason and Keys/Values are empty.
type Summary struct {
	Title  string    `json:"title"`
	Keys   []string  `json:"keys"`
	Values []float64 `json:"values"`
	// Total is set for summaries that carry a grand total.
	Total  *float64 `json:"total,omitempty"`
	NoData string   `json:"noData,omitempty"`
}

// OK reports whether the summary holds data.
func (s Summary) OK() bool { return s.NoData == "" }

// Len is the number of points.
func (s Summary) Len() int { return len(s.Keys) }

func noData(title, reason string) Summary {
	return Summary{Title: title, Keys: []string{}, Values: []float64{}, NoData: reason}
}

func fromEntries(title string, es []Entry) Summary {
	s := Summary{Title: title, Keys: make([]string, len(es)), Values: make([]float64, len(es))}
	for i, e := range es {
		s.Keys[i] = e.Key
		s.Values[i] = e.Value
	}
	return s
}

// YearOverYear is a per-year series for one location with the percent change
// from the previous year. PercentChange[i] is nil for the first year and when
// the previous year's value is zero.
type YearOverYear struct {
	Summary
	Location      dataset.Location `json:"location"`
	PercentChange []*float64       `json:"percentChange"`
}

// Stacked holds per-year totals for every location. Totals is aligned with
// Years and zero-filled where a year has no tally for a location.
type Stacked struct {
	Title     string                          `json:"title"`
	Years     []string                        `json:"years"`
	Locations []dataset.Location              `json:"locations"`
	Totals    [][dataset.NumLocations]float64 `json:"totals"`
	NoData    string                          `json:"noData,omitempty"`
}

// OK reports whether the summary holds data.
func (s Stacked) OK() bool { return s.NoData == "" }

// Series returns the per-year values of one location, aligned with Years.
func (s Stacked) Series(loc dataset.Location) []float64 {
	out := make([]float64, len(s.Totals))
	for i, row := range s.Totals {
		out[i] = row[loc]
	}
	return out
}

// Get returns the total for year at loc, zero when the year is unknown.
func (s Stacked) Get(year string, loc dataset.Location) float64 {
	for i, y := range s.Years {
		if y == year {
			return s.Totals[i][loc]
		}
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package stats

import (
	"sort"
	"time"

	"github.com/zalepa/campuscrime/dataset"
)

// IncidentTypes lists the distinct incident types, sorted.
func IncidentTypes(records []dataset.Incident) []string {
	return distinct(records, func(r dataset.Incident) string { return r.IncidentType })
}

// Years lists the distinct years of a yearly dataset, sorted.
func Years(records []dataset.Offense) []string {
	return distinct(records, func(r dataset.Offense) string { return r.Year })
}

// Offenses lists the distinct offense labels, sorted.
func Offenses(records []dataset.Offense) []string {
	return distinct(records, func(r dataset.Offense) string { return r.CriminalOffense })
}

func distinct[R any](records []R, field func(R) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range records {
		v, ok := nonEmpty(field(r))
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MonthRange lists every YYYY-MM from the earliest to the latest valid date.
func MonthRange(records []dataset.Incident) []string {
	var first, last time.Time
	for _, r := range records {
		d, ok := ParseDate(r.OccurredAt)
		if !ok {
			continue
		}
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}
	months := []string{}
	if first.IsZero() {
		return months
	}
	cur := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(end) {
		months = append(months, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// Metadata holds the filter choices offered for a snapshot.
type Metadata struct {
	Name          string   `json:"name"`
	Kind          string   `json:"kind"`
	Records       int      `json:"records"`
	IncidentTypes []string `json:"incidentTypes,omitempty"`
	Months        []string `json:"months,omitempty"`
	Years         []string `json:"years,omitempty"`
	Offenses      []string `json:"offenses,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	Failed        []string `json:"failed,omitempty"`
}

// Describe collects the filter choices of a snapshot.
func Describe(s *dataset.Snapshot) Metadata {
	m := Metadata{Name: s.Name, Kind: string(s.Kind), Records: s.Len(), Failed: s.Failed}
	switch s.Kind {
	case dataset.Daily:
		m.IncidentTypes = IncidentTypes(s.Incidents)
		m.Months = MonthRange(s.Incidents)
	case dataset.Yearly:
		m.Years = Years(s.Offenses)
		m.Offenses = Offenses(s.Offenses)
		for _, loc := range dataset.Locations() {
			m.Locations = append(m.Locations, loc.String())
		}
	}
	return m
}

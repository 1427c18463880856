package dataset

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical column names of the daily and yearly datasets.
const (
	ColIncidentType    = "Incident Type"
	ColOccurredAt      = "Date/Time Occurred"
	ColLocation        = "Location"
	ColDisposition     = "Disposition"
	ColCriminalOffense = "Criminal Offenses"
	ColYear            = "Year"
)

// columnAliases maps a canonical column to header variants seen in the
// scraped datasets. Matching is case-insensitive and the canonical name is
// always tried first.
var columnAliases = map[string][]string{
	ColIncidentType:    {"Incident", "Nature", "Nature | Classification", "Classification", "Offense", "Crime Type", "Crime", "Initial_Incident"},
	ColOccurredAt:      {"Date/Time Occured", "Date Time Occurred", "Date Occurred", "Occurrence Date", "Occurred", "Date/Time"},
	ColLocation:        {"General Location", "Location Name", "Address"},
	ColDisposition:     {"Status", "Case Status"},
	ColCriminalOffense: {"Criminal Offense", "Offenses", "Offense"},
	ColYear:            {"Calendar Year"},
}

// cleanKey trims a column name and folds compatibility characters (such as
// non-breaking spaces) into their plain forms.
func cleanKey(k string) string {
	return strings.TrimSpace(norm.NFKC.String(k))
}

// record is a raw row with cleaned column names, kept in first-seen column
// order. Later duplicates overwrite earlier values.
type record struct {
	keys   []string
	values map[string]string
	used   map[string]bool
}

func newRecord(row RawRow) *record {
	rec := &record{values: make(map[string]string, len(row)), used: make(map[string]bool)}
	for _, f := range row {
		k := cleanKey(f.Name)
		if _, seen := rec.values[k]; !seen {
			rec.keys = append(rec.keys, k)
		}
		rec.values[k] = f.Value
	}
	return rec
}

// lookup finds the trimmed, non-empty value for a canonical column, trying the
// exact name, then case-insensitive matches of the name and its aliases.
func (r *record) lookup(canonical string) (string, bool) {
	if v, ok := r.take(canonical); ok {
		return v, true
	}
	for _, name := range append([]string{canonical}, columnAliases[canonical]...) {
		for _, k := range r.keys {
			if r.used[k] || !strings.EqualFold(k, name) {
				continue
			}
			if v, ok := r.take(k); ok {
				return v, true
			}
		}
	}
	return "", false
}

func (r *record) take(k string) (string, bool) {
	if r.used[k] {
		return "", false
	}
	v, ok := r.values[k]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	r.used[k] = true
	return v, true
}

// rest returns the columns that were not consumed by lookup.
func (r *record) rest() map[string]string {
	var extra map[string]string
	for _, k := range r.keys {
		if r.used[k] || k == "" {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[k] = r.values[k]
	}
	return extra
}

// NormalizeDaily turns raw daily rows into incidents. Rows with at most one
// populated column are dropped; the four required fields default to Unknown.
func NormalizeDaily(rows []RawRow, source string) []Incident {
	out := make([]Incident, 0, len(rows))
	for _, row := range rows {
		if row.Populated() <= 1 {
			continue
		}
		rec := newRecord(row)
		out = append(out, Incident{
			IncidentType: orUnknown(rec.lookup(ColIncidentType)),
			OccurredAt:   orUnknown(rec.lookup(ColOccurredAt)),
			Location:     orUnknown(rec.lookup(ColLocation)),
			Disposition:  orUnknown(rec.lookup(ColDisposition)),
			SourceFile:   source,
			Extra:        rec.rest(),
		})
	}
	return out
}

func orUnknown(v string, ok bool) string {
	if !ok {
		return Unknown
	}
	return v
}

// NormalizeYearly turns raw yearly rows into offense records. Location counts
// that are absent or not numeric stay invalid.
func NormalizeYearly(rows []RawRow, source string) []Offense {
	out := make([]Offense, 0, len(rows))
	for _, row := range rows {
		if row.Populated() <= 1 {
			continue
		}
		rec := newRecord(row)
		o := Offense{SourceFile: source}
		o.CriminalOffense, _ = rec.lookup(ColCriminalOffense)
		if y, ok := rec.lookup(ColYear); ok {
			o.Year = normalizeYear(y)
		}
		for _, loc := range Locations() {
			if v, ok := rec.lookup(loc.String()); ok {
				o.Counts[loc] = parseCount(v)
			}
		}
		out = append(out, o)
	}
	return out
}

// normalizeYear renders integral numbers without a fraction, so "2021.0"
// and "2021" group together.
func normalizeYear(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}

// parseCount reads a tally such as "12" or "1,204". Fractions are truncated.
func parseCount(s string) Count {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Count{}
	}
	return Count{Value: int(math.Trunc(f)), Valid: true}
}

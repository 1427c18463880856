// Package crimelog converts PDF daily crime logs into dataset rows.
//
// A log line starts with a case number and reads
//
//	25-00123 Theft of Bicycle 01/05/25 0906Hrs 01/04/25 2200Hrs - 01/05/25 0800Hrs Main Library (CPN) Closed
//
// that is: case number, nature, date/time reported, date/time occurred (a
// single stamp or a range), location and disposition.
package crimelog

import (
	"regexp"
	"strings"

	"github.com/zalepa/campuscrime/dataset"
)

var (
	entryRe = regexp.MustCompile(`^(\d{2}-\d{5}|\d{2}RC\d{5})\s+(.*?)\s+(\d{2}/\d{2}/\d{2}\s+\d{4}Hrs)(.*)$`)
	// occurredRe prefers a full range so the whole range is removed from the
	// remainder; only its first stamp is kept.
	occurredRe = regexp.MustCompile(`(\d{2}/\d{2}/\d{2}\s+\d{4}Hrs)(?:\s+-\s*\d{2}/\d{2}/\d{2}\s+\d{4}Hrs)?`)
	stampRe    = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{2})\s+(\d{2})(\d{2})Hrs$`)
	// dispositionRe recognizes a trailing disposition when the location has
	// no campus marker.
	dispositionRe = regexp.MustCompile(`(?i)\s+((?:cleared|closed|open|pending|inactive|unfounded|arrest|referred|exceptionally cleared)(?:\s.*)?)$`)
)

// campusMarker ends the location column in logs that carry it.
const campusMarker = "(CPN)"

// Column names of the rows produced by Entry.Row.
const (
	ColCaseNumber = "Case Number"
	ColReported   = "Date/Time Reported"
)

// Header lists the columns of Entry.Record in order.
var Header = []string{
	ColCaseNumber,
	dataset.ColIncidentType,
	ColReported,
	dataset.ColOccurredAt,
	dataset.ColLocation,
	dataset.ColDisposition,
}

// Entry is one incident line of a crime log. Reported and Occurred are
// formatted as "MM/DD/YYYY HH:MM".
type Entry struct {
	CaseNumber  string
	Nature      string
	Reported    string
	Occurred    string
	Location    string
	Disposition string
}

// ParseLine parses one log line. Lines that do not start with a case number
// followed by a report stamp report false.
func ParseLine(line string) (Entry, bool) {
	m := entryRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Entry{}, false
	}
	e := Entry{
		CaseNumber: m[1],
		Nature:     strings.TrimSpace(m[2]),
		Reported:   stamp(m[3]),
	}

	rest := strings.TrimSpace(m[4])
	if loc := occurredRe.FindStringSubmatchIndex(rest); loc != nil {
		e.Occurred = stamp(rest[loc[2]:loc[3]])
		rest = strings.TrimSpace(rest[:loc[0]] + " " + rest[loc[1]:])
	}
	if e.Occurred == "" {
		e.Occurred = e.Reported
	}

	if i := strings.Index(rest, campusMarker); i >= 0 {
		e.Location = strings.TrimSpace(rest[:i+len(campusMarker)])
		e.Disposition = strings.TrimSpace(rest[i+len(campusMarker):])
	} else if m := dispositionRe.FindStringSubmatchIndex(rest); m != nil {
		e.Location = strings.TrimSpace(rest[:m[0]])
		e.Disposition = strings.TrimSpace(rest[m[2]:m[3]])
	} else {
		e.Location = rest
	}
	return e, true
}

// stamp turns "01/05/25 0906Hrs" into "01/05/2025 09:06". Unrecognized
// values are returned trimmed.
func stamp(s string) string {
	s = strings.TrimSpace(s)
	m := stampRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return m[1] + "/" + m[2] + "/20" + m[3] + " " + m[4] + ":" + m[5]
}

// Parse extracts the entries from the text lines of a log. Lines before the
// first entry (titles, column headers) and lines that are not entries are
// skipped.
func Parse(lines []string) []Entry {
	var entries []Entry
	for _, l := range lines {
		if e, ok := ParseLine(l); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Record returns the entry as cells in Header order.
func (e Entry) Record() []string {
	return []string{e.CaseNumber, e.Nature, e.Reported, e.Occurred, e.Location, e.Disposition}
}

// Row returns the entry as a raw dataset row.
func (e Entry) Row() dataset.RawRow {
	rec := e.Record()
	row := make(dataset.RawRow, len(Header))
	for i, name := range Header {
		row[i] = dataset.Field{Name: name, Value: rec[i]}
	}
	return row
}

// Import reads a PDF crime log and returns its entries.
func Import(data []byte) ([]Entry, error) {
	lines, err := Lines(data)
	if err != nil {
		return nil, err
	}
	return Parse(lines), nil
}

// Rows converts entries into raw rows ready for dataset.NormalizeDaily.
func Rows(entries []Entry) []dataset.RawRow {
	rows := make([]dataset.RawRow, len(entries))
	for i, e := range entries {
		rows[i] = e.Row()
	}
	return rows
}

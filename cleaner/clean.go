// Package cleaner tidies crime log exports before they are loaded: it drops
// page furniture and repeated headers, re-joins rows that a PDF export split
// across lines, and normalizes times, capitals and dispositions.
package cleaner

import (
	"regexp"
	"strings"
)

// Options selects the cleanup steps. Column lists match header names
// case-insensitively.
type Options struct {
	// TimeColumns get FormatTimes. Empty means every column whose name
	// mentions a date or a time.
	TimeColumns []string
	// TitleColumns get FixCaps.
	TitleColumns []string
	// DispositionColumns get StandardizeDisposition. Empty means every
	// column whose name mentions a disposition or a status.
	DispositionColumns []string
	// MaxEmpty is the number of empty cells a row may have before it is
	// treated as the continuation of the row above. Negative disables
	// merging.
	MaxEmpty int
	// MinHeaderMatches is how many cells must equal a header name for a row
	// to count as a repeated header.
	MinHeaderMatches int
	MetadataPatterns []*regexp.Regexp
}

// DefaultOptions matches the layout of most campus crime log exports.
func DefaultOptions() Options {
	return Options{
		TitleColumns:     []string{"Incident Type", "Nature", "Location", "General Location"},
		MaxEmpty:         2,
		MinHeaderMatches: 2,
		MetadataPatterns: DefaultMetadataPatterns,
	}
}

// Report counts what Clean changed.
type Report struct {
	Blank        int `json:"blank"`
	Metadata     int `json:"metadata"`
	Headers      int `json:"headers"`
	Merged       int `json:"merged"`
	Times        int `json:"times"`
	Recased      int `json:"recased"`
	Dispositions int `json:"dispositions"`
}

// Changed reports whether anything was removed or rewritten.
func (r Report) Changed() bool {
	return r != Report{}
}

// Clean returns a cleaned copy of t. Row filtering runs first, in order:
// blank rows, metadata rows, repeated headers, continuation rows. Cell
// rewrites run on the surviving rows.
func Clean(t Table, opts Options) (Table, Report) {
	var rep Report
	out := Table{Header: cleanHeader(t.Header)}
	width := len(out.Header)

	for _, raw := range t.Rows {
		row := fit(raw, width)
		switch {
		case blank(row):
			rep.Blank++
		case isMetadata(row, opts.MetadataPatterns):
			rep.Metadata++
		case opts.MinHeaderMatches > 0 && isHeader(row, out.Header, opts.MinHeaderMatches):
			rep.Headers++
		case opts.MaxEmpty >= 0 && len(out.Rows) > 0 && empties(row) > opts.MaxEmpty:
			mergeInto(out.Rows[len(out.Rows)-1], row)
			rep.Merged++
		default:
			out.Rows = append(out.Rows, row)
		}
	}

	timeCols := out.columns(opts.TimeColumns, "date", "time")
	titleCols := out.columns(opts.TitleColumns)
	dispCols := out.columns(opts.DispositionColumns, "disposition", "status")
	for _, row := range out.Rows {
		rep.Times += rewrite(row, timeCols, FormatTimes)
		rep.Recased += rewrite(row, titleCols, FixCaps)
		rep.Dispositions += rewrite(row, dispCols, StandardizeDisposition)
	}
	return out, rep
}

// columns resolves names to indexes. With no names, it picks the columns
// whose header contains one of the keywords.
func (t Table) columns(names []string, keywords ...string) []int {
	var idx []int
	if len(names) > 0 {
		for _, n := range names {
			if i := t.Column(n); i >= 0 {
				idx = append(idx, i)
			}
		}
		return idx
	}
	for i, h := range t.Header {
		lower := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

// rewrite applies fn to the given cells and returns how many changed.
func rewrite(row []string, cols []int, fn func(string) string) int {
	n := 0
	for _, i := range cols {
		if v := fn(row[i]); v != row[i] {
			row[i] = v
			n++
		}
	}
	return n
}

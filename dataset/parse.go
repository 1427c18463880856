package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Warning describes a recoverable problem found while parsing a source.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// candidateDelimiters are tried in order; ties go to the earlier one.
var candidateDelimiters = []rune{',', '\t', '|', ';'}

// sniffLines is how many records are inspected when guessing the delimiter.
const sniffLines = 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseRows parses a dataset file into raw rows. Names ending in .xlsx are
// read as workbooks; everything else as delimited text with a header row.
func ParseRows(name string, data []byte) ([]RawRow, []Warning, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return parseWorkbook(data)
	}
	return ParseDelimited(data)
}

// ParseDelimited parses delimited text, guessing the delimiter among comma,
// tab, pipe and semicolon. Ragged rows are kept and reported as warnings.
func ParseDelimited(data []byte) ([]RawRow, []Warning, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, fmt.Errorf("empty input")
	}

	r := newCSVReader(data, GuessDelimiter(data))

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)

	var rows []RawRow
	var warnings []Warning
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				warnings = append(warnings, Warning{Line: perr.Line, Message: perr.Err.Error()})
				continue
			}
			return rows, warnings, fmt.Errorf("read record: %w", err)
		}
		if len(rec) != len(header) {
			line, _ := r.FieldPos(0)
			warnings = append(warnings, Warning{
				Line:    line,
				Message: fmt.Sprintf("expected %d fields, got %d", len(header), len(rec)),
			})
		}
		rows = append(rows, zipRow(header, rec))
	}
	return rows, warnings, nil
}

// ReadRecords reads every record of delimited text, header included, without
// zipping rows to the header. Ragged rows are returned as they are.
func ReadRecords(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	recs, err := newCSVReader(data, GuessDelimiter(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return recs, nil
}

// GuessDelimiter picks the candidate delimiter that splits the header into
// more than one column and yields the most records with the header's field
// count.
func GuessDelimiter(data []byte) rune {
	best := candidateDelimiters[0]
	bestConsistent, bestFields := -1, 0

	for _, d := range candidateDelimiters {
		r := newCSVReader(data, d)
		header, err := r.Read()
		if err != nil || len(header) <= 1 {
			continue
		}
		consistent := 0
		for i := 0; i < sniffLines; i++ {
			rec, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				continue
			}
			if len(rec) == len(header) {
				consistent++
			}
		}
		if consistent > bestConsistent || (consistent == bestConsistent && len(header) > bestFields) {
			best, bestConsistent, bestFields = d, consistent, len(header)
		}
	}
	return best
}

func newCSVReader(data []byte, delim rune) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}

// zipRow pairs header names with record values. Values past the end of the
// header are dropped; header columns past the end of the record are absent.
func zipRow(header, rec []string) RawRow {
	n := len(header)
	if len(rec) < n {
		n = len(rec)
	}
	row := make(RawRow, n)
	for i := 0; i < n; i++ {
		row[i] = Field{Name: header[i], Value: rec[i]}
	}
	return row
}

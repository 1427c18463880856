package dataset

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// parseWorkbook reads the first sheet of an .xlsx workbook. The first row is
// the header.
func parseWorkbook(data []byte) ([]RawRow, []Warning, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty sheet %q", sheets[0])
	}

	header := rows[0]
	var out []RawRow
	var warnings []Warning
	for i, r := range rows[1:] {
		// GetRows trims trailing empty cells, so short rows are normal here.
		if len(r) > len(header) {
			warnings = append(warnings, Warning{
				Line:    i + 2,
				Message: fmt.Sprintf("expected %d fields, got %d", len(header), len(r)),
			})
		}
		out = append(out, zipRow(header, r))
	}
	return out, warnings, nil
}

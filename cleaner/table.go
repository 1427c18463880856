package cleaner

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/zalepa/campuscrime/dataset"
)

// Table is a header row plus data rows, all as raw cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Read parses delimited text into a Table. The first record is the header.
func Read(data []byte) (Table, error) {
	recs, err := dataset.ReadRecords(data)
	if err != nil {
		return Table{}, err
	}
	if len(recs) == 0 {
		return Table{}, fmt.Errorf("no header row")
	}
	return Table{Header: recs[0], Rows: recs[1:]}, nil
}

// Write writes the table as comma separated values.
func Write(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Column returns the index of the header called name, ignoring case.
func (t Table) Column(name string) int {
	for i, h := range t.Header {
		if equalFold(h, name) {
			return i
		}
	}
	return -1
}

package cleaner

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const crimeLog = `Nature,Case Number,Date/Time Occurred,Location,Disposition:
THEFT,25-00001,01/05/2025 906,MAIN LIBRARY,Clsd 01/06/2025
,,,NORTH ENTRANCE,
Page 1 of 3,,,,
Nature,Case Number,Date/Time Occurred,Location,Disposition
,,,,
Assault,25-00002,0214 03-23-2025,Dorm A,Open
`

func TestClean(t *testing.T) {
	tbl, err := Read([]byte(crimeLog))
	require.NoError(t, err)

	got, rep := Clean(tbl, DefaultOptions())

	assert.Equal(t, []string{"Nature", "Case Number", "Date/Time Occurred", "Location", "Disposition"}, got.Header)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []string{"Theft", "25-00001", "01/05/2025 9:06", "Main Library North Entrance", "Closed"}, got.Rows[0])
	assert.Equal(t, []string{"Assault", "25-00002", "03/23/2025 02:14", "Dorm A", "Open"}, got.Rows[1])

	assert.Equal(t, Report{Blank: 1, Metadata: 1, Headers: 1, Merged: 1, Times: 2, Recased: 2, Dispositions: 1}, rep)
	assert.True(t, rep.Changed())
}

func TestCleanDoesNotModifyInput(t *testing.T) {
	tbl := Table{
		Header: []string{"a", "b", "c", "d"},
		Rows:   [][]string{{"x", "y", "z", "w"}, {"", "", "", "more"}},
	}
	got, rep := Clean(tbl, DefaultOptions())
	assert.Equal(t, 1, rep.Merged)
	assert.Equal(t, "w more", got.Rows[0][3])
	assert.Equal(t, "w", tbl.Rows[0][3])
}

func TestCleanMergeDisabled(t *testing.T) {
	tbl := Table{
		Header: []string{"a", "b", "c", "d"},
		Rows:   [][]string{{"x", "y", "z", "w"}, {"", "", "", "more"}},
	}
	opts := DefaultOptions()
	opts.MaxEmpty = -1
	got, rep := Clean(tbl, opts)
	assert.Len(t, got.Rows, 2)
	assert.False(t, rep.Changed())
}

func TestCleanRaggedRows(t *testing.T) {
	tbl := Table{
		Header: []string{"Type", "Time"},
		Rows:   [][]string{{"Theft"}, {"Fraud", "1/2/2024 1230", "extra"}},
	}
	got, _ := Clean(tbl, Options{MaxEmpty: -1})
	assert.Equal(t, [][]string{{"Theft", ""}, {"Fraud", "1/2/2024 12:30"}}, got.Rows)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Table{Header: []string{"a", "b"}, Rows: [][]string{{"1", "x,y"}}})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"x,y\"\n", buf.String())
}

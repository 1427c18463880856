package dataset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGuessDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  rune
	}{
		{"comma", "a,b,c\n1,2,3\n4,5,6\n", ','},
		{"tab", "a\tb\tc\n1\t2\t3\n", '\t'},
		{"pipe", "a|b|c\n1|2|3\n", '|'},
		{"semicolon", "a;b;c\n1;2;3\n", ';'},
		// Commas inside values must not win over a consistent semicolon split.
		{"semicolon with commas", "Type;Where\nTheft $1,000;Dorm\nFraud $2,500;Lot\n", ';'},
		{"single column falls back to comma", "a\n1\n", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, string(tt.want), string(GuessDelimiter([]byte(tt.input))))
		})
	}
}

func TestParseDelimited(t *testing.T) {
	input := "\xEF\xBB\xBF Incident Type ,Location\nTheft,Library\nAssault\nFraud,Dorm,extra\n"
	rows, warnings, err := ParseDelimited([]byte(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Header names are kept raw; trimming is the normalizer's job.
	v, ok := rows[0].Get(" Incident Type ")
	assert.True(t, ok)
	assert.Equal(t, "Theft", v)

	// Short rows leave trailing columns absent.
	_, ok = rows[1].Get("Location")
	assert.False(t, ok)

	assert.Len(t, warnings, 2)
	assert.Equal(t, 3, warnings[0].Line)
}

func TestParseDelimitedEmpty(t *testing.T) {
	_, _, err := ParseDelimited([]byte("  \n"))
	assert.Error(t, err)
}

func TestParseRowsWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Criminal Offenses", "Year", "Public Property"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Robbery", 2021, 4}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Arson", 2022}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, _, err := ParseRows("Stanford.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	v, _ := rows[0].Get("Public Property")
	assert.Equal(t, "4", v)
	_, ok := rows[1].Get("Public Property")
	assert.False(t, ok)
}

func TestRawRowPopulated(t *testing.T) {
	row := RawRow{{"a", "x"}, {"b", "  "}, {"c", ""}, {"d", "y"}}
	assert.Equal(t, 2, row.Populated())
}

func TestReadRecords(t *testing.T) {
	recs, err := ReadRecords([]byte("\xEF\xBB\xBFa;b;c\n1;2;3\n4;5\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"1", "2", "3"}, {"4", "5"}}, recs)

	_, err = ReadRecords([]byte("  \n"))
	assert.Error(t, err)
}

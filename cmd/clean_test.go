package cmd

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zalepa/campuscrime/cleaner"
)

var testVariants = []cleaner.Variant{
	{Key: "MAIN LIBRARY", Keep: "Main Library", Replace: "MAIN LIBRARY BLDG", KeepCount: 12, ReplaceCount: 2},
	{Key: "OAK STREET", Keep: "Oak Street", Replace: "Oak St", KeepCount: 4, ReplaceCount: 1},
	{Key: "UNION", Keep: "Union", Replace: "Union Bldg", KeepCount: 3, ReplaceCount: 1},
}

func TestPromptMerges(t *testing.T) {
	tests := []struct {
		name  string
		input string
		all   bool
		want  map[string]string
	}{
		{
			name:  "yes then no",
			input: "y\n\nn\n",
			want:  map[string]string{"MAIN LIBRARY BLDG": "Main Library"},
		},
		{
			name:  "all from second",
			input: "n\na\n",
			want:  map[string]string{"Oak St": "Oak Street", "Union Bldg": "Union"},
		},
		{
			name:  "input ends",
			input: "YES\n",
			want:  map[string]string{"MAIN LIBRARY BLDG": "Main Library"},
		},
		{
			name: "accept all flag",
			all:  true,
			want: map[string]string{
				"MAIN LIBRARY BLDG": "Main Library",
				"Oak St":            "Oak Street",
				"Union Bldg":        "Union",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			scanner := bufio.NewScanner(strings.NewReader(tt.input))
			got := promptMerges(scanner, &out, "Location", testVariants, tt.all)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptMergesOutput(t *testing.T) {
	var out bytes.Buffer
	scanner := bufio.NewScanner(strings.NewReader("n\n"))
	promptMerges(scanner, &out, "Location", testVariants[:1], false)

	assert.Contains(t, out.String(), "Possible duplicate location:")
	assert.Contains(t, out.String(), "12 rows")
	assert.Contains(t, out.String(), `Merge "MAIN LIBRARY BLDG" → "Main Library"? [y/N/a(ll)]: `)
}

func TestDescribeReport(t *testing.T) {
	assert.Equal(t, "", describeReport(cleaner.Report{}, 0))
	assert.Equal(t, " (2 blank, 1 repeated headers, 3 times, 4 renamed)",
		describeReport(cleaner.Report{Blank: 2, Headers: 1, Times: 3}, 4))
}

func TestFormatRows(t *testing.T) {
	assert.Equal(t, "1 row", formatRows(1))
	assert.Equal(t, "1,200 rows", formatRows(1200))
}

package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Smith Hall", "SMITH HALL"},
		{"SMITH HALL", "SMITH HALL"},
		{"Science Bldg.", "SCIENCE"},
		{"Science Building", "SCIENCE"},
		{"100 Main St", "100 MAIN STREET"},
		{"100 Main Street", "100 MAIN STREET"},
		// A lone designation is kept.
		{"Building", "BUILDING"},
	}
	for _, tt := range tests {
		if got := variantKey(tt.input); got != tt.want {
			t.Errorf("variantKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFindVariants(t *testing.T) {
	tbl := Table{
		Header: []string{"Type", "Location"},
		Rows: [][]string{
			{"Theft", "Science Building"},
			{"Theft", "Science Building"},
			{"Theft", "SCIENCE BLDG"},
			{"Theft", "Smith Hall"},
			{"Theft", "100 Main St"},
			{"Theft", "100 Main Street"},
		},
	}
	col := tbl.Column("location")
	require.Equal(t, 1, col)

	vs := FindVariants(tbl, col)
	require.Len(t, vs, 2)
	assert.Equal(t, Variant{Key: "100 MAIN STREET", Keep: "100 Main St", Replace: "100 Main Street", KeepCount: 1, ReplaceCount: 1}, vs[0])
	assert.Equal(t, "Science Building", vs[1].Keep)
	assert.Equal(t, "SCIENCE BLDG", vs[1].Replace)

	n := ApplyVariants(tbl, col, map[string]string{"SCIENCE BLDG": "Science Building"})
	assert.Equal(t, 1, n)
	assert.Equal(t, "Science Building", tbl.Rows[2][1])
	assert.Empty(t, FindVariants(tbl, -1))
}

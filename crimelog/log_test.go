package crimelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/campuscrime/dataset"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Entry
	}{
		{
			"25-00123 Theft of Bicycle 01/05/25 0906Hrs 01/04/25 2200Hrs - 01/05/25 0800Hrs Main Library (CPN) Closed",
			Entry{"25-00123", "Theft of Bicycle", "01/05/2025 09:06", "01/04/2025 22:00", "Main Library (CPN)", "Closed"},
		},
		{
			"25-00124 Assault 01/06/25 1200Hrs 01/06/25 1130Hrs Smith Hall Open",
			Entry{"25-00124", "Assault", "01/06/2025 12:00", "01/06/2025 11:30", "Smith Hall", "Open"},
		},
		{
			"25RC00001 Noise Complaint 02/01/25 0100Hrs Lot 5",
			Entry{"25RC00001", "Noise Complaint", "02/01/2025 01:00", "02/01/2025 01:00", "Lot 5", ""},
		},
	}
	for _, tt := range tests {
		got, ok := ParseLine(tt.line)
		require.True(t, ok, tt.line)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseSkipsNonEntries(t *testing.T) {
	lines := []string{
		"Daily Crime Log",
		"Case # Nature Reported Occurred Location Disposition",
		"25-00001 Theft 01/05/25 0906Hrs Dorm A (CPN) Closed",
		"Page 1 of 2",
		"25-0001 Short case number 01/05/25 0906Hrs",
	}
	entries := Parse(lines)
	require.Len(t, entries, 1)
	assert.Equal(t, "25-00001", entries[0].CaseNumber)
}

func TestEntryRowNormalizes(t *testing.T) {
	e, ok := ParseLine("25-00123 Theft $250 01/05/25 0906Hrs Main Library (CPN) Closed")
	require.True(t, ok)

	incidents := dataset.NormalizeDaily(Rows([]Entry{e}), "log.pdf")
	require.Len(t, incidents, 1)
	got := incidents[0]
	assert.Equal(t, "Theft $250", got.IncidentType)
	assert.Equal(t, "01/05/2025 09:06", got.OccurredAt)
	assert.Equal(t, "Main Library (CPN)", got.Location)
	assert.Equal(t, "Closed", got.Disposition)
	assert.Equal(t, "25-00123", got.Extra[ColCaseNumber])
	assert.Equal(t, "log.pdf", got.SourceFile)
}

func TestStamp(t *testing.T) {
	assert.Equal(t, "12/31/2024 23:59", stamp("12/31/24 2359Hrs"))
	assert.Equal(t, "soon", stamp(" soon "))
}

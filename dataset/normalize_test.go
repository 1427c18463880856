package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(kv ...string) RawRow {
	var r RawRow
	for i := 0; i+1 < len(kv); i += 2 {
		r = append(r, Field{Name: kv[i], Value: kv[i+1]})
	}
	return r
}

func TestNormalizeDailyDefaults(t *testing.T) {
	rows := []RawRow{
		row("Incident Type", "Theft", "Location", "Library"),
		row(" Disposition ", "Closed", "Case Number", "24-001"),
	}
	got := NormalizeDaily(rows, "UCLA.csv")
	require.Len(t, got, 2)

	assert.Equal(t, Incident{
		IncidentType: "Theft",
		OccurredAt:   Unknown,
		Location:     "Library",
		Disposition:  Unknown,
		SourceFile:   "UCLA.csv",
	}, got[0])

	assert.Equal(t, Unknown, got[1].IncidentType)
	assert.Equal(t, "Closed", got[1].Disposition)
	assert.Equal(t, map[string]string{"Case Number": "24-001"}, got[1].Extra)
}

func TestNormalizeDailyNeverMissesRequiredFields(t *testing.T) {
	rows := []RawRow{
		row("x", "1", "y", "2"),
		row("Incident Type", "", "Location", "  ", "z", "3"),
		row("Incident Type", "Fraud", "Date/Time Occurred", "01/05/2023 10:00", "Location", "Dorm", "Disposition", "Open"),
	}
	for _, inc := range NormalizeDaily(rows, "f.csv") {
		assert.NotEmpty(t, inc.IncidentType)
		assert.NotEmpty(t, inc.OccurredAt)
		assert.NotEmpty(t, inc.Location)
		assert.NotEmpty(t, inc.Disposition)
		assert.Equal(t, "f.csv", inc.SourceFile)
	}
}

func TestNormalizeDropsSparseRows(t *testing.T) {
	rows := []RawRow{
		row("Incident Type", "Theft"),
		row("Incident Type", "", "Location", "Dorm"),
		row("Incident Type", " ", "Location", ""),
		{},
	}
	assert.Empty(t, NormalizeDaily(rows, "f.csv"))
	assert.Empty(t, NormalizeYearly(rows, "f.csv"))
}

func TestNormalizeDailyKeyCollisionLastWins(t *testing.T) {
	rows := []RawRow{row("Location ", "Old", " Location", "New", "Incident Type", "Theft")}
	got := NormalizeDaily(rows, "f.csv")
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Location)
}

func TestNormalizeDailyAliases(t *testing.T) {
	rows := []RawRow{
		row("NATURE", "Burglary", "Date/Time Occured", "02/03/2024 08:15", "General Location", "Lot 5", "status", "Closed"),
		// Non-breaking space inside the header is folded by NFKC.
		row("Incident\u00a0Type", "Theft", "Location", "Gym"),
	}
	got := NormalizeDaily(rows, "f.csv")
	require.Len(t, got, 2)
	assert.Equal(t, "Burglary", got[0].IncidentType)
	assert.Equal(t, "02/03/2024 08:15", got[0].OccurredAt)
	assert.Equal(t, "Lot 5", got[0].Location)
	assert.Equal(t, "Closed", got[0].Disposition)
	assert.Equal(t, "Theft", got[1].IncidentType)
}

func TestNormalizeYearly(t *testing.T) {
	rows := []RawRow{
		row("Criminal Offenses", "Robbery", "Year", "2021.0",
			"Residential Facility", "3", "Public Property", "1,204", "Non Campus Building or Property", ""),
		row("Criminal Offenses", "Arson", "Year", "2022", "Non Residential Facility", "n/a"),
	}
	got := NormalizeYearly(rows, "GCU.csv")
	require.Len(t, got, 2)

	r := got[0]
	assert.Equal(t, "Robbery", r.CriminalOffense)
	assert.Equal(t, "2021", r.Year)
	assert.Equal(t, Count{3, true}, r.Counts[ResidentialFacility])
	assert.Equal(t, Count{}, r.Counts[NonResidentialFacility])
	assert.Equal(t, Count{1204, true}, r.Counts[PublicProperty])
	assert.Equal(t, Count{}, r.Counts[NonCampusProperty])
	assert.Equal(t, 1207, r.Total())

	v, ok := got[1].Count(NonResidentialFacility)
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Equal(t, "GCU.csv", got[1].SourceFile)
}

func TestParseLocation(t *testing.T) {
	loc, ok := ParseLocation("  public property ")
	assert.True(t, ok)
	assert.Equal(t, PublicProperty, loc)

	_, ok = ParseLocation("Parking Lot")
	assert.False(t, ok)

	for _, l := range Locations() {
		back, ok := ParseLocation(l.String())
		assert.True(t, ok)
		assert.Equal(t, l, back)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Yearly")
	require.NoError(t, err)
	assert.Equal(t, Yearly, k)

	_, err = ParseKind("weekly")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

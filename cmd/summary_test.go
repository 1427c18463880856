package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/campuscrime/dataset"
	"github.com/zalepa/campuscrime/stats"
)

func testSnapshot(t *testing.T, kind dataset.Kind) *dataset.Snapshot {
	t.Helper()
	snap := &dataset.Snapshot{Kind: kind}
	switch kind {
	case dataset.Daily:
		rows, _, err := dataset.ParseRows("log.csv", []byte(dailyCSV))
		require.NoError(t, err)
		snap.Name = "log.csv"
		snap.Incidents = dataset.NormalizeDaily(rows, "log.csv")
	case dataset.Yearly:
		rows, _, err := dataset.ParseRows("clery.csv", []byte(yearlyCSV))
		require.NoError(t, err)
		snap.Name = "clery.csv"
		snap.Offenses = dataset.NormalizeYearly(rows, "clery.csv")
	}
	return snap
}

func TestPrintReportDaily(t *testing.T) {
	rep := buildReport(testSnapshot(t, dataset.Daily), stats.DailyFilters{TopLocations: 3}, stats.YearlyFilters{})

	var buf bytes.Buffer
	printReport(&buf, rep)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "log.csv (daily): 5 records\n"))
	assert.Contains(t, out, "Incident Types Distribution")
	assert.Contains(t, out, "Top 3 Crime Locations")
	assert.Contains(t, out, "Average Incidents Per Hour of the Day")
	assert.Contains(t, out, "$250.00")
	assert.Contains(t, out, "●")
	assert.NotContains(t, out, "Total Offenses by Location and Year")
}

func TestPrintReportYearly(t *testing.T) {
	snap := testSnapshot(t, dataset.Yearly)
	snap.Failed = []string{"broken.csv"}
	rep := buildReport(snap, stats.DailyFilters{}, stats.YearlyFilters{Offense: "Arson"})

	var buf bytes.Buffer
	printReport(&buf, rep)
	out := buf.String()

	assert.Contains(t, out, "Skipped 1 sources: broken.csv")
	assert.Contains(t, out, "Yearly Crime Trends: Arson\n(no data: No yearly data available for the selected offense)")
	assert.Contains(t, out, "Year-over-Year Crime Trends: Residential Facility")
	assert.Contains(t, out, "Year             Total      Change")
	assert.Contains(t, out, "+75.00%")
	assert.Contains(t, out, "Total Offenses by Location and Year")
	assert.Contains(t, out, "All Locations")
}

func TestRenderBars(t *testing.T) {
	total := 15.0
	p := panel{Summary: stats.Summary{
		Title:  "Incident Status Breakdown",
		Keys:   []string{"Closed", "Open"},
		Values: []float64{10, 5},
		Total:  &total,
	}}

	var buf bytes.Buffer
	renderBars(&buf, p)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 6)
	assert.Equal(t, "Incident Status Breakdown", lines[0])
	assert.Equal(t, barWidth, strings.Count(lines[2], "█"))
	assert.Equal(t, barWidth/2, strings.Count(lines[3], "█"))
	assert.Contains(t, lines[5], "Total")
	assert.Contains(t, lines[5], "15")
}

func TestRenderStackedNoData(t *testing.T) {
	var buf bytes.Buffer
	renderStacked(&buf, stats.StackedTotals(nil))
	assert.Equal(t, "Total Offenses by Location and Year\n(no data: No yearly data available)\n", buf.String())
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalepa/campuscrime/dataset"
	"github.com/zalepa/campuscrime/stats"
)

func TestRenderPDF(t *testing.T) {
	rep := buildReport(testSnapshot(t, dataset.Yearly), stats.DailyFilters{}, stats.YearlyFilters{Offense: "Arson"})
	path := filepath.Join(t.TempDir(), "yearly.pdf")

	require.NoError(t, renderPDF(path, rep))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 1000)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderPNGs(t *testing.T) {
	rep := buildReport(testSnapshot(t, dataset.Daily), stats.DailyFilters{TopLocations: 3}, stats.YearlyFilters{})
	dir := filepath.Join(t.TempDir(), "charts")

	files, err := renderPNGs(dir, rep)
	require.NoError(t, err)
	require.Len(t, files, len(rep.panels))
	assert.Equal(t, filepath.Join(dir, "01-incident-types-distribution.png"), files[0])
	for _, f := range files {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestReportPlotsYearly(t *testing.T) {
	rep := buildReport(testSnapshot(t, dataset.Yearly), stats.DailyFilters{}, stats.YearlyFilters{})
	plots, err := reportPlots(rep)
	require.NoError(t, err)
	assert.Len(t, plots, len(rep.panels)+1)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Reports Per Month", "reports-per-month"},
		{"Year-over-Year Crime Trends: Public Property", "year-over-year-crime-trends-public-property"},
		{"Crime Incidents by Location (All Years)", "crime-incidents-by-location-all-years"},
		{"***", "chart"},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/zalepa/campuscrime/stats"
)

var summaryOpts reportOptions

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print dataset summaries in the terminal",
	Long: `Load a dataset (one file or every configured file) and print its summaries:
bar tables for distributions, line charts for series and a sparkline table
for the per-location yearly totals.`,
	Example: `  campuscrime summary --kind daily --file UCLA.csv
  campuscrime summary --crime-type Theft --start 2024-01 --end 2024-12
  campuscrime summary --kind yearly --year 2022 --yoy-location "Public Property"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := summaryOpts.build(cmd.Context())
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), rep)
		return nil
	},
}

func init() {
	summaryOpts.register(summaryCmd)
	rootCmd.AddCommand(summaryCmd)
}

const (
	barWidth   = 40
	labelWidth = 36
)

func printReport(w io.Writer, rep *report) {
	m := rep.meta
	fmt.Fprintf(w, "%s (%s): %s records\n", m.Name, m.Kind, formatInt(int64(m.Records)))
	if len(m.Failed) > 0 {
		fmt.Fprintf(w, "Skipped %d sources: %s\n", len(m.Failed), strings.Join(m.Failed, ", "))
	}
	fmt.Fprintln(w)

	for _, p := range rep.panels {
		switch {
		case !p.OK():
			renderNoData(w, p.Title, p.NoData)
		case p.style == styleLine:
			renderChart(w, p.Title, p.Keys, p.Values)
			if p.percent != nil {
				renderChanges(w, p.Keys, p.Values, p.percent)
			}
		default:
			renderBars(w, p)
		}
		fmt.Fprintln(w)
	}
	if rep.stacked != nil {
		renderStacked(w, *rep.stacked)
		fmt.Fprintln(w)
	}
}

func renderNoData(w io.Writer, title, reason string) {
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "(no data: %s)\n", reason)
}

// renderBars prints one horizontal bar per key, scaled to the largest value.
func renderBars(w io.Writer, p panel) {
	format := formatNum
	if p.style == styleMoney {
		format = formatMoney
	}

	maxVal := 0.0
	maxKey := 10
	for i, k := range p.Keys {
		maxVal = math.Max(maxVal, p.Values[i])
		maxKey = max(maxKey, utf8.RuneCountInString(truncate(k, labelWidth)))
	}

	fmt.Fprintln(w, p.Title)
	fmt.Fprintln(w, strings.Repeat("─", maxKey+2+14+2+barWidth))
	for i, k := range p.Keys {
		n := 0
		if maxVal > 0 {
			n = int(math.Round(p.Values[i] / maxVal * barWidth))
		}
		fmt.Fprintf(w, "%s  %14s  %s\n", padRight(truncate(k, labelWidth), maxKey), format(p.Values[i]), strings.Repeat("█", n))
	}
	if p.Total != nil {
		fmt.Fprintln(w, strings.Repeat("─", maxKey+2+14))
		fmt.Fprintf(w, "%s  %14s\n", padRight("Total", maxKey), format(*p.Total))
	}
}

// renderChanges prints the value and percent change of every key.
func renderChanges(w io.Writer, keys []string, values []float64, changes []*float64) {
	fmt.Fprintf(w, "%-8s  %12s  %10s\n", "Year", "Total", "Change")
	for i, k := range keys {
		var c *float64
		if i < len(changes) {
			c = changes[i]
		}
		fmt.Fprintf(w, "%-8s  %12s  %10s\n", k, formatNum(values[i]), formatPercent(c))
	}
}

// renderStacked prints one sparkline row per location across the years,
// followed by the all-locations total.
func renderStacked(w io.Writer, s stats.Stacked) {
	if !s.OK() {
		renderNoData(w, s.Title, s.NoData)
		return
	}
	nameWidth := len("All Locations")
	for _, loc := range s.Locations {
		nameWidth = max(nameWidth, len(loc.String()))
	}
	n := len(s.Years)

	fmt.Fprintln(w, s.Title)
	fmt.Fprintf(w, "Trend: %s to %s (%d years)\n\n", s.Years[0], s.Years[n-1], n)

	rowFmt := fmt.Sprintf("%%-%ds  %%10s   %%s\n", nameWidth)
	fmt.Fprintf(w, rowFmt, "Location", "Latest", "Trend")
	rule := strings.Repeat("─", nameWidth+2+10+3+max(n, 5))
	fmt.Fprintln(w, rule)

	totals := make([]float64, n)
	for _, loc := range s.Locations {
		vals := s.Series(loc)
		for i, v := range vals {
			totals[i] += v
		}
		fmt.Fprintf(w, rowFmt, loc.String(), formatNum(vals[n-1]), sparkline(vals))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, rowFmt, "All Locations", formatNum(totals[n-1]), sparkline(totals))
}

// renderChart draws a line chart of values against keys with ● at each point
// and · interpolated between them.
func renderChart(w io.Writer, title string, keys []string, values []float64) {
	fmt.Fprintln(w, title)
	nPoints := len(values)
	if nPoints == 0 {
		fmt.Fprintln(w, "(no data)")
		return
	}
	fmt.Fprintln(w)

	height := 15

	// Fit the data area in ~100 columns.
	available := 100 - 10
	colWidth := min(max(available/nPoints, 3), 8)

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	valRange := maxVal - minVal
	if valRange == 0 {
		valRange = 1
		minVal -= 0.5
	}

	// Row 0 is the bottom.
	pointRows := make([]int, nPoints)
	for i, v := range values {
		pointRows[i] = clampRow(int(math.Round((v-minVal)/valRange*float64(height-1))), height)
	}

	totalWidth := nPoints * colWidth
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", totalWidth))
	}

	for i := 0; i < nPoints; i++ {
		col := i*colWidth + colWidth/2
		grid[pointRows[i]][col] = '●'

		if i == nPoints-1 {
			continue
		}
		endCol := (i+1)*colWidth + colWidth/2
		startRow, endRow := pointRows[i], pointRows[i+1]
		for c := col + 1; c < endCol; c++ {
			t := float64(c-col) / float64(endCol-col)
			r := clampRow(int(math.Round(float64(startRow)+t*float64(endRow-startRow))), height)
			if grid[r][c] == ' ' {
				grid[r][c] = '·'
			}
		}
	}

	yLabels := make(map[int]string)
	for i := 0; i < 5; i++ {
		row := int(math.Round(float64(i) / 4.0 * float64(height-1)))
		yLabels[row] = formatCompact(minVal + float64(row)/float64(height-1)*valRange)
	}

	for r := height - 1; r >= 0; r-- {
		fmt.Fprintf(w, "%8s │%s\n", yLabels[r], string(grid[r]))
	}
	fmt.Fprintf(w, "%8s └%s\n", "", strings.Repeat("─", totalWidth))

	// Label every point that has room, skipping the rest.
	labelEvery := 1
	widest := 0
	for _, k := range keys {
		widest = max(widest, len(k))
	}
	if widest >= colWidth {
		labelEvery = (widest + colWidth) / colWidth
	}
	xLine := []byte(strings.Repeat(" ", totalWidth))
	for i := 0; i < nPoints && i < len(keys); i += labelEvery {
		pos := max(i*colWidth+colWidth/2-len(keys[i])/2, 0)
		for j := 0; j < len(keys[i]) && pos+j < totalWidth; j++ {
			xLine[pos+j] = keys[i][j]
		}
	}
	fmt.Fprintf(w, "%8s  %s\n", "", strings.TrimRight(string(xLine), " "))
}

func clampRow(r, height int) int {
	return min(max(r, 0), height-1)
}

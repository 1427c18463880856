package cmd

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/zalepa/campuscrime/stats"
)

const (
	pageWidth  = 8.5 * vg.Inch
	pageHeight = 11 * vg.Inch
	pdfMargin  = 0.75 * vg.Inch

	pngWidth  = 10 * vg.Inch
	pngHeight = 6 * vg.Inch
)

var chartBlue = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// locationColors are used for the stacked per-location bars, in
// dataset.Locations order.
var locationColors = []color.Color{
	chartBlue,
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
}

var (
	chartOpts   reportOptions
	chartPDF    string
	chartPNGDir string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render dataset summaries as a PDF or PNG charts",
	Long: `Render every summary of a dataset as a chart: bars for distributions, lines
for monthly, hourly and yearly series, and stacked bars for the per-location
yearly totals. Summaries without data get a page naming the reason.`,
	Example: `  campuscrime chart --file UCLA.csv --pdf ucla.pdf
  campuscrime chart --kind yearly --png charts/`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if chartPDF == "" && chartPNGDir == "" {
			return fmt.Errorf("one of --pdf or --png is required")
		}
		rep, err := chartOpts.build(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if chartPDF != "" {
			if err := renderPDF(chartPDF, rep); err != nil {
				return fmt.Errorf("write PDF: %w", err)
			}
			fmt.Fprintf(out, "wrote %s\n", chartPDF)
		}
		if chartPNGDir != "" {
			files, err := renderPNGs(chartPNGDir, rep)
			if err != nil {
				return fmt.Errorf("write PNG: %w", err)
			}
			fmt.Fprintf(out, "wrote %d charts to %s\n", len(files), chartPNGDir)
		}
		return nil
	},
}

func init() {
	chartOpts.register(chartCmd)
	chartCmd.Flags().StringVar(&chartPDF, "pdf", "", "output PDF file, one page per summary")
	chartCmd.Flags().StringVar(&chartPNGDir, "png", "", "output directory for one PNG per summary")
	rootCmd.AddCommand(chartCmd)
}

func renderPDF(path string, rep *report) error {
	c := vgpdf.New(pageWidth, pageHeight)
	drawCoverPage(c, rep)

	plots, err := reportPlots(rep)
	if err != nil {
		return err
	}
	for _, p := range plots {
		c.NextPage()
		dc := draw.New(c)
		p.Draw(draw.Crop(dc, pdfMargin, -pdfMargin, pdfMargin, -pdfMargin))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// renderPNGs saves one image per summary into dir and returns the paths.
func renderPNGs(dir string, rep *report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	plots, err := reportPlots(rep)
	if err != nil {
		return nil, err
	}
	var files []string
	for i, p := range plots {
		name := filepath.Join(dir, fmt.Sprintf("%02d-%s.png", i+1, slug(p.Title.Text)))
		if err := p.Save(pngWidth, pngHeight, name); err != nil {
			return files, err
		}
		files = append(files, name)
	}
	return files, nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	s = strings.Trim(slugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if s == "" {
		return "chart"
	}
	return s
}

func reportPlots(rep *report) ([]*plot.Plot, error) {
	var plots []*plot.Plot
	for _, pn := range rep.panels {
		p, err := panelPlot(pn)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pn.Title, err)
		}
		plots = append(plots, p)
	}
	if rep.stacked != nil {
		p, err := stackedPlot(*rep.stacked)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rep.stacked.Title, err)
		}
		plots = append(plots, p)
	}
	return plots, nil
}

func drawCoverPage(c *vgpdf.Canvas, rep *report) {
	dc := draw.New(c)
	area := draw.Crop(dc, pdfMargin, -pdfMargin, pdfMargin, -pdfMargin)
	m := rep.meta

	y := area.Max.Y - vg.Points(16)
	fillText(area, m.Name, vg.Points(16), area.Min.X, y, color.Black)
	y -= 0.35 * vg.Inch
	fillText(area, fmt.Sprintf("%s dataset, %s records", m.Kind, formatInt(int64(m.Records))), vg.Points(10), area.Min.X, y, color.Gray{Y: 100})

	y -= 0.4 * vg.Inch
	strokeHLine(area, area.Min.X, area.Max.X, y, color.Gray{Y: 180})
	for _, pn := range rep.panels {
		y -= 0.3 * vg.Inch
		fillText(area, pn.Title, vg.Points(10), area.Min.X, y, color.Black)
		if !pn.OK() {
			fillText(area, pn.NoData, vg.Points(9), area.Min.X+4*vg.Inch, y, color.Gray{Y: 120})
		}
	}
	if len(m.Failed) > 0 {
		y -= 0.5 * vg.Inch
		fillText(area, fmt.Sprintf("Skipped sources: %s", strings.Join(m.Failed, ", ")), vg.Points(9), area.Min.X, y, color.Gray{Y: 100})
	}
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.BackgroundColor = color.White
	return p
}

// noDataPlot shows the reason a summary is empty in place of a chart.
func noDataPlot(title, reason string) (*plot.Plot, error) {
	p := newPlot(title)
	p.HideAxes()
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: 0.05, Y: 0.5}},
		Labels: []string{reason},
	})
	if err != nil {
		return nil, err
	}
	p.Add(labels)
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	return p, nil
}

func panelPlot(pn panel) (*plot.Plot, error) {
	if !pn.OK() {
		return noDataPlot(pn.Title, pn.NoData)
	}
	if pn.style == styleLine {
		return linePlot(pn)
	}
	return barPlot(pn)
}

func barPlot(pn panel) (*plot.Plot, error) {
	p := newPlot(pn.Title)
	if pn.Total != nil {
		p.Title.Text += " (Total " + formatMoney(*pn.Total) + ")"
	}

	width := (pageWidth - 2*pdfMargin) * 0.6 / vg.Length(len(pn.Values))
	bars, err := plotter.NewBarChart(plotter.Values(pn.Values), width)
	if err != nil {
		return nil, err
	}
	bars.Color = chartBlue
	bars.LineStyle.Width = 0
	p.Add(bars, plotter.NewGrid())

	labels := make([]string, len(pn.Keys))
	for i, k := range pn.Keys {
		labels[i] = truncate(k, 28)
	}
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	p.Y.Tick.Marker = numTicks{}
	return p, nil
}

func linePlot(pn panel) (*plot.Plot, error) {
	pts := make(plotter.XYs, len(pn.Values))
	for i, v := range pn.Values {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}

	p := newPlot(pn.Title)
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = chartBlue
	line.Width = vg.Points(2)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	scatter.Color = chartBlue
	scatter.Radius = vg.Points(3)
	scatter.Shape = draw.CircleGlyph{}

	p.Add(line, scatter, plotter.NewGrid())

	if pn.percent != nil {
		changes := make([]string, len(pts))
		for i := range changes {
			if i < len(pn.percent) && pn.percent[i] != nil {
				changes[i] = formatPercent(pn.percent[i])
			}
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: changes})
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	p.X.Tick.Marker = keyTicks(pn.Keys)
	p.X.Min = -0.5
	p.X.Max = float64(len(pn.Keys)) - 0.5
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Tick.Marker = numTicks{}
	return p, nil
}

// stackedPlot draws one bar per year with the locations stacked on top of
// each other.
func stackedPlot(s stats.Stacked) (*plot.Plot, error) {
	if !s.OK() {
		return noDataPlot(s.Title, s.NoData)
	}
	p := newPlot(s.Title)
	p.Legend.Top = true

	width := (pageWidth - 2*pdfMargin) * 0.6 / vg.Length(len(s.Years))
	var below *plotter.BarChart
	for i, loc := range s.Locations {
		bars, err := plotter.NewBarChart(plotter.Values(s.Series(loc)), width)
		if err != nil {
			return nil, err
		}
		bars.Color = locationColors[i%len(locationColors)]
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(loc.String(), bars)
		below = bars
	}
	p.Add(plotter.NewGrid())
	p.NominalX(s.Years...)
	p.Y.Min = 0
	p.Y.Tick.Marker = numTicks{}
	return p, nil
}

// keyTicks labels at most a dozen evenly spaced keys.
type keyTicks []string

func (kt keyTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	n := len(kt)
	step := 1
	if n > 12 {
		step = (n + 11) / 12
	}
	for i := 0; i < n; i++ {
		t := plot.Tick{Value: float64(i)}
		if i%step == 0 {
			t.Label = kt[i]
		}
		ticks = append(ticks, t)
	}
	return ticks
}

type numTicks struct{}

func (numTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = formatCompact(ticks[i].Value)
		}
	}
	return ticks
}

func fillText(c draw.Canvas, txt string, size vg.Length, x, y vg.Length, clr color.Color) {
	sty := draw.TextStyle{
		Color:   clr,
		Font:    plot.DefaultFont,
		Handler: plot.DefaultTextHandler,
	}
	sty.Font.Size = size
	c.FillText(sty, vg.Point{X: x, Y: y}, txt)
}

func strokeHLine(c draw.Canvas, x0, x1, y vg.Length, clr color.Color) {
	c.StrokeLine2(draw.LineStyle{
		Color: clr,
		Width: vg.Points(0.5),
	}, x0, y, x1, y)
}

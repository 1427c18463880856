package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

const overviewSheet = "Overview"

var (
	exportOpts reportOptions
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export dataset summaries to an XLSX workbook",
	Long: `Write every summary of a dataset to its own sheet of an XLSX workbook, with an
overview sheet listing the dataset, its record count and any summary that
had no data.`,
	Example: `  campuscrime export --file UCLA.csv -o ucla.xlsx
  campuscrime export --kind yearly -o yearly.xlsx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := exportOpts.build(cmd.Context())
		if err != nil {
			return err
		}
		f, err := buildWorkbook(rep)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := f.SaveAs(exportOut); err != nil {
			return fmt.Errorf("save %s: %w", exportOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", exportOut)
		return nil
	},
}

func init() {
	exportOpts.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "summaries.xlsx", "output workbook")
	rootCmd.AddCommand(exportCmd)
}

func buildWorkbook(rep *report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", overviewSheet); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	w := &sheetWriter{f: f, bold: bold, used: map[string]bool{overviewSheet: true}}

	m := rep.meta
	w.sheet = overviewSheet
	w.row([]any{"Dataset", m.Name}, true)
	w.row([]any{"Kind", m.Kind}, false)
	w.row([]any{"Records", m.Records}, false)
	if len(m.Failed) > 0 {
		w.row([]any{"Skipped sources", strings.Join(m.Failed, ", ")}, false)
	}
	w.row(nil, false)
	w.row([]any{"Summary", "Points", "Note"}, true)
	for _, p := range rep.panels {
		w.row([]any{p.Title, p.Len(), p.NoData}, false)
	}
	w.width("A", 40)
	w.width("C", 40)

	for _, p := range rep.panels {
		w.newSheet(p.Title)
		if !p.OK() {
			w.row([]any{p.Title}, true)
			w.row([]any{p.NoData}, false)
			continue
		}
		header := []any{"Key", "Value"}
		if p.percent != nil {
			header = append(header, "Change %")
		}
		w.row(header, true)
		for i, k := range p.Keys {
			r := []any{k, p.Values[i]}
			if p.percent != nil {
				if i < len(p.percent) && p.percent[i] != nil {
					r = append(r, *p.percent[i])
				} else {
					r = append(r, "")
				}
			}
			w.row(r, false)
		}
		if p.Total != nil {
			w.row([]any{"Total", *p.Total}, true)
		}
		w.width("A", 40)
	}

	if s := rep.stacked; s != nil {
		w.newSheet(s.Title)
		if !s.OK() {
			w.row([]any{s.Title}, true)
			w.row([]any{s.NoData}, false)
		} else {
			header := []any{"Year"}
			for _, loc := range s.Locations {
				header = append(header, loc.String())
			}
			w.row(header, true)
			for i, y := range s.Years {
				r := []any{y}
				for _, loc := range s.Locations {
					r = append(r, s.Totals[i][loc])
				}
				w.row(r, false)
			}
		}
	}

	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// sheetWriter appends rows to the current sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	bold  int
	sheet string
	next  int
	used  map[string]bool
	err   error
}

func (w *sheetWriter) newSheet(title string) {
	if w.err != nil {
		return
	}
	name := sheetName(title, w.used)
	w.used[name] = true
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = err
		return
	}
	w.sheet = name
	w.next = 0
}

func (w *sheetWriter) row(values []any, bold bool) {
	if w.err != nil {
		return
	}
	w.next++
	if len(values) == 0 {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = err
		return
	}
	if bold {
		end, _ := excelize.CoordinatesToCellName(len(values), w.next)
		w.err = w.f.SetCellStyle(w.sheet, cell, end, w.bold)
	}
}

func (w *sheetWriter) width(col string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(w.sheet, col, col, width)
}

// sheetName turns a summary title into a unique sheet name: at most 31
// characters and none of the characters Excel rejects.
func sheetName(title string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, title)
	name = strings.TrimSpace(truncateRunes(name, 31))
	if name == "" {
		name = "Sheet"
	}
	base := name
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, 31-len(suffix)) + suffix
	}
	return name
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

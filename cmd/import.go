package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zalepa/campuscrime/crimelog"
	"github.com/zalepa/campuscrime/dataset"
)

var (
	importCSV    string
	importOutDir string
)

var importCmd = &cobra.Command{
	Use:   "import <input.pdf | directory>",
	Short: "Convert PDF daily crime logs to CSV",
	Long: `Read a PDF daily crime log (or every *.pdf in a directory), extract its
incident lines and write them as a daily dataset CSV with the columns
Case Number, Incident Type, Date/Time Reported, Date/Time Occurred,
Location and Disposition.

Output files are written next to each PDF unless --output is given.`,
	Example: `  campuscrime import log-2025-01.pdf
  campuscrime import logs/ --output data/daily`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		info, err := os.Stat(input)
		if err != nil {
			return err
		}
		errOut := cmd.ErrOrStderr()

		if !info.IsDir() {
			out := importCSV
			if out == "" {
				out = outputPath(input, importOutDir)
			}
			return importPDF(input, out, errOut)
		}

		pdfs, err := filepath.Glob(filepath.Join(input, "*.pdf"))
		if err != nil {
			return fmt.Errorf("glob directory: %w", err)
		}
		if len(pdfs) == 0 {
			return fmt.Errorf("no PDF files found in %s", input)
		}
		failed := 0
		for _, pdf := range pdfs {
			if err := importPDF(pdf, outputPath(pdf, importOutDir), errOut); err != nil {
				fmt.Fprintf(errOut, "%s: %v\n", filepath.Base(pdf), err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(pdfs))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSV, "csv", "", "output CSV file (single file mode only)")
	importCmd.Flags().StringVarP(&importOutDir, "output", "o", "", "output directory (default: next to each PDF)")
	rootCmd.AddCommand(importCmd)
}

// outputPath is the CSV written for a PDF: same base name, in dir or next to
// the input.
func outputPath(input, dir string) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+".csv")
}

func importPDF(input, out string, errOut io.Writer) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	lines, err := crimelog.Lines(data)
	if err != nil {
		return fmt.Errorf("extract PDF text: %w", err)
	}
	entries := crimelog.Parse(lines)
	if len(entries) == 0 {
		return fmt.Errorf("no incident lines among %d lines of text", len(lines))
	}

	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := writeEntriesCSV(out, entries); err != nil {
		return fmt.Errorf("write CSV: %w", err)
	}

	valid := len(dataset.NormalizeDaily(crimelog.Rows(entries), filepath.Base(out)))
	fmt.Fprintf(errOut, "%s: %d lines, %d entries, %d loadable → %s\n",
		filepath.Base(input), len(lines), len(entries), valid, out)
	return nil
}

func writeEntriesCSV(path string, entries []crimelog.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(crimelog.Header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Write(e.Record()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

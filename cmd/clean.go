package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zalepa/campuscrime/cleaner"
)

var (
	cleanOutDir     string
	cleanInPlace    bool
	cleanDedupe     []string
	cleanYes        bool
	cleanTimeCols   []string
	cleanTitleCols  []string
	cleanMaxEmpty   int
	cleanMinHeaders int
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>...",
	Short: "Tidy crime log exports before loading them",
	Long: `Clean delimited crime log exports: drop page headers and footers, repeated
header rows and blank rows, merge rows that were split across lines, format
compact times (906 -> 9:06), title-case ALL-CAPS text and standardize
dispositions.

With --dedupe, spellings of the same value in the named columns
("Main Library" / "MAIN LIBRARY BLDG") are offered for merging.`,
	Example: `  campuscrime clean raw/UCLA.csv --output data/daily
  campuscrime clean raw/*.csv --in-place --dedupe Location`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cleaner.DefaultOptions()
		if cmd.Flags().Changed("time-columns") {
			opts.TimeColumns = cleanTimeCols
		}
		if cmd.Flags().Changed("title-columns") {
			opts.TitleColumns = cleanTitleCols
		}
		if cmd.Flags().Changed("max-empty") {
			opts.MaxEmpty = cleanMaxEmpty
		}
		if cmd.Flags().Changed("min-header-matches") {
			opts.MinHeaderMatches = cleanMinHeaders
		}
		if !cleanInPlace {
			if err := os.MkdirAll(cleanOutDir, 0o755); err != nil {
				return err
			}
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		errOut := cmd.ErrOrStderr()
		failed := 0
		for _, path := range args {
			if err := cleanFile(path, opts, scanner, errOut); err != nil {
				fmt.Fprintf(errOut, "%s: %v\n", filepath.Base(path), err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	fs := cleanCmd.Flags()
	fs.StringVarP(&cleanOutDir, "output", "o", "cleaned", "output directory")
	fs.BoolVar(&cleanInPlace, "in-place", false, "overwrite the input files")
	fs.StringSliceVar(&cleanDedupe, "dedupe", nil, "columns whose spelling variants are offered for merging")
	fs.BoolVarP(&cleanYes, "yes", "y", false, "accept every proposed merge without asking")
	fs.StringSliceVar(&cleanTimeCols, "time-columns", nil, "columns to format times in (default: columns named date or time)")
	fs.StringSliceVar(&cleanTitleCols, "title-columns", nil, "columns to title-case when ALL CAPS")
	fs.IntVar(&cleanMaxEmpty, "max-empty", 2, "empty cells allowed before a row is merged into the previous one (-1 disables)")
	fs.IntVar(&cleanMinHeaders, "min-header-matches", 2, "cells that must equal a header name for a row to be a repeated header")
	rootCmd.AddCommand(cleanCmd)
}

func cleanFile(path string, opts cleaner.Options, scanner *bufio.Scanner, errOut io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	t, err := cleaner.Read(data)
	if err != nil {
		return err
	}
	before := len(t.Rows)
	cleaned, rep := cleaner.Clean(t, opts)

	renamed := 0
	for _, col := range cleanDedupe {
		idx := cleaned.Column(col)
		if idx < 0 {
			fmt.Fprintf(errOut, "%s: no column %q to dedupe\n", filepath.Base(path), col)
			continue
		}
		merges := promptMerges(scanner, errOut, col, cleaner.FindVariants(cleaned, idx), cleanYes)
		renamed += cleaner.ApplyVariants(cleaned, idx, merges)
	}

	var buf bytes.Buffer
	if err := cleaner.Write(&buf, cleaned); err != nil {
		return err
	}
	out := path
	if !cleanInPlace {
		out = filepath.Join(cleanOutDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".csv")
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}

	fmt.Fprintf(errOut, "%s: %d → %d rows%s → %s\n",
		filepath.Base(path), before, len(cleaned.Rows), describeReport(rep, renamed), out)
	return nil
}

// describeReport lists the non-zero counters of rep.
func describeReport(rep cleaner.Report, renamed int) string {
	var parts []string
	add := func(n int, what string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, what))
		}
	}
	add(rep.Blank, "blank")
	add(rep.Metadata, "metadata")
	add(rep.Headers, "repeated headers")
	add(rep.Merged, "merged")
	add(rep.Times, "times")
	add(rep.Recased, "recased")
	add(rep.Dispositions, "dispositions")
	add(renamed, "renamed")
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// promptMerges asks, for every variant, whether to merge it into its keeper.
// Answering "a" accepts the current and every remaining variant. It returns
// the accepted merges as replaced spelling -> keeper.
func promptMerges(scanner *bufio.Scanner, w io.Writer, column string, variants []cleaner.Variant, acceptAll bool) map[string]string {
	merges := make(map[string]string)
	for _, v := range variants {
		if acceptAll {
			fmt.Fprintf(w, "  %s: %s (%d) → %s (%d)\n", column, v.Replace, v.ReplaceCount, v.Keep, v.KeepCount)
			merges[v.Replace] = v.Keep
			continue
		}

		fmt.Fprintf(w, "\nPossible duplicate %s:\n", strings.ToLower(column))
		fmt.Fprintf(w, "  %-40s %s\n", v.Keep, formatRows(v.KeepCount))
		fmt.Fprintf(w, "  %-40s %s\n", v.Replace, formatRows(v.ReplaceCount))
		fmt.Fprintf(w, "Merge %q → %q? [y/N/a(ll)]: ", v.Replace, v.Keep)

		if !scanner.Scan() {
			break
		}
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "a", "all":
			acceptAll = true
			merges[v.Replace] = v.Keep
		case "y", "yes":
			merges[v.Replace] = v.Keep
		}
	}
	return merges
}

func formatRows(n int) string {
	if n == 1 {
		return "1 row"
	}
	return fmt.Sprintf("%s rows", formatInt(int64(n)))
}

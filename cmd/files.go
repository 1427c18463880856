package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zalepa/campuscrime/dataset"
)

var filesCheck bool

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the configured dataset files",
	Long: `List the daily and yearly dataset files that "Combine All Files" merges.
With --check each file is resolved through the configured locations and
reported as found or missing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var r dataset.Resolver
		if filesCheck {
			r = newLoader(cfg, appLog).Resolver
		}
		out := cmd.OutOrStdout()
		for _, kind := range []dataset.Kind{dataset.Daily, dataset.Yearly} {
			if err := listFiles(cmd, out, r, kind, cfg.Files(string(kind))); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	filesCmd.Flags().BoolVar(&filesCheck, "check", false, "resolve every file and report whether it was found")
	rootCmd.AddCommand(filesCmd)
}

func listFiles(cmd *cobra.Command, w io.Writer, r dataset.Resolver, kind dataset.Kind, names []string) error {
	fmt.Fprintf(w, "%s (%d files)\n", kind, len(names))
	for _, name := range names {
		if r == nil {
			fmt.Fprintf(w, "  %s\n", name)
			continue
		}
		status := "ok"
		if _, err := r.Resolve(cmd.Context(), kind, name); err != nil {
			if cmd.Context().Err() != nil {
				return cmd.Context().Err()
			}
			status = "missing: " + err.Error()
		}
		fmt.Fprintf(w, "  %-40s %s\n", name, status)
	}
	fmt.Fprintln(w)
	return nil
}

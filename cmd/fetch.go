package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zalepa/campuscrime/dataset"
)

var (
	fetchDir   string
	fetchKinds []string
	fetchForce bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [file]...",
	Short: "Download configured dataset files into a local data directory",
	Long: `Resolve dataset files through the configured locations (directories and
http(s) base URLs, tried in order) and save them under <dir>/<kind>/<name>.
Files that already exist locally are skipped unless --force is given.

Without file arguments every configured file of the selected kinds is
fetched.`,
	Example: `  campuscrime fetch --location https://example.edu/crime-data --dir data
  campuscrime fetch --kind yearly GCU.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var kinds []dataset.Kind
		for _, k := range fetchKinds {
			kind, err := dataset.ParseKind(k)
			if err != nil {
				return err
			}
			kinds = append(kinds, kind)
		}

		resolver := newLoader(cfg, appLog).Resolver
		var total fetchCounts
		for _, kind := range kinds {
			names := args
			if len(names) == 0 {
				names = cfg.Files(string(kind))
			}
			c, err := fetchKind(cmd.Context(), resolver, kind, names, fetchDir, fetchForce, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			total.add(c)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Done: %d downloaded, %d skipped, %d failed\n", total.downloaded, total.skipped, total.failed)
		if total.failed > 0 {
			return fmt.Errorf("%d files could not be fetched", total.failed)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchDir, "dir", "d", "data", "output data directory")
	fetchCmd.Flags().StringSliceVarP(&fetchKinds, "kind", "k", []string{string(dataset.Daily), string(dataset.Yearly)}, "dataset kinds to fetch")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "overwrite files that already exist")
	rootCmd.AddCommand(fetchCmd)
}

type fetchCounts struct {
	downloaded, skipped, failed int
}

func (c *fetchCounts) add(o fetchCounts) {
	c.downloaded += o.downloaded
	c.skipped += o.skipped
	c.failed += o.failed
}

// fetchKind saves every name of kind under dir/kind. Per-file failures are
// reported and counted; only a cancelled context or an unwritable directory
// stops the run.
func fetchKind(ctx context.Context, r dataset.Resolver, kind dataset.Kind, names []string, dir string, force bool, log io.Writer) (fetchCounts, error) {
	var c fetchCounts
	outDir := filepath.Join(dir, string(kind))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return c, fmt.Errorf("create output directory: %w", err)
	}

	for _, name := range names {
		if err := dataset.ValidateName(name); err != nil {
			fmt.Fprintf(log, "skip %v\n", err)
			c.failed++
			continue
		}
		outPath := filepath.Join(outDir, name)
		if _, err := os.Stat(outPath); err == nil && !force {
			fmt.Fprintf(log, "skip %s/%s (already exists)\n", kind, name)
			c.skipped++
			continue
		}

		data, err := r.Resolve(ctx, kind, name)
		if err != nil {
			if ctx.Err() != nil {
				return c, ctx.Err()
			}
			if errors.Is(err, dataset.ErrNotFound) {
				fmt.Fprintf(log, "missing %s/%s (not found in any location)\n", kind, name)
			} else {
				fmt.Fprintf(log, "error fetching %s/%s: %v\n", kind, name, err)
			}
			c.failed++
			continue
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			fmt.Fprintf(log, "error writing %s: %v\n", outPath, err)
			c.failed++
			continue
		}
		fmt.Fprintf(log, "fetched %s/%s (%s bytes)\n", kind, name, formatInt(int64(len(data))))
		c.downloaded++
	}
	return c, nil
}

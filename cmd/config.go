package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zalepa/campuscrime/config"
)

const banner = "═══════════════════════════════════════════════════════════"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the campuscrime configuration",
	Long: `Manage campuscrime configuration.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CAMPUSCRIME_*, also read from .env)
3. Config file (./campuscrime.yaml or ~/.campuscrime/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if f := v.ConfigFileUsed(); f != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", f)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
		}
		return showConfig(cmd.OutOrStdout(), cfg)
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Long:  `Write the default configuration to ~/.campuscrime/config.yaml, or to path.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("find home directory: %w", err)
			}
			path = filepath.Join(home, ".campuscrime", "config.yaml")
		}
		if err := initConfigFile(path, configInitForce); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created default configuration: %s\n", path)
		fmt.Fprintf(out, "\nTo view the effective configuration:\n  campuscrime config show --config %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func showConfig(w io.Writer, c config.Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "  Current Configuration")
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w)
	fmt.Fprintln(w, string(data))
	fmt.Fprintln(w, banner)
	return nil
}

// initConfigFile writes the defaults as commented YAML to path.
func initConfigFile(path string, force bool) (err error) {
	if _, statErr := os.Stat(path); statErr == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	header := "# campuscrime configuration\n" +
		"#\n" +
		"# Every key can be overridden with a CAMPUSCRIME_* environment variable,\n" +
		"# dots replaced by underscores (http.rate -> CAMPUSCRIME_HTTP_RATE).\n" +
		"#\n" +
		"# locations are tried in order; each is a directory or an http(s) base\n" +
		"# URL holding <kind>/<file>.\n\n"
	if _, err := io.WriteString(f, header); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

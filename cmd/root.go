package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zalepa/campuscrime/config"
	"github.com/zalepa/campuscrime/dataset"
	"github.com/zalepa/campuscrime/logger"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool

	v         = viper.New()
	cfg       = config.Default()
	appLog    = logger.Discard()
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "campuscrime",
	Short: "Campus crime statistics from university crime logs",
	Long: `campuscrime loads per-university crime datasets (daily incident logs and
yearly Clery offense tallies), normalizes them and turns them into
summaries: incident types, monthly reports, top locations, weekday and
hourly patterns, dispositions, property values, yearly trends and
location comparisons.

Summaries can be printed, charted to PDF/PNG, exported to XLSX or served
as a JSON dashboard.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		c, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = c
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		appLog = logger.New(level, cfg.Log.Format)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "campuscrime %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./campuscrime.yaml or $HOME/.campuscrime/config.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json (default: text locally, json when ENVIRONMENT is set)")
	pf.StringSlice("location", nil, "dataset location, directory or http(s) base URL (repeatable)")
	pf.Int("concurrency", 0, "sources loaded in parallel in combined mode")

	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = v.BindPFlag("locations", pf.Lookup("location"))
	_ = v.BindPFlag("concurrency", pf.Lookup("concurrency"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig layers .env, the config file and CAMPUSCRIME_* variables onto
// the defaults.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	config.SetDefaults(v)
	config.BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("campuscrime")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".campuscrime"))
		}
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
		}
	case errors.As(err, &notFound) && cfgFile == "":
	default:
		configErr = fmt.Errorf("read config: %w", err)
	}
}

// newLoader builds a dataset loader over the configured locations.
func newLoader(c config.Config, log *logger.Logger) *dataset.Loader {
	resolver := dataset.NewResolver(c.Locations, dataset.ResolverOptions{
		Timeout: c.HTTP.Timeout,
		Retries: c.HTTP.Retries,
		Rate:    c.HTTP.Rate,
		Log:     log.Component("resolver"),
	})
	return &dataset.Loader{
		Resolver: resolver,
		Files: map[dataset.Kind][]string{
			dataset.Daily:  c.DailyFiles,
			dataset.Yearly: c.YearlyFiles,
		},
		Concurrency: c.Concurrency,
		Log:         log.Component("loader"),
	}
}

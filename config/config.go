// Package config holds the campuscrime settings and their defaults. Values are
// layered by viper: defaults, then the YAML config file, then CAMPUSCRIME_*
// environment variables (optionally from a .env file), then CLI flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. CAMPUSCRIME_LOG_LEVEL.
const EnvPrefix = "CAMPUSCRIME"

type Config struct {
	// Locations are tried in order when resolving a dataset file. Each entry
	// is a directory or an http(s) base URL; the file lives at
	// <location>/<kind>/<name>.
	Locations    []string    `mapstructure:"locations" yaml:"locations"`
	DailyFiles   []string    `mapstructure:"daily_files" yaml:"daily_files"`
	YearlyFiles  []string    `mapstructure:"yearly_files" yaml:"yearly_files"`
	Concurrency  int         `mapstructure:"concurrency" yaml:"concurrency"`
	TopLocations int         `mapstructure:"top_locations" yaml:"top_locations"`
	HTTP         HTTPConfig  `mapstructure:"http" yaml:"http"`
	Cache        CacheConfig `mapstructure:"cache" yaml:"cache"`
	Web          WebConfig   `mapstructure:"web" yaml:"web"`
	Log          LogConfig   `mapstructure:"log" yaml:"log"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retries uint64        `mapstructure:"retries" yaml:"retries"`
	// Rate is the maximum number of requests per second against remote
	// locations. Zero disables limiting.
	Rate float64 `mapstructure:"rate" yaml:"rate"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultDailyFiles are the daily crime log datasets shipped with the dashboard.
var DefaultDailyFiles = []string{
	"ArizonaStateUniversity.csv",
	"BostonUniversity.csv",
	"DrexelUniversity.csv",
	"EmoryUniversity.csv",
	"FIU.csv",
	"GeorgiaTech.csv",
	"HarvardUniversity.csv",
	"IndianaUniversity.csv",
	"MichiganStateUniversity.csv",
	"NortheasternUniversity.csv",
	"NYU.csv",
	"OhioState.csv",
	"PennState.csv",
	"PrincetonUniversity.csv",
	"PurdueUniversity.csv",
	"QuinnipiacUniversity.csv",
	"RutgersUniversity.csv",
	"TempleUniversity.csv",
	"TexasA&M.csv",
	"UCDavis.csv",
	"UCRiverside.csv",
	"UChicago.csv",
	"UniversityOfCincinnatti.csv",
	"UCLA.csv",
	"UCSD.csv",
	"UniversityOfFlorida.csv",
	"UMich.csv",
	"UniversityOfArizona.csv",
	"UniversityOfMinnesota.csv",
	"UniversityOfNewMexico.csv",
	"UniversityOfWashington.csv",
	"UPenn.csv",
	"USC.csv",
	"UniversityOfVirginia.csv",
	"VirginiaTech.csv",
	"UniversityOfWisconsin-Madison.csv",
}

// DefaultYearlyFiles are the yearly (Clery) offense tally datasets.
var DefaultYearlyFiles = []string{
	"BentleyUniversity.csv",
	"GCU.csv",
	"GeorgiaState.csv",
	"ProvidenceCollege.csv",
	"StanfordUniversity.csv",
	"UMiami.csv",
	"UniversityOfColorado.csv",
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Locations:    []string{"data", "./data", "../data"},
		DailyFiles:   append([]string(nil), DefaultDailyFiles...),
		YearlyFiles:  append([]string(nil), DefaultYearlyFiles...),
		Concurrency:  8,
		TopLocations: 15,
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
			Retries: 3,
			Rate:    5,
		},
		Cache: CacheConfig{TTL: 10 * time.Minute},
		Web:   WebConfig{Addr: ":8080"},
		Log:   LogConfig{Level: "info"},
	}
}

// SetDefaults registers every default with v so that env overrides work for
// keys that never appear in a config file.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("locations", d.Locations)
	v.SetDefault("daily_files", d.DailyFiles)
	v.SetDefault("yearly_files", d.YearlyFiles)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("top_locations", d.TopLocations)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.retries", d.HTTP.Retries)
	v.SetDefault("http.rate", d.HTTP.Rate)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("web.addr", d.Web.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// BindEnv wires CAMPUSCRIME_* variables, with dots in keys mapped to
// underscores (http.rate -> CAMPUSCRIME_HTTP_RATE).
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that would make loading impossible.
func (c Config) Validate() error {
	if len(c.Locations) == 0 {
		return fmt.Errorf("config: at least one location is required")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("config: concurrency must be >= 1, got %d", c.Concurrency)
	}
	if c.TopLocations < 1 {
		return fmt.Errorf("config: top_locations must be >= 1, got %d", c.TopLocations)
	}
	if c.HTTP.Rate < 0 {
		return fmt.Errorf("config: http.rate must not be negative")
	}
	return nil
}

// Files returns the configured dataset list for a kind ("daily" or "yearly").
func (c Config) Files(kind string) []string {
	if kind == "yearly" {
		return c.YearlyFiles
	}
	return c.DailyFiles
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keibalab/oddsget/internal/config"
	"github.com/keibalab/oddsget/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile        string
	logLevel       string
	logFormat      string
	timeoutSeconds int
	userAgent      string
)

var rootCmd = &cobra.Command{
	Use:   "oddsget",
	Short: "Race entry and betting odds scraper for netkeiba",
	Long: `oddsget downloads a race's entry table and the betting odds for every
bet type (win, place, bracket quinella, quinella, quinella place, exacta,
trio, trifecta) and saves them as JSON and CSV.

Odds come from the JRA odds API when it answers, from the per-type odds
pages otherwise, and from the overseas odds pages as a last resort. Trio
and trifecta odds are assembled by scanning every pivot runner.`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file (optional)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Scraper overrides
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 0,
		"Override HTTP timeout in seconds")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "",
		"Override the User-Agent header")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel       string
	LogFormat      string
	TimeoutSeconds int
	UserAgent      string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:       logLevel,
		LogFormat:      logFormat,
		TimeoutSeconds: timeoutSeconds,
		UserAgent:      userAgent,
	}
}

// loadConfigAndLogger loads the configuration, applies CLI overrides,
// validates it and builds the logger. Shared by every subcommand.
func loadConfigAndLogger() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.TimeoutSeconds, overrides.UserAgent)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

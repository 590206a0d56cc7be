// Package config provides configuration structures and loading for oddsget.
package config

// Config represents the complete application configuration.
type Config struct {
	Scraper ScraperConfig `yaml:"scraper" mapstructure:"scraper"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// ScraperConfig represents fetch settings for the racing site.
type ScraperConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	APIURL         string `yaml:"api_url" mapstructure:"api_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent" mapstructure:"user_agent"`
	AcceptLanguage string `yaml:"accept_language" mapstructure:"accept_language"`
}

// OutputConfig represents default output locations and formatting.
type OutputConfig struct {
	JSONPath   string `yaml:"json_path" mapstructure:"json_path"`
	CSVDir     string `yaml:"csv_dir" mapstructure:"csv_dir"`
	BatchDir   string `yaml:"batch_dir" mapstructure:"batch_dir"`
	JSONIndent int    `yaml:"json_indent" mapstructure:"json_indent"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// Chrome user agent keeps the site from serving the legacy mobile markup.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// DefaultConfig returns a Config populated with working defaults. A config
// file is optional; the defaults alone are enough to run against the live
// site.
func DefaultConfig() *Config {
	return &Config{
		Scraper: ScraperConfig{
			BaseURL:        "https://race.netkeiba.com",
			APIURL:         "https://race.netkeiba.com/api/api_get_jra_odds.html",
			TimeoutSeconds: 20,
			UserAgent:      defaultUserAgent,
			AcceptLanguage: "ja,en-US;q=0.9,en;q=0.8",
		},
		Output: OutputConfig{
			JSONPath:   "race_data.json",
			BatchDir:   "out/batch",
			JSONIndent: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// ApplyOverrides applies non-zero CLI flag values over the loaded config.
func (c *Config) ApplyOverrides(logLevel, logFormat string, timeoutSeconds int, userAgent string) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if timeoutSeconds > 0 {
		c.Scraper.TimeoutSeconds = timeoutSeconds
	}
	if userAgent != "" {
		c.Scraper.UserAgent = userAgent
	}
}

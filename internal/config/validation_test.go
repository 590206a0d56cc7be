package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ScraperErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "missing base url",
			mutate: func(c *Config) { c.Scraper.BaseURL = "" },
			field:  "scraper.base_url",
		},
		{
			name:   "bad base url scheme",
			mutate: func(c *Config) { c.Scraper.BaseURL = "ftp://example.com" },
			field:  "scraper.base_url",
		},
		{
			name:   "base url without host",
			mutate: func(c *Config) { c.Scraper.BaseURL = "https://" },
			field:  "scraper.base_url",
		},
		{
			name:   "bad api url",
			mutate: func(c *Config) { c.Scraper.APIURL = "not a url at all\x7f" },
			field:  "scraper.api_url",
		},
		{
			name:   "zero timeout",
			mutate: func(c *Config) { c.Scraper.TimeoutSeconds = 0 },
			field:  "scraper.timeout_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			found := false
			for _, ve := range verrs {
				if ve.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected error on field %s, got %v", tt.field, err)
		})
	}
}

func TestValidate_OutputAndLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.JSONIndent = -1
	cfg.Logging.Level = "verbose"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.Contains(t, err.Error(), "output.json_indent")
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestValidationErrors_EmptyMessage(t *testing.T) {
	assert.Empty(t, ValidationErrors{}.Error())
}

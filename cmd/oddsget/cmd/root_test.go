package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigFile(t *testing.T) {
	// Save original value and restore after test
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()

	tests := []struct {
		name     string
		cfgValue string
		want     string
	}{
		{
			name:     "no config file",
			cfgValue: "",
			want:     "",
		},
		{
			name:     "custom config file",
			cfgValue: "/path/to/oddsget.yaml",
			want:     "/path/to/oddsget.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile = tt.cfgValue
			assert.Equal(t, tt.want, GetConfigFile())
		})
	}
}

func TestGetCLIOverrides(t *testing.T) {
	// Save original values and restore after test
	originalLogLevel := logLevel
	originalLogFormat := logFormat
	originalTimeout := timeoutSeconds
	originalUserAgent := userAgent
	defer func() {
		logLevel = originalLogLevel
		logFormat = originalLogFormat
		timeoutSeconds = originalTimeout
		userAgent = originalUserAgent
	}()

	logLevel = "debug"
	logFormat = "json"
	timeoutSeconds = 45
	userAgent = "custom-agent"

	overrides := GetCLIOverrides()
	assert.Equal(t, "debug", overrides.LogLevel)
	assert.Equal(t, "json", overrides.LogFormat)
	assert.Equal(t, 45, overrides.TimeoutSeconds)
	assert.Equal(t, "custom-agent", overrides.UserAgent)
}

func TestRootCommandStructure(t *testing.T) {
	assert.Equal(t, "oddsget", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.Equal(t, Version, rootCmd.Version)
}

func TestRootPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	configFlag := flags.Lookup("config")
	assert.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "", configFlag.DefValue)

	for _, name := range []string{"log-level", "log-format", "timeout", "user-agent"} {
		assert.NotNil(t, flags.Lookup(name), name)
	}
}

func TestLoadConfigAndLogger_Defaults(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()
	cfgFile = ""

	cfg, log, err := loadConfigAndLogger()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.NotNil(t, log)
	assert.Equal(t, "https://race.netkeiba.com", cfg.Scraper.BaseURL)
}

func TestLoadConfigAndLogger_MissingFile(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()
	cfgFile = "/nonexistent/oddsget.yaml"

	_, _, err := loadConfigAndLogger()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestLoadConfigAndLogger_AppliesOverrides(t *testing.T) {
	originalCfgFile := cfgFile
	originalTimeout := timeoutSeconds
	defer func() {
		cfgFile = originalCfgFile
		timeoutSeconds = originalTimeout
	}()
	cfgFile = ""
	timeoutSeconds = 99

	cfg, _, err := loadConfigAndLogger()
	assert.NoError(t, err)
	assert.Equal(t, 99, cfg.Scraper.TimeoutSeconds)
}

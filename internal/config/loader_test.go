package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oddsget.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeTempConfig(t, `
scraper:
  timeout_seconds: 7
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Scraper.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched fields keep their defaults.
	assert.Equal(t, "https://race.netkeiba.com", cfg.Scraper.BaseURL)
	assert.Equal(t, 2, cfg.Output.JSONIndent)
}

func TestLoad_EnvVarSubstitution(t *testing.T) {
	t.Setenv("ODDSGET_TEST_BASE", "https://example.com")

	path := writeTempConfig(t, `
scraper:
  base_url: ${ODDSGET_TEST_BASE}
output:
  batch_dir: $ODDSGET_TEST_UNSET/out
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", cfg.Scraper.BaseURL)
	// Unset variables remain as written.
	assert.True(t, strings.HasPrefix(cfg.Output.BatchDir, "$ODDSGET_TEST_UNSET"))
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	v.Set("scraper.user_agent", "agent-x")
	v.Set("output.json_indent", 4)

	cfg, err := LoadFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "agent-x", cfg.Scraper.UserAgent)
	assert.Equal(t, 4, cfg.Output.JSONIndent)
	assert.Equal(t, "info", cfg.Logging.Level)
}

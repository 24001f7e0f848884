package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Refresh.IntervalSecs)
	assert.Equal(t, 30, cfg.History.Points)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.Sources.Secondary.BaseURL)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenwatch.yaml")
	body := `
log:
  level: debug
http:
  port: 9090
refresh:
  interval_secs: 30
  tick_secs: 3
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 30, cfg.Refresh.IntervalSecs)
	assert.Equal(t, 3, cfg.Refresh.TickSecs)

	// Untouched sections keep their defaults.
	assert.Equal(t, "https://freecryptoapi.com/api/v1", cfg.Sources.Primary.BaseURL)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [not, a, mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv(APIKeyEnv, "secret-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.Sources.Primary.APIKey)
}

func TestLoad_MissingAPIKeyIsNotFatal(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Sources.Primary.APIKey)
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }},
		{"zero refresh interval", func(c *Config) { c.Refresh.IntervalSecs = 0 }},
		{"negative tick", func(c *Config) { c.Refresh.TickSecs = -1 }},
		{"empty primary url", func(c *Config) { c.Sources.Primary.BaseURL = "" }},
		{"zero secondary rps", func(c *Config) { c.Sources.Secondary.RPS = 0 }},
		{"zero history points", func(c *Config) { c.History.Points = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

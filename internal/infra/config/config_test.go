package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
auth:
  secret: file-secret
forecast:
  timezone: Europe/Vienna
  upcomingLimit: 5
  calibratedPlants: [birch]
  plants:
    - name: birch
      label: Birch
      start: 01/04
      end: 15/05
      defaultLevel: 2
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("AUTH_SECRET", "env-secret")
	t.Setenv("FORECAST_CACHE_TTL", "90m")
	t.Setenv("FORECAST_FETCH_TIMEOUT", "20s")
	t.Setenv("HTTP_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("VALKEY_ENABLED", "true")
	t.Setenv("VALKEY_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "env-secret", cfg.Auth.Secret)
	require.Equal(t, "Europe/Vienna", cfg.Forecast.Timezone)
	require.Equal(t, 5, cfg.Forecast.UpcomingLimit)
	require.Equal(t, 90*time.Minute, cfg.Forecast.CacheTTL)
	require.Equal(t, 20*time.Second, cfg.Forecast.FetchTimeout)
	require.Len(t, cfg.Forecast.Plants, 1)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORS.AllowedOrigins)
	require.True(t, cfg.Storage.Valkey.Enabled)
	require.Equal(t, "pollen", cfg.Storage.Valkey.Prefix)
	require.Equal(t, "Africa/Cairo", cfg.Prediction.Timezone)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}

func TestDefaultsNeedSecret(t *testing.T) {
	cfg := defaultConfig()
	require.ErrorContains(t, cfg.Validate(), "auth.secret")

	cfg.Auth.Secret = "s"
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Forecast.Plants, 8)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad timezone", func(c *Config) { c.Forecast.Timezone = "Mars/Olympus" }, "forecast.timezone"},
		{"no plants", func(c *Config) { c.Forecast.Plants = nil }, "forecast.plants"},
		{"unknown calibrated", func(c *Config) { c.Forecast.CalibratedPlants = []string{"oak"} }, "unknown plant"},
		{"zero limit", func(c *Config) { c.Forecast.UpcomingLimit = 0 }, "upcomingLimit"},
		{"zero concurrency", func(c *Config) { c.Forecast.FetchConcurrency = 0 }, "fetchConcurrency"},
		{"zero fetch timeout", func(c *Config) { c.Forecast.FetchTimeout = 0 }, "fetchTimeout"},
		{"rate limit", func(c *Config) { c.HTTP.RateLimit.Burst = 0 }, "burst"},
		{"valkey addr", func(c *Config) { c.Storage.Valkey.Enabled = true }, "valkey.addr"},
		{"archive bucket", func(c *Config) {
			c.Storage.Archive.Enabled = true
			c.Storage.Archive.Endpoint = "localhost:9000"
		}, "bucket"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Auth.Secret = "s"
			tc.mutate(cfg)
			require.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}

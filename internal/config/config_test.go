package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://data.cityofnewyork.us/resource", cfg.Socrata.BaseURL)
	assert.Equal(t, 10.0, cfg.Socrata.RatePerSecond)
	assert.Equal(t, "https://geosearch.planninglabs.nyc/v2", cfg.GeoSearch.BaseURL)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL())
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Batch.MaxConcurrentAddresses)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PROPPLY_SOCRATA_USERNAME", "api-key-id")
	t.Setenv("PROPPLY_SOCRATA_PASSWORD", "api-key-secret")
	t.Setenv("PROPPLY_SERVER_PORT", "9090")
	t.Setenv("PROPPLY_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "api-key-id", cfg.Socrata.Username)
	assert.Equal(t, "api-key-secret", cfg.Socrata.Password)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(dir+"/config.yaml", []byte(`
socrata:
  rate_per_second: 2.5
cache:
  backend: redis
  redis_url: redis://localhost:6379/0
store:
  driver: postgres
  database_url: postgres://localhost/propply
webhook:
  url: https://hooks.example.com/compliance
score:
  weights:
    housing_violations: 0.5
    building_violations: 0.5
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Socrata.RatePerSecond)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "https://hooks.example.com/compliance", cfg.Webhook.URL)
	assert.Equal(t, 0.5, cfg.Score.Weights["housing_violations"])
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}

// chdirTemp moves the test into an empty directory so a developer's
// local config.yaml cannot leak into assertions.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

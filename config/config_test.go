package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, 50, cfg.Aggregation.ChunkSize)
	assert.Equal(t, "UAH", cfg.Export.DefaultCurrency)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "feed-service", cfg.Telemetry.ServiceName)
	assert.True(t, cfg.Fetch.Enabled)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 1.0, cfg.Telemetry.SampleRatio)
	assert.Same(t, cfg, Get())
}

func TestFetchClientConfig(t *testing.T) {
	fc := FetchConfig{RequestsPerSecond: 5, MaxRetries: 1, Timeout: 10 * time.Second, MaxSize: 1024}.ClientConfig()

	assert.Equal(t, 5.0, fc.RequestsPerSecond)
	assert.Equal(t, 1, fc.MaxRetries)
	assert.Equal(t, 10*time.Second, fc.Timeout)
	assert.Equal(t, int64(1024), fc.MaxSize)
	assert.NotEmpty(t, fc.UserAgent)
	assert.Positive(t, fc.InitialBackoff)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("INTERNAL_API_KEY", "secret")
	t.Setenv("FEED_SERVICE_AGGREGATION_CHUNK_SIZE", "10")
	t.Setenv("FEED_SERVICE_RATE_LIMIT_BURST", "7")
	t.Setenv("FEED_SERVICE_FETCH_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Auth.InternalAPIKey)
	assert.Equal(t, 10, cfg.Aggregation.ChunkSize)
	assert.Equal(t, 7, cfg.RateLimit.Burst)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
}

func TestLoadConfigFileAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
export:
  shop_name: Demo
  strict_parents: true
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Demo", cfg.Export.ShopName)
	assert.True(t, cfg.Export.StrictParents)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

// chdir changes the working directory for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

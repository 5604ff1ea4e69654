package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 50, cfg.DeleteBatchSize)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.MetricsEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestParseFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.MetricsEnabled)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{PageSize: 50, DeleteBatchSize: 50, LogFormat: "text", MetricsPath: "/metrics"}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"page size", func(c *Config) { c.PageSize = 0 }, "PAGE_SIZE must be positive, got 0"},
		{"batch size", func(c *Config) { c.DeleteBatchSize = -1 }, "DELETE_BATCH_SIZE must be positive, got -1"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT must be 'text' or 'json', got 'xml'"},
		{"metrics path", func(c *Config) { c.MetricsPath = "metrics" }, "METRICS_PATH must start with '/', got 'metrics'"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			assert.EqualError(t, cfg.Validate(), tc.errMsg)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("OUTREACH_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("OUTREACH_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("OUTREACH_TEST_VALUE"))

	n, err := LoadEnv([]string{filepath.Join(dir, "missing.env"), file})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "from-file", os.Getenv("OUTREACH_TEST_VALUE"))

	n, err = LoadEnv([]string{filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Zero(t, n)
}


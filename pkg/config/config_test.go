package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, SourceAPI, cfg.Data.Source)
	assert.True(t, cfg.Data.AutoFetch)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.Delay)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IGBOARD_API_URL", "https://analytics.example.com")
	t.Setenv("IGBOARD_DATA_SOURCE", "fixtures")
	t.Setenv("IGBOARD_RETRY_ATTEMPTS", "5")
	t.Setenv("IGBOARD_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "https://analytics.example.com", cfg.API.BaseURL)
	assert.Equal(t, SourceFixtures, cfg.Data.Source)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("IGBOARD_RETRY_ATTEMPTS", "not-a-number")
	t.Setenv("IGBOARD_DEFAULT_LIMIT", "-3")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 50, cfg.Data.DefaultLimit)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api:
  base_url: "http://backend:9000"
  timeout: 10s
data:
  source: fixtures
  default_limit: 25
retry:
  max_attempts: 2
  delay: 500ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "http://backend:9000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, SourceFixtures, cfg.Data.Source)
	assert.Equal(t, 25, cfg.Data.DefaultLimit)
	assert.Equal(t, 2, cfg.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.Delay)
}

func TestLoadFromFileMissingIsNotAnError(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.LoadFromFile(""))
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base URL", func(c *Config) { c.API.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"bad data source", func(c *Config) { c.Data.Source = "database" }},
		{"zero limit", func(c *Config) { c.Data.DefaultLimit = 0 }},
		{"negative retries", func(c *Config) { c.Retry.MaxAttempts = -1 }},
		{"zero rpm", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }},
		{"empty export dir", func(c *Config) { c.Export.Directory = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"api-url":     "http://flags:8000",
		"max-retries": 7,
		"log-level":   "error",
	})

	assert.Equal(t, "http://flags:8000", cfg.API.BaseURL)
	assert.Equal(t, 7, cfg.Retry.MaxAttempts)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://saved:8000"
	require.NoError(t, cfg.Save(path))

	reloaded := DefaultConfig()
	require.NoError(t, reloaded.LoadFromFile(path))
	assert.Equal(t, "http://saved:8000", reloaded.API.BaseURL)
}

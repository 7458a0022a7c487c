package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "America/Chicago", cfg.DefaultTimeZone)
	assert.Equal(t, 600.0, cfg.DefaultCaloriesPerHour)
	assert.Equal(t, ProviderNone, cfg.Planner.Provider)
	assert.Equal(t, 20*time.Second, cfg.Planner.Timeout)
}

func TestMergeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9090"
default_timezone: Europe/Berlin
planner:
  provider: anthropic
  api_key: sk-test
  timeout: 5s
`), 0o600))

	cfg := Default()
	require.NoError(t, cfg.mergeFile(path))
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "Europe/Berlin", cfg.DefaultTimeZone)
	assert.Equal(t, ProviderAnthropic, cfg.Planner.Provider)
	assert.Equal(t, 5*time.Second, cfg.Planner.Timeout)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 4096, cfg.Planner.MaxTokens)
	assert.Equal(t, "runtrack.db", cfg.DBPath)

	require.NoError(t, cfg.mergeFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("addr: [unterminated"), 0o600))
	assert.Error(t, cfg.mergeFile(bad))
}

func TestMergeEnv(t *testing.T) {
	env := map[string]string{
		"RUNTRACK_DB_PATH":                   "/data/run.db",
		"RUNTRACK_DEFAULT_CALORIES_PER_HOUR": "720",
		"RUNTRACK_SLOW_QUERY_MS":             "250",
		"RUNTRACK_PLANNER_PROVIDER":          "openai",
		"RUNTRACK_PLANNER_TIMEOUT":           "3s",
		"RUNTRACK_ADDR":                      "",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := Default()
	require.NoError(t, cfg.mergeEnv(lookup))
	assert.Equal(t, "/data/run.db", cfg.DBPath)
	assert.Equal(t, 720.0, cfg.DefaultCaloriesPerHour)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowQueryThreshold())
	assert.Equal(t, ProviderOpenAI, cfg.Planner.Provider)
	assert.Equal(t, 3*time.Second, cfg.Planner.Timeout)
	assert.Equal(t, ":8080", cfg.Addr, "empty values are ignored")

	env = map[string]string{"RUNTRACK_SLOW_QUERY_MS": "fast", "RUNTRACK_PLANNER_TIMEOUT": "soon"}
	err := cfg.mergeEnv(lookup)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "RUNTRACK_SLOW_QUERY_MS") && strings.Contains(err.Error(), "RUNTRACK_PLANNER_TIMEOUT"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad zone", mutate: func(c *Config) { c.DefaultTimeZone = "Mars/Olympus" }},
		{name: "zero rate", mutate: func(c *Config) { c.DefaultCaloriesPerHour = 0 }},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitPerSecond = 0 }},
		{name: "zero slow request", mutate: func(c *Config) { c.SlowRequestMS = 0 }},
		{name: "unknown provider", mutate: func(c *Config) { c.Planner.Provider = "gemini" }},
		{name: "provider without key", mutate: func(c *Config) { c.Planner.Provider = ProviderOpenAI }},
		{name: "zero timeout", mutate: func(c *Config) { c.Planner.Timeout = 0 }},
		{name: "hot temperature", mutate: func(c *Config) { c.Planner.Temperature = 3 }},
		{name: "zero tokens", mutate: func(c *Config) { c.Planner.MaxTokens = 0 }},
		{name: "production without csrf key", mutate: func(c *Config) { c.Env = "production" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	ok := Default()
	ok.Env = "production"
	ok.CSRFKey = strings.Repeat("k", 32)
	ok.Planner.Provider = ProviderAnthropic
	ok.Planner.APIKey = "sk"
	assert.NoError(t, ok.Validate())
}

func TestLoad_UsesConfigPathAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slow_request_ms: 900\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("RUNTRACK_CONFIG", path)
	t.Setenv("RUNTRACK_ADDR", ":7000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 900*time.Millisecond, cfg.SlowRequestThreshold())
}

// Package config loads server settings from defaults, an optional YAML file and
// RUNTRACK_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Planner providers.
const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultPath is the YAML file read when RUNTRACK_CONFIG is unset.
const DefaultPath = "runtrack.yaml"

// Config is the full server configuration.
type Config struct {
	Addr                   string        `yaml:"addr"`
	Env                    string        `yaml:"env"`
	DBPath                 string        `yaml:"db_path"`
	DefaultTimeZone        string        `yaml:"default_timezone"`
	DefaultCaloriesPerHour float64       `yaml:"default_calories_per_hour"`
	RateLimitPerSecond     float64       `yaml:"rate_limit_per_second"`
	SlowQueryMS            int           `yaml:"slow_query_ms"`
	SlowRequestMS          int           `yaml:"slow_request_ms"`
	CSRFKey                string        `yaml:"csrf_key"`
	Planner                PlannerConfig `yaml:"planner"`
}

// PlannerConfig selects and tunes the delegated plan generator.
type PlannerConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Addr:                   ":8080",
		Env:                    "development",
		DBPath:                 "runtrack.db",
		DefaultTimeZone:        "America/Chicago",
		DefaultCaloriesPerHour: 600,
		RateLimitPerSecond:     20,
		SlowQueryMS:            100,
		SlowRequestMS:          500,
		Planner: PlannerConfig{
			Provider:    ProviderNone,
			Timeout:     20 * time.Second,
			Temperature: 0.6,
			MaxTokens:   4096,
		},
	}
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool { return c.Env == "production" }

// Location resolves DefaultTimeZone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.DefaultTimeZone)
}

// SlowQueryThreshold is the duration above which a query is logged.
func (c Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryMS) * time.Millisecond
}

// SlowRequestThreshold is the duration above which a request is logged.
func (c Config) SlowRequestThreshold() time.Duration {
	return time.Duration(c.SlowRequestMS) * time.Millisecond
}

// Load builds the configuration. A missing .env or YAML file is not an error.
// PRE: none
// POST: returned Config has passed Validate
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	cfg := Default()
	if err := cfg.mergeFile(envOrDefault("RUNTRACK_CONFIG", DefaultPath)); err != nil {
		return Config{}, err
	}
	if err := cfg.mergeEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *float64) {
		if v, ok := lookup(key); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str("RUNTRACK_ADDR", &c.Addr)
	str("RUNTRACK_ENV", &c.Env)
	str("RUNTRACK_DB_PATH", &c.DBPath)
	str("RUNTRACK_DEFAULT_TIMEZONE", &c.DefaultTimeZone)
	num("RUNTRACK_DEFAULT_CALORIES_PER_HOUR", &c.DefaultCaloriesPerHour)
	num("RUNTRACK_RATE_LIMIT_PER_SECOND", &c.RateLimitPerSecond)
	integer("RUNTRACK_SLOW_QUERY_MS", &c.SlowQueryMS)
	integer("RUNTRACK_SLOW_REQUEST_MS", &c.SlowRequestMS)
	str("RUNTRACK_CSRF_KEY", &c.CSRFKey)
	str("RUNTRACK_PLANNER_PROVIDER", &c.Planner.Provider)
	str("RUNTRACK_PLANNER_MODEL", &c.Planner.Model)
	str("RUNTRACK_PLANNER_API_KEY", &c.Planner.APIKey)
	num("RUNTRACK_PLANNER_TEMPERATURE", &c.Planner.Temperature)
	integer("RUNTRACK_PLANNER_MAX_TOKENS", &c.Planner.MaxTokens)
	if v, ok := lookup("RUNTRACK_PLANNER_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RUNTRACK_PLANNER_TIMEOUT: %w", err))
		} else {
			c.Planner.Timeout = d
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: environment: %w", errors.Join(errs...))
	}
	return nil
}

// Validate checks if the Config has usable values.
// PRE: Config struct is populated
// POST: Returns nil if valid, error otherwise
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if c.DBPath == "" {
		return errors.New("config: db_path is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: default_timezone: %w", err)
	}
	if c.DefaultCaloriesPerHour <= 0 {
		return errors.New("config: default_calories_per_hour must be positive")
	}
	if c.RateLimitPerSecond <= 0 {
		return errors.New("config: rate_limit_per_second must be positive")
	}
	if c.SlowQueryMS <= 0 || c.SlowRequestMS <= 0 {
		return errors.New("config: slow thresholds must be positive")
	}
	if c.IsProduction() && len(c.CSRFKey) < 32 {
		return errors.New("config: csrf_key must be at least 32 bytes in production")
	}

	p := c.Planner
	switch p.Provider {
	case ProviderNone:
	case ProviderOpenAI, ProviderAnthropic:
		if p.APIKey == "" {
			return fmt.Errorf("config: planner.api_key is required for provider %q", p.Provider)
		}
	default:
		return fmt.Errorf("config: unknown planner provider %q", p.Provider)
	}
	if p.Timeout <= 0 {
		return errors.New("config: planner.timeout must be positive")
	}
	if p.Temperature <= 0 || p.Temperature > 2 {
		return errors.New("config: planner.temperature must be in (0, 2]")
	}
	if p.MaxTokens <= 0 {
		return errors.New("config: planner.max_tokens must be positive")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

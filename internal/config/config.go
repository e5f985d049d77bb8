// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and TASTEBASE_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// DatabasePath points at the SQLite file holding restaurants and dishes.
	DatabasePath string `koanf:"database_path"`

	// ReadOnly opens the store in query-only mode.
	ReadOnly bool `koanf:"read_only"`

	// BusyTimeoutMS is how long SQLite waits on a locked database.
	BusyTimeoutMS int `koanf:"busy_timeout_ms"`

	// QueryTimeoutMS bounds a single fetch, including the wait for a free slot.
	QueryTimeoutMS int `koanf:"query_timeout_ms"`

	// MaxConcurrentQueries caps in-flight statements on the shared connection.
	MaxConcurrentQueries int `koanf:"max_concurrent_queries"`

	// RateLimitRPS and RateLimitBurst configure the per-client token bucket.
	// A zero RPS disables rate limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// LegacyDishFilter makes /dishes/filter read the restaurants table, as
	// the first version of the service did.
	LegacyDishFilter bool `koanf:"legacy_dish_filter"`

	// CORSAllowedOrigin is echoed in Access-Control-Allow-Origin.
	CORSAllowedOrigin string `koanf:"cors_allowed_origin"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":3000",
		DatabasePath:         "./database.sqlite",
		ReadOnly:             true,
		BusyTimeoutMS:        5000,
		QueryTimeoutMS:       5000,
		MaxConcurrentQueries: 16,
		RateLimitRPS:         0,
		RateLimitBurst:       20,
		LegacyDishFilter:     false,
		CORSAllowedOrigin:    "*",
	}
}

// QueryTimeout returns QueryTimeoutMS as a duration.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutMS) * time.Millisecond
}

// BusyTimeout returns BusyTimeoutMS as a duration.
func (c *Config) BusyTimeout() time.Duration {
	return time.Duration(c.BusyTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DatabasePath == "":
		return fmt.Errorf("%w: database_path must not be empty", ErrInvalidConfig)
	case c.MaxConcurrentQueries <= 0:
		return fmt.Errorf("%w: max_concurrent_queries must be positive", ErrInvalidConfig)
	case c.QueryTimeoutMS <= 0:
		return fmt.Errorf("%w: query_timeout_ms must be positive", ErrInvalidConfig)
	case c.RateLimitRPS < 0:
		return fmt.Errorf("%w: rate_limit_rps must not be negative", ErrInvalidConfig)
	case c.RateLimitRPS > 0 && c.RateLimitBurst <= 0:
		return fmt.Errorf("%w: rate_limit_burst must be positive when rate limiting is enabled", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a .env file, an optional YAML file and the environment on top.
// - Validation errors wrap ErrInvalidConfig; source errors wrap ErrLoadConfig.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// DataPath is the laureates CSV loaded at startup.
	DataPath string `koanf:"data_path" validate:"required"`

	// DateLayout is the Go time layout of the birth-date column.
	DateLayout string `koanf:"date_layout" validate:"required"`

	// MarkStep spaces the year marks of the range control.
	MarkStep int `koanf:"mark_step" validate:"gt=0"`

	// RateLimitRPS caps API requests per second; 0 disables limiting.
	RateLimitRPS float64 `koanf:"rate_limit_rps" validate:"gte=0"`

	// RateLimitBurst is the token bucket size for the API limiter.
	RateLimitBurst int `koanf:"rate_limit_burst" validate:"gte=1"`

	// RequestTimeoutMS bounds reading and writing one HTTP request.
	RequestTimeoutMS int `koanf:"request_timeout_ms" validate:"gt=0"`

	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms" validate:"gt=0"`

	// MetricsIntervalMS is the period of the system metrics updater.
	MetricsIntervalMS int `koanf:"metrics_interval_ms" validate:"gt=0"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		DataPath:          "./data/nobel.csv",
		DateLayout:        "1/2/2006",
		MarkStep:          10,
		RateLimitRPS:      50,
		RateLimitBurst:    100,
		RequestTimeoutMS:  10_000,
		ShutdownTimeoutMS: 5_000,
		MetricsIntervalMS: 5_000,
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// MetricsInterval returns MetricsIntervalMS as a duration.
func (c *Config) MetricsInterval() time.Duration {
	return time.Duration(c.MetricsIntervalMS) * time.Millisecond
}

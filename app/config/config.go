// Package config defines the service configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mytheresa/item-processing-api/app/scoring"
)

// EnvironmentProduction disables destructive development endpoints.
const EnvironmentProduction = "production"

// Config contains process configuration.
type Config struct {
	// Environment names the deployment, e.g. development or production.
	Environment string `koanf:"environment"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Scoring  ScoringConfig  `koanf:"scoring"`
}

type ServerConfig struct {
	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`

	// MaxPageSize caps GET /items?limit.
	MaxPageSize int `koanf:"max_page_size"`

	// RateLimitRPS is the per-client request rate; 0 disables rate limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

type DatabaseConfig struct {
	// Driver is sqlite or postgres.
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`

	// MaxOpenConns bounds the connection pool; 0 means unlimited.
	MaxOpenConns int `koanf:"max_open_conns"`

	// SeedOnStart inserts the sample items at startup when the table is empty.
	SeedOnStart bool `koanf:"seed_on_start"`
}

type ScoringConfig struct {
	// CategoryWeights maps category names to their score multipliers.
	CategoryWeights map[string]float64 `koanf:"category_weights"`

	// DefaultWeight is used for categories missing from CategoryWeights.
	DefaultWeight float64 `koanf:"default_weight"`

	// DefaultTopN is used when /process is called without top_n.
	DefaultTopN int `koanf:"default_top_n"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		LogFormat:   "text",
		Server: ServerConfig{
			Addr:               ":8000",
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       15 * time.Second,
			ShutdownTimeout:    30 * time.Second,
			RequestTimeout:     60 * time.Second,
			MaxPageSize:        1000,
			RateLimitRPS:       0,
			RateLimitBurst:     20,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:      "sqlite",
			DSN:         "items.db",
			SeedOnStart: true,
		},
		Scoring: ScoringConfig{
			CategoryWeights: map[string]float64{
				"laptop":     1.2,
				"smartphone": 1.0,
				"headphones": 0.9,
				"monitor":    1.1,
			},
			DefaultWeight: scoring.DefaultWeight,
			DefaultTopN:   scoring.DefaultTopN,
		},
	}
}

// IsProduction reports whether destructive endpoints must be refused.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvironmentProduction)
}

// Weights builds the immutable scoring table from the configured weights.
func (c *Config) Weights() (scoring.Weights, error) {
	return scoring.NewWeights(c.Scoring.CategoryWeights, c.Scoring.DefaultWeight)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Server.MaxPageSize < 1 {
		return fmt.Errorf("%w: max_page_size must be at least 1", ErrInvalidConfig)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown database driver %q (must be sqlite or postgres)", ErrInvalidConfig, c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("%w: database dsn must not be empty", ErrInvalidConfig)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("%w: invalid log level: %s (must be debug, info, warn, or error)", ErrInvalidConfig, c.LogLevel)
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		return fmt.Errorf("%w: invalid log format: %s (must be text or json)", ErrInvalidConfig, c.LogFormat)
	}

	if _, err := c.Weights(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Scoring.DefaultTopN < 1 {
		return fmt.Errorf("%w: default_top_n must be at least 1", ErrInvalidConfig)
	}

	return nil
}

// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New(ctx) returns a Config filled with defaults.
// - Load(ctx) layers a YAML file and environment variables on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TargetMax is the radar scale every axis is normalized onto.
	TargetMax float64 `koanf:"target_max"`

	// Locale drives name ordering and diagnostic wording (en, fr).
	Locale string `koanf:"locale"`

	// Palette holds the learner display colors.
	Palette []string `koanf:"palette"`

	// CatalogPath optionally points at a YAML competence catalog.
	CatalogPath string `koanf:"catalog_path"`

	// DatasourceDriver is memory, sqlite or postgres.
	DatasourceDriver string `koanf:"datasource_driver"`
	DatasourceDSN    string `koanf:"datasource_dsn"`

	// SeedDemo writes the demo family into the store at startup.
	SeedDemo bool `koanf:"seed_demo"`

	// FetchTimeoutMS bounds each learner fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// FetchRetries is how many times a failed fetch is retried.
	FetchRetries int `koanf:"fetch_retries"`

	// MaxCompare caps how many learners one request compares.
	MaxCompare int `koanf:"max_compare"`

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		TargetMax:        10,
		Locale:           "en",
		Palette:          []string{"#3B82F6", "#8B5CF6", "#EC4899", "#10B981", "#F59E0B"},
		DatasourceDriver: "memory",
		SeedDemo:         true,
		FetchTimeoutMS:   3000,
		FetchRetries:     2,
		MaxCompare:       8,
		CORSOrigins:      []string{"*"},
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TargetMax <= 0:
		return fmt.Errorf("%w: target_max must be positive, got %v", ErrInvalidConfig, c.TargetMax)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive, got %d", ErrInvalidConfig, c.FetchTimeoutMS)
	case c.FetchRetries < 0:
		return fmt.Errorf("%w: fetch_retries must not be negative, got %d", ErrInvalidConfig, c.FetchRetries)
	case c.MaxCompare <= 0:
		return fmt.Errorf("%w: max_compare must be positive, got %d", ErrInvalidConfig, c.MaxCompare)
	case !slices.Contains([]string{"text", "json"}, c.LogFormat):
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case !slices.Contains([]string{"memory", "sqlite", "postgres"}, c.DatasourceDriver):
		return fmt.Errorf("%w: unknown datasource_driver %q", ErrInvalidConfig, c.DatasourceDriver)
	}
	return nil
}

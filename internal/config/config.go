// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all server configuration. Values come from environment
// variables; a .env file in the working directory is loaded by main
// before parsing.
type Config struct {
	// OpenProject instance settings
	URL    string `env:"OPENPROJECT_URL"`
	APIKey string `env:"OPENPROJECT_API_KEY"`
	Proxy  string `env:"OPENPROJECT_PROXY"`

	// RequestTimeout bounds each individual API request.
	RequestTimeout time.Duration `env:"OPENPROJECT_TIMEOUT" envDefault:"30s"`

	// Retry policy for bulk operations
	MaxRetries        int           `env:"BULK_MAX_RETRIES" envDefault:"3"`
	RetryInitialDelay time.Duration `env:"BULK_RETRY_INITIAL_DELAY" envDefault:"1s"`
	RetryMaxDelay     time.Duration `env:"BULK_RETRY_MAX_DELAY" envDefault:"16s"`

	// AuditDBPath locates the bulk-operation history database. Empty
	// disables the audit log and the bulk_history tool.
	AuditDBPath string `env:"AUDIT_DB_PATH" envDefault:"openproject-mcp-audit.db"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load parses configuration from the environment and validates the
// required fields.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("OPENPROJECT_URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENPROJECT_API_KEY is required")
	}
	return cfg, nil
}

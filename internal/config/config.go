// Package config loads the storefront configuration from a YAML file with
// environment overrides for deploy-time values.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds everything the service reads at startup. It is loaded once
// and never mutated afterwards.
type Config struct {
	// AdminID is the single user id allowed to run catalog flows. Zero
	// means no admin is configured and the catalog flows are disabled.
	AdminID int64 `yaml:"admin_id"`

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `yaml:"database_url"`

	Log        LogConfig  `yaml:"log"`
	Storefront Storefront `yaml:"storefront"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Storefront is display-only information shown by the /shop command.
type Storefront struct {
	WebAppURL          string   `yaml:"web_app_url"`
	OperatingHours     string   `yaml:"operating_hours"`
	PaymentMethods     []string `yaml:"payment_methods"`
	FulfillmentMethods []string `yaml:"fulfillment_methods"`
}

// Default returns a baseline configuration.
func Default() *Config {
	return &Config{
		DatabaseURL: "postgres://localhost:5432/xenon?sslmode=disable",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path, applies environment overrides, and
// validates the result. An empty path skips the file and uses defaults plus
// environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides file values with environment variables when set.
func applyEnv(cfg *Config) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if raw := os.Getenv("XENON_ADMIN_ID"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.AdminID = id
		}
	}
}

// Validate checks the fields the core cannot run without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required")
	}
	if c.AdminID < 0 {
		return fmt.Errorf("admin_id must not be negative")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and allow-list configuration
//   - database.go: Redis and Postgres configuration
//   - http.go: HTTP server configuration
//   - datasets.go: Remote dataset endpoint configuration
type AppConfig struct {
	// IsDev controls development mode behavior (mock auth shortcuts, etc.)
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication and allow-list configuration
	Auth      AuthConfig
	Allowlist AllowlistConfig `envPrefix:"ALLOWLIST_"`

	// Storage configuration
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Postgres DBConfig    `envPrefix:"DB_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Remote dataset configuration
	Datasets DatasetsConfig `envPrefix:"DATASETS_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.Datasets.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

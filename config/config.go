// Package config describes every environment setting the console reads.
// Values are parsed with caarlos0/env; each section normalizes itself in
// Sanitize so callers never see half-valid input.
package config

import (
	"os"
	"slices"
	"strings"
)

// nodeEnvDevValues are NODE_ENV values treated as DEV=true, so the console
// follows the same switch as the frontend tooling it ships with.
var nodeEnvDevValues = []string{"development", "dev"}

// AppConfig is the root of the console configuration.
type AppConfig struct {
	IsDev bool `env:"DEV" envDefault:"false"`

	// SessionsEncryptionKey seals upstream tokens held in Redis sessions.
	// Outside development it must be set.
	SessionsEncryptionKey string `env:"SESSIONS_ENCRYPTION_KEY"`

	Auth     AuthConfig
	HTTP     HTTPConfig
	Postgres DBConfig       `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Upstream UpstreamConfig `envPrefix:"ECOSYSTEM_"`

	Observability ObservabilityConfig
}

// Sanitize normalizes every section after env parsing.
func (c *AppConfig) Sanitize() {
	for _, s := range []interface{ Sanitize() }{
		&c.Auth,
		&c.HTTP,
		&c.Postgres,
		&c.Redis,
		&c.Upstream,
		&c.Observability.Metrics,
	} {
		s.Sanitize()
	}

	if !c.IsDev {
		nodeEnv := strings.ToLower(strings.TrimSpace(os.Getenv("NODE_ENV")))
		c.IsDev = slices.Contains(nodeEnvDevValues, nodeEnv)
	}
}

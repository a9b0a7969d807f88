// Package bootstrap wires configuration, infrastructure, and services into a
// running console process.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/target/runconsole/config"
)

// InitLogger initializes the structured logger. LOG_LEVEL selects debug, info,
// warn or error; anything else means info.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateConfig rejects configurations the HTTP service cannot start with.
func ValidateConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("config is required")
	}

	var errs []error
	if cfg.Upstream.BaseURL == "" {
		errs = append(errs, errors.New("ECOSYSTEM_API_URL is required"))
	}

	switch cfg.Auth.Mode {
	case config.AuthModeOAuth:
		if cfg.Auth.OAuth.DiscoveryURL == "" {
			errs = append(errs, errors.New("OAUTH_DISCOVERY_URL is required when AUTH_MODE=oauth"))
		}
	case config.AuthModeMock:
		if !cfg.IsDev {
			errs = append(errs, errors.New("AUTH_MODE=mock is only allowed in development"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported AUTH_MODE %q", cfg.Auth.Mode))
	}

	if !cfg.IsDev && cfg.SessionsEncryptionKey == "" {
		errs = append(errs, errors.New("SESSIONS_ENCRYPTION_KEY is required outside development"))
	}

	return errors.Join(errs...)
}

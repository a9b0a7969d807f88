package bootstrap

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/runconsole/config"
)

func validConfig() config.AppConfig {
	return config.AppConfig{
		SessionsEncryptionKey: "k",
		Auth: config.AuthConfig{
			Mode:  config.AuthModeOAuth,
			OAuth: config.OAuthConfig{DiscoveryURL: "https://idp.example.com/.well-known/openid-configuration"},
		},
		Upstream: config.UpstreamConfig{BaseURL: "https://ecosystem.example.com/api"},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.AppConfig) {}},
		{
			name:    "missing upstream",
			mutate:  func(c *config.AppConfig) { c.Upstream.BaseURL = "" },
			wantErr: "ECOSYSTEM_API_URL",
		},
		{
			name:    "oauth without discovery",
			mutate:  func(c *config.AppConfig) { c.Auth.OAuth.DiscoveryURL = "" },
			wantErr: "OAUTH_DISCOVERY_URL",
		},
		{
			name:    "mock auth outside dev",
			mutate:  func(c *config.AppConfig) { c.Auth.Mode = config.AuthModeMock },
			wantErr: "only allowed in development",
		},
		{
			name: "mock auth in dev without key",
			mutate: func(c *config.AppConfig) {
				c.IsDev = true
				c.Auth.Mode = config.AuthModeMock
				c.SessionsEncryptionKey = ""
			},
		},
		{
			name:    "missing encryption key",
			mutate:  func(c *config.AppConfig) { c.SessionsEncryptionKey = "" },
			wantErr: "SESSIONS_ENCRYPTION_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.Error(t, ValidateConfig(nil))
}

func TestValidateConfig_ReportsEveryProblem(t *testing.T) {
	cfg := config.AppConfig{Auth: config.AuthConfig{Mode: config.AuthModeOAuth}}
	err := ValidateConfig(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ECOSYSTEM_API_URL")
	assert.Contains(t, err.Error(), "OAUTH_DISCOVERY_URL")
	assert.Contains(t, err.Error(), "SESSIONS_ENCRYPTION_KEY")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARN "))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("chatty"))
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADMIN_GROUP", "console-admins")
	t.Setenv("USER_GROUP", "console-users")
	t.Setenv("ECOSYSTEM_API_URL", "https://ecosystem.example.com/api/")
	t.Setenv("APP_COOKIE_DOMAIN", ".Example.COM")
	t.Setenv("HTTP_COMPRESSION_LEVEL", "42")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "console-admins", cfg.Auth.AdminGroup)
	assert.Equal(t, "https://ecosystem.example.com/api", cfg.Upstream.BaseURL)
	assert.Equal(t, "example.com", cfg.HTTP.CookieDomain)
	assert.Equal(t, 9, cfg.HTTP.CompressionLevel)
	assert.Equal(t, config.AuthModeOAuth, cfg.Auth.Mode)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Chdir(t.TempDir())
	// Setenv registers the restore; Unsetenv makes the variables absent.
	t.Setenv("ADMIN_GROUP", "")
	t.Setenv("USER_GROUP", "")
	require.NoError(t, os.Unsetenv("ADMIN_GROUP"))
	require.NoError(t, os.Unsetenv("USER_GROUP"))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

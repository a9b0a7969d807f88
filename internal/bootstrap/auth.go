package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/runconsole/config"
	"github.com/target/runconsole/internal/adapters/authroles"
	"github.com/target/runconsole/internal/adapters/devauth"
	"github.com/target/runconsole/internal/adapters/oidc"
	redisadapter "github.com/target/runconsole/internal/adapters/redis"
	"github.com/target/runconsole/internal/data/cryptoutil"
	"github.com/target/runconsole/internal/ports"
	"github.com/target/runconsole/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	KeyPrefix   string
	RedisClient redis.UniversalClient
	Encryptor   cryptoutil.Encryptor
	Logger      *slog.Logger
}

// AuthBundle is the auth service plus what the HTTP layer needs to know about the IdP.
type AuthBundle struct {
	Service      *service.AuthService
	Sessions     *redisadapter.SessionStore
	IdPLogoutURL string
}

// BuildAuthService creates the auth service for the configured mode. Sessions
// are always kept in Redis so that every replica sees the same logins.
func BuildAuthService(cfg AuthConfig) (AuthBundle, error) {
	if cfg.RedisClient == nil {
		return AuthBundle{}, errors.New("auth requires a redis client for sessions")
	}

	sessions := redisadapter.NewSessionStore(cfg.RedisClient, redisadapter.SessionStoreOptions{
		KeyPrefix: cfg.KeyPrefix,
		Encryptor: cfg.Encryptor,
	})
	roles := authroles.StaticRoleMapper{
		AdminGroup: cfg.Auth.AdminGroup,
		UserGroup:  cfg.Auth.UserGroup,
	}

	var (
		provider  ports.AuthProvider
		logoutURL string
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		dev, err := devauth.NewProvider(devauth.Config{
			UserID:          cfg.Auth.DevAuth.UserID,
			Email:           cfg.Auth.DevAuth.Email,
			Groups:          cfg.Auth.DevAuth.Groups,
			Token:           cfg.Auth.DevAuth.Token,
			SessionDuration: cfg.Auth.SessionTTL,
		})
		if err != nil {
			return AuthBundle{}, fmt.Errorf("create dev auth provider: %w", err)
		}
		if cfg.Logger != nil {
			cfg.Logger.Warn("dev auth enabled; every login signs in as the configured identity",
				"user_id", cfg.Auth.DevAuth.UserID)
		}
		provider = dev

	case config.AuthModeOAuth:
		oauth := cfg.Auth.OAuth
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
			LogoutURL:    oauth.LogoutURL,
			Claims: oidc.ClaimPaths{
				UserID:    cfg.Auth.Claims.UserID,
				Email:     cfg.Auth.Claims.Email,
				FirstName: cfg.Auth.Claims.FirstName,
				LastName:  cfg.Auth.Claims.LastName,
				Groups:    cfg.Auth.Claims.Groups,
			},
		})
		if err != nil {
			return AuthBundle{}, fmt.Errorf("create OIDC provider: %w", err)
		}
		provider, logoutURL = prov, prov.LogoutURL()

	default:
		return AuthBundle{}, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}

	return AuthBundle{
		Service: service.NewAuthService(service.AuthServiceOptions{
			Provider:   provider,
			Sessions:   sessions,
			Roles:      roles,
			SessionTTL: cfg.Auth.SessionTTL,
			Logger:     cfg.Logger,
		}),
		Sessions:     sessions,
		IdPLogoutURL: logoutURL,
	}, nil
}

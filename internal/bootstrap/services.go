package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/runconsole/config"
	"github.com/target/runconsole/internal/adapters/ecosystem"
	redisadapter "github.com/target/runconsole/internal/adapters/redis"
	"github.com/target/runconsole/internal/data"
	"github.com/target/runconsole/internal/observability/statsd"
	"github.com/target/runconsole/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth         *service.AuthService
	Sessions     *redisadapter.SessionStore
	Runs         *service.RunService
	Aggregator   *service.RunAggregator
	Tokens       *service.TokenService
	Users        *service.UserService
	Preferences  *service.PreferenceService
	SavedQueries *service.SavedQueryService
	IdPLogoutURL string
	Metrics      *statsd.Client
}

// Close releases resources owned by the container.
func (c ServiceContainer) Close() error {
	if c.Metrics == nil {
		return nil
	}
	return c.Metrics.Close()
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// buildMetrics returns a statsd client, or nil when metrics are disabled or the sink cannot be reached.
func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled:    true,
		Address:    cfg.StatsdAddress,
		Prefix:     cfg.Prefix,
		GlobalTags: cfg.Tags,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	if client.Enabled() {
		logger.Info("statsd metrics enabled", "addr", cfg.StatsdAddress, "prefix", cfg.Prefix)
	}
	return client
}

// NewEcosystemClient builds the ecosystem REST client from config.
func NewEcosystemClient(cfg config.UpstreamConfig, metrics statsd.Sink, logger *slog.Logger) (*ecosystem.Client, error) {
	return ecosystem.New(ecosystem.Options{
		BaseURL:      cfg.BaseURL,
		APIVersion:   cfg.APIVersion,
		Timeout:      cfg.Timeout,
		RetryMax:     cfg.RetryMax,
		RetryWaitMin: cfg.RetryWaitMin,
		RetryWaitMax: cfg.RetryWaitMax,
		ServiceToken: cfg.ServiceToken,
		Logger:       logger,
		Metrics:      metrics,
	})
}

// NewServices builds every service the HTTP surface needs.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database is required")
	}
	if deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("redis client is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := buildMetrics(logger, cfg.Observability.Metrics)
	// statsd.Sink must stay a nil interface when metrics are off.
	var sink statsd.Sink
	if metrics != nil {
		sink = metrics
	}

	client, err := NewEcosystemClient(cfg.Upstream, sink, logger)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create ecosystem client: %w", err)
	}

	encryptor, err := CreateSessionEncryptor(cfg.SessionsEncryptionKey, cfg.IsDev, logger)
	if err != nil {
		return ServiceContainer{}, err
	}
	auth, err := BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		KeyPrefix:   cfg.Redis.KeyPrefix,
		RedisClient: deps.RedisClient,
		Encryptor:   encryptor,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	cache, err := data.NewTieredCacheRepo(data.TieredCacheRepoOptions{
		Shared:   data.NewRedisCacheRepo(deps.RedisClient, cfg.Redis.KeyPrefix),
		Capacity: cfg.Redis.LocalCacheSize,
		LocalTTL: cfg.Redis.LocalCacheTTL,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create cache: %w", err)
	}

	aggregator, err := service.NewRunAggregator(service.RunAggregatorOptions{
		Searcher: client,
		Logger:   logger,
		Metrics:  sink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create run aggregator: %w", err)
	}
	preferences, err := service.NewPreferenceService(service.PreferenceServiceOptions{
		Repo: data.NewPreferenceRepo(deps.DB),
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create preference service: %w", err)
	}
	savedQueries, err := service.NewSavedQueryService(service.SavedQueryServiceOptions{
		Repo:       data.NewSavedQueryRepo(deps.DB),
		Aggregator: aggregator,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create saved query service: %w", err)
	}

	return ServiceContainer{
		Auth:       auth.Service,
		Sessions:   auth.Sessions,
		Aggregator: aggregator,
		Runs: service.MustNewRunService(service.RunServiceOptions{
			Aggregator: aggregator,
			Reader:     client,
			Cache:      cache,
			Logger:     logger,
		}),
		Tokens: service.MustNewTokenService(service.TokenServiceOptions{Tokens: client, Logger: logger}),
		Users: service.MustNewUserService(service.UserServiceOptions{
			Users:  client,
			Tokens: client,
			Cache:  cache,
			Logger: logger,
		}),
		Preferences:  preferences,
		SavedQueries: savedQueries,
		IdPLogoutURL: auth.IdPLogoutURL,
		Metrics:      metrics,
	}, nil
}

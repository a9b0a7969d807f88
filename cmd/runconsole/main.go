// Command runconsole serves the test run console: the JSON API behind the
// browser UI, with OIDC login, Redis sessions and Postgres-backed user data.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/target/runconsole/config"
	"github.com/target/runconsole/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	logger := bootstrap.InitLogger()

	err := run(ctx, logger)
	stop()
	if err != nil {
		logger.Error("runconsole exited", "error", err)
		os.Exit(1) //nolint:forbidigo // non-zero exit on fatal startup or serve errors
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err = bootstrap.ValidateConfig(&cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger.InfoContext(ctx, "starting runconsole",
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev,
		"auth_mode", cfg.Auth.Mode,
		"ecosystem_url", cfg.Upstream.BaseURL,
		"db", cfg.Postgres.Host+"/"+cfg.Postgres.Name)

	db, rdb, err := connectStores(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(ctx, logger, "database", db)
	defer closeQuietly(ctx, logger, "redis", rdb)

	if cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "migrations on start disabled")
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		DB:          db,
		RedisClient: rdb,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}
	defer closeQuietly(ctx, logger, "services", services)

	return bootstrap.RunHTTPServer(ctx, &bootstrap.HTTPServerConfig{
		Config:      &cfg,
		Services:    services,
		DB:          db,
		RedisClient: rdb,
		Logger:      logger,
	})
}

// connectStores opens Postgres then Redis. A Redis failure closes the
// database before returning.
//
//nolint:ireturn // redis.UniversalClient keeps sentinel and cluster options open.
func connectStores(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*sql.DB, redis.UniversalClient, error) {
	dbCfg := bootstrap.DatabaseConfig{
		DBConfig:    cfg.Postgres,
		RedisConfig: cfg.Redis,
		Logger:      logger,
	}
	db, err := bootstrap.ConnectDB(ctx, dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}
	rdb, err := bootstrap.ConnectRedis(ctx, dbCfg)
	if err != nil {
		closeQuietly(ctx, logger, "database", db)
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return db, rdb, nil
}

func closeQuietly(ctx context.Context, logger *slog.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.ErrorContext(ctx, "close "+what+" failed", "error", err)
	}
}

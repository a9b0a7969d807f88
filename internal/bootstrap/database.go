package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"

	"github.com/target/runconsole/config"
	"github.com/target/runconsole/internal/migrate"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// PostgresDSN builds the connection URL, escaping credentials.
func PostgresDSN(cfg config.DBConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// pingOrClose runs ping under connectTimeout and closes c when it fails.
func pingOrClose(ctx context.Context, c io.Closer, ping func(context.Context) error) error {
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	err := ping(pingCtx)
	if err == nil {
		return nil
	}
	if closeErr := c.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("close after failed ping: %w", closeErr))
	}
	return err
}

// ConnectDB opens and pings the PostgreSQL pool that stores preferences and saved queries.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", PostgresDSN(cfg.DBConfig))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBConfig.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DBConfig.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConfig.ConnMaxLifetime)

	if err = pingOrClose(ctx, db, db.PingContext); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "database connected",
			"host", cfg.DBConfig.Host,
			"port", cfg.DBConfig.Port,
			"database", cfg.DBConfig.Name,
		)
	}
	return db, nil
}

// ConnectRedis connects the client backing sessions and the upstream cache.
// Cluster, sentinel, and single-node deployments are all served by a
// redis.UniversalClient.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (redis.UniversalClient, error) {
	opts, desc, err := redisOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	client := redis.NewUniversalClient(opts)

	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err = pingOrClose(ctx, client, ping); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "redis connected", "addr", desc)
	}
	return client, nil
}

// redisOptions translates RedisConfig into UniversalOptions and a
// credential-free description for logs.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	switch {
	case cfg.UseCluster:
		addrs := normalizeAddrs(cfg.ClusterNodes)
		if len(addrs) == 0 && strings.TrimSpace(cfg.URI) != "" {
			single, _, err := redisOptions(config.RedisConfig{URI: cfg.URI, Password: cfg.Password})
			if err != nil {
				return nil, "", fmt.Errorf("parse redis cluster fallback: %w", err)
			}
			single.IsClusterMode = true
			return single, "cluster:" + strings.Join(single.Addrs, ","), nil
		}
		if len(addrs) == 0 {
			return nil, "", errors.New("redis cluster configuration requires at least one address")
		}
		return &redis.UniversalOptions{
			Addrs:         addrs,
			Password:      cfg.Password,
			IsClusterMode: true,
		}, "cluster:" + strings.Join(addrs, ","), nil

	case cfg.UseSentinel:
		nodes := normalizeAddrs(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		return &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
		}, "sentinel:" + cfg.SentinelMasterName, nil
	}

	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, "", errors.New("redis configuration requires a URI")
	}
	if !isRedisURL(uri) {
		return &redis.UniversalOptions{Addrs: []string{uri}, Password: cfg.Password}, uri, nil
	}

	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, "", fmt.Errorf("parse redis url: %w", err)
	}
	password := opt.Password
	if password == "" {
		password = cfg.Password
	}
	return &redis.UniversalOptions{
		Addrs:     []string{opt.Addr},
		Username:  opt.Username,
		Password:  password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, opt.Addr, nil
}

func normalizeAddrs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := migrate.RunWithLogger(ctx, db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.InfoContext(ctx, "database migrations completed")
	return nil
}

package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/runconsole/config"
	httpx "github.com/target/runconsole/internal/http"
)

// shutdownWaitTimeout is the maximum time to wait for in-flight requests on shutdown.
const shutdownWaitTimeout = 15 * time.Second

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewHTTPServer builds the server without starting it.
func NewHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	var compression *httpx.CompressionConfig
	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
		compression = &httpx.CompressionConfig{Level: appCfg.HTTP.CompressionLevel}
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Runs:         cfg.Services.Runs,
		Tokens:       cfg.Services.Tokens,
		Users:        cfg.Services.Users,
		Preferences:  cfg.Services.Preferences,
		SavedQueries: cfg.Services.SavedQueries,
		HealthChecks: HealthChecks(cfg.DB, cfg.RedisClient),
		CookieDomain: appCfg.HTTP.CookieDomain,
		PublicURL:    appCfg.HTTP.BaseURL,
		IdPLogoutURL: cfg.Services.IdPLogoutURL,
		Compression:  compression,
		Logger:       logger,
	})

	addr := appCfg.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Aggregating up to 2000 runs can take many upstream round trips.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}, nil
}

// HealthChecks returns readiness probes for the process's backing stores.
func HealthChecks(db *sql.DB, redisClient redis.UniversalClient) []httpx.HealthCheck {
	var checks []httpx.HealthCheck
	if db != nil {
		checks = append(checks, httpx.HealthCheck{Name: "postgres", Check: db.PingContext})
	}
	if redisClient != nil {
		checks = append(checks, httpx.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}
	return checks
}

// Serve runs server on ln until ctx is canceled, then shuts it down gracefully.
func Serve(ctx context.Context, server *http.Server, ln net.Listener, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownWaitTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	// Serve has returned ErrServerClosed once Shutdown completes.
	<-errCh
	logger.Info("HTTP server stopped")
	return nil
}

// RunHTTPServer listens on the configured address and serves until SIGINT or SIGTERM.
func RunHTTPServer(ctx context.Context, cfg *HTTPServerConfig) error {
	server, err := NewHTTPServer(cfg)
	if err != nil {
		return err
	}

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Serve(sigCtx, server, ln, cfg.Logger)
}

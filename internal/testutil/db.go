// Package testutil provides Postgres and Redis fixtures for integration tests.
// Fixtures skip the calling test when the infrastructure is unreachable unless
// TEST_REQUIRE_INFRA (or TEST_REQUIRE_DB / TEST_REQUIRE_REDIS) is set.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	// Import pgx driver for database/sql compatibility in tests.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/target/runconsole/internal/migrate"
)

// TestingTB is the subset of testing.TB the fixtures need.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// TestDBConfig holds configuration for the test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig reads TEST_DB_* variables. The port defaults to 55432
// (the docker-compose test profile); CI sets TEST_DB_PORT=5432.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "runconsole"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "runconsole"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "runconsole"),
	}
}

// DSN renders the config as a postgres URL.
func (c TestDBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + getEnvOrDefault("TEST_DB_SSL_MODE", "disable"),
	}
	return u.String()
}

// SetupTestDB returns a connection scoped to a fresh schema with all
// migrations applied. The schema is dropped when the test ends.
func SetupTestDB(t TestingTB) *sql.DB {
	t.Helper()

	cfg := DefaultTestDBConfig()
	admin := openAndPing(t, cfg.DSN(), requireDB())

	schema := schemaName()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		_ = admin.Close()
		t.Fatalf("create schema %s: %v", schema, err)
	}

	u, _ := url.Parse(cfg.DSN())
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	db := openAndPing(t, u.String(), true)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Close()
		if _, err := admin.ExecContext(ctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("warning: drop schema %s: %v", schema, err)
		}
		_ = admin.Close()
	})

	if err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("run migrations in %s: %v", schema, err)
	}
	return db
}

func openAndPing(t TestingTB, dsn string, required bool) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", dsn)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err != nil {
			_ = db.Close()
		}
	}
	if err != nil {
		if required {
			t.Fatal("test database not available:", err)
		}
		t.Skip("test database not available:", err)
	}
	return db
}

func schemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("t_%d", time.Now().UnixNano())
	}
	return "t_" + hex.EncodeToString(b)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

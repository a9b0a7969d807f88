// Package migrate applies the embedded SQL migrations that create the
// preference and saved-query tables.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// advisoryLockID serialises concurrent migrators (several replicas starting at once).
const advisoryLockID int64 = 0x72756e636f6e73

// Status describes one embedded migration.
type Status struct {
	Version string
	Applied bool
}

// Run applies all pending migrations using the default logger.
func Run(ctx context.Context, db *sql.DB) error {
	return RunWithLogger(ctx, db, slog.Default())
}

// RunWithLogger applies all pending migrations in version order. Each file runs
// in its own transaction. It is safe to call multiple times.
func RunWithLogger(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "migrate")

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err = conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockID); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		if _, unlockErr := conn.ExecContext(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, advisoryLockID); unlockErr != nil {
			logger.WarnContext(ctx, "release migration lock", "error", unlockErr)
		}
	}()

	if err = ensureVersionTable(ctx, conn); err != nil {
		return err
	}

	statuses, err := statusOn(ctx, conn)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		if s.Applied {
			continue
		}
		logger.InfoContext(ctx, "applying migration", "version", s.Version)
		if err = apply(ctx, conn, s.Version, logger); err != nil {
			return err
		}
	}
	return nil
}

// List reports every embedded migration and whether it has been applied.
func List(ctx context.Context, db *sql.DB) ([]Status, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if err = ensureVersionTable(ctx, conn); err != nil {
		return nil, err
	}
	return statusOn(ctx, conn)
}

func ensureVersionTable(ctx context.Context, conn *sql.Conn) error {
	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

func versions() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			out = append(out, strings.TrimSuffix(e.Name(), ".sql"))
		}
	}
	slices.Sort(out)
	return out, nil
}

func statusOn(ctx context.Context, conn *sql.Conn) ([]Status, error) {
	all, err := versions()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err = rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		applied[v] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}

	out := make([]Status, 0, len(all))
	for _, v := range all {
		out = append(out, Status{Version: v, Applied: applied[v]})
	}
	return out, nil
}

func apply(ctx context.Context, conn *sql.Conn, version string, logger *slog.Logger) error {
	body, err := migrationsFS.ReadFile("migrations/" + version + ".sql")
	if err != nil {
		return fmt.Errorf("read migration %s: %w", version, err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "rollback migration", "error", rbErr, "version", version)
		}
	}()

	if _, err = tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("exec migration %s: %w", version, err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("record migration %s: %w", version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", version, err)
	}
	return nil
}

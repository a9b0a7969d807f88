package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/target/runconsole/internal/bootstrap"
	"github.com/target/runconsole/internal/migrate"
)

const defaultMigrationTimeout = 5 * time.Minute

func newMigrateCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if timeout <= 0 {
				return errors.New("--timeout must be greater than zero")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{DBConfig: a.cfg.Postgres, Logger: a.logger})
			if err != nil {
				return fmt.Errorf("connect db: %w", err)
			}
			defer func() {
				if closeErr := db.Close(); closeErr != nil {
					a.logger.Warn("db close failed", "error", closeErr)
				}
			}()

			a.logger.Info("running database migrations")
			if err := bootstrap.RunMigrations(ctx, db, a.logger); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			a.logger.Info("migrations completed successfully")
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete")

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List embedded migrations and whether each is applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := bootstrap.ConnectDB(cmd.Context(), bootstrap.DatabaseConfig{DBConfig: a.cfg.Postgres, Logger: a.logger})
			if err != nil {
				return fmt.Errorf("connect db: %w", err)
			}
			defer func() {
				if closeErr := db.Close(); closeErr != nil {
					a.logger.Warn("db close failed", "error", closeErr)
				}
			}()

			statuses, err := migrate.List(cmd.Context(), db)
			if err != nil {
				return fmt.Errorf("list migrations: %w", err)
			}
			return printMigrationStatus(cmd.OutOrStdout(), statuses)
		},
	})
	return cmd
}

func printMigrationStatus(w io.Writer, statuses []migrate.Status) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "VERSION\tAPPLIED\n"); err != nil {
		return err
	}
	pending := 0
	for _, s := range statuses {
		applied := "yes"
		if !s.Applied {
			applied = "no"
			pending++
		}
		if err := writef(tw, "%s\t%s\n", s.Version, applied); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\n%d migration(s), %d pending\n", len(statuses), pending)
}

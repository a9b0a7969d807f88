// Command runconsole-admin is the operator CLI for the run console.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/target/runconsole/config"
	"github.com/target/runconsole/internal/bootstrap"
)

// app is the state shared by every subcommand. Config is loaded lazily so
// that help and flag errors work without an environment.
type app struct {
	logger *slog.Logger
	out    io.Writer
	cfg    config.AppConfig

	loadConfig func() (config.AppConfig, error)
}

func main() {
	logger := bootstrap.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{logger: logger, out: os.Stdout, loadConfig: bootstrap.LoadConfig}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		logger.ErrorContext(ctx, "command failed", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "runconsole-admin",
		Short: "Operator tooling for the run console",
		Example: `  # Apply pending migrations
  runconsole-admin migrate

  # Failed runs from the last six hours
  runconsole-admin runs --since 6h --result FAIL

  # Force a user to sign in again
  runconsole-admin sessions revoke 3f2a...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetOut(a.out)

	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newRunsCmd(a))
	root.AddCommand(newSessionsCmd(a))
	return root
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

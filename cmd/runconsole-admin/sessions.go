package main

import (
	"fmt"

	"github.com/spf13/cobra"

	redisadapter "github.com/target/runconsole/internal/adapters/redis"
	"github.com/target/runconsole/internal/bootstrap"
)

func newSessionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage console login sessions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "revoke <session-id>",
		Short: "Delete a session so its holder has to sign in again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := bootstrap.ConnectRedis(cmd.Context(), bootstrap.DatabaseConfig{
				RedisConfig: a.cfg.Redis,
				Logger:      a.logger,
			})
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			defer func() {
				if closeErr := client.Close(); closeErr != nil {
					a.logger.Warn("redis close failed", "error", closeErr)
				}
			}()

			store := redisadapter.NewSessionStore(client, redisadapter.SessionStoreOptions{KeyPrefix: a.cfg.Redis.KeyPrefix})
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("revoke session: %w", err)
			}
			return writef(cmd.OutOrStdout(), "session %s revoked\n", args[0])
		},
	})
	return cmd
}

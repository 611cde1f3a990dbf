package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"drainadopt/internal/platform/config"
	"drainadopt/internal/platform/logger"
)

// main hands off to the cobra root. Business logic lives in the internal
// service packages; this package only wires them.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := config.FromEnv()

	cmd := &cobra.Command{
		Use:           "drainadopt",
		Short:         "Storm drain adoption service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "HTTP listen address")
	cmd.PersistentFlags().StringVar(&cfg.Postgres.URL, "database-url", cfg.Postgres.URL, "Postgres URL; empty runs on in-memory stores")

	cmd.AddCommand(newServeCommand(&cfg))
	cmd.AddCommand(newRelayCommand(&cfg))
	cmd.AddCommand(newSchemaCommand(&cfg))
	return cmd
}

func newServeCommand(cfg *config.Config) *cobra.Command {
	var embedRelay bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when Kafka is configured, the outbox relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New(cfg.Server.IsDev())
			return serve(cmd.Context(), *cfg, log, embedRelay)
		},
	}
	cmd.Flags().BoolVar(&embedRelay, "relay", true, "run the outbox relay in-process when Kafka is configured")
	return cmd
}

func newRelayCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Run only the notification outbox relay against Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New(cfg.Server.IsDev())
			return runRelayOnly(cmd.Context(), *cfg, log)
		},
	}
}

func newSchemaCommand(cfg *config.Config) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the Postgres schema, or apply it with --apply",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !apply {
				_, err := fmt.Fprint(cmd.OutOrStdout(), postgresSchema())
				return err
			}
			return applySchema(cmd.Context(), *cfg)
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "apply the schema to --database-url")
	return cmd
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mytheresa/item-processing-api/app/database"
	"github.com/mytheresa/item-processing-api/app/metrics"
	"github.com/mytheresa/item-processing-api/app/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Open the store, seed it when empty and serve the HTTP API until
SIGINT or SIGTERM, then drain in-flight requests.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	e.log.WithField("environment", e.cfg.Environment).Info("starting item processing api")

	if e.cfg.Database.SeedOnStart {
		// A failed seed leaves an empty store; the API is still usable.
		if _, err := database.NewSeeder(e.db, e.log).Seed(ctx); err != nil {
			e.log.WithError(err).Error("seeding failed, continuing with current data")
		}
	}

	handler, err := server.NewRouter(ctx, e.cfg, e.db, e.log, metrics.New())
	if err != nil {
		return err
	}
	return server.New(e.cfg.Server, handler, e.log).Run(ctx)
}

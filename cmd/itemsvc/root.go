package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mytheresa/item-processing-api/app/config"
	"github.com/mytheresa/item-processing-api/app/database"
	"github.com/mytheresa/item-processing-api/app/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// configPath is the --config flag; empty falls back to ITEMS_CONFIG.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "itemsvc",
	Short: "Item Processing API",
	Long: `itemsvc stores items (name, category, value, rating) and ranks them by a
category-weighted score. Run "itemsvc serve" to start the HTTP API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: $ITEMS_CONFIG)")
}

// env is what every subcommand needs: configuration, a logger and a migrated store.
type env struct {
	cfg *config.Config
	log *logrus.Logger
	db  *gorm.DB
}

func bootstrap(ctx context.Context) (*env, error) {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database, logging.NewGormLogger(log))
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"driver":      cfg.Database.Driver,
	}).Debug("store ready")
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if err := database.Close(e.db); err != nil {
		e.log.WithError(err).Warn("failed to close database")
	}
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

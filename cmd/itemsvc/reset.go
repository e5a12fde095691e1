package main

import (
	"errors"

	"github.com/mytheresa/item-processing-api/app/database"
	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all items and reload the sample data",
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Allow resetting a production store")
}

func runReset(cmd *cobra.Command, _ []string) error {
	e, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	if e.cfg.IsProduction() && !resetForce {
		return errors.New("refusing to reset a production store without --force")
	}

	if err := database.NewSeeder(e.db, e.log).Reset(cmd.Context()); err != nil {
		return err
	}
	printf(cmd, "Database has been successfully reset and reseeded.\n")
	return nil
}

package main

import (
	"github.com/mytheresa/item-processing-api/app/database"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample items into an empty store",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	e, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	n, err := database.NewSeeder(e.db, e.log).Seed(cmd.Context())
	if err != nil {
		return err
	}
	printf(cmd, "inserted %d items\n", n)
	return nil
}

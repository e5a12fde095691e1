package main

import (
	"encoding/json"

	"github.com/mytheresa/item-processing-api/app/process"
	"github.com/mytheresa/item-processing-api/app/scoring"
	"github.com/mytheresa/item-processing-api/models"
	"github.com/spf13/cobra"
)

var (
	processTopN     int
	processCategory string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Rank stored items and print the result as JSON",
	RunE:  runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().IntVar(&processTopN, "top-n", 0, "Number of ranked items to print (default: scoring.default_top_n)")
	processCmd.Flags().StringVar(&processCategory, "category", "", "Only score items in this category")
}

func runProcess(cmd *cobra.Command, _ []string) error {
	e, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	opts := scoring.Options{TopN: e.cfg.Scoring.DefaultTopN, Category: processCategory}
	if cmd.Flags().Changed("top-n") {
		opts.TopN = processTopN
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	weights, err := e.cfg.Weights()
	if err != nil {
		return err
	}

	items, err := models.NewItemsRepository(e.db).GetAllItems(cmd.Context(), models.ItemFilters{Category: opts.Category})
	if err != nil {
		return err
	}
	res := scoring.NewEngine(weights).Rank(items, opts.TopN)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(process.NewResponse(res))
}

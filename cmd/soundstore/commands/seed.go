package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/soundstore/soundstore/cmd/soundstore/output"
	"github.com/soundstore/soundstore/internal/database"
)

// seedCmd inserts the baseline catalog
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the baseline category catalog",
	Long: `Insert the baseline categories and subcategories. Rows that already
exist are left alone, so reseeding is safe.

Examples:
  soundstore seed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func runSeed(ctx context.Context) error {
	db, err := database.Connect(ctx)
	if err != nil {
		output.Error("Connection failed: %v", err)
		return err
	}
	defer db.Runtime().Close()

	output.Info("Seeding catalog...")
	if err := database.Seed(ctx, db); err != nil {
		output.Error("Seeding failed: %v", err)
		return err
	}

	output.Success("Baseline catalog in place")
	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

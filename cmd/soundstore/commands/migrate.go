package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/soundstore/soundstore/cmd/soundstore/output"
	"github.com/soundstore/soundstore/internal/database"
	"github.com/soundstore/soundstore/pkg/registry"
)

// migrateCmd creates the schema from registered model metadata
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long: `Create every table of the catalog and account schema, in dependency
order with ON DELETE SET NULL on the orphaning references. Safe to run
repeatedly; existing tables are left alone.

Examples:
  soundstore migrate
  soundstore migrate -v`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func runMigrate(ctx context.Context) error {
	db, err := database.Connect(ctx)
	if err != nil {
		output.Error("Connection failed: %v", err)
		return err
	}
	defer db.Runtime().Close()

	output.Info("Creating schema...")
	if err := database.CreateSchema(ctx, db); err != nil {
		output.Error("Schema creation failed: %v", err)
		return err
	}

	if verbose {
		for _, table := range registry.All() {
			output.Muted("  %s (%d columns)", table.Name, len(table.Columns))
		}
	}

	output.Success("Schema is up to date (%d tables)", len(registry.All()))
	return nil
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

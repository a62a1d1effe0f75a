package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "soundstore",
	Short: "SoundStore - catalog and account backend",
	Long: `SoundStore manages an audio gear catalog and its customer accounts
on PostgreSQL.

Commands:
  migrate - create the database schema from the registered models
  seed    - insert the baseline category catalog`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

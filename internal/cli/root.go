package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/billheat/internal/infrastructure/config"
)

var rootCmd = &cobra.Command{
	Use:   "billheat",
	Short: "Monthly phone bill summaries with heat-map tables",
	Long: `billheat renders monthly phone bill summaries.

Usage tables are colored from red to green by rank, totals are compared with
the previous month, and each browser keeps its own dark mode preference.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotEnv()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(themeCmd)
}

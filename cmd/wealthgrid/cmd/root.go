package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wealthgrid",
	Short: "Track money across four buckets and keep it in sync",
	Long: `Wealthgrid keeps a ledger split over four buckets (emergency, daily,
investment and growth), compares it with a target allocation, and keeps the
local view in sync with a remote record store.

It provides tools for:
  - Onboarding from questionnaire answers, with one-time seeding of liquid assets
  - Recording and deleting income and expenses
  - Comparing actual balances with the target wealth grid
  - Reading curated and generated advisory cards

The remote store is a local SQLite file, a PostgREST-style HTTP API, or
in-memory for trying things out.`,
	SilenceUsage: true,
}

var (
	configPath  string
	showMetrics bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $WEALTHGRID_CONFIG or ./wealthgrid.yaml)")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print sync metrics to stderr when done")
}

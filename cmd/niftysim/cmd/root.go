package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "niftysim",
	Short: "An intraday NIFTY 50 option trading simulator",
	Long: `Niftysim is an intraday index-option trading simulator written in Go.

It provides tools for:
  - Replaying a trading day of CE/PE entries and price ticks from a config file
  - Automatic exits: stop loss, target, trailing stop, time limit and market close
  - Portfolio risk limits: per-trade risk cap, position caps, CE/PE balance, daily loss limit
  - Strategy recommendations per session time slot
  - Recording closures and day snapshots to CSV or SQLite journals`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Optional .env for journal paths and account overrides.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity to stderr")
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

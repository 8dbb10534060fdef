package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fxbot",
	Short: "An indicator-driven FX trading bot and backtester",
	Long: `Fxbot turns a stream of prices into trading decisions.

It provides tools for:
  - Backtesting EMA/RSI/Stochastic strategies over CSV price history
  - Running a live signal loop against polled market quotes
  - Risk-based position sizing with protective stops and targets
  - Journaling signals and trades to CSV or SQLite
  - Performance metrics: win rate, profit factor, max drawdown`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

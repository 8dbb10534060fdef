package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/fxbot/backtest"
	"github.com/rustyeddy/fxbot/config"
	"github.com/rustyeddy/fxbot/feed"
	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a CSV price history through a strategy",
	Long: `Backtest replays historical close prices through the configured strategy
and prints a performance report.

Strategy variants: ema-cross, rsi, ema-rsi, ema-stochastic.

Example:
  fxbot backtest --prices data/eurusd.csv --strategy ema-rsi --fast 13 --slow 20`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btPricesPath string
	btColumn     string
	btStrategy   string
	btFast       int
	btSlow       int
	btBalance    float64
	btCloseEnd   bool
	btReportPath string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "path to config file (defaults apply when omitted)")
	backtestCmd.Flags().StringVarP(&btPricesPath, "prices", "p", "", "path to price CSV (required)")
	backtestCmd.Flags().StringVar(&btColumn, "column", "Close", "price column name")
	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "", "strategy variant override")
	backtestCmd.Flags().IntVar(&btFast, "fast", 0, "fast EMA period override")
	backtestCmd.Flags().IntVar(&btSlow, "slow", 0, "slow EMA period override")
	backtestCmd.Flags().Float64VarP(&btBalance, "balance", "b", 0, "initial balance override")
	backtestCmd.Flags().BoolVar(&btCloseEnd, "close-end", true, "close open positions at the last price")
	backtestCmd.Flags().StringVarP(&btReportPath, "report", "r", "", "also write the report to this file")

	backtestCmd.MarkFlagRequired("prices")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(btConfigPath)
	if err != nil {
		return err
	}
	if btStrategy != "" {
		cfg.Strategy.Variant = btStrategy
	}
	if btFast > 0 {
		cfg.Strategy.FastPeriod = btFast
	}
	if btSlow > 0 {
		cfg.Strategy.SlowPeriod = btSlow
	}
	if btBalance > 0 {
		cfg.Risk.InitialBalance = btBalance
	}

	prices, err := feed.LoadCSVPrices(btPricesPath, btColumn)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	jnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jnl.Close()

	runner := &backtest.Runner{
		Strategy:   cfg.Strategy,
		Risk:       cfg.Risk,
		Journal:    jnl,
		Step:       time.Minute,
		CloseAtEnd: btCloseEnd,
	}

	fmt.Printf("Backtesting %s over %d prices (%s)\n\n", cfg.Strategy.Variant, len(prices), btPricesPath)

	rep, err := runner.Run(prices)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	out, err := rep.Render()
	if err != nil {
		return err
	}
	fmt.Print(out)

	if btReportPath != "" {
		if err := rep.WriteFile(btReportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("\nReport written to %s\n", btReportPath)
	}
	return nil
}

// loadConfig reads path when given, otherwise starts from defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package cmd

import (
	"fmt"

	"github.com/rustyeddy/fxbot/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage fxbot configuration files.

Examples:
  fxbot config init --output fxbot.yaml
  fxbot config validate --file fxbot.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "fxbot.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.Default().SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  fxbot live --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Symbol: %s\n", cfg.Symbol)
	fmt.Printf("  Strategy: %s (EMA %d/%d, RSI %d)\n",
		cfg.Strategy.Variant, cfg.Strategy.FastPeriod, cfg.Strategy.SlowPeriod, cfg.Strategy.RSIPeriod)
	fmt.Printf("  Risk: %.1f%% per trade, $%.2f starting balance\n",
		cfg.Risk.RiskPerTrade*100, cfg.Risk.InitialBalance)
	fmt.Printf("  Feed: %s\n", cfg.Feed.Type)
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}

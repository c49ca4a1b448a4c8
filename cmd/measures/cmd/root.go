package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/measures/config"
	"github.com/rustyeddy/measures/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "measures",
	Short: "Scenario risk measures for bond futures and deposits",
	Long: `Measures evaluates analytical measures over a portfolio of trades.

It provides tools for:
  - Calculating present value, PV01, par rates and prices per scenario
  - Listing the market data a portfolio requires
  - Recording every run to a SQLite or CSV journal
  - Querying recorded runs`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	log      zerolog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "engine config file, YAML or JSON (default built-in)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		cfg = config.Default()
	} else {
		c, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log = logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	return nil
}

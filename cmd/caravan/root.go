package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"caravan/internal/bot"
	"caravan/internal/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "caravan",
	Short: "Caravan - rules engine and bot arena for the caravan card game",
	Long: `Caravan runs the caravan card game engine without a client.

It can pit any two bot strategies against each other for many rounds and
report the results, and it can check configuration files used by the
Nakama server module.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the --config file and builds the logger it describes.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if cfg.Bot.IdentitiesPath != "" {
		if err := bot.LoadIdentities(cfg.Bot.IdentitiesPath); err != nil {
			return nil, nil, err
		}
	}
	return cfg, cfg.Logging.NewLogger(os.Stderr), nil
}

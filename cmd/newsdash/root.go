package main

import (
	"fmt"

	"newsdash/config"
	"newsdash/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	// cfg is loaded before every subcommand runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "newsdash",
	Short: "Keyword news search, dedupe and summary dashboard",
	Long: `newsdash queries Google News RSS, NewsAPI, SerpApi and your own RSS feeds
for a keyword, merges and deduplicates the results, optionally fetches each
article and summarizes it, and prints, serves or exports the table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Logging.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			loaded.Logging.Format = logFormat
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}
		logger.SetupWriter(cmd.ErrOrStderr(), loaded.Logging.Level, loaded.Logging.Format)
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console or json)")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoice-extractor/internal/config"
	"invoice-extractor/internal/logger"
)

var version = "0.3.0"

// cfg is loaded once before any subcommand runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Extract and normalize invoices from a Pohoda export",
	Long: `extractor reads the invoice table (FA) of a Pohoda accounting export and
turns every row into a canonical invoice record with per-row diagnostics.

Configuration is read from the environment and an optional .env file:
  DB_DRIVER        mysql, pgx or sqlite
  DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_PARAMS
  DB_PATH          database file for sqlite
  SOURCE_TABLE     invoice table name (default FA)
  SOURCE_CHARSET   utf-8 (default) or windows-1250`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			if setupErr := logger.Setup(logger.DefaultConfig()); setupErr != nil {
				return fmt.Errorf("failed to initialize logger: %w", setupErr)
			}
			return fmt.Errorf("error loading config: %w", err)
		}
		if err := logger.Setup(loaded.Log); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

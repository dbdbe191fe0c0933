package main

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"invoice-extractor/internal/config"
	"invoice-extractor/internal/database"
	"invoice-extractor/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate up|down|version",
	Short: "Manage the MySQL staging schema the export is loaded into",
	Args:  cobra.ExactArgs(1),
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().Int("steps", 0, "Number of migration steps (0 means all)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("migrate")
	steps, _ := cmd.Flags().GetInt("steps")
	command := args[0]

	if cfg.Database.Driver != config.DriverMySQL {
		return fmt.Errorf("migrations are only supported for driver %s", config.DriverMySQL)
	}
	if err := database.EnsureDatabase(cfg); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	m, err := migrate.New(
		fmt.Sprintf("file://%s", cfg.Migration.Dir),
		cfg.GetMigrationDBURL(),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer m.Close()

	switch command {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "version":
		version, dirty, verErr := m.Version()
		if verErr != nil {
			if errors.Is(verErr, migrate.ErrNilVersion) {
				log.Info().Msg("No migrations have been applied yet")
				return nil
			}
			return fmt.Errorf("failed to get version: %w", verErr)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d (dirty: %v)\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("invalid migration command: %s", command)
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("No migration changes to apply")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info().Str("command", command).Int("steps", steps).Msg("Migration completed successfully")
	return nil
}

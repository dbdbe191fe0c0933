package database

import (
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"invoice-extractor/internal/config"
	"invoice-extractor/internal/logger"
)

// NewConnection opens the source database for the configured driver and
// verifies it answers a ping.
func NewConnection(cfg *config.Config) (*sqlx.DB, error) {
	log := logger.WithComponent("database")

	db, err := sqlx.Connect(cfg.Database.Driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s database: %w", cfg.Database.Driver, err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	log.Info().Str("driver", cfg.Database.Driver).Msg("Successfully connected to database")
	return db, nil
}

// EnsureDatabase creates the MySQL schema named in cfg when it does not
// exist yet. It is used before running migrations against a staging copy.
// Other drivers are left alone.
func EnsureDatabase(cfg *config.Config) error {
	if cfg.Database.Driver != config.DriverMySQL {
		return nil
	}
	log := logger.WithComponent("database")

	db, err := sqlx.Connect(config.DriverMySQL, cfg.GetDSN())
	if err == nil {
		return db.Close()
	}
	if !strings.Contains(err.Error(), "Unknown database") {
		return fmt.Errorf("error pinging database: %w", err)
	}

	log.Warn().Str("database", cfg.Database.Name).Msg("Database does not exist, attempting to create it")

	rootDB, err := sqlx.Connect(config.DriverMySQL, getRootDSN(cfg))
	if err != nil {
		return fmt.Errorf("error connecting to MySQL root: %w", err)
	}
	defer rootDB.Close()

	_, err = rootDB.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", cfg.Database.Name))
	if err != nil {
		return fmt.Errorf("error creating database: %w", err)
	}

	log.Info().Str("database", cfg.Database.Name).Msg("Successfully created database")
	return nil
}

func getRootDSN(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/?parseTime=true",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
	)
}

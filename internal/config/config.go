package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"invoice-extractor/internal/logger"
)

type Config struct {
	ServerAddress string
	Environment   string
	Database      DatabaseConfig
	Migration     MigrationConfig
	Source        SourceConfig
	Log           logger.LogConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Params   string
	Path     string
}

type MigrationConfig struct {
	Dir string
}

// SourceConfig describes the legacy table extraction runs read from
type SourceConfig struct {
	Table      string
	Charset    string
	LayoutFile string
	MaxRows    int
}

// DefaultSourceCharset matches the utf8mb4 staging schema. Raw 8-bit
// exports need SOURCE_CHARSET=windows-1250.
const DefaultSourceCharset = "utf-8"

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		ServerAddress: v.GetString("SERVER_ADDRESS"),
		Environment:   v.GetString("ENVIRONMENT"),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Params:   v.GetString("DB_PARAMS"),
			Path:     v.GetString("DB_PATH"),
		},
		Migration: MigrationConfig{
			Dir: v.GetString("MIGRATION_DIR"),
		},
		Source: SourceConfig{
			Table:      v.GetString("SOURCE_TABLE"),
			Charset:    strings.ToLower(v.GetString("SOURCE_CHARSET")),
			LayoutFile: v.GetString("SOURCE_LAYOUT_FILE"),
			MaxRows:    v.GetInt("EXTRACT_MAX_ROWS"),
		},
		Log: logger.LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			TimeFormat: v.GetString("LOG_TIME_FORMAT"),
			Output:     v.GetString("LOG_OUTPUT"),
		},
	}

	if config.Database.Port == 0 {
		config.Database.Port = defaultPort(config.Database.Driver)
	}
	if config.Database.Params == "" && config.Database.Driver == DriverMySQL {
		config.Database.Params = "parseTime=true"
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	def := logger.DefaultConfig()

	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("MIGRATION_DIR", "migrations")
	v.SetDefault("SOURCE_TABLE", "FA")
	v.SetDefault("SOURCE_CHARSET", DefaultSourceCharset)
	v.SetDefault("EXTRACT_MAX_ROWS", 0)
	v.SetDefault("LOG_LEVEL", def.Level)
	v.SetDefault("LOG_FORMAT", def.Format)
	v.SetDefault("LOG_TIME_FORMAT", def.TimeFormat)
	v.SetDefault("LOG_OUTPUT", def.Output)
}

func defaultPort(driver string) int {
	if driver == DriverPostgres {
		return 5432
	}
	return 3306
}

// Validate checks driver-specific requirements
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required for driver %s", c.Database.Driver)
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required for driver %s", c.Database.Driver)
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for driver %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Source.Charset {
	case "windows-1250", "cp1250", "utf-8", "utf8":
	default:
		return fmt.Errorf("unsupported SOURCE_CHARSET %q", c.Source.Charset)
	}

	if c.Source.MaxRows < 0 {
		return fmt.Errorf("EXTRACT_MAX_ROWS must not be negative")
	}
	return nil
}

// GetDSN returns the data source name for the configured driver
func (c *Config) GetDSN() string {
	switch c.Database.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
		)
		if c.Database.Params != "" {
			dsn += "?" + c.Database.Params
		}
		return dsn
	case DriverSQLite:
		return c.Database.Path
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
			c.Database.Params,
		)
	}
}

// GetMigrationDBURL returns the database URL for migrations
func (c *Config) GetMigrationDBURL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%d)/%s?%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Params,
	)
}

package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-extractor/internal/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "pohoda.db"),
		},
	}
}

func TestNewConnection_SQLite(t *testing.T) {
	db, err := NewConnection(sqliteConfig(t))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, config.DriverSQLite, db.DriverName())

	var one int
	require.NoError(t, db.Get(&one, "SELECT 1"))
	assert.Equal(t, 1, one)
}

func TestEnsureDatabase_SkipsNonMySQL(t *testing.T) {
	assert.NoError(t, EnsureDatabase(sqliteConfig(t)))
}

func TestGetRootDSN(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		User: "root", Password: "secret", Host: "db", Port: 3306, Name: "pohoda",
	}}
	assert.Equal(t, "root:secret@tcp(db:3306)/?parseTime=true", getRootDSN(cfg))
}

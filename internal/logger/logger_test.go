package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONFileWithComponent(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "extractor.log")
	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: path}))

	l := WithComponent("normalizer")
	l.Debug().Int("row_index", 3).Msg("Row diagnostic")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "normalizer", entry["component"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, 3.0, entry["row_index"])
}

func TestSetup_InvalidLevel(t *testing.T) {
	assert.Error(t, Setup(LogConfig{Level: "loud"}))
}

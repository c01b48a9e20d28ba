package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homeledger.log")
	log, closer, err := New("debug", "json", path)
	require.NoError(t, err)

	log.Debug().Str("account_id", "a1").Msg("account created")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"account_id":"a1"`)
	assert.Contains(t, string(data), `"message":"account created"`)
}

func TestNewFallsBackToInfo(t *testing.T) {
	log, closer, err := New("loud", "console", "")
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

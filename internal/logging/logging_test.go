package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "grabbit.log")

	l, err := New(Options{File: path, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)
	l.Info().Str("session", "temp-1").Msg("task submitted")
	l.Debug().Msg("hidden at info level")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	assert.Equal(t, "info", gjson.Get(lines[0], "level").String())
	assert.Equal(t, "task submitted", gjson.Get(lines[0], "message").String())
	assert.Equal(t, "temp-1", gjson.Get(lines[0], "session").String())
	assert.Equal(t, l.RunID, gjson.Get(lines[0], "run").String())
	assert.True(t, gjson.Get(lines[0], "time").Exists())
}

func TestNewVerboseConsole(t *testing.T) {
	var console bytes.Buffer

	l, err := New(Options{Verbose: true, Console: &console})
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())

	l.Debug().Msg("grabbit-browse finished")
	assert.Contains(t, console.String(), "grabbit-browse finished")
	assert.NoError(t, l.Close())
}

func TestNewLevel(t *testing.T) {
	l, err := New(Options{Level: "WARN", File: filepath.Join(t.TempDir(), "g.log")})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
	assert.NoError(t, l.Close())

	_, err = New(Options{Level: "chatty"})
	assert.ErrorContains(t, err, "invalid log level")
}

func TestNewWithoutSinks(t *testing.T) {
	l, err := New(Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, l.RunID)
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogLevelFromString(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, GetLogLevelFromString("DEBUG"))
	assert.Equal(t, zerolog.InfoLevel, GetLogLevelFromString("info"))
	assert.Equal(t, zerolog.ErrorLevel, GetLogLevelFromString("error"))
	assert.Equal(t, zerolog.WarnLevel, GetLogLevelFromString("bogus"))
}

func TestInitLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "modkeeper.log")
	InitLogger(path, "info", false)

	Debugf("hidden %d", 1)
	Infof("installed %s", "Alpha")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "installed Alpha")
	assert.NotContains(t, string(data), "hidden")
}

func TestInitLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, "debug")

	l := With("installer")
	l.Info().Msg("toggled")
	Warn("careful")

	out := buf.String()
	assert.Contains(t, out, `"component":"installer"`)
	assert.Contains(t, out, "toggled")
	assert.Contains(t, out, "careful")
}

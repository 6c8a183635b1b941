package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "info", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	log.Info("reading generated", zap.String("title", "De T-Rex"))
	log.Debug("hidden")
	require.NoError(t, log.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "reading generated", entry["msg"])
	assert.Equal(t, "De T-Rex", entry["title"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry, "caller")
}

func TestNew_ConsoleDebug(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Output: &buf})
	require.NoError(t, err)

	log.Debug("prompt body", zap.Int("bytes", 42))
	require.NoError(t, log.Sync())

	assert.Contains(t, buf.String(), "debug")
	assert.Contains(t, buf.String(), "prompt body")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lezen.log")
	log, err := New(Config{Format: FormatJSON, File: path})
	require.NoError(t, err)

	log.Warn("content accepted with warning")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "content accepted with warning")
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

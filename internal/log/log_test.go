package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger := New(Config{})
	require.NotNil(t, logger)
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelDebug})
	logger.Info("hello", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "key=value")
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelInfo, JSON: true})
	logger.Info("hello", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelInfo})
	logger.Debug("filtered out")
	logger.Info("kept")

	out := buf.String()
	assert.NotContains(t, out, "filtered out")
	assert.Contains(t, out, "kept")
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	require.NotNil(t, logger)

	// Must not panic and must not write anywhere visible.
	logger.Info("discarded")
	logger.Error("also discarded")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, Config{Level: slog.LevelInfo})
	logger.With("component", "store").Info("scoped")

	assert.Contains(t, buf.String(), "component=store")
}

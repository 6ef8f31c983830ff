package logging

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

func TestNewWithWriterHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = "warn"
	log := NewWithWriter(cfg, zapcore.AddSync(&buf))

	log.Info("hidden")
	log.Warn("shown", zap.Int("n", 1))
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "loud"}, zapcore.AddSync(&buf))
	log.Debug("debug")
	log.Info("info")

	assert.NotContains(t, buf.String(), "debug")
	assert.Contains(t, buf.String(), "info")
}

func TestLogFileIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.log")
	cfg := DefaultConfig()
	cfg.LogFile = path

	var console bytes.Buffer
	log := NewWithWriter(cfg, zapcore.AddSync(&console))
	log.Info("step", zap.String("mode", "walk"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "step", entry["msg"])
	assert.Equal(t, "walk", entry["mode"])
}

package infrastructure

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weatherlog.app/internal/ports"
)

func TestSlogLoggerAdapter_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogLoggerAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	adapter.Warn("Failed to record weather lookup",
		ports.F("userID", uint(7)),
		ports.F("error", stderrors.New("disk full")))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Failed to record weather lookup", entry["msg"])
	assert.Equal(t, float64(7), entry["userID"])
	assert.Equal(t, "disk full", entry["error"])
}

func TestSlogLoggerAdapter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogLoggerAdapter(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	adapter.Debug("hidden")
	assert.Empty(t, buf.String())

	adapter.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSlogLoggerAdapter_ZeroValueUsesDefault(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	(&SlogLoggerAdapter{}).Info("via default", ports.F("k", "v"))

	assert.Contains(t, buf.String(), "via default")
	assert.Contains(t, buf.String(), "k=v")
}

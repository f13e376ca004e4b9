package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseLevel(tc.in), tc.in)
	}
}

func TestNew_DevWritesText(t *testing.T) {
	var buf bytes.Buffer
	log := New("dev", "debug", &buf)

	log.Debug("dbg", "a", 1)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=dbg")
	assert.Contains(t, buf.String(), "a=1")
}

func TestNew_ProdWritesJSONAndFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New("prod", "warn", &buf)

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.With("req_id", "123").Warn("kept", "k", "v")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "123", rec["req_id"])
	assert.Equal(t, "v", rec["k"])
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}

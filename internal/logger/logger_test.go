package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("orderup-cart", "info", &buf)

	l.Debug("hidden")
	l.Info("visible", slog.Int("items", 2))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "orderup-cart", entry["service"])
	assert.Equal(t, "visible", entry["msg"])
	assert.EqualValues(t, 2, entry["items"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestWithContext_AddsIDs(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("svc", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "req-1")
	ctx = WithSession(ctx, "pizza", "sess-9")
	WithContext(ctx, base).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["correlation_id"])
	assert.Equal(t, "pizza", entry["tenant_id"])
	assert.Equal(t, "sess-9", entry["session_id"])
}

func TestFromContext(t *testing.T) {
	fallback := slog.Default()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	scoped := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := NewContext(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx, fallback))
}

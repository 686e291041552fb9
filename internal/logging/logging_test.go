package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerFormats(t *testing.T) {
	t.Run("text output uses key=value pairs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelInfo, "text")

		logger.Info("trip planned", "trip_id", "abc")

		assert.Contains(t, buf.String(), "msg=\"trip planned\"")
		assert.Contains(t, buf.String(), "trip_id=abc")
	})

	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelInfo, "JSON")

		logger.Info("trip planned")

		assert.Contains(t, buf.String(), `"msg":"trip planned"`)
	})

	t.Run("level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, ParseLevel("warn"), "text")

		logger.Info("hidden")

		assert.Empty(t, buf.String())
	})
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "json")

	LogError(logger, "route fetch failed", errors.New("boom"), slog.String("leg", "pickup"))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"leg":"pickup"`)

	// nil logger is a no-op
	LogError(nil, "ignored", errors.New("boom"))
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "text")

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

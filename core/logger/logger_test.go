package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/webbridge/core/logger"
)

type ctxKey struct{}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json output with attrs", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithAttr(slog.String("service", "bridge")),
		)

		log.Info("hello", logger.Component("test"))

		out := buf.String()
		assert.Contains(t, out, `"msg":"hello"`)
		assert.Contains(t, out, `"component":"test"`)
		assert.Contains(t, out, `"service":"bridge"`)
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))

		log.Info("dropped")
		log.Warn("kept")

		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("development preset logs debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("bridge"), logger.WithOutput(&buf))

		log.Debug("details")

		assert.Contains(t, buf.String(), "details")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("context value extraction", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithProduction("bridge"),
			logger.WithOutput(&buf),
			logger.WithContextValue("request_id", ctxKey{}),
		)

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.InfoContext(ctx, "with context")
		log.InfoContext(context.Background(), "without context")

		out := buf.String()
		assert.Contains(t, out, `"request_id":"req-1"`)
		assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("request_id")))
	})
}

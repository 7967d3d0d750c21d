package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/logging"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func newWriter(t *testing.T) *jsonWriter {
	return &jsonWriter{
		t:    t,
		data: make([]string, 0),
	}
}

type jsonWriter struct {
	t    *testing.T
	data []string
}

func (w *jsonWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.data = append(w.data, string(p))
	return len(p), nil
}

func (w *jsonWriter) PopWithoutTime() (map[string]any, bool) {
	w.t.Helper()
	if len(w.data) == 0 {
		return nil, false
	}

	lastIndex := len(w.data) - 1
	val := w.data[lastIndex]
	w.data = w.data[:lastIndex]

	var result map[string]any
	err := json.Unmarshal([]byte(val), &result)
	require.NoError(w.t, err)

	timeStr, ok := result["time"].(string)
	require.True(w.t, ok)

	timeTime, err := time.Parse(time.RFC3339, timeStr)
	require.NoError(w.t, err)
	require.WithinDuration(w.t, time.Now(), timeTime, 5*time.Second)

	// Drop "time" as it is hard to match against
	delete(result, "time")

	return result, true
}

func (w *jsonWriter) RequireEmpty() {
	w.t.Helper()
	require.Empty(w.t, w.data)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("stored logger", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger := slog.New(slog.NewJSONHandler(buf, nil))
		ctx := logging.AddToContext(t.Context(), logger)

		require.Equal(t, logger, logging.FromContext(ctx))
	})

	t.Run("fallback", func(t *testing.T) {
		t.Parallel()

		logger := logging.FromContext(t.Context())
		require.NotNil(t, logger)
	})
}

func TestAddMetaToContext(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	w := newWriter(t)
	rootLogger := slog.New(slog.NewJSONHandler(w, nil)).With(slog.String("rootprop", "rootval"))
	ctx = logging.AddToContext(ctx, rootLogger)

	w.RequireEmpty()

	ctx = logging.AddMetaToContext(ctx, slog.Int64("playerID", 12))
	logging.FromContext(ctx).Info("test")
	entry, ok := w.PopWithoutTime()
	require.True(t, ok)
	require.Equal(t, map[string]any{
		"level":    "INFO",
		"msg":      "test",
		"rootprop": "rootval",
		"playerID": float64(12),
	}, entry)
	w.RequireEmpty()

	ctx = logging.AddMetaToContext(ctx, slog.Int64("playerID", 13), slog.String("rootprop", "rootval2"))
	logging.FromContext(ctx).Info("test")
	entry, ok = w.PopWithoutTime()
	require.True(t, ok)
	require.Equal(t, map[string]any{
		"level":    "INFO",
		"msg":      "test",
		"rootprop": "rootval2",
		"playerID": float64(13),
	}, entry)
}

func TestNewRootLogger(t *testing.T) {
	t.Parallel()

	spanContext := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})

	t.Run("with project", func(t *testing.T) {
		t.Parallel()

		w := newWriter(t)
		logger := logging.NewRootLogger(w, "my-project")
		ctx := trace.ContextWithSpanContext(t.Context(), spanContext)

		logger.InfoContext(ctx, "traced")
		entry, ok := w.PopWithoutTime()
		require.True(t, ok)
		require.Equal(t, map[string]any{
			"level":                                "INFO",
			"msg":                                  "traced",
			"logging.googleapis.com/trace":         "projects/my-project/traces/0102030405060708090a0b0c0d0e0f10",
			"logging.googleapis.com/spanId":        "0102030405060708",
			"logging.googleapis.com/trace_sampled": true,
		}, entry)

		logger.InfoContext(t.Context(), "untraced")
		entry, ok = w.PopWithoutTime()
		require.True(t, ok)
		require.Equal(t, map[string]any{
			"level": "INFO",
			"msg":   "untraced",
		}, entry)
	})

	t.Run("without project", func(t *testing.T) {
		t.Parallel()

		w := newWriter(t)
		logger := logging.NewRootLogger(w, "")
		ctx := trace.ContextWithSpanContext(t.Context(), spanContext)

		logger.InfoContext(ctx, "traced")
		entry, ok := w.PopWithoutTime()
		require.True(t, ok)
		require.Equal(t, map[string]any{
			"level":   "INFO",
			"msg":     "traced",
			"traceID": "0102030405060708090a0b0c0d0e0f10",
			"spanID":  "0102030405060708",
		}, entry)

		logger.Info("untraced")
		entry, ok = w.PopWithoutTime()
		require.True(t, ok)
		require.Equal(t, map[string]any{
			"level": "INFO",
			"msg":   "untraced",
		}, entry)
	})
}

package logging

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// traceFieldsHandler adds the active span to every record logged through a *Context method.
// With a Google Cloud project the fields use the names Cloud Logging correlates with traces.
// https://docs.cloud.google.com/logging/docs/agent/logging/configuration#special-fields
type traceFieldsHandler struct {
	base    slog.Handler
	project string
}

func newTraceFieldsHandler(base slog.Handler, project string) *traceFieldsHandler {
	return &traceFieldsHandler{base: base, project: project}
}

func (h *traceFieldsHandler) traceAttrs(sc trace.SpanContext) []slog.Attr {
	if h.project == "" {
		return []slog.Attr{
			slog.String("traceID", sc.TraceID().String()),
			slog.String("spanID", sc.SpanID().String()),
		}
	}

	return []slog.Attr{
		slog.String("logging.googleapis.com/trace", fmt.Sprintf("projects/%s/traces/%s", h.project, sc.TraceID())),
		slog.String("logging.googleapis.com/spanId", sc.SpanID().String()),
		slog.Bool("logging.googleapis.com/trace_sampled", sc.IsSampled()),
	}
}

func (h *traceFieldsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *traceFieldsHandler) Handle(ctx context.Context, r slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return h.base.Handle(ctx, r)
	}

	r = r.Clone()
	r.AddAttrs(h.traceAttrs(sc)...)
	return h.base.Handle(ctx, r)
}

func (h *traceFieldsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newTraceFieldsHandler(h.base.WithAttrs(attrs), h.project)
}

func (h *traceFieldsHandler) WithGroup(name string) slog.Handler {
	return newTraceFieldsHandler(h.base.WithGroup(name), h.project)
}

var _ slog.Handler = (*traceFieldsHandler)(nil)

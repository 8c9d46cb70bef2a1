package logs

import (
	"context"
	"log/slog"
)

// SpanAttr is the record key of the current span.
const SpanAttr = "span"

// Handler adds the span of the record context to each record.
type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if span, ok := ctx.Value(SpanKey).(Span); ok {
		record.AddAttrs(slog.String(SpanAttr, string(span)))
	}
	return h.Handler.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		Handler: h.Handler.WithAttrs(attrs),
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		Handler: h.Handler.WithGroup(name),
	}
}

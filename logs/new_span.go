package logs

import (
	"context"
	"crypto/rand"
)

// NewSpan starts a span named name under the span of ctx, if any.
type NewSpan func(ctx context.Context, name string) (context.Context, Span)

func (Module) NewSpan(
	logger Logger,
) NewSpan {
	return func(ctx context.Context, name string) (context.Context, Span) {
		parent, _ := ctx.Value(SpanKey).(Span)

		span := Span(rand.Text())
		if name != "" {
			span = Span(name + "-" + string(span[:8]))
		}

		args := []any{
			"name", name,
		}
		if parent != "" {
			args = append(args, "parent", parent)
		}
		ctx = context.WithValue(ctx, SpanKey, span)
		logger.DebugContext(ctx, "span start", args...)

		return ctx, span
	}
}

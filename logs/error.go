package logs

import (
	"context"
	"fmt"
)

// SpanError is an error raised inside a span.
type SpanError struct {
	Err  error
	Span Span
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("%v (span %s)", e.Err, e.Span)
}

func (e *SpanError) Unwrap() error {
	return e.Err
}

// WrapSpan attaches the span of ctx to err. Without a span err is returned
// as is.
func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	span, ok := ctx.Value(SpanKey).(Span)
	if !ok {
		return err
	}
	return &SpanError{
		Err:  err,
		Span: span,
	}
}

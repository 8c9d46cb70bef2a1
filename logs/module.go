package logs

import "github.com/reusee/dscope"

type Module struct {
	dscope.Module
}

type spanKey struct{}

// SpanKey is the context key of the current Span.
var SpanKey = spanKey{}

type Span string

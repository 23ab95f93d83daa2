// Package trace wraps OpenTelemetry spans around JSON-RPC dispatch.
package trace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "evmmock/rpc"

// StartMethod opens a span named after a JSON-RPC method on the global tracer provider.
func StartMethod(ctx context.Context, method string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("rpc.system", "jsonrpc"),
			attribute.String("rpc.method", method),
		),
	)
}

// EndSpanErr records err on span, if any, and ends it.
func EndSpanErr(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "github.com/ncobase/cargohold"

// Layer tags a span with the tier that opened it.
type Layer int

const (
	LayerUnknown Layer = iota
	LayerHandler
	LayerService
	LayerRepo
)

func (l Layer) String() string {
	switch l {
	case LayerHandler:
		return "handler"
	case LayerService:
		return "service"
	case LayerRepo:
		return "repository"
	default:
		return "unknown"
	}
}

// Start opens a span named name under the global provider.
func Start(ctx context.Context, layer Layer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("layer", layer.String()))
	return otel.Tracer(instrumentation).Start(ctx, name, trace.WithAttributes(attrs...))
}

// End records err on the span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// TraceID returns the hex trace id of the span in ctx, or "" when ctx
// carries no sampled span.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

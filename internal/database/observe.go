package database

import (
	"context"
	"time"

	"github.com/dejobratic/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Observe runs one store call inside a span named spanName and records its
// latency under operation. fn may add result attributes to the span.
func Observe(
	ctx context.Context,
	metrics *Metrics,
	spanName, operation string,
	attrs []attribute.KeyValue,
	fn func(ctx context.Context, span trace.Span) error,
) error {
	ctx, span := telemetry.StartSpan(ctx, spanName)
	defer span.End()

	telemetry.AddSpanAttributes(span, append(attrs, attribute.String("db.operation", operation))...)

	start := time.Now()
	err := fn(ctx, span)
	metrics.RecordQuery(ctx, operation, time.Since(start).Seconds(), err)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}
	telemetry.SetSpanSuccess(span)
	return nil
}

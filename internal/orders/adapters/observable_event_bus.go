package adapters

import (
	"context"
	"time"

	"github.com/dejobratic/storefront/internal/events"
	"github.com/dejobratic/storefront/internal/orders/domain"
	"github.com/dejobratic/storefront/internal/orders/ports"
	"github.com/dejobratic/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ObservableEventBus traces publishes and records their latency per topic.
type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *events.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *events.Metrics) *ObservableEventBus {
	return &ObservableEventBus{
		bus:     bus,
		metrics: metrics,
	}
}

func (e *ObservableEventBus) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishOrderPlaced", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("order.invoice_number", order.InvoiceNumber),
		attribute.String("messaging.destination.name", events.TopicOrderPlaced),
	)

	start := time.Now()
	err := e.bus.PublishOrderPlaced(ctx, order)
	e.metrics.RecordPublish(ctx, events.TopicOrderPlaced, time.Since(start).Seconds(), err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	cartMutationsTotal      metric.Int64Counter
	couponApplicationsTotal metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.cartMutationsTotal, err = meter.Int64Counter(
		"cart_mutations_total",
		metric.WithDescription("Session mutations by operation and outcome"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cart_mutations_total counter: %w", err)
	}

	m.couponApplicationsTotal, err = meter.Int64Counter(
		"coupon_applications_total",
		metric.WithDescription("Coupon code submissions by result"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create coupon_applications_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordMutation(ctx context.Context, operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.cartMutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

// RecordCouponApplication counts one attempt. code is only attached for
// known coupons to keep cardinality bounded.
func (m *Metrics) RecordCouponApplication(ctx context.Context, code string, valid bool) {
	attrs := []attribute.KeyValue{attribute.Bool("valid", valid)}
	if valid {
		attrs = append(attrs, attribute.String("code", code))
	}
	m.couponApplicationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

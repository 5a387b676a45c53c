package database

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordQuery(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	ctx := context.Background()
	metrics.RecordQuery(ctx, "create_order", 0.1, nil)
	metrics.RecordQuery(ctx, "create_order", 0.2, nil)
	metrics.RecordQuery(ctx, "fetch_offerings", 0.05, errors.New("relation does not exist"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	var histogram metricdata.Histogram[float64]
	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "db_query_duration_seconds" {
				found = true
				histogram = m.Data.(metricdata.Histogram[float64])
			}
		}
	}
	if !found {
		t.Fatal("db_query_duration_seconds metric not found")
	}

	if len(histogram.DataPoints) != 2 {
		t.Fatalf("Expected 2 data points, got %d", len(histogram.DataPoints))
	}
	for _, dp := range histogram.DataPoints {
		status, _ := dp.Attributes.Value(attribute.Key("status"))
		operation, _ := dp.Attributes.Value(attribute.Key("operation"))
		switch operation.AsString() {
		case "create_order":
			if dp.Count != 2 || status.AsString() != "success" {
				t.Errorf("unexpected create_order point: count=%d status=%s", dp.Count, status.AsString())
			}
		case "fetch_offerings":
			if status.AsString() != "error" {
				t.Errorf("expected error status, got %s", status.AsString())
			}
		default:
			t.Errorf("unexpected operation %s", operation.AsString())
		}
	}
}

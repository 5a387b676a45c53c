package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/dejobratic/storefront/internal/orders/domain"
	"github.com/dejobratic/storefront/internal/orders/metrics"
	"github.com/dejobratic/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableCommandHandler struct {
	handler CommandHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler(handler CommandHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler {
	return &ObservableCommandHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlaceOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		o.metrics.RecordOrderPlacementDuration(ctx, time.Since(start).Seconds())
		o.metrics.RecordOrderPlaced(ctx, success)
	}()

	o.logger.InfoContext(ctx, "placing order",
		"items", len(cmd.Draft.Items),
		"total_amount", cmd.Draft.TotalAmount.String(),
		"coupon_code", cmd.Draft.CouponCode,
	)

	order, err := o.handler.Handle(ctx, cmd)
	if err != nil && order == nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to place order",
			"error", err,
			"mobile", cmd.Draft.Customer.Mobile,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("order.invoice_number", order.InvoiceNumber),
		attribute.String("order.total_amount", order.TotalAmount.String()),
		attribute.Int("order.item_count", order.ItemCount()),
	)

	success = true
	total, _ := order.TotalAmount.Float64()
	o.metrics.RecordOrderValue(ctx, total, order.CouponCode != "")

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.WarnContext(ctx, "order placed with side effect failure",
			"error", err,
			"invoice_number", order.InvoiceNumber,
		)
		return order, err
	}

	o.logger.InfoContext(ctx, "order placed successfully",
		"order_id", order.ID,
		"invoice_number", order.InvoiceNumber,
	)
	telemetry.SetSpanSuccess(span)

	return order, nil
}

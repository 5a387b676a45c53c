package adapters

import (
	"context"

	"github.com/dejobratic/storefront/internal/database"
	"github.com/dejobratic/storefront/internal/orders/domain"
	"github.com/dejobratic/storefront/internal/orders/ports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ObservableRepository traces and times every order store call.
type ObservableRepository struct {
	repo    ports.OrderRepository
	metrics *database.Metrics
}

func NewObservableRepository(repo ports.OrderRepository, metrics *database.Metrics) *ObservableRepository {
	return &ObservableRepository{repo: repo, metrics: metrics}
}

func (r *ObservableRepository) Create(ctx context.Context, order *domain.Order) error {
	attrs := []attribute.KeyValue{
		attribute.String("order.id", order.ID),
		attribute.String("order.invoice_number", order.InvoiceNumber),
		attribute.Int("order.line_count", len(order.Items)),
	}
	return database.Observe(ctx, r.metrics, "OrderRepository.Create", "create_order", attrs,
		func(ctx context.Context, _ trace.Span) error {
			return r.repo.Create(ctx, order)
		})
}

func (r *ObservableRepository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*domain.Order, error) {
	var order *domain.Order
	attrs := []attribute.KeyValue{attribute.String("order.invoice_number", invoiceNumber)}
	err := database.Observe(ctx, r.metrics, "OrderRepository.GetByInvoiceNumber", "get_order_by_invoice", attrs,
		func(ctx context.Context, _ trace.Span) error {
			var err error
			order, err = r.repo.GetByInvoiceNumber(ctx, invoiceNumber)
			return err
		})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *ObservableRepository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	var orders []domain.Order
	attrs := []attribute.KeyValue{
		attribute.Int("page", filter.Page),
		attribute.Int("page_size", filter.PageSize),
	}
	err := database.Observe(ctx, r.metrics, "OrderRepository.List", "list_orders", attrs,
		func(ctx context.Context, span trace.Span) error {
			var err error
			orders, err = r.repo.List(ctx, filter)
			span.SetAttributes(attribute.Int("result.count", len(orders)))
			return err
		})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dejobratic/storefront/internal/orders/app/commands"
	"github.com/dejobratic/storefront/internal/orders/app/queries"
	"github.com/dejobratic/storefront/internal/orders/domain"
	"github.com/dejobratic/storefront/internal/orders/metrics"
	"github.com/dejobratic/storefront/internal/orders/ports"
)

// Service bundles use cases for placing and reading orders.
type Service struct {
	idemStore         ports.IdempotencyStore
	placeOrderHandler commands.CommandHandler
	getOrderHandler   *queries.GetOrderQueryHandler
	listOrdersHandler *queries.ListOrdersQueryHandler
}

// NewService wires required dependencies.
func NewService(
	repo ports.OrderRepository,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	invoices commands.InvoiceNumberer,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	coreHandler := commands.NewPlaceOrderCommandHandler(repo, events, invoices)
	observableHandler := commands.NewObservableCommandHandler(coreHandler, logger, metrics)

	return &Service{
		idemStore:         idem,
		placeOrderHandler: observableHandler,
		getOrderHandler:   queries.NewGetOrderQueryHandler(repo),
		listOrdersHandler: queries.NewListOrdersQueryHandler(repo),
	}
}

// PlaceOrder persists a priced draft and announces it. A stored order whose
// event could not be published is still a placed order.
func (s *Service) PlaceOrder(ctx context.Context, draft domain.Draft) (*domain.Order, error) {
	order, err := s.placeOrderHandler.Handle(ctx, commands.PlaceOrderCommand{Draft: draft})
	if err != nil && order != nil && errors.Is(err, ports.ErrEventNotPublished) {
		return order, nil
	}
	return order, err
}

// GetOrder retrieves an order by invoice number.
func (s *Service) GetOrder(ctx context.Context, invoiceNumber string) (*domain.Order, error) {
	return s.getOrderHandler.Handle(ctx, queries.GetOrderQuery{InvoiceNumber: invoiceNumber})
}

// ListOrders returns one page of orders, newest first.
func (s *Service) ListOrders(ctx context.Context, page, pageSize int) ([]domain.Order, error) {
	return s.listOrdersHandler.Handle(ctx, queries.ListOrdersQuery{Page: page, PageSize: pageSize})
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}

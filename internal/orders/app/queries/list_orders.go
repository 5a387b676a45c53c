package queries

import (
	"context"

	"github.com/dejobratic/storefront/internal/orders/domain"
	"github.com/dejobratic/storefront/internal/orders/ports"
)

const maxPageSize = 100

// ListOrdersQuery pages through placed orders for the admin surface.
type ListOrdersQuery struct {
	Page     int
	PageSize int
}

type ListOrdersQueryHandler struct {
	repo ports.OrderRepository
}

func NewListOrdersQueryHandler(repo ports.OrderRepository) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{repo: repo}
}

func (h *ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]domain.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := ports.ListFilter{Page: query.Page, PageSize: query.PageSize}.Normalize()
	orders, err := h.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (q ListOrdersQuery) Validate() error {
	if q.Page < 0 {
		return &ValidationError{Message: "page must not be negative"}
	}
	if q.PageSize < 0 || q.PageSize > maxPageSize {
		return &ValidationError{Message: "page_size must be between 0 and 100"}
	}
	return nil
}

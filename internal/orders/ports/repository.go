package ports

import (
	"context"
	"errors"

	"github.com/dejobratic/storefront/internal/orders/domain"
)

// OrderRepository exposes persistence operations required by the application layer.
type OrderRepository interface {
	// Create inserts the order and stamps CreatedAt from the store.
	Create(ctx context.Context, order *domain.Order) error
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Order, error)
}

// ListFilter pages through orders, newest first. Page is 1-based.
type ListFilter struct {
	Page     int
	PageSize int
}

const DefaultPageSize = 20

// Normalize applies the paging defaults.
func (f ListFilter) Normalize() ListFilter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	return f
}

// Offset is the number of rows skipped before the page.
func (f ListFilter) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.PageSize
}

var (
	// ErrNotFound is returned when the requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateInvoice is returned when the invoice number is already taken.
	ErrDuplicateInvoice = errors.New("invoice number already exists")
)

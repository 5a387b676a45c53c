package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dejobratic/storefront/internal/orders/domain"
	"github.com/dejobratic/storefront/internal/orders/ports"
)

// Repository provides an in-memory store useful for local development and tests.
// Orders are keyed by invoice number, which is unique like the SQL index.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	now    func() time.Time
}

// NewRepository constructs a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		orders: make(map[string]domain.Order),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new order and stamps its creation time.
func (r *Repository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.InvoiceNumber]; exists {
		return ports.ErrDuplicateInvoice
	}

	order.CreatedAt = r.now()
	r.orders[order.InvoiceNumber] = order.Clone()
	return nil
}

// GetByInvoiceNumber fetches a single order.
func (r *Repository) GetByInvoiceNumber(_ context.Context, invoiceNumber string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[invoiceNumber]
	if !ok {
		return nil, ports.ErrNotFound
	}
	found := order.Clone()
	return &found, nil
}

// List returns one page of orders, newest first.
func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].InvoiceNumber > result[j].InvoiceNumber
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	filter = filter.Normalize()
	start := filter.Offset()
	if start >= len(result) {
		return []domain.Order{}, nil
	}

	end := start + filter.PageSize
	if end > len(result) {
		end = len(result)
	}

	page := make([]domain.Order, 0, end-start)
	for _, order := range result[start:end] {
		page = append(page, order.Clone())
	}
	return page, nil
}

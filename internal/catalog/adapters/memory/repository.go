package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/catalog/ports"
	"github.com/shopspring/decimal"
)

// Repository keeps the catalog in process memory. It starts empty, so the
// storefront serves the seed catalog until an admin seeds it.
type Repository struct {
	mu        sync.RWMutex
	offerings map[string]domain.Offering
}

func NewRepository() *Repository {
	return &Repository{offerings: make(map[string]domain.Offering)}
}

func (r *Repository) FetchAll(_ context.Context) ([]domain.Offering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Offering, 0, len(r.offerings))
	for _, o := range r.offerings {
		result = append(result, o.Clone())
	}
	domain.SortByCategory(result)
	return result, nil
}

func (r *Repository) Upsert(_ context.Context, offerings []domain.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range offerings {
		r.offerings[o.ID] = o.Clone()
	}
	return nil
}

func (r *Repository) UpdatePrices(_ context.Context, id string, original, discount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.offerings[id]
	if !ok {
		return fmt.Errorf("%w: %s", ports.ErrNotFound, id)
	}
	o.OriginalPrice = original
	o.DiscountPrice = discount
	r.offerings[id] = o
	return nil
}

func (r *Repository) Insert(_ context.Context, offering domain.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.offerings[offering.ID]; exists {
		return fmt.Errorf("%w: %s", ports.ErrDuplicateID, offering.ID)
	}
	r.offerings[offering.ID] = offering.Clone()
	return nil
}

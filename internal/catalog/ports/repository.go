package ports

import (
	"context"
	"errors"

	"github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

// Repository is the durable catalog store.
type Repository interface {
	FetchAll(ctx context.Context) ([]domain.Offering, error)
	// Upsert inserts or replaces offerings by id.
	Upsert(ctx context.Context, offerings []domain.Offering) error
	UpdatePrices(ctx context.Context, id string, original, discount decimal.Decimal) error
	Insert(ctx context.Context, offering domain.Offering) error
}

// Cache keeps the current catalog close to the request path.
type Cache interface {
	Get(ctx context.Context) ([]domain.Offering, error)
	Set(ctx context.Context, offerings []domain.Offering) error
	Invalidate(ctx context.Context) error
}

var (
	ErrNotFound = errors.New("offering not found")
	// ErrSchemaMissing means the catalog table has not been created yet.
	ErrSchemaMissing = errors.New("catalog schema missing")
	ErrDuplicateID   = errors.New("offering id already exists")
	ErrCacheMiss     = errors.New("catalog cache miss")
)

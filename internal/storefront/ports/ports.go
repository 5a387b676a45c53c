package ports

import (
	"context"
	"errors"

	catalog "github.com/dejobratic/storefront/internal/catalog/domain"
	orders "github.com/dejobratic/storefront/internal/orders/domain"
	"github.com/dejobratic/storefront/internal/storefront/domain"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore owns per-shopper state.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Update applies fn to the stored session atomically and saves the
	// result. When fn fails nothing is written.
	Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error)
}

// OfferingLookup resolves catalog entries added to carts.
type OfferingLookup interface {
	GetOffering(ctx context.Context, id string) (*catalog.Offering, error)
}

// OrderPlacer persists a priced draft as an order.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, draft orders.Draft) (*orders.Order, error)
}

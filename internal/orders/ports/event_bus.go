package ports

import (
	"context"
	"errors"

	"github.com/dejobratic/storefront/internal/orders/domain"
)

// EventBus publishes order lifecycle events.
type EventBus interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
}

// ErrEventNotPublished marks an order that was stored but whose event
// could not be published.
var ErrEventNotPublished = errors.New("order event not published")

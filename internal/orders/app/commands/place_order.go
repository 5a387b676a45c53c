package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dejobratic/storefront/internal/orders/domain"
	"github.com/dejobratic/storefront/internal/orders/ports"
	"github.com/google/uuid"
)

// maxInvoiceAttempts bounds how often a colliding invoice number is redrawn.
const maxInvoiceAttempts = 3

type PlaceOrderCommand struct {
	Draft domain.Draft
}

func (c PlaceOrderCommand) Validate() error {
	if len(c.Draft.Items) == 0 {
		return errors.New("items must not be empty")
	}
	if strings.TrimSpace(c.Draft.Customer.FullName) == "" {
		return errors.New("full_name is required")
	}
	if strings.TrimSpace(c.Draft.Customer.Mobile) == "" {
		return errors.New("mobile is required")
	}
	if c.Draft.TotalAmount.IsNegative() {
		return errors.New("total_amount must not be negative")
	}
	return nil
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
}

// InvoiceNumberer issues invoice numbers.
type InvoiceNumberer interface {
	Next() string
}

type PlaceOrderCommandHandler struct {
	repo     ports.OrderRepository
	events   ports.EventBus
	invoices InvoiceNumberer
}

func NewPlaceOrderCommandHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
	invoices InvoiceNumberer,
) *PlaceOrderCommandHandler {
	return &PlaceOrderCommandHandler{
		repo:     repo,
		events:   events,
		invoices: invoices,
	}
}

func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	draft := cmd.Draft
	order := domain.Order{
		ID:             uuid.NewString(),
		Items:          append([]domain.LineItem(nil), draft.Items...),
		Subtotal:       draft.Subtotal,
		DiscountAmount: draft.DiscountAmount,
		TotalAmount:    draft.TotalAmount,
		CouponCode:     draft.CouponCode,
		CouponPercent:  draft.CouponPercent,
		Customer:       draft.Customer,
		Status:         domain.StatusPending,
	}

	var err error
	for attempt := 0; attempt < maxInvoiceAttempts; attempt++ {
		order.InvoiceNumber = h.invoices.Next()
		if err = order.Validate(); err != nil {
			return nil, err
		}
		err = h.repo.Create(ctx, &order)
		if !errors.Is(err, ports.ErrDuplicateInvoice) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := h.events.PublishOrderPlaced(ctx, order); err != nil {
		return &order, fmt.Errorf("%w: %w", ports.ErrEventNotPublished, err)
	}

	return &order, nil
}

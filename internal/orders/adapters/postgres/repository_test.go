//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dejobratic/storefront/internal/database/dbtest"
	"github.com/dejobratic/storefront/internal/orders/adapters/postgres"
	"github.com/dejobratic/storefront/internal/orders/domain"
	"github.com/dejobratic/storefront/internal/orders/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newOrder(invoice string) *domain.Order {
	return &domain.Order{
		ID:            uuid.NewString(),
		InvoiceNumber: invoice,
		Items: []domain.LineItem{
			{ID: "l1", Key: "netflix-premium-3m", Type: "service", OfferingID: "netflix-premium", Duration: "3m", DurationLabel: "3 Months", Name: "Netflix Premium", Category: "premium-subscription", UnitPrice: decimal.RequireFromString("1050.50"), OriginalPrice: decimal.NewFromInt(1500), Quantity: 2},
		},
		Subtotal:       decimal.RequireFromString("2101.00"),
		DiscountAmount: decimal.RequireFromString("210.10"),
		TotalAmount:    decimal.RequireFromString("1890.90"),
		CouponCode:     "SAVE10",
		CouponPercent:  10,
		Customer: domain.Customer{
			FullName:     "Rahim Uddin",
			Mobile:       "01712345678",
			WhatsApp:     "01712345678",
			BusinessName: "Rahim Traders",
			District:     "Dhaka",
			StartDate:    "2026-11-01",
		},
		Status: domain.StatusPending,
	}
}

func TestRepositoryCreate(t *testing.T) {
	pool := dbtest.NewPool(t, false)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	order := newOrder("BSE-2026-1234")
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}
	if order.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be returned by the database")
	}

	retrieved, err := repo.GetByInvoiceNumber(ctx, order.InvoiceNumber)
	if err != nil {
		t.Fatalf("failed to retrieve order: %v", err)
	}

	if retrieved.ID != order.ID {
		t.Errorf("expected ID %s, got %s", order.ID, retrieved.ID)
	}
	if !retrieved.TotalAmount.Equal(order.TotalAmount) {
		t.Errorf("expected total %s, got %s", order.TotalAmount, retrieved.TotalAmount)
	}
	if len(retrieved.Items) != 1 || !retrieved.Items[0].UnitPrice.Equal(order.Items[0].UnitPrice) {
		t.Errorf("items did not round-trip: %+v", retrieved.Items)
	}
	if retrieved.Customer != order.Customer {
		t.Errorf("expected customer %+v, got %+v", order.Customer, retrieved.Customer)
	}
	if retrieved.Status != domain.StatusPending {
		t.Errorf("expected status pending, got %s", retrieved.Status)
	}
}

func TestRepositoryCreate_FractionalCouponAmounts(t *testing.T) {
	pool := dbtest.NewPool(t, false)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	// 5% of 10.01 carries four decimal places.
	order := newOrder("BSE-2026-5005")
	order.Items[0].UnitPrice = decimal.RequireFromString("10.01")
	order.Items[0].Quantity = 1
	order.Subtotal = decimal.RequireFromString("10.01")
	order.DiscountAmount = decimal.RequireFromString("0.5005")
	order.TotalAmount = decimal.RequireFromString("9.5095")
	order.CouponCode = "WELCOME5"
	order.CouponPercent = 5
	if err := order.Validate(); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}

	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}
	retrieved, err := repo.GetByInvoiceNumber(ctx, order.InvoiceNumber)
	if err != nil {
		t.Fatalf("failed to retrieve order: %v", err)
	}

	if !retrieved.DiscountAmount.Equal(order.DiscountAmount) || !retrieved.TotalAmount.Equal(order.TotalAmount) {
		t.Errorf("expected discount %s total %s, got %s and %s",
			order.DiscountAmount, order.TotalAmount, retrieved.DiscountAmount, retrieved.TotalAmount)
	}
	if err := retrieved.Validate(); err != nil {
		t.Errorf("stored order no longer balances: %v", err)
	}
}

func TestRepositoryCreate_DuplicateInvoice(t *testing.T) {
	pool := dbtest.NewPool(t, false)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	if err := repo.Create(ctx, newOrder("BSE-2026-4321")); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	err := repo.Create(ctx, newOrder("BSE-2026-4321"))
	if !errors.Is(err, ports.ErrDuplicateInvoice) {
		t.Errorf("expected ErrDuplicateInvoice, got %v", err)
	}
}

func TestRepositoryGetByInvoiceNumber_NotFound(t *testing.T) {
	pool := dbtest.NewPool(t, false)
	repo := postgres.NewRepository(pool)

	_, err := repo.GetByInvoiceNumber(context.Background(), "BSE-2026-0000")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryList(t *testing.T) {
	pool := dbtest.NewPool(t, false)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	for _, invoice := range []string{"BSE-2026-1001", "BSE-2026-1002", "BSE-2026-1003"} {
		if err := repo.Create(ctx, newOrder(invoice)); err != nil {
			t.Fatalf("failed to create order: %v", err)
		}
	}

	t.Run("list all orders", func(t *testing.T) {
		result, err := repo.List(ctx, ports.ListFilter{})
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}
		if len(result) != 3 {
			t.Errorf("expected 3 orders, got %d", len(result))
		}
		if result[0].InvoiceNumber != "BSE-2026-1003" {
			t.Errorf("expected newest order first, got %s", result[0].InvoiceNumber)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := repo.List(ctx, ports.ListFilter{Page: 2, PageSize: 2})
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}
		if len(result) != 1 {
			t.Errorf("expected 1 order (page 2), got %d", len(result))
		}
	})
}

//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dejobratic/storefront/internal/catalog/adapters/postgres"
	"github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/catalog/ports"
	"github.com/dejobratic/storefront/internal/database/dbtest"
	"github.com/shopspring/decimal"
)

func TestRepositoryUpsertAndFetch(t *testing.T) {
	repo := postgres.NewRepository(dbtest.NewPool(t, false))
	ctx := context.Background()
	seed := domain.SeedCatalog()

	if err := repo.Upsert(ctx, seed); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	if err := repo.Upsert(ctx, seed); err != nil {
		t.Fatalf("second upsert should be idempotent: %v", err)
	}

	offerings, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("failed to fetch catalog: %v", err)
	}
	if len(offerings) != len(seed) {
		t.Fatalf("expected %d offerings, got %d", len(seed), len(offerings))
	}

	byID := make(map[string]domain.Offering, len(offerings))
	for _, o := range offerings {
		byID[o.ID] = o
	}
	for _, want := range seed {
		got, ok := byID[want.ID]
		if !ok {
			t.Errorf("offering %s missing", want.ID)
			continue
		}
		if !got.DiscountPrice.Equal(want.DiscountPrice) {
			t.Errorf("%s: expected discount %s, got %s", want.ID, want.DiscountPrice, got.DiscountPrice)
		}
		if len(got.Durations) != len(want.Durations) {
			t.Errorf("%s: expected %d durations, got %d", want.ID, len(want.Durations), len(got.Durations))
		}
	}
}

func TestRepositoryUpdatePrices(t *testing.T) {
	repo := postgres.NewRepository(dbtest.NewPool(t, false))
	ctx := context.Background()

	if err := repo.Upsert(ctx, domain.SeedCatalog()); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	if err := repo.UpdatePrices(ctx, "logo-design", decimal.NewFromInt(4000), decimal.NewFromInt(2000)); err != nil {
		t.Fatalf("failed to update prices: %v", err)
	}

	offerings, _ := repo.FetchAll(ctx)
	for _, o := range offerings {
		if o.ID == "logo-design" && !o.DiscountPrice.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("expected discount 2000, got %s", o.DiscountPrice)
		}
	}

	err := repo.UpdatePrices(ctx, "missing", decimal.NewFromInt(1), decimal.NewFromInt(1))
	if !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryInsert(t *testing.T) {
	repo := postgres.NewRepository(dbtest.NewPool(t, false))
	ctx := context.Background()

	o := domain.OfferingDraft{
		Name:          "Landing Page",
		Category:      domain.CategoryWebsiteDesign,
		OriginalPrice: decimal.NewFromInt(9000),
		DiscountPrice: decimal.NewFromInt(7000),
	}.Offering("custom-landing")

	if err := repo.Insert(ctx, o); err != nil {
		t.Fatalf("failed to insert offering: %v", err)
	}
	if err := repo.Insert(ctx, o); !errors.Is(err, ports.ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestRepositorySchemaMissing(t *testing.T) {
	repo := postgres.NewRepository(dbtest.NewPool(t, true))

	_, err := repo.FetchAll(context.Background())
	if !errors.Is(err, ports.ErrSchemaMissing) {
		t.Errorf("expected ErrSchemaMissing, got %v", err)
	}
}

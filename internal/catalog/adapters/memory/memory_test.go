package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/catalog/ports"
	"github.com/shopspring/decimal"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("starts empty", func(t *testing.T) {
		offerings, err := NewRepository().FetchAll(ctx)
		if err != nil || len(offerings) != 0 {
			t.Fatalf("expected empty catalog, got %d, %v", len(offerings), err)
		}
	})

	t.Run("upsert replaces by id", func(t *testing.T) {
		repo := NewRepository()
		seed := domain.SeedCatalog()
		if err := repo.Upsert(ctx, seed); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
		if err := repo.Upsert(ctx, seed); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}

		offerings, _ := repo.FetchAll(ctx)
		if len(offerings) != len(seed) {
			t.Errorf("expected %d offerings, got %d", len(seed), len(offerings))
		}
	})

	t.Run("update prices of unknown offering", func(t *testing.T) {
		err := NewRepository().UpdatePrices(ctx, "nope", decimal.NewFromInt(1), decimal.NewFromInt(1))
		if !errors.Is(err, ports.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("insert rejects duplicates", func(t *testing.T) {
		repo := NewRepository()
		o := domain.SeedCatalog()[0]
		if err := repo.Insert(ctx, o); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := repo.Insert(ctx, o); !errors.Is(err, ports.ErrDuplicateID) {
			t.Errorf("expected ErrDuplicateID, got %v", err)
		}
	})
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCache(time.Minute)
	cache.now = func() time.Time { return now }

	if _, err := cache.Get(ctx); !errors.Is(err, ports.ErrCacheMiss) {
		t.Fatalf("expected miss on empty cache, got %v", err)
	}

	if err := cache.Set(ctx, domain.SeedCatalog()); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got[0].DiscountPrice = decimal.NewFromInt(1)

	again, _ := cache.Get(ctx)
	if again[0].DiscountPrice.Equal(decimal.NewFromInt(1)) {
		t.Error("cache entry was mutated through a returned slice")
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.Get(ctx); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("expected miss after ttl, got %v", err)
	}

	_ = cache.Set(ctx, domain.SeedCatalog())
	_ = cache.Invalidate(ctx)
	if _, err := cache.Get(ctx); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("expected miss after invalidate, got %v", err)
	}
}

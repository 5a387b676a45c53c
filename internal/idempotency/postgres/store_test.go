//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dejobratic/storefront/internal/database/dbtest"
	"github.com/dejobratic/storefront/internal/idempotency/postgres"
	"github.com/dejobratic/storefront/internal/orders/ports"
)

func TestStore(t *testing.T) {
	pool := dbtest.NewPool(t, false)
	ctx := context.Background()

	first := ports.StoredResponse{StatusCode: 201, Body: []byte(`{"n": 1}`), InvoiceNumber: "BSE-2026-1111"}
	second := ports.StoredResponse{StatusCode: 201, Body: []byte(`{"n": 2}`), InvoiceNumber: "BSE-2026-2222"}

	t.Run("save then get", func(t *testing.T) {
		store := postgres.NewStore(pool, time.Hour)

		if err := store.Save(ctx, "submit-1", first); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, err := store.Get(ctx, "submit-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got == nil {
			t.Fatal("expected response, got nil")
		}
		if got.StatusCode != first.StatusCode || string(got.Body) != string(first.Body) || got.InvoiceNumber != first.InvoiceNumber {
			t.Errorf("expected %+v, got %+v", first, got)
		}
	})

	t.Run("unused key reads as nil", func(t *testing.T) {
		got, err := postgres.NewStore(pool, time.Hour).Get(ctx, "nonexistent-key")
		if err != nil || got != nil {
			t.Errorf("expected nil, nil; got %+v, %v", got, err)
		}
	})

	t.Run("first save wins within retention", func(t *testing.T) {
		store := postgres.NewStore(pool, time.Hour)

		if err := store.Save(ctx, "submit-conflict", first); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Save(ctx, "submit-conflict", second); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := store.Get(ctx, "submit-conflict")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.InvoiceNumber != first.InvoiceNumber {
			t.Errorf("expected first response preserved, got %s", got.InvoiceNumber)
		}
	})

	t.Run("expired row is replaced", func(t *testing.T) {
		store := postgres.NewStore(pool, time.Hour)
		if err := store.Save(ctx, "submit-stale", first); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if _, err := pool.Exec(ctx, `UPDATE idempotency_keys SET created_at = NOW() - INTERVAL '2 hours' WHERE key = $1`, "submit-stale"); err != nil {
			t.Fatalf("age row: %v", err)
		}

		if got, _ := store.Get(ctx, "submit-stale"); got != nil {
			t.Fatalf("expected expired row to read as unused, got %+v", got)
		}
		if err := store.Save(ctx, "submit-stale", second); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, err := store.Get(ctx, "submit-stale")
		if err != nil || got == nil || got.InvoiceNumber != second.InvoiceNumber {
			t.Errorf("expected second response, got %+v, %v", got, err)
		}
	})
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dejobratic/storefront/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store keeps submission responses in the idempotency_keys table. Rows older
// than the retention window read as unused and are overwritten on the next
// save for the same key.
type Store struct {
	pool      *pgxpool.Pool
	retention time.Duration
}

// NewStore creates a Postgres idempotency store. A zero retention keeps rows
// forever.
func NewStore(pool *pgxpool.Pool, retention time.Duration) *Store {
	return &Store{pool: pool, retention: retention}
}

// cutoff is the oldest created_at still considered live.
func (s *Store) cutoff() time.Time {
	if s.retention <= 0 {
		return time.Time{}
	}
	return time.Now().UTC().Add(-s.retention)
}

func (s *Store) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	const query = `
		SELECT status_code, body, invoice_number
		FROM idempotency_keys
		WHERE key = $1 AND created_at > $2
	`

	var resp ports.StoredResponse
	err := s.pool.QueryRow(ctx, query, key, s.cutoff()).Scan(&resp.StatusCode, &resp.Body, &resp.InvoiceNumber)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("select idempotency key %q: %w", key, err)
	}
	return &resp, nil
}

func (s *Store) Save(ctx context.Context, key string, response ports.StoredResponse) error {
	const query = `
		INSERT INTO idempotency_keys (key, status_code, body, invoice_number, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key) DO UPDATE
		SET status_code = EXCLUDED.status_code,
		    body = EXCLUDED.body,
		    invoice_number = EXCLUDED.invoice_number,
		    created_at = EXCLUDED.created_at
		WHERE idempotency_keys.created_at <= $5
	`

	if _, err := s.pool.Exec(ctx, query, key, response.StatusCode, response.Body, response.InvoiceNumber, s.cutoff()); err != nil {
		return fmt.Errorf("insert idempotency key %q: %w", key, err)
	}
	return nil
}

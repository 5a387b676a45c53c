package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/catalog/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	undefinedTable  = "42P01"
	uniqueViolation = "23505"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) FetchAll(ctx context.Context) ([]domain.Offering, error) {
	query := `
		SELECT id, name, category, icon, original_price, discount_price,
		       description, search_tags, durations
		FROM offerings
		ORDER BY category, name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError("query offerings", err)
	}
	defer rows.Close()

	offerings := []domain.Offering{}
	for rows.Next() {
		var (
			o         domain.Offering
			durations []byte
		)
		if err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.Category,
			&o.Icon,
			&o.OriginalPrice,
			&o.DiscountPrice,
			&o.Description,
			&o.SearchTags,
			&durations,
		); err != nil {
			return nil, fmt.Errorf("scan offering: %w", err)
		}
		if err := decodeDurations(durations, &o); err != nil {
			return nil, err
		}
		offerings = append(offerings, o)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError("iterate offerings", err)
	}

	return offerings, nil
}

func (r *Repository) Upsert(ctx context.Context, offerings []domain.Offering) error {
	query := `
		INSERT INTO offerings (
			id, name, category, icon, original_price, discount_price,
			description, search_tags, durations
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			icon = EXCLUDED.icon,
			original_price = EXCLUDED.original_price,
			discount_price = EXCLUDED.discount_price,
			description = EXCLUDED.description,
			search_tags = EXCLUDED.search_tags,
			durations = EXCLUDED.durations,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, o := range offerings {
		durations, err := encodeDurations(o)
		if err != nil {
			return err
		}
		batch.Queue(query, o.ID, o.Name, o.Category, o.Icon, o.OriginalPrice, o.DiscountPrice,
			o.Description, tags(o), durations)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return mapError("upsert offerings", err)
	}
	return nil
}

func (r *Repository) UpdatePrices(ctx context.Context, id string, original, discount decimal.Decimal) error {
	query := `
		UPDATE offerings
		SET original_price = $1, discount_price = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, original, discount, id)
	if err != nil {
		return mapError("update offering prices", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ports.ErrNotFound, id)
	}

	return nil
}

func (r *Repository) Insert(ctx context.Context, offering domain.Offering) error {
	durations, err := encodeDurations(offering)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO offerings (
			id, name, category, icon, original_price, discount_price,
			description, search_tags, durations
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.pool.Exec(ctx, query,
		offering.ID,
		offering.Name,
		offering.Category,
		offering.Icon,
		offering.OriginalPrice,
		offering.DiscountPrice,
		offering.Description,
		tags(offering),
		durations,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ports.ErrDuplicateID, offering.ID)
		}
		return mapError("insert offering", err)
	}

	return nil
}

// mapError turns a missing table into ErrSchemaMissing so the catalog can
// fall back to the seed data with a setup notice.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return fmt.Errorf("%s: %w: %s", op, ports.ErrSchemaMissing, pgErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func tags(o domain.Offering) []string {
	if o.SearchTags == nil {
		return []string{}
	}
	return o.SearchTags
}

func encodeDurations(o domain.Offering) ([]byte, error) {
	if len(o.Durations) == 0 {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(o.Durations)
	if err != nil {
		return nil, fmt.Errorf("encode durations for %s: %w", o.ID, err)
	}
	return data, nil
}

func decodeDurations(data []byte, o *domain.Offering) error {
	var durations map[domain.Duration]decimal.Decimal
	if err := json.Unmarshal(data, &durations); err != nil {
		return fmt.Errorf("decode durations for %s: %w", o.ID, err)
	}
	if len(durations) > 0 {
		o.Durations = durations
	}
	return nil
}

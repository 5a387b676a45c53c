package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dejobratic/storefront/internal/orders/domain"
	"github.com/dejobratic/storefront/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const selectColumns = `
	id, invoice_number, items, subtotal, discount_amount, total_amount,
	coupon_code, coupon_percent, customer, status, created_at
`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("encode order customer: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, invoice_number, items, subtotal, discount_amount, total_amount,
			coupon_code, coupon_percent, customer,
			full_name, mobile, email, business_name, business_type, district, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at
	`

	err = r.pool.QueryRow(ctx, query,
		order.ID,
		order.InvoiceNumber,
		items,
		order.Subtotal,
		order.DiscountAmount,
		order.TotalAmount,
		order.CouponCode,
		order.CouponPercent,
		customer,
		order.Customer.FullName,
		order.Customer.Mobile,
		order.Customer.Email,
		order.Customer.BusinessName,
		order.Customer.BusinessType,
		order.Customer.District,
		order.Status,
	).Scan(&order.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ports.ErrDuplicateInvoice
		}
		return fmt.Errorf("insert order: %w", err)
	}

	order.CreatedAt = order.CreatedAt.UTC()
	return nil
}

func (r *Repository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*domain.Order, error) {
	query := `SELECT ` + selectColumns + ` FROM orders WHERE invoice_number = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, invoiceNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	return order, nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	filter = filter.Normalize()

	query := `SELECT ` + selectColumns + `
		FROM orders
		ORDER BY created_at DESC, invoice_number DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, filter.PageSize, filter.Offset())
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order    domain.Order
		items    []byte
		customer []byte
	)
	if err := row.Scan(
		&order.ID,
		&order.InvoiceNumber,
		&items,
		&order.Subtotal,
		&order.DiscountAmount,
		&order.TotalAmount,
		&order.CouponCode,
		&order.CouponPercent,
		&customer,
		&order.Status,
		&order.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	if err := json.Unmarshal(customer, &order.Customer); err != nil {
		return nil, fmt.Errorf("decode order customer: %w", err)
	}
	order.CreatedAt = order.CreatedAt.UTC()
	return &order, nil
}

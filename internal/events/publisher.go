// Package events announces placed orders to interested consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dejobratic/storefront/internal/orders/domain"
	"github.com/redis/go-redis/v9"
)

// TopicOrderPlaced names the order-placed stream and log event.
const TopicOrderPlaced = "orders.placed"

// OrderPlaced is the payload published for every new order.
type OrderPlaced struct {
	OrderID       string    `json:"order_id"`
	InvoiceNumber string    `json:"invoice_number"`
	TotalAmount   string    `json:"total_amount"`
	ItemCount     int       `json:"item_count"`
	CouponCode    string    `json:"coupon_code,omitempty"`
	District      string    `json:"district"`
	PlacedAt      time.Time `json:"placed_at"`
}

func newOrderPlaced(order domain.Order) OrderPlaced {
	return OrderPlaced{
		OrderID:       order.ID,
		InvoiceNumber: order.InvoiceNumber,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		ItemCount:     order.ItemCount(),
		CouponCode:    order.CouponCode,
		District:      order.Customer.District,
		PlacedAt:      order.CreatedAt,
	}
}

// LogPublisher writes events to the log without delivering them anywhere.
// Used when no Redis is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	event := newOrderPlaced(order)
	p.logger.InfoContext(ctx, "event::"+TopicOrderPlaced,
		"order_id", event.OrderID,
		"invoice_number", event.InvoiceNumber,
		"total_amount", event.TotalAmount,
		"item_count", event.ItemCount,
	)
	return nil
}

// StreamPublisher appends events to a capped Redis stream.
type StreamPublisher struct {
	client *redis.Client
	maxLen int64
}

func NewStreamPublisher(client *redis.Client, maxLen int64) *StreamPublisher {
	return &StreamPublisher{client: client, maxLen: maxLen}
}

func (p *StreamPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(newOrderPlaced(order))
	if err != nil {
		return fmt.Errorf("marshal event failed: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: TopicOrderPlaced,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"invoice_number": order.InvoiceNumber,
			"payload":        payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis xadd failed: %w", err)
	}
	return nil
}

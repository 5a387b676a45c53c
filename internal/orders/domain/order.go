package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus captures the lifecycle of an order. Only pending is written
// by the storefront; fulfilment happens elsewhere.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
)

// LineItem is the snapshot of a cart line taken when the order is placed.
type LineItem struct {
	ID            string          `json:"id"`
	Key           string          `json:"key"`
	Type          string          `json:"type"`
	OfferingID    string          `json:"offering_id,omitempty"`
	Duration      string          `json:"duration,omitempty"`
	DurationLabel string          `json:"duration_label,omitempty"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Icon          string          `json:"icon"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Quantity      int             `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Customer holds the buyer and business fields needed for fulfilment.
type Customer struct {
	FullName     string `json:"full_name"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	WhatsApp     string `json:"whatsapp"`
	BusinessName string `json:"business_name"`
	BusinessType string `json:"business_type"`
	BusinessLink string `json:"business_link"`
	District     string `json:"district"`
	Upazila      string `json:"upazila"`
	Address      string `json:"address"`
	StartDate    string `json:"start_date"`
	Instructions string `json:"instructions"`
	Source       string `json:"source"`
}

// Draft is everything needed to place an order except the identifiers.
type Draft struct {
	Items          []LineItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	CouponPercent  int             `json:"coupon_percent,omitempty"`
	Customer       Customer        `json:"customer"`
}

// Order is the persisted record of a completed checkout. Items and amounts
// are never changed after creation.
type Order struct {
	ID             string          `json:"id"`
	InvoiceNumber  string          `json:"invoice_number"`
	Items          []LineItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	CouponPercent  int             `json:"coupon_percent,omitempty"`
	Customer       Customer        `json:"customer"`
	Status         OrderStatus     `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Validate ensures the order adheres to business constraints.
func (o Order) Validate() error {
	if !ValidInvoiceNumber(o.InvoiceNumber) {
		return errors.New("invoice_number is malformed")
	}
	if len(o.Items) == 0 {
		return errors.New("items must not be empty")
	}
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return errors.New("item quantity must be at least 1")
		}
	}
	if strings.TrimSpace(o.Customer.FullName) == "" {
		return errors.New("full_name is required")
	}
	if strings.TrimSpace(o.Customer.Mobile) == "" {
		return errors.New("mobile is required")
	}
	if o.TotalAmount.IsNegative() {
		return errors.New("total_amount must not be negative")
	}
	if !o.Subtotal.Sub(o.DiscountAmount).Equal(o.TotalAmount) {
		return errors.New("total_amount does not match subtotal minus discount")
	}
	return nil
}

// ItemCount sums item quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// Clone returns a copy whose items slice is not shared.
func (o Order) Clone() Order {
	clone := o
	clone.Items = append([]LineItem(nil), o.Items...)
	return clone
}

package domain

import (
	"errors"
	"strings"
)

// ErrInvalidCouponCode is returned for codes missing from the coupon table.
var ErrInvalidCouponCode = errors.New("invalid coupon code")

// Coupon is a percentage discount applied to the cart subtotal.
type Coupon struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discount_percent"`
	Label           string `json:"label"`
}

var coupons = map[string]Coupon{
	"SAVE10":    {Code: "SAVE10", DiscountPercent: 10, Label: "10% off your order"},
	"BSE20":     {Code: "BSE20", DiscountPercent: 20, Label: "20% partner discount"},
	"WELCOME5":  {Code: "WELCOME5", DiscountPercent: 5, Label: "5% welcome discount"},
	"NEWYEAR15": {Code: "NEWYEAR15", DiscountPercent: 15, Label: "15% new year offer"},
}

// ResolveCoupon looks the code up case-insensitively.
func ResolveCoupon(code string) (Coupon, error) {
	c, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Coupon{}, ErrInvalidCouponCode
	}
	return c, nil
}

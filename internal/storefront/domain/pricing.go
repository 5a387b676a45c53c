package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "৳"

var hundred = decimal.NewFromInt(100)

// Totals is the priced summary of a cart.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeTotals prices the lines and applies the coupon percentage to the
// subtotal. It is recomputed on every read and never fails.
func ComputeTotals(lines []CartLine, coupon *Coupon) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}

	discount := decimal.Zero
	if coupon != nil {
		discount = subtotal.Mul(decimal.NewFromInt(int64(coupon.DiscountPercent))).Div(hundred)
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal.Sub(discount),
	}
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount for display, e.g. ৳12,500 or ৳1,250.50.
func FormatAmount(amount decimal.Decimal) string {
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	whole := amountPrinter.Sprintf("%d", amount.IntPart())
	if amount.Equal(amount.Truncate(0)) {
		return sign + CurrencySymbol + whole
	}
	fraction := amount.Sub(amount.Truncate(0)).StringFixed(2)
	return sign + CurrencySymbol + whole + fraction[1:]
}

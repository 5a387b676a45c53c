// Package render turns placed orders into the shareable message and the
// printable invoice document. Nothing here mutates the order.
package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dejobratic/storefront/internal/orders/domain"
	storefront "github.com/dejobratic/storefront/internal/storefront/domain"
)

// ShareMessage is the plain-text order summary sent over WhatsApp.
func ShareMessage(order domain.Order) string {
	return fmt.Sprintf("New order invoice: %s\nTotal: %s\nClient: %s\nMobile: %s",
		order.InvoiceNumber,
		storefront.FormatAmount(order.TotalAmount),
		order.Customer.FullName,
		order.Customer.Mobile,
	)
}

// ShareURL builds a wa.me deep link carrying message to phone. Non-digits
// in phone are dropped.
func ShareURL(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + text
}

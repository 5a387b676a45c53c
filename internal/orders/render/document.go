package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/dejobratic/storefront/internal/orders/domain"
	storefront "github.com/dejobratic/storefront/internal/storefront/domain"
)

// DefaultPageSize is the number of line rows per printed page.
const DefaultPageSize = 15

// PaymentPending is the payment status shown on every new invoice.
const PaymentPending = "Payment pending"

//go:embed templates/invoice.html.tmpl
var templates embed.FS

var invoiceTemplate = template.Must(template.ParseFS(templates, "templates/invoice.html.tmpl"))

// Row is one printed line of the invoice table.
type Row struct {
	Serial        int
	Name          string
	DurationLabel string
	Quantity      int
	LineTotal     string
}

// Page is a slice of the line table. Totals print on the last page only.
type Page struct {
	Number int
	Of     int
	Rows   []Row
	Last   bool
}

type documentData struct {
	Order         domain.Order
	CreatedAt     string
	Pages         []Page
	Subtotal      string
	Discount      string
	HasDiscount   bool
	Total         string
	PaymentStatus string
}

// Paginate splits the order lines into pages of at most pageSize rows.
// A non-positive pageSize falls back to DefaultPageSize. An order without
// lines still yields one empty page.
func Paginate(items []domain.LineItem, pageSize int) []Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	count := max(1, (len(items)+pageSize-1)/pageSize)
	pages := make([]Page, 0, count)
	for i := range count {
		start := i * pageSize
		end := min(start+pageSize, len(items))
		page := Page{Number: i + 1, Of: count, Last: i == count-1}
		for j := start; j < end; j++ {
			item := items[j]
			page.Rows = append(page.Rows, Row{
				Serial:        j + 1,
				Name:          item.Name,
				DurationLabel: item.DurationLabel,
				Quantity:      item.Quantity,
				LineTotal:     storefront.FormatAmount(item.LineTotal()),
			})
		}
		pages = append(pages, page)
	}
	return pages
}

// Document renders the printable invoice as HTML.
func Document(w io.Writer, order domain.Order, pageSize int) error {
	data := documentData{
		Order:         order,
		CreatedAt:     order.CreatedAt.Format("02 Jan 2006"),
		Pages:         Paginate(order.Items, pageSize),
		Subtotal:      storefront.FormatAmount(order.Subtotal),
		Discount:      storefront.FormatAmount(order.DiscountAmount),
		HasDiscount:   order.CouponCode != "" && order.DiscountAmount.IsPositive(),
		Total:         storefront.FormatAmount(order.TotalAmount),
		PaymentStatus: PaymentPending,
	}
	if err := invoiceTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render invoice %s: %w", order.InvoiceNumber, err)
	}
	return nil
}

package domain

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

// DefaultInvoicePrefix starts every invoice number.
const DefaultInvoicePrefix = "BSE"

const (
	minInvoiceSerial = 1000
	maxInvoiceSerial = 9999
)

var invoicePattern = regexp.MustCompile(`^[A-Z]+-\d{4}-\d{4}$`)

// FormatInvoiceNumber renders PREFIX-YYYY-NNNN.
func FormatInvoiceNumber(prefix string, year, serial int) string {
	return fmt.Sprintf("%s-%04d-%04d", prefix, year, serial)
}

// ValidInvoiceNumber reports whether s has the invoice number shape.
func ValidInvoiceNumber(s string) bool {
	return invoicePattern.MatchString(s)
}

// InvoiceNumberGenerator issues invoice numbers with a random four digit
// serial in [1000, 9999]. Numbers can collide; the order store rejects
// duplicates and the caller draws again.
type InvoiceNumberGenerator struct {
	prefix string
	now    func() time.Time
	intN   func(n int) int
}

// NewInvoiceNumberGenerator builds a generator for the given prefix.
func NewInvoiceNumberGenerator(prefix string) *InvoiceNumberGenerator {
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	return &InvoiceNumberGenerator{
		prefix: prefix,
		now:    time.Now,
		intN:   rand.IntN,
	}
}

// WithSource replaces the clock and random source. Used by tests.
func (g *InvoiceNumberGenerator) WithSource(now func() time.Time, intN func(n int) int) *InvoiceNumberGenerator {
	g.now = now
	g.intN = intN
	return g
}

// Next returns a fresh invoice number.
func (g *InvoiceNumberGenerator) Next() string {
	serial := minInvoiceSerial + g.intN(maxInvoiceSerial-minInvoiceSerial+1)
	return FormatInvoiceNumber(g.prefix, g.now().Year(), serial)
}

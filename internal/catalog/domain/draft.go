package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice is returned for negative price edits.
var ErrInvalidPrice = errors.New("price must not be negative")

// ValidationError lists the draft fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// OfferingDraft is the admin input for a new catalog entry.
type OfferingDraft struct {
	Name          string                       `json:"name"`
	Category      Category                     `json:"category"`
	Icon          string                       `json:"icon"`
	OriginalPrice decimal.Decimal              `json:"original_price"`
	DiscountPrice decimal.Decimal              `json:"discount_price"`
	Description   string                       `json:"description"`
	SearchTags    []string                     `json:"search_tags"`
	Durations     map[Duration]decimal.Decimal `json:"durations,omitempty"`
}

// Validate requires name, a catalog category and both prices. Duration
// prices may only use the catalog periods.
func (d OfferingDraft) Validate() error {
	var fields []string
	if strings.TrimSpace(d.Name) == "" {
		fields = append(fields, "name")
	}
	if !d.Category.IsCatalog() {
		fields = append(fields, "category")
	}
	if !d.OriginalPrice.IsPositive() {
		fields = append(fields, "original_price")
	}
	if !d.DiscountPrice.IsPositive() {
		fields = append(fields, "discount_price")
	}
	for duration, price := range d.Durations {
		if !slices.Contains(OfferingDurations(), duration) || !price.IsPositive() {
			fields = append(fields, "durations")
			break
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Offering materializes the draft under the given id.
func (d OfferingDraft) Offering(id string) Offering {
	icon := strings.TrimSpace(d.Icon)
	if icon == "" {
		icon = DefaultIcon
	}
	tags := d.SearchTags
	if tags == nil {
		tags = []string{}
	}
	return Offering{
		ID:            id,
		Name:          strings.TrimSpace(d.Name),
		Category:      d.Category,
		Icon:          icon,
		OriginalPrice: d.OriginalPrice,
		DiscountPrice: d.DiscountPrice,
		Description:   strings.TrimSpace(d.Description),
		SearchTags:    tags,
		Durations:     d.Durations,
	}
}

// ValidatePrices checks an admin price edit.
func ValidatePrices(original, discount decimal.Decimal) error {
	if original.IsNegative() || discount.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

package domain

import (
	"errors"
	"fmt"

	catalog "github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineType tags how a cart line was created.
type LineType string

const (
	LineService LineType = "service"
	LineDomain  LineType = "domain"
	LineHosting LineType = "hosting"
)

var (
	ErrLineNotFound  = errors.New("cart line not found")
	ErrUnknownAddon  = errors.New("unknown add-on")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidOption = errors.New("offering cannot be added to the cart")
)

// CartLine is one priced selection. ID is unique per line; Key is the
// merge identity (offering id, optionally suffixed with the duration).
type CartLine struct {
	ID            string           `json:"id"`
	Key           string           `json:"key"`
	Type          LineType         `json:"type"`
	OfferingID    string           `json:"offering_id"`
	Duration      catalog.Duration `json:"duration,omitempty"`
	DurationLabel string           `json:"duration_label,omitempty"`
	Name          string           `json:"name"`
	Category      catalog.Category `json:"category"`
	Icon          string           `json:"icon"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	OriginalPrice decimal.Decimal  `json:"original_price"`
	Quantity      int              `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineKey builds the merge identity for a catalog selection.
func LineKey(offeringID string, duration catalog.Duration) string {
	if duration == "" {
		return offeringID
	}
	return offeringID + ":" + string(duration)
}

func domainKey(name string) string {
	return "domain-" + name
}

func hostingKey(plan string, duration catalog.Duration) string {
	return fmt.Sprintf("hosting-%s-%s", plan, duration)
}

// Cart holds the in-progress selection.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// AddResult reports the line touched by Add and whether the add-on upsell
// should be offered.
type AddResult struct {
	Line        CartLine
	AddonPrompt bool
}

// Add merges the selection into an existing line with the same key or
// appends a new line with quantity 1.
func (c *Cart) Add(offering catalog.Offering, duration catalog.Duration) (AddResult, error) {
	if !offering.Category.IsCatalog() {
		return AddResult{}, fmt.Errorf("%w: %s", ErrInvalidOption, offering.ID)
	}

	resolved, err := offering.ResolveDuration(duration)
	if err != nil {
		return AddResult{}, err
	}
	price, err := offering.PriceFor(resolved)
	if err != nil {
		return AddResult{}, err
	}
	compare, err := offering.ComparePriceFor(resolved)
	if err != nil {
		return AddResult{}, err
	}

	prompt := offering.Category == catalog.CategoryWebsiteDesign
	key := LineKey(offering.ID, resolved)

	if i := c.indexByKey(key); i >= 0 {
		c.Lines[i].Quantity++
		return AddResult{Line: c.Lines[i], AddonPrompt: prompt}, nil
	}

	line := CartLine{
		ID:            uuid.NewString(),
		Key:           key,
		Type:          LineService,
		OfferingID:    offering.ID,
		Duration:      resolved,
		Name:          offering.Name,
		Category:      offering.Category,
		Icon:          offering.Icon,
		UnitPrice:     price,
		OriginalPrice: compare,
		Quantity:      1,
	}
	if resolved != "" {
		line.DurationLabel = resolved.Label()
	}
	c.Lines = append(c.Lines, line)

	return AddResult{Line: line, AddonPrompt: prompt}, nil
}

// Remove deletes the line identified by id or key.
func (c *Cart) Remove(ref string) error {
	i := c.index(ref)
	if i < 0 {
		return ErrLineNotFound
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return nil
}

// UpdateQuantity applies delta with a floor of 1. It never removes a line.
func (c *Cart) UpdateQuantity(ref string, delta int) (CartLine, error) {
	i := c.index(ref)
	if i < 0 {
		return CartLine{}, ErrLineNotFound
	}
	c.Lines[i].Quantity = max(1, c.Lines[i].Quantity+delta)
	return c.Lines[i], nil
}

// AddonSelection is the shopper's answer to the add-on upsell. Either
// choice may be catalog.SkipAddon or empty.
type AddonSelection struct {
	Domain          string           `json:"domain"`
	Hosting         string           `json:"hosting"`
	HostingDuration catalog.Duration `json:"hosting_duration"`
}

func skipped(choice string) bool {
	return choice == "" || choice == catalog.SkipAddon
}

// AddAddons appends domain and hosting lines. Lines sharing a key with an
// existing add-on line are merged into it. Nothing is added when any
// choice is unknown.
func (c *Cart) AddAddons(sel AddonSelection) ([]CartLine, error) {
	var pending []CartLine

	if !skipped(sel.Domain) {
		option, ok := catalog.FindDomain(sel.Domain)
		if !ok {
			return nil, fmt.Errorf("%w: domain %q", ErrUnknownAddon, sel.Domain)
		}
		pending = append(pending, CartLine{
			Key:           domainKey(option.Name),
			Type:          LineDomain,
			Name:          "Domain " + option.Name,
			Category:      catalog.CategoryDomain,
			Icon:          "🌍",
			UnitPrice:     option.Price,
			OriginalPrice: option.Price,
			Quantity:      1,
		})
	}

	if !skipped(sel.Hosting) {
		plan, ok := catalog.FindHostingPlan(sel.Hosting)
		if !ok {
			return nil, fmt.Errorf("%w: hosting %q", ErrUnknownAddon, sel.Hosting)
		}
		duration := sel.HostingDuration
		if duration == "" {
			duration = catalog.DefaultDuration
		}
		price, ok := plan.Prices[duration]
		if !ok {
			return nil, fmt.Errorf("%w: hosting duration %q", ErrUnknownAddon, duration)
		}
		pending = append(pending, CartLine{
			Key:           hostingKey(plan.Name, duration),
			Type:          LineHosting,
			Duration:      duration,
			DurationLabel: duration.Label(),
			Name:          plan.Name + " Hosting",
			Category:      catalog.CategoryHosting,
			Icon:          "🗄️",
			UnitPrice:     price,
			OriginalPrice: price,
			Quantity:      1,
		})
	}

	added := make([]CartLine, 0, len(pending))
	for _, line := range pending {
		if i := c.indexByKey(line.Key); i >= 0 {
			c.Lines[i].Quantity++
			added = append(added, c.Lines[i])
			continue
		}
		line.ID = uuid.NewString()
		c.Lines = append(c.Lines, line)
		added = append(added, line)
	}
	return added, nil
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount sums line quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Snapshot returns a copy of the lines that later cart edits cannot affect.
func (c Cart) Snapshot() []CartLine {
	return append([]CartLine(nil), c.Lines...)
}

func (c Cart) index(ref string) int {
	for i, l := range c.Lines {
		if l.ID == ref {
			return i
		}
	}
	return c.indexByKey(ref)
}

func (c Cart) indexByKey(key string) int {
	for i, l := range c.Lines {
		if l.Key == key {
			return i
		}
	}
	return -1
}

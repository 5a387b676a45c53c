package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultIcon is assigned to offerings created without a glyph.
const DefaultIcon = "✨"

// Offering is a purchasable catalog entry.
type Offering struct {
	ID            string                       `json:"id"`
	Name          string                       `json:"name"`
	Category      Category                     `json:"category"`
	Icon          string                       `json:"icon"`
	OriginalPrice decimal.Decimal              `json:"original_price"`
	DiscountPrice decimal.Decimal              `json:"discount_price"`
	Description   string                       `json:"description"`
	SearchTags    []string                     `json:"search_tags"`
	Durations     map[Duration]decimal.Decimal `json:"durations,omitempty"`
}

// HasDurations reports whether the offering is priced per subscription period.
func (o Offering) HasDurations() bool {
	return len(o.Durations) > 0
}

// ResolveDuration picks the effective period for a selection. Offerings
// without duration pricing always resolve to the empty duration. An empty
// selection resolves to DefaultDuration, or to the shortest priced period
// when the offering has no DefaultDuration price.
func (o Offering) ResolveDuration(d Duration) (Duration, error) {
	if !o.HasDurations() {
		return "", nil
	}
	if d == "" {
		d = o.defaultDuration()
	}
	if _, ok := o.Durations[d]; !ok || !d.Valid() {
		return "", fmt.Errorf("%w: %s has no %q price", ErrUnknownDuration, o.ID, d)
	}
	return d, nil
}

// PriceFor returns the sell price of the offering for the given period.
func (o Offering) PriceFor(d Duration) (decimal.Decimal, error) {
	resolved, err := o.ResolveDuration(d)
	if err != nil {
		return decimal.Zero, err
	}
	if resolved == "" {
		return o.DiscountPrice, nil
	}
	return o.Durations[resolved], nil
}

// ComparePriceFor returns the struck-through reference price. For duration
// pricing it is the monthly original price times the months in the period.
func (o Offering) ComparePriceFor(d Duration) (decimal.Decimal, error) {
	resolved, err := o.ResolveDuration(d)
	if err != nil {
		return decimal.Zero, err
	}
	if resolved == "" {
		return o.OriginalPrice, nil
	}
	return o.OriginalPrice.Mul(decimal.NewFromInt(int64(resolved.Months()))), nil
}

// SavingsFor returns the difference between the reference and sell price.
func (o Offering) SavingsFor(d Duration) (decimal.Decimal, error) {
	price, err := o.PriceFor(d)
	if err != nil {
		return decimal.Zero, err
	}
	compare, err := o.ComparePriceFor(d)
	if err != nil {
		return decimal.Zero, err
	}
	return compare.Sub(price), nil
}

func (o Offering) defaultDuration() Duration {
	if _, ok := o.Durations[DefaultDuration]; ok {
		return DefaultDuration
	}
	for _, d := range o.SortedDurations() {
		if d.Valid() {
			return d
		}
	}
	return DefaultDuration
}

// SortedDurations returns the priced periods shortest first.
func (o Offering) SortedDurations() []Duration {
	durations := make([]Duration, 0, len(o.Durations))
	for d := range o.Durations {
		durations = append(durations, d)
	}
	sort.Slice(durations, func(i, j int) bool {
		return durations[i].Months() < durations[j].Months()
	})
	return durations
}

// Matches reports whether the offering passes a browse query and category
// filter. The query matches name, category or any search tag, ignoring case.
func (o Offering) Matches(query string, category Category) bool {
	if category != "" && category != CategoryAll && o.Category != category {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	if strings.Contains(strings.ToLower(o.Name), q) {
		return true
	}
	if strings.Contains(string(o.Category), q) || strings.Contains(strings.ToLower(o.Category.Label()), q) {
		return true
	}
	for _, tag := range o.SearchTags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate prices safely.
func (o Offering) Clone() Offering {
	clone := o
	if o.SearchTags != nil {
		clone.SearchTags = append([]string(nil), o.SearchTags...)
	}
	if o.Durations != nil {
		clone.Durations = make(map[Duration]decimal.Decimal, len(o.Durations))
		for k, v := range o.Durations {
			clone.Durations[k] = v
		}
	}
	return clone
}

// Search filters offerings preserving their order.
func Search(offerings []Offering, query string, category Category) []Offering {
	result := make([]Offering, 0, len(offerings))
	for _, o := range offerings {
		if o.Matches(query, category) {
			result = append(result, o)
		}
	}
	return result
}

// SortByCategory orders offerings by category display order, then name.
func SortByCategory(offerings []Offering) {
	rank := make(map[Category]int, len(Categories()))
	for i, c := range Categories() {
		rank[c] = i
	}
	sort.SliceStable(offerings, func(i, j int) bool {
		ri, rj := rank[offerings[i].Category], rank[offerings[j].Category]
		if ri != rj {
			return ri < rj
		}
		return offerings[i].Name < offerings[j].Name
	})
}

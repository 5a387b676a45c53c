package domain

import "strings"

// Category groups offerings on the storefront. The set is fixed.
type Category string

const (
	CategoryDigitalMarketing    Category = "digital-marketing"
	CategoryWebsiteDesign       Category = "website-design"
	CategoryGraphicsDesign      Category = "graphics-design"
	CategoryVideoEditing        Category = "video-editing"
	CategoryTemplatesThemes     Category = "templates-themes"
	CategoryPremiumSubscription Category = "premium-subscription"
	CategoryPremiumPlugin       Category = "premium-plugin"
	CategorySubscriptionPlan    Category = "subscription-plan"

	// CategoryDomain and CategoryHosting tag add-on cart lines. Catalog
	// entries never carry them.
	CategoryDomain  Category = "domain"
	CategoryHosting Category = "hosting"

	// CategoryAll is the browse filter that matches every category.
	CategoryAll Category = "all"
)

var categoryLabels = map[Category]string{
	CategoryDigitalMarketing:    "Digital Marketing",
	CategoryWebsiteDesign:       "Website Design",
	CategoryGraphicsDesign:      "Graphics Design",
	CategoryVideoEditing:        "Video Editing",
	CategoryTemplatesThemes:     "Templates & Themes",
	CategoryPremiumSubscription: "Premium Subscription",
	CategoryPremiumPlugin:       "Premium Plugin",
	CategorySubscriptionPlan:    "Subscription Plan",
	CategoryDomain:              "Domain",
	CategoryHosting:             "Hosting",
}

// Categories returns the catalog categories in display order.
func Categories() []Category {
	return []Category{
		CategoryDigitalMarketing,
		CategoryWebsiteDesign,
		CategoryGraphicsDesign,
		CategoryVideoEditing,
		CategoryTemplatesThemes,
		CategoryPremiumSubscription,
		CategoryPremiumPlugin,
		CategorySubscriptionPlan,
	}
}

// Label returns the human readable category name.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// IsCatalog reports whether c may be assigned to a catalog offering.
func (c Category) IsCatalog() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalizes a category filter value. Empty input means all.
func ParseCategory(value string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	if c == "" || c == CategoryAll {
		return CategoryAll, true
	}
	return c, c.IsCatalog()
}

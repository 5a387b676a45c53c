package domain

import "github.com/shopspring/decimal"

func price(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// SeedCatalog returns the bundled catalog served when the store is empty or
// unreachable, and written to the store by the admin seed action.
func SeedCatalog() []Offering {
	seed := []Offering{
		{
			ID: "fb-ads-management", Name: "Facebook Ads Management", Category: CategoryDigitalMarketing, Icon: "📣",
			OriginalPrice: price(8000), DiscountPrice: price(5500),
			Description: "Campaign setup, audience targeting and weekly reporting.",
			SearchTags:  []string{"facebook", "ads", "boost", "marketing"},
		},
		{
			ID: "seo-starter", Name: "SEO Starter Package", Category: CategoryDigitalMarketing, Icon: "🔍",
			OriginalPrice: price(12000), DiscountPrice: price(9000),
			Description: "On-page audit, keyword plan and ten optimized pages.",
			SearchTags:  []string{"seo", "google", "ranking"},
		},
		{
			ID: "business-website", Name: "Business Website", Category: CategoryWebsiteDesign, Icon: "🌐",
			OriginalPrice: price(25000), DiscountPrice: price(18000),
			Description: "Five page responsive website with contact form.",
			SearchTags:  []string{"website", "wordpress", "business", "landing"},
		},
		{
			ID: "ecommerce-website", Name: "E-commerce Website", Category: CategoryWebsiteDesign, Icon: "🛒",
			OriginalPrice: price(45000), DiscountPrice: price(35000),
			Description: "Online shop with product catalog, cart and order management.",
			SearchTags:  []string{"website", "ecommerce", "shop", "woocommerce"},
		},
		{
			ID: "logo-design", Name: "Logo Design", Category: CategoryGraphicsDesign, Icon: "🎨",
			OriginalPrice: price(3000), DiscountPrice: price(1500),
			Description: "Three concepts and unlimited revisions.",
			SearchTags:  []string{"logo", "brand", "graphics"},
		},
		{
			ID: "social-media-post", Name: "Social Media Post Design", Category: CategoryGraphicsDesign, Icon: "🖼️",
			OriginalPrice: price(2000), DiscountPrice: price(1200),
			Description: "Ten branded post designs for Facebook and Instagram.",
			SearchTags:  []string{"post", "banner", "social", "graphics"},
		},
		{
			ID: "promo-video", Name: "Promotional Video Editing", Category: CategoryVideoEditing, Icon: "🎬",
			OriginalPrice: price(5000), DiscountPrice: price(3500),
			Description: "Up to sixty seconds with motion text and music.",
			SearchTags:  []string{"video", "reels", "promo", "editing"},
		},
		{
			ID: "premium-wp-theme", Name: "Premium WordPress Theme", Category: CategoryTemplatesThemes, Icon: "🧩",
			OriginalPrice: price(4000), DiscountPrice: price(800),
			Description: "Licensed theme with one year of updates.",
			SearchTags:  []string{"theme", "wordpress", "template"},
		},
		{
			ID: "netflix-premium", Name: "Netflix Premium", Category: CategoryPremiumSubscription, Icon: "🍿",
			OriginalPrice: price(1200), DiscountPrice: price(850),
			Description: "4K UHD shared profile.",
			SearchTags:  []string{"netflix", "movie", "streaming"},
			Durations: map[Duration]decimal.Decimal{
				DurationOneMonth:     price(850),
				DurationThreeMonths:  price(2400),
				DurationSixMonths:    price(4600),
				DurationTwelveMonths: price(8800),
			},
		},
		{
			ID: "canva-pro", Name: "Canva Pro", Category: CategoryPremiumSubscription, Icon: "✏️",
			OriginalPrice: price(1000), DiscountPrice: price(300),
			Description: "Personal Canva Pro access on your own email.",
			SearchTags:  []string{"canva", "design", "pro"},
			Durations: map[Duration]decimal.Decimal{
				DurationOneMonth:     price(300),
				DurationThreeMonths:  price(800),
				DurationSixMonths:    price(1500),
				DurationTwelveMonths: price(2500),
			},
		},
		{
			ID: "elementor-pro", Name: "Elementor Pro", Category: CategoryPremiumPlugin, Icon: "🔌",
			OriginalPrice: price(6000), DiscountPrice: price(1000),
			Description: "Activated plugin for one website.",
			SearchTags:  []string{"elementor", "plugin", "wordpress"},
		},
		{
			ID: "chatgpt-plus", Name: "ChatGPT Plus", Category: CategorySubscriptionPlan, Icon: "🤖",
			OriginalPrice: price(2800), DiscountPrice: price(2500),
			Description: "Private account upgrade.",
			SearchTags:  []string{"chatgpt", "ai", "openai"},
			Durations: map[Duration]decimal.Decimal{
				DurationOneMonth:    price(2500),
				DurationThreeMonths: price(7200),
			},
		},
	}
	SortByCategory(seed)
	return seed
}

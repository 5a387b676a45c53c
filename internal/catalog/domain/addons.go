package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SkipAddon is the choice that declines a domain or hosting upsell.
const SkipAddon = "skip"

// DomainOption is a registrable domain extension offered alongside website work.
type DomainOption struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// HostingPlan is a hosting package with per-period prices.
type HostingPlan struct {
	Name   string                       `json:"name"`
	Specs  string                       `json:"specs"`
	Prices map[Duration]decimal.Decimal `json:"prices"`
}

var domainOptions = []DomainOption{
	{Name: ".com", Price: decimal.NewFromInt(1650)},
	{Name: ".net", Price: decimal.NewFromInt(1800)},
	{Name: ".org", Price: decimal.NewFromInt(1750)},
	{Name: ".com.bd", Price: decimal.NewFromInt(2500)},
	{Name: ".shop", Price: decimal.NewFromInt(950)},
	{Name: ".xyz", Price: decimal.NewFromInt(450)},
}

var hostingPlans = []HostingPlan{
	{
		Name:  "Starter",
		Specs: "1 website, 5 GB SSD, free SSL",
		Prices: map[Duration]decimal.Decimal{
			DurationOneMonth:    decimal.NewFromInt(300),
			DurationThreeMonths: decimal.NewFromInt(850),
			DurationSixMonths:   decimal.NewFromInt(1600),
			DurationOneYear:     decimal.NewFromInt(3000),
		},
	},
	{
		Name:  "Business",
		Specs: "5 websites, 20 GB SSD, free SSL, daily backup",
		Prices: map[Duration]decimal.Decimal{
			DurationOneMonth:    decimal.NewFromInt(550),
			DurationThreeMonths: decimal.NewFromInt(1550),
			DurationSixMonths:   decimal.NewFromInt(2950),
			DurationOneYear:     decimal.NewFromInt(5500),
		},
	},
	{
		Name:  "Premium",
		Specs: "Unlimited websites, 50 GB NVMe, free SSL, daily backup",
		Prices: map[Duration]decimal.Decimal{
			DurationOneMonth:    decimal.NewFromInt(900),
			DurationThreeMonths: decimal.NewFromInt(2550),
			DurationSixMonths:   decimal.NewFromInt(4900),
			DurationOneYear:     decimal.NewFromInt(9000),
		},
	},
}

// DomainOptions returns the domain price table.
func DomainOptions() []DomainOption {
	return append([]DomainOption(nil), domainOptions...)
}

// HostingPlans returns the hosting price table.
func HostingPlans() []HostingPlan {
	return append([]HostingPlan(nil), hostingPlans...)
}

// FindDomain looks up a domain extension by name, ignoring case.
func FindDomain(name string) (DomainOption, bool) {
	for _, d := range domainOptions {
		if strings.EqualFold(d.Name, strings.TrimSpace(name)) {
			return d, true
		}
	}
	return DomainOption{}, false
}

// FindHostingPlan looks up a hosting plan by name, ignoring case.
func FindHostingPlan(name string) (HostingPlan, bool) {
	for _, h := range hostingPlans {
		if strings.EqualFold(h.Name, strings.TrimSpace(name)) {
			return h, true
		}
	}
	return HostingPlan{}, false
}

package app

import "github.com/dejobratic/storefront/internal/catalog/domain"

type CategoryRef struct {
	ID    domain.Category `json:"id"`
	Label string          `json:"label"`
}

type DurationRef struct {
	ID     domain.Duration `json:"id"`
	Label  string          `json:"label"`
	Months int             `json:"months"`
}

// Reference is the static data the storefront renders its pickers from.
type Reference struct {
	Categories       []CategoryRef         `json:"categories"`
	Durations        []DurationRef         `json:"durations"`
	HostingDurations []DurationRef         `json:"hosting_durations"`
	Domains          []domain.DomainOption `json:"domains"`
	HostingPlans     []domain.HostingPlan  `json:"hosting_plans"`
	Districts        []string              `json:"districts"`
}

func (s *Service) Reference() Reference {
	categories := make([]CategoryRef, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		categories = append(categories, CategoryRef{ID: c, Label: c.Label()})
	}

	return Reference{
		Categories:       categories,
		Durations:        durationRefs(domain.OfferingDurations()),
		HostingDurations: durationRefs(domain.HostingDurations()),
		Domains:          domain.DomainOptions(),
		HostingPlans:     domain.HostingPlans(),
		Districts:        domain.Districts(),
	}
}

func durationRefs(durations []domain.Duration) []DurationRef {
	refs := make([]DurationRef, 0, len(durations))
	for _, d := range durations {
		refs = append(refs, DurationRef{ID: d, Label: d.Label(), Months: d.Months()})
	}
	return refs
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/catalog/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notice tells the storefront why it is showing the bundled catalog.
type Notice string

const (
	NoticeSetupRequired Notice = "setup_required"
	NoticeFetchFailed   Notice = "fetch_failed"
	NoticeSeedCatalog   Notice = "seed_catalog"
)

// ErrUnknownCategory is returned for browse filters outside the category set.
var ErrUnknownCategory = errors.New("unknown category")

// Listing is the catalog as shown to shoppers. Notice is empty when the
// offerings came from the store.
type Listing struct {
	Offerings []domain.Offering `json:"offerings"`
	Notice    Notice            `json:"notice,omitempty"`
}

// Service serves the catalog read path and the admin write path.
type Service struct {
	repo   ports.Repository
	cache  ports.Cache
	logger *slog.Logger
	newID  func() string
}

func NewService(repo ports.Repository, cache ports.Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		newID:  func() string { return "custom-" + uuid.NewString() },
	}
}

// ListOfferings returns the cached catalog, loading it from the store on a
// miss. Store failures fall back to the bundled seed catalog and are
// reported through the notice, never as an error.
func (s *Service) ListOfferings(ctx context.Context) Listing {
	cached, err := s.cache.Get(ctx)
	if err == nil {
		return Listing{Offerings: cached}
	}
	if !errors.Is(err, ports.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
	}
	return s.refresh(ctx)
}

func (s *Service) refresh(ctx context.Context) Listing {
	offerings, err := s.repo.FetchAll(ctx)
	switch {
	case errors.Is(err, ports.ErrSchemaMissing):
		s.logger.WarnContext(ctx, "catalog table missing, serving seed catalog", "error", err)
		return Listing{Offerings: domain.SeedCatalog(), Notice: NoticeSetupRequired}
	case err != nil:
		s.logger.ErrorContext(ctx, "failed to fetch catalog, serving seed catalog", "error", err)
		return Listing{Offerings: domain.SeedCatalog(), Notice: NoticeFetchFailed}
	case len(offerings) == 0:
		s.logger.InfoContext(ctx, "catalog store empty, serving seed catalog")
		return Listing{Offerings: domain.SeedCatalog(), Notice: NoticeSeedCatalog}
	}

	domain.SortByCategory(offerings)
	if err := s.cache.Set(ctx, offerings); err != nil {
		s.logger.WarnContext(ctx, "catalog cache write failed", "error", err)
	}
	return Listing{Offerings: offerings}
}

// Search filters the listing by a free-text query and a category. An empty
// category means all.
func (s *Service) Search(ctx context.Context, query, category string) (Listing, error) {
	cat := domain.CategoryAll
	if category != "" {
		parsed, ok := domain.ParseCategory(category)
		if !ok {
			return Listing{}, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
		}
		cat = parsed
	}

	listing := s.ListOfferings(ctx)
	listing.Offerings = domain.Search(listing.Offerings, query, cat)
	return listing, nil
}

// GetOffering finds one offering in the current listing.
func (s *Service) GetOffering(ctx context.Context, id string) (*domain.Offering, error) {
	for _, offering := range s.ListOfferings(ctx).Offerings {
		if offering.ID == id {
			found := offering.Clone()
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
}

// UpdateOfferingPrice writes both prices and patches the cached catalog in
// place. A failed write leaves the cache untouched.
func (s *Service) UpdateOfferingPrice(ctx context.Context, id string, original, discount decimal.Decimal) (*domain.Offering, error) {
	if err := domain.ValidatePrices(original, discount); err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePrices(ctx, id, original, discount); err != nil {
		return nil, fmt.Errorf("update offering price: %w", err)
	}

	cached, err := s.cache.Get(ctx)
	if err != nil {
		return s.GetOffering(ctx, id)
	}

	var updated *domain.Offering
	for i := range cached {
		if cached[i].ID == id {
			cached[i].OriginalPrice = original
			cached[i].DiscountPrice = discount
			patched := cached[i].Clone()
			updated = &patched
		}
	}
	if updated == nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
		}
		return s.GetOffering(ctx, id)
	}

	if err := s.cache.Set(ctx, cached); err != nil {
		s.logger.WarnContext(ctx, "catalog cache write failed", "error", err)
	}

	s.logger.InfoContext(ctx, "offering price updated",
		"offering_id", id,
		"original_price", original.String(),
		"discount_price", discount.String(),
	)
	return updated, nil
}

// CreateOffering validates and inserts a custom offering, then reloads the
// catalog. Invalid drafts never reach the store.
func (s *Service) CreateOffering(ctx context.Context, draft domain.OfferingDraft) (*domain.Offering, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	offering := draft.Offering(s.newID())
	if err := s.repo.Insert(ctx, offering); err != nil {
		return nil, fmt.Errorf("insert offering: %w", err)
	}

	s.reload(ctx)

	s.logger.InfoContext(ctx, "offering created", "offering_id", offering.ID, "category", offering.Category)
	return &offering, nil
}

// SeedCatalog upserts the bundled catalog by id and reloads.
func (s *Service) SeedCatalog(ctx context.Context) (Listing, error) {
	seed := domain.SeedCatalog()
	if err := s.repo.Upsert(ctx, seed); err != nil {
		return Listing{}, fmt.Errorf("seed catalog: %w", err)
	}

	s.logger.InfoContext(ctx, "catalog seeded", "offerings", len(seed))
	return s.reload(ctx), nil
}

func (s *Service) reload(ctx context.Context) Listing {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
	return s.refresh(ctx)
}

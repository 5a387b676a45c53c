package app_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dejobratic/storefront/internal/catalog/adapters/memory"
	"github.com/dejobratic/storefront/internal/catalog/app"
	"github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/catalog/ports"
	"github.com/shopspring/decimal"
)

type stubRepository struct {
	offerings []domain.Offering
	fetchErr  error
	updateErr error
	fetches   int
	inserts   int
	upserts   int
}

func (s *stubRepository) FetchAll(ctx context.Context) ([]domain.Offering, error) {
	s.fetches++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := make([]domain.Offering, len(s.offerings))
	for i, o := range s.offerings {
		out[i] = o.Clone()
	}
	return out, nil
}

func (s *stubRepository) Upsert(ctx context.Context, offerings []domain.Offering) error {
	s.upserts++
	s.offerings = offerings
	return nil
}

func (s *stubRepository) UpdatePrices(ctx context.Context, id string, original, discount decimal.Decimal) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.offerings {
		if s.offerings[i].ID == id {
			s.offerings[i].OriginalPrice = original
			s.offerings[i].DiscountPrice = discount
			return nil
		}
	}
	return ports.ErrNotFound
}

func (s *stubRepository) Insert(ctx context.Context, offering domain.Offering) error {
	s.inserts++
	s.offerings = append(s.offerings, offering)
	return nil
}

func newService(repo ports.Repository) (*app.Service, *memory.Cache) {
	cache := memory.NewCache(time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return app.NewService(repo, cache, logger), cache
}

func storeCatalog() []domain.Offering {
	return []domain.Offering{
		{ID: "logo-design", Name: "Logo Design", Category: domain.CategoryGraphicsDesign, OriginalPrice: decimal.NewFromInt(3000), DiscountPrice: decimal.NewFromInt(1500), SearchTags: []string{"brand"}},
		{ID: "fb-ads", Name: "Facebook Ads", Category: domain.CategoryDigitalMarketing, OriginalPrice: decimal.NewFromInt(8000), DiscountPrice: decimal.NewFromInt(5500)},
	}
}

func TestListOfferings(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		repo       *stubRepository
		wantNotice app.Notice
		wantSeed   bool
	}{
		{"store catalog", &stubRepository{offerings: storeCatalog()}, "", false},
		{"missing schema", &stubRepository{fetchErr: fmt.Errorf("query offerings: %w", ports.ErrSchemaMissing)}, app.NoticeSetupRequired, true},
		{"store unreachable", &stubRepository{fetchErr: errors.New("connection refused")}, app.NoticeFetchFailed, true},
		{"empty store", &stubRepository{}, app.NoticeSeedCatalog, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService(tt.repo)

			listing := service.ListOfferings(ctx)

			if listing.Notice != tt.wantNotice {
				t.Errorf("expected notice %q, got %q", tt.wantNotice, listing.Notice)
			}
			if tt.wantSeed && len(listing.Offerings) != len(domain.SeedCatalog()) {
				t.Errorf("expected seed catalog, got %d offerings", len(listing.Offerings))
			}
		})
	}

	t.Run("sorts by category and serves repeats from cache", func(t *testing.T) {
		repo := &stubRepository{offerings: storeCatalog()}
		service, _ := newService(repo)

		first := service.ListOfferings(ctx)
		second := service.ListOfferings(ctx)

		if first.Offerings[0].ID != "fb-ads" {
			t.Errorf("expected digital marketing first, got %s", first.Offerings[0].ID)
		}
		if len(second.Offerings) != 2 {
			t.Errorf("expected 2 offerings, got %d", len(second.Offerings))
		}
		if repo.fetches != 1 {
			t.Errorf("expected one store fetch, got %d", repo.fetches)
		}
	})

	t.Run("does not cache the fallback", func(t *testing.T) {
		repo := &stubRepository{fetchErr: errors.New("timeout")}
		service, _ := newService(repo)

		service.ListOfferings(ctx)
		repo.fetchErr = nil
		repo.offerings = storeCatalog()
		listing := service.ListOfferings(ctx)

		if listing.Notice != "" || len(listing.Offerings) != 2 {
			t.Errorf("expected store catalog after recovery, got %+v", listing)
		}
	})
}

func TestSearch(t *testing.T) {
	service, _ := newService(&stubRepository{offerings: storeCatalog()})
	ctx := context.Background()

	tests := []struct {
		name     string
		query    string
		category string
		want     int
		wantErr  bool
	}{
		{"everything", "", "", 2, false},
		{"all category", "", "all", 2, false},
		{"by tag ignoring case", "BRAND", "", 1, false},
		{"by category", "", "digital-marketing", 1, false},
		{"query and category disagree", "logo", "digital-marketing", 0, false},
		{"unknown category", "", "groceries", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing, err := service.Search(ctx, tt.query, tt.category)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Search() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, app.ErrUnknownCategory) {
					t.Errorf("expected ErrUnknownCategory, got %v", err)
				}
				return
			}
			if len(listing.Offerings) != tt.want {
				t.Errorf("expected %d results, got %d", tt.want, len(listing.Offerings))
			}
		})
	}
}

func TestUpdateOfferingPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("patches cached catalog in place", func(t *testing.T) {
		repo := &stubRepository{offerings: storeCatalog()}
		service, _ := newService(repo)
		service.ListOfferings(ctx)

		updated, err := service.UpdateOfferingPrice(ctx, "logo-design", decimal.NewFromInt(4000), decimal.NewFromInt(2500))
		if err != nil {
			t.Fatalf("UpdateOfferingPrice() error = %v", err)
		}
		if !updated.DiscountPrice.Equal(decimal.NewFromInt(2500)) {
			t.Errorf("expected 2500, got %s", updated.DiscountPrice)
		}

		got, _ := service.GetOffering(ctx, "logo-design")
		if !got.OriginalPrice.Equal(decimal.NewFromInt(4000)) {
			t.Errorf("expected cached original 4000, got %s", got.OriginalPrice)
		}
		if repo.fetches != 1 {
			t.Errorf("expected no refetch, got %d fetches", repo.fetches)
		}
	})

	t.Run("failed write leaves cache untouched", func(t *testing.T) {
		repo := &stubRepository{offerings: storeCatalog()}
		service, cache := newService(repo)
		service.ListOfferings(ctx)
		repo.updateErr = errors.New("permission denied")

		_, err := service.UpdateOfferingPrice(ctx, "logo-design", decimal.NewFromInt(1), decimal.NewFromInt(1))
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		cached, _ := cache.Get(ctx)
		for _, o := range cached {
			if o.ID == "logo-design" && !o.DiscountPrice.Equal(decimal.NewFromInt(1500)) {
				t.Errorf("cache changed on failure: %s", o.DiscountPrice)
			}
		}
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		service, _ := newService(&stubRepository{offerings: storeCatalog()})

		_, err := service.UpdateOfferingPrice(ctx, "logo-design", decimal.NewFromInt(-1), decimal.NewFromInt(1))
		if !errors.Is(err, domain.ErrInvalidPrice) {
			t.Errorf("expected ErrInvalidPrice, got %v", err)
		}
	})

	t.Run("unknown offering", func(t *testing.T) {
		service, _ := newService(&stubRepository{offerings: storeCatalog()})

		_, err := service.UpdateOfferingPrice(ctx, "nope", decimal.NewFromInt(1), decimal.NewFromInt(1))
		if !errors.Is(err, ports.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCreateOffering(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts and refetches", func(t *testing.T) {
		repo := &stubRepository{offerings: storeCatalog()}
		service, _ := newService(repo)
		service.ListOfferings(ctx)

		created, err := service.CreateOffering(ctx, domain.OfferingDraft{
			Name:          "Landing Page",
			Category:      domain.CategoryWebsiteDesign,
			OriginalPrice: decimal.NewFromInt(9000),
			DiscountPrice: decimal.NewFromInt(7000),
		})
		if err != nil {
			t.Fatalf("CreateOffering() error = %v", err)
		}
		if created.Icon != domain.DefaultIcon {
			t.Errorf("expected default icon, got %s", created.Icon)
		}
		if len(created.ID) <= len("custom-") || created.ID[:7] != "custom-" {
			t.Errorf("expected custom- id, got %s", created.ID)
		}
		if repo.fetches != 2 {
			t.Errorf("expected refetch after insert, got %d fetches", repo.fetches)
		}
		if _, err := service.GetOffering(ctx, created.ID); err != nil {
			t.Errorf("created offering not listed: %v", err)
		}
	})

	t.Run("missing fields issue no write", func(t *testing.T) {
		repo := &stubRepository{offerings: storeCatalog()}
		service, _ := newService(repo)

		_, err := service.CreateOffering(ctx, domain.OfferingDraft{Name: "Nameless price"})

		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if repo.inserts != 0 {
			t.Errorf("expected no insert, got %d", repo.inserts)
		}
	})
}

func TestSeedCatalog(t *testing.T) {
	repo := &stubRepository{}
	service, _ := newService(repo)
	ctx := context.Background()

	if listing := service.ListOfferings(ctx); listing.Notice != app.NoticeSeedCatalog {
		t.Fatalf("expected seed notice before seeding, got %q", listing.Notice)
	}

	listing, err := service.SeedCatalog(ctx)
	if err != nil {
		t.Fatalf("SeedCatalog() error = %v", err)
	}
	if listing.Notice != "" {
		t.Errorf("expected store-backed listing, got notice %q", listing.Notice)
	}
	if len(listing.Offerings) != len(domain.SeedCatalog()) {
		t.Errorf("expected %d offerings, got %d", len(domain.SeedCatalog()), len(listing.Offerings))
	}
}

func TestReference(t *testing.T) {
	service, _ := newService(&stubRepository{})
	ref := service.Reference()

	if len(ref.Categories) != len(domain.Categories()) {
		t.Errorf("expected %d categories, got %d", len(domain.Categories()), len(ref.Categories))
	}
	if len(ref.Districts) != 64 {
		t.Errorf("expected 64 districts, got %d", len(ref.Districts))
	}
	if len(ref.Domains) == 0 || len(ref.HostingPlans) == 0 {
		t.Error("expected add-on tables")
	}
}

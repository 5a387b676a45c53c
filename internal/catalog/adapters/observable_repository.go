package adapters

import (
	"context"

	"github.com/dejobratic/storefront/internal/catalog/domain"
	"github.com/dejobratic/storefront/internal/catalog/ports"
	"github.com/dejobratic/storefront/internal/database"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ObservableRepository traces and times every catalog store call.
type ObservableRepository struct {
	repo    ports.Repository
	metrics *database.Metrics
}

func NewObservableRepository(repo ports.Repository, metrics *database.Metrics) *ObservableRepository {
	return &ObservableRepository{repo: repo, metrics: metrics}
}

func (r *ObservableRepository) FetchAll(ctx context.Context) ([]domain.Offering, error) {
	var offerings []domain.Offering
	err := database.Observe(ctx, r.metrics, "CatalogRepository.FetchAll", "fetch_offerings", nil,
		func(ctx context.Context, span trace.Span) error {
			var err error
			offerings, err = r.repo.FetchAll(ctx)
			span.SetAttributes(attribute.Int("result.count", len(offerings)))
			return err
		})
	if err != nil {
		return nil, err
	}
	return offerings, nil
}

func (r *ObservableRepository) Upsert(ctx context.Context, offerings []domain.Offering) error {
	attrs := []attribute.KeyValue{attribute.Int("offering.count", len(offerings))}
	return database.Observe(ctx, r.metrics, "CatalogRepository.Upsert", "upsert_offerings", attrs,
		func(ctx context.Context, _ trace.Span) error {
			return r.repo.Upsert(ctx, offerings)
		})
}

func (r *ObservableRepository) UpdatePrices(ctx context.Context, id string, original, discount decimal.Decimal) error {
	attrs := []attribute.KeyValue{attribute.String("offering.id", id)}
	return database.Observe(ctx, r.metrics, "CatalogRepository.UpdatePrices", "update_offering_prices", attrs,
		func(ctx context.Context, _ trace.Span) error {
			return r.repo.UpdatePrices(ctx, id, original, discount)
		})
}

func (r *ObservableRepository) Insert(ctx context.Context, offering domain.Offering) error {
	attrs := []attribute.KeyValue{
		attribute.String("offering.id", offering.ID),
		attribute.String("offering.category", string(offering.Category)),
	}
	return database.Observe(ctx, r.metrics, "CatalogRepository.Insert", "insert_offering", attrs,
		func(ctx context.Context, _ trace.Span) error {
			return r.repo.Insert(ctx, offering)
		})
}

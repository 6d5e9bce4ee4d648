package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/levelshop/backend/internal/infrastructure/telemetry"
)

// OrderedCollectionService manages a collection that is read in display
// order and saved as a whole. Banners and news share it.
type OrderedCollectionService[T storefront.OrderedRecord[T]] struct {
	collection string
	repo       storefront.OrderedRepository[T]
	fallback   func() []T
	newID      func() string
	serviceDeps
}

// NewBannerService creates the carousel service
func NewBannerService(repo storefront.BannerRepository, opts ...Option) *OrderedCollectionService[storefront.BannerImage] {
	return &OrderedCollectionService[storefront.BannerImage]{
		collection:  CollectionBanners,
		repo:        repo,
		fallback:    storefront.FallbackBanners,
		newID:       uuid.NewString,
		serviceDeps: newServiceDeps(opts),
	}
}

// NewNewsService creates the news ticker service
func NewNewsService(repo storefront.NewsRepository, opts ...Option) *OrderedCollectionService[storefront.NewsItem] {
	return &OrderedCollectionService[storefront.NewsItem]{
		collection:  CollectionNews,
		repo:        repo,
		fallback:    storefront.FallbackNews,
		newID:       uuid.NewString,
		serviceDeps: newServiceDeps(opts),
	}
}

// List returns the collection by ascending order, or the fallback
// collection when the store fails
func (s *OrderedCollectionService[T]) List(ctx context.Context) []T {
	ctx, span := telemetry.StartServiceSpan(ctx, s.collection, "list")
	defer span.End()
	defer s.observe(ctx, s.collection, "list", time.Now())

	records, err := s.repo.FindAll(ctx)
	if err != nil {
		s.degrade(ctx, span, s.collection, "list", err)
		return s.fallback()
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(records))
	return records
}

// ReplaceAll drops incomplete rows, renumbers the rest 1..N, gives new rows
// an id and makes the result the whole stored collection. The saved
// collection is returned.
func (s *OrderedCollectionService[T]) ReplaceAll(ctx context.Context, records []T) ([]T, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, s.collection, "replace_all")
	defer span.End()
	defer s.observe(ctx, s.collection, "replace_all", time.Now())

	clean := storefront.Resequence(records, s.newID)
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(clean))

	if err := s.repo.ReplaceAll(ctx, clean); err != nil {
		s.failed(ctx, span, s.collection, "replace_all", err)
		return nil, fmt.Errorf("failed to replace %s: %w", s.collection, err)
	}
	return clean, nil
}

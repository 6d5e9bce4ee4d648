package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/levelshop/backend/internal/infrastructure/telemetry"
)

// TermsService reads and writes the terms record
type TermsService struct {
	repo storefront.TermsRepository
	serviceDeps
}

// NewTermsService creates a new TermsService
func NewTermsService(repo storefront.TermsRepository, opts ...Option) *TermsService {
	return &TermsService{repo: repo, serviceDeps: newServiceDeps(opts)}
}

// GetTerms returns the stored terms. A missing row or a store failure
// yields the default terms so the page is never blank.
func (s *TermsService) GetTerms(ctx context.Context) storefront.Terms {
	ctx, span := telemetry.StartServiceSpan(ctx, CollectionSettings, "get_terms")
	defer span.End()
	defer s.observe(ctx, CollectionSettings, "get_terms", time.Now())

	terms, err := s.repo.Get(ctx)
	if err != nil {
		s.degrade(ctx, span, CollectionSettings, "get_terms", err)
		return storefront.DefaultTerms()
	}
	return *terms
}

// UpdateTerms upserts both terms texts
func (s *TermsService) UpdateTerms(ctx context.Context, req UpdateTermsRequest) (*storefront.Terms, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, CollectionSettings, "update_terms")
	defer span.End()
	defer s.observe(ctx, CollectionSettings, "update_terms", time.Now())

	terms := storefront.Terms{
		SellingTerms: req.SellingTerms,
		BuyingTerms:  req.BuyingTerms,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, terms); err != nil {
		s.failed(ctx, span, CollectionSettings, "update_terms", err)
		return nil, fmt.Errorf("failed to update terms: %w", err)
	}
	return &terms, nil
}

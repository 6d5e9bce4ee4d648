package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/levelshop/backend/internal/domain/shared"
	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/levelshop/backend/internal/infrastructure/telemetry"
)

// AccountService handles account listings
type AccountService struct {
	repo storefront.AccountRepository
	serviceDeps
}

// NewAccountService creates a new AccountService
func NewAccountService(repo storefront.AccountRepository, opts ...Option) *AccountService {
	return &AccountService{repo: repo, serviceDeps: newServiceDeps(opts)}
}

// List returns every account, newest first. A store failure is logged and
// answered with the fallback accounts.
func (s *AccountService) List(ctx context.Context) []storefront.Account {
	ctx, span := telemetry.StartServiceSpan(ctx, CollectionAccounts, "list")
	defer span.End()
	defer s.observe(ctx, CollectionAccounts, "list", time.Now())

	accounts, err := s.repo.FindAll(ctx)
	if err != nil {
		s.degrade(ctx, span, CollectionAccounts, "list", err)
		return storefront.FallbackAccounts()
	}
	for i := range accounts {
		accounts[i].Normalize()
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(accounts))
	return accounts
}

// Search lists accounts and narrows them by category, title and featured flag
func (s *AccountService) Search(ctx context.Context, filter AccountListFilter) []storefront.Account {
	return filter.ToDomain().Apply(s.List(ctx))
}

// GetByID returns one account. When the store is unreachable the fallback
// set is consulted before reporting not found.
func (s *AccountService) GetByID(ctx context.Context, id string) (*storefront.Account, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, CollectionAccounts, "get", telemetry.SpanAttrRecordID, id)
	defer span.End()
	defer s.observe(ctx, CollectionAccounts, "get", time.Now())

	account, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		account.Normalize()
		return account, nil
	case errors.Is(err, shared.ErrNotFound):
		return nil, shared.ErrNotFound
	}

	s.degrade(ctx, span, CollectionAccounts, "get", err)
	if fb, ok := storefront.FindFallbackAccount(id); ok {
		return &fb, nil
	}
	return nil, shared.ErrNotFound
}

// Create validates and stores a new account
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (*storefront.Account, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, CollectionAccounts, "create")
	defer span.End()
	defer s.observe(ctx, CollectionAccounts, "create", time.Now())

	account, err := storefront.NewAccount(
		req.Title,
		req.Price,
		storefront.Category(req.Category),
		req.Images,
		detailsToDomain(req.Details),
		req.Featured,
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.repo.Create(ctx, account); err != nil {
		s.failed(ctx, span, CollectionAccounts, "create", err)
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRecordID, account.ID)
	return account, nil
}

// Update patches the supplied fields of an account
func (s *AccountService) Update(ctx context.Context, id string, req UpdateAccountRequest) (*storefront.Account, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, CollectionAccounts, "update", telemetry.SpanAttrRecordID, id)
	defer span.End()
	defer s.observe(ctx, CollectionAccounts, "update", time.Now())

	account, err := s.repo.Update(ctx, id, req.ToPatch())
	if err != nil {
		if _, ok := shared.AsDomainError(err); ok {
			telemetry.RecordError(span, err)
			return nil, err
		}
		s.failed(ctx, span, CollectionAccounts, "update", err)
		return nil, fmt.Errorf("failed to update account %s: %w", id, err)
	}
	return account, nil
}

// Delete removes an account. Unknown ids succeed.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, CollectionAccounts, "delete", telemetry.SpanAttrRecordID, id)
	defer span.End()
	defer s.observe(ctx, CollectionAccounts, "delete", time.Now())

	if err := s.repo.Delete(ctx, id); err != nil {
		s.failed(ctx, span, CollectionAccounts, "delete", err)
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	return nil
}

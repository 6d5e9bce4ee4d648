package storefront

import "context"

// AccountRepository persists account listings
type AccountRepository interface {
	// FindAll returns every account, newest first
	FindAll(ctx context.Context) ([]Account, error)

	// FindByID returns shared.ErrNotFound when no account has the id
	FindByID(ctx context.Context, id string) (*Account, error)

	// Create stores a new account; the store assigns ID and CreatedAt
	Create(ctx context.Context, account *Account) error

	// Update applies patch to the account with the given id and returns
	// the stored result. shared.ErrNotFound when the id is unknown.
	Update(ctx context.Context, id string, patch AccountPatch) (*Account, error)

	// Delete removes the account; unknown ids are not an error
	Delete(ctx context.Context, id string) error
}

// OrderedRepository persists a collection that is always saved as a whole
type OrderedRepository[T OrderedRecord[T]] interface {
	// FindAll returns the collection by ascending order
	FindAll(ctx context.Context) ([]T, error)

	// ReplaceAll makes records the entire collection in one transaction:
	// rows are upserted by id and rows whose id is absent are deleted.
	ReplaceAll(ctx context.Context, records []T) error
}

// BannerRepository persists the home page carousel
type BannerRepository = OrderedRepository[BannerImage]

// NewsRepository persists the news ticker
type NewsRepository = OrderedRepository[NewsItem]

// TermsRepository persists the singleton terms record
type TermsRepository interface {
	// Get returns shared.ErrNotFound when no terms record exists
	Get(ctx context.Context) (*Terms, error)

	// Upsert writes the terms record keyed by TermsKey
	Upsert(ctx context.Context, terms Terms) error
}

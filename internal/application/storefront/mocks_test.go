package storefront

import (
	"context"
	"time"

	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of storefront.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAll(ctx context.Context) ([]storefront.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storefront.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id string) (*storefront.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *storefront.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, id string, patch storefront.AccountPatch) (*storefront.Account, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Account), args.Error(1)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderedRepository is a mock implementation of storefront.OrderedRepository
type MockOrderedRepository[T storefront.OrderedRecord[T]] struct {
	mock.Mock
}

func (m *MockOrderedRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockOrderedRepository[T]) ReplaceAll(ctx context.Context, records []T) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

// MockTermsRepository is a mock implementation of storefront.TermsRepository
type MockTermsRepository struct {
	mock.Mock
}

func (m *MockTermsRepository) Get(ctx context.Context) (*storefront.Terms, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Terms), args.Error(1)
}

func (m *MockTermsRepository) Upsert(ctx context.Context, terms storefront.Terms) error {
	args := m.Called(ctx, terms)
	return args.Error(0)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) PublicURL(key string) string {
	return "https://cdn.example/" + key
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/levelshop/backend/internal/application/admin"
	storefrontapp "github.com/levelshop/backend/internal/application/storefront"
	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/levelshop/backend/internal/infrastructure/persistence"
	"github.com/levelshop/backend/internal/interfaces/http/dto"
	"github.com/levelshop/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// MockAccountService serves both the read and write side of accounts
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Search(ctx context.Context, filter storefrontapp.AccountListFilter) []storefront.Account {
	args := m.Called(ctx, filter)
	return args.Get(0).([]storefront.Account)
}

func (m *MockAccountService) GetByID(ctx context.Context, id string) (*storefront.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Account), args.Error(1)
}

func (m *MockAccountService) Create(ctx context.Context, req storefrontapp.CreateAccountRequest) (*storefront.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Account), args.Error(1)
}

func (m *MockAccountService) Update(ctx context.Context, id string, req storefrontapp.UpdateAccountRequest) (*storefront.Account, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Account), args.Error(1)
}

func (m *MockAccountService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCollectionService is a banner or news service
type MockCollectionService[T any] struct {
	mock.Mock
}

func (m *MockCollectionService[T]) List(ctx context.Context) []T {
	args := m.Called(ctx)
	return args.Get(0).([]T)
}

func (m *MockCollectionService[T]) ReplaceAll(ctx context.Context, records []T) ([]T, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

// MockTermsService is a mock terms service
type MockTermsService struct {
	mock.Mock
}

func (m *MockTermsService) GetTerms(ctx context.Context) storefront.Terms {
	args := m.Called(ctx)
	return args.Get(0).(storefront.Terms)
}

func (m *MockTermsService) UpdateTerms(ctx context.Context, req storefrontapp.UpdateTermsRequest) (*storefront.Terms, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Terms), args.Error(1)
}

// MockPurchaseService is a mock purchase link builder
type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) Link(ctx context.Context, accountID string) (*storefrontapp.PurchaseLinkResponse, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefrontapp.PurchaseLinkResponse), args.Error(1)
}

// MockMediaService is a mock upload URL issuer
type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) UploadURL(ctx context.Context, req storefrontapp.UploadURLRequest) (*storefrontapp.UploadURLResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefrontapp.UploadURLResponse), args.Error(1)
}

// MockAuthService is a mock admin authenticator
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req admin.LoginRequest) (*admin.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, session admin.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// MockStore is a mock store pinger
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Stats() (persistence.ConnectionStats, error) {
	args := m.Called()
	return args.Get(0).(persistence.ConnectionStats), args.Error(1)
}

// envelope mirrors dto.Response with the data left raw for typed decoding
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
}

func performRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.True(t, env.Success, w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

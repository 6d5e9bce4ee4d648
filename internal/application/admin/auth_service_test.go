package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/levelshop/backend/internal/infrastructure/auth"
	"github.com/levelshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

// MockRevocationStore is a mock implementation of auth.RevocationStore
type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	args := m.Called(ctx, jti, until)
	return args.Error(0)
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: time.Hour,
		Issuer:     "levelshop-test",
	})
}

func newTestAuthService(t *testing.T, creds config.AdminConfig, bl auth.RevocationStore) *AuthService {
	t.Helper()
	if bl == nil {
		bl = auth.NewMemoryRevocationStore()
	}
	return NewAuthService(creds, newTestJWT(), bl, zaptest.NewLogger(t))
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, config.AdminConfig{Username: "admin", Password: "admin"}, nil)

	t.Run("accepts the configured credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "admin"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "admin", resp.Username)
		assert.True(t, resp.ExpiresAt.After(time.Now()))
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects a wrong username", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Username: "root", Password: "admin"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects everything when no password is configured", func(t *testing.T) {
		locked := newTestAuthService(t, config.AdminConfig{Username: "admin"}, nil)
		_, err := locked.Login(ctx, LoginRequest{Username: "admin", Password: ""})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Login_PasswordHash(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := newTestAuthService(t, config.AdminConfig{
		Username:     "owner",
		Password:     "ignored",
		PasswordHash: string(hash),
	}, nil)

	_, err = svc.Login(ctx, LoginRequest{Username: "owner", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Username: "owner", Password: "ignored"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AuthenticateAndLogout(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, config.AdminConfig{Username: "admin", Password: "admin"}, nil)

	resp, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "admin"})
	require.NoError(t, err)

	session, err := svc.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	assert.NotEmpty(t, session.TokenID)

	require.NoError(t, svc.Logout(ctx, *session))

	_, err = svc.Authenticate(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	other, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, other.AccessToken)
	assert.NoError(t, err, "signing out one session leaves others valid")
}

func TestAuthService_Authenticate_Invalid(t *testing.T) {
	svc := newTestAuthService(t, config.AdminConfig{Username: "admin", Password: "admin"}, nil)

	_, err := svc.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestAuthService_Authenticate_RevocationStoreDown(t *testing.T) {
	ctx := context.Background()
	bl := new(MockRevocationStore)
	bl.On("IsRevoked", mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	svc := newTestAuthService(t, config.AdminConfig{Username: "admin", Password: "admin"}, bl)
	resp, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "admin"})
	require.NoError(t, err)

	session, err := svc.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	bl.AssertExpectations(t)
}

func TestAuthService_Logout_RevocationError(t *testing.T) {
	bl := new(MockRevocationStore)
	bl.On("Revoke", mock.Anything, "jti-1", mock.AnythingOfType("time.Time")).Return(errors.New("redis down"))

	svc := newTestAuthService(t, config.AdminConfig{Username: "admin", Password: "admin"}, bl)
	err := svc.Logout(context.Background(), Session{Username: "admin", TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Minute)})
	require.Error(t, err)
	bl.AssertExpectations(t)
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/levelshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: 15 * time.Minute,
		Issuer:     "levelshop-test",
	})
}

func TestNewJWTService(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", Expiration: time.Hour, Issuer: "iss"})
	assert.Equal(t, []byte("s"), svc.secret)
	assert.Equal(t, time.Hour, svc.Expiration())
	assert.Equal(t, "iss", svc.issuer)

	t.Run("defaults expiration when unset", func(t *testing.T) {
		svc := NewJWTService(config.JWTConfig{Secret: "s"})
		assert.Equal(t, 12*time.Hour, svc.Expiration())
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()

	issued, err := svc.GenerateToken("admin")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.AccessToken)
	assert.Equal(t, "Bearer", issued.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(issued.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "levelshop-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := newTestJWTService()

	a, err := svc.GenerateToken("admin")
	require.NoError(t, err)
	b, err := svc.GenerateToken("admin")
	require.NoError(t, err)

	ca, err := svc.ValidateToken(a.AccessToken)
	require.NoError(t, err)
	cb, err := svc.ValidateToken(b.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestJWTService_ValidateToken_Rejections(t *testing.T) {
	svc := newTestJWTService()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-at-least-32-chars", Expiration: time.Minute, Issuer: "levelshop-test"})
		issued, err := other.GenerateToken("admin")
		require.NoError(t, err)

		_, err = svc.ValidateToken(issued.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Expiration: time.Minute, Issuer: "someone-else"})
		issued, err := other.GenerateToken("admin")
		require.NoError(t, err)

		_, err = svc.ValidateToken(issued.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti",
				Issuer:    "levelshop-test",
				ExpiresAt: jwt.NewNumericDate(past),
				IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
			},
			Username: "admin",
			Role:     RoleAdmin,
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti",
				Issuer:    "levelshop-test",
				ExpiresAt: jwt.NewNumericDate(future.Add(time.Hour)),
				NotBefore: jwt.NewNumericDate(future),
			},
			Username: "admin",
			Role:     RoleAdmin,
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("missing role", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti",
				Issuer:    "levelshop-test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Username: "admin",
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti",
				Issuer:    "levelshop-test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Username: "admin",
			Role:     RoleAdmin,
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

// Package admin gates the storefront editor behind a single configured
// credential pair and short-lived bearer tokens.
package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/levelshop/backend/internal/domain/shared"
	"github.com/levelshop/backend/internal/infrastructure/auth"
	"github.com/levelshop/backend/internal/infrastructure/config"
	"github.com/levelshop/backend/internal/infrastructure/logger"
	"github.com/levelshop/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Auth error codes
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	ErrSessionRevoked     = shared.NewDomainError("TOKEN_REVOKED", "Session has been signed out")
	ErrSessionExpired     = shared.NewDomainError("TOKEN_EXPIRED", "Session has expired")
	ErrSessionInvalid     = shared.NewDomainError("TOKEN_INVALID", "Invalid session token")
)

// AuthService handles admin sign-in and sign-out
type AuthService struct {
	credentials config.AdminConfig
	jwtService  *auth.JWTService
	revocations auth.RevocationStore
	logger      *zap.Logger
}

// NewAuthService creates a new admin authentication service
func NewAuthService(
	credentials config.AdminConfig,
	jwtService *auth.JWTService,
	revocations auth.RevocationStore,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		credentials: credentials,
		jwtService:  jwtService,
		revocations: revocations,
		logger:      logger,
	}
}

// Login checks the credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "admin", "login")
	defer span.End()

	log := logger.For(ctx, s.logger)

	if !s.verify(req.Username, req.Password) {
		log.Warn("Admin login rejected", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	issued, err := s.jwtService.GenerateToken(s.credentials.Username)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("Failed to sign admin token", zap.Error(err))
		return nil, err
	}

	log.Info("Admin signed in", zap.String("username", s.credentials.Username))
	return &LoginResponse{
		AccessToken: issued.AccessToken,
		TokenType:   issued.TokenType,
		ExpiresAt:   issued.ExpiresAt,
		Username:    s.credentials.Username,
	}, nil
}

// verify compares both values in constant time. A configured bcrypt hash
// takes precedence over the plain password.
func (s *AuthService) verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.credentials.Username)) == 1

	var passOK bool
	if s.credentials.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.credentials.PasswordHash), []byte(password)) == nil
	} else {
		passOK = s.credentials.Password != "" &&
			subtle.ConstantTimeCompare([]byte(password), []byte(s.credentials.Password)) == 1
	}
	return userOK && passOK
}

// Authenticate validates a bearer token and checks that it has not been revoked
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, ErrSessionExpired
		}
		return nil, ErrSessionInvalid
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		// fail open while the revocation store is unreachable
		logger.For(ctx, s.logger).Warn("Token revocation lookup failed",
			zap.String("jti", claims.ID),
			zap.Error(err),
		)
	} else if revoked {
		return nil, ErrSessionRevoked
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &Session{
		Username:  claims.Username,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the session's token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, session Session) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "admin", "logout")
	defer span.End()

	if err := s.revocations.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		telemetry.RecordError(span, err)
		logger.For(ctx, s.logger).Error("Failed to revoke admin token", zap.Error(err))
		return err
	}

	logger.For(ctx, s.logger).Info("Admin signed out", zap.String("username", session.Username))
	return nil
}

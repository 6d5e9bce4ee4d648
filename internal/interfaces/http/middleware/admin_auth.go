package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/levelshop/backend/internal/application/admin"
	"github.com/levelshop/backend/internal/domain/shared"
	"github.com/levelshop/backend/internal/infrastructure/logger"
	"github.com/levelshop/backend/internal/interfaces/http/dto"
)

// Admin auth context keys
const (
	AdminSessionKey = "admin_session"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// SessionAuthenticator resolves a bearer token to an admin session
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*admin.Session, error)
}

// AdminAuth rejects requests without a valid, non-revoked admin token
func AdminAuth(authenticator SessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing token")
			return
		}

		session, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			code, message := dto.ErrCodeTokenInvalid, "Invalid session token"
			if de, ok := shared.AsDomainError(err); ok {
				code, message = de.Code, de.Message
			}
			abortUnauthorized(c, code, message)
			return
		}

		c.Set(AdminSessionKey, session)
		c.Request = c.Request.WithContext(logger.WithAdmin(c.Request.Context(), session.Username))
		c.Next()
	}
}

// GetAdminSession returns the session set by AdminAuth
func GetAdminSession(c *gin.Context) (*admin.Session, bool) {
	v, ok := c.Get(AdminSessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*admin.Session)
	return s, ok
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="levelshop-admin"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

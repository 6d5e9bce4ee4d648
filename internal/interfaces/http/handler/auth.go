package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/levelshop/backend/internal/application/admin"
	"github.com/levelshop/backend/internal/interfaces/http/middleware"
)

// AdminAuthenticator signs the admin in and out
type AdminAuthenticator interface {
	Login(ctx context.Context, req admin.LoginRequest) (*admin.LoginResponse, error)
	Logout(ctx context.Context, session admin.Session) error
}

// AuthHandler handles admin authentication requests
type AuthHandler struct {
	BaseHandler
	authService AdminAuthenticator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AdminAuthenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SessionResponse describes the caller's admin session
type SessionResponse struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req admin.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Logout handles POST /auth/logout. The token stays rejected until it
// would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := middleware.GetAdminSession(c)
	if !ok {
		h.Unauthorized(c, "Not signed in")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), *session); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CurrentSession handles GET /auth/session
func (h *AuthHandler) CurrentSession(c *gin.Context) {
	session, ok := middleware.GetAdminSession(c)
	if !ok {
		h.Unauthorized(c, "Not signed in")
		return
	}
	h.Success(c, SessionResponse{Username: session.Username, ExpiresAt: session.ExpiresAt})
}

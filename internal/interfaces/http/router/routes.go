package router

import (
	"github.com/gin-gonic/gin"
	"github.com/levelshop/backend/internal/interfaces/http/handler"
)

// HealthPath is the full path of the health check
const HealthPath = "/api/v1/health"

// Handlers bundles the handlers mounted on the API
type Handlers struct {
	Storefront *handler.StorefrontHandler
	Admin      *handler.AdminHandler
	Auth       *handler.AuthHandler
	Health     *handler.HealthHandler
}

// Guards are the route-level middleware of the API
type Guards struct {
	// AdminAuth protects every write route
	AdminAuth gin.HandlerFunc
	// LoginLimit throttles sign-in attempts; nil disables it
	LoginLimit gin.HandlerFunc
}

// Mount registers the storefront API under /api/v1 and returns the mounted
// groups
func Mount(engine *gin.Engine, h Handlers, g Guards) []*DomainGroup {
	r := NewRouter(engine, WithAPIVersion("v1"))

	health := NewDomainGroup("health", "")
	health.GET("/health", h.Health.Check)

	storefront := NewDomainGroup("storefront", "/storefront")
	storefront.GET("/accounts", h.Storefront.ListAccounts)
	storefront.GET("/accounts/:id", h.Storefront.GetAccount)
	storefront.GET("/accounts/:id/purchase-link", h.Storefront.GetPurchaseLink)
	storefront.GET("/banners", h.Storefront.ListBanners)
	storefront.GET("/news", h.Storefront.ListNews)
	storefront.GET("/terms", h.Storefront.GetTerms)

	auth := NewDomainGroup("auth", "/auth")
	if g.LoginLimit != nil {
		auth.POST("/login", g.LoginLimit, h.Auth.Login)
	} else {
		auth.POST("/login", h.Auth.Login)
	}
	auth.POST("/logout", g.AdminAuth, h.Auth.Logout)
	auth.GET("/session", g.AdminAuth, h.Auth.CurrentSession)

	admin := NewDomainGroup("admin", "/admin").Use(g.AdminAuth)
	admin.POST("/accounts", h.Admin.CreateAccount)
	admin.PATCH("/accounts/:id", h.Admin.UpdateAccount)
	admin.DELETE("/accounts/:id", h.Admin.DeleteAccount)
	admin.PUT("/banners", h.Admin.ReplaceBanners)
	admin.PUT("/news", h.Admin.ReplaceNews)
	admin.PUT("/terms", h.Admin.UpdateTerms)
	admin.POST("/media/upload-url", h.Admin.CreateUploadURL)

	groups := []*DomainGroup{health, storefront, auth, admin}
	for _, group := range groups {
		r.Register(group)
	}
	r.Setup()
	return groups
}

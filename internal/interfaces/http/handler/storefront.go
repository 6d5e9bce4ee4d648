package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	storefrontapp "github.com/levelshop/backend/internal/application/storefront"
	"github.com/levelshop/backend/internal/domain/storefront"
)

// AccountQueries is the read side of the account service
type AccountQueries interface {
	Search(ctx context.Context, filter storefrontapp.AccountListFilter) []storefront.Account
	GetByID(ctx context.Context, id string) (*storefront.Account, error)
}

// PurchaseLinker builds purchase deep links
type PurchaseLinker interface {
	Link(ctx context.Context, accountID string) (*storefrontapp.PurchaseLinkResponse, error)
}

// Lister reads a whole ordered collection
type Lister[T any] interface {
	List(ctx context.Context) []T
}

// TermsReader reads the terms singleton
type TermsReader interface {
	GetTerms(ctx context.Context) storefront.Terms
}

// StorefrontHandler serves the public storefront pages. Every read answers
// 200; store outages are absorbed by the services' fallback data.
type StorefrontHandler struct {
	BaseHandler
	accounts  AccountQueries
	purchases PurchaseLinker
	banners   Lister[storefront.BannerImage]
	news      Lister[storefront.NewsItem]
	terms     TermsReader
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(
	accounts AccountQueries,
	purchases PurchaseLinker,
	banners Lister[storefront.BannerImage],
	news Lister[storefront.NewsItem],
	terms TermsReader,
) *StorefrontHandler {
	return &StorefrontHandler{
		accounts:  accounts,
		purchases: purchases,
		banners:   banners,
		news:      news,
		terms:     terms,
	}
}

// ListAccounts handles GET /storefront/accounts?category=&search=&featured=
func (h *StorefrontHandler) ListAccounts(c *gin.Context) {
	var filter storefrontapp.AccountListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	h.Success(c, h.accounts.Search(c.Request.Context(), filter))
}

// GetAccount handles GET /storefront/accounts/:id
func (h *StorefrontHandler) GetAccount(c *gin.Context) {
	account, err := h.accounts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// GetPurchaseLink handles GET /storefront/accounts/:id/purchase-link
func (h *StorefrontHandler) GetPurchaseLink(c *gin.Context) {
	link, err := h.purchases.Link(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}

// ListBanners handles GET /storefront/banners
func (h *StorefrontHandler) ListBanners(c *gin.Context) {
	h.Success(c, h.banners.List(c.Request.Context()))
}

// ListNews handles GET /storefront/news
func (h *StorefrontHandler) ListNews(c *gin.Context) {
	h.Success(c, h.news.List(c.Request.Context()))
}

// GetTerms handles GET /storefront/terms
func (h *StorefrontHandler) GetTerms(c *gin.Context) {
	h.Success(c, storefrontapp.ToTermsResponse(h.terms.GetTerms(c.Request.Context())))
}

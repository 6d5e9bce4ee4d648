package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	storefrontapp "github.com/levelshop/backend/internal/application/storefront"
	"github.com/levelshop/backend/internal/domain/storefront"
)

// AccountCommands is the write side of the account service
type AccountCommands interface {
	Create(ctx context.Context, req storefrontapp.CreateAccountRequest) (*storefront.Account, error)
	Update(ctx context.Context, id string, req storefrontapp.UpdateAccountRequest) (*storefront.Account, error)
	Delete(ctx context.Context, id string) error
}

// Replacer swaps a whole ordered collection for a new one
type Replacer[T any] interface {
	ReplaceAll(ctx context.Context, records []T) ([]T, error)
}

// TermsWriter updates the terms singleton
type TermsWriter interface {
	UpdateTerms(ctx context.Context, req storefrontapp.UpdateTermsRequest) (*storefront.Terms, error)
}

// UploadURLIssuer presigns image uploads
type UploadURLIssuer interface {
	UploadURL(ctx context.Context, req storefrontapp.UploadURLRequest) (*storefrontapp.UploadURLResponse, error)
}

// AdminHandler serves the admin console's write operations. Unlike the
// storefront, every store failure here is reported to the caller.
type AdminHandler struct {
	BaseHandler
	accounts AccountCommands
	banners  Replacer[storefront.BannerImage]
	news     Replacer[storefront.NewsItem]
	terms    TermsWriter
	media    UploadURLIssuer
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	accounts AccountCommands,
	banners Replacer[storefront.BannerImage],
	news Replacer[storefront.NewsItem],
	terms TermsWriter,
	media UploadURLIssuer,
) *AdminHandler {
	return &AdminHandler{
		accounts: accounts,
		banners:  banners,
		news:     news,
		terms:    terms,
		media:    media,
	}
}

// CreateAccount handles POST /admin/accounts
func (h *AdminHandler) CreateAccount(c *gin.Context) {
	var req storefrontapp.CreateAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// UpdateAccount handles PATCH /admin/accounts/:id
func (h *AdminHandler) UpdateAccount(c *gin.Context) {
	var req storefrontapp.UpdateAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.accounts.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// DeleteAccount handles DELETE /admin/accounts/:id. Unknown ids succeed.
func (h *AdminHandler) DeleteAccount(c *gin.Context) {
	if err := h.accounts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ReplaceBanners handles PUT /admin/banners
func (h *AdminHandler) ReplaceBanners(c *gin.Context) {
	var req storefrontapp.ReplaceBannersRequest
	if !h.BindJSON(c, &req) {
		return
	}

	saved, err := h.banners.ReplaceAll(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, saved)
}

// ReplaceNews handles PUT /admin/news
func (h *AdminHandler) ReplaceNews(c *gin.Context) {
	var req storefrontapp.ReplaceNewsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	saved, err := h.news.ReplaceAll(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, saved)
}

// UpdateTerms handles PUT /admin/terms
func (h *AdminHandler) UpdateTerms(c *gin.Context) {
	var req storefrontapp.UpdateTermsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	terms, err := h.terms.UpdateTerms(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, storefrontapp.ToTermsResponse(*terms))
}

// CreateUploadURL handles POST /admin/media/upload-url
func (h *AdminHandler) CreateUploadURL(c *gin.Context) {
	var req storefrontapp.UploadURLRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.media.UploadURL(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

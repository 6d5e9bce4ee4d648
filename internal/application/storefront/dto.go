package storefront

import (
	"time"

	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/shopspring/decimal"
)

// AccountListFilter holds the storefront listing query
type AccountListFilter struct {
	Category string `form:"category" binding:"omitempty,oneof=all premium various"`
	Search   string `form:"search" binding:"max=200"`
	Featured bool   `form:"featured"`
}

// ToDomain converts the query into a domain filter
func (f AccountListFilter) ToDomain() storefront.AccountFilter {
	return storefront.AccountFilter{
		Category:     f.Category,
		Search:       f.Search,
		FeaturedOnly: f.Featured,
	}
}

// AccountDetailInput is one label/value row from the account editor
type AccountDetailInput struct {
	ID    string `json:"id" binding:"max=64"`
	Label string `json:"label" binding:"max=100"`
	Value string `json:"value" binding:"max=500"`
}

func detailsToDomain(in []AccountDetailInput) []storefront.AccountDetail {
	out := make([]storefront.AccountDetail, 0, len(in))
	for _, d := range in {
		out = append(out, storefront.AccountDetail{ID: d.ID, Label: d.Label, Value: d.Value})
	}
	return out
}

// CreateAccountRequest represents a request to list a new account.
// Blank images and incomplete details are dropped before validation.
type CreateAccountRequest struct {
	Title    string               `json:"title" binding:"required,min=1,max=200"`
	Price    decimal.Decimal      `json:"price"`
	Category string               `json:"category" binding:"required,account_category"`
	Images   []string             `json:"images" binding:"required,min=1,dive,max=2048"`
	Details  []AccountDetailInput `json:"details" binding:"required,min=1,dive"`
	Featured bool                 `json:"featured"`
}

// UpdateAccountRequest represents a partial account update. Absent fields
// are left untouched.
type UpdateAccountRequest struct {
	Title    *string              `json:"title" binding:"omitempty,min=1,max=200"`
	Price    *decimal.Decimal     `json:"price"`
	Category *string              `json:"category" binding:"omitempty,account_category"`
	Images   []string             `json:"images" binding:"omitempty,dive,max=2048"`
	Details  []AccountDetailInput `json:"details" binding:"omitempty,dive"`
	Featured *bool                `json:"featured"`
}

// ToPatch converts the request into a domain patch
func (r UpdateAccountRequest) ToPatch() storefront.AccountPatch {
	patch := storefront.AccountPatch{
		Title:    r.Title,
		Price:    r.Price,
		Featured: r.Featured,
	}
	if r.Category != nil {
		c := storefront.Category(*r.Category)
		patch.Category = &c
	}
	if r.Images != nil {
		patch.SetImages(r.Images)
	}
	if r.Details != nil {
		patch.SetDetails(detailsToDomain(r.Details))
	}
	return patch
}

// BannerInput is one slide from the banner editor
type BannerInput struct {
	ID    string `json:"id" binding:"max=64"`
	URL   string `json:"url" binding:"max=2048"`
	Alt   string `json:"alt" binding:"max=255"`
	Order int    `json:"order"`
}

// ReplaceBannersRequest carries the whole carousel as edited
type ReplaceBannersRequest struct {
	Banners []BannerInput `json:"banners" binding:"dive"`
}

// ToDomain converts the editor rows into domain records
func (r ReplaceBannersRequest) ToDomain() []storefront.BannerImage {
	out := make([]storefront.BannerImage, 0, len(r.Banners))
	for _, b := range r.Banners {
		out = append(out, storefront.BannerImage{ID: b.ID, URL: b.URL, Alt: b.Alt, Order: b.Order})
	}
	return out
}

// NewsInput is one ticker line from the news editor
type NewsInput struct {
	ID    string `json:"id" binding:"max=64"`
	Text  string `json:"text" binding:"max=500"`
	Order int    `json:"order"`
}

// ReplaceNewsRequest carries the whole ticker as edited
type ReplaceNewsRequest struct {
	Items []NewsInput `json:"items" binding:"dive"`
}

// ToDomain converts the editor rows into domain records
func (r ReplaceNewsRequest) ToDomain() []storefront.NewsItem {
	out := make([]storefront.NewsItem, 0, len(r.Items))
	for _, n := range r.Items {
		out = append(out, storefront.NewsItem{ID: n.ID, Text: n.Text, Order: n.Order})
	}
	return out
}

// UpdateTermsRequest carries both terms texts
type UpdateTermsRequest struct {
	SellingTerms string `json:"selling_terms" binding:"max=20000"`
	BuyingTerms  string `json:"buying_terms" binding:"max=20000"`
}

// TermsResponse is the terms record plus its rendered bullet lines
type TermsResponse struct {
	SellingTerms string    `json:"selling_terms"`
	BuyingTerms  string    `json:"buying_terms"`
	SellingLines []string  `json:"selling_lines"`
	BuyingLines  []string  `json:"buying_lines"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

// ToTermsResponse renders t for the terms page
func ToTermsResponse(t storefront.Terms) TermsResponse {
	selling := storefront.TermLines(t.SellingTerms)
	if selling == nil {
		selling = []string{}
	}
	buying := storefront.TermLines(t.BuyingTerms)
	if buying == nil {
		buying = []string{}
	}
	return TermsResponse{
		SellingTerms: t.SellingTerms,
		BuyingTerms:  t.BuyingTerms,
		SellingLines: selling,
		BuyingLines:  buying,
		UpdatedAt:    t.UpdatedAt,
	}
}

// PurchaseLinkResponse is the messaging deep link for an account
type PurchaseLinkResponse struct {
	AccountID string `json:"account_id"`
	Message   string `json:"message"`
	URL       string `json:"url"`
}

// UploadURLRequest asks for a presigned image upload
type UploadURLRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=banners accounts"`
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// UploadURLResponse carries the presigned PUT URL and where the image
// will be served from once uploaded
type UploadURLResponse struct {
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

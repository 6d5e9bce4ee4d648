package storefront

import (
	"fmt"
	"strings"
	"time"

	"github.com/levelshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Category classifies an account listing
type Category string

const (
	CategoryPremium Category = "premium"
	CategoryVarious Category = "various"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	return c == CategoryPremium || c == CategoryVarious
}

// AccountDetail is one label/value line shown on an account listing.
// It is owned by its account and has no lifecycle of its own.
type AccountDetail struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Account is a game account listed for sale
type Account struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Category  Category        `json:"category"`
	Images    []string        `json:"images"`
	Details   []AccountDetail `json:"details"`
	Featured  bool            `json:"featured"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewAccount builds an account from editor input. Empty image URLs and
// incomplete details are dropped before validation.
func NewAccount(title string, price decimal.Decimal, category Category, images []string, details []AccountDetail, featured bool) (*Account, error) {
	a := &Account{
		Title:    strings.TrimSpace(title),
		Price:    price,
		Category: category,
		Images:   CleanImages(images),
		Details:  CleanDetails(details),
		Featured: featured,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the invariants an account must hold before it is persisted
func (a *Account) Validate() error {
	if a.Title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Account title cannot be empty")
	}
	if a.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Account price cannot be negative")
	}
	if !a.Category.Valid() {
		return shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown account category %q", a.Category))
	}
	if len(a.Images) == 0 {
		return shared.NewDomainError("INVALID_IMAGES", "Account needs at least one image")
	}
	if len(a.Details) == 0 {
		return shared.NewDomainError("INVALID_DETAILS", "Account needs at least one detail")
	}
	return nil
}

// Normalize replaces nil collections with empty ones so readers can range
// over them without checks.
func (a *Account) Normalize() {
	if a.Images == nil {
		a.Images = []string{}
	}
	if a.Details == nil {
		a.Details = []AccountDetail{}
	}
}

// Clone returns a deep copy of the account
func (a Account) Clone() Account {
	c := a
	c.Images = append([]string{}, a.Images...)
	c.Details = append([]AccountDetail{}, a.Details...)
	return c
}

// CleanImages drops blank image URLs, keeping the order of the rest
func CleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img != "" {
			out = append(out, img)
		}
	}
	return out
}

// CleanDetails drops details missing a label or a value and assigns
// detail-<index> ids to rows that arrive without one or repeat an earlier
// id. Generated ids skip past any id already in use.
func CleanDetails(details []AccountDetail) []AccountDetail {
	out := make([]AccountDetail, 0, len(details))
	positions := make([]int, 0, len(details))
	for i, d := range details {
		d.Label = strings.TrimSpace(d.Label)
		d.Value = strings.TrimSpace(d.Value)
		if d.Label == "" || d.Value == "" {
			continue
		}
		out = append(out, d)
		positions = append(positions, i)
	}

	// supplied ids win; the first row keeps a repeated one
	taken := make(map[string]bool, len(out))
	keep := make([]bool, len(out))
	for i, d := range out {
		if d.ID != "" && !taken[d.ID] {
			taken[d.ID] = true
			keep[i] = true
		}
	}
	for i := range out {
		if keep[i] {
			continue
		}
		n := positions[i]
		id := fmt.Sprintf("detail-%d", n)
		for taken[id] {
			n++
			id = fmt.Sprintf("detail-%d", n)
		}
		taken[id] = true
		out[i].ID = id
	}
	return out
}

// AccountPatch carries the fields of a partial account update. Nil fields
// are left untouched; image and detail lists join the patch through
// SetImages and SetDetails.
type AccountPatch struct {
	Title    *string
	Price    *decimal.Decimal
	Category *Category
	Featured *bool

	images     []string
	details    []AccountDetail
	imagesSet  bool
	detailsSet bool
}

// SetImages marks the image list as part of the patch
func (p *AccountPatch) SetImages(images []string) {
	p.images = CleanImages(images)
	p.imagesSet = true
}

// SetDetails marks the detail list as part of the patch
func (p *AccountPatch) SetDetails(details []AccountDetail) {
	p.details = CleanDetails(details)
	p.detailsSet = true
}

// Fields lists the column names touched by the patch
func (p AccountPatch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Price != nil {
		fields = append(fields, "price")
	}
	if p.Category != nil {
		fields = append(fields, "category")
	}
	if p.imagesSet {
		fields = append(fields, "images")
	}
	if p.detailsSet {
		fields = append(fields, "details")
	}
	if p.Featured != nil {
		fields = append(fields, "featured")
	}
	return fields
}

// IsEmpty reports whether the patch changes nothing
func (p AccountPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Apply writes the patched fields onto a and validates the result
func (p AccountPatch) Apply(a *Account) error {
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
	}
	if p.Price != nil {
		a.Price = *p.Price
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.imagesSet {
		a.Images = append([]string{}, p.images...)
	}
	if p.detailsSet {
		a.Details = append([]AccountDetail{}, p.details...)
	}
	if p.Featured != nil {
		a.Featured = *p.Featured
	}
	return a.Validate()
}

// AccountFilter narrows an account listing the way the storefront page does
type AccountFilter struct {
	// Category is "all", empty, or one of the Category values
	Category string
	// Search is matched case-insensitively against the title
	Search       string
	FeaturedOnly bool
}

// fold lowers s for caseless comparison. Casers are stateful, so each call
// gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Matches reports whether a passes the filter
func (f AccountFilter) Matches(a Account) bool {
	if f.Category != "" && f.Category != "all" && Category(f.Category) != a.Category {
		return false
	}
	if f.FeaturedOnly && !a.Featured {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		if !strings.Contains(fold(a.Title), fold(q)) {
			return false
		}
	}
	return true
}

// Apply returns the accounts that pass the filter, preserving order
func (f AccountFilter) Apply(accounts []Account) []Account {
	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

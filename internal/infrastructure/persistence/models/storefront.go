package models

import (
	"time"

	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the Account listing.
// Images and details are stored inline as JSON.
type AccountModel struct {
	ID        string                     `gorm:"type:text;primaryKey"`
	Title     string                     `gorm:"type:text;not null"`
	Price     decimal.Decimal            `gorm:"type:numeric(12,2);not null;default:0"`
	Category  string                     `gorm:"type:varchar(20);not null;index"`
	Images    []string                   `gorm:"type:jsonb;serializer:json;not null"`
	Details   []storefront.AccountDetail `gorm:"type:jsonb;serializer:json;not null"`
	Featured  bool                       `gorm:"not null;default:false"`
	CreatedAt time.Time                  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *storefront.Account {
	a := &storefront.Account{
		ID:        m.ID,
		Title:     m.Title,
		Price:     m.Price,
		Category:  storefront.Category(m.Category),
		Images:    m.Images,
		Details:   m.Details,
		Featured:  m.Featured,
		CreatedAt: m.CreatedAt,
	}
	a.Normalize()
	return a
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *storefront.Account) {
	m.ID = a.ID
	m.Title = a.Title
	m.Price = a.Price
	m.Category = string(a.Category)
	m.Images = a.Images
	m.Details = a.Details
	m.Featured = a.Featured
	m.CreatedAt = a.CreatedAt
	if m.Images == nil {
		m.Images = []string{}
	}
	if m.Details == nil {
		m.Details = []storefront.AccountDetail{}
	}
}

// BannerModel is the persistence model for a hero banner slide
type BannerModel struct {
	ID    string `gorm:"type:text;primaryKey"`
	URL   string `gorm:"type:text;not null"`
	Alt   string `gorm:"type:text;not null"`
	Order int    `gorm:"column:order;not null"`
}

// TableName returns the table name for GORM
func (BannerModel) TableName() string {
	return "banners"
}

// ToDomain converts the persistence model to a domain BannerImage
func (m *BannerModel) ToDomain() storefront.BannerImage {
	return storefront.BannerImage{ID: m.ID, URL: m.URL, Alt: m.Alt, Order: m.Order}
}

// FromDomain populates the persistence model from a domain BannerImage
func (m *BannerModel) FromDomain(b storefront.BannerImage) {
	m.ID = b.ID
	m.URL = b.URL
	m.Alt = b.Alt
	m.Order = b.Order
}

// NewsModel is the persistence model for a news ticker line
type NewsModel struct {
	ID    string `gorm:"type:text;primaryKey"`
	Text  string `gorm:"type:text;not null"`
	Order int    `gorm:"column:order;not null"`
}

// TableName returns the table name for GORM
func (NewsModel) TableName() string {
	return "news"
}

// ToDomain converts the persistence model to a domain NewsItem
func (m *NewsModel) ToDomain() storefront.NewsItem {
	return storefront.NewsItem{ID: m.ID, Text: m.Text, Order: m.Order}
}

// FromDomain populates the persistence model from a domain NewsItem
func (m *NewsModel) FromDomain(n storefront.NewsItem) {
	m.ID = n.ID
	m.Text = n.Text
	m.Order = n.Order
}

// SettingModel is a keyed settings row. Only the terms row exists today.
type SettingModel struct {
	Key          string    `gorm:"type:varchar(64);primaryKey"`
	SellingTerms string    `gorm:"type:text;not null;default:''"`
	BuyingTerms  string    `gorm:"type:text;not null;default:''"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the settings row to domain Terms
func (m *SettingModel) ToDomain() *storefront.Terms {
	return &storefront.Terms{
		SellingTerms: m.SellingTerms,
		BuyingTerms:  m.BuyingTerms,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomainTerms populates the terms row
func (m *SettingModel) FromDomainTerms(t storefront.Terms) {
	m.Key = storefront.TermsKey
	m.SellingTerms = t.SellingTerms
	m.BuyingTerms = t.BuyingTerms
	m.UpdatedAt = t.UpdatedAt
}

// All lists every model managed by AutoMigrate
func All() []any {
	return []any{
		&AccountModel{},
		&BannerModel{},
		&NewsModel{},
		&SettingModel{},
	}
}

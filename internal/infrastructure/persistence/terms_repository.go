package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/levelshop/backend/internal/domain/shared"
	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/levelshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTermsRepository stores the terms record in the settings table
type GormTermsRepository struct {
	db *gorm.DB
}

// NewGormTermsRepository creates a new GormTermsRepository
func NewGormTermsRepository(db *gorm.DB) *GormTermsRepository {
	return &GormTermsRepository{db: db}
}

// Get reads the terms row
func (r *GormTermsRepository) Get(ctx context.Context) (*storefront.Terms, error) {
	var row models.SettingModel
	if err := r.db.WithContext(ctx).First(&row, "key = ?", storefront.TermsKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// Upsert writes the terms row, creating it on first save
func (r *GormTermsRepository) Upsert(ctx context.Context, terms storefront.Terms) error {
	if terms.UpdatedAt.IsZero() {
		terms.UpdatedAt = time.Now().UTC()
	}
	var row models.SettingModel
	row.FromDomainTerms(terms)

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"selling_terms", "buying_terms", "updated_at"}),
	}).Create(&row).Error
}

var _ storefront.TermsRepository = (*GormTermsRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/levelshop/backend/internal/domain/shared"
	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/levelshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements storefront.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindAll returns every account, newest first
func (r *GormAccountRepository) FindAll(ctx context.Context) ([]storefront.Account, error) {
	var rows []models.AccountModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]storefront.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, *rows[i].ToDomain())
	}
	return accounts, nil
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id string) (*storefront.Account, error) {
	var row models.AccountModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// Create inserts a new account. The id and creation time are assigned here
// and written back to a.
func (r *GormAccountRepository) Create(ctx context.Context, a *storefront.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.Normalize()

	var row models.AccountModel
	row.FromDomain(a)
	return r.db.WithContext(ctx).Create(&row).Error
}

// Update applies patch to the stored account and returns the result
func (r *GormAccountRepository) Update(ctx context.Context, id string, patch storefront.AccountPatch) (*storefront.Account, error) {
	var updated *storefront.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.AccountModel
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		account := row.ToDomain()
		if patch.IsEmpty() {
			updated = account
			return nil
		}
		if err := patch.Apply(account); err != nil {
			return err
		}

		row.FromDomain(account)
		if err := tx.Model(&row).Select(patch.Fields()).Updates(&row).Error; err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an account. Deleting a missing id is not an error.
func (r *GormAccountRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AccountModel{}).Error
}

var _ storefront.AccountRepository = (*GormAccountRepository)(nil)

package persistence

import (
	"context"
	"fmt"

	"github.com/levelshop/backend/internal/domain/storefront"
	"github.com/levelshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderedRepository implements storefront.OrderedRepository for a
// collection whose rows carry a quoted "order" column. T is the domain
// record and M its persistence model.
type GormOrderedRepository[T storefront.OrderedRecord[T], M any] struct {
	db       *gorm.DB
	toModel  func(T) M
	toDomain func(*M) T
}

// NewGormBannerRepository creates the banner carousel repository
func NewGormBannerRepository(db *gorm.DB) *GormOrderedRepository[storefront.BannerImage, models.BannerModel] {
	return &GormOrderedRepository[storefront.BannerImage, models.BannerModel]{
		db: db,
		toModel: func(b storefront.BannerImage) models.BannerModel {
			var m models.BannerModel
			m.FromDomain(b)
			return m
		},
		toDomain: (*models.BannerModel).ToDomain,
	}
}

// NewGormNewsRepository creates the news ticker repository
func NewGormNewsRepository(db *gorm.DB) *GormOrderedRepository[storefront.NewsItem, models.NewsModel] {
	return &GormOrderedRepository[storefront.NewsItem, models.NewsModel]{
		db: db,
		toModel: func(n storefront.NewsItem) models.NewsModel {
			var m models.NewsModel
			m.FromDomain(n)
			return m
		},
		toDomain: (*models.NewsModel).ToDomain,
	}
}

// orderColumn is quoted by the dialect; order is a reserved word
var orderColumn = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

// FindAll returns the collection by ascending order
func (r *GormOrderedRepository[T, M]) FindAll(ctx context.Context) ([]T, error) {
	var rows []M
	if err := r.db.WithContext(ctx).Order(orderColumn).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]T, 0, len(rows))
	for i := range rows {
		records = append(records, r.toDomain(&rows[i]))
	}
	return records, nil
}

// ReplaceAll upserts every record by id and deletes rows whose id is not in
// records, all in one transaction. On failure the previous collection is
// left untouched. records must already be sequenced: unique ids, order 1..N.
func (r *GormOrderedRepository[T, M]) ReplaceAll(ctx context.Context, records []T) error {
	if err := storefront.CheckSequence(records); err != nil {
		return err
	}
	rows := make([]M, 0, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, r.toModel(rec))
		ids = append(ids, rec.RecordID())
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) == 0 {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(M)).Error; err != nil {
				return fmt.Errorf("failed to clear collection: %w", err)
			}
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to upsert records: %w", err)
		}
		if err := tx.Where("id NOT IN ?", ids).Delete(new(M)).Error; err != nil {
			return fmt.Errorf("failed to prune removed records: %w", err)
		}
		return nil
	})
}

var (
	_ storefront.BannerRepository = (*GormOrderedRepository[storefront.BannerImage, models.BannerModel])(nil)
	_ storefront.NewsRepository   = (*GormOrderedRepository[storefront.NewsItem, models.NewsModel])(nil)
)

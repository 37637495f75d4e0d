package persistence

import (
	"context"
	"errors"

	"github.com/fatura/backend/internal/domain/partner"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/fatura/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormChartOfAccountsRepository implements ChartOfAccountsRepository using GORM
type GormChartOfAccountsRepository struct {
	db *gorm.DB
}

// NewGormChartOfAccountsRepository creates a new GormChartOfAccountsRepository
func NewGormChartOfAccountsRepository(db *gorm.DB) *GormChartOfAccountsRepository {
	return &GormChartOfAccountsRepository{db: db}
}

// FindCategoryByID loads a category with its subcategories
func (r *GormChartOfAccountsRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*partner.ChartCategory, error) {
	var model models.ChartCategoryModel
	if err := r.db.WithContext(ctx).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllCategories lists all categories with their subcategories
func (r *GormChartOfAccountsRepository) FindAllCategories(ctx context.Context) ([]partner.ChartCategory, error) {
	var categoryModels []models.ChartCategoryModel
	if err := r.db.WithContext(ctx).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Order("name ASC").
		Find(&categoryModels).Error; err != nil {
		return nil, err
	}
	categories := make([]partner.ChartCategory, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// SaveCategory persists the category and its subcategory list, deleting the
// given removed subcategory IDs in the same transaction
func (r *GormChartOfAccountsRepository) SaveCategory(ctx context.Context, c *partner.ChartCategory, removedSubcategoryIDs []uuid.UUID) error {
	var model models.ChartCategoryModel
	model.FromDomain(c)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(removedSubcategoryIDs) > 0 {
			if err := tx.Delete(&models.ChartSubcategoryModel{}, "id IN ?", removedSubcategoryIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Omit("Subcategories").Save(&model).Error; err != nil {
			return err
		}
		for i := range model.Subcategories {
			if err := tx.Save(&model.Subcategories[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteCategory removes a category and all its subcategories
func (r *GormChartOfAccountsRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ChartSubcategoryModel{}, "category_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ChartCategoryModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountPayablesForSubcategories returns how many payable accounts reference any
// of the given subcategories
func (r *GormChartOfAccountsRepository) CountPayablesForSubcategories(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PayableAccountModel{}).
		Where("subcategory_id IN ?", ids).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormChartOfAccountsRepository implements ChartOfAccountsRepository
var _ partner.ChartOfAccountsRepository = (*GormChartOfAccountsRepository)(nil)

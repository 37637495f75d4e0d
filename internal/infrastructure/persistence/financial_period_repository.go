package persistence

import (
	"context"
	"errors"

	"github.com/fatura/backend/internal/domain/billing"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/fatura/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFinancialPeriodRepository implements FinancialPeriodRepository using GORM
type GormFinancialPeriodRepository struct {
	db *gorm.DB
}

// NewGormFinancialPeriodRepository creates a new GormFinancialPeriodRepository
func NewGormFinancialPeriodRepository(db *gorm.DB) *GormFinancialPeriodRepository {
	return &GormFinancialPeriodRepository{db: db}
}

// FindByID finds a financial period by its ID
func (r *GormFinancialPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.FinancialPeriod, error) {
	var model models.FinancialPeriodModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPeriod finds a financial period by its natural YYYY-MM key
func (r *GormFinancialPeriodRepository) FindByPeriod(ctx context.Context, period string) (*billing.FinancialPeriod, error) {
	var model models.FinancialPeriodModel
	if err := r.db.WithContext(ctx).First(&model, "period = ?", period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists all financial periods ordered by period descending
func (r *GormFinancialPeriodRepository) FindAll(ctx context.Context) ([]billing.FinancialPeriod, error) {
	var periodModels []models.FinancialPeriodModel
	if err := r.db.WithContext(ctx).Order("period DESC").Find(&periodModels).Error; err != nil {
		return nil, err
	}
	periods := make([]billing.FinancialPeriod, len(periodModels))
	for i, model := range periodModels {
		periods[i] = *model.ToDomain()
	}
	return periods, nil
}

// Save creates or updates a financial period
func (r *GormFinancialPeriodRepository) Save(ctx context.Context, fp *billing.FinancialPeriod) error {
	var model models.FinancialPeriodModel
	model.FromDomain(fp)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a financial period
func (r *GormFinancialPeriodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FinancialPeriodModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountInvoices returns how many invoices reference the period
func (r *GormFinancialPeriodRepository) CountInvoices(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("financial_period_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormFinancialPeriodRepository implements FinancialPeriodRepository
var _ billing.FinancialPeriodRepository = (*GormFinancialPeriodRepository)(nil)

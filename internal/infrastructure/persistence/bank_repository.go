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

// GormBankRepository implements BankRepository using GORM
type GormBankRepository struct {
	db *gorm.DB
}

// NewGormBankRepository creates a new GormBankRepository
func NewGormBankRepository(db *gorm.DB) *GormBankRepository {
	return &GormBankRepository{db: db}
}

// FindByID finds a bank by its ID
func (r *GormBankRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Bank, error) {
	var model models.BankModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all banks matching the filter
func (r *GormBankRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Bank, error) {
	var bankModels []models.BankModel
	query := r.db.WithContext(ctx).Model(&models.BankModel{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	query = applyPagination(query, filter, "name ASC")

	if err := query.Find(&bankModels).Error; err != nil {
		return nil, err
	}
	banks := make([]partner.Bank, len(bankModels))
	for i, model := range bankModels {
		banks[i] = *model.ToDomain()
	}
	return banks, nil
}

// Save creates or updates a bank
func (r *GormBankRepository) Save(ctx context.Context, b *partner.Bank) error {
	var model models.BankModel
	model.FromDomain(b)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a bank
func (r *GormBankRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BankModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBankRepository implements BankRepository
var _ partner.BankRepository = (*GormBankRepository)(nil)

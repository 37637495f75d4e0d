package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fatura/backend/internal/domain/payable"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/fatura/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayableAccountRepository implements PayableAccountRepository using GORM
type GormPayableAccountRepository struct {
	db *gorm.DB
}

// NewGormPayableAccountRepository creates a new GormPayableAccountRepository
func NewGormPayableAccountRepository(db *gorm.DB) *GormPayableAccountRepository {
	return &GormPayableAccountRepository{db: db}
}

// FindByID loads an account with its installments
func (r *GormPayableAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*payable.PayableAccount, error) {
	var model models.PayableAccountModel
	if err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists accounts with installments
func (r *GormPayableAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payable.PayableAccount, error) {
	var accountModels []models.PayableAccountModel
	query := r.db.WithContext(ctx).Model(&models.PayableAccountModel{}).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC")
		})

	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		dir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	} else {
		query = query.Order("due_date ASC")
	}

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]payable.PayableAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// FindByInstallmentID loads the account owning the given installment
func (r *GormPayableAccountRepository) FindByInstallmentID(ctx context.Context, installmentID uuid.UUID) (*payable.PayableAccount, error) {
	var installment models.InstallmentModel
	if err := r.db.WithContext(ctx).First(&installment, "id = ?", installmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, installment.PayableAccountID)
}

// CreateWithInstallments persists the account and all installments in one
// transaction
func (r *GormPayableAccountRepository) CreateWithInstallments(ctx context.Context, a *payable.PayableAccount) error {
	var model models.PayableAccountModel
	model.FromDomain(a)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&model).Error
	})
}

// Save persists the account's mutable fields without touching installments
func (r *GormPayableAccountRepository) Save(ctx context.Context, a *payable.PayableAccount) error {
	var model models.PayableAccountModel
	model.FromDomain(a)
	return r.db.WithContext(ctx).
		Omit("Installments").
		Save(&model).Error
}

// SaveInstallment persists a single installment
func (r *GormPayableAccountRepository) SaveInstallment(ctx context.Context, inst *payable.Installment) error {
	var model models.InstallmentModel
	model.FromDomain(inst)
	return r.db.WithContext(ctx).Save(&model).Error
}

// DeleteWithInstallments removes the account and all its installments in one
// transaction
func (r *GormPayableAccountRepository) DeleteWithInstallments(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.InstallmentModel{}, "payable_account_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PayableAccountModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// DeleteInstallment removes a single installment; when cascadeAccount is true
// the owning account is deleted in the same transaction
func (r *GormPayableAccountRepository) DeleteInstallment(ctx context.Context, installmentID uuid.UUID, cascadeAccount bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var installment models.InstallmentModel
		if err := tx.First(&installment, "id = ?", installmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&models.InstallmentModel{}, "id = ?", installmentID).Error; err != nil {
			return err
		}
		if cascadeAccount {
			if err := tx.Delete(&models.PayableAccountModel{}, "id = ?", installment.PayableAccountID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormPayableAccountRepository implements PayableAccountRepository
var _ payable.PayableAccountRepository = (*GormPayableAccountRepository)(nil)

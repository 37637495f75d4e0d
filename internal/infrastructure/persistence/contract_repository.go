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

// GormContractRepository implements ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUnit lists all contracts of a unit
func (r *GormContractRepository) FindByUnit(ctx context.Context, unitID uuid.UUID) ([]partner.Contract, error) {
	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("created_at ASC").
		Find(&contractModels).Error; err != nil {
		return nil, err
	}
	return toDomainContracts(contractModels), nil
}

// FindActive lists all contracts in ACTIVE status
func (r *GormContractRepository) FindActive(ctx context.Context) ([]partner.Contract, error) {
	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", partner.ContractStatusActive).
		Order("created_at ASC").
		Find(&contractModels).Error; err != nil {
		return nil, err
	}
	return toDomainContracts(contractModels), nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, c *partner.Contract) error {
	var model models.ContractModel
	model.FromDomain(c)
	return r.db.WithContext(ctx).Save(&model).Error
}

func toDomainContracts(contractModels []models.ContractModel) []partner.Contract {
	contracts := make([]partner.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts
}

// Ensure GormContractRepository implements ContractRepository
var _ partner.ContractRepository = (*GormContractRepository)(nil)

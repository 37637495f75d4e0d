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

// GormBillingProjectionRepository implements BillingProjectionRepository using GORM
type GormBillingProjectionRepository struct {
	db *gorm.DB
}

// NewGormBillingProjectionRepository creates a new GormBillingProjectionRepository
func NewGormBillingProjectionRepository(db *gorm.DB) *GormBillingProjectionRepository {
	return &GormBillingProjectionRepository{db: db}
}

// FindByID finds a projection by its ID
func (r *GormBillingProjectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingProjection, error) {
	var model models.BillingProjectionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingForPeriod loads all PENDING projections for a period, each joined
// with its contract and the contract's unit
func (r *GormBillingProjectionRepository) FindPendingForPeriod(ctx context.Context, period string) ([]billing.PendingProjection, error) {
	var projectionModels []models.BillingProjectionModel
	if err := r.db.WithContext(ctx).
		Where("period = ? AND status = ?", period, billing.ProjectionStatusPending).
		Order("created_at ASC").
		Find(&projectionModels).Error; err != nil {
		return nil, err
	}
	if len(projectionModels) == 0 {
		return []billing.PendingProjection{}, nil
	}

	contractIDs := make([]uuid.UUID, 0, len(projectionModels))
	for _, pm := range projectionModels {
		contractIDs = append(contractIDs, pm.ContractID)
	}

	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", contractIDs).
		Find(&contractModels).Error; err != nil {
		return nil, err
	}
	contractsByID := make(map[uuid.UUID]models.ContractModel, len(contractModels))
	unitIDs := make([]uuid.UUID, 0, len(contractModels))
	for _, cm := range contractModels {
		contractsByID[cm.ID] = cm
		unitIDs = append(unitIDs, cm.UnitID)
	}

	var unitModels []models.UnitModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", unitIDs).
		Find(&unitModels).Error; err != nil {
		return nil, err
	}
	unitsByID := make(map[uuid.UUID]models.UnitModel, len(unitModels))
	for _, um := range unitModels {
		unitsByID[um.ID] = um
	}

	pending := make([]billing.PendingProjection, 0, len(projectionModels))
	for _, pm := range projectionModels {
		cm, ok := contractsByID[pm.ContractID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		um, ok := unitsByID[cm.UnitID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		pending = append(pending, billing.PendingProjection{
			Projection: *pm.ToDomain(),
			Contract:   *cm.ToDomain(),
			Unit:       *um.ToDomain(),
		})
	}
	return pending, nil
}

// Save creates or updates a projection
func (r *GormBillingProjectionRepository) Save(ctx context.Context, p *billing.BillingProjection) error {
	var model models.BillingProjectionModel
	model.FromDomain(p)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Ensure GormBillingProjectionRepository implements BillingProjectionRepository
var _ billing.BillingProjectionRepository = (*GormBillingProjectionRepository)(nil)

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

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID loads a unit with its contacts
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).
		Preload("Contacts").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCompany lists all units of a company with their contacts
func (r *GormUnitRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]partner.Unit, error) {
	var unitModels []models.UnitModel
	if err := r.db.WithContext(ctx).
		Preload("Contacts").
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&unitModels).Error; err != nil {
		return nil, err
	}
	units := make([]partner.Unit, len(unitModels))
	for i, model := range unitModels {
		units[i] = *model.ToDomain()
	}
	return units, nil
}

// Save persists the unit and replaces its contact list. Existing contacts not
// present in the domain aggregate are removed in the same transaction.
func (r *GormUnitRepository) Save(ctx context.Context, u *partner.Unit) error {
	var model models.UnitModel
	model.FromDomain(u)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ContactModel{}, "unit_id = ?", u.ID).Error; err != nil {
			return err
		}
		if err := tx.Omit("Contacts").Save(&model).Error; err != nil {
			return err
		}
		if len(model.Contacts) > 0 {
			if err := tx.Create(&model.Contacts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a unit and its contacts
func (r *GormUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ContactModel{}, "unit_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.UnitModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormUnitRepository implements UnitRepository
var _ partner.UnitRepository = (*GormUnitRepository)(nil)

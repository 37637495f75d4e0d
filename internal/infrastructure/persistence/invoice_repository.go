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

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPeriod lists invoices for a period joined with contract, unit and
// company context
func (r *GormInvoiceRepository) FindByPeriod(ctx context.Context, period string) ([]billing.InvoiceWithContext, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("period = ?", period).
		Order("created_at ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return r.attachContext(ctx, invoiceModels)
}

// FindByFinancialPeriodWithUnit lists invoices tied to a financial period,
// each paired with the unit's current ISS-withholding flag
func (r *GormInvoiceRepository) FindByFinancialPeriodWithUnit(ctx context.Context, financialPeriodID uuid.UUID) ([]billing.InvoiceWithUnit, error) {
	type row struct {
		models.InvoiceModel
		WithholdsISS bool
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Table("invoices").
		Select("invoices.*, units.withholds_iss").
		Joins("JOIN contracts ON contracts.id = invoices.contract_id").
		Joins("JOIN units ON units.id = contracts.unit_id").
		Where("invoices.financial_period_id = ?", financialPeriodID).
		Order("invoices.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]billing.InvoiceWithUnit, 0, len(rows))
	for i := range rows {
		result = append(result, billing.InvoiceWithUnit{
			Invoice:      *rows[i].InvoiceModel.ToDomain(),
			WithholdsISS: rows[i].WithholdsISS,
		})
	}
	return result, nil
}

// Save creates or updates a single invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	return r.db.WithContext(ctx).Save(model).Error
}

// CreateBatch creates the invoices and flips the consumed projections to
// INVOICED in a single transaction
func (r *GormInvoiceRepository) CreateBatch(ctx context.Context, invoices []*billing.Invoice, projections []*billing.BillingProjection) error {
	if len(invoices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoiceModels := make([]models.InvoiceModel, 0, len(invoices))
		for _, inv := range invoices {
			invoiceModels = append(invoiceModels, *models.InvoiceModelFromDomain(inv))
		}
		if err := tx.Create(&invoiceModels).Error; err != nil {
			return err
		}
		for _, p := range projections {
			var model models.BillingProjectionModel
			model.FromDomain(p)
			if err := tx.Save(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveRecalculation persists the updated period together with every recomputed
// invoice in one transaction. Any failure rolls everything back, including the
// period edit.
func (r *GormInvoiceRepository) SaveRecalculation(ctx context.Context, fp *billing.FinancialPeriod, invoices []*billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var periodModel models.FinancialPeriodModel
		periodModel.FromDomain(fp)
		if err := tx.Save(&periodModel).Error; err != nil {
			return err
		}
		for _, inv := range invoices {
			if err := tx.Save(models.InvoiceModelFromDomain(inv)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// attachContext joins invoices with their contract, unit and company names
func (r *GormInvoiceRepository) attachContext(ctx context.Context, invoiceModels []models.InvoiceModel) ([]billing.InvoiceWithContext, error) {
	if len(invoiceModels) == 0 {
		return []billing.InvoiceWithContext{}, nil
	}

	contractIDs := make([]uuid.UUID, 0, len(invoiceModels))
	for _, im := range invoiceModels {
		contractIDs = append(contractIDs, im.ContractID)
	}

	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).Where("id IN ?", contractIDs).Find(&contractModels).Error; err != nil {
		return nil, err
	}
	contractsByID := make(map[uuid.UUID]models.ContractModel, len(contractModels))
	unitIDs := make([]uuid.UUID, 0, len(contractModels))
	for _, cm := range contractModels {
		contractsByID[cm.ID] = cm
		unitIDs = append(unitIDs, cm.UnitID)
	}

	var unitModels []models.UnitModel
	if err := r.db.WithContext(ctx).Where("id IN ?", unitIDs).Find(&unitModels).Error; err != nil {
		return nil, err
	}
	unitsByID := make(map[uuid.UUID]models.UnitModel, len(unitModels))
	companyIDs := make([]uuid.UUID, 0, len(unitModels))
	for _, um := range unitModels {
		unitsByID[um.ID] = um
		companyIDs = append(companyIDs, um.CompanyID)
	}

	var companyModels []models.CompanyModel
	if err := r.db.WithContext(ctx).Where("id IN ?", companyIDs).Find(&companyModels).Error; err != nil {
		return nil, err
	}
	companyNamesByID := make(map[uuid.UUID]string, len(companyModels))
	for _, cm := range companyModels {
		companyNamesByID[cm.ID] = cm.Name
	}

	result := make([]billing.InvoiceWithContext, 0, len(invoiceModels))
	for _, im := range invoiceModels {
		cm, ok := contractsByID[im.ContractID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		um, ok := unitsByID[cm.UnitID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		result = append(result, billing.InvoiceWithContext{
			Invoice:     *im.ToDomain(),
			Contract:    *cm.ToDomain(),
			Unit:        *um.ToDomain(),
			CompanyName: companyNamesByID[um.CompanyID],
		})
	}
	return result, nil
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

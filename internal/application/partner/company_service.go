package partner

import (
	"context"

	"github.com/fatura/backend/internal/domain/partner"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CompanyService manages companies, their units and unit contracts
type CompanyService struct {
	companyRepo  partner.CompanyRepository
	unitRepo     partner.UnitRepository
	contractRepo partner.ContractRepository
	audit        shared.AuditRecorder
	logger       *zap.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companyRepo partner.CompanyRepository,
	unitRepo partner.UnitRepository,
	contractRepo partner.ContractRepository,
	audit shared.AuditRecorder,
	logger *zap.Logger,
) *CompanyService {
	return &CompanyService{
		companyRepo:  companyRepo,
		unitRepo:     unitRepo,
		contractRepo: contractRepo,
		audit:        audit,
		logger:       logger,
	}
}

// CompanyRequest represents a company create or update payload
type CompanyRequest struct {
	Name       string `json:"name" binding:"required"`
	TradeName  string `json:"trade_name"`
	DocumentID string `json:"document_id" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
}

// ContactRequest represents one contact of a unit payload
type ContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// UnitRequest represents a unit create or update payload
type UnitRequest struct {
	Name         string           `json:"name" binding:"required"`
	DocumentID   string           `json:"document_id"`
	WithholdsISS bool             `json:"withholds_iss"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	State        string           `json:"state"`
	ZipCode      string           `json:"zip_code"`
	Contacts     []ContactRequest `json:"contacts"`
}

// ContractRequest represents a contract create or update payload
type ContractRequest struct {
	Description      string          `json:"description"`
	Recurring        bool            `json:"recurring"`
	PerCapita        bool            `json:"per_capita"`
	InstallmentCount int             `json:"installment_count"`
	BaseAmount       decimal.Decimal `json:"base_amount" binding:"required"`
	DueDay           int             `json:"due_day" binding:"required,min=1,max=31"`
	BilledBy         string          `json:"billed_by" binding:"required,oneof=HEAD_OFFICE UNIT THIRD_PARTY"`
	ActiveLivesCount *int            `json:"active_lives_count"`
}

// CreateCompany registers a company
func (s *CompanyService) CreateCompany(ctx context.Context, req CompanyRequest, actor shared.Actor) (*partner.Company, error) {
	c, err := partner.NewCompany(req.Name, req.TradeName, req.DocumentID)
	if err != nil {
		return nil, err
	}
	c.Email = req.Email
	c.Phone = req.Phone

	if err := s.companyRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "company.create",
		EntityType: "Company",
		EntityID:   c.ID,
		After:      c,
	})
	return c, nil
}

// ListCompanies lists companies
func (s *CompanyService) ListCompanies(ctx context.Context, filter shared.Filter) ([]partner.Company, error) {
	return s.companyRepo.FindAll(ctx, filter)
}

// GetCompany returns one company
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	return s.companyRepo.FindByID(ctx, id)
}

// UpdateCompany edits a company's descriptive fields
func (s *CompanyService) UpdateCompany(ctx context.Context, id uuid.UUID, req CompanyRequest, actor shared.Actor) (*partner.Company, error) {
	c, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *c

	if err := c.Update(req.Name, req.TradeName, req.DocumentID, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "company.update",
		EntityType: "Company",
		EntityID:   c.ID,
		Before:     before,
		After:      c,
	})
	return c, nil
}

// DeleteCompany removes a company
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	c, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.companyRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "company.delete",
		EntityType: "Company",
		EntityID:   id,
		Before:     c,
	})
	return nil
}

// CreateUnit registers a unit under a company
func (s *CompanyService) CreateUnit(ctx context.Context, companyID uuid.UUID, req UnitRequest, actor shared.Actor) (*partner.Unit, error) {
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}

	u, err := partner.NewUnit(companyID, req.Name, req.DocumentID, req.WithholdsISS)
	if err != nil {
		return nil, err
	}
	u.Address = req.Address
	u.City = req.City
	u.State = req.State
	u.ZipCode = req.ZipCode

	contacts, err := buildContacts(u.ID, req.Contacts)
	if err != nil {
		return nil, err
	}
	u.Contacts = contacts

	if err := s.unitRepo.Save(ctx, u); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "unit.create",
		EntityType: "Unit",
		EntityID:   u.ID,
		After:      u,
	})
	return u, nil
}

// ListUnits lists the units of a company
func (s *CompanyService) ListUnits(ctx context.Context, companyID uuid.UUID) ([]partner.Unit, error) {
	return s.unitRepo.FindByCompany(ctx, companyID)
}

// GetUnit returns one unit with its contacts
func (s *CompanyService) GetUnit(ctx context.Context, id uuid.UUID) (*partner.Unit, error) {
	return s.unitRepo.FindByID(ctx, id)
}

// UpdateUnit edits a unit and replaces its contact list. Flipping the
// ISS-withholding switch changes which rate future generation and
// recalculation pick for the unit's invoices.
func (s *CompanyService) UpdateUnit(ctx context.Context, id uuid.UUID, req UnitRequest, actor shared.Actor) (*partner.Unit, error) {
	u, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *u

	if err := u.Update(req.Name, req.DocumentID, req.WithholdsISS, req.Address, req.City, req.State, req.ZipCode); err != nil {
		return nil, err
	}
	contacts, err := buildContacts(u.ID, req.Contacts)
	if err != nil {
		return nil, err
	}
	u.ReplaceContacts(contacts)

	if err := s.unitRepo.Save(ctx, u); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "unit.update",
		EntityType: "Unit",
		EntityID:   u.ID,
		Before:     before,
		After:      u,
	})
	return u, nil
}

// DeleteUnit removes a unit
func (s *CompanyService) DeleteUnit(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	u, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.unitRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "unit.delete",
		EntityType: "Unit",
		EntityID:   id,
		Before:     u,
	})
	return nil
}

// CreateContract attaches a contract to a unit
func (s *CompanyService) CreateContract(ctx context.Context, unitID uuid.UUID, req ContractRequest, actor shared.Actor) (*partner.Contract, error) {
	if _, err := s.unitRepo.FindByID(ctx, unitID); err != nil {
		return nil, err
	}

	c, err := partner.NewContract(
		unitID,
		req.Description,
		req.Recurring,
		req.PerCapita,
		req.InstallmentCount,
		req.BaseAmount,
		req.DueDay,
		partner.BillingEntity(req.BilledBy),
	)
	if err != nil {
		return nil, err
	}
	if req.ActiveLivesCount != nil {
		if err := c.SetActiveLives(*req.ActiveLivesCount); err != nil {
			return nil, err
		}
	}

	if err := s.contractRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "contract.create",
		EntityType: "Contract",
		EntityID:   c.ID,
		After:      c,
	})
	return c, nil
}

// ListContracts lists the contracts of a unit
func (s *CompanyService) ListContracts(ctx context.Context, unitID uuid.UUID) ([]partner.Contract, error) {
	return s.contractRepo.FindByUnit(ctx, unitID)
}

// ChangeContractStatus moves a contract to a new lifecycle status
func (s *CompanyService) ChangeContractStatus(ctx context.Context, id uuid.UUID, status string, actor shared.Actor) (*partner.Contract, error) {
	c, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *c

	if err := c.ChangeStatus(partner.ContractStatus(status)); err != nil {
		return nil, err
	}
	if err := s.contractRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "contract.change_status",
		EntityType: "Contract",
		EntityID:   c.ID,
		Before:     before,
		After:      c,
	})
	return c, nil
}

// SetContractLives updates the active lives count of a per-capita contract
func (s *CompanyService) SetContractLives(ctx context.Context, id uuid.UUID, count int, actor shared.Actor) (*partner.Contract, error) {
	c, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *c

	if err := c.SetActiveLives(count); err != nil {
		return nil, err
	}
	if err := s.contractRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "contract.set_lives",
		EntityType: "Contract",
		EntityID:   c.ID,
		Before:     before,
		After:      c,
	})
	return c, nil
}

func buildContacts(unitID uuid.UUID, reqs []ContactRequest) ([]partner.Contact, error) {
	contacts := make([]partner.Contact, 0, len(reqs))
	for _, cr := range reqs {
		contact, err := partner.NewContact(unitID, cr.Name, cr.Email, cr.Phone, cr.Role)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	return contacts, nil
}

package partner

import (
	"context"

	"github.com/fatura/backend/internal/domain/partner"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSubcategoryInUse blocks chart edits that would drop subcategories still
// referenced by payable accounts.
var ErrSubcategoryInUse = shared.NewDomainError("SUBCATEGORY_IN_USE", "Subcategory is referenced by payable accounts and cannot be removed")

// ReferenceService manages the back-office reference data: suppliers, banks
// and the chart of accounts
type ReferenceService struct {
	supplierRepo partner.SupplierRepository
	bankRepo     partner.BankRepository
	chartRepo    partner.ChartOfAccountsRepository
	audit        shared.AuditRecorder
	logger       *zap.Logger
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(
	supplierRepo partner.SupplierRepository,
	bankRepo partner.BankRepository,
	chartRepo partner.ChartOfAccountsRepository,
	audit shared.AuditRecorder,
	logger *zap.Logger,
) *ReferenceService {
	return &ReferenceService{
		supplierRepo: supplierRepo,
		bankRepo:     bankRepo,
		chartRepo:    chartRepo,
		audit:        audit,
		logger:       logger,
	}
}

// SupplierRequest represents a supplier create or update payload
type SupplierRequest struct {
	Name       string `json:"name" binding:"required"`
	DocumentID string `json:"document_id"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
}

// BankRequest represents a bank create or update payload
type BankRequest struct {
	Name    string `json:"name" binding:"required"`
	Code    string `json:"code"`
	Agency  string `json:"agency"`
	Account string `json:"account"`
}

// SubcategoryRequest is one subcategory of a chart category payload. A nil ID
// marks a new subcategory; existing subcategories missing from the list are
// removed.
type SubcategoryRequest struct {
	ID   *uuid.UUID `json:"id"`
	Name string     `json:"name" binding:"required"`
}

// ChartCategoryRequest represents a chart category create or update payload
type ChartCategoryRequest struct {
	Name          string               `json:"name" binding:"required"`
	Subcategories []SubcategoryRequest `json:"subcategories"`
}

// CreateSupplier registers a supplier
func (s *ReferenceService) CreateSupplier(ctx context.Context, req SupplierRequest, actor shared.Actor) (*partner.Supplier, error) {
	sup, err := partner.NewSupplier(req.Name, req.DocumentID, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "supplier.create",
		EntityType: "Supplier",
		EntityID:   sup.ID,
		After:      sup,
	})
	return sup, nil
}

// ListSuppliers lists suppliers
func (s *ReferenceService) ListSuppliers(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	return s.supplierRepo.FindAll(ctx, filter)
}

// UpdateSupplier edits a supplier
func (s *ReferenceService) UpdateSupplier(ctx context.Context, id uuid.UUID, req SupplierRequest, actor shared.Actor) (*partner.Supplier, error) {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *sup

	if err := sup.Update(req.Name, req.DocumentID, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "supplier.update",
		EntityType: "Supplier",
		EntityID:   sup.ID,
		Before:     before,
		After:      sup,
	})
	return sup, nil
}

// DeleteSupplier removes a supplier
func (s *ReferenceService) DeleteSupplier(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "supplier.delete",
		EntityType: "Supplier",
		EntityID:   id,
		Before:     sup,
	})
	return nil
}

// CreateBank registers a bank
func (s *ReferenceService) CreateBank(ctx context.Context, req BankRequest, actor shared.Actor) (*partner.Bank, error) {
	b, err := partner.NewBank(req.Name, req.Code, req.Agency, req.Account)
	if err != nil {
		return nil, err
	}
	if err := s.bankRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "bank.create",
		EntityType: "Bank",
		EntityID:   b.ID,
		After:      b,
	})
	return b, nil
}

// ListBanks lists banks
func (s *ReferenceService) ListBanks(ctx context.Context, filter shared.Filter) ([]partner.Bank, error) {
	return s.bankRepo.FindAll(ctx, filter)
}

// UpdateBank edits a bank
func (s *ReferenceService) UpdateBank(ctx context.Context, id uuid.UUID, req BankRequest, actor shared.Actor) (*partner.Bank, error) {
	b, err := s.bankRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *b

	if err := b.Update(req.Name, req.Code, req.Agency, req.Account); err != nil {
		return nil, err
	}
	if err := s.bankRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "bank.update",
		EntityType: "Bank",
		EntityID:   b.ID,
		Before:     before,
		After:      b,
	})
	return b, nil
}

// DeleteBank removes a bank
func (s *ReferenceService) DeleteBank(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	b, err := s.bankRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bankRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "bank.delete",
		EntityType: "Bank",
		EntityID:   id,
		Before:     b,
	})
	return nil
}

// CreateChartCategory registers a chart category with its subcategories
func (s *ReferenceService) CreateChartCategory(ctx context.Context, req ChartCategoryRequest, actor shared.Actor) (*partner.ChartCategory, error) {
	names := make([]string, 0, len(req.Subcategories))
	for _, sub := range req.Subcategories {
		names = append(names, sub.Name)
	}
	cat, err := partner.NewChartCategory(req.Name, names)
	if err != nil {
		return nil, err
	}
	if err := s.chartRepo.SaveCategory(ctx, cat, nil); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "chart_category.create",
		EntityType: "ChartCategory",
		EntityID:   cat.ID,
		After:      cat,
	})
	return cat, nil
}

// ListChartCategories lists all chart categories with subcategories
func (s *ReferenceService) ListChartCategories(ctx context.Context) ([]partner.ChartCategory, error) {
	return s.chartRepo.FindAllCategories(ctx)
}

// UpdateChartCategory reconciles a category against the submitted subcategory
// list. Subcategories dropped from the list are deleted, unless any of them is
// still referenced by a payable account, in which case the whole edit is
// rejected.
func (s *ReferenceService) UpdateChartCategory(ctx context.Context, id uuid.UUID, req ChartCategoryRequest, actor shared.Actor) (*partner.ChartCategory, error) {
	cat, err := s.chartRepo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *cat

	submitted := make([]partner.SubcategoryInput, 0, len(req.Subcategories))
	for _, sub := range req.Subcategories {
		submitted = append(submitted, partner.SubcategoryInput{ID: sub.ID, Name: sub.Name})
	}
	removed, err := cat.SyncSubcategories(req.Name, submitted)
	if err != nil {
		return nil, err
	}

	if len(removed) > 0 {
		count, err := s.chartRepo.CountPayablesForSubcategories(ctx, removed)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSubcategoryInUse
		}
	}

	if err := s.chartRepo.SaveCategory(ctx, cat, removed); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "chart_category.update",
		EntityType: "ChartCategory",
		EntityID:   cat.ID,
		Before:     before,
		After:      cat,
	})
	return cat, nil
}

// DeleteChartCategory removes a category and its subcategories, refusing when
// any subcategory is still referenced by a payable account
func (s *ReferenceService) DeleteChartCategory(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	cat, err := s.chartRepo.FindCategoryByID(ctx, id)
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(cat.Subcategories))
	for _, sub := range cat.Subcategories {
		ids = append(ids, sub.ID)
	}
	if len(ids) > 0 {
		count, err := s.chartRepo.CountPayablesForSubcategories(ctx, ids)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSubcategoryInUse
		}
	}

	if err := s.chartRepo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "chart_category.delete",
		EntityType: "ChartCategory",
		EntityID:   id,
		Before:     cat,
	})
	return nil
}

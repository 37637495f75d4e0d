package billing

import (
	"context"
	"time"

	"github.com/fatura/backend/internal/domain/billing"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PeriodService manages financial periods and their tax rates
type PeriodService struct {
	periodRepo     billing.FinancialPeriodRepository
	invoiceService *InvoiceService
	audit          shared.AuditRecorder
	logger         *zap.Logger
}

// NewPeriodService creates a new PeriodService
func NewPeriodService(
	periodRepo billing.FinancialPeriodRepository,
	invoiceService *InvoiceService,
	audit shared.AuditRecorder,
	logger *zap.Logger,
) *PeriodService {
	return &PeriodService{
		periodRepo:     periodRepo,
		invoiceService: invoiceService,
		audit:          audit,
		logger:         logger,
	}
}

// CreatePeriodRequest represents a request to open a financial period
type CreatePeriodRequest struct {
	Period         string          `json:"competencia" binding:"required,competencia"`
	GeneralTaxRate decimal.Decimal `json:"taxa_imposto" binding:"required"`
	ISSRate        decimal.Decimal `json:"taxa_iss" binding:"required"`
	InflationIndex decimal.Decimal `json:"indice_inflacao"`
}

// UpdatePeriodRequest represents a rate edit on an existing period
type UpdatePeriodRequest struct {
	GeneralTaxRate decimal.Decimal `json:"taxa_imposto" binding:"required"`
	ISSRate        decimal.Decimal `json:"taxa_iss" binding:"required"`
	InflationIndex decimal.Decimal `json:"indice_inflacao"`
}

// PeriodResponse represents a financial period in API responses
type PeriodResponse struct {
	ID             uuid.UUID       `json:"id"`
	Period         string          `json:"competencia"`
	GeneralTaxRate decimal.Decimal `json:"taxa_imposto"`
	ISSRate        decimal.Decimal `json:"taxa_iss"`
	InflationIndex decimal.Decimal `json:"indice_inflacao"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// UpdatePeriodResponse carries the saved period plus how many invoices the
// edit recomputed
type UpdatePeriodResponse struct {
	Period             PeriodResponse `json:"competencia"`
	InvoicesRecomputed int            `json:"invoices_recomputed"`
}

func toPeriodResponse(fp *billing.FinancialPeriod) PeriodResponse {
	return PeriodResponse{
		ID:             fp.ID,
		Period:         fp.Period,
		GeneralTaxRate: fp.GeneralTaxRate,
		ISSRate:        fp.ISSRate,
		InflationIndex: fp.InflationIndex,
		CreatedAt:      fp.CreatedAt,
		UpdatedAt:      fp.UpdatedAt,
	}
}

// Create opens a new financial period. The period key is normalized before the
// duplicate check so "09/2025" and "2025-09" collide.
func (s *PeriodService) Create(ctx context.Context, req CreatePeriodRequest, actor shared.Actor) (*PeriodResponse, error) {
	fp, err := billing.NewFinancialPeriod(req.Period, req.GeneralTaxRate, req.ISSRate, req.InflationIndex)
	if err != nil {
		return nil, err
	}

	existing, err := s.periodRepo.FindByPeriod(ctx, fp.Period)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, billing.ErrDuplicatePeriod
	}

	if err := s.periodRepo.Save(ctx, fp); err != nil {
		return nil, err
	}

	s.logger.Info("financial period created", zap.String("period", fp.Period))
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "financial_period.create",
		EntityType: "FinancialPeriod",
		EntityID:   fp.ID,
		After:      fp,
	})
	resp := toPeriodResponse(fp)
	return &resp, nil
}

// List returns all periods, newest first
func (s *PeriodService) List(ctx context.Context) ([]PeriodResponse, error) {
	periods, err := s.periodRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]PeriodResponse, 0, len(periods))
	for i := range periods {
		responses = append(responses, toPeriodResponse(&periods[i]))
	}
	return responses, nil
}

// Get returns a single period by ID
func (s *PeriodService) Get(ctx context.Context, id uuid.UUID) (*PeriodResponse, error) {
	fp, err := s.periodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPeriodResponse(fp)
	return &resp, nil
}

// Current returns the period matching the server's current calendar month, or
// ErrPeriodNotFound when it has not been opened yet
func (s *PeriodService) Current(ctx context.Context) (*PeriodResponse, error) {
	fp, err := s.periodRepo.FindByPeriod(ctx, billing.CurrentPeriod(time.Now()))
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, billing.ErrPeriodNotFound
		}
		return nil, err
	}
	resp := toPeriodResponse(fp)
	return &resp, nil
}

// Update edits the rates of an existing period and retroactively recomputes
// every invoice already generated for it. Period save and invoice recompute
// commit together; if the recalculation fails the rate edit is rolled back.
func (s *PeriodService) Update(ctx context.Context, id uuid.UUID, req UpdatePeriodRequest, actor shared.Actor) (*UpdatePeriodResponse, error) {
	fp, err := s.periodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *fp

	if err := fp.ChangeRates(req.GeneralTaxRate, req.ISSRate, req.InflationIndex); err != nil {
		return nil, err
	}

	recomputed, err := s.invoiceService.RecalculateOnPeriodEdit(ctx, fp, actor)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "financial_period.update",
		EntityType: "FinancialPeriod",
		EntityID:   fp.ID,
		Before:     before,
		After:      fp,
	})
	return &UpdatePeriodResponse{
		Period:             toPeriodResponse(fp),
		InvoicesRecomputed: recomputed,
	}, nil
}

// Delete removes a period that has no invoices. A period with generated
// invoices is never deleted; callers must handle ErrPeriodHasInvoices.
func (s *PeriodService) Delete(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	fp, err := s.periodRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.periodRepo.CountInvoices(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return billing.ErrPeriodHasInvoices
	}

	if err := s.periodRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("financial period deleted", zap.String("period", fp.Period))
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "financial_period.delete",
		EntityType: "FinancialPeriod",
		EntityID:   fp.ID,
		Before:     fp,
	})
	return nil
}

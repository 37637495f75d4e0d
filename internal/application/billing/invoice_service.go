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

// DefaultRecalcTimeout bounds the bulk recalculation transaction. The batch
// grows with the number of invoices in the period, so it gets far more room
// than a regular request.
const DefaultRecalcTimeout = 60 * time.Second

// InvoiceService runs invoice generation and retroactive recalculation
type InvoiceService struct {
	periodRepo     billing.FinancialPeriodRepository
	projectionRepo billing.BillingProjectionRepository
	invoiceRepo    billing.InvoiceRepository
	audit          shared.AuditRecorder
	recalcTimeout  time.Duration
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	periodRepo billing.FinancialPeriodRepository,
	projectionRepo billing.BillingProjectionRepository,
	invoiceRepo billing.InvoiceRepository,
	audit shared.AuditRecorder,
	recalcTimeout time.Duration,
	logger *zap.Logger,
) *InvoiceService {
	if recalcTimeout <= 0 {
		recalcTimeout = DefaultRecalcTimeout
	}
	return &InvoiceService{
		periodRepo:     periodRepo,
		projectionRepo: projectionRepo,
		invoiceRepo:    invoiceRepo,
		audit:          audit,
		recalcTimeout:  recalcTimeout,
		logger:         logger,
	}
}

// GenerateRequest represents a request to run invoice generation
type GenerateRequest struct {
	Period string `json:"competencia" binding:"required,competencia"`
}

// InvoiceResponse represents an invoice in API responses, joined with
// contract/unit/company context
type InvoiceResponse struct {
	ID             uuid.UUID       `json:"id"`
	ContractID     uuid.UUID       `json:"contract_id"`
	ProjectionID   *uuid.UUID      `json:"projection_id,omitempty"`
	Period         string          `json:"period"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         string          `json:"status"`
	LivesCount     int             `json:"lives_count"`
	InvoiceNumber  string          `json:"invoice_number"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	PaymentPeriod  string          `json:"payment_period,omitempty"`
	UnitName       string          `json:"unit_name"`
	CompanyName    string          `json:"company_name"`
	WithholdsISS   bool            `json:"withholds_iss"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toInvoiceResponse(ic billing.InvoiceWithContext) InvoiceResponse {
	return InvoiceResponse{
		ID:             ic.Invoice.ID,
		ContractID:     ic.Invoice.ContractID,
		ProjectionID:   ic.Invoice.ProjectionID,
		Period:         ic.Invoice.Period,
		BaseAmount:     ic.Invoice.BaseAmount,
		TaxRatePercent: ic.Invoice.TaxRatePercent,
		TaxAmount:      ic.Invoice.TaxAmount,
		TotalAmount:    ic.Invoice.TotalAmount,
		Status:         ic.Invoice.Status.String(),
		LivesCount:     ic.Invoice.LivesCount,
		InvoiceNumber:  ic.Invoice.InvoiceNumber,
		PaidAt:         ic.Invoice.PaidAt,
		PaymentPeriod:  ic.Invoice.PaymentPeriod,
		UnitName:       ic.Unit.Name,
		CompanyName:    ic.CompanyName,
		WithholdsISS:   ic.Unit.WithholdsISS,
		CreatedAt:      ic.Invoice.CreatedAt,
		UpdatedAt:      ic.Invoice.UpdatedAt,
	}
}

// Generate runs invoice generation for a period.
//
// Pending projections are consumed into OPEN invoices and flipped to INVOICED
// in one transaction. When no pending projections remain the call is an
// idempotent no-op that simply returns the period's existing invoices, so
// repeated invocation is always safe.
func (s *InvoiceService) Generate(ctx context.Context, req GenerateRequest, actor shared.Actor) ([]InvoiceResponse, error) {
	period, err := billing.NormalizePeriod(req.Period)
	if err != nil {
		return nil, err
	}

	fp, err := s.periodRepo.FindByPeriod(ctx, period)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, billing.ErrPeriodNotFound
		}
		return nil, err
	}

	pending, err := s.projectionRepo.FindPendingForPeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	if len(pending) > 0 {
		invoices := make([]*billing.Invoice, 0, len(pending))
		projections := make([]*billing.BillingProjection, 0, len(pending))
		for i := range pending {
			p := pending[i]
			lives := 0
			if p.Projection.LivesCount != nil {
				lives = *p.Projection.LivesCount
			}
			projectionID := p.Projection.ID
			inv, err := billing.NewInvoice(
				p.Contract.ID,
				&projectionID,
				fp.ID,
				period,
				p.Projection.ExpectedAmount,
				fp.RateFor(p.Unit.WithholdsISS),
				lives,
			)
			if err != nil {
				return nil, err
			}

			projection := p.Projection
			if err := projection.MarkInvoiced(); err != nil {
				return nil, err
			}
			invoices = append(invoices, inv)
			projections = append(projections, &projection)
		}

		if err := s.invoiceRepo.CreateBatch(ctx, invoices, projections); err != nil {
			return nil, err
		}

		s.logger.Info("invoice generation completed",
			zap.String("period", period),
			zap.Int("invoices_created", len(invoices)),
		)
		for _, inv := range invoices {
			s.audit.Record(ctx, shared.AuditEntry{
				ActorID:    actor.UserID,
				ActorEmail: actor.Email,
				Action:     "invoice.generate",
				EntityType: "Invoice",
				EntityID:   inv.ID,
				After:      inv,
			})
		}
	} else {
		s.logger.Info("invoice generation skipped, no pending projections",
			zap.String("period", period),
		)
	}

	withContext, err := s.invoiceRepo.FindByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	responses := make([]InvoiceResponse, 0, len(withContext))
	for _, ic := range withContext {
		responses = append(responses, toInvoiceResponse(ic))
	}
	return responses, nil
}

// ListByPeriod returns the invoices of a period with display context
func (s *InvoiceService) ListByPeriod(ctx context.Context, period string) ([]InvoiceResponse, error) {
	normalized, err := billing.NormalizePeriod(period)
	if err != nil {
		return nil, err
	}
	withContext, err := s.invoiceRepo.FindByPeriod(ctx, normalized)
	if err != nil {
		return nil, err
	}
	responses := make([]InvoiceResponse, 0, len(withContext))
	for _, ic := range withContext {
		responses = append(responses, toInvoiceResponse(ic))
	}
	return responses, nil
}

// RecalculateOnPeriodEdit recomputes every invoice tied to the period against
// the period's current rates. The rate is always re-derived from each unit's
// current ISS-withholding flag, never from the rate stored at invoice
// creation time. The period row and all recomputed invoices are persisted in
// a single extended-timeout transaction; any failure rolls back everything
// including the period edit.
func (s *InvoiceService) RecalculateOnPeriodEdit(ctx context.Context, fp *billing.FinancialPeriod, actor shared.Actor) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.recalcTimeout)
	defer cancel()

	withUnit, err := s.invoiceRepo.FindByFinancialPeriodWithUnit(ctx, fp.ID)
	if err != nil {
		return 0, err
	}

	type snapshot struct {
		before billing.Invoice
		after  *billing.Invoice
	}
	snapshots := make([]snapshot, 0, len(withUnit))
	invoices := make([]*billing.Invoice, 0, len(withUnit))
	for i := range withUnit {
		inv := withUnit[i].Invoice
		before := inv
		if err := inv.ApplyRate(fp.RateFor(withUnit[i].WithholdsISS)); err != nil {
			return 0, err
		}
		invoices = append(invoices, &inv)
		snapshots = append(snapshots, snapshot{before: before, after: &inv})
	}

	if err := s.invoiceRepo.SaveRecalculation(ctx, fp, invoices); err != nil {
		s.logger.Error("period recalculation aborted",
			zap.String("period", fp.Period),
			zap.Int("invoices", len(invoices)),
			zap.Error(err),
		)
		return 0, err
	}

	s.logger.Info("period recalculation completed",
		zap.String("period", fp.Period),
		zap.Int("invoices_recomputed", len(invoices)),
	)
	for _, snap := range snapshots {
		s.audit.Record(ctx, shared.AuditEntry{
			ActorID:    actor.UserID,
			ActorEmail: actor.Email,
			Action:     "invoice.recalculate",
			EntityType: "Invoice",
			EntityID:   snap.after.ID,
			Before:     snap.before,
			After:      snap.after,
		})
	}
	return len(invoices), nil
}

// UpdateInvoiceRequest represents a manual invoice edit (number and status)
type UpdateInvoiceRequest struct {
	InvoiceNumber *string `json:"invoice_number"`
	Status        *string `json:"status" binding:"omitempty,oneof=OPEN PAID OVERDUE"`
	PaymentPeriod *string `json:"payment_period"`
}

// UpdateInvoice applies a manual back-office edit to an invoice
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest, actor shared.Actor) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *inv

	if req.InvoiceNumber != nil {
		inv.SetNumber(*req.InvoiceNumber)
	}
	if req.Status != nil {
		status := billing.InvoiceStatus(*req.Status)
		if status == billing.InvoiceStatusPaid {
			paymentPeriod := ""
			if req.PaymentPeriod != nil {
				paymentPeriod = *req.PaymentPeriod
			}
			if err := inv.MarkPaid(paymentPeriod); err != nil {
				return nil, err
			}
		} else if err := inv.ChangeStatus(status); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "invoice.update",
		EntityType: "Invoice",
		EntityID:   inv.ID,
		Before:     before,
		After:      inv,
	})
	return inv, nil
}

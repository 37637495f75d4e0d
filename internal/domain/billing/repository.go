package billing

import (
	"context"

	"github.com/fatura/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// PendingProjection is a billing projection joined with its contract and unit,
// the read model consumed by invoice generation.
type PendingProjection struct {
	Projection BillingProjection
	Contract   partner.Contract
	Unit       partner.Unit
}

// InvoiceWithContext is an invoice joined with contract/unit/company context
// for downstream display.
type InvoiceWithContext struct {
	Invoice     Invoice
	Contract    partner.Contract
	Unit        partner.Unit
	CompanyName string
}

// InvoiceWithUnit pairs an invoice with the current ISS-withholding flag of
// its contract's unit, the read model for retroactive recalculation.
type InvoiceWithUnit struct {
	Invoice      Invoice
	WithholdsISS bool
}

// FinancialPeriodRepository defines persistence for financial periods
type FinancialPeriodRepository interface {
	// FindByID finds a financial period by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialPeriod, error)

	// FindByPeriod finds a financial period by its natural YYYY-MM key
	FindByPeriod(ctx context.Context, period string) (*FinancialPeriod, error)

	// FindAll lists all financial periods ordered by period descending
	FindAll(ctx context.Context) ([]FinancialPeriod, error)

	// Save persists a financial period (insert or update)
	Save(ctx context.Context, fp *FinancialPeriod) error

	// Delete removes a financial period. Fails with ErrPeriodHasInvoices if
	// any invoice still references it.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountInvoices returns how many invoices reference the period
	CountInvoices(ctx context.Context, id uuid.UUID) (int64, error)
}

// BillingProjectionRepository defines persistence for billing projections
type BillingProjectionRepository interface {
	// FindByID finds a projection by ID
	FindByID(ctx context.Context, id uuid.UUID) (*BillingProjection, error)

	// FindPendingForPeriod loads all PENDING projections for a period, each
	// joined with its contract and unit
	FindPendingForPeriod(ctx context.Context, period string) ([]PendingProjection, error)

	// Save persists a projection
	Save(ctx context.Context, p *BillingProjection) error
}

// InvoiceRepository defines persistence for invoices
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByPeriod lists invoices for a period joined with contract, unit and
	// company context
	FindByPeriod(ctx context.Context, period string) ([]InvoiceWithContext, error)

	// FindByFinancialPeriodWithUnit lists invoices tied to a financial period,
	// each paired with the unit's current ISS-withholding flag
	FindByFinancialPeriodWithUnit(ctx context.Context, financialPeriodID uuid.UUID) ([]InvoiceWithUnit, error)

	// Save persists a single invoice
	Save(ctx context.Context, inv *Invoice) error

	// CreateBatch creates the invoices and flips the consumed projections to
	// INVOICED in a single transaction (all-or-nothing)
	CreateBatch(ctx context.Context, invoices []*Invoice, projections []*BillingProjection) error

	// SaveRecalculation persists the updated period together with every
	// recomputed invoice in one transaction; any failure aborts the batch,
	// rolling back the period edit too
	SaveRecalculation(ctx context.Context, fp *FinancialPeriod, invoices []*Invoice) error
}

package billing

import (
	"fmt"
	"time"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusOpen    InvoiceStatus = "OPEN"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusOpen, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Invoice is the generated billing record for one contract in one financial
// period. TaxAmount and TotalAmount are always derived from BaseAmount and
// TaxRatePercent through ApplyRate; they are never edited independently.
type Invoice struct {
	shared.BaseAggregateRoot
	ContractID        uuid.UUID       `json:"contract_id"`
	ProjectionID      *uuid.UUID      `json:"projection_id,omitempty"`
	FinancialPeriodID uuid.UUID       `json:"financial_period_id"`
	Period            string          `json:"period"`
	BaseAmount        decimal.Decimal `json:"base_amount"`
	TaxRatePercent    decimal.Decimal `json:"tax_rate_percent"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            InvoiceStatus   `json:"status"`
	LivesCount        int             `json:"lives_count"`
	InvoiceNumber     string          `json:"invoice_number"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	PaymentPeriod     string          `json:"payment_period,omitempty"`
}

// NewInvoice creates an OPEN invoice from a consumed billing projection.
func NewInvoice(
	contractID uuid.UUID,
	projectionID *uuid.UUID,
	financialPeriodID uuid.UUID,
	period string,
	baseAmount decimal.Decimal,
	taxRatePercent decimal.Decimal,
	livesCount int,
) (*Invoice, error) {
	normalized, err := NormalizePeriod(period)
	if err != nil {
		return nil, err
	}
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if baseAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Base amount cannot be negative")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContractID:        contractID,
		ProjectionID:      projectionID,
		FinancialPeriodID: financialPeriodID,
		Period:            normalized,
		BaseAmount:        baseAmount,
		Status:            InvoiceStatusOpen,
		LivesCount:        livesCount,
		InvoiceNumber:     "",
	}
	inv.applyRate(taxRatePercent)
	inv.AddDomainEvent(NewInvoiceGeneratedEvent(inv))
	return inv, nil
}

func (inv *Invoice) applyRate(ratePercent decimal.Decimal) {
	inv.TaxRatePercent = ratePercent
	inv.TaxAmount = inv.BaseAmount.Mul(ratePercent).Div(decimal.NewFromInt(100)).Round(2)
	inv.TotalAmount = inv.BaseAmount.Sub(inv.TaxAmount)
}

// ApplyRate recomputes the tax triple for a new rate. TaxAmount and
// TotalAmount always change together.
func (inv *Invoice) ApplyRate(ratePercent decimal.Decimal) error {
	if ratePercent.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Tax rate cannot be negative")
	}
	before := NewInvoiceRecalculatedEvent(inv, inv.TaxRatePercent, inv.TaxAmount, inv.TotalAmount)
	inv.applyRate(ratePercent)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	inv.AddDomainEvent(before)
	return nil
}

// SetNumber assigns the external invoice number
func (inv *Invoice) SetNumber(number string) {
	inv.InvoiceNumber = number
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// MarkPaid flags the invoice as paid within the given payment period. Marking
// an already-paid invoice paid again is a no-op that keeps the original
// payment fields.
func (inv *Invoice) MarkPaid(paymentPeriod string) error {
	if inv.Status == InvoiceStatusPaid {
		return nil
	}
	now := time.Now()
	inv.Status = InvoiceStatusPaid
	inv.PaidAt = &now
	inv.PaymentPeriod = paymentPeriod
	inv.UpdatedAt = now
	inv.IncrementVersion()
	return nil
}

// ChangeStatus sets the invoice status directly (manual back-office edit)
func (inv *Invoice) ChangeStatus(status InvoiceStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("%q is not a valid invoice status", status))
	}
	if status != InvoiceStatusPaid {
		inv.PaidAt = nil
		inv.PaymentPeriod = ""
	}
	inv.Status = status
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

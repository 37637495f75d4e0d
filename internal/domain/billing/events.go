package billing

import (
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialPeriodCreatedEvent is raised when a new financial period is registered
type FinancialPeriodCreatedEvent struct {
	shared.BaseDomainEvent
	PeriodID       uuid.UUID       `json:"period_id"`
	Period         string          `json:"period"`
	GeneralTaxRate decimal.Decimal `json:"general_tax_rate"`
	ISSRate        decimal.Decimal `json:"iss_rate"`
}

// EventType returns the event type name
func (e *FinancialPeriodCreatedEvent) EventType() string {
	return "FinancialPeriodCreated"
}

// NewFinancialPeriodCreatedEvent creates a new FinancialPeriodCreatedEvent
func NewFinancialPeriodCreatedEvent(fp *FinancialPeriod) *FinancialPeriodCreatedEvent {
	return &FinancialPeriodCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FinancialPeriodCreated", "FinancialPeriod", fp.ID),
		PeriodID:        fp.ID,
		Period:          fp.Period,
		GeneralTaxRate:  fp.GeneralTaxRate,
		ISSRate:         fp.ISSRate,
	}
}

// FinancialPeriodRatesChangedEvent is raised when a period's tax rates are
// edited. Carries the previous rates so listeners can reconstruct the change.
type FinancialPeriodRatesChangedEvent struct {
	shared.BaseDomainEvent
	PeriodID               uuid.UUID       `json:"period_id"`
	Period                 string          `json:"period"`
	PreviousGeneralTaxRate decimal.Decimal `json:"previous_general_tax_rate"`
	PreviousISSRate        decimal.Decimal `json:"previous_iss_rate"`
	GeneralTaxRate         decimal.Decimal `json:"general_tax_rate"`
	ISSRate                decimal.Decimal `json:"iss_rate"`
}

// EventType returns the event type name
func (e *FinancialPeriodRatesChangedEvent) EventType() string {
	return "FinancialPeriodRatesChanged"
}

// NewFinancialPeriodRatesChangedEvent creates a new FinancialPeriodRatesChangedEvent
func NewFinancialPeriodRatesChangedEvent(fp *FinancialPeriod, previousGeneral, previousISS decimal.Decimal) *FinancialPeriodRatesChangedEvent {
	return &FinancialPeriodRatesChangedEvent{
		BaseDomainEvent:        shared.NewBaseDomainEvent("FinancialPeriodRatesChanged", "FinancialPeriod", fp.ID),
		PeriodID:               fp.ID,
		Period:                 fp.Period,
		PreviousGeneralTaxRate: previousGeneral,
		PreviousISSRate:        previousISS,
		GeneralTaxRate:         fp.GeneralTaxRate,
		ISSRate:                fp.ISSRate,
	}
}

// InvoiceGeneratedEvent is raised when generation creates a new invoice
type InvoiceGeneratedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	ContractID     uuid.UUID       `json:"contract_id"`
	Period         string          `json:"period"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *InvoiceGeneratedEvent) EventType() string {
	return "InvoiceGenerated"
}

// NewInvoiceGeneratedEvent creates a new InvoiceGeneratedEvent
func NewInvoiceGeneratedEvent(inv *Invoice) *InvoiceGeneratedEvent {
	return &InvoiceGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceGenerated", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		ContractID:      inv.ContractID,
		Period:          inv.Period,
		BaseAmount:      inv.BaseAmount,
		TaxRatePercent:  inv.TaxRatePercent,
		TaxAmount:       inv.TaxAmount,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoiceRecalculatedEvent is raised for each invoice touched by a retroactive
// period-rate edit, capturing the before state for the audit trail.
type InvoiceRecalculatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID              uuid.UUID       `json:"invoice_id"`
	Period                 string          `json:"period"`
	PreviousTaxRatePercent decimal.Decimal `json:"previous_tax_rate_percent"`
	PreviousTaxAmount      decimal.Decimal `json:"previous_tax_amount"`
	PreviousTotalAmount    decimal.Decimal `json:"previous_total_amount"`
}

// EventType returns the event type name
func (e *InvoiceRecalculatedEvent) EventType() string {
	return "InvoiceRecalculated"
}

// NewInvoiceRecalculatedEvent creates a new InvoiceRecalculatedEvent
func NewInvoiceRecalculatedEvent(inv *Invoice, previousRate, previousTax, previousTotal decimal.Decimal) *InvoiceRecalculatedEvent {
	return &InvoiceRecalculatedEvent{
		BaseDomainEvent:        shared.NewBaseDomainEvent("InvoiceRecalculated", "Invoice", inv.ID),
		InvoiceID:              inv.ID,
		Period:                 inv.Period,
		PreviousTaxRatePercent: previousRate,
		PreviousTaxAmount:      previousTax,
		PreviousTotalAmount:    previousTotal,
	}
}

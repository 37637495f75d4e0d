package models

import (
	"time"

	"github.com/fatura/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialPeriodModel is the persistence model for the FinancialPeriod aggregate root.
type FinancialPeriodModel struct {
	AggregateModel
	Period         string          `gorm:"type:char(7);not null;uniqueIndex"`
	GeneralTaxRate decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	ISSRate        decimal.Decimal `gorm:"type:decimal(8,4);not null;column:iss_rate"`
	InflationIndex decimal.Decimal `gorm:"type:decimal(8,4);not null"`
}

// TableName returns the table name for GORM
func (FinancialPeriodModel) TableName() string {
	return "financial_periods"
}

// ToDomain converts the persistence model to a domain FinancialPeriod.
func (m *FinancialPeriodModel) ToDomain() *billing.FinancialPeriod {
	return &billing.FinancialPeriod{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Period:            m.Period,
		GeneralTaxRate:    m.GeneralTaxRate,
		ISSRate:           m.ISSRate,
		InflationIndex:    m.InflationIndex,
	}
}

// FromDomain populates the persistence model from a domain FinancialPeriod.
func (m *FinancialPeriodModel) FromDomain(fp *billing.FinancialPeriod) {
	m.FromDomainAggregateRoot(fp.BaseAggregateRoot)
	m.Period = fp.Period
	m.GeneralTaxRate = fp.GeneralTaxRate
	m.ISSRate = fp.ISSRate
	m.InflationIndex = fp.InflationIndex
}

// BillingProjectionModel is the persistence model for billing projections.
type BillingProjectionModel struct {
	AggregateModel
	ContractID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	FinancialPeriodID uuid.UUID                `gorm:"type:uuid;not null;index"`
	Period            string                   `gorm:"type:char(7);not null;index"`
	ExpectedAmount    decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	LivesCount        *int                     `gorm:""`
	Status            billing.ProjectionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
}

// TableName returns the table name for GORM
func (BillingProjectionModel) TableName() string {
	return "billing_projections"
}

// ToDomain converts the persistence model to a domain BillingProjection.
func (m *BillingProjectionModel) ToDomain() *billing.BillingProjection {
	return &billing.BillingProjection{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ContractID:        m.ContractID,
		FinancialPeriodID: m.FinancialPeriodID,
		Period:            m.Period,
		ExpectedAmount:    m.ExpectedAmount,
		LivesCount:        m.LivesCount,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain BillingProjection.
func (m *BillingProjectionModel) FromDomain(p *billing.BillingProjection) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.ContractID = p.ContractID
	m.FinancialPeriodID = p.FinancialPeriodID
	m.Period = p.Period
	m.ExpectedAmount = p.ExpectedAmount
	m.LivesCount = p.LivesCount
	m.Status = p.Status
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	ContractID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	ProjectionID      *uuid.UUID            `gorm:"type:uuid;index"`
	FinancialPeriodID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Period            string                `gorm:"type:char(7);not null;index"`
	BaseAmount        decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	TaxRatePercent    decimal.Decimal       `gorm:"type:decimal(8,4);not null"`
	TaxAmount         decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	TotalAmount       decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Status            billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	LivesCount        int                   `gorm:"not null;default:0"`
	InvoiceNumber     string                `gorm:"type:varchar(50);not null;default:''"`
	PaidAt            *time.Time            `gorm:""`
	PaymentPeriod     string                `gorm:"type:char(7);not null;default:''"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ContractID:        m.ContractID,
		ProjectionID:      m.ProjectionID,
		FinancialPeriodID: m.FinancialPeriodID,
		Period:            m.Period,
		BaseAmount:        m.BaseAmount,
		TaxRatePercent:    m.TaxRatePercent,
		TaxAmount:         m.TaxAmount,
		TotalAmount:       m.TotalAmount,
		Status:            m.Status,
		LivesCount:        m.LivesCount,
		InvoiceNumber:     m.InvoiceNumber,
		PaidAt:            m.PaidAt,
		PaymentPeriod:     m.PaymentPeriod,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.ContractID = inv.ContractID
	m.ProjectionID = inv.ProjectionID
	m.FinancialPeriodID = inv.FinancialPeriodID
	m.Period = inv.Period
	m.BaseAmount = inv.BaseAmount
	m.TaxRatePercent = inv.TaxRatePercent
	m.TaxAmount = inv.TaxAmount
	m.TotalAmount = inv.TotalAmount
	m.Status = inv.Status
	m.LivesCount = inv.LivesCount
	m.InvoiceNumber = inv.InvoiceNumber
	m.PaidAt = inv.PaidAt
	m.PaymentPeriod = inv.PaymentPeriod
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

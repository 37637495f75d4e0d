package billing

import (
	"fmt"
	"time"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectionStatus represents the lifecycle of a billing projection
type ProjectionStatus string

const (
	ProjectionStatusPending  ProjectionStatus = "PENDING"
	ProjectionStatusInvoiced ProjectionStatus = "INVOICED"
)

// IsValid checks if the status is a valid ProjectionStatus
func (s ProjectionStatus) IsValid() bool {
	return s == ProjectionStatusPending || s == ProjectionStatusInvoiced
}

// String returns the string representation of ProjectionStatus
func (s ProjectionStatus) String() string {
	return string(s)
}

// BillingProjection is the expected amount scheduled for one contract in one
// financial period, ahead of invoicing. Generation consumes PENDING
// projections and flips them to INVOICED.
type BillingProjection struct {
	shared.BaseAggregateRoot
	ContractID        uuid.UUID        `json:"contract_id"`
	FinancialPeriodID uuid.UUID        `json:"financial_period_id"`
	Period            string           `json:"period"`
	ExpectedAmount    decimal.Decimal  `json:"expected_amount"`
	LivesCount        *int             `json:"lives_count,omitempty"`
	Status            ProjectionStatus `json:"status"`
}

// NewBillingProjection creates a pending projection for a contract and period.
func NewBillingProjection(contractID, financialPeriodID uuid.UUID, period string, expectedAmount decimal.Decimal, livesCount *int) (*BillingProjection, error) {
	normalized, err := NormalizePeriod(period)
	if err != nil {
		return nil, err
	}
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if expectedAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expected amount cannot be negative")
	}

	return &BillingProjection{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContractID:        contractID,
		FinancialPeriodID: financialPeriodID,
		Period:            normalized,
		ExpectedAmount:    expectedAmount,
		LivesCount:        livesCount,
		Status:            ProjectionStatusPending,
	}, nil
}

// MarkInvoiced flips the projection to INVOICED. The transition is one-way:
// generation never reverts an invoiced projection.
func (p *BillingProjection) MarkInvoiced() error {
	if p.Status != ProjectionStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot invoice projection in %s status", p.Status))
	}
	p.Status = ProjectionStatusInvoiced
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsPending returns true if the projection has not been invoiced yet
func (p *BillingProjection) IsPending() bool {
	return p.Status == ProjectionStatusPending
}

package partner

import (
	"fmt"
	"time"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractStatus represents the lifecycle status of a contract
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusClosed    ContractStatus = "CLOSED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusClosed, ContractStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// BillingEntity identifies who issues the billing for a contract
type BillingEntity string

const (
	BillingEntityHeadOffice BillingEntity = "HEAD_OFFICE"
	BillingEntityUnit       BillingEntity = "UNIT"
	BillingEntityThirdParty BillingEntity = "THIRD_PARTY"
)

// IsValid checks if the billing entity is valid
func (b BillingEntity) IsValid() bool {
	switch b {
	case BillingEntityHeadOffice, BillingEntityUnit, BillingEntityThirdParty:
		return true
	}
	return false
}

// Contract is a billing agreement attached to exactly one unit. Contracts are
// created and edited as part of the unit's contract list and never
// auto-deleted.
type Contract struct {
	shared.BaseAggregateRoot
	UnitID              uuid.UUID       `json:"unit_id"`
	Description         string          `json:"description"`
	Recurring           bool            `json:"recurring"`
	PerCapita           bool            `json:"per_capita"` // per-capita implies recurring
	InstallmentCount    int             `json:"installment_count"`
	BaseAmount          decimal.Decimal `json:"base_amount"`
	DueDay              int             `json:"due_day"`
	Status              ContractStatus  `json:"status"`
	BilledBy            BillingEntity   `json:"billed_by"`
	SocialReportingFlag bool            `json:"social_reporting_flag"`
	ReportsFlag         bool            `json:"reports_flag"`
	ActiveLivesCount    *int            `json:"active_lives_count,omitempty"`
	StartDate           *time.Time      `json:"start_date,omitempty"`
}

// NewContract creates a new active contract for a unit
func NewContract(
	unitID uuid.UUID,
	description string,
	recurring, perCapita bool,
	installmentCount int,
	baseAmount decimal.Decimal,
	dueDay int,
	billedBy BillingEntity,
) (*Contract, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID cannot be empty")
	}
	if perCapita && !recurring {
		return nil, shared.NewDomainError("INVALID_BILLING_MODE", "Per-capita contracts must be recurring")
	}
	if installmentCount < 0 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT_COUNT", "Installment count cannot be negative")
	}
	if baseAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Base amount cannot be negative")
	}
	if dueDay < 1 || dueDay > 31 {
		return nil, shared.NewDomainError("INVALID_DUE_DAY", "Due day must be between 1 and 31")
	}
	if !billedBy.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILLING_ENTITY", fmt.Sprintf("%q is not a valid billing entity", billedBy))
	}

	return &Contract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UnitID:            unitID,
		Description:       description,
		Recurring:         recurring,
		PerCapita:         perCapita,
		InstallmentCount:  installmentCount,
		BaseAmount:        baseAmount,
		DueDay:            dueDay,
		Status:            ContractStatusActive,
		BilledBy:          billedBy,
	}, nil
}

// ChangeStatus moves the contract to a new lifecycle status
func (c *Contract) ChangeStatus(status ContractStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("%q is not a valid contract status", status))
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetActiveLives updates the per-capita life count
func (c *Contract) SetActiveLives(count int) error {
	if !c.PerCapita {
		return shared.NewDomainError("INVALID_STATE", "Only per-capita contracts track active lives")
	}
	if count < 0 {
		return shared.NewDomainError("INVALID_LIVES_COUNT", "Active lives count cannot be negative")
	}
	c.ActiveLivesCount = &count
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsActive returns true if the contract is active
func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}

package payable

import (
	"time"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableAccountCreatedEvent is raised when a payable account and its
// installment schedule are created
type PayableAccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID        uuid.UUID       `json:"account_id"`
	SupplierID       uuid.UUID       `json:"supplier_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InstallmentCount int             `json:"installment_count"`
	Recurring        bool            `json:"recurring"`
}

// EventType returns the event type name
func (e *PayableAccountCreatedEvent) EventType() string {
	return "PayableAccountCreated"
}

// NewPayableAccountCreatedEvent creates a new PayableAccountCreatedEvent
func NewPayableAccountCreatedEvent(a *PayableAccount) *PayableAccountCreatedEvent {
	return &PayableAccountCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("PayableAccountCreated", "PayableAccount", a.ID),
		AccountID:        a.ID,
		SupplierID:       a.SupplierID,
		TotalAmount:      a.TotalAmount,
		InstallmentCount: a.InstallmentCount,
		Recurring:        a.Recurring,
	}
}

// InstallmentPaidEvent is raised when an installment payment is confirmed
type InstallmentPaidEvent struct {
	shared.BaseDomainEvent
	InstallmentID uuid.UUID       `json:"installment_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Number        int             `json:"number"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAt        time.Time       `json:"paid_at"`
}

// EventType returns the event type name
func (e *InstallmentPaidEvent) EventType() string {
	return "InstallmentPaid"
}

// NewInstallmentPaidEvent creates a new InstallmentPaidEvent
func NewInstallmentPaidEvent(inst *Installment) *InstallmentPaidEvent {
	paidAt := time.Now()
	if inst.PaidAt != nil {
		paidAt = *inst.PaidAt
	}
	return &InstallmentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InstallmentPaid", "Installment", inst.ID),
		InstallmentID:   inst.ID,
		AccountID:       inst.PayableAccountID,
		Number:          inst.Number,
		Amount:          inst.Amount,
		PaidAt:          paidAt,
	}
}

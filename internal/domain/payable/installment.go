package payable

import (
	"time"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStatus represents the payment status of an installment
type InstallmentStatus string

const (
	InstallmentStatusOpen    InstallmentStatus = "OPEN"
	InstallmentStatusPaid    InstallmentStatus = "PAID"
	InstallmentStatusOverdue InstallmentStatus = "OVERDUE"
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusOpen, InstallmentStatusPaid, InstallmentStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// Installment is one dated slice of a payable account. A PAID installment can
// never be deleted or have its amount or due date mutated.
type Installment struct {
	shared.BaseEntity
	PayableAccountID uuid.UUID         `json:"payable_account_id"`
	Number           int               `json:"number"` // 1-based sequence
	DueDate          time.Time         `json:"due_date"`
	Amount           decimal.Decimal   `json:"amount"`
	Status           InstallmentStatus `json:"status"`
	PaidAt           *time.Time        `json:"paid_at,omitempty"`
}

// NewInstallment creates an OPEN installment for an account
func NewInstallment(accountID uuid.UUID, number int, dueDate time.Time, amount decimal.Decimal) *Installment {
	return &Installment{
		BaseEntity:       shared.NewBaseEntity(),
		PayableAccountID: accountID,
		Number:           number,
		DueDate:          dueDate,
		Amount:           amount,
		Status:           InstallmentStatusOpen,
	}
}

// IsPaid returns true if the installment has been paid
func (i *Installment) IsPaid() bool {
	return i.Status == InstallmentStatusPaid
}

// ConfirmPayment marks the installment as paid now
func (i *Installment) ConfirmPayment() error {
	if i.Status == InstallmentStatusPaid {
		return ErrInstallmentAlreadyPaid
	}
	now := time.Now()
	i.Status = InstallmentStatusPaid
	i.PaidAt = &now
	i.UpdatedAt = now
	return nil
}

// Reschedule moves the due date of an unpaid installment
func (i *Installment) Reschedule(dueDate time.Time) error {
	if i.IsPaid() {
		return ErrInstallmentAlreadyPaid
	}
	i.DueDate = dueDate
	i.UpdatedAt = time.Now()
	return nil
}

package payable

import (
	"time"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payable domain errors
var (
	ErrInstallmentAlreadyPaid = shared.NewDomainError("INSTALLMENT_ALREADY_PAID", "A paid installment cannot be deleted or modified")
	ErrHasPaidInstallments    = shared.NewDomainError("HAS_PAID_INSTALLMENTS", "The account has paid installments and cannot be deleted")
	ErrRescheduleNotSupported = shared.NewDomainError("RESCHEDULE_NOT_SUPPORTED", "Amount and schedule of an existing account cannot be changed")
)

// DocumentType classifies the source document of a payable
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "INVOICE"
	DocumentTypeReceipt DocumentType = "RECEIPT"
	DocumentTypeBoleto  DocumentType = "BOLETO"
	DocumentTypeOther   DocumentType = "OTHER"
)

// IsValid checks if the document type is valid
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentTypeInvoice, DocumentTypeReceipt, DocumentTypeBoleto, DocumentTypeOther:
		return true
	}
	return false
}

// PayableAccount is an obligation to a supplier, split into installments. For
// non-recurring accounts the installment amounts reconcile exactly to
// TotalAmount; installments are created atomically with the account.
type PayableAccount struct {
	shared.BaseAggregateRoot
	Description      string          `json:"description"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InstallmentCount int             `json:"installment_count"`
	DueDate          time.Time       `json:"due_date"` // anchor for the schedule
	Recurring        bool            `json:"recurring"`
	SupplierID       uuid.UUID       `json:"supplier_id"`
	BankID           uuid.UUID       `json:"bank_id"`
	SubcategoryID    uuid.UUID       `json:"subcategory_id"` // chart of accounts subcategory
	DocumentType     DocumentType    `json:"document_type"`
	Installments     []Installment   `json:"installments"`
}

// NewPayableAccount creates an account and builds its installment schedule.
func NewPayableAccount(
	description string,
	totalAmount decimal.Decimal,
	installmentCount int,
	dueDate time.Time,
	recurring bool,
	supplierID, bankID, subcategoryID uuid.UUID,
	documentType DocumentType,
) (*PayableAccount, error) {
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if !documentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Document type is not valid")
	}

	schedule, err := BuildSchedule(totalAmount, installmentCount, dueDate, recurring)
	if err != nil {
		return nil, err
	}

	acc := &PayableAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Description:       description,
		TotalAmount:       totalAmount,
		InstallmentCount:  installmentCount,
		DueDate:           TruncateToDay(dueDate),
		Recurring:         recurring,
		SupplierID:        supplierID,
		BankID:            bankID,
		SubcategoryID:     subcategoryID,
		DocumentType:      documentType,
		Installments:      make([]Installment, 0, len(schedule)),
	}
	for _, s := range schedule {
		acc.Installments = append(acc.Installments, *NewInstallment(acc.ID, s.Number, s.DueDate, s.Amount))
	}
	acc.AddDomainEvent(NewPayableAccountCreatedEvent(acc))
	return acc, nil
}

// TruncateToDay drops the time-of-day component. Due dates are stored and
// compared at day precision.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// UpdateDescriptive mutates the descriptive fields only. Amount and schedule
// are immutable once the installments exist; rescheduling is rejected.
func (a *PayableAccount) UpdateDescriptive(description string, supplierID, bankID, subcategoryID uuid.UUID, documentType DocumentType) error {
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if !documentType.IsValid() {
		return shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Document type is not valid")
	}
	a.Description = description
	a.SupplierID = supplierID
	a.BankID = bankID
	a.SubcategoryID = subcategoryID
	a.DocumentType = documentType
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// HasPaidInstallments returns true if any installment has been paid
func (a *PayableAccount) HasPaidInstallments() bool {
	for i := range a.Installments {
		if a.Installments[i].IsPaid() {
			return true
		}
	}
	return false
}

// EnsureDeletable fails if the account has any paid installment
func (a *PayableAccount) EnsureDeletable() error {
	if a.HasPaidInstallments() {
		return ErrHasPaidInstallments
	}
	return nil
}

// InstallmentByID finds an installment of this account by ID
func (a *PayableAccount) InstallmentByID(id uuid.UUID) (*Installment, error) {
	for i := range a.Installments {
		if a.Installments[i].ID == id {
			return &a.Installments[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// OpenAmount sums the amounts of unpaid installments
func (a *PayableAccount) OpenAmount() decimal.Decimal {
	sum := decimal.Zero
	for i := range a.Installments {
		if !a.Installments[i].IsPaid() {
			sum = sum.Add(a.Installments[i].Amount)
		}
	}
	return sum
}

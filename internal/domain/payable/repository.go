package payable

import (
	"context"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PayableAccountRepository defines persistence for payable accounts and their
// installments
type PayableAccountRepository interface {
	// FindByID loads an account with its installments
	FindByID(ctx context.Context, id uuid.UUID) (*PayableAccount, error)

	// FindAll lists accounts with installments
	FindAll(ctx context.Context, filter shared.Filter) ([]PayableAccount, error)

	// FindByInstallmentID loads the account owning the given installment
	FindByInstallmentID(ctx context.Context, installmentID uuid.UUID) (*PayableAccount, error)

	// CreateWithInstallments persists the account and all installments in one
	// transaction
	CreateWithInstallments(ctx context.Context, a *PayableAccount) error

	// Save persists the account's mutable fields
	Save(ctx context.Context, a *PayableAccount) error

	// SaveInstallment persists a single installment
	SaveInstallment(ctx context.Context, inst *Installment) error

	// DeleteWithInstallments removes the account and all its installments in
	// one transaction
	DeleteWithInstallments(ctx context.Context, id uuid.UUID) error

	// DeleteInstallment removes a single installment; when cascadeAccount is
	// true the owning account is deleted in the same transaction
	DeleteInstallment(ctx context.Context, installmentID uuid.UUID, cascadeAccount bool) error
}

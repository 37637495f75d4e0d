package payable

import (
	"context"
	"time"

	"github.com/fatura/backend/internal/domain/payable"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayableService manages payable accounts and their installments
type PayableService struct {
	accountRepo payable.PayableAccountRepository
	audit       shared.AuditRecorder
	logger      *zap.Logger
}

// NewPayableService creates a new PayableService
func NewPayableService(
	accountRepo payable.PayableAccountRepository,
	audit shared.AuditRecorder,
	logger *zap.Logger,
) *PayableService {
	return &PayableService{
		accountRepo: accountRepo,
		audit:       audit,
		logger:      logger,
	}
}

// CreatePayableRequest represents a request to register a payable account
type CreatePayableRequest struct {
	Description      string          `json:"description" binding:"required"`
	TotalAmount      decimal.Decimal `json:"total_amount" binding:"required"`
	InstallmentCount int             `json:"installment_count" binding:"required,min=1"`
	DueDate          time.Time       `json:"due_date" binding:"required"`
	Recurring        bool            `json:"recurring"`
	SupplierID       uuid.UUID       `json:"supplier_id" binding:"required"`
	BankID           uuid.UUID       `json:"bank_id" binding:"required"`
	SubcategoryID    uuid.UUID       `json:"subcategory_id" binding:"required"`
	DocumentType     string          `json:"document_type" binding:"required,oneof=INVOICE RECEIPT BOLETO OTHER"`
}

// UpdatePayableRequest carries an edit to an existing account. Amount and
// schedule fields are present only to detect forbidden reschedule attempts.
type UpdatePayableRequest struct {
	Description      string           `json:"description" binding:"required"`
	SupplierID       uuid.UUID        `json:"supplier_id" binding:"required"`
	BankID           uuid.UUID        `json:"bank_id" binding:"required"`
	SubcategoryID    uuid.UUID        `json:"subcategory_id" binding:"required"`
	DocumentType     string           `json:"document_type" binding:"required,oneof=INVOICE RECEIPT BOLETO OTHER"`
	TotalAmount      *decimal.Decimal `json:"total_amount"`
	InstallmentCount *int             `json:"installment_count"`
	DueDate          *time.Time       `json:"due_date"`
}

// InstallmentResponse represents an installment in API responses
type InstallmentResponse struct {
	ID               uuid.UUID       `json:"id"`
	PayableAccountID uuid.UUID       `json:"payable_account_id"`
	Number           int             `json:"number"`
	DueDate          time.Time       `json:"due_date"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
}

// PayableResponse represents a payable account with its installments
type PayableResponse struct {
	ID               uuid.UUID             `json:"id"`
	Description      string                `json:"description"`
	TotalAmount      decimal.Decimal       `json:"total_amount"`
	InstallmentCount int                   `json:"installment_count"`
	DueDate          time.Time             `json:"due_date"`
	Recurring        bool                  `json:"recurring"`
	SupplierID       uuid.UUID             `json:"supplier_id"`
	BankID           uuid.UUID             `json:"bank_id"`
	SubcategoryID    uuid.UUID             `json:"subcategory_id"`
	DocumentType     string                `json:"document_type"`
	OpenAmount       decimal.Decimal       `json:"open_amount"`
	Installments     []InstallmentResponse `json:"installments"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// DeleteInstallmentResponse reports everything a single installment deletion
// removed, including the owning account when it cascaded
type DeleteInstallmentResponse struct {
	DeletedInstallmentID uuid.UUID  `json:"deleted_installment_id"`
	DeletedAccountID     *uuid.UUID `json:"deleted_account_id,omitempty"`
}

func toPayableResponse(a *payable.PayableAccount) PayableResponse {
	installments := make([]InstallmentResponse, 0, len(a.Installments))
	for i := range a.Installments {
		inst := a.Installments[i]
		installments = append(installments, InstallmentResponse{
			ID:               inst.ID,
			PayableAccountID: inst.PayableAccountID,
			Number:           inst.Number,
			DueDate:          inst.DueDate,
			Amount:           inst.Amount,
			Status:           inst.Status.String(),
			PaidAt:           inst.PaidAt,
		})
	}
	return PayableResponse{
		ID:               a.ID,
		Description:      a.Description,
		TotalAmount:      a.TotalAmount,
		InstallmentCount: a.InstallmentCount,
		DueDate:          a.DueDate,
		Recurring:        a.Recurring,
		SupplierID:       a.SupplierID,
		BankID:           a.BankID,
		SubcategoryID:    a.SubcategoryID,
		DocumentType:     string(a.DocumentType),
		OpenAmount:       a.OpenAmount(),
		Installments:     installments,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// Create registers a payable account and its full installment schedule in one
// transaction
func (s *PayableService) Create(ctx context.Context, req CreatePayableRequest, actor shared.Actor) (*PayableResponse, error) {
	acc, err := payable.NewPayableAccount(
		req.Description,
		req.TotalAmount,
		req.InstallmentCount,
		req.DueDate,
		req.Recurring,
		req.SupplierID,
		req.BankID,
		req.SubcategoryID,
		payable.DocumentType(req.DocumentType),
	)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.CreateWithInstallments(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("payable account created",
		zap.String("account_id", acc.ID.String()),
		zap.Int("installments", len(acc.Installments)),
	)
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "payable.create",
		EntityType: "PayableAccount",
		EntityID:   acc.ID,
		After:      acc,
	})
	resp := toPayableResponse(acc)
	return &resp, nil
}

// List returns payable accounts with installments
func (s *PayableService) List(ctx context.Context, filter shared.Filter) ([]PayableResponse, error) {
	accounts, err := s.accountRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PayableResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, toPayableResponse(&accounts[i]))
	}
	return responses, nil
}

// Get returns one account with its installments
func (s *PayableService) Get(ctx context.Context, id uuid.UUID) (*PayableResponse, error) {
	acc, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toPayableResponse(acc)
	return &resp, nil
}

// Update edits the descriptive fields of an account. Any attempt to change
// the total amount, installment count or anchor due date is rejected: the
// schedule is immutable once created, the account must be deleted and
// re-registered instead.
func (s *PayableService) Update(ctx context.Context, id uuid.UUID, req UpdatePayableRequest, actor shared.Actor) (*PayableResponse, error) {
	acc, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *acc

	if req.TotalAmount != nil && !req.TotalAmount.Equal(acc.TotalAmount) {
		return nil, payable.ErrRescheduleNotSupported
	}
	if req.InstallmentCount != nil && *req.InstallmentCount != acc.InstallmentCount {
		return nil, payable.ErrRescheduleNotSupported
	}
	if req.DueDate != nil && !payable.TruncateToDay(*req.DueDate).Equal(acc.DueDate) {
		return nil, payable.ErrRescheduleNotSupported
	}

	if err := acc.UpdateDescriptive(
		req.Description,
		req.SupplierID,
		req.BankID,
		req.SubcategoryID,
		payable.DocumentType(req.DocumentType),
	); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, acc); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "payable.update",
		EntityType: "PayableAccount",
		EntityID:   acc.ID,
		Before:     before,
		After:      acc,
	})
	resp := toPayableResponse(acc)
	return &resp, nil
}

// Delete removes an account and all its installments, refusing when any
// installment has already been paid
func (s *PayableService) Delete(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	acc, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := acc.EnsureDeletable(); err != nil {
		return err
	}

	if err := s.accountRepo.DeleteWithInstallments(ctx, id); err != nil {
		return err
	}

	s.logger.Info("payable account deleted", zap.String("account_id", id.String()))
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "payable.delete",
		EntityType: "PayableAccount",
		EntityID:   acc.ID,
		Before:     acc,
	})
	return nil
}

// ConfirmPayment marks a single installment as paid
func (s *PayableService) ConfirmPayment(ctx context.Context, installmentID uuid.UUID, actor shared.Actor) (*InstallmentResponse, error) {
	acc, err := s.accountRepo.FindByInstallmentID(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	inst, err := acc.InstallmentByID(installmentID)
	if err != nil {
		return nil, err
	}
	before := *inst

	if err := inst.ConfirmPayment(); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SaveInstallment(ctx, inst); err != nil {
		return nil, err
	}

	s.logger.Info("installment paid",
		zap.String("installment_id", inst.ID.String()),
		zap.String("account_id", acc.ID.String()),
		zap.Int("number", inst.Number),
	)
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "installment.pay",
		EntityType: "Installment",
		EntityID:   inst.ID,
		Before:     before,
		After:      inst,
		Detail:     acc.Description,
	})
	return &InstallmentResponse{
		ID:               inst.ID,
		PayableAccountID: inst.PayableAccountID,
		Number:           inst.Number,
		DueDate:          inst.DueDate,
		Amount:           inst.Amount,
		Status:           inst.Status.String(),
		PaidAt:           inst.PaidAt,
	}, nil
}

// RescheduleInstallment moves the due date of an unpaid installment
func (s *PayableService) RescheduleInstallment(ctx context.Context, installmentID uuid.UUID, dueDate time.Time, actor shared.Actor) (*InstallmentResponse, error) {
	acc, err := s.accountRepo.FindByInstallmentID(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	inst, err := acc.InstallmentByID(installmentID)
	if err != nil {
		return nil, err
	}
	before := *inst

	if err := inst.Reschedule(dueDate); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SaveInstallment(ctx, inst); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "installment.reschedule",
		EntityType: "Installment",
		EntityID:   inst.ID,
		Before:     before,
		After:      inst,
	})
	return &InstallmentResponse{
		ID:               inst.ID,
		PayableAccountID: inst.PayableAccountID,
		Number:           inst.Number,
		DueDate:          inst.DueDate,
		Amount:           inst.Amount,
		Status:           inst.Status.String(),
		PaidAt:           inst.PaidAt,
	}, nil
}

// DeleteInstallment removes one unpaid installment. When it is the last
// installment left on the account the whole account is removed in the same
// transaction, and the response reports the cascaded account ID.
func (s *PayableService) DeleteInstallment(ctx context.Context, installmentID uuid.UUID, actor shared.Actor) (*DeleteInstallmentResponse, error) {
	acc, err := s.accountRepo.FindByInstallmentID(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	inst, err := acc.InstallmentByID(installmentID)
	if err != nil {
		return nil, err
	}
	if inst.IsPaid() {
		return nil, payable.ErrInstallmentAlreadyPaid
	}

	cascade := len(acc.Installments) == 1
	if err := s.accountRepo.DeleteInstallment(ctx, installmentID, cascade); err != nil {
		return nil, err
	}

	resp := &DeleteInstallmentResponse{DeletedInstallmentID: installmentID}
	if cascade {
		accountID := acc.ID
		resp.DeletedAccountID = &accountID
	}

	s.logger.Info("installment deleted",
		zap.String("installment_id", installmentID.String()),
		zap.Bool("account_cascaded", cascade),
	)
	s.audit.Record(ctx, shared.AuditEntry{
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Action:     "installment.delete",
		EntityType: "Installment",
		EntityID:   installmentID,
		Before:     inst,
		Detail:     acc.Description,
	})
	return resp, nil
}

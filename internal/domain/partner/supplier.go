package partner

import (
	"time"

	"github.com/fatura/backend/internal/domain/shared"
)

// Supplier is a vendor that payable accounts are owed to
type Supplier struct {
	shared.BaseAggregateRoot
	Name       string `json:"name"`
	DocumentID string `json:"document_id"` // CNPJ/CPF
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// NewSupplier creates a new supplier
func NewSupplier(name, documentID, email, phone string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		DocumentID:        documentID,
		Email:             email,
		Phone:             phone,
	}, nil
}

// Update mutates the supplier's descriptive fields
func (s *Supplier) Update(name, documentID, email, phone string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	s.Name = name
	s.DocumentID = documentID
	s.Email = email
	s.Phone = phone
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Bank is a bank account used to settle payables
type Bank struct {
	shared.BaseAggregateRoot
	Name    string `json:"name"`
	Code    string `json:"code"` // national bank code
	Agency  string `json:"agency"`
	Account string `json:"account"`
}

// NewBank creates a new bank record
func NewBank(name, code, agency, account string) (*Bank, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Bank name cannot be empty")
	}
	return &Bank{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Agency:            agency,
		Account:           account,
	}, nil
}

// Update mutates the bank's fields
func (b *Bank) Update(name, code, agency, account string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Bank name cannot be empty")
	}
	b.Name = name
	b.Code = code
	b.Agency = agency
	b.Account = account
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

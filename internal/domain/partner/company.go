package partner

import (
	"time"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Company is the top-level legal entity that owns business units.
type Company struct {
	shared.BaseAggregateRoot
	Name       string `json:"name"`
	TradeName  string `json:"trade_name"`
	DocumentID string `json:"document_id"` // CNPJ
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// NewCompany creates a new company
func NewCompany(name, tradeName, documentID string) (*Company, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if documentID == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Company document cannot be empty")
	}
	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		TradeName:         tradeName,
		DocumentID:        documentID,
	}, nil
}

// Update mutates the descriptive fields of the company
func (c *Company) Update(name, tradeName, documentID, email, phone string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	c.Name = name
	c.TradeName = tradeName
	c.DocumentID = documentID
	c.Email = email
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Contact is a named contact attached to a unit
type Contact struct {
	ID     uuid.UUID `json:"id"`
	UnitID uuid.UUID `json:"unit_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Phone  string    `json:"phone"`
	Role   string    `json:"role"`
}

// NewContact creates a new contact for a unit
func NewContact(unitID uuid.UUID, name, email, phone, role string) (*Contact, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Contact name cannot be empty")
	}
	return &Contact{
		ID:     uuid.New(),
		UnitID: unitID,
		Name:   name,
		Email:  email,
		Phone:  phone,
		Role:   role,
	}, nil
}

// Unit is a business unit of a company. WithholdsISS selects which tax rate
// applies to invoices generated for the unit's contracts.
type Unit struct {
	shared.BaseAggregateRoot
	CompanyID    uuid.UUID `json:"company_id"`
	Name         string    `json:"name"`
	DocumentID   string    `json:"document_id"` // CNPJ of the unit
	WithholdsISS bool      `json:"withholds_iss"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zip_code"`
	Contacts     []Contact `json:"contacts,omitempty"`
}

// NewUnit creates a new unit for a company
func NewUnit(companyID uuid.UUID, name, documentID string, withholdsISS bool) (*Unit, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Unit name cannot be empty")
	}
	return &Unit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyID:         companyID,
		Name:              name,
		DocumentID:        documentID,
		WithholdsISS:      withholdsISS,
		Contacts:          make([]Contact, 0),
	}, nil
}

// Update mutates the unit's descriptive fields and the ISS-withholding switch
func (u *Unit) Update(name, documentID string, withholdsISS bool, address, city, state, zipCode string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Unit name cannot be empty")
	}
	u.Name = name
	u.DocumentID = documentID
	u.WithholdsISS = withholdsISS
	u.Address = address
	u.City = city
	u.State = state
	u.ZipCode = zipCode
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ReplaceContacts swaps the full contact list
func (u *Unit) ReplaceContacts(contacts []Contact) {
	u.Contacts = contacts
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

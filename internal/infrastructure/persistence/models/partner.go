package models

import (
	"time"

	"github.com/fatura/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyModel is the persistence model for the Company aggregate root.
type CompanyModel struct {
	AggregateModel
	Name       string `gorm:"type:varchar(200);not null"`
	TradeName  string `gorm:"type:varchar(200)"`
	DocumentID string `gorm:"type:varchar(20);not null;index"`
	Email      string `gorm:"type:varchar(200)"`
	Phone      string `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company.
func (m *CompanyModel) ToDomain() *partner.Company {
	return &partner.Company{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		TradeName:         m.TradeName,
		DocumentID:        m.DocumentID,
		Email:             m.Email,
		Phone:             m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Company.
func (m *CompanyModel) FromDomain(c *partner.Company) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.TradeName = c.TradeName
	m.DocumentID = c.DocumentID
	m.Email = c.Email
	m.Phone = c.Phone
}

// UnitModel is the persistence model for the Unit aggregate root.
type UnitModel struct {
	AggregateModel
	CompanyID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name         string         `gorm:"type:varchar(200);not null"`
	DocumentID   string         `gorm:"type:varchar(20);index"`
	WithholdsISS bool           `gorm:"not null;default:false;column:withholds_iss"`
	Address      string         `gorm:"type:varchar(300)"`
	City         string         `gorm:"type:varchar(100)"`
	State        string         `gorm:"type:varchar(2)"`
	ZipCode      string         `gorm:"type:varchar(10)"`
	Contacts     []ContactModel `gorm:"foreignKey:UnitID;references:ID"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain Unit.
func (m *UnitModel) ToDomain() *partner.Unit {
	contacts := make([]partner.Contact, 0, len(m.Contacts))
	for i := range m.Contacts {
		contacts = append(contacts, *m.Contacts[i].ToDomain())
	}
	return &partner.Unit{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CompanyID:         m.CompanyID,
		Name:              m.Name,
		DocumentID:        m.DocumentID,
		WithholdsISS:      m.WithholdsISS,
		Address:           m.Address,
		City:              m.City,
		State:             m.State,
		ZipCode:           m.ZipCode,
		Contacts:          contacts,
	}
}

// FromDomain populates the persistence model from a domain Unit.
func (m *UnitModel) FromDomain(u *partner.Unit) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.CompanyID = u.CompanyID
	m.Name = u.Name
	m.DocumentID = u.DocumentID
	m.WithholdsISS = u.WithholdsISS
	m.Address = u.Address
	m.City = u.City
	m.State = u.State
	m.ZipCode = u.ZipCode
	m.Contacts = make([]ContactModel, 0, len(u.Contacts))
	for i := range u.Contacts {
		var cm ContactModel
		cm.FromDomain(&u.Contacts[i])
		m.Contacts = append(m.Contacts, cm)
	}
}

// ContactModel is the persistence model for unit contacts.
type ContactModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UnitID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name   string    `gorm:"type:varchar(200);not null"`
	Email  string    `gorm:"type:varchar(200)"`
	Phone  string    `gorm:"type:varchar(30)"`
	Role   string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "unit_contacts"
}

// ToDomain converts the persistence model to a domain Contact.
func (m *ContactModel) ToDomain() *partner.Contact {
	return &partner.Contact{
		ID:     m.ID,
		UnitID: m.UnitID,
		Name:   m.Name,
		Email:  m.Email,
		Phone:  m.Phone,
		Role:   m.Role,
	}
}

// FromDomain populates the persistence model from a domain Contact.
func (m *ContactModel) FromDomain(c *partner.Contact) {
	m.ID = c.ID
	m.UnitID = c.UnitID
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Role = c.Role
}

// ContractModel is the persistence model for the Contract aggregate root.
type ContractModel struct {
	AggregateModel
	UnitID              uuid.UUID              `gorm:"type:uuid;not null;index"`
	Description         string                 `gorm:"type:varchar(300)"`
	Recurring           bool                   `gorm:"not null;default:false"`
	PerCapita           bool                   `gorm:"not null;default:false"`
	InstallmentCount    int                    `gorm:"not null;default:0"`
	BaseAmount          decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	DueDay              int                    `gorm:"not null"`
	Status              partner.ContractStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	BilledBy            partner.BillingEntity  `gorm:"type:varchar(20);not null"`
	SocialReportingFlag bool                   `gorm:"not null;default:false"`
	ReportsFlag         bool                   `gorm:"not null;default:false"`
	ActiveLivesCount    *int                   `gorm:""`
	StartDate           *time.Time             `gorm:""`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract.
func (m *ContractModel) ToDomain() *partner.Contract {
	return &partner.Contract{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		UnitID:              m.UnitID,
		Description:         m.Description,
		Recurring:           m.Recurring,
		PerCapita:           m.PerCapita,
		InstallmentCount:    m.InstallmentCount,
		BaseAmount:          m.BaseAmount,
		DueDay:              m.DueDay,
		Status:              m.Status,
		BilledBy:            m.BilledBy,
		SocialReportingFlag: m.SocialReportingFlag,
		ReportsFlag:         m.ReportsFlag,
		ActiveLivesCount:    m.ActiveLivesCount,
		StartDate:           m.StartDate,
	}
}

// FromDomain populates the persistence model from a domain Contract.
func (m *ContractModel) FromDomain(c *partner.Contract) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.UnitID = c.UnitID
	m.Description = c.Description
	m.Recurring = c.Recurring
	m.PerCapita = c.PerCapita
	m.InstallmentCount = c.InstallmentCount
	m.BaseAmount = c.BaseAmount
	m.DueDay = c.DueDay
	m.Status = c.Status
	m.BilledBy = c.BilledBy
	m.SocialReportingFlag = c.SocialReportingFlag
	m.ReportsFlag = c.ReportsFlag
	m.ActiveLivesCount = c.ActiveLivesCount
	m.StartDate = c.StartDate
}

// SupplierModel is the persistence model for the Supplier aggregate root.
type SupplierModel struct {
	AggregateModel
	Name       string `gorm:"type:varchar(200);not null"`
	DocumentID string `gorm:"type:varchar(20);index"`
	Email      string `gorm:"type:varchar(200)"`
	Phone      string `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		DocumentID:        m.DocumentID,
		Email:             m.Email,
		Phone:             m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Supplier.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Name = s.Name
	m.DocumentID = s.DocumentID
	m.Email = s.Email
	m.Phone = s.Phone
}

// BankModel is the persistence model for the Bank aggregate root.
type BankModel struct {
	AggregateModel
	Name    string `gorm:"type:varchar(200);not null"`
	Code    string `gorm:"type:varchar(10)"`
	Agency  string `gorm:"type:varchar(20)"`
	Account string `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (BankModel) TableName() string {
	return "banks"
}

// ToDomain converts the persistence model to a domain Bank.
func (m *BankModel) ToDomain() *partner.Bank {
	return &partner.Bank{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Code:              m.Code,
		Agency:            m.Agency,
		Account:           m.Account,
	}
}

// FromDomain populates the persistence model from a domain Bank.
func (m *BankModel) FromDomain(b *partner.Bank) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
	m.Code = b.Code
	m.Agency = b.Agency
	m.Account = b.Account
}

// ChartCategoryModel is the persistence model for chart-of-accounts categories.
type ChartCategoryModel struct {
	AggregateModel
	Name          string                  `gorm:"type:varchar(200);not null"`
	Subcategories []ChartSubcategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for GORM
func (ChartCategoryModel) TableName() string {
	return "chart_categories"
}

// ToDomain converts the persistence model to a domain ChartCategory.
func (m *ChartCategoryModel) ToDomain() *partner.ChartCategory {
	subs := make([]partner.ChartSubcategory, 0, len(m.Subcategories))
	for _, sub := range m.Subcategories {
		subs = append(subs, partner.ChartSubcategory{
			ID:         sub.ID,
			CategoryID: sub.CategoryID,
			Name:       sub.Name,
		})
	}
	return &partner.ChartCategory{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Subcategories:     subs,
	}
}

// FromDomain populates the persistence model from a domain ChartCategory.
func (m *ChartCategoryModel) FromDomain(c *partner.ChartCategory) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Subcategories = make([]ChartSubcategoryModel, 0, len(c.Subcategories))
	for _, sub := range c.Subcategories {
		m.Subcategories = append(m.Subcategories, ChartSubcategoryModel{
			ID:         sub.ID,
			CategoryID: sub.CategoryID,
			Name:       sub.Name,
		})
	}
}

// ChartSubcategoryModel is the persistence model for chart subcategories.
type ChartSubcategoryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (ChartSubcategoryModel) TableName() string {
	return "chart_subcategories"
}

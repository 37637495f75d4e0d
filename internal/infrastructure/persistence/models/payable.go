package models

import (
	"time"

	"github.com/fatura/backend/internal/domain/payable"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableAccountModel is the persistence model for the PayableAccount aggregate root.
type PayableAccountModel struct {
	AggregateModel
	Description      string               `gorm:"type:varchar(300);not null"`
	TotalAmount      decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	InstallmentCount int                  `gorm:"not null"`
	DueDate          time.Time            `gorm:"not null"`
	Recurring        bool                 `gorm:"not null;default:false"`
	SupplierID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	BankID           uuid.UUID            `gorm:"type:uuid;not null;index"`
	SubcategoryID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	DocumentType     payable.DocumentType `gorm:"type:varchar(20);not null"`
	Installments     []InstallmentModel   `gorm:"foreignKey:PayableAccountID;references:ID"`
}

// TableName returns the table name for GORM
func (PayableAccountModel) TableName() string {
	return "payable_accounts"
}

// ToDomain converts the persistence model to a domain PayableAccount.
func (m *PayableAccountModel) ToDomain() *payable.PayableAccount {
	installments := make([]payable.Installment, 0, len(m.Installments))
	for i := range m.Installments {
		installments = append(installments, *m.Installments[i].ToDomain())
	}
	return &payable.PayableAccount{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Description:       m.Description,
		TotalAmount:       m.TotalAmount,
		InstallmentCount:  m.InstallmentCount,
		DueDate:           m.DueDate,
		Recurring:         m.Recurring,
		SupplierID:        m.SupplierID,
		BankID:            m.BankID,
		SubcategoryID:     m.SubcategoryID,
		DocumentType:      m.DocumentType,
		Installments:      installments,
	}
}

// FromDomain populates the persistence model from a domain PayableAccount.
func (m *PayableAccountModel) FromDomain(a *payable.PayableAccount) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Description = a.Description
	m.TotalAmount = a.TotalAmount
	m.InstallmentCount = a.InstallmentCount
	m.DueDate = a.DueDate
	m.Recurring = a.Recurring
	m.SupplierID = a.SupplierID
	m.BankID = a.BankID
	m.SubcategoryID = a.SubcategoryID
	m.DocumentType = a.DocumentType
	m.Installments = make([]InstallmentModel, 0, len(a.Installments))
	for i := range a.Installments {
		var im InstallmentModel
		im.FromDomain(&a.Installments[i])
		m.Installments = append(m.Installments, im)
	}
}

// InstallmentModel is the persistence model for installments.
type InstallmentModel struct {
	BaseModel
	PayableAccountID uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Number           int                       `gorm:"not null"`
	DueDate          time.Time                 `gorm:"not null;index"`
	Amount           decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	Status           payable.InstallmentStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	PaidAt           *time.Time                `gorm:""`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment.
func (m *InstallmentModel) ToDomain() *payable.Installment {
	return &payable.Installment{
		BaseEntity:       m.BaseModel.ToDomain(),
		PayableAccountID: m.PayableAccountID,
		Number:           m.Number,
		DueDate:          m.DueDate,
		Amount:           m.Amount,
		Status:           m.Status,
		PaidAt:           m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Installment.
func (m *InstallmentModel) FromDomain(i *payable.Installment) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.PayableAccountID = i.PayableAccountID
	m.Number = i.Number
	m.DueDate = i.DueDate
	m.Amount = i.Amount
	m.Status = i.Status
	m.PaidAt = i.PaidAt
}

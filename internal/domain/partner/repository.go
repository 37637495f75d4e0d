package partner

import (
	"context"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyRepository defines persistence for companies
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, error)
	Save(ctx context.Context, c *Company) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UnitRepository defines persistence for units and their contacts
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]Unit, error)
	Save(ctx context.Context, u *Unit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContractRepository defines persistence for contracts
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindByUnit(ctx context.Context, unitID uuid.UUID) ([]Contract, error)
	FindActive(ctx context.Context) ([]Contract, error)
	Save(ctx context.Context, c *Contract) error
}

// SupplierRepository defines persistence for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)
	Save(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BankRepository defines persistence for banks
type BankRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Bank, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Bank, error)
	Save(ctx context.Context, b *Bank) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChartOfAccountsRepository defines persistence for the chart hierarchy
type ChartOfAccountsRepository interface {
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*ChartCategory, error)
	FindAllCategories(ctx context.Context) ([]ChartCategory, error)
	// SaveCategory persists the category and its subcategory list, deleting
	// the given removed subcategory IDs in the same transaction
	SaveCategory(ctx context.Context, c *ChartCategory, removedSubcategoryIDs []uuid.UUID) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	// CountPayablesForSubcategories returns how many payable accounts
	// reference any of the given subcategories
	CountPayablesForSubcategories(ctx context.Context, ids []uuid.UUID) (int64, error)
}

package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/fatura/backend/internal/domain/partner"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCompanyRepository is a mock implementation of partner.CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Company, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, c *partner.Company) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUnitRepository is a mock implementation of partner.UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]partner.Unit, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Unit), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, u *partner.Unit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockContractRepository is a mock implementation of partner.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByUnit(ctx context.Context, unitID uuid.UUID) ([]partner.Contract, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Contract), args.Error(1)
}

func (m *MockContractRepository) FindActive(ctx context.Context) ([]partner.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Contract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, c *partner.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func createCompanyService(companyRepo *MockCompanyRepository, unitRepo *MockUnitRepository, contractRepo *MockContractRepository, audit *MockAuditRecorder) *CompanyService {
	return NewCompanyService(companyRepo, unitRepo, contractRepo, audit, zap.NewNop())
}

func createTestCompany(t *testing.T) *partner.Company {
	t.Helper()
	c, err := partner.NewCompany("ACME Serviços Ltda", "ACME", "12345678000190")
	require.NoError(t, err)
	return c
}

func createTestUnit(t *testing.T, companyID uuid.UUID, withholdsISS bool) *partner.Unit {
	t.Helper()
	u, err := partner.NewUnit(companyID, "Unidade Centro", "12345678000271", withholdsISS)
	require.NoError(t, err)
	return u
}

func createPerCapitaContract(t *testing.T, unitID uuid.UUID) *partner.Contract {
	t.Helper()
	c, err := partner.NewContract(unitID, "Plano per capita", true, true, 0,
		decimal.RequireFromString("150.00"), 5, partner.BillingEntityHeadOffice)
	require.NoError(t, err)
	return c
}

func TestCompanyService_CreateUnit_UnknownCompany(t *testing.T) {
	ctx := context.Background()
	companyRepo := new(MockCompanyRepository)
	unitRepo := new(MockUnitRepository)

	companyID := uuid.New()
	companyRepo.On("FindByID", ctx, companyID).Return(nil, shared.ErrNotFound)

	service := createCompanyService(companyRepo, unitRepo, new(MockContractRepository), newAuditRecorder())

	_, err := service.CreateUnit(ctx, companyID, UnitRequest{Name: "Filial Norte"}, testActor())
	require.Error(t, err)
	assert.Equal(t, shared.ErrNotFound, err)

	unitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCompanyService_UpdateUnit_ReplacesContacts(t *testing.T) {
	ctx := context.Background()
	unitRepo := new(MockUnitRepository)

	company := createTestCompany(t)
	unit := createTestUnit(t, company.ID, false)

	unitRepo.On("FindByID", ctx, unit.ID).Return(unit, nil)
	unitRepo.On("Save", ctx, unit).Return(nil)

	service := createCompanyService(new(MockCompanyRepository), unitRepo, new(MockContractRepository), newAuditRecorder())

	updated, err := service.UpdateUnit(ctx, unit.ID, UnitRequest{
		Name:         "Unidade Centro",
		WithholdsISS: true,
		Contacts: []ContactRequest{
			{Name: "Maria Souza", Email: "maria@example.com", Role: "Financeiro"},
		},
	}, testActor())

	require.NoError(t, err)
	assert.True(t, updated.WithholdsISS)
	require.Len(t, updated.Contacts, 1)
	assert.Equal(t, "Maria Souza", updated.Contacts[0].Name)

	unitRepo.AssertExpectations(t)
}

func TestCompanyService_CreateContract_PerCapitaWithLives(t *testing.T) {
	ctx := context.Background()
	unitRepo := new(MockUnitRepository)
	contractRepo := new(MockContractRepository)

	company := createTestCompany(t)
	unit := createTestUnit(t, company.ID, false)

	unitRepo.On("FindByID", ctx, unit.ID).Return(unit, nil)
	contractRepo.On("Save", ctx, mock.Anything).Return(nil)

	service := createCompanyService(new(MockCompanyRepository), unitRepo, contractRepo, newAuditRecorder())

	lives := 120
	c, err := service.CreateContract(ctx, unit.ID, ContractRequest{
		Description:      "Plano per capita",
		Recurring:        true,
		PerCapita:        true,
		BaseAmount:       decimal.RequireFromString("150.00"),
		DueDay:           5,
		BilledBy:         "HEAD_OFFICE",
		ActiveLivesCount: &lives,
	}, testActor())

	require.NoError(t, err)
	assert.Equal(t, partner.ContractStatusActive, c.Status)
	require.NotNil(t, c.ActiveLivesCount)
	assert.Equal(t, 120, *c.ActiveLivesCount)

	contractRepo.AssertExpectations(t)
}

func TestCompanyService_ChangeContractStatus(t *testing.T) {
	ctx := context.Background()
	contractRepo := new(MockContractRepository)

	contract := createPerCapitaContract(t, uuid.New())
	contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
	contractRepo.On("Save", ctx, contract).Return(nil)

	service := createCompanyService(new(MockCompanyRepository), new(MockUnitRepository), contractRepo, newAuditRecorder())

	updated, err := service.ChangeContractStatus(ctx, contract.ID, "CANCELLED", testActor())
	require.NoError(t, err)
	assert.Equal(t, partner.ContractStatusCancelled, updated.Status)

	contractRepo.AssertExpectations(t)
}

func TestCompanyService_ChangeContractStatus_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	contractRepo := new(MockContractRepository)

	contract := createPerCapitaContract(t, uuid.New())
	contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)

	service := createCompanyService(new(MockCompanyRepository), new(MockUnitRepository), contractRepo, newAuditRecorder())

	_, err := service.ChangeContractStatus(ctx, contract.ID, "SUSPENDED", testActor())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)

	contractRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCompanyService_SetContractLives(t *testing.T) {
	ctx := context.Background()
	contractRepo := new(MockContractRepository)

	contract := createPerCapitaContract(t, uuid.New())
	contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
	contractRepo.On("Save", ctx, contract).Return(nil)

	service := createCompanyService(new(MockCompanyRepository), new(MockUnitRepository), contractRepo, newAuditRecorder())

	updated, err := service.SetContractLives(ctx, contract.ID, 87, testActor())
	require.NoError(t, err)
	require.NotNil(t, updated.ActiveLivesCount)
	assert.Equal(t, 87, *updated.ActiveLivesCount)
}

func TestCompanyService_SetContractLives_NotPerCapita(t *testing.T) {
	ctx := context.Background()
	contractRepo := new(MockContractRepository)

	contract, err := partner.NewContract(uuid.New(), "Valor fixo", true, false, 0,
		decimal.RequireFromString("2000.00"), 10, partner.BillingEntityUnit)
	require.NoError(t, err)

	contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)

	service := createCompanyService(new(MockCompanyRepository), new(MockUnitRepository), contractRepo, newAuditRecorder())

	_, err = service.SetContractLives(ctx, contract.ID, 10, testActor())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_STATE", domainErr.Code)

	contractRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

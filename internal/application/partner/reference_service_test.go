package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/fatura/backend/internal/domain/partner"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, s *partner.Supplier) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBankRepository is a mock implementation of partner.BankRepository
type MockBankRepository struct {
	mock.Mock
}

func (m *MockBankRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Bank, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Bank), args.Error(1)
}

func (m *MockBankRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Bank, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Bank), args.Error(1)
}

func (m *MockBankRepository) Save(ctx context.Context, b *partner.Bank) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBankRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockChartOfAccountsRepository is a mock implementation of partner.ChartOfAccountsRepository
type MockChartOfAccountsRepository struct {
	mock.Mock
}

func (m *MockChartOfAccountsRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*partner.ChartCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.ChartCategory), args.Error(1)
}

func (m *MockChartOfAccountsRepository) FindAllCategories(ctx context.Context) ([]partner.ChartCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.ChartCategory), args.Error(1)
}

func (m *MockChartOfAccountsRepository) SaveCategory(ctx context.Context, c *partner.ChartCategory, removedSubcategoryIDs []uuid.UUID) error {
	args := m.Called(ctx, c, removedSubcategoryIDs)
	return args.Error(0)
}

func (m *MockChartOfAccountsRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChartOfAccountsRepository) CountPayablesForSubcategories(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditRecorder is a mock implementation of shared.AuditRecorder
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, entry shared.AuditEntry) {
	m.Called(ctx, entry)
}

func newAuditRecorder() *MockAuditRecorder {
	rec := new(MockAuditRecorder)
	rec.On("Record", mock.Anything, mock.Anything).Return()
	return rec
}

func testActor() shared.Actor {
	return shared.Actor{UserID: uuid.New(), Email: "operator@example.com"}
}

func createReferenceService(supplierRepo *MockSupplierRepository, bankRepo *MockBankRepository, chartRepo *MockChartOfAccountsRepository, audit *MockAuditRecorder) *ReferenceService {
	return NewReferenceService(supplierRepo, bankRepo, chartRepo, audit, zap.NewNop())
}

func createTestCategory(t *testing.T, name string, subNames ...string) *partner.ChartCategory {
	t.Helper()
	cat, err := partner.NewChartCategory(name, subNames)
	require.NoError(t, err)
	return cat
}

func TestReferenceService_CreateSupplier(t *testing.T) {
	ctx := context.Background()
	supplierRepo := new(MockSupplierRepository)

	supplierRepo.On("Save", ctx, mock.Anything).Return(nil)

	service := createReferenceService(supplierRepo, new(MockBankRepository), new(MockChartOfAccountsRepository), newAuditRecorder())

	sup, err := service.CreateSupplier(ctx, SupplierRequest{
		Name:       "Limpadora Brilho",
		DocumentID: "98765432000110",
	}, testActor())

	require.NoError(t, err)
	assert.Equal(t, "Limpadora Brilho", sup.Name)
	supplierRepo.AssertExpectations(t)
}

func TestReferenceService_UpdateSupplier_NotFound(t *testing.T) {
	ctx := context.Background()
	supplierRepo := new(MockSupplierRepository)

	id := uuid.New()
	supplierRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	service := createReferenceService(supplierRepo, new(MockBankRepository), new(MockChartOfAccountsRepository), newAuditRecorder())

	_, err := service.UpdateSupplier(ctx, id, SupplierRequest{Name: "Novo Nome"}, testActor())
	require.Error(t, err)
	assert.Equal(t, shared.ErrNotFound, err)

	supplierRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReferenceService_CreateBank(t *testing.T) {
	ctx := context.Background()
	bankRepo := new(MockBankRepository)

	bankRepo.On("Save", ctx, mock.Anything).Return(nil)

	service := createReferenceService(new(MockSupplierRepository), bankRepo, new(MockChartOfAccountsRepository), newAuditRecorder())

	b, err := service.CreateBank(ctx, BankRequest{
		Name:   "Banco do Brasil",
		Code:   "001",
		Agency: "1234-5",
	}, testActor())

	require.NoError(t, err)
	assert.Equal(t, "001", b.Code)
	bankRepo.AssertExpectations(t)
}

func TestReferenceService_UpdateChartCategory_RemovesUnreferencedSubcategory(t *testing.T) {
	ctx := context.Background()
	chartRepo := new(MockChartOfAccountsRepository)

	cat := createTestCategory(t, "Despesas Administrativas", "Material de escritório", "Correios")
	keptID := cat.Subcategories[0].ID
	removedID := cat.Subcategories[1].ID

	chartRepo.On("FindCategoryByID", ctx, cat.ID).Return(cat, nil)
	chartRepo.On("CountPayablesForSubcategories", ctx, []uuid.UUID{removedID}).Return(int64(0), nil)
	chartRepo.On("SaveCategory", ctx, cat, []uuid.UUID{removedID}).Return(nil)

	service := createReferenceService(new(MockSupplierRepository), new(MockBankRepository), chartRepo, newAuditRecorder())

	updated, err := service.UpdateChartCategory(ctx, cat.ID, ChartCategoryRequest{
		Name: "Despesas Administrativas",
		Subcategories: []SubcategoryRequest{
			{ID: &keptID, Name: "Material de escritório"},
			{Name: "Assinaturas de software"},
		},
	}, testActor())

	require.NoError(t, err)
	require.Len(t, updated.Subcategories, 2)
	assert.Equal(t, keptID, updated.Subcategories[0].ID)
	assert.Equal(t, "Assinaturas de software", updated.Subcategories[1].Name)

	chartRepo.AssertExpectations(t)
}

func TestReferenceService_UpdateChartCategory_RemovedSubcategoryInUse(t *testing.T) {
	ctx := context.Background()
	chartRepo := new(MockChartOfAccountsRepository)

	cat := createTestCategory(t, "Despesas Administrativas", "Material de escritório", "Correios")
	keptID := cat.Subcategories[0].ID
	removedID := cat.Subcategories[1].ID

	chartRepo.On("FindCategoryByID", ctx, cat.ID).Return(cat, nil)
	chartRepo.On("CountPayablesForSubcategories", ctx, []uuid.UUID{removedID}).Return(int64(4), nil)

	service := createReferenceService(new(MockSupplierRepository), new(MockBankRepository), chartRepo, newAuditRecorder())

	_, err := service.UpdateChartCategory(ctx, cat.ID, ChartCategoryRequest{
		Name: "Despesas Administrativas",
		Subcategories: []SubcategoryRequest{
			{ID: &keptID, Name: "Material de escritório"},
		},
	}, testActor())

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "SUBCATEGORY_IN_USE", domainErr.Code)

	chartRepo.AssertNotCalled(t, "SaveCategory", mock.Anything, mock.Anything, mock.Anything)
}

func TestReferenceService_DeleteChartCategory_Success(t *testing.T) {
	ctx := context.Background()
	chartRepo := new(MockChartOfAccountsRepository)

	cat := createTestCategory(t, "Despesas Gerais", "Água", "Luz")
	ids := []uuid.UUID{cat.Subcategories[0].ID, cat.Subcategories[1].ID}

	chartRepo.On("FindCategoryByID", ctx, cat.ID).Return(cat, nil)
	chartRepo.On("CountPayablesForSubcategories", ctx, ids).Return(int64(0), nil)
	chartRepo.On("DeleteCategory", ctx, cat.ID).Return(nil)

	service := createReferenceService(new(MockSupplierRepository), new(MockBankRepository), chartRepo, newAuditRecorder())

	err := service.DeleteChartCategory(ctx, cat.ID, testActor())
	require.NoError(t, err)

	chartRepo.AssertExpectations(t)
}

func TestReferenceService_DeleteChartCategory_SubcategoryInUse(t *testing.T) {
	ctx := context.Background()
	chartRepo := new(MockChartOfAccountsRepository)

	cat := createTestCategory(t, "Despesas Gerais", "Água")

	chartRepo.On("FindCategoryByID", ctx, cat.ID).Return(cat, nil)
	chartRepo.On("CountPayablesForSubcategories", ctx, mock.Anything).Return(int64(1), nil)

	service := createReferenceService(new(MockSupplierRepository), new(MockBankRepository), chartRepo, newAuditRecorder())

	err := service.DeleteChartCategory(ctx, cat.ID, testActor())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "SUBCATEGORY_IN_USE", domainErr.Code)

	chartRepo.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything)
}

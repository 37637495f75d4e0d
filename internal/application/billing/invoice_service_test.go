package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/fatura/backend/internal/domain/billing"
	"github.com/fatura/backend/internal/domain/partner"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockFinancialPeriodRepository is a mock implementation of billing.FinancialPeriodRepository
type MockFinancialPeriodRepository struct {
	mock.Mock
}

func (m *MockFinancialPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.FinancialPeriod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.FinancialPeriod), args.Error(1)
}

func (m *MockFinancialPeriodRepository) FindByPeriod(ctx context.Context, period string) (*billing.FinancialPeriod, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.FinancialPeriod), args.Error(1)
}

func (m *MockFinancialPeriodRepository) FindAll(ctx context.Context) ([]billing.FinancialPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.FinancialPeriod), args.Error(1)
}

func (m *MockFinancialPeriodRepository) Save(ctx context.Context, fp *billing.FinancialPeriod) error {
	args := m.Called(ctx, fp)
	return args.Error(0)
}

func (m *MockFinancialPeriodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFinancialPeriodRepository) CountInvoices(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockBillingProjectionRepository is a mock implementation of billing.BillingProjectionRepository
type MockBillingProjectionRepository struct {
	mock.Mock
}

func (m *MockBillingProjectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingProjection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillingProjection), args.Error(1)
}

func (m *MockBillingProjectionRepository) FindPendingForPeriod(ctx context.Context, period string) ([]billing.PendingProjection, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.PendingProjection), args.Error(1)
}

func (m *MockBillingProjectionRepository) Save(ctx context.Context, p *billing.BillingProjection) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByPeriod(ctx context.Context, period string) ([]billing.InvoiceWithContext, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.InvoiceWithContext), args.Error(1)
}

func (m *MockInvoiceRepository) FindByFinancialPeriodWithUnit(ctx context.Context, financialPeriodID uuid.UUID) ([]billing.InvoiceWithUnit, error) {
	args := m.Called(ctx, financialPeriodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.InvoiceWithUnit), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CreateBatch(ctx context.Context, invoices []*billing.Invoice, projections []*billing.BillingProjection) error {
	args := m.Called(ctx, invoices, projections)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveRecalculation(ctx context.Context, fp *billing.FinancialPeriod, invoices []*billing.Invoice) error {
	args := m.Called(ctx, fp, invoices)
	return args.Error(0)
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

// Helper to create a period with general and ISS rates given as strings
func createTestPeriod(t *testing.T, period, generalRate, issRate string) *billing.FinancialPeriod {
	t.Helper()
	fp, err := billing.NewFinancialPeriod(
		period,
		decimal.RequireFromString(generalRate),
		decimal.RequireFromString(issRate),
		decimal.Zero,
	)
	require.NoError(t, err)
	return fp
}

func createTestUnit(t *testing.T, withholdsISS bool) *partner.Unit {
	t.Helper()
	u, err := partner.NewUnit(uuid.New(), "Unidade Centro", "12345678000190", withholdsISS)
	require.NoError(t, err)
	return u
}

func createTestContract(t *testing.T, unitID uuid.UUID) *partner.Contract {
	t.Helper()
	c, err := partner.NewContract(unitID, "Mensalidade", true, false, 0,
		decimal.RequireFromString("1000.00"), 10, partner.BillingEntityHeadOffice)
	require.NoError(t, err)
	return c
}

func pendingProjection(t *testing.T, fp *billing.FinancialPeriod, amount string, withholdsISS bool, lives *int) billing.PendingProjection {
	t.Helper()
	unit := createTestUnit(t, withholdsISS)
	contract := createTestContract(t, unit.ID)
	proj, err := billing.NewBillingProjection(contract.ID, fp.ID, fp.Period,
		decimal.RequireFromString(amount), lives)
	require.NoError(t, err)
	return billing.PendingProjection{Projection: *proj, Contract: *contract, Unit: *unit}
}

func createInvoiceService(periodRepo *MockFinancialPeriodRepository, projectionRepo *MockBillingProjectionRepository, invoiceRepo *MockInvoiceRepository, audit *MockAuditRecorder) *InvoiceService {
	return NewInvoiceService(periodRepo, projectionRepo, invoiceRepo, audit, 0, zap.NewNop())
}

func TestInvoiceService_Generate_AppliesRatePerUnit(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	projectionRepo := new(MockBillingProjectionRepository)
	invoiceRepo := new(MockInvoiceRepository)

	fp := createTestPeriod(t, "2025-09", "5", "2")
	lives := 42
	pending := []billing.PendingProjection{
		pendingProjection(t, fp, "1000.00", false, nil),
		pendingProjection(t, fp, "1000.00", true, &lives),
	}

	periodRepo.On("FindByPeriod", ctx, "2025-09").Return(fp, nil)
	projectionRepo.On("FindPendingForPeriod", ctx, "2025-09").Return(pending, nil)

	var created []*billing.Invoice
	var consumed []*billing.BillingProjection
	invoiceRepo.On("CreateBatch", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).([]*billing.Invoice)
			consumed = args.Get(2).([]*billing.BillingProjection)
		}).
		Return(nil)
	invoiceRepo.On("FindByPeriod", ctx, "2025-09").Return([]billing.InvoiceWithContext{}, nil)

	service := createInvoiceService(periodRepo, projectionRepo, invoiceRepo, newAuditRecorder())

	// "09/2025" must normalize to the canonical key before any lookup
	_, err := service.Generate(ctx, GenerateRequest{Period: "09/2025"}, testActor())
	require.NoError(t, err)

	require.Len(t, created, 2)

	// unit does not withhold ISS: general rate 5% over 1000.00
	assert.True(t, created[0].TaxAmount.Equal(decimal.RequireFromString("50.00")),
		"tax = %s", created[0].TaxAmount)
	assert.True(t, created[0].TotalAmount.Equal(decimal.RequireFromString("950.00")),
		"total = %s", created[0].TotalAmount)
	assert.Equal(t, 0, created[0].LivesCount)

	// unit withholds ISS: ISS rate 2% over 1000.00
	assert.True(t, created[1].TaxAmount.Equal(decimal.RequireFromString("20.00")),
		"tax = %s", created[1].TaxAmount)
	assert.True(t, created[1].TotalAmount.Equal(decimal.RequireFromString("980.00")),
		"total = %s", created[1].TotalAmount)
	assert.Equal(t, 42, created[1].LivesCount)

	for _, inv := range created {
		assert.Equal(t, billing.InvoiceStatusOpen, inv.Status)
		assert.Equal(t, "2025-09", inv.Period)
		assert.Equal(t, fp.ID, inv.FinancialPeriodID)
	}
	require.Len(t, consumed, 2)
	for _, p := range consumed {
		assert.Equal(t, billing.ProjectionStatusInvoiced, p.Status)
	}

	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Generate_NoPendingProjectionsIsNoOp(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	projectionRepo := new(MockBillingProjectionRepository)
	invoiceRepo := new(MockInvoiceRepository)

	fp := createTestPeriod(t, "2025-09", "5", "2")
	unit := createTestUnit(t, false)
	contract := createTestContract(t, unit.ID)
	existing, err := billing.NewInvoice(contract.ID, nil, fp.ID, "2025-09",
		decimal.RequireFromString("500.00"), decimal.RequireFromString("5"), 0)
	require.NoError(t, err)

	periodRepo.On("FindByPeriod", ctx, "2025-09").Return(fp, nil)
	projectionRepo.On("FindPendingForPeriod", ctx, "2025-09").Return([]billing.PendingProjection{}, nil)
	invoiceRepo.On("FindByPeriod", ctx, "2025-09").Return([]billing.InvoiceWithContext{
		{Invoice: *existing, Contract: *contract, Unit: *unit, CompanyName: "ACME Ltda"},
	}, nil)

	service := createInvoiceService(periodRepo, projectionRepo, invoiceRepo, newAuditRecorder())

	responses, err := service.Generate(ctx, GenerateRequest{Period: "2025-09"}, testActor())
	require.NoError(t, err)

	require.Len(t, responses, 1)
	assert.Equal(t, existing.ID, responses[0].ID)
	assert.Equal(t, "ACME Ltda", responses[0].CompanyName)
	assert.Equal(t, unit.Name, responses[0].UnitName)

	invoiceRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Generate_PeriodNotFound(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	projectionRepo := new(MockBillingProjectionRepository)
	invoiceRepo := new(MockInvoiceRepository)

	periodRepo.On("FindByPeriod", ctx, "2025-09").Return(nil, shared.ErrNotFound)

	service := createInvoiceService(periodRepo, projectionRepo, invoiceRepo, newAuditRecorder())

	responses, err := service.Generate(ctx, GenerateRequest{Period: "2025-09"}, testActor())
	require.Error(t, err)
	assert.Nil(t, responses)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "PERIOD_NOT_FOUND", domainErr.Code)
}

func TestInvoiceService_Generate_InvalidPeriodFormat(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	projectionRepo := new(MockBillingProjectionRepository)
	invoiceRepo := new(MockInvoiceRepository)

	service := createInvoiceService(periodRepo, projectionRepo, invoiceRepo, newAuditRecorder())

	_, err := service.Generate(ctx, GenerateRequest{Period: "2025/09"}, testActor())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_PERIOD_FORMAT", domainErr.Code)

	periodRepo.AssertNotCalled(t, "FindByPeriod", mock.Anything, mock.Anything)
}

func TestInvoiceService_RecalculateOnPeriodEdit_UsesCurrentUnitFlag(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	projectionRepo := new(MockBillingProjectionRepository)
	invoiceRepo := new(MockInvoiceRepository)

	fp := createTestPeriod(t, "2025-09", "5", "2")
	unit := createTestUnit(t, false)
	contract := createTestContract(t, unit.ID)

	invGeneral, err := billing.NewInvoice(contract.ID, nil, fp.ID, "2025-09",
		decimal.RequireFromString("1000.00"), fp.GeneralTaxRate, 0)
	require.NoError(t, err)
	invISS, err := billing.NewInvoice(contract.ID, nil, fp.ID, "2025-09",
		decimal.RequireFromString("1000.00"), fp.ISSRate, 0)
	require.NoError(t, err)

	require.NoError(t, fp.ChangeRates(
		decimal.RequireFromString("10"),
		decimal.RequireFromString("3"),
		decimal.Zero,
	))

	invoiceRepo.On("FindByFinancialPeriodWithUnit", mock.Anything, fp.ID).Return([]billing.InvoiceWithUnit{
		{Invoice: *invGeneral, WithholdsISS: false},
		{Invoice: *invISS, WithholdsISS: true},
	}, nil)

	var saved []*billing.Invoice
	invoiceRepo.On("SaveRecalculation", mock.Anything, fp, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).([]*billing.Invoice)
		}).
		Return(nil)

	service := createInvoiceService(periodRepo, projectionRepo, invoiceRepo, newAuditRecorder())

	count, err := service.RecalculateOnPeriodEdit(ctx, fp, testActor())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, saved, 2)
	assert.True(t, saved[0].TaxAmount.Equal(decimal.RequireFromString("100.00")),
		"tax = %s", saved[0].TaxAmount)
	assert.True(t, saved[0].TotalAmount.Equal(decimal.RequireFromString("900.00")),
		"total = %s", saved[0].TotalAmount)
	assert.True(t, saved[1].TaxAmount.Equal(decimal.RequireFromString("30.00")),
		"tax = %s", saved[1].TaxAmount)
	assert.True(t, saved[1].TotalAmount.Equal(decimal.RequireFromString("970.00")),
		"total = %s", saved[1].TotalAmount)

	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_RecalculateOnPeriodEdit_SaveFailure(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	projectionRepo := new(MockBillingProjectionRepository)
	invoiceRepo := new(MockInvoiceRepository)

	fp := createTestPeriod(t, "2025-09", "5", "2")
	unit := createTestUnit(t, false)
	contract := createTestContract(t, unit.ID)
	inv, err := billing.NewInvoice(contract.ID, nil, fp.ID, "2025-09",
		decimal.RequireFromString("1000.00"), fp.GeneralTaxRate, 0)
	require.NoError(t, err)

	invoiceRepo.On("FindByFinancialPeriodWithUnit", mock.Anything, fp.ID).Return([]billing.InvoiceWithUnit{
		{Invoice: *inv, WithholdsISS: false},
	}, nil)
	invoiceRepo.On("SaveRecalculation", mock.Anything, fp, mock.Anything).
		Return(errors.New("deadlock detected"))

	audit := new(MockAuditRecorder)
	service := createInvoiceService(periodRepo, projectionRepo, invoiceRepo, audit)

	count, err := service.RecalculateOnPeriodEdit(ctx, fp, testActor())
	require.Error(t, err)
	assert.Equal(t, 0, count)

	// nothing committed, nothing audited
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestInvoiceService_UpdateInvoice_MarkPaid(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	projectionRepo := new(MockBillingProjectionRepository)
	invoiceRepo := new(MockInvoiceRepository)

	fp := createTestPeriod(t, "2025-09", "5", "2")
	unit := createTestUnit(t, false)
	contract := createTestContract(t, unit.ID)
	inv, err := billing.NewInvoice(contract.ID, nil, fp.ID, "2025-09",
		decimal.RequireFromString("1000.00"), fp.GeneralTaxRate, 0)
	require.NoError(t, err)

	invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
	invoiceRepo.On("Save", ctx, inv).Return(nil)

	service := createInvoiceService(periodRepo, projectionRepo, invoiceRepo, newAuditRecorder())

	number := "NF-0042"
	status := "PAID"
	paymentPeriod := "2025-10"
	updated, err := service.UpdateInvoice(ctx, inv.ID, UpdateInvoiceRequest{
		InvoiceNumber: &number,
		Status:        &status,
		PaymentPeriod: &paymentPeriod,
	}, testActor())

	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPaid, updated.Status)
	assert.Equal(t, "NF-0042", updated.InvoiceNumber)
	assert.Equal(t, "2025-10", updated.PaymentPeriod)
	require.NotNil(t, updated.PaidAt)

	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_UpdateInvoice_AlreadyPaid(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	projectionRepo := new(MockBillingProjectionRepository)
	invoiceRepo := new(MockInvoiceRepository)

	fp := createTestPeriod(t, "2025-09", "5", "2")
	unit := createTestUnit(t, false)
	contract := createTestContract(t, unit.ID)
	inv, err := billing.NewInvoice(contract.ID, nil, fp.ID, "2025-09",
		decimal.RequireFromString("1000.00"), fp.GeneralTaxRate, 0)
	require.NoError(t, err)
	require.NoError(t, inv.MarkPaid("2025-09"))
	firstPaidAt := inv.PaidAt

	invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
	invoiceRepo.On("Save", ctx, inv).Return(nil)

	service := createInvoiceService(periodRepo, projectionRepo, invoiceRepo, newAuditRecorder())

	// re-submitting PAID is a no-op on the payment fields
	status := "PAID"
	updated, err := service.UpdateInvoice(ctx, inv.ID, UpdateInvoiceRequest{Status: &status}, testActor())
	require.NoError(t, err)

	assert.Equal(t, billing.InvoiceStatusPaid, updated.Status)
	assert.Equal(t, firstPaidAt, updated.PaidAt)
	assert.Equal(t, "2025-09", updated.PaymentPeriod)

	invoiceRepo.AssertExpectations(t)
}

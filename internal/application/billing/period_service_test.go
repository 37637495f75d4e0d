package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/fatura/backend/internal/domain/billing"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createPeriodService(periodRepo *MockFinancialPeriodRepository, invoiceRepo *MockInvoiceRepository, audit *MockAuditRecorder) *PeriodService {
	invoiceService := createInvoiceService(periodRepo, new(MockBillingProjectionRepository), invoiceRepo, audit)
	return NewPeriodService(periodRepo, invoiceService, audit, zap.NewNop())
}

func TestPeriodService_Create_Success(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	invoiceRepo := new(MockInvoiceRepository)

	periodRepo.On("FindByPeriod", ctx, "2025-09").Return(nil, shared.ErrNotFound)
	periodRepo.On("Save", ctx, mock.Anything).Return(nil)

	service := createPeriodService(periodRepo, invoiceRepo, newAuditRecorder())

	resp, err := service.Create(ctx, CreatePeriodRequest{
		Period:         "09/2025",
		GeneralTaxRate: decimal.RequireFromString("5"),
		ISSRate:        decimal.RequireFromString("2"),
	}, testActor())

	require.NoError(t, err)
	assert.Equal(t, "2025-09", resp.Period)
	assert.True(t, resp.GeneralTaxRate.Equal(decimal.RequireFromString("5")))
	assert.True(t, resp.ISSRate.Equal(decimal.RequireFromString("2")))

	periodRepo.AssertExpectations(t)
}

func TestPeriodService_Create_DuplicatePeriod(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	invoiceRepo := new(MockInvoiceRepository)

	existing := createTestPeriod(t, "2025-09", "5", "2")
	// the duplicate check runs on the normalized key, so the slash form collides
	periodRepo.On("FindByPeriod", ctx, "2025-09").Return(existing, nil)

	service := createPeriodService(periodRepo, invoiceRepo, newAuditRecorder())

	resp, err := service.Create(ctx, CreatePeriodRequest{
		Period:         "09/2025",
		GeneralTaxRate: decimal.RequireFromString("5"),
		ISSRate:        decimal.RequireFromString("2"),
	}, testActor())

	require.Error(t, err)
	assert.Nil(t, resp)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "DUPLICATE_PERIOD", domainErr.Code)

	periodRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPeriodService_Create_NegativeRate(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	invoiceRepo := new(MockInvoiceRepository)

	service := createPeriodService(periodRepo, invoiceRepo, newAuditRecorder())

	_, err := service.Create(ctx, CreatePeriodRequest{
		Period:         "2025-09",
		GeneralTaxRate: decimal.RequireFromString("-1"),
		ISSRate:        decimal.RequireFromString("2"),
	}, testActor())

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_RATE", domainErr.Code)
}

func TestPeriodService_Update_RecomputesInvoices(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	invoiceRepo := new(MockInvoiceRepository)

	fp := createTestPeriod(t, "2025-09", "5", "2")
	unit := createTestUnit(t, false)
	contract := createTestContract(t, unit.ID)
	inv, err := billing.NewInvoice(contract.ID, nil, fp.ID, "2025-09",
		decimal.RequireFromString("1000.00"), fp.GeneralTaxRate, 0)
	require.NoError(t, err)

	periodRepo.On("FindByID", mock.Anything, fp.ID).Return(fp, nil)
	invoiceRepo.On("FindByFinancialPeriodWithUnit", mock.Anything, fp.ID).Return([]billing.InvoiceWithUnit{
		{Invoice: *inv, WithholdsISS: false},
	}, nil)

	var saved []*billing.Invoice
	invoiceRepo.On("SaveRecalculation", mock.Anything, fp, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).([]*billing.Invoice)
		}).
		Return(nil)

	service := createPeriodService(periodRepo, invoiceRepo, newAuditRecorder())

	resp, err := service.Update(ctx, fp.ID, UpdatePeriodRequest{
		GeneralTaxRate: decimal.RequireFromString("10"),
		ISSRate:        decimal.RequireFromString("3"),
	}, testActor())

	require.NoError(t, err)
	assert.Equal(t, 1, resp.InvoicesRecomputed)
	assert.True(t, resp.Period.GeneralTaxRate.Equal(decimal.RequireFromString("10")))

	require.Len(t, saved, 1)
	assert.True(t, saved[0].TaxAmount.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, saved[0].TotalAmount.Equal(decimal.RequireFromString("900.00")))

	invoiceRepo.AssertExpectations(t)
}

func TestPeriodService_Update_RecalculationFailurePropagates(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	invoiceRepo := new(MockInvoiceRepository)

	fp := createTestPeriod(t, "2025-09", "5", "2")

	periodRepo.On("FindByID", mock.Anything, fp.ID).Return(fp, nil)
	invoiceRepo.On("FindByFinancialPeriodWithUnit", mock.Anything, fp.ID).
		Return(nil, errors.New("connection reset"))

	audit := new(MockAuditRecorder)
	service := createPeriodService(periodRepo, invoiceRepo, audit)

	resp, err := service.Update(ctx, fp.ID, UpdatePeriodRequest{
		GeneralTaxRate: decimal.RequireFromString("10"),
		ISSRate:        decimal.RequireFromString("3"),
	}, testActor())

	require.Error(t, err)
	assert.Nil(t, resp)
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestPeriodService_Delete_Success(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	invoiceRepo := new(MockInvoiceRepository)

	fp := createTestPeriod(t, "2025-09", "5", "2")
	periodRepo.On("FindByID", ctx, fp.ID).Return(fp, nil)
	periodRepo.On("CountInvoices", ctx, fp.ID).Return(int64(0), nil)
	periodRepo.On("Delete", ctx, fp.ID).Return(nil)

	service := createPeriodService(periodRepo, invoiceRepo, newAuditRecorder())

	err := service.Delete(ctx, fp.ID, testActor())
	require.NoError(t, err)

	periodRepo.AssertExpectations(t)
}

func TestPeriodService_Delete_WithInvoicesRejected(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	invoiceRepo := new(MockInvoiceRepository)

	fp := createTestPeriod(t, "2025-09", "5", "2")
	periodRepo.On("FindByID", ctx, fp.ID).Return(fp, nil)
	periodRepo.On("CountInvoices", ctx, fp.ID).Return(int64(3), nil)

	service := createPeriodService(periodRepo, invoiceRepo, newAuditRecorder())

	err := service.Delete(ctx, fp.ID, testActor())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "PERIOD_HAS_INVOICES", domainErr.Code)

	periodRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPeriodService_Current_NotOpenedYet(t *testing.T) {
	ctx := context.Background()
	periodRepo := new(MockFinancialPeriodRepository)
	invoiceRepo := new(MockInvoiceRepository)

	periodRepo.On("FindByPeriod", ctx, mock.AnythingOfType("string")).Return(nil, shared.ErrNotFound)

	service := createPeriodService(periodRepo, invoiceRepo, newAuditRecorder())

	resp, err := service.Current(ctx)
	require.Error(t, err)
	assert.Nil(t, resp)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "PERIOD_NOT_FOUND", domainErr.Code)
}

package report

import (
	"context"
	"errors"
	"testing"

	"github.com/fatura/backend/internal/domain/report"
	"github.com/fatura/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockDashboardRepository is a mock implementation of report.DashboardRepository
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) KPIs(ctx context.Context, period string) (*report.KPISummary, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.KPISummary), args.Error(1)
}

func (m *MockDashboardRepository) MonthlyFlows(ctx context.Context, months int) ([]report.MonthlyFlow, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.MonthlyFlow), args.Error(1)
}

func (m *MockDashboardRepository) ExpensesByCategory(ctx context.Context, period string) ([]report.CategoryExpense, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.CategoryExpense), args.Error(1)
}

func TestDashboardService_KPIs_NormalizesPeriod(t *testing.T) {
	ctx := context.Background()
	repo := new(MockDashboardRepository)

	summary := &report.KPISummary{
		Period:      "2025-09",
		BilledTotal: decimal.RequireFromString("12000.00"),
	}
	repo.On("KPIs", ctx, "2025-09").Return(summary, nil)

	service := NewDashboardService(repo, zap.NewNop())

	result, err := service.KPIs(ctx, "09/2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-09", result.Period)
	assert.True(t, result.BilledTotal.Equal(decimal.RequireFromString("12000.00")))

	repo.AssertExpectations(t)
}

func TestDashboardService_KPIs_InvalidPeriod(t *testing.T) {
	ctx := context.Background()
	repo := new(MockDashboardRepository)

	service := NewDashboardService(repo, zap.NewNop())

	_, err := service.KPIs(ctx, "setembro/2025")
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_PERIOD_FORMAT", domainErr.Code)

	repo.AssertNotCalled(t, "KPIs", mock.Anything, mock.Anything)
}

func TestDashboardService_KPIs_DefaultsToCurrentMonth(t *testing.T) {
	ctx := context.Background()
	repo := new(MockDashboardRepository)

	repo.On("KPIs", ctx, mock.MatchedBy(func(period string) bool {
		return len(period) == 7 && period[4] == '-'
	})).Return(&report.KPISummary{}, nil)

	service := NewDashboardService(repo, zap.NewNop())

	_, err := service.KPIs(ctx, "")
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestDashboardService_MonthlyFlows_DefaultsMonths(t *testing.T) {
	ctx := context.Background()
	repo := new(MockDashboardRepository)

	repo.On("MonthlyFlows", ctx, DefaultFlowMonths).Return([]report.MonthlyFlow{}, nil)

	service := NewDashboardService(repo, zap.NewNop())

	_, err := service.MonthlyFlows(ctx, 0)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestDashboardService_ExpensesByCategory(t *testing.T) {
	ctx := context.Background()
	repo := new(MockDashboardRepository)

	expenses := []report.CategoryExpense{
		{CategoryName: "Despesas Administrativas", Total: decimal.RequireFromString("850.00")},
		{CategoryName: "Despesas Gerais", Total: decimal.RequireFromString("320.50")},
	}
	repo.On("ExpensesByCategory", ctx, "2025-09").Return(expenses, nil)

	service := NewDashboardService(repo, zap.NewNop())

	result, err := service.ExpensesByCategory(ctx, "2025-09")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Despesas Administrativas", result[0].CategoryName)

	repo.AssertExpectations(t)
}

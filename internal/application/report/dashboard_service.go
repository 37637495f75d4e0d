package report

import (
	"context"
	"time"

	"github.com/fatura/backend/internal/domain/billing"
	"github.com/fatura/backend/internal/domain/report"
	"go.uber.org/zap"
)

// DefaultFlowMonths is the default length of the revenue vs expense series
const DefaultFlowMonths = 12

// DashboardService serves the back-office dashboard aggregations
type DashboardService struct {
	dashboardRepo report.DashboardRepository
	logger        *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(dashboardRepo report.DashboardRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		logger:        logger,
	}
}

// KPIs returns the headline figures for the given period, defaulting to the
// current calendar month when the period is empty
func (s *DashboardService) KPIs(ctx context.Context, period string) (*report.KPISummary, error) {
	if period == "" {
		period = billing.CurrentPeriod(time.Now())
	} else {
		normalized, err := billing.NormalizePeriod(period)
		if err != nil {
			return nil, err
		}
		period = normalized
	}
	return s.dashboardRepo.KPIs(ctx, period)
}

// MonthlyFlows returns the revenue vs expense series, oldest month first
func (s *DashboardService) MonthlyFlows(ctx context.Context, months int) ([]report.MonthlyFlow, error) {
	if months <= 0 {
		months = DefaultFlowMonths
	}
	return s.dashboardRepo.MonthlyFlows(ctx, months)
}

// ExpensesByCategory aggregates paid installments per chart category
func (s *DashboardService) ExpensesByCategory(ctx context.Context, period string) ([]report.CategoryExpense, error) {
	if period == "" {
		period = billing.CurrentPeriod(time.Now())
	} else {
		normalized, err := billing.NormalizePeriod(period)
		if err != nil {
			return nil, err
		}
		period = normalized
	}
	return s.dashboardRepo.ExpensesByCategory(ctx, period)
}

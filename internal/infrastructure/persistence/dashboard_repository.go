package persistence

import (
	"context"
	"time"

	"github.com/fatura/backend/internal/domain/billing"
	"github.com/fatura/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements DashboardRepository with raw SQL
// aggregation. It only ever reads.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// KPIs aggregates the headline figures for one period
func (r *GormDashboardRepository) KPIs(ctx context.Context, period string) (*report.KPISummary, error) {
	var invoiceRow struct {
		BilledTotal     decimal.Decimal
		ReceivedTotal   decimal.Decimal
		OpenInvoices    int64
		OverdueInvoices int64
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total_amount), 0) AS billed_total,
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'PAID'), 0) AS received_total,
			COUNT(*) FILTER (WHERE status = 'OPEN') AS open_invoices,
			COUNT(*) FILTER (WHERE status = 'OVERDUE') AS overdue_invoices
		FROM invoices
		WHERE period = ?`, period).Scan(&invoiceRow).Error; err != nil {
		return nil, err
	}

	var payableRow struct {
		OpenPayables    decimal.Decimal
		OverduePayables int64
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status <> 'PAID'), 0) AS open_payables,
			COUNT(*) FILTER (WHERE status <> 'PAID' AND due_date < CURRENT_DATE) AS overdue_payables
		FROM installments
		WHERE to_char(due_date, 'YYYY-MM') = ?`, period).Scan(&payableRow).Error; err != nil {
		return nil, err
	}

	return &report.KPISummary{
		Period:          period,
		BilledTotal:     invoiceRow.BilledTotal,
		ReceivedTotal:   invoiceRow.ReceivedTotal,
		OpenPayables:    payableRow.OpenPayables,
		OpenInvoices:    invoiceRow.OpenInvoices,
		OverdueInvoices: invoiceRow.OverdueInvoices,
		OverduePayables: payableRow.OverduePayables,
	}, nil
}

// MonthlyFlows returns the revenue vs expense series for the last n months,
// oldest first. Months without activity appear with zero amounts.
func (r *GormDashboardRepository) MonthlyFlows(ctx context.Context, months int) ([]report.MonthlyFlow, error) {
	type periodTotal struct {
		Period string
		Total  decimal.Decimal
	}

	periods := lastPeriods(months)
	oldest := periods[0]

	var revenueRows []periodTotal
	if err := r.db.WithContext(ctx).Raw(`
		SELECT payment_period AS period, COALESCE(SUM(total_amount), 0) AS total
		FROM invoices
		WHERE status = 'PAID' AND payment_period >= ?
		GROUP BY payment_period`, oldest).Scan(&revenueRows).Error; err != nil {
		return nil, err
	}

	var expenseRows []periodTotal
	if err := r.db.WithContext(ctx).Raw(`
		SELECT to_char(paid_at, 'YYYY-MM') AS period, COALESCE(SUM(amount), 0) AS total
		FROM installments
		WHERE status = 'PAID' AND paid_at IS NOT NULL AND to_char(paid_at, 'YYYY-MM') >= ?
		GROUP BY to_char(paid_at, 'YYYY-MM')`, oldest).Scan(&expenseRows).Error; err != nil {
		return nil, err
	}

	revenueByPeriod := make(map[string]decimal.Decimal, len(revenueRows))
	for _, row := range revenueRows {
		revenueByPeriod[row.Period] = row.Total
	}
	expenseByPeriod := make(map[string]decimal.Decimal, len(expenseRows))
	for _, row := range expenseRows {
		expenseByPeriod[row.Period] = row.Total
	}

	flows := make([]report.MonthlyFlow, 0, len(periods))
	for _, period := range periods {
		revenue, ok := revenueByPeriod[period]
		if !ok {
			revenue = decimal.Zero
		}
		expense, ok := expenseByPeriod[period]
		if !ok {
			expense = decimal.Zero
		}
		flows = append(flows, report.MonthlyFlow{
			Period:  period,
			Revenue: revenue,
			Expense: expense,
		})
	}
	return flows, nil
}

// ExpensesByCategory aggregates paid installments per chart category for one
// period
func (r *GormDashboardRepository) ExpensesByCategory(ctx context.Context, period string) ([]report.CategoryExpense, error) {
	var rows []report.CategoryExpense
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			cc.id AS category_id,
			cc.name AS category_name,
			COALESCE(SUM(i.amount), 0) AS total
		FROM installments i
		JOIN payable_accounts pa ON pa.id = i.payable_account_id
		JOIN chart_subcategories cs ON cs.id = pa.subcategory_id
		JOIN chart_categories cc ON cc.id = cs.category_id
		WHERE i.status = 'PAID' AND i.paid_at IS NOT NULL
			AND to_char(i.paid_at, 'YYYY-MM') = ?
		GROUP BY cc.id, cc.name
		ORDER BY total DESC`, period).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []report.CategoryExpense{}
	}
	return rows, nil
}

// lastPeriods returns the last n YYYY-MM keys ending at the current month,
// oldest first
func lastPeriods(n int) []string {
	now := time.Now()
	periods := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		// first of month avoids end-of-month normalization surprises
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		periods = append(periods, billing.CurrentPeriod(month))
	}
	return periods
}

// Ensure GormDashboardRepository implements DashboardRepository
var _ report.DashboardRepository = (*GormDashboardRepository)(nil)

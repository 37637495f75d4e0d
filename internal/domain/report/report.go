package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// KPISummary holds the headline figures of the dashboard for one period
type KPISummary struct {
	Period          string          `json:"competencia"`
	BilledTotal     decimal.Decimal `json:"billed_total"`
	ReceivedTotal   decimal.Decimal `json:"received_total"`
	OpenPayables    decimal.Decimal `json:"open_payables"`
	OpenInvoices    int64           `json:"open_invoices"`
	OverdueInvoices int64           `json:"overdue_invoices"`
	OverduePayables int64           `json:"overdue_payables"`
}

// MonthlyFlow is one month of the revenue vs expense series
type MonthlyFlow struct {
	Period  string          `json:"competencia"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryExpense aggregates paid installment amounts per chart category
type CategoryExpense struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// DashboardRepository is the read-only SQL aggregation layer behind the
// dashboard. Implementations never mutate state.
type DashboardRepository interface {
	// KPIs aggregates the headline figures for one period
	KPIs(ctx context.Context, period string) (*KPISummary, error)

	// MonthlyFlows returns the revenue vs expense series for the last n
	// months, oldest first
	MonthlyFlows(ctx context.Context, months int) ([]MonthlyFlow, error)

	// ExpensesByCategory aggregates paid installments per chart category for
	// one period
	ExpensesByCategory(ctx context.Context, period string) ([]CategoryExpense, error)
}

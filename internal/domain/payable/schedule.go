package payable

import (
	"time"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ScheduledInstallment is one entry of a computed installment schedule
type ScheduledInstallment struct {
	Number  int             `json:"number"` // 1-based sequence
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// BuildSchedule deterministically splits a total into dated installments.
//
// For recurring accounts every installment carries the full total (a monthly
// charge, not a division of a lump sum). For non-recurring accounts the total
// is divided evenly at 2 decimal places and the final installment absorbs the
// rounding remainder, so the amounts always sum to the total exactly in cents.
//
// Due dates advance month by month from the anchor, preserving the anchor's
// day of month and clamping to the last day of shorter months.
func BuildSchedule(totalAmount decimal.Decimal, installmentCount int, anchorDate time.Time, recurring bool) ([]ScheduledInstallment, error) {
	if installmentCount < 1 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT_COUNT", "Installment count must be at least 1")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}

	installments := make([]ScheduledInstallment, 0, installmentCount)

	if recurring {
		for i := 0; i < installmentCount; i++ {
			installments = append(installments, ScheduledInstallment{
				Number:  i + 1,
				DueDate: addMonthsClamped(anchorDate, i),
				Amount:  totalAmount.Round(2),
			})
		}
		return installments, nil
	}

	base := totalAmount.Div(decimal.NewFromInt(int64(installmentCount))).Round(2)
	runningSum := decimal.Zero
	for i := 0; i < installmentCount-1; i++ {
		installments = append(installments, ScheduledInstallment{
			Number:  i + 1,
			DueDate: addMonthsClamped(anchorDate, i),
			Amount:  base,
		})
		runningSum = runningSum.Add(base).Round(2)
	}

	// Last installment reconciles the running sum against the total so the
	// schedule adds up to the cent regardless of rounding drift.
	last := totalAmount.Sub(runningSum).Round(2)
	installments = append(installments, ScheduledInstallment{
		Number:  installmentCount,
		DueDate: addMonthsClamped(anchorDate, installmentCount-1),
		Amount:  last,
	})
	return installments, nil
}

// addMonthsClamped advances the anchor by the given number of months keeping
// the anchor's day of month, clamped to the target month's last valid day.
// The time of day is zeroed.
func addMonthsClamped(anchor time.Time, months int) time.Time {
	year, month, day := anchor.Date()
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, anchor.Location())
	if last := lastDayOfMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, anchor.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

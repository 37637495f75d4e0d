package billing

import (
	"fmt"
	"regexp"
	"time"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Billing domain errors
var (
	ErrPeriodNotFound    = shared.NewDomainError("PERIOD_NOT_FOUND", "Financial period not found")
	ErrDuplicatePeriod   = shared.NewDomainError("DUPLICATE_PERIOD", "A financial period already exists for this month")
	ErrPeriodHasInvoices = shared.NewDomainError("PERIOD_HAS_INVOICES", "Financial period still has invoices referencing it")
)

var (
	periodPattern      = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)
	periodSlashPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{4})$`)
)

// NormalizePeriod accepts a period in "YYYY-MM" or "MM/YYYY" form and returns
// the canonical "YYYY-MM" key.
func NormalizePeriod(input string) (string, error) {
	if periodPattern.MatchString(input) {
		return input, nil
	}
	if m := periodSlashPattern.FindStringSubmatch(input); m != nil {
		return fmt.Sprintf("%s-%s", m[2], m[1]), nil
	}
	return "", shared.NewDomainError("INVALID_PERIOD_FORMAT",
		fmt.Sprintf("Period %q is not in YYYY-MM or MM/YYYY format", input))
}

// CurrentPeriod returns the canonical period key for the current calendar month.
func CurrentPeriod(now time.Time) string {
	return now.Format("2006-01")
}

// FinancialPeriod is the aggregate owning the tax-rate inputs for one calendar
// month. It is the single source of truth consulted by invoice generation.
type FinancialPeriod struct {
	shared.BaseAggregateRoot
	Period         string          `json:"period"` // natural key, YYYY-MM
	GeneralTaxRate decimal.Decimal `json:"general_tax_rate"`
	ISSRate        decimal.Decimal `json:"iss_rate"`
	InflationIndex decimal.Decimal `json:"inflation_index"`
}

// NewFinancialPeriod creates a financial period, normalizing the period key.
func NewFinancialPeriod(period string, generalTaxRate, issRate, inflationIndex decimal.Decimal) (*FinancialPeriod, error) {
	normalized, err := NormalizePeriod(period)
	if err != nil {
		return nil, err
	}
	if err := validateRate("general tax rate", generalTaxRate); err != nil {
		return nil, err
	}
	if err := validateRate("ISS rate", issRate); err != nil {
		return nil, err
	}

	fp := &FinancialPeriod{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Period:            normalized,
		GeneralTaxRate:    generalTaxRate,
		ISSRate:           issRate,
		InflationIndex:    inflationIndex,
	}
	fp.AddDomainEvent(NewFinancialPeriodCreatedEvent(fp))
	return fp, nil
}

func validateRate(name string, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", fmt.Sprintf("The %s cannot be negative", name))
	}
	if rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_RATE", fmt.Sprintf("The %s cannot exceed 100%%", name))
	}
	return nil
}

// ChangeRates updates the tax-rate inputs. Callers must trigger invoice
// recalculation for the period in the same transaction.
func (fp *FinancialPeriod) ChangeRates(generalTaxRate, issRate, inflationIndex decimal.Decimal) error {
	if err := validateRate("general tax rate", generalTaxRate); err != nil {
		return err
	}
	if err := validateRate("ISS rate", issRate); err != nil {
		return err
	}

	previousGeneral := fp.GeneralTaxRate
	previousISS := fp.ISSRate
	fp.GeneralTaxRate = generalTaxRate
	fp.ISSRate = issRate
	fp.InflationIndex = inflationIndex
	fp.UpdatedAt = time.Now()
	fp.IncrementVersion()

	fp.AddDomainEvent(NewFinancialPeriodRatesChangedEvent(fp, previousGeneral, previousISS))
	return nil
}

// RateFor resolves the tax rate applicable to a unit: units that withhold ISS
// are billed at the ISS rate, all others at the general tax rate.
func (fp *FinancialPeriod) RateFor(withholdsISS bool) decimal.Decimal {
	if withholdsISS {
		return fp.ISSRate
	}
	return fp.GeneralTaxRate
}

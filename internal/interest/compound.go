package interest

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Compound compounds the yearly rate over a fixed number of periods.
type Compound struct {
	periodsPerYear int64
}

// NewCompound returns a compound interest strategy with the given
// compounding frequency.
func NewCompound(periodsPerYear int) (Compound, error) {
	if periodsPerYear < 1 {
		return Compound{}, ErrInvalidPeriods
	}

	return Compound{periodsPerYear: int64(periodsPerYear)}, nil
}

// Calculate returns balance * (1 + rate/n)^n - balance.
func (c Compound) Calculate(balance, rate decimal.Decimal) decimal.Decimal {
	periods := decimal.NewFromInt(c.periodsPerYear)
	ratePerPeriod := rate.Div(periods)
	compounded := balance.Mul(decimal.NewFromInt(1).Add(ratePerPeriod).Pow(periods))

	return compounded.Sub(balance)
}

// Name returns the strategy label.
func (c Compound) Name() string {
	return fmt.Sprintf("Compound Interest (%dx/year)", c.periodsPerYear)
}

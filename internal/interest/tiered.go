package interest

import "github.com/shopspring/decimal"

// Tiered applies a three-band rate schedule. Tier boundaries are inclusive
// on the lower tier: a balance exactly at a limit earns the lower band's
// rate for the full band.
type Tiered struct {
	tier1Limit decimal.Decimal
	tier1Rate  decimal.Decimal
	tier2Limit decimal.Decimal
	tier2Rate  decimal.Decimal
	tier3Rate  decimal.Decimal
}

// NewTiered returns a tiered interest strategy. Limits must be ascending and
// positive, rates non-negative. The account's own rate is ignored by this
// policy.
func NewTiered(tier1Limit, tier1Rate, tier2Limit, tier2Rate, tier3Rate decimal.Decimal) (Tiered, error) {
	if !tier1Limit.IsPositive() || tier2Limit.LessThanOrEqual(tier1Limit) {
		return Tiered{}, ErrInvalidTiers
	}

	if tier1Rate.IsNegative() || tier2Rate.IsNegative() || tier3Rate.IsNegative() {
		return Tiered{}, ErrInvalidTiers
	}

	return Tiered{
		tier1Limit: tier1Limit,
		tier1Rate:  tier1Rate,
		tier2Limit: tier2Limit,
		tier2Rate:  tier2Rate,
		tier3Rate:  tier3Rate,
	}, nil
}

// Calculate sums the interest earned in each band the balance reaches.
func (t Tiered) Calculate(balance, _ decimal.Decimal) decimal.Decimal {
	if balance.LessThanOrEqual(t.tier1Limit) {
		return balance.Mul(t.tier1Rate)
	}

	interest := t.tier1Limit.Mul(t.tier1Rate)

	if balance.LessThanOrEqual(t.tier2Limit) {
		return interest.Add(balance.Sub(t.tier1Limit).Mul(t.tier2Rate))
	}

	interest = interest.Add(t.tier2Limit.Sub(t.tier1Limit).Mul(t.tier2Rate))

	return interest.Add(balance.Sub(t.tier2Limit).Mul(t.tier3Rate))
}

// Name returns the strategy label.
func (t Tiered) Name() string {
	return "Tiered Interest"
}

package interest

import "github.com/shopspring/decimal"

// Simple is the balance*rate policy.
type Simple struct{}

// NewSimple returns the simple interest strategy.
func NewSimple() Simple {
	return Simple{}
}

// Calculate returns balance * rate.
func (Simple) Calculate(balance, rate decimal.Decimal) decimal.Decimal {
	return balance.Mul(rate)
}

// Name returns the strategy label.
func (Simple) Name() string {
	return "Simple Interest"
}

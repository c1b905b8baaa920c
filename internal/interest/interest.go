// Package interest provides pluggable interest calculation policies.
package interest

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidPeriods indicates a non-positive compounding frequency.
	ErrInvalidPeriods = errors.New("compounding periods must be positive")
	// ErrInvalidTiers indicates a tier schedule whose limits are not
	// ascending or whose rates are negative.
	ErrInvalidTiers = errors.New("invalid tier schedule")
)

// Strategy calculates interest from a balance and a yearly rate. Calculate
// is pure: implementations never mutate anything and never record
// transactions.
type Strategy interface {
	Calculate(balance, rate decimal.Decimal) decimal.Decimal
	Name() string
}

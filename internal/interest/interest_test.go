package interest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSimple(t *testing.T) {
	s := NewSimple()

	require.True(t, s.Calculate(dec("10000"), dec("0.04")).Equal(dec("400")))
	require.True(t, s.Calculate(dec("0"), dec("0.04")).IsZero())
	require.Equal(t, "Simple Interest", s.Name())
}

func TestNewCompound(t *testing.T) {
	for _, periods := range []int{0, -1} {
		_, err := NewCompound(periods)
		require.ErrorIs(t, err, ErrInvalidPeriods)
	}

	c, err := NewCompound(12)
	require.NoError(t, err)
	require.Equal(t, "Compound Interest (12x/year)", c.Name())
}

func TestCompoundOnePeriodMatchesSimple(t *testing.T) {
	c, err := NewCompound(1)
	require.NoError(t, err)

	got := c.Calculate(dec("10000"), dec("0.04"))
	want := NewSimple().Calculate(dec("10000"), dec("0.04"))
	require.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestCompoundMonthly(t *testing.T) {
	c, err := NewCompound(12)
	require.NoError(t, err)

	// 10000 * (1 + 0.12/12)^12 - 10000
	got := c.Calculate(dec("10000"), dec("0.12"))
	require.InDelta(t, 1268.2503, got.InexactFloat64(), 0.0001)

	// Compounding beats the simple policy for the same nominal rate.
	simple := NewSimple().Calculate(dec("10000"), dec("0.12"))
	require.True(t, got.GreaterThan(simple))
}

func TestNewTiered(t *testing.T) {
	testCases := []struct {
		name                   string
		tier1Limit, tier2Limit string
		tier1Rate, tier2Rate   string
		tier3Rate              string
		wantErr                error
	}{
		{
			name: "OK", tier1Limit: "100000", tier1Rate: "0.03",
			tier2Limit: "500000", tier2Rate: "0.04", tier3Rate: "0.05",
		},
		{
			name: "ZeroFirstLimit", tier1Limit: "0", tier1Rate: "0.03",
			tier2Limit: "500000", tier2Rate: "0.04", tier3Rate: "0.05",
			wantErr: ErrInvalidTiers,
		},
		{
			name: "NonAscendingLimits", tier1Limit: "500000", tier1Rate: "0.03",
			tier2Limit: "100000", tier2Rate: "0.04", tier3Rate: "0.05",
			wantErr: ErrInvalidTiers,
		},
		{
			name: "NegativeRate", tier1Limit: "100000", tier1Rate: "-0.03",
			tier2Limit: "500000", tier2Rate: "0.04", tier3Rate: "0.05",
			wantErr: ErrInvalidTiers,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTiered(
				dec(tc.tier1Limit), dec(tc.tier1Rate),
				dec(tc.tier2Limit), dec(tc.tier2Rate),
				dec(tc.tier3Rate),
			)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTieredCalculate(t *testing.T) {
	tiered, err := NewTiered(dec("100000"), dec("0.03"), dec("500000"), dec("0.04"), dec("0.05"))
	require.NoError(t, err)

	testCases := []struct {
		name    string
		balance string
		want    string
	}{
		{name: "FirstTier", balance: "10400", want: "312"},
		{name: "FirstTierBoundary", balance: "100000", want: "3000"},
		{name: "SecondTier", balance: "200000", want: "7000"},
		{name: "SecondTierBoundary", balance: "500000", want: "19000"},
		{name: "ThirdTier", balance: "600000", want: "24000"},
		{name: "Zero", balance: "0", want: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tiered.Calculate(dec(tc.balance), dec("0.99"))
			require.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestTieredIgnoresAccountRate(t *testing.T) {
	tiered, err := NewTiered(dec("100000"), dec("0.03"), dec("500000"), dec("0.04"), dec("0.05"))
	require.NoError(t, err)

	a := tiered.Calculate(dec("50000"), dec("0.01"))
	b := tiered.Calculate(dec("50000"), dec("0.99"))
	require.True(t, a.Equal(b))
}

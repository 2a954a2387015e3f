package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateWithdrawal_Sustainable(t *testing.T) {
	result := SimulateWithdrawal(d("100000"), d("4"), 65, d("0.05"))

	assert.True(t, result.AnnualIncome.Equal(d("4000")))
	assert.Equal(t, "333.33", result.MonthlyIncome.StringFixed(2))
	assert.Nil(t, result.YearsUntilDepletion)
	assert.Nil(t, result.DepletionAge)
	assert.False(t, result.Depleted())
	require.Len(t, result.Path, MaxWithdrawalYears)

	// 100000 * 1.05 - 4000
	assert.True(t, result.Path[0].Balance.Equal(d("101000")))
	assert.Equal(t, 66, result.Path[0].Age)
	assert.True(t, result.PortfolioAt.At85.GreaterThan(d("100000")))
}

func TestSimulateWithdrawal_Depletes(t *testing.T) {
	result := SimulateWithdrawal(d("100000"), d("10"), 65, decimal.Zero)

	require.NotNil(t, result.YearsUntilDepletion)
	assert.Equal(t, 10, *result.YearsUntilDepletion)
	assert.Equal(t, 75, *result.DepletionAge)
	assert.Len(t, result.Path, 10, "Simulation stops at the first depletion")
	assert.True(t, result.PortfolioAt.At85.IsZero(), "Ages after depletion report zero")
	assert.True(t, result.PortfolioAt.At90.IsZero())
}

func TestSimulateWithdrawal_ZeroRateNeverDepletes(t *testing.T) {
	for _, ret := range []string{"0", "0.03", "0.07"} {
		result := SimulateWithdrawal(d("250000"), decimal.Zero, 60, d(ret))

		assert.False(t, result.Depleted(), "return %s", ret)
		assert.True(t, result.AnnualIncome.IsZero())
	}
}

func TestSimulateWithdrawal_ZeroRateBalanceGrows(t *testing.T) {
	for _, ret := range []string{"0.03", "0.07"} {
		result := SimulateWithdrawal(d("250000"), decimal.Zero, 60, d(ret))

		require.Len(t, result.Path, MaxWithdrawalYears, "return %s", ret)
		assert.True(t, result.Path[0].Balance.GreaterThan(d("250000")), "return %s year 1", ret)
		for i := 1; i < len(result.Path); i++ {
			assert.True(t, result.Path[i].Balance.GreaterThan(result.Path[i-1].Balance),
				"return %s: year %d balance %s should exceed %s", ret, result.Path[i].Year, result.Path[i].Balance, result.Path[i-1].Balance)
		}
	}
}

func TestSimulateWithdrawal_BalanceNeverNegative(t *testing.T) {
	for _, rate := range []string{"3", "5", "8", "12.5", "40"} {
		result := SimulateWithdrawal(d("500000"), d(rate), 70, d("0.02"))

		for _, y := range result.Path {
			assert.False(t, y.Balance.IsNegative(), "rate %s year %d", rate, y.Year)
		}
	}
}

func TestSimulateWithdrawal_DepletionRecordedOnce(t *testing.T) {
	result := SimulateWithdrawal(d("100000"), d("25"), 65, decimal.Zero)

	require.NotNil(t, result.YearsUntilDepletion)
	assert.Equal(t, 4, *result.YearsUntilDepletion)
	zeros := 0
	for _, y := range result.Path {
		if y.Balance.IsZero() {
			zeros++
		}
	}
	assert.Equal(t, 1, zeros)
}

func TestSimulateWithdrawal_StartAfterSnapshotAges(t *testing.T) {
	result := SimulateWithdrawal(d("100000"), d("4"), 96, d("0.05"))

	assert.True(t, result.PortfolioAt.At85.IsZero())
	assert.True(t, result.PortfolioAt.At95.IsZero())
}

package calculation

import (
	"testing"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIREMultiplier(t *testing.T) {
	assert.True(t, FIREMultiplier(domain.FourPercentRule).Equal(d("25")))
	assert.True(t, FIREMultiplier(domain.ThreePercentRule).Equal(d("33.33")))
	assert.True(t, FIREMultiplier("").Equal(d("25")), "Unknown rules fall back to 4%")
}

func TestFutureValue(t *testing.T) {
	assert.InDelta(t, 1000000.0, FutureValue(0, 50000, 0, 20), 1e-6)
	assert.InDelta(t, 110000.0, FutureValue(100000, 0, 0.10, 1), 1e-6)
	// 100000 * 1.05 + 10000
	assert.InDelta(t, 115000.0, FutureValue(100000, 10000, 0.05, 1), 1e-6)
}

func TestCalculateYearsToFIRE(t *testing.T) {
	t.Run("already funded", func(t *testing.T) {
		years := CalculateYearsToFIRE(d("1000000"), d("10000"), d("1000000"), d("0.05"))
		require.True(t, years.IsFinite())
		assert.True(t, years.Value.IsZero())
	})

	t.Run("no contributions", func(t *testing.T) {
		years := CalculateYearsToFIRE(d("100000"), decimal.Zero, d("1000000"), d("0.05"))
		assert.False(t, years.IsFinite())
	})

	t.Run("negative contributions", func(t *testing.T) {
		years := CalculateYearsToFIRE(d("100000"), d("-5000"), d("1000000"), d("0.05"))
		assert.False(t, years.IsFinite())
	})

	t.Run("linear savings", func(t *testing.T) {
		years := CalculateYearsToFIRE(decimal.Zero, d("50000"), d("1000000"), decimal.Zero)
		require.True(t, years.IsFinite())
		assert.InDelta(t, 20.0, years.Value.InexactFloat64(), 0.1)
	})

	t.Run("out of reach", func(t *testing.T) {
		years := CalculateYearsToFIRE(decimal.Zero, d("1"), d("100000000"), decimal.Zero)
		assert.False(t, years.IsFinite())
	})

	t.Run("more savings is never slower", func(t *testing.T) {
		prev := 101.0
		for _, contrib := range []string{"10000", "20000", "40000", "80000"} {
			years := CalculateYearsToFIRE(d("50000"), d(contrib), d("1000000"), d("0.05"))
			require.True(t, years.IsFinite())
			v := years.Value.InexactFloat64()
			assert.LessOrEqual(t, v, prev)
			prev = v
		}
	})
}

func TestCalculateFIRE_Traditional(t *testing.T) {
	result := CalculateFIRE(domain.FIREInput{
		CurrentAge:     30,
		AnnualExpenses: d("40000"),
		AnnualIncome:   d("100000"),
		AnnualSavings:  d("25000"),
		CurrentSavings: d("50000"),
		RealReturn:     d("0.05"),
	})

	assert.Equal(t, domain.FIRETraditional, result.Variant)
	assert.Equal(t, domain.FourPercentRule, result.Rule)
	assert.True(t, result.FIRENumber.Equal(d("1000000")))
	assert.True(t, result.TargetFIRENumber.Equal(result.FIRENumber))
	assert.True(t, result.SavingsRate.Equal(d("25")))
	require.True(t, result.YearsToFIRE.IsFinite())
	require.True(t, result.FIREAge.IsFinite())
	assert.True(t, result.FIREAge.Value.Equal(result.YearsToFIRE.Value.Add(d("30"))))

	require.NotEmpty(t, result.Projection)
	assert.Equal(t, 30, result.Projection[0].Age)
	last := result.Projection[len(result.Projection)-1]
	assert.True(t, last.Balance.GreaterThanOrEqual(d("999999")), "Projection ends at the FIRE number")
}

func TestCalculateFIRE_ThreePercentRule(t *testing.T) {
	result := CalculateFIRE(domain.FIREInput{
		Rule:           domain.ThreePercentRule,
		AnnualExpenses: d("40000"),
		AnnualSavings:  d("30000"),
		RealReturn:     d("0.05"),
	})

	assert.True(t, result.FIRENumber.Equal(d("1333200")))
}

func TestCalculateFIRE_Barista(t *testing.T) {
	result := CalculateFIRE(domain.FIREInput{
		Variant:        domain.FIREBarista,
		AnnualExpenses: d("40000"),
		PartTimeIncome: d("20000"),
		AnnualSavings:  d("20000"),
		RealReturn:     d("0.05"),
	})

	assert.True(t, result.AdjustedExpenses.Equal(d("20000")))
	assert.True(t, result.FIRENumber.Equal(d("500000")))
}

func TestCalculateFIRE_BaristaIncomeCoversExpenses(t *testing.T) {
	result := CalculateFIRE(domain.FIREInput{
		Variant:        domain.FIREBarista,
		AnnualExpenses: d("30000"),
		PartTimeIncome: d("45000"),
	})

	assert.True(t, result.AdjustedExpenses.IsZero())
	require.True(t, result.YearsToFIRE.IsFinite())
	assert.True(t, result.YearsToFIRE.Value.IsZero())
}

func TestCalculateFIRE_Healthcare(t *testing.T) {
	in := domain.FIREInput{
		CurrentAge:        40,
		AnnualExpenses:    d("40000"),
		IncludeHealthcare: true,
		HealthcareCost:    d("10000"),
	}
	assert.True(t, AdjustedExpenses(in).Equal(d("50000")))

	in.CurrentAge = 66
	assert.True(t, AdjustedExpenses(in).Equal(d("40000")), "Medicare age drops the healthcare loading")
}

func TestCalculateFIRE_Coast(t *testing.T) {
	result := CalculateFIRE(domain.FIREInput{
		Variant:            domain.FIRECoast,
		CurrentAge:         35,
		CoastRetirementAge: 65,
		AnnualExpenses:     d("40000"),
		AnnualSavings:      d("10000"),
		RealReturn:         d("0.05"),
	})

	assert.True(t, result.TargetFIRENumber.Equal(d("1000000")))
	// 1000000 / 1.05^30
	assert.InDelta(t, 231377.45, result.FIRENumber.InexactFloat64(), 0.01)
}

func TestCalculateFIRE_NeverReached(t *testing.T) {
	result := CalculateFIRE(domain.FIREInput{
		CurrentAge:     30,
		AnnualExpenses: d("40000"),
		CurrentSavings: d("1000"),
		RealReturn:     d("0.05"),
	})

	assert.False(t, result.YearsToFIRE.IsFinite())
	assert.False(t, result.FIREAge.IsFinite())
	assert.Len(t, result.Projection, unboundedProjectionYears+1)
}

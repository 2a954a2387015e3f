package calculation

import (
	"context"
	"testing"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simulationConfig() domain.SimulationConfig {
	return domain.SimulationConfig{
		Paths:            300,
		Years:            30,
		InitialBalance:   d("1000000"),
		AnnualWithdrawal: d("45000"),
		Inflation:        d("0.025"),
		Seed:             42,
	}
}

func TestMonteCarlo_DeterministicForSeed(t *testing.T) {
	sim := NewMonteCarloSimulator(testRules(t).Markets)
	cfg := simulationConfig()

	cfg.Workers = 1
	first, err := sim.Run(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Workers = 8
	second, err := sim.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, first.SuccessRate.Equal(second.SuccessRate))
	assert.Equal(t, first.EndingBalance, second.EndingBalance)
	assert.Equal(t, first.MedianDepletionYear, second.MedianDepletionYear)
	assert.Equal(t, first.Bands, second.Bands)
	assert.Equal(t, first.MaxDrawdown, second.MaxDrawdown)
	assert.True(t, first.AverageWithdrawn.Equal(second.AverageWithdrawn))
}

func TestMonteCarlo_MoreWorkersThanPaths(t *testing.T) {
	sim := NewMonteCarloSimulator(testRules(t).Markets)
	cfg := simulationConfig()
	cfg.Paths = 3
	cfg.Workers = 64

	summary, err := sim.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Paths)
	assert.Len(t, summary.Bands, 30)
}

func TestMonteCarlo_DifferentSeedsDiffer(t *testing.T) {
	sim := NewMonteCarloSimulator(testRules(t).Markets)
	cfg := simulationConfig()

	first, err := sim.Run(context.Background(), cfg)
	require.NoError(t, err)
	cfg.Seed = 43
	second, err := sim.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotEqual(t, first.EndingBalance.P50.String(), second.EndingBalance.P50.String())
}

func TestMonteCarlo_RatesSumToOne(t *testing.T) {
	sim := NewMonteCarloSimulator(testRules(t).Markets)

	for _, model := range []domain.ReturnModel{domain.ReturnsStatistical, domain.ReturnsHistorical} {
		for _, spending := range []domain.SpendingStrategy{domain.SpendingFixedReal, domain.SpendingGuardrails} {
			cfg := simulationConfig()
			cfg.ReturnModel = model
			cfg.Spending = spending
			cfg.AnnualWithdrawal = d("60000")

			summary, err := sim.Run(context.Background(), cfg)
			require.NoError(t, err)

			assert.True(t, summary.SuccessRate.Add(summary.RuinRate).Equal(decimal.NewFromInt(1)), "%s/%s", model, spending)
			assert.Equal(t, model, summary.ReturnModel)
			assert.Equal(t, spending, summary.Spending)
		}
	}
}

func TestMonteCarlo_SummaryShape(t *testing.T) {
	sim := NewMonteCarloSimulator(testRules(t).Markets)

	summary, err := sim.Run(context.Background(), simulationConfig())
	require.NoError(t, err)

	assert.Equal(t, 300, summary.Paths)
	assert.Equal(t, 30, summary.Years)
	assert.Equal(t, int64(42), summary.Seed)
	require.Len(t, summary.Bands, 30)
	assert.Equal(t, 1, summary.Bands[0].Year)
	assert.Equal(t, 30, summary.Bands[29].Year)

	p := summary.EndingBalance
	assert.True(t, p.P10.LessThanOrEqual(p.P25))
	assert.True(t, p.P25.LessThanOrEqual(p.P50))
	assert.True(t, p.P50.LessThanOrEqual(p.P75))
	assert.True(t, p.P75.LessThanOrEqual(p.P90))

	for _, band := range summary.Bands {
		assert.False(t, band.P10.IsNegative())
		assert.True(t, band.P10.LessThanOrEqual(band.P90))
	}
	assert.Equal(t, p, summary.Bands[29].Percentiles, "The last band is the ending balance distribution")

	dd := summary.MaxDrawdown
	assert.True(t, dd.Median.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, dd.Median.LessThanOrEqual(dd.Worst))
	assert.True(t, dd.Worst.LessThanOrEqual(decimal.NewFromInt(1)))
	assert.True(t, summary.AverageWithdrawn.IsPositive())
	assert.Nil(t, summary.Guardrails, "Fixed spending reports no guardrail activity")
}

func TestMonteCarlo_GuardrailActivity(t *testing.T) {
	sim := NewMonteCarloSimulator(testRules(t).Markets)
	cfg := simulationConfig()
	cfg.Spending = domain.SpendingGuardrails
	cfg.ReturnModel = domain.ReturnsStatistical
	cfg.StdDev = d("0.25")

	summary, err := sim.Run(context.Background(), cfg)
	require.NoError(t, err)

	require.NotNil(t, summary.Guardrails)
	g := summary.Guardrails
	assert.Positive(t, g.PathsCut, "Volatile returns trigger cuts")
	assert.Positive(t, g.PathsRaised, "Volatile returns trigger raises")
	assert.LessOrEqual(t, g.PathsCut, summary.Paths)
	assert.True(t, g.AverageCuts.IsPositive())
	assert.True(t, g.AverageRaises.IsPositive())
}

func TestMonteCarlo_NoWithdrawalAlwaysSucceeds(t *testing.T) {
	sim := NewMonteCarloSimulator(testRules(t).Markets)
	cfg := simulationConfig()
	cfg.AnnualWithdrawal = decimal.Zero
	cfg.ReturnModel = domain.ReturnsHistorical

	summary, err := sim.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, summary.SuccessRate.Equal(decimal.NewFromInt(1)))
	assert.True(t, summary.RuinRate.IsZero())
	assert.Nil(t, summary.MedianDepletionYear)
}

func TestMonteCarlo_WithdrawalAboveBalanceFailsFirstYear(t *testing.T) {
	sim := NewMonteCarloSimulator(testRules(t).Markets)
	cfg := simulationConfig()
	cfg.InitialBalance = d("100000")
	cfg.AnnualWithdrawal = d("200000")
	cfg.ReturnModel = domain.ReturnsHistorical

	summary, err := sim.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, summary.SuccessRate.IsZero())
	require.NotNil(t, summary.MedianDepletionYear)
	assert.Equal(t, 1, *summary.MedianDepletionYear)
	assert.True(t, summary.AverageWithdrawn.LessThan(d("200000")), "Only the grown balance can be withdrawn")
	assert.True(t, summary.MaxDrawdown.Median.Equal(decimal.NewFromInt(1)))
	assert.True(t, summary.MaxDrawdown.Worst.Equal(decimal.NewFromInt(1)))
	for _, band := range summary.Bands {
		assert.True(t, band.P90.IsZero())
	}
}

func TestMonteCarlo_Defaults(t *testing.T) {
	sim := NewMonteCarloSimulator(testRules(t).Markets)

	summary, err := sim.Run(context.Background(), domain.SimulationConfig{
		InitialBalance:   d("500000"),
		AnnualWithdrawal: d("20000"),
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultSimulationPaths, summary.Paths)
	assert.Equal(t, DefaultSimulationYears, summary.Years)
	assert.NotZero(t, summary.Seed, "A zero seed is replaced and reported")
	assert.Equal(t, domain.DefaultReturnModel, summary.ReturnModel)
	assert.Equal(t, domain.SpendingFixedReal, summary.Spending)
}

func TestMonteCarlo_InvalidConfig(t *testing.T) {
	sim := NewMonteCarloSimulator(testRules(t).Markets)

	_, err := sim.Run(context.Background(), domain.SimulationConfig{InitialBalance: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = sim.Run(context.Background(), domain.SimulationConfig{
		InitialBalance:   d("1000"),
		AnnualWithdrawal: d("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	empty := NewMonteCarloSimulator(domain.MarketRules{})
	_, err = empty.Run(context.Background(), domain.SimulationConfig{
		InitialBalance: d("1000"),
		ReturnModel:    domain.ReturnsHistorical,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMonteCarlo_Cancelled(t *testing.T) {
	sim := NewMonteCarloSimulator(testRules(t).Markets)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := sim.Run(ctx, simulationConfig())

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	assert.InDelta(t, 3.0, percentile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 1.4, percentile(sorted, 0.1), 1e-9)
	assert.InDelta(t, 4.6, percentile(sorted, 0.9), 1e-9)
	assert.Zero(t, percentile(nil, 0.5))
	assert.Equal(t, 7.0, percentile([]float64{7}, 0.9))
}

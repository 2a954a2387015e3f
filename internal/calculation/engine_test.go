package calculation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/rpkit/internal/config"
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRules loads the embedded default tax year.
func testRules(t *testing.T) *domain.Rules {
	t.Helper()
	rules, err := config.LoadRules(config.DefaultTaxYear)
	require.NoError(t, err)
	return rules
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine(testRules(t))

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.Tax, "Should initialize tax calculator")
	assert.NotNil(t, engine.Annuity, "Should initialize annuity calculator")
	assert.NotNil(t, engine.RMD, "Should initialize RMD calculator")
	assert.NotNil(t, engine.SocialSecurity, "Should initialize Social Security calculator")
	assert.NotNil(t, engine.MonteCarlo, "Should initialize Monte Carlo simulator")
	assert.NotNil(t, engine.Comparer, "Should initialize comparer")
	assert.Equal(t, DefaultWithdrawalRates, engine.Comparer.Rates, "Comparer shares the withdrawal defaults")
	assert.True(t, engine.Comparer.AnnualReturn.Equal(DefaultWithdrawalReturn))
	assert.NotNil(t, engine.Logger, "Should initialize logger")
}

func TestEngine_SetLogger(t *testing.T) {
	engine := NewEngine(testRules(t))

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)

	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")
	assert.Equal(t, customLogger, engine.Tax.Logger, "Should propagate to tax calculator")
	assert.Equal(t, customLogger, engine.MonteCarlo.Logger, "Should propagate to simulator")

	engine.SetLogger(nil)

	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
	assert.IsType(t, NopLogger{}, engine.Tax.Logger, "Should reset tax calculator logger")
}

func TestEngine_Calculate_EmptyRequest(t *testing.T) {
	engine := NewEngine(testRules(t))

	report, err := engine.Calculate(context.Background(), &domain.Request{})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	report, err = engine.Calculate(context.Background(), nil)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEngine_Calculate_AllSections(t *testing.T) {
	engine := NewEngine(testRules(t))
	magi := d("250000")

	req := &domain.Request{
		TaxYear: 2026,
		SPIA: &domain.SPIARequest{
			LumpSum: d("200000"), Age: 65, Gender: domain.GenderMale,
		},
		Withdrawal: &domain.WithdrawalRequest{Principal: d("500000"), StartAge: 65},
		RedFlags:   &domain.AnnuityContract{CommissionPercent: d("7"), SurrenderYears: 10},
		FIRE: &domain.FIREInput{
			CurrentAge: 35, AnnualExpenses: d("40000"), AnnualSavings: d("30000"),
			CurrentSavings: d("100000"), RealReturn: d("0.05"),
		},
		Refinance: &domain.RefinanceInput{
			CurrentBalance: d("300000"), CurrentRate: d("0.07"), RemainingMonths: 360,
			NewRate: d("0.055"), NewTermYears: 30, ClosingCosts: d("6000"),
		},
		Tax: &domain.TaxRequest{
			FilingStatus: domain.FilingSingle, GrossIncome: d("100000"),
			NetInvestmentIncome: d("10000"), MAGI: &magi,
		},
		RMD:    &domain.RMDRequest{Balance: d("1000000"), Age: 75},
		PIA:    &domain.PIARequest{AIME: d("6000"), ClaimAgeMonths: 70 * 12},
		Estate: &domain.EstateRequest{Estate: d("20000000")},
		Roth: &domain.RothRequest{
			FilingStatus: domain.FilingSingle, OtherIncome: d("50000"), Amount: d("20000"),
		},
		Simulation: &domain.SimulationConfig{
			Paths: 50, Years: 10, InitialBalance: d("1000000"), AnnualWithdrawal: d("40000"), Seed: 7,
		},
		Guardrails: &domain.GuardrailsRequest{GuardrailsConfig: guardrailsConfig(), Returns: returns("-0.30", "0")},
		Comparison: &domain.ComparisonRequest{LumpSum: d("200000"), Age: 65, Gender: domain.GenderMale},
	}

	report, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2026, report.TaxYear)
	require.NotNil(t, report.SPIA)
	assert.True(t, report.SPIA.AnnualIncome.Equal(d("13400")))
	assert.Len(t, report.Withdrawals, 3, "Should default to 3, 4 and 5 percent")
	require.NotNil(t, report.RedFlags)
	assert.Len(t, report.RedFlags.Flags, 2)
	assert.NotNil(t, report.FIRE)
	require.NotNil(t, report.Refinance)
	assert.True(t, report.Refinance.Recommendation.ShouldRefi)
	require.NotNil(t, report.Tax)
	assert.True(t, report.Tax.NIIT.Tax.Equal(d("380")), "NIIT on 10000 of investment income over the threshold")
	require.NotNil(t, report.RMD)
	assert.True(t, report.RMD.Required)
	require.NotNil(t, report.PIA)
	require.NotNil(t, report.Claiming, "Claim age should produce a claiming adjustment")
	assert.Equal(t, 36, report.Claiming.MonthsDelayed)
	require.NotNil(t, report.Estate)
	assert.True(t, report.Estate.Tax.Equal(d("2000000")))
	assert.NotNil(t, report.Roth)
	require.NotNil(t, report.Simulation)
	assert.Equal(t, 50, report.Simulation.Paths)
	require.NotNil(t, report.Guardrails)
	assert.Equal(t, 1, report.Guardrails.Cuts)
	assert.True(t, report.Guardrails.FinalWithdrawal.Equal(d("45000")))
	require.NotNil(t, report.Comparison)
	assert.Len(t, report.Comparison.Alternatives, 3)
}

func TestEngine_Calculate_TaxYearMismatchWarns(t *testing.T) {
	engine := NewEngine(testRules(t))
	logger := &TestLogger{}
	engine.SetLogger(logger)

	_, err := engine.Calculate(context.Background(), &domain.Request{
		TaxYear: 2019,
		Estate:  &domain.EstateRequest{Estate: d("1000000")},
	})
	require.NoError(t, err)

	assert.True(t, logger.has("WARN: request tax year"), "Should warn about the tax year mismatch")
}

func TestEngine_Calculate_SimulationError(t *testing.T) {
	engine := NewEngine(testRules(t))

	_, err := engine.Calculate(context.Background(), &domain.Request{
		Simulation: &domain.SimulationConfig{InitialBalance: decimal.Zero},
	})
	require.Error(t, err)

	var calcErr *CalculationError
	require.True(t, errors.As(err, &calcErr), "Should be a CalculationError")
	assert.Equal(t, "simulate", calcErr.Operation)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEngine_PIAFor_NoClaimAge(t *testing.T) {
	engine := NewEngine(testRules(t))

	pia, claiming := engine.PIAFor(domain.PIARequest{AIME: d("6000")})

	assert.True(t, pia.PIA.Equal(d("2665.8")))
	assert.Nil(t, claiming)
}

func TestEngine_PIAFor_BirthYear(t *testing.T) {
	engine := NewEngine(testRules(t))

	tests := []struct {
		name        string
		req         domain.PIARequest
		wantFRA     int
		wantDelayed int
		wantEarly   int
	}{
		{"born 1958 claims at 67", domain.PIARequest{AIME: d("6000"), ClaimAgeMonths: 804, BirthYear: 1958}, 800, 4, 0},
		{"born 1950 claims at 66", domain.PIARequest{AIME: d("6000"), ClaimAgeMonths: 792, BirthYear: 1950}, 792, 0, 0},
		{"born 1965 claims at 66", domain.PIARequest{AIME: d("6000"), ClaimAgeMonths: 792, BirthYear: 1965}, 804, 0, 12},
		{"explicit FRA wins", domain.PIARequest{AIME: d("6000"), ClaimAgeMonths: 804, FRAMonths: 804, BirthYear: 1958}, 804, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, claiming := engine.PIAFor(tt.req)

			require.NotNil(t, claiming)
			assert.Equal(t, tt.wantFRA, claiming.FRAMonths)
			assert.Equal(t, tt.wantDelayed, claiming.MonthsDelayed)
			assert.Equal(t, tt.wantEarly, claiming.MonthsEarly)
		})
	}
}

func TestEngine_RMDFor_BirthYear(t *testing.T) {
	engine := NewEngine(testRules(t))

	// Born 1950: distributions start at 72, before the table's default of 73
	result := engine.RMDFor(domain.RMDRequest{Balance: d("1000000"), Age: 72, BirthYear: 1950})

	assert.True(t, result.Required)
	assert.Equal(t, 72, result.StartAge)
	assert.True(t, result.Divisor.Equal(d("27.4")))
}

func TestCalculationError(t *testing.T) {
	cause := errors.New("boom")
	err := &CalculationError{Operation: "simulate", Message: "failed", Cause: cause}

	assert.Equal(t, "simulate: failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "tax: bad", (&CalculationError{Operation: "tax", Message: "bad"}).Error())
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}

func (tl *TestLogger) has(prefix string) bool {
	for _, m := range tl.messages {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

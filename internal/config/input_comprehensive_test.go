package config

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRequestParser_WithMaxPaths(t *testing.T) {
	parser := NewRequestParser().WithMaxPaths(500)
	req := func(paths int) *domain.Request {
		return &domain.Request{Simulation: &domain.SimulationConfig{Paths: paths, InitialBalance: d("1000")}}
	}

	require.NoError(t, parser.Validate(req(500)))
	err := parser.Validate(req(501))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paths must be between 0 and 500")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, MaxSimulationPaths, NewRequestParser().WithMaxPaths(0).MaxPaths)
	assert.Equal(t, MaxSimulationPaths, NewRequestParser().WithMaxPaths(MaxSimulationPaths+1).MaxPaths)
	assert.NoError(t, (&RequestParser{}).Validate(req(MaxSimulationPaths)), "A zero cap means the hard ceiling")
}

func TestRequestParser_Validate(t *testing.T) {
	parser := NewRequestParser()

	tests := []struct {
		name    string
		req     domain.Request
		wantErr string
	}{
		{
			name: "valid spia",
			req:  domain.Request{SPIA: &domain.SPIARequest{LumpSum: d("100000"), Age: 70, Gender: domain.GenderFemale}},
		},
		{
			name:    "zero lump sum",
			req:     domain.Request{SPIA: &domain.SPIARequest{LumpSum: decimal.Zero, Age: 70}},
			wantErr: "spia: lump_sum must be positive",
		},
		{
			name:    "age out of range",
			req:     domain.Request{SPIA: &domain.SPIARequest{LumpSum: d("1"), Age: 150}},
			wantErr: "age must be between 0 and 120",
		},
		{
			name:    "withdrawal rate above 100",
			req:     domain.Request{Withdrawal: &domain.WithdrawalRequest{Principal: d("1000"), StartAge: 60, RatesPercent: []decimal.Decimal{d("101")}}},
			wantErr: "rates_percent must be between 0 and 100",
		},
		{
			name:    "negative commission",
			req:     domain.Request{RedFlags: &domain.AnnuityContract{CommissionPercent: d("-1")}},
			wantErr: "commission_percent",
		},
		{
			name:    "coast without retirement age",
			req:     domain.Request{FIRE: &domain.FIREInput{Variant: domain.FIRECoast, CurrentAge: 30, AnnualExpenses: d("40000")}},
			wantErr: "coast_retirement_age is required",
		},
		{
			name: "refinance rate given as percent",
			req: domain.Request{Refinance: &domain.RefinanceInput{
				CurrentBalance: d("300000"), CurrentRate: d("7"), RemainingMonths: 300, NewRate: d("0.06"), NewTermYears: 30,
			}},
			wantErr: "rates are fractions (0.065 for 6.5%)",
		},
		{
			name:    "negative gross income",
			req:     domain.Request{Tax: &domain.TaxRequest{GrossIncome: d("-5")}},
			wantErr: "tax: gross_income must not be negative",
		},
		{
			name:    "too many ages",
			req:     domain.Request{Tax: &domain.TaxRequest{Ages: []int{66, 67, 68}}},
			wantErr: "at most the taxpayer and a spouse",
		},
		{
			name:    "rmd birth year",
			req:     domain.Request{RMD: &domain.RMDRequest{Balance: d("1"), Age: 75, BirthYear: 1800}},
			wantErr: "birth_year 1800 is out of range",
		},
		{
			name:    "claim age too early",
			req:     domain.Request{PIA: &domain.PIARequest{AIME: d("5000"), ClaimAgeMonths: 60 * 12}},
			wantErr: "claim_age_months",
		},
		{
			name:    "negative estate",
			req:     domain.Request{Estate: &domain.EstateRequest{Estate: d("-1")}},
			wantErr: "estate: estate must not be negative",
		},
		{
			name:    "roth amount",
			req:     domain.Request{Roth: &domain.RothRequest{Amount: d("-10")}},
			wantErr: "roth: amount must not be negative",
		},
		{
			name:    "too many paths",
			req:     domain.Request{Simulation: &domain.SimulationConfig{Paths: MaxSimulationPaths + 1, InitialBalance: d("1")}},
			wantErr: "paths must be between",
		},
		{
			name: "inverted guardrails",
			req: domain.Request{Simulation: &domain.SimulationConfig{
				InitialBalance: d("1000000"),
				Guardrails:     domain.GuardrailBands{Upper: d("0.8"), Lower: d("1.2")},
			}},
			wantErr: "guardrails.upper must exceed guardrails.lower",
		},
		{
			name:    "guardrails without returns",
			req:     domain.Request{Guardrails: &domain.GuardrailsRequest{GuardrailsConfig: domain.GuardrailsConfig{InitialBalance: d("1000")}}},
			wantErr: "guardrails: returns must list between 1 and 100",
		},
		{
			name: "guardrails return below total loss",
			req: domain.Request{Guardrails: &domain.GuardrailsRequest{
				GuardrailsConfig: domain.GuardrailsConfig{InitialBalance: d("1000")},
				Returns:          []decimal.Decimal{d("0.05"), d("-1.5")},
			}},
			wantErr: "returns[1] must not be below -1",
		},
		{
			name: "guardrails adjustment of 100%",
			req: domain.Request{Guardrails: &domain.GuardrailsRequest{
				GuardrailsConfig: domain.GuardrailsConfig{InitialBalance: d("1000"), Bands: domain.GuardrailBands{Adjustment: d("1")}},
				Returns:          []decimal.Decimal{d("0.05")},
			}},
			wantErr: "bands.adjustment must be between 0 and 1",
		},
		{
			name:    "comparison lump sum",
			req:     domain.Request{Comparison: &domain.ComparisonRequest{Age: 65}},
			wantErr: "comparison: lump_sum must be positive",
		},
		{
			name: "valid everything",
			req: domain.Request{
				TaxYear:    2025,
				Estate:     &domain.EstateRequest{Estate: d("1")},
				Roth:       &domain.RothRequest{OtherIncome: d("50000"), Amount: d("20000")},
				RMD:        &domain.RMDRequest{Balance: d("500000"), Age: 80},
				PIA:        &domain.PIARequest{AIME: d("6000"), ClaimAgeMonths: 67 * 12, FRAMonths: 67 * 12},
				Simulation: &domain.SimulationConfig{Paths: 10, Years: 30, InitialBalance: d("1000000"), AnnualWithdrawal: d("40000")},
				Guardrails: &domain.GuardrailsRequest{
					GuardrailsConfig: domain.GuardrailsConfig{InitialBalance: d("1000000"), InitialWithdrawal: d("50000"), Inflation: d("0.03")},
					Returns:          []decimal.Decimal{d("0.07"), d("-0.2"), d("0.1")},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.Validate(&tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

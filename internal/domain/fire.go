package domain

import "github.com/shopspring/decimal"

// FIREInput carries everything the FIRE solver reads. Rates are fractions.
type FIREInput struct {
	Variant            FIREVariant     `yaml:"variant" json:"variant"`
	Rule               WithdrawalRule  `yaml:"rule" json:"rule"`
	CurrentAge         int             `yaml:"current_age" json:"currentAge"`
	AnnualExpenses     decimal.Decimal `yaml:"annual_expenses" json:"annualExpenses"`
	AnnualIncome       decimal.Decimal `yaml:"annual_income" json:"annualIncome"`
	AnnualSavings      decimal.Decimal `yaml:"annual_savings" json:"annualSavings"`
	CurrentSavings     decimal.Decimal `yaml:"current_savings" json:"currentSavings"`
	RealReturn         decimal.Decimal `yaml:"real_return" json:"realReturn"`
	PartTimeIncome     decimal.Decimal `yaml:"part_time_income" json:"partTimeIncome"`         // barista only
	CoastRetirementAge int             `yaml:"coast_retirement_age" json:"coastRetirementAge"` // coast only
	IncludeHealthcare  bool            `yaml:"include_healthcare" json:"includeHealthcare"`
	HealthcareCost     decimal.Decimal `yaml:"healthcare_cost" json:"healthcareCost"`
}

// FIREResult is the solver output.
type FIREResult struct {
	Variant          FIREVariant       `json:"variant"`
	Rule             WithdrawalRule    `json:"rule"`
	AdjustedExpenses decimal.Decimal   `json:"adjustedExpenses"`
	Multiplier       decimal.Decimal   `json:"multiplier"`
	TargetFIRENumber decimal.Decimal   `json:"targetFireNumber"` // undiscounted
	FIRENumber       decimal.Decimal   `json:"fireNumber"`
	YearsToFIRE      Horizon           `json:"yearsToFire"`
	FIREAge          Horizon           `json:"fireAge"`
	SavingsRate      decimal.Decimal   `json:"savingsRate"` // percent
	Projection       []ProjectionPoint `json:"projection"`
}

// ProjectionPoint is a year-end balance on the way to the FIRE number.
type ProjectionPoint struct {
	Year    int             `json:"year"`
	Age     int             `json:"age"`
	Balance decimal.Decimal `json:"balance"`
}

package calculation

import (
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// RMDStartAge returns the first distribution year's age under SECURE 2.0.
func RMDStartAge(birthYear int) int {
	switch {
	case birthYear <= 1950:
		return 72
	case birthYear <= 1959:
		return 73
	default:
		return 75
	}
}

// RMDCalculator looks up required minimum distributions in the Uniform Lifetime Table.
type RMDCalculator struct {
	Rules domain.RMDRules
	ages  []int
}

// NewRMDCalculator creates a new RMD calculator
func NewRMDCalculator(rules domain.RMDRules) *RMDCalculator {
	return &RMDCalculator{Rules: rules, ages: rules.Ages()}
}

// Divisor returns the distribution period for age, clamped to the ends of the table.
func (rc *RMDCalculator) Divisor(age int) decimal.Decimal {
	if len(rc.ages) == 0 {
		return decimal.Zero
	}
	if first := rc.ages[0]; age < first {
		age = first
	}
	if last := rc.ages[len(rc.ages)-1]; age > last {
		age = last
	}
	return rc.Rules.UniformLifetime[age]
}

// Calculate uses the table's configured start age.
func (rc *RMDCalculator) Calculate(balance decimal.Decimal, age int) domain.RMDResult {
	return rc.calculate(balance, age, rc.Rules.StartAge)
}

// CalculateForBirthYear derives the start age from the owner's birth year.
func (rc *RMDCalculator) CalculateForBirthYear(balance decimal.Decimal, age, birthYear int) domain.RMDResult {
	return rc.calculate(balance, age, RMDStartAge(birthYear))
}

func (rc *RMDCalculator) calculate(balance decimal.Decimal, age, startAge int) domain.RMDResult {
	result := domain.RMDResult{
		Age:      age,
		StartAge: startAge,
		Balance:  balance,
		Divisor:  decimal.Zero,
		Amount:   decimal.Zero,
	}
	if age < startAge {
		return result
	}
	divisor := rc.Divisor(age)
	if !divisor.IsPositive() {
		return result
	}
	result.Required = true
	result.Divisor = divisor
	result.Amount = balance.Div(divisor)
	return result
}

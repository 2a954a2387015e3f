package calculation

import (
	"math"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// fireSearchYears is the upper end of the years-to-FIRE search domain.
	fireSearchYears = 100.0
	// fireSearchTolerance is the bisection stopping width, in years.
	fireSearchTolerance = 0.1
	// unboundedProjectionYears is how far the balance series runs when FIRE is never reached.
	unboundedProjectionYears = 40
	medicareAge              = 65
)

// FIREMultiplier returns the expenses multiple implied by a safe-withdrawal rule.
func FIREMultiplier(rule domain.WithdrawalRule) decimal.Decimal {
	switch rule {
	case domain.ThreePercentRule:
		return decimal.RequireFromString("33.33")
	case domain.FourPercentRule:
		return decimal.NewFromInt(25)
	default:
		return decimal.NewFromInt(25)
	}
}

// FutureValue is current compounded for years plus annual end-of-year contributions.
func FutureValue(current, contrib, rate, years float64) float64 {
	if rate == 0 {
		return current + contrib*years
	}
	growth := math.Pow(1+rate, years)
	return current*growth + contrib*(growth-1)/rate
}

// CalculateYearsToFIRE solves FutureValue(t) >= target for t by bisection on
// [0, 100] years, to within 0.1 year. It is zero when already funded and
// unbounded when nothing is being contributed or the target is out of reach.
func CalculateYearsToFIRE(current, contrib, target, rate decimal.Decimal) domain.Horizon {
	if current.GreaterThanOrEqual(target) {
		return domain.Finite(decimal.Zero)
	}
	if !contrib.IsPositive() {
		return domain.Never()
	}

	c, p, t, r := current.InexactFloat64(), contrib.InexactFloat64(), target.InexactFloat64(), rate.InexactFloat64()
	if FutureValue(c, p, r, fireSearchYears) < t {
		return domain.Never()
	}

	lo, hi := 0.0, fireSearchYears
	for hi-lo > fireSearchTolerance {
		mid := (lo + hi) / 2
		if FutureValue(c, p, r, mid) >= t {
			hi = mid
		} else {
			lo = mid
		}
	}
	return domain.Finite(decimal.NewFromFloat(hi).Round(1))
}

// AdjustedExpenses applies the healthcare loading and the Barista part-time offset.
func AdjustedExpenses(in domain.FIREInput) decimal.Decimal {
	expenses := in.AnnualExpenses
	if in.IncludeHealthcare && in.CurrentAge < medicareAge {
		expenses = expenses.Add(in.HealthcareCost)
	}
	if in.Variant == domain.FIREBarista {
		expenses = expenses.Sub(in.PartTimeIncome)
		if expenses.IsNegative() {
			expenses = decimal.Zero
		}
	}
	return expenses
}

// CalculateFIRE derives the FIRE number for the variant and how long it takes to reach.
func CalculateFIRE(in domain.FIREInput) domain.FIREResult {
	variant := in.Variant
	if variant == "" {
		variant = domain.FIRETraditional
	}
	rule := in.Rule
	if rule == "" {
		rule = domain.FourPercentRule
	}

	adjusted := AdjustedExpenses(in)
	multiplier := FIREMultiplier(rule)
	target := adjusted.Mul(multiplier)
	fireNumber := target

	switch variant {
	case domain.FIRECoast:
		yearsToCoast := in.CoastRetirementAge - in.CurrentAge
		if yearsToCoast < 0 {
			yearsToCoast = 0
		}
		fireNumber = target.Div(compound(in.RealReturn, yearsToCoast))
	case domain.FIRETraditional, domain.FIREBarista:
	}

	years := CalculateYearsToFIRE(in.CurrentSavings, in.AnnualSavings, fireNumber, in.RealReturn)

	result := domain.FIREResult{
		Variant:          variant,
		Rule:             rule,
		AdjustedExpenses: adjusted,
		Multiplier:       multiplier,
		TargetFIRENumber: target,
		FIRENumber:       fireNumber,
		YearsToFIRE:      years,
		FIREAge:          domain.Never(),
		SavingsRate:      decimal.Zero,
	}
	if years.IsFinite() {
		result.FIREAge = domain.Finite(years.Value.Add(decimal.NewFromInt(int64(in.CurrentAge))))
	}
	if in.AnnualIncome.IsPositive() {
		result.SavingsRate = in.AnnualSavings.Div(in.AnnualIncome).Mul(hundred)
	}
	result.Projection = projectBalance(in, fireNumber, years)
	return result
}

// projectBalance lists year-end balances from today until the FIRE number is reached.
func projectBalance(in domain.FIREInput, fireNumber decimal.Decimal, years domain.Horizon) []domain.ProjectionPoint {
	horizon := unboundedProjectionYears
	if years.IsFinite() {
		// the solved years are rounded to one place, so allow one more whole year
		horizon = int(math.Ceil(years.Value.InexactFloat64())) + 1
	}

	growth := one.Add(in.RealReturn)
	balance := in.CurrentSavings
	points := make([]domain.ProjectionPoint, 0, horizon+1)
	points = append(points, domain.ProjectionPoint{Year: 0, Age: in.CurrentAge, Balance: balance})
	for y := 1; y <= horizon; y++ {
		balance = balance.Mul(growth).Add(in.AnnualSavings)
		points = append(points, domain.ProjectionPoint{Year: y, Age: in.CurrentAge + y, Balance: balance.Round(2)})
		if balance.GreaterThanOrEqual(fireNumber) {
			break
		}
	}
	return points
}

// compound returns (1+rate)^years for whole years.
func compound(rate decimal.Decimal, years int) decimal.Decimal {
	factor := one
	growth := one.Add(rate)
	for i := 0; i < years; i++ {
		factor = factor.Mul(growth)
	}
	return factor
}

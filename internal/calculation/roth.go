package calculation

import (
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// AnalyzeRothConversion prices converting amount to Roth in a year with otherIncome
// of other ordinary income, by running the bracket evaluator with and without it.
func (ftc *FederalTaxCalculator) AnalyzeRothConversion(otherIncome, amount decimal.Decimal, status domain.FilingStatus) domain.RothConversionResult {
	before := ftc.Calculate(otherIncome, status)
	after := ftc.Calculate(otherIncome.Add(amount), status)

	result := domain.RothConversionResult{
		FilingStatus:   before.FilingStatus,
		OtherIncome:    otherIncome,
		Amount:         amount,
		TaxBefore:      before.TotalTax,
		TaxAfter:       after.TotalTax,
		IncrementalTax: after.TotalTax.Sub(before.TotalTax),
		EffectiveRate:  decimal.Zero,
		MarginalBefore: before.MarginalRate,
		MarginalAfter:  after.MarginalRate,
	}
	if amount.IsPositive() {
		result.EffectiveRate = result.IncrementalTax.Div(amount)
	}

	if headroom := bracketHeadroom(before, ftc.Ordinary.Schedule(before.FilingStatus).Brackets); headroom != nil {
		result.BracketHeadroom = headroom
		result.CrossesBracket = amount.GreaterThan(*headroom)
	}
	return result
}

// bracketHeadroom is how much more gross income fits before the next bracket starts:
// the room left in the current bracket plus any unused standard deduction. It is nil
// in the open top bracket.
func bracketHeadroom(calc domain.TaxBracketCalculation, brackets []domain.TaxBracket) *decimal.Decimal {
	unusedDeduction := calc.Deduction.Sub(calc.GrossIncome)
	if unusedDeduction.IsNegative() {
		unusedDeduction = decimal.Zero
	}
	for _, b := range brackets {
		if b.UpTo == nil {
			return nil
		}
		if calc.TaxableIncome.LessThan(*b.UpTo) {
			room := b.UpTo.Sub(calc.TaxableIncome).Add(unusedDeduction)
			return &room
		}
	}
	return nil
}

package calculation

import (
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// EstimateEstateTax applies the flat top rate above the exemption. A married couple
// gets two exemptions through portability.
func EstimateEstateTax(rules domain.EstateRules, estate decimal.Decimal, married bool) domain.EstateTaxResult {
	exemption := rules.Exemption
	if married {
		exemption = exemption.Mul(decimal.NewFromInt(2))
	}
	taxable := estate.Sub(exemption)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax := taxable.Mul(rules.Rate)

	result := domain.EstateTaxResult{
		Estate:        estate,
		Married:       married,
		Exemption:     exemption,
		TaxableEstate: taxable,
		Rate:          rules.Rate,
		Tax:           tax,
		EffectiveRate: decimal.Zero,
	}
	if estate.IsPositive() {
		result.EffectiveRate = tax.Div(estate)
	}
	return result
}

package calculation

import (
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// seniorAge is the age at which the additional standard deduction applies.
const seniorAge = 65

// FederalTaxCalculator handles federal income tax calculations for one tax year
type FederalTaxCalculator struct {
	Year         int
	Ordinary     domain.FederalTaxRules
	CapitalGains domain.CapitalGainsRules
	NIIT         domain.NIITRules
	Logger       Logger
}

// NewFederalTaxCalculator creates a federal tax calculator bound to one year's tables
func NewFederalTaxCalculator(rules *domain.Rules) *FederalTaxCalculator {
	return &FederalTaxCalculator{
		Year:         rules.Metadata.TaxYear,
		Ordinary:     rules.FederalTax,
		CapitalGains: rules.CapitalGains,
		NIIT:         rules.NIIT,
		Logger:       NopLogger{},
	}
}

// checkStatus logs and falls back to single for anything but the two supported statuses.
func (ftc *FederalTaxCalculator) checkStatus(status domain.FilingStatus) domain.FilingStatus {
	switch status {
	case domain.FilingSingle, domain.FilingMarriedFilingJointly:
		return status
	default:
		ftc.Logger.Warnf("unknown filing status %q, using single", status)
		return domain.FilingSingle
	}
}

// StandardDeduction returns the deduction for the status, plus the additional
// amount for each listed age of 65 or over.
func (ftc *FederalTaxCalculator) StandardDeduction(status domain.FilingStatus, ages ...int) decimal.Decimal {
	schedule := ftc.Ordinary.Schedule(status)
	deduction := schedule.StandardDeduction
	for _, age := range ages {
		if age >= seniorAge {
			deduction = deduction.Add(schedule.AdditionalDeduction65Plus)
		}
	}
	return deduction
}

// Calculate fills the ordinary brackets for gross income under the standard deduction.
func (ftc *FederalTaxCalculator) Calculate(gross decimal.Decimal, status domain.FilingStatus) domain.TaxBracketCalculation {
	return ftc.CalculateWithAges(gross, status, nil)
}

// CalculateWithAges is Calculate with the 65+ additional deduction for the given ages.
func (ftc *FederalTaxCalculator) CalculateWithAges(gross decimal.Decimal, status domain.FilingStatus, ages []int) domain.TaxBracketCalculation {
	status = ftc.checkStatus(status)
	deduction := ftc.StandardDeduction(status, ages...)
	taxable := gross.Sub(deduction)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	lines, total, marginal := FillBrackets(decimal.Zero, taxable, ftc.Ordinary.Schedule(status).Brackets)
	calc := domain.TaxBracketCalculation{
		TaxYear:       ftc.Year,
		FilingStatus:  status,
		GrossIncome:   gross,
		Deduction:     deduction,
		TaxableIncome: taxable,
		Brackets:      lines,
		TotalTax:      total,
		EffectiveRate: decimal.Zero,
		MarginalRate:  marginal,
	}
	if gross.IsPositive() {
		calc.EffectiveRate = total.Div(gross)
	}
	ftc.Logger.Debugf("federal tax %d %s: taxable=%s tax=%s marginal=%s", ftc.Year, status, taxable, total, marginal)
	return calc
}

// CapitalGainsTax fills the LTCG brackets with gains stacked on top of ordinary
// taxable income, so the 0% band is consumed by ordinary income first.
func (ftc *FederalTaxCalculator) CapitalGainsTax(ordinaryTaxable, gains decimal.Decimal, status domain.FilingStatus) domain.CapitalGainsCalculation {
	status = ftc.checkStatus(status)
	if gains.IsNegative() {
		gains = decimal.Zero
	}
	lines, total, _ := FillBrackets(ordinaryTaxable, gains, ftc.CapitalGains.Brackets(status))
	calc := domain.CapitalGainsCalculation{
		OrdinaryTaxableIncome: ordinaryTaxable,
		Gains:                 gains,
		Brackets:              lines,
		TotalTax:              total,
		EffectiveRate:         decimal.Zero,
	}
	if gains.IsPositive() {
		calc.EffectiveRate = total.Div(gains)
	}
	return calc
}

// NetInvestmentIncomeTax is the surtax on the lesser of net investment income and
// the MAGI excess over the status threshold.
func (ftc *FederalTaxCalculator) NetInvestmentIncomeTax(nii, magi decimal.Decimal, status domain.FilingStatus) domain.NIITCalculation {
	status = ftc.checkStatus(status)
	threshold := ftc.NIIT.Threshold(status)
	excess := magi.Sub(threshold)
	if excess.IsNegative() {
		excess = decimal.Zero
	}
	base := decimal.Min(nii, excess)
	if base.IsNegative() {
		base = decimal.Zero
	}
	return domain.NIITCalculation{
		NetInvestmentIncome: nii,
		MAGI:                magi,
		Threshold:           threshold,
		TaxableAmount:       base,
		Rate:                ftc.NIIT.Rate,
		Tax:                 base.Mul(ftc.NIIT.Rate),
	}
}

// Summarize runs the ordinary, LTCG and NIIT evaluators for one request.
func (ftc *FederalTaxCalculator) Summarize(req domain.TaxRequest) domain.TaxSummary {
	ordinary := ftc.CalculateWithAges(req.GrossIncome, req.FilingStatus, req.Ages)
	gains := ftc.CapitalGainsTax(ordinary.TaxableIncome, req.LongTermGains, ordinary.FilingStatus)

	magi := req.GrossIncome.Add(req.LongTermGains)
	if req.MAGI != nil {
		magi = *req.MAGI
	}
	niit := ftc.NetInvestmentIncomeTax(req.NetInvestmentIncome, magi, ordinary.FilingStatus)

	return domain.TaxSummary{
		Ordinary:     ordinary,
		CapitalGains: gains,
		NIIT:         niit,
		TotalTax:     ordinary.TotalTax.Add(gains.TotalTax).Add(niit.Tax),
	}
}

// FillBrackets taxes the slice of income between start and start+amount against
// brackets, bottom-up. Every bracket gets a line; the marginal rate is the rate of
// the last bracket with a positive amount, or the first rate when nothing is taxed.
func FillBrackets(start, amount decimal.Decimal, brackets []domain.TaxBracket) ([]domain.BracketLine, decimal.Decimal, decimal.Decimal) {
	lines := make([]domain.BracketLine, 0, len(brackets))
	total := decimal.Zero
	marginal := decimal.Zero
	if len(brackets) > 0 {
		marginal = brackets[0].Rate
	}

	end := start.Add(amount)
	lower := decimal.Zero
	for _, b := range brackets {
		from := decimal.Max(lower, start)
		to := end
		if b.UpTo != nil {
			to = decimal.Min(*b.UpTo, end)
		}
		inBracket := to.Sub(from)
		if inBracket.IsNegative() {
			inBracket = decimal.Zero
		}
		paid := inBracket.Mul(b.Rate)

		lines = append(lines, domain.BracketLine{
			Rate:            b.Rate,
			LowerBound:      lower,
			UpperBound:      b.UpTo,
			AmountInBracket: inBracket,
			TaxPaid:         paid,
		})
		total = total.Add(paid)
		if inBracket.IsPositive() {
			marginal = b.Rate
		}
		if b.UpTo != nil {
			lower = *b.UpTo
		}
	}
	return lines, total, marginal
}

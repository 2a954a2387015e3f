package calculation

import (
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultFRAMonths is full retirement age for anyone born in 1960 or later.
const DefaultFRAMonths = 67 * 12

const earlyTierMonths = 36

var ten = decimal.NewFromInt(10)

// SocialSecurityCalculator applies the PIA bend-point formula and claiming-age rules.
type SocialSecurityCalculator struct {
	Rules domain.SocialSecurityRules
}

// NewSocialSecurityCalculator creates a new Social Security calculator
func NewSocialSecurityCalculator(rules domain.SocialSecurityRules) *SocialSecurityCalculator {
	return &SocialSecurityCalculator{Rules: rules}
}

// FullRetirementAgeMonths returns full retirement age, in months, by birth year.
func FullRetirementAgeMonths(birthYear int) int {
	switch {
	case birthYear <= 1937:
		return 65 * 12
	case birthYear <= 1942:
		return 65*12 + (birthYear-1937)*2
	case birthYear <= 1954:
		return 66 * 12
	case birthYear <= 1959:
		return 66*12 + (birthYear-1954)*2
	default:
		return DefaultFRAMonths
	}
}

// CalculatePIA applies the three bend-point factors to AIME. The result is rounded
// down to the next lower dime.
func (sc *SocialSecurityCalculator) CalculatePIA(aime decimal.Decimal) domain.PIAResult {
	b1, b2 := sc.Rules.FirstBendPoint, sc.Rules.SecondBendPoint
	bounds := []struct{ lo, hi *decimal.Decimal }{
		{nil, &b1},
		{&b1, &b2},
		{&b2, nil},
	}

	result := domain.PIAResult{AIME: aime, BendPoints: [2]decimal.Decimal{b1, b2}}
	pia := decimal.Zero
	for i, b := range bounds {
		amount := aime
		if b.hi != nil {
			amount = decimal.Min(amount, *b.hi)
		}
		if b.lo != nil {
			amount = amount.Sub(*b.lo)
		}
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		credit := amount.Mul(sc.Rules.Factors[i])
		pia = pia.Add(credit)
		result.Segments = append(result.Segments, domain.PIASegment{
			Factor: sc.Rules.Factors[i],
			Amount: amount,
			Credit: credit,
		})
	}
	result.PIA = pia.Mul(ten).Floor().Div(ten)
	return result
}

// AdjustForClaimingAge reduces PIA for each month claimed before full retirement
// age and credits each month of delay up to the maximum credit age. fraMonths of
// zero means DefaultFRAMonths.
func (sc *SocialSecurityCalculator) AdjustForClaimingAge(pia decimal.Decimal, claimAgeMonths, fraMonths int) domain.ClaimingAdjustment {
	if fraMonths == 0 {
		fraMonths = DefaultFRAMonths
	}
	adj := domain.ClaimingAdjustment{
		PIA:            pia,
		ClaimAgeMonths: claimAgeMonths,
		FRAMonths:      fraMonths,
		Factor:         one,
	}

	switch {
	case claimAgeMonths < fraMonths:
		early := fraMonths - claimAgeMonths
		first := early
		if first > earlyTierMonths {
			first = earlyTierMonths
		}
		reduction := sc.Rules.EarlyReductionFirst36.Mul(decimal.NewFromInt(int64(first)))
		if early > earlyTierMonths {
			reduction = reduction.Add(sc.Rules.EarlyReductionBeyond.Mul(decimal.NewFromInt(int64(early - earlyTierMonths))))
		}
		adj.MonthsEarly = early
		adj.Factor = one.Sub(reduction)
	case claimAgeMonths > fraMonths:
		capMonths := sc.Rules.MaxCreditAge * 12
		delayed := claimAgeMonths
		if capMonths > 0 && delayed > capMonths {
			delayed = capMonths
		}
		delayed -= fraMonths
		if delayed < 0 {
			delayed = 0
		}
		adj.MonthsDelayed = delayed
		adj.Factor = one.Add(sc.Rules.DelayedCreditPerMonth.Mul(decimal.NewFromInt(int64(delayed))))
	}

	adj.Factor = adj.Factor.Round(6)
	adj.MonthlyBenefit = pia.Mul(adj.Factor).Round(2)
	return adj
}

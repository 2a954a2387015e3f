package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Rules holds every published table the calculators read for one tax year.
// It is loaded from rules/<year>.yaml and is immutable afterwards.
type Rules struct {
	Metadata       RulesMetadata       `yaml:"metadata" json:"metadata"`
	FederalTax     FederalTaxRules     `yaml:"federal_tax" json:"federal_tax"`
	CapitalGains   CapitalGainsRules   `yaml:"capital_gains" json:"capital_gains"`
	NIIT           NIITRules           `yaml:"niit" json:"niit"`
	RMD            RMDRules            `yaml:"rmd" json:"rmd"`
	SocialSecurity SocialSecurityRules `yaml:"social_security" json:"social_security"`
	Estate         EstateRules         `yaml:"estate" json:"estate"`
	SPIA           SPIARules           `yaml:"spia" json:"spia"`
	Markets        MarketRules         `yaml:"markets" json:"markets"`
}

// RulesMetadata describes where the tables came from
type RulesMetadata struct {
	TaxYear     int    `yaml:"tax_year" json:"tax_year"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
}

// TaxBracket is one rate band. UpTo is the inclusive upper edge of the band
// measured from zero; nil marks the open top bracket.
type TaxBracket struct {
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
	UpTo *decimal.Decimal `yaml:"up_to" json:"up_to"`
}

// TaxSchedule is the deduction and bracket table for one filing status.
type TaxSchedule struct {
	StandardDeduction         decimal.Decimal `yaml:"standard_deduction" json:"standard_deduction"`
	AdditionalDeduction65Plus decimal.Decimal `yaml:"additional_deduction_65_plus" json:"additional_deduction_65_plus"`
	Brackets                  []TaxBracket    `yaml:"brackets" json:"brackets"`
}

// FederalTaxRules contains ordinary income tax schedules by filing status
type FederalTaxRules struct {
	Single               TaxSchedule `yaml:"single" json:"single"`
	MarriedFilingJointly TaxSchedule `yaml:"married_filing_jointly" json:"married_filing_jointly"`
}

// Schedule returns the table for the filing status.
func (f FederalTaxRules) Schedule(status FilingStatus) TaxSchedule {
	switch status {
	case FilingMarriedFilingJointly:
		return f.MarriedFilingJointly
	default:
		return f.Single
	}
}

// CapitalGainsRules contains long-term capital gains brackets (0/15/20%)
type CapitalGainsRules struct {
	Single               []TaxBracket `yaml:"single" json:"single"`
	MarriedFilingJointly []TaxBracket `yaml:"married_filing_jointly" json:"married_filing_jointly"`
}

// Brackets returns the LTCG table for the filing status.
func (c CapitalGainsRules) Brackets(status FilingStatus) []TaxBracket {
	switch status {
	case FilingMarriedFilingJointly:
		return c.MarriedFilingJointly
	default:
		return c.Single
	}
}

// NIITRules contains the net investment income surtax parameters
type NIITRules struct {
	Rate            decimal.Decimal `yaml:"rate" json:"rate"`
	ThresholdSingle decimal.Decimal `yaml:"threshold_single" json:"threshold_single"`
	ThresholdMFJ    decimal.Decimal `yaml:"threshold_married_filing_jointly" json:"threshold_married_filing_jointly"`
}

// Threshold returns the MAGI threshold for the filing status.
func (n NIITRules) Threshold(status FilingStatus) decimal.Decimal {
	switch status {
	case FilingMarriedFilingJointly:
		return n.ThresholdMFJ
	default:
		return n.ThresholdSingle
	}
}

// RMDRules contains the Uniform Lifetime Table
type RMDRules struct {
	StartAge        int                     `yaml:"start_age" json:"start_age"`
	UniformLifetime map[int]decimal.Decimal `yaml:"uniform_lifetime" json:"uniform_lifetime"`
}

// Ages returns the tabulated ages in ascending order.
func (r RMDRules) Ages() []int {
	ages := make([]int, 0, len(r.UniformLifetime))
	for age := range r.UniformLifetime {
		ages = append(ages, age)
	}
	sort.Ints(ages)
	return ages
}

// SocialSecurityRules contains PIA bend points and claiming-age adjustments
type SocialSecurityRules struct {
	FirstBendPoint  decimal.Decimal    `yaml:"first_bend_point" json:"first_bend_point"`
	SecondBendPoint decimal.Decimal    `yaml:"second_bend_point" json:"second_bend_point"`
	Factors         [3]decimal.Decimal `yaml:"factors" json:"factors"`
	// Early reduction per month, for the first 36 months and beyond.
	EarlyReductionFirst36 decimal.Decimal `yaml:"early_reduction_first_36" json:"early_reduction_first_36"`
	EarlyReductionBeyond  decimal.Decimal `yaml:"early_reduction_beyond" json:"early_reduction_beyond"`
	DelayedCreditPerMonth decimal.Decimal `yaml:"delayed_credit_per_month" json:"delayed_credit_per_month"`
	MaxCreditAge          int             `yaml:"max_credit_age" json:"max_credit_age"`
}

// EstateRules contains the federal estate tax exemption and top rate
type EstateRules struct {
	Exemption decimal.Decimal `yaml:"exemption" json:"exemption"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
}

// PayoutRate is a tabulated SPIA payout rate.
type PayoutRate struct {
	Age  int             `yaml:"age" json:"age"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// SPIARules contains illustrative single-life payout rates by gender
type SPIARules struct {
	JointLifeDiscount decimal.Decimal `yaml:"joint_life_discount" json:"joint_life_discount"`
	Male              []PayoutRate    `yaml:"male" json:"male"`
	Female            []PayoutRate    `yaml:"female" json:"female"`
}

// Table returns the payout rates for the gender, ascending by age.
func (s SPIARules) Table(g Gender) []PayoutRate {
	switch g {
	case GenderFemale:
		return s.Female
	default:
		return s.Male
	}
}

// MarketRules contains the return assumptions used by the Monte Carlo engine
type MarketRules struct {
	HistoricalReturns map[int]decimal.Decimal `yaml:"historical_returns" json:"historical_returns"`
	MeanReturn        decimal.Decimal         `yaml:"mean_return" json:"mean_return"`
	StdDev            decimal.Decimal         `yaml:"std_dev" json:"std_dev"`
	Inflation         decimal.Decimal         `yaml:"inflation" json:"inflation"`
}

// ReturnSeries returns the historical returns ordered by year.
func (m MarketRules) ReturnSeries() []decimal.Decimal {
	years := make([]int, 0, len(m.HistoricalReturns))
	for y := range m.HistoricalReturns {
		years = append(years, y)
	}
	sort.Ints(years)
	out := make([]decimal.Decimal, len(years))
	for i, y := range years {
		out[i] = m.HistoricalReturns[y]
	}
	return out
}

// Validate checks the structural invariants the calculators rely on.
func (r *Rules) Validate() error {
	for _, s := range []struct {
		name     string
		brackets []TaxBracket
	}{
		{"federal_tax.single", r.FederalTax.Single.Brackets},
		{"federal_tax.married_filing_jointly", r.FederalTax.MarriedFilingJointly.Brackets},
		{"capital_gains.single", r.CapitalGains.Single},
		{"capital_gains.married_filing_jointly", r.CapitalGains.MarriedFilingJointly},
	} {
		if err := validateBrackets(s.brackets); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	if len(r.RMD.UniformLifetime) == 0 {
		return fmt.Errorf("rmd.uniform_lifetime: table is empty: %w", ErrInvalidInput)
	}
	for age, d := range r.RMD.UniformLifetime {
		if !d.IsPositive() {
			return fmt.Errorf("rmd.uniform_lifetime: divisor for age %d must be positive: %w", age, ErrInvalidInput)
		}
	}
	if len(r.SPIA.Male) == 0 || len(r.SPIA.Female) == 0 {
		return fmt.Errorf("spia: payout tables must not be empty: %w", ErrInvalidInput)
	}
	for _, table := range [][]PayoutRate{r.SPIA.Male, r.SPIA.Female} {
		for i := 1; i < len(table); i++ {
			if table[i].Age <= table[i-1].Age {
				return fmt.Errorf("spia: ages must be strictly ascending: %w", ErrInvalidInput)
			}
		}
	}
	if !r.SocialSecurity.SecondBendPoint.GreaterThan(r.SocialSecurity.FirstBendPoint) {
		return fmt.Errorf("social_security: second bend point must exceed the first: %w", ErrInvalidInput)
	}
	return nil
}

func validateBrackets(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("no brackets: %w", ErrInvalidInput)
	}
	prev := decimal.Zero
	for i, b := range brackets {
		last := i == len(brackets)-1
		if b.UpTo == nil {
			if !last {
				return fmt.Errorf("bracket %d: only the top bracket may be open: %w", i, ErrInvalidInput)
			}
			continue
		}
		if !b.UpTo.GreaterThan(prev) {
			return fmt.Errorf("bracket %d: upper bound %s does not exceed %s: %w", i, b.UpTo, prev, ErrInvalidInput)
		}
		prev = *b.UpTo
	}
	if brackets[len(brackets)-1].UpTo != nil {
		return fmt.Errorf("top bracket must be open: %w", ErrInvalidInput)
	}
	return nil
}

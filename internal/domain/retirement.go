package domain

import "github.com/shopspring/decimal"

// RMDResult is a required minimum distribution for one account-year.
type RMDResult struct {
	Age      int             `json:"age"`
	StartAge int             `json:"startAge"`
	Balance  decimal.Decimal `json:"balance"`
	Required bool            `json:"required"`
	Divisor  decimal.Decimal `json:"divisor"` // zero when not required
	Amount   decimal.Decimal `json:"amount"`
}

// PIASegment is the slice of AIME that falls between two bend points.
type PIASegment struct {
	Factor decimal.Decimal `json:"factor"`
	Amount decimal.Decimal `json:"amount"`
	Credit decimal.Decimal `json:"credit"`
}

// PIAResult is the primary insurance amount derived from AIME.
type PIAResult struct {
	AIME       decimal.Decimal    `json:"aime"`
	BendPoints [2]decimal.Decimal `json:"bendPoints"`
	Segments   []PIASegment       `json:"segments"`
	PIA        decimal.Decimal    `json:"pia"`
}

// ClaimingAdjustment is the PIA adjusted for claiming before or after full retirement age.
type ClaimingAdjustment struct {
	PIA            decimal.Decimal `json:"pia"`
	ClaimAgeMonths int             `json:"claimAgeMonths"`
	FRAMonths      int             `json:"fraMonths"`
	MonthsEarly    int             `json:"monthsEarly"`
	MonthsDelayed  int             `json:"monthsDelayed"`
	Factor         decimal.Decimal `json:"factor"`
	MonthlyBenefit decimal.Decimal `json:"monthlyBenefit"`
}

// EstateTaxResult is a federal estate tax estimate.
type EstateTaxResult struct {
	Estate        decimal.Decimal `json:"estate"`
	Married       bool            `json:"married"`
	Exemption     decimal.Decimal `json:"exemption"`
	TaxableEstate decimal.Decimal `json:"taxableEstate"`
	Rate          decimal.Decimal `json:"rate"`
	Tax           decimal.Decimal `json:"tax"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
}

// RothConversionResult is the tax cost of converting Amount from traditional to Roth
// in a year with OtherIncome of ordinary income.
type RothConversionResult struct {
	FilingStatus   FilingStatus    `json:"filingStatus"`
	OtherIncome    decimal.Decimal `json:"otherIncome"`
	Amount         decimal.Decimal `json:"amount"`
	TaxBefore      decimal.Decimal `json:"taxBefore"`
	TaxAfter       decimal.Decimal `json:"taxAfter"`
	IncrementalTax decimal.Decimal `json:"incrementalTax"`
	EffectiveRate  decimal.Decimal `json:"effectiveRate"` // incremental tax / amount
	MarginalBefore decimal.Decimal `json:"marginalBefore"`
	MarginalAfter  decimal.Decimal `json:"marginalAfter"`
	// BracketHeadroom is how much more ordinary income fits in the current marginal
	// bracket before the conversion; nil when already in the top bracket.
	BracketHeadroom *decimal.Decimal `json:"bracketHeadroom"`
	CrossesBracket  bool             `json:"crossesBracket"`
}

package domain

import "github.com/shopspring/decimal"

// BracketLine is one filled bracket of a progressive schedule.
type BracketLine struct {
	Rate            decimal.Decimal  `json:"rate"`
	LowerBound      decimal.Decimal  `json:"lowerBound"`
	UpperBound      *decimal.Decimal `json:"upperBound"` // nil for the top bracket
	AmountInBracket decimal.Decimal  `json:"amountInBracket"`
	TaxPaid         decimal.Decimal  `json:"taxPaid"`
}

// TaxBracketCalculation is a full bottom-up bracket fill.
type TaxBracketCalculation struct {
	TaxYear       int             `json:"taxYear"`
	FilingStatus  FilingStatus    `json:"filingStatus"`
	GrossIncome   decimal.Decimal `json:"grossIncome"`
	Deduction     decimal.Decimal `json:"deduction"`
	TaxableIncome decimal.Decimal `json:"taxableIncome"`
	Brackets      []BracketLine   `json:"brackets"`
	TotalTax      decimal.Decimal `json:"totalTax"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	MarginalRate  decimal.Decimal `json:"marginalRate"`
}

// CapitalGainsCalculation is the LTCG fill stacked on ordinary taxable income.
type CapitalGainsCalculation struct {
	OrdinaryTaxableIncome decimal.Decimal `json:"ordinaryTaxableIncome"`
	Gains                 decimal.Decimal `json:"gains"`
	Brackets              []BracketLine   `json:"brackets"`
	TotalTax              decimal.Decimal `json:"totalTax"`
	EffectiveRate         decimal.Decimal `json:"effectiveRate"`
}

// NIITCalculation is the 3.8% net investment income surtax.
type NIITCalculation struct {
	NetInvestmentIncome decimal.Decimal `json:"netInvestmentIncome"`
	MAGI                decimal.Decimal `json:"magi"`
	Threshold           decimal.Decimal `json:"threshold"`
	TaxableAmount       decimal.Decimal `json:"taxableAmount"`
	Rate                decimal.Decimal `json:"rate"`
	Tax                 decimal.Decimal `json:"tax"`
}

// TaxSummary combines the three evaluators for one household-year.
type TaxSummary struct {
	Ordinary     TaxBracketCalculation   `json:"ordinary"`
	CapitalGains CapitalGainsCalculation `json:"capitalGains"`
	NIIT         NIITCalculation         `json:"niit"`
	TotalTax     decimal.Decimal         `json:"totalTax"`
}

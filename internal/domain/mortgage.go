package domain

import "github.com/shopspring/decimal"

// RefinanceInput describes the existing loan and the offer being considered.
// Rates are annual fractions (0.065 = 6.5%).
type RefinanceInput struct {
	CurrentBalance      decimal.Decimal `yaml:"current_balance" json:"currentBalance"`
	CurrentRate         decimal.Decimal `yaml:"current_rate" json:"currentRate"`
	RemainingMonths     int             `yaml:"remaining_months" json:"remainingMonths"`
	NewRate             decimal.Decimal `yaml:"new_rate" json:"newRate"`
	NewTermYears        int             `yaml:"new_term_years" json:"newTermYears"`
	ClosingCosts        decimal.Decimal `yaml:"closing_costs" json:"closingCosts"`
	CashOut             decimal.Decimal `yaml:"cash_out" json:"cashOut"`
	Points              decimal.Decimal `yaml:"points" json:"points"`
	ExtraMonthlyPayment decimal.Decimal `yaml:"extra_monthly_payment" json:"extraMonthlyPayment"`
}

// RefinanceAnalysis is the full calculation bundle for one refinance offer.
type RefinanceAnalysis struct {
	NewPrincipal         decimal.Decimal  `json:"newPrincipal"`
	EffectiveNewRate     decimal.Decimal  `json:"effectiveNewRate"`
	CurrentPayment       decimal.Decimal  `json:"currentPayment"`
	NewPayment           decimal.Decimal  `json:"newPayment"`
	MonthlySavings       decimal.Decimal  `json:"monthlySavings"`
	TotalClosingCosts    decimal.Decimal  `json:"totalClosingCosts"`
	BreakevenMonths      Horizon          `json:"breakevenMonths"`
	BreakevenYears       Horizon          `json:"breakevenYears"`
	TotalInterestCurrent decimal.Decimal  `json:"totalInterestCurrent"`
	TotalInterestNew     decimal.Decimal  `json:"totalInterestNew"`
	InterestSavings      decimal.Decimal  `json:"interestSavings"`
	Term                 TermAnalysis     `json:"term"`
	ExtraPayment         *PayoffSchedule  `json:"extraPayment,omitempty"`
	CashOut              *CashOutAnalysis `json:"cashOut,omitempty"`
	Points               *PointsAnalysis  `json:"points,omitempty"`
	Recommendation       Recommendation   `json:"recommendation"`
}

// TermAnalysis compares the remaining schedule of the current loan with the new one.
type TermAnalysis struct {
	RemainingMonths  int             `json:"remainingMonths"`
	NewTermMonths    int             `json:"newTermMonths"`
	ExtendsTerm      bool            `json:"extendsTerm"`
	MonthsAdded      int             `json:"monthsAdded"`
	TotalCostCurrent decimal.Decimal `json:"totalCostCurrent"` // remaining payments on the current loan
	TotalCostNew     decimal.Decimal `json:"totalCostNew"`     // all new payments plus closing costs
	Verdict          string          `json:"verdict"`
}

// PayoffSchedule is the result of amortizing with an extra monthly payment.
type PayoffSchedule struct {
	ExtraMonthlyPayment decimal.Decimal `json:"extraMonthlyPayment"`
	MonthsToPayoff      int             `json:"monthsToPayoff"`
	PaidOff             bool            `json:"paidOff"` // false when the month cap was hit first
	TotalInterest       decimal.Decimal `json:"totalInterest"`
	InterestSaved       decimal.Decimal `json:"interestSaved"`
	MonthsSaved         int             `json:"monthsSaved"`
}

// CashOutAnalysis isolates what the cash taken out costs.
type CashOutAnalysis struct {
	Amount              decimal.Decimal `json:"amount"`
	AddedMonthlyPayment decimal.Decimal `json:"addedMonthlyPayment"`
	AddedTotalInterest  decimal.Decimal `json:"addedTotalInterest"`
	BreakevenMonths     Horizon         `json:"breakevenMonths"` // closing costs recovered ignoring the cash-out
}

// PointsAnalysis isolates the discount points purchase.
type PointsAnalysis struct {
	Points          decimal.Decimal `json:"points"`
	Cost            decimal.Decimal `json:"cost"`
	RateReduction   decimal.Decimal `json:"rateReduction"`
	MonthlySavings  decimal.Decimal `json:"monthlySavings"`
	BreakevenMonths Horizon         `json:"breakevenMonths"`
}

// Recommendation is the refinance verdict.
type Recommendation struct {
	ShouldRefi bool   `json:"shouldRefi"`
	Reason     string `json:"reason"`
}

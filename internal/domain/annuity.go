package domain

import (
	"github.com/shopspring/decimal"
)

// SPIAQuote is the estimated payout of a single premium immediate annuity.
type SPIAQuote struct {
	LumpSum        decimal.Decimal `json:"lumpSum"`
	Age            int             `json:"age"`
	Gender         Gender          `json:"gender"`
	JointLife      bool            `json:"jointLife"`
	TableAge       int             `json:"tableAge"` // tabulated age the rate was taken from
	PayoutRate     decimal.Decimal `json:"payoutRate"`
	AnnualIncome   decimal.Decimal `json:"annualIncome"`
	MonthlyIncome  decimal.Decimal `json:"monthlyIncome"`
	BreakEvenYears Horizon         `json:"breakEvenYears"`
	BreakEvenAge   Horizon         `json:"breakEvenAge"`
	LifetimeValue  AgeSnapshots    `json:"lifetimeValue"`
}

// AgeSnapshots holds a value observed at the three planning ages used throughout
// the annuity analyzer.
type AgeSnapshots struct {
	At85 decimal.Decimal `json:"at85"`
	At90 decimal.Decimal `json:"at90"`
	At95 decimal.Decimal `json:"at95"`
}

// SnapshotAges are the ages reported in AgeSnapshots, in field order.
var SnapshotAges = [3]int{85, 90, 95}

// Set stores v under the given snapshot age; other ages are ignored.
func (s *AgeSnapshots) Set(age int, v decimal.Decimal) {
	switch age {
	case 85:
		s.At85 = v
	case 90:
		s.At90 = v
	case 95:
		s.At95 = v
	}
}

// WithdrawalComparison is the outcome of drawing a fixed percentage of the
// starting principal every year from a constant-return portfolio.
type WithdrawalComparison struct {
	Principal           decimal.Decimal  `json:"principal"`
	RatePercent         decimal.Decimal  `json:"ratePercent"`
	AnnualReturn        decimal.Decimal  `json:"annualReturn"`
	StartAge            int              `json:"startAge"`
	AnnualIncome        decimal.Decimal  `json:"annualIncome"`
	MonthlyIncome       decimal.Decimal  `json:"monthlyIncome"`
	YearsUntilDepletion *int             `json:"yearsUntilDepletion"` // nil: never within the horizon
	DepletionAge        *int             `json:"depletionAge,omitempty"`
	PortfolioAt         AgeSnapshots     `json:"portfolioAt"`
	Path                []WithdrawalYear `json:"path,omitempty"`
}

// Depleted reports whether the portfolio ran out within the simulated horizon.
func (w WithdrawalComparison) Depleted() bool { return w.YearsUntilDepletion != nil }

// WithdrawalYear is one year-end row of a withdrawal simulation.
type WithdrawalYear struct {
	Year       int             `json:"year"`
	Age        int             `json:"age"`
	Withdrawal decimal.Decimal `json:"withdrawal"`
	Balance    decimal.Decimal `json:"balance"`
}

// AnnuityContract describes the terms of a contract being evaluated for red flags.
// Percent fields are in percent units (7 means 7%).
type AnnuityContract struct {
	CommissionPercent    decimal.Decimal `yaml:"commission_percent" json:"commissionPercent"`
	SurrenderYears       int             `yaml:"surrender_years" json:"surrenderYears"`
	IsInIRA              bool            `yaml:"is_in_ira" json:"isInIRA"`
	AnnualFeesPercent    decimal.Decimal `yaml:"annual_fees_percent" json:"annualFeesPercent"`
	ConcentrationPercent decimal.Decimal `yaml:"concentration_percent" json:"concentrationPercent"`
	PremiumBonusPercent  decimal.Decimal `yaml:"premium_bonus_percent" json:"premiumBonusPercent"`
}

// RedFlag is one triggered rule.
type RedFlag struct {
	Name        string   `json:"name"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

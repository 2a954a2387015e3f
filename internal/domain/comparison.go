package domain

import "github.com/shopspring/decimal"

// ComparisonRequest pits one SPIA purchase against drawing down the same lump sum.
type ComparisonRequest struct {
	LumpSum      decimal.Decimal   `yaml:"lump_sum" json:"lumpSum"`
	Age          int               `yaml:"age" json:"age"`
	Gender       Gender            `yaml:"gender" json:"gender"`
	JointLife    bool              `yaml:"joint_life" json:"jointLife"`
	RatesPercent []decimal.Decimal `yaml:"rates_percent,omitempty" json:"ratesPercent,omitempty"`
	AnnualReturn *decimal.Decimal  `yaml:"annual_return,omitempty" json:"annualReturn,omitempty"`
}

// ComparisonRow is one strategy in a comparison, normalised for display.
type ComparisonRow struct {
	Strategy      string          `json:"strategy"`
	AnnualIncome  decimal.Decimal `json:"annualIncome"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	Lasts         string          `json:"lasts"` // "lifetime", "never depletes" or the depletion age

	// ValueAt is the income received so far plus whatever balance remains.
	ValueAt AgeSnapshots `json:"valueAt"`

	// IncomeDiffFromAnnuity is this row's annual income minus the annuity's.
	IncomeDiffFromAnnuity decimal.Decimal `json:"incomeDiffFromAnnuity"`
}

// ComparisonSet is the annuity row followed by one row per withdrawal rate.
type ComparisonSet struct {
	Request         ComparisonRequest      `json:"request"`
	Annuity         ComparisonRow          `json:"annuity"`
	Alternatives    []ComparisonRow        `json:"alternatives"`
	Quote           SPIAQuote              `json:"quote"`
	Withdrawals     []WithdrawalComparison `json:"withdrawals"`
	Recommendations []string               `json:"recommendations"`
}

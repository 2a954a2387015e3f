package domain

import "github.com/shopspring/decimal"

// SimulationConfig drives a Monte Carlo batch. Rates are fractions.
type SimulationConfig struct {
	Paths            int              `yaml:"paths" json:"paths"`
	Years            int              `yaml:"years" json:"years"`
	InitialBalance   decimal.Decimal  `yaml:"initial_balance" json:"initialBalance"`
	AnnualWithdrawal decimal.Decimal  `yaml:"annual_withdrawal" json:"annualWithdrawal"`
	Inflation        decimal.Decimal  `yaml:"inflation" json:"inflation"`
	ReturnModel      ReturnModel      `yaml:"return_model" json:"returnModel"`
	MeanReturn       decimal.Decimal  `yaml:"mean_return" json:"meanReturn"`
	StdDev           decimal.Decimal  `yaml:"std_dev" json:"stdDev"`
	Spending         SpendingStrategy `yaml:"spending" json:"spending"`
	Guardrails       GuardrailBands   `yaml:"guardrails" json:"guardrails"`
	Seed             int64            `yaml:"seed" json:"seed"`
	Workers          int              `yaml:"workers" json:"workers"`
}

// GuardrailBands are the Guyton-Klinger thresholds, expressed as multiples of the
// initial withdrawal rate, and the size of each spending adjustment.
type GuardrailBands struct {
	Upper      decimal.Decimal `yaml:"upper" json:"upper"`
	Lower      decimal.Decimal `yaml:"lower" json:"lower"`
	Adjustment decimal.Decimal `yaml:"adjustment" json:"adjustment"`
}

// Percentiles holds the distribution of a value across paths.
type Percentiles struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// YearBand is the cross-path balance distribution at the end of one year.
type YearBand struct {
	Year int `json:"year"`
	Percentiles
}

// BatchSummary aggregates every path of a simulation.
type BatchSummary struct {
	Paths               int                 `json:"paths"`
	Years               int                 `json:"years"`
	Seed                int64               `json:"seed"`
	Spending            SpendingStrategy    `json:"spending"`
	ReturnModel         ReturnModel         `json:"returnModel"`
	SuccessRate         decimal.Decimal     `json:"successRate"`
	RuinRate            decimal.Decimal     `json:"ruinRate"`
	EndingBalance       Percentiles         `json:"endingBalance"`
	MedianDepletionYear *int                `json:"medianDepletionYear"` // nil when no path failed
	MaxDrawdown         DrawdownStats       `json:"maxDrawdown"`
	AverageWithdrawn    decimal.Decimal     `json:"averageWithdrawn"`
	Guardrails          *GuardrailActivity  `json:"guardrails,omitempty"` // guardrails spending only
	Bands               []YearBand          `json:"bands"`
}

// DrawdownStats summarizes each path's largest peak-to-trough fall, as fractions.
type DrawdownStats struct {
	Median decimal.Decimal `json:"median"`
	Worst  decimal.Decimal `json:"worst"`
}

// GuardrailActivity counts spending adjustments across the paths of a run.
type GuardrailActivity struct {
	PathsCut      int             `json:"pathsCut"`
	PathsRaised   int             `json:"pathsRaised"`
	AverageCuts   decimal.Decimal `json:"averageCuts"`
	AverageRaises decimal.Decimal `json:"averageRaises"`
}

// GuardrailsConfig is a single-path guardrails run against a known return series.
type GuardrailsConfig struct {
	InitialBalance    decimal.Decimal `yaml:"initial_balance" json:"initialBalance"`
	InitialWithdrawal decimal.Decimal `yaml:"initial_withdrawal" json:"initialWithdrawal"`
	Inflation         decimal.Decimal `yaml:"inflation" json:"inflation"`
	Bands             GuardrailBands  `yaml:"bands" json:"bands"`
}

// GuardrailsRequest replays the guardrail rules over a caller-supplied return
// series, one return per year.
type GuardrailsRequest struct {
	GuardrailsConfig `yaml:",inline"`
	Returns          []decimal.Decimal `yaml:"returns" json:"returns"`
}

// GuardrailsResult records how spending moved along the path.
type GuardrailsResult struct {
	InitialRate     decimal.Decimal   `json:"initialRate"`
	Withdrawals     []decimal.Decimal `json:"withdrawals"`
	Balances        []decimal.Decimal `json:"balances"`
	Cuts            int               `json:"cuts"`
	Raises          int               `json:"raises"`
	FinalWithdrawal decimal.Decimal   `json:"finalWithdrawal"`
	Depleted        bool              `json:"depleted"`
}

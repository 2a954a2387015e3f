package domain

import "github.com/shopspring/decimal"

// Request is a calculation request file. Every section is optional; the engine
// runs the sections that are present.
type Request struct {
	TaxYear    int                `yaml:"tax_year" json:"taxYear"`
	SPIA       *SPIARequest       `yaml:"spia,omitempty" json:"spia,omitempty"`
	Withdrawal *WithdrawalRequest `yaml:"withdrawal,omitempty" json:"withdrawal,omitempty"`
	RedFlags   *AnnuityContract   `yaml:"red_flags,omitempty" json:"redFlags,omitempty"`
	FIRE       *FIREInput         `yaml:"fire,omitempty" json:"fire,omitempty"`
	Refinance  *RefinanceInput    `yaml:"refinance,omitempty" json:"refinance,omitempty"`
	Tax        *TaxRequest        `yaml:"tax,omitempty" json:"tax,omitempty"`
	RMD        *RMDRequest        `yaml:"rmd,omitempty" json:"rmd,omitempty"`
	PIA        *PIARequest        `yaml:"pia,omitempty" json:"pia,omitempty"`
	Estate     *EstateRequest     `yaml:"estate,omitempty" json:"estate,omitempty"`
	Roth       *RothRequest       `yaml:"roth,omitempty" json:"roth,omitempty"`
	Simulation *SimulationConfig  `yaml:"simulation,omitempty" json:"simulation,omitempty"`
	Guardrails *GuardrailsRequest `yaml:"guardrails,omitempty" json:"guardrails,omitempty"`
	Comparison *ComparisonRequest `yaml:"comparison,omitempty" json:"comparison,omitempty"`
}

// Empty reports whether no section is set.
func (r *Request) Empty() bool {
	return r.SPIA == nil && r.Withdrawal == nil && r.RedFlags == nil && r.FIRE == nil &&
		r.Refinance == nil && r.Tax == nil && r.RMD == nil && r.PIA == nil &&
		r.Estate == nil && r.Roth == nil && r.Simulation == nil && r.Guardrails == nil && r.Comparison == nil
}

// Sections names the sections present, in request order.
func (r *Request) Sections() []string {
	present := []struct {
		name string
		set  bool
	}{
		{"spia", r.SPIA != nil},
		{"withdrawal", r.Withdrawal != nil},
		{"red_flags", r.RedFlags != nil},
		{"fire", r.FIRE != nil},
		{"refinance", r.Refinance != nil},
		{"tax", r.Tax != nil},
		{"rmd", r.RMD != nil},
		{"pia", r.PIA != nil},
		{"estate", r.Estate != nil},
		{"roth", r.Roth != nil},
		{"simulation", r.Simulation != nil},
		{"guardrails", r.Guardrails != nil},
		{"comparison", r.Comparison != nil},
	}
	var names []string
	for _, p := range present {
		if p.set {
			names = append(names, p.name)
		}
	}
	return names
}

type SPIARequest struct {
	LumpSum   decimal.Decimal `yaml:"lump_sum" json:"lumpSum"`
	Age       int             `yaml:"age" json:"age"`
	Gender    Gender          `yaml:"gender" json:"gender"`
	JointLife bool            `yaml:"joint_life" json:"jointLife"`
}

// WithdrawalRequest simulates one path per rate. AnnualReturn defaults to 5%.
type WithdrawalRequest struct {
	Principal    decimal.Decimal   `yaml:"principal" json:"principal"`
	StartAge     int               `yaml:"start_age" json:"startAge"`
	RatesPercent []decimal.Decimal `yaml:"rates_percent" json:"ratesPercent"`
	AnnualReturn *decimal.Decimal  `yaml:"annual_return,omitempty" json:"annualReturn,omitempty"`
}

// TaxRequest evaluates ordinary income, long-term gains and NIIT for one year.
// MAGI defaults to gross income plus gains when omitted.
type TaxRequest struct {
	FilingStatus        FilingStatus     `yaml:"filing_status" json:"filingStatus"`
	GrossIncome         decimal.Decimal  `yaml:"gross_income" json:"grossIncome"`
	LongTermGains       decimal.Decimal  `yaml:"long_term_gains" json:"longTermGains"`
	NetInvestmentIncome decimal.Decimal  `yaml:"net_investment_income" json:"netInvestmentIncome"`
	MAGI                *decimal.Decimal `yaml:"magi,omitempty" json:"magi,omitempty"`
	Ages                []int            `yaml:"ages,omitempty" json:"ages,omitempty"` // taxpayer and spouse, for the 65+ deduction
}

// RMDRequest looks up a distribution. BirthYear, when set, selects the start age.
type RMDRequest struct {
	Balance   decimal.Decimal `yaml:"balance" json:"balance"`
	Age       int             `yaml:"age" json:"age"`
	BirthYear int             `yaml:"birth_year,omitempty" json:"birthYear,omitempty"`
}

// PIARequest computes a PIA and, when ClaimAgeMonths is set, the claiming adjustment.
// BirthYear derives FRAMonths when FRAMonths is not given.
type PIARequest struct {
	AIME           decimal.Decimal `yaml:"aime" json:"aime"`
	ClaimAgeMonths int             `yaml:"claim_age_months,omitempty" json:"claimAgeMonths,omitempty"`
	FRAMonths      int             `yaml:"fra_months,omitempty" json:"fraMonths,omitempty"`
	BirthYear      int             `yaml:"birth_year,omitempty" json:"birthYear,omitempty"`
}

type EstateRequest struct {
	Estate  decimal.Decimal `yaml:"estate" json:"estate"`
	Married bool            `yaml:"married" json:"married"`
}

type RothRequest struct {
	FilingStatus FilingStatus    `yaml:"filing_status" json:"filingStatus"`
	OtherIncome  decimal.Decimal `yaml:"other_income" json:"otherIncome"`
	Amount       decimal.Decimal `yaml:"amount" json:"amount"`
}

// Report collects the results of every section of a Request.
type Report struct {
	TaxYear     int                    `json:"taxYear"`
	SPIA        *SPIAQuote             `json:"spia,omitempty"`
	Withdrawals []WithdrawalComparison `json:"withdrawals,omitempty"`
	RedFlags    *RedFlagReport         `json:"redFlags,omitempty"`
	FIRE        *FIREResult            `json:"fire,omitempty"`
	Refinance   *RefinanceAnalysis     `json:"refinance,omitempty"`
	Tax         *TaxSummary            `json:"tax,omitempty"`
	RMD         *RMDResult             `json:"rmd,omitempty"`
	PIA         *PIAResult             `json:"pia,omitempty"`
	Claiming    *ClaimingAdjustment    `json:"claiming,omitempty"`
	Estate      *EstateTaxResult       `json:"estate,omitempty"`
	Roth        *RothConversionResult  `json:"roth,omitempty"`
	Simulation  *BatchSummary          `json:"simulation,omitempty"`
	Guardrails  *GuardrailsResult      `json:"guardrails,omitempty"`
	Comparison  *ComparisonSet         `json:"comparison,omitempty"`
}

// RedFlagReport wraps the flag list so an empty result still renders.
type RedFlagReport struct {
	Contract AnnuityContract `json:"contract"`
	Flags    []RedFlag       `json:"flags"`
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Upper bounds on request sizes; anything larger is a typo or an abuse.
const (
	MaxAge             = 120
	MaxSimulationPaths = 100000
	MaxSimulationYears = 100
)

var hundred = decimal.NewFromInt(100)

// RequestParser handles parsing of calculation request files
type RequestParser struct {
	// MaxPaths caps simulation.paths; zero means MaxSimulationPaths.
	MaxPaths int
}

// NewRequestParser creates a new request parser
func NewRequestParser() *RequestParser {
	return &RequestParser{MaxPaths: MaxSimulationPaths}
}

// WithMaxPaths lowers the simulation path cap, e.g. for requests arriving over HTTP.
// Values outside (0, MaxSimulationPaths] leave the cap at MaxSimulationPaths.
func (rp *RequestParser) WithMaxPaths(n int) *RequestParser {
	if n <= 0 || n > MaxSimulationPaths {
		n = MaxSimulationPaths
	}
	rp.MaxPaths = n
	return rp
}

func (rp *RequestParser) maxPaths() int {
	if rp.MaxPaths <= 0 {
		return MaxSimulationPaths
	}
	return rp.MaxPaths
}

// LoadFromFile loads a request from a YAML or JSON file; the extension picks the decoder.
func (rp *RequestParser) LoadFromFile(filename string) (*domain.Request, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		format = "json"
	}
	return rp.Parse(data, format)
}

// Parse decodes and validates a request document.
func (rp *RequestParser) Parse(data []byte, format string) (*domain.Request, error) {
	var req domain.Request
	switch format {
	case "json":
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	if err := rp.Validate(&req); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return &req, nil
}

// Validate checks every present section. Errors wrap domain.ErrInvalidInput.
func (rp *RequestParser) Validate(req *domain.Request) error {
	if req.Empty() {
		return invalid("request has no sections")
	}
	if req.TaxYear < 0 {
		return invalid("tax_year must not be negative")
	}
	checks := []struct {
		section string
		present bool
		check   func() error
	}{
		{"spia", req.SPIA != nil, func() error { return rp.ValidateSPIA(req.SPIA) }},
		{"withdrawal", req.Withdrawal != nil, func() error { return rp.ValidateWithdrawal(req.Withdrawal) }},
		{"red_flags", req.RedFlags != nil, func() error { return rp.ValidateContract(req.RedFlags) }},
		{"fire", req.FIRE != nil, func() error { return rp.ValidateFIRE(req.FIRE) }},
		{"refinance", req.Refinance != nil, func() error { return rp.ValidateRefinance(req.Refinance) }},
		{"tax", req.Tax != nil, func() error { return rp.ValidateTax(req.Tax) }},
		{"rmd", req.RMD != nil, func() error { return rp.ValidateRMD(req.RMD) }},
		{"pia", req.PIA != nil, func() error { return rp.ValidatePIA(req.PIA) }},
		{"estate", req.Estate != nil, func() error { return nonNegative("estate", req.Estate.Estate) }},
		{"roth", req.Roth != nil, func() error { return rp.ValidateRoth(req.Roth) }},
		{"simulation", req.Simulation != nil, func() error { return rp.ValidateSimulation(req.Simulation) }},
		{"guardrails", req.Guardrails != nil, func() error { return rp.ValidateGuardrails(req.Guardrails) }},
		{"comparison", req.Comparison != nil, func() error { return rp.ValidateComparison(req.Comparison) }},
	}
	for _, c := range checks {
		if !c.present {
			continue
		}
		if err := c.check(); err != nil {
			return fmt.Errorf("%s: %w", c.section, err)
		}
	}
	return nil
}

func (rp *RequestParser) ValidateSPIA(r *domain.SPIARequest) error {
	if !r.LumpSum.IsPositive() {
		return invalid("lump_sum must be positive")
	}
	if err := validAge("age", r.Age); err != nil {
		return err
	}
	return nil
}

func (rp *RequestParser) ValidateWithdrawal(r *domain.WithdrawalRequest) error {
	if r.Principal.IsNegative() {
		return invalid("principal must not be negative")
	}
	if err := validAge("start_age", r.StartAge); err != nil {
		return err
	}
	for _, rate := range r.RatesPercent {
		if err := percent("rates_percent", rate); err != nil {
			return err
		}
	}
	if r.AnnualReturn != nil && r.AnnualReturn.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return invalid("annual_return must be greater than -1")
	}
	return nil
}

func (rp *RequestParser) ValidateContract(c *domain.AnnuityContract) error {
	for name, v := range map[string]decimal.Decimal{
		"commission_percent":    c.CommissionPercent,
		"annual_fees_percent":   c.AnnualFeesPercent,
		"concentration_percent": c.ConcentrationPercent,
		"premium_bonus_percent": c.PremiumBonusPercent,
	} {
		if err := percent(name, v); err != nil {
			return err
		}
	}
	if c.SurrenderYears < 0 {
		return invalid("surrender_years must not be negative")
	}
	return nil
}

func (rp *RequestParser) ValidateFIRE(in *domain.FIREInput) error {
	if err := validAge("current_age", in.CurrentAge); err != nil {
		return err
	}
	for name, v := range map[string]decimal.Decimal{
		"annual_expenses":  in.AnnualExpenses,
		"annual_income":    in.AnnualIncome,
		"current_savings":  in.CurrentSavings,
		"part_time_income": in.PartTimeIncome,
		"healthcare_cost":  in.HealthcareCost,
	} {
		if err := nonNegative(name, v); err != nil {
			return err
		}
	}
	if in.RealReturn.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return invalid("real_return must be greater than -1")
	}
	if in.Variant == domain.FIRECoast && in.CoastRetirementAge == 0 {
		return invalid("coast_retirement_age is required for coast FIRE")
	}
	return nil
}

func (rp *RequestParser) ValidateRefinance(in *domain.RefinanceInput) error {
	if !in.CurrentBalance.IsPositive() {
		return invalid("current_balance must be positive")
	}
	if in.RemainingMonths <= 0 {
		return invalid("remaining_months must be positive")
	}
	if in.NewTermYears <= 0 || in.NewTermYears > 50 {
		return invalid("new_term_years must be between 1 and 50")
	}
	for name, v := range map[string]decimal.Decimal{
		"current_rate":          in.CurrentRate,
		"new_rate":              in.NewRate,
		"closing_costs":         in.ClosingCosts,
		"cash_out":              in.CashOut,
		"points":                in.Points,
		"extra_monthly_payment": in.ExtraMonthlyPayment,
	} {
		if err := nonNegative(name, v); err != nil {
			return err
		}
	}
	if in.CurrentRate.GreaterThanOrEqual(decimal.NewFromInt(1)) || in.NewRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return invalid("rates are fractions (0.065 for 6.5%%)")
	}
	return nil
}

func (rp *RequestParser) ValidateTax(r *domain.TaxRequest) error {
	for name, v := range map[string]decimal.Decimal{
		"gross_income":          r.GrossIncome,
		"long_term_gains":       r.LongTermGains,
		"net_investment_income": r.NetInvestmentIncome,
	} {
		if err := nonNegative(name, v); err != nil {
			return err
		}
	}
	if len(r.Ages) > 2 {
		return invalid("ages lists at most the taxpayer and a spouse")
	}
	for _, a := range r.Ages {
		if err := validAge("ages", a); err != nil {
			return err
		}
	}
	return nil
}

func (rp *RequestParser) ValidateRMD(r *domain.RMDRequest) error {
	if err := nonNegative("balance", r.Balance); err != nil {
		return err
	}
	if r.Age < 0 || r.Age > 130 {
		return invalid("age must be between 0 and 130")
	}
	if r.BirthYear != 0 && (r.BirthYear < 1900 || r.BirthYear > 2100) {
		return invalid("birth_year %d is out of range", r.BirthYear)
	}
	return nil
}

func (rp *RequestParser) ValidatePIA(r *domain.PIARequest) error {
	if err := nonNegative("aime", r.AIME); err != nil {
		return err
	}
	if r.ClaimAgeMonths != 0 && (r.ClaimAgeMonths < 62*12 || r.ClaimAgeMonths > 70*12) {
		return invalid("claim_age_months must be between 744 (62) and 840 (70)")
	}
	if r.FRAMonths != 0 && (r.FRAMonths < 65*12 || r.FRAMonths > 67*12) {
		return invalid("fra_months must be between 780 (65) and 804 (67)")
	}
	if r.BirthYear != 0 && (r.BirthYear < 1900 || r.BirthYear > 2100) {
		return invalid("birth_year %d is out of range", r.BirthYear)
	}
	return nil
}

func (rp *RequestParser) ValidateRoth(r *domain.RothRequest) error {
	if err := nonNegative("other_income", r.OtherIncome); err != nil {
		return err
	}
	return nonNegative("amount", r.Amount)
}

func (rp *RequestParser) ValidateSimulation(c *domain.SimulationConfig) error {
	if limit := rp.maxPaths(); c.Paths < 0 || c.Paths > limit {
		return invalid("paths must be between 0 and %d", limit)
	}
	if c.Years < 0 || c.Years > MaxSimulationYears {
		return invalid("years must be between 0 and %d", MaxSimulationYears)
	}
	if !c.InitialBalance.IsPositive() {
		return invalid("initial_balance must be positive")
	}
	if err := nonNegative("annual_withdrawal", c.AnnualWithdrawal); err != nil {
		return err
	}
	if err := nonNegative("std_dev", c.StdDev); err != nil {
		return err
	}
	if c.Workers < 0 {
		return invalid("workers must not be negative")
	}
	return validBands("guardrails", c.Guardrails)
}

func (rp *RequestParser) ValidateGuardrails(r *domain.GuardrailsRequest) error {
	if !r.InitialBalance.IsPositive() {
		return invalid("initial_balance must be positive")
	}
	if err := nonNegative("initial_withdrawal", r.InitialWithdrawal); err != nil {
		return err
	}
	if r.Inflation.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return invalid("inflation must be greater than -1")
	}
	if len(r.Returns) == 0 || len(r.Returns) > MaxSimulationYears {
		return invalid("returns must list between 1 and %d annual returns", MaxSimulationYears)
	}
	for i, ret := range r.Returns {
		if ret.LessThan(decimal.NewFromInt(-1)) {
			return invalid("returns[%d] must not be below -1", i)
		}
	}
	return validBands("bands", r.Bands)
}

func validBands(field string, b domain.GuardrailBands) error {
	if !b.Upper.IsZero() && !b.Lower.IsZero() && b.Upper.LessThanOrEqual(b.Lower) {
		return invalid("%s.upper must exceed %s.lower", field, field)
	}
	if b.Adjustment.IsNegative() || b.Adjustment.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return invalid("%s.adjustment must be between 0 and 1", field)
	}
	return nil
}

func (rp *RequestParser) ValidateComparison(r *domain.ComparisonRequest) error {
	if err := rp.ValidateSPIA(&domain.SPIARequest{LumpSum: r.LumpSum, Age: r.Age, Gender: r.Gender}); err != nil {
		return err
	}
	for _, rate := range r.RatesPercent {
		if err := percent("rates_percent", rate); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrInvalidInput)
}

func nonNegative(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid("%s must not be negative, got %s", name, v)
	}
	return nil
}

func percent(name string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return invalid("%s must be between 0 and 100, got %s", name, v)
	}
	return nil
}

func validAge(name string, age int) error {
	if age < 0 || age > MaxAge {
		return invalid("%s must be between 0 and %d, got %d", name, MaxAge, age)
	}
	return nil
}

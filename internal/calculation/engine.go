package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rpkit/internal/compare"
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// Engine bundles the calculators for one tax year's rules and runs request files
// against them.
type Engine struct {
	Rules          *domain.Rules
	Tax            *FederalTaxCalculator
	Annuity        *AnnuityCalculator
	RMD            *RMDCalculator
	SocialSecurity *SocialSecurityCalculator
	MonteCarlo     *MonteCarloSimulator
	Comparer       *compare.Comparer
	Logger         Logger
}

// NewEngine creates an engine over a validated rules set
func NewEngine(rules *domain.Rules) *Engine {
	e := &Engine{
		Rules:          rules,
		Tax:            NewFederalTaxCalculator(rules),
		Annuity:        NewAnnuityCalculator(rules.SPIA),
		RMD:            NewRMDCalculator(rules.RMD),
		SocialSecurity: NewSocialSecurityCalculator(rules.SocialSecurity),
		MonteCarlo:     NewMonteCarloSimulator(rules.Markets),
		Logger:         NopLogger{},
	}
	e.Comparer = compare.NewComparer(e, DefaultWithdrawalRates, DefaultWithdrawalReturn)
	return e
}

// SetLogger sets the logger for the engine and its calculators. nil restores the
// no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	e.Tax.Logger = l
	e.MonteCarlo.Logger = l
}

// EstimateSPIA quotes an annuity from the engine's payout table.
func (e *Engine) EstimateSPIA(lumpSum decimal.Decimal, age int, gender domain.Gender, jointLife bool) domain.SPIAQuote {
	return e.Annuity.EstimateSPIA(lumpSum, age, gender, jointLife)
}

// SimulateWithdrawal runs the fixed-rate withdrawal simulator.
func (e *Engine) SimulateWithdrawal(principal, ratePercent decimal.Decimal, startAge int, annualReturn decimal.Decimal) domain.WithdrawalComparison {
	return SimulateWithdrawal(principal, ratePercent, startAge, annualReturn)
}

// SimulateWithdrawals runs one simulation per rate, defaulting the rates and return.
func (e *Engine) SimulateWithdrawals(req domain.WithdrawalRequest) []domain.WithdrawalComparison {
	rates := req.RatesPercent
	if len(rates) == 0 {
		rates = DefaultWithdrawalRates
	}
	annualReturn := DefaultWithdrawalReturn
	if req.AnnualReturn != nil {
		annualReturn = *req.AnnualReturn
	}
	out := make([]domain.WithdrawalComparison, 0, len(rates))
	for _, rate := range rates {
		out = append(out, SimulateWithdrawal(req.Principal, rate, req.StartAge, annualReturn))
	}
	return out
}

// EstimateEstateTax applies the engine's estate rules.
func (e *Engine) EstimateEstateTax(estate decimal.Decimal, married bool) domain.EstateTaxResult {
	return EstimateEstateTax(e.Rules.Estate, estate, married)
}

// RMDFor looks up the distribution, using the birth year's start age when given.
func (e *Engine) RMDFor(req domain.RMDRequest) domain.RMDResult {
	if req.BirthYear > 0 {
		return e.RMD.CalculateForBirthYear(req.Balance, req.Age, req.BirthYear)
	}
	return e.RMD.Calculate(req.Balance, req.Age)
}

// PIAFor computes the PIA and, when a claiming age is given, the adjusted benefit.
// An explicit FRAMonths wins over one derived from BirthYear.
func (e *Engine) PIAFor(req domain.PIARequest) (domain.PIAResult, *domain.ClaimingAdjustment) {
	pia := e.SocialSecurity.CalculatePIA(req.AIME)
	if req.ClaimAgeMonths == 0 {
		return pia, nil
	}
	fra := req.FRAMonths
	if fra == 0 && req.BirthYear > 0 {
		fra = FullRetirementAgeMonths(req.BirthYear)
	}
	adj := e.SocialSecurity.AdjustForClaimingAge(pia.PIA, req.ClaimAgeMonths, fra)
	return pia, &adj
}

// Simulate runs a Monte Carlo batch. Failures come back as a *CalculationError.
func (e *Engine) Simulate(ctx context.Context, cfg domain.SimulationConfig) (*domain.BatchSummary, error) {
	summary, err := e.MonteCarlo.Run(ctx, cfg)
	if err != nil {
		return nil, &CalculationError{Operation: "simulate", Message: "monte carlo run failed", Cause: err}
	}
	return summary, nil
}

// ApplyGuardrails replays the guardrail spending rules over the request's returns.
func (e *Engine) ApplyGuardrails(req domain.GuardrailsRequest) domain.GuardrailsResult {
	result := ApplyGuardrails(req.GuardrailsConfig, req.Returns)
	e.Logger.Debugf("guardrails: %d cuts, %d raises over %d years", result.Cuts, result.Raises, len(result.Withdrawals))
	return result
}

// Compare prices an annuity against the withdrawal alternatives.
func (e *Engine) Compare(req domain.ComparisonRequest) *domain.ComparisonSet {
	return e.Comparer.Compare(req)
}

// Calculate runs every section present in req and collects the results.
func (e *Engine) Calculate(ctx context.Context, req *domain.Request) (*domain.Report, error) {
	if req == nil || req.Empty() {
		return nil, fmt.Errorf("request has no sections: %w", domain.ErrInvalidInput)
	}
	year := e.Rules.Metadata.TaxYear
	if req.TaxYear != 0 && req.TaxYear != year {
		e.Logger.Warnf("request tax year %d does not match loaded rules %d", req.TaxYear, year)
	}

	report := &domain.Report{TaxYear: year}

	if s := req.SPIA; s != nil {
		quote := e.EstimateSPIA(s.LumpSum, s.Age, s.Gender, s.JointLife)
		report.SPIA = &quote
	}
	if req.Withdrawal != nil {
		report.Withdrawals = e.SimulateWithdrawals(*req.Withdrawal)
	}
	if c := req.RedFlags; c != nil {
		report.RedFlags = &domain.RedFlagReport{Contract: *c, Flags: CheckRedFlags(*c)}
	}
	if req.FIRE != nil {
		fire := CalculateFIRE(*req.FIRE)
		report.FIRE = &fire
	}
	if req.Refinance != nil {
		refi := CalculateRefinance(*req.Refinance)
		report.Refinance = &refi
	}
	if req.Tax != nil {
		tax := e.Tax.Summarize(*req.Tax)
		report.Tax = &tax
	}
	if req.RMD != nil {
		rmd := e.RMDFor(*req.RMD)
		report.RMD = &rmd
	}
	if req.PIA != nil {
		pia, claiming := e.PIAFor(*req.PIA)
		report.PIA = &pia
		report.Claiming = claiming
	}
	if s := req.Estate; s != nil {
		estate := e.EstimateEstateTax(s.Estate, s.Married)
		report.Estate = &estate
	}
	if r := req.Roth; r != nil {
		roth := e.Tax.AnalyzeRothConversion(r.OtherIncome, r.Amount, r.FilingStatus)
		report.Roth = &roth
	}
	if req.Guardrails != nil {
		guardrails := e.ApplyGuardrails(*req.Guardrails)
		report.Guardrails = &guardrails
	}
	if req.Comparison != nil {
		report.Comparison = e.Compare(*req.Comparison)
	}
	if req.Simulation != nil {
		summary, err := e.Simulate(ctx, *req.Simulation)
		if err != nil {
			return nil, err
		}
		report.Simulation = summary
	}

	e.Logger.Debugf("calculated report for tax year %d", year)
	return report, nil
}

package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rgehrsitz/rpkit/internal/domain"
)

// Section is one titled block of a report, shared by every formatter so console,
// CSV and PDF output carry the same figures.
type Section struct {
	Title  string
	Fields []Field
	Table  *Table
	Notes  []string
}

// Field is a labelled value.
type Field struct {
	Label string
	Value string
}

// Table is a header row plus data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

func (s *Section) add(label, value string) {
	s.Fields = append(s.Fields, Field{Label: label, Value: value})
}

// GenerateReport writes report in the named format to w.
func GenerateReport(w io.Writer, report *domain.Report, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s", format)
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// Sections flattens a report into display sections in a fixed order. Sections
// absent from the report are skipped.
func Sections(r *domain.Report) []Section {
	if r == nil {
		return nil
	}
	var out []Section
	if r.SPIA != nil {
		out = append(out, spiaSection(r.SPIA))
	}
	if len(r.Withdrawals) > 0 {
		out = append(out, withdrawalSection(r.Withdrawals))
	}
	if r.Comparison != nil {
		out = append(out, comparisonSection(r.Comparison))
	}
	if r.RedFlags != nil {
		out = append(out, redFlagSection(r.RedFlags))
	}
	if r.FIRE != nil {
		out = append(out, fireSection(r.FIRE))
	}
	if r.Refinance != nil {
		out = append(out, refinanceSection(r.Refinance))
	}
	if r.Tax != nil {
		out = append(out, taxSection(r.Tax))
	}
	if r.Roth != nil {
		out = append(out, rothSection(r.Roth))
	}
	if r.RMD != nil {
		out = append(out, rmdSection(r.RMD))
	}
	if r.PIA != nil {
		out = append(out, piaSection(r.PIA, r.Claiming))
	}
	if r.Estate != nil {
		out = append(out, estateSection(r.Estate))
	}
	if r.Simulation != nil {
		out = append(out, simulationSection(r.Simulation))
	}
	if r.Guardrails != nil {
		out = append(out, guardrailsSection(r.Guardrails))
	}
	return out
}

func spiaSection(q *domain.SPIAQuote) Section {
	life := "single life"
	if q.JointLife {
		life = "joint life"
	}
	s := Section{Title: "Single Premium Immediate Annuity"}
	s.add("Lump sum", FormatCurrency(q.LumpSum))
	s.add("Buyer", fmt.Sprintf("%s, age %d, %s", q.Gender, q.Age, life))
	s.add("Payout rate", fmt.Sprintf("%s (table age %d)", FormatRate(q.PayoutRate), q.TableAge))
	s.add("Annual income", FormatCurrency(q.AnnualIncome))
	s.add("Monthly income", FormatCurrency(q.MonthlyIncome))
	s.add("Break-even", formatHorizon(q.BreakEvenYears, "years"))
	s.add("Break-even age", formatHorizon(q.BreakEvenAge, ""))
	s.add("Received by 85", FormatCurrency(q.LifetimeValue.At85))
	s.add("Received by 90", FormatCurrency(q.LifetimeValue.At90))
	s.add("Received by 95", FormatCurrency(q.LifetimeValue.At95))
	return s
}

func withdrawalSection(ws []domain.WithdrawalComparison) Section {
	s := Section{Title: "Systematic Withdrawals"}
	s.add("Principal", FormatCurrency(ws[0].Principal))
	s.add("Annual return", FormatRate(ws[0].AnnualReturn))
	s.add("Start age", strconv.Itoa(ws[0].StartAge))
	t := &Table{Headers: []string{"Rate", "Annual", "Monthly", "Depletes", "At 85", "At 90", "At 95"}}
	for _, w := range ws {
		t.Rows = append(t.Rows, []string{
			FormatPercentage(w.RatePercent),
			FormatCurrency(w.AnnualIncome),
			FormatCurrency(w.MonthlyIncome),
			formatDepletion(w.DepletionAge),
			FormatCurrency(w.PortfolioAt.At85),
			FormatCurrency(w.PortfolioAt.At90),
			FormatCurrency(w.PortfolioAt.At95),
		})
	}
	s.Table = t
	return s
}

func comparisonSection(c *domain.ComparisonSet) Section {
	s := Section{Title: "Annuity vs Withdrawal"}
	t := &Table{Headers: []string{"Strategy", "Annual", "Monthly", "Lasts", "At 85", "At 90", "At 95", "vs Annuity"}}
	row := func(r domain.ComparisonRow, diff string) []string {
		return []string{
			r.Strategy,
			FormatCurrency(r.AnnualIncome),
			FormatCurrency(r.MonthlyIncome),
			r.Lasts,
			FormatCurrency(r.ValueAt.At85),
			FormatCurrency(r.ValueAt.At90),
			FormatCurrency(r.ValueAt.At95),
			diff,
		}
	}
	t.Rows = append(t.Rows, row(c.Annuity, "-"))
	for _, alt := range c.Alternatives {
		t.Rows = append(t.Rows, row(alt, FormatCurrency(alt.IncomeDiffFromAnnuity)))
	}
	s.Table = t
	s.Notes = c.Recommendations
	return s
}

func redFlagSection(rf *domain.RedFlagReport) Section {
	s := Section{Title: "Annuity Red Flags"}
	if len(rf.Flags) == 0 {
		s.Notes = []string{"No red flags found"}
		return s
	}
	t := &Table{Headers: []string{"Severity", "Flag", "Detail"}}
	for _, f := range rf.Flags {
		t.Rows = append(t.Rows, []string{f.Severity.String(), f.Name, f.Description})
	}
	s.Table = t
	return s
}

func fireSection(f *domain.FIREResult) Section {
	s := Section{Title: "Financial Independence"}
	s.add("Variant", string(f.Variant))
	s.add("Rule", string(f.Rule))
	s.add("Annual expenses", FormatCurrency(f.AdjustedExpenses))
	s.add("Multiplier", f.Multiplier.StringFixed(2))
	if !f.TargetFIRENumber.Equal(f.FIRENumber) {
		s.add("Target at retirement", FormatCurrency(f.TargetFIRENumber))
	}
	s.add("FIRE number", FormatCurrency(f.FIRENumber))
	s.add("Years to FIRE", formatHorizon(f.YearsToFIRE, "years"))
	s.add("FIRE age", formatHorizon(f.FIREAge, ""))
	s.add("Savings rate", FormatPercentage(f.SavingsRate))
	return s
}

func refinanceSection(a *domain.RefinanceAnalysis) Section {
	s := Section{Title: "Mortgage Refinance"}
	s.add("New principal", FormatCurrency(a.NewPrincipal))
	s.add("New rate", FormatRate(a.EffectiveNewRate))
	s.add("Current payment", FormatCurrency(a.CurrentPayment))
	s.add("New payment", FormatCurrency(a.NewPayment))
	s.add("Monthly savings", FormatCurrency(a.MonthlySavings))
	s.add("Closing costs", FormatCurrency(a.TotalClosingCosts))
	s.add("Breakeven", formatHorizon(a.BreakevenMonths, "months"))
	s.add("Interest savings", FormatCurrency(a.InterestSavings))
	s.add("Term", a.Term.Verdict)
	if a.Points != nil {
		s.add("Points cost", FormatCurrency(a.Points.Cost))
		s.add("Points breakeven", formatHorizon(a.Points.BreakevenMonths, "months"))
	}
	if a.CashOut != nil {
		s.add("Cash-out", FormatCurrency(a.CashOut.Amount))
		s.add("Cash-out added payment", FormatCurrency(a.CashOut.AddedMonthlyPayment))
	}
	if a.ExtraPayment != nil {
		s.add("Extra payment payoff", fmt.Sprintf("%d months (%d saved)", a.ExtraPayment.MonthsToPayoff, a.ExtraPayment.MonthsSaved))
		s.add("Extra payment interest saved", FormatCurrency(a.ExtraPayment.InterestSaved))
	}
	s.add("Refinance", yesNo(a.Recommendation.ShouldRefi))
	s.Notes = []string{a.Recommendation.Reason}
	return s
}

func taxSection(t *domain.TaxSummary) Section {
	o := t.Ordinary
	s := Section{Title: fmt.Sprintf("Federal Income Tax %d", o.TaxYear)}
	s.add("Filing status", o.FilingStatus.String())
	s.add("Gross income", FormatCurrency(o.GrossIncome))
	s.add("Deduction", FormatCurrency(o.Deduction))
	s.add("Taxable income", FormatCurrency(o.TaxableIncome))
	s.add("Ordinary tax", FormatCurrency(o.TotalTax))
	s.add("Marginal rate", FormatRate(o.MarginalRate))
	s.add("Effective rate", FormatRate(o.EffectiveRate))
	if t.CapitalGains.Gains.IsPositive() {
		s.add("Capital gains tax", FormatCurrency(t.CapitalGains.TotalTax))
	}
	if t.NIIT.NetInvestmentIncome.IsPositive() {
		s.add("NIIT", FormatCurrency(t.NIIT.Tax))
	}
	s.add("Total tax", FormatCurrency(t.TotalTax))

	table := &Table{Headers: []string{"Rate", "From", "To", "Amount", "Tax"}}
	for _, line := range o.Brackets {
		upper := "and up"
		if line.UpperBound != nil {
			upper = FormatCurrency(*line.UpperBound)
		}
		table.Rows = append(table.Rows, []string{
			FormatRate(line.Rate),
			FormatCurrency(line.LowerBound),
			upper,
			FormatCurrency(line.AmountInBracket),
			FormatCurrency(line.TaxPaid),
		})
	}
	s.Table = table
	return s
}

func rothSection(r *domain.RothConversionResult) Section {
	s := Section{Title: "Roth Conversion"}
	s.add("Conversion", FormatCurrency(r.Amount))
	s.add("Other income", FormatCurrency(r.OtherIncome))
	s.add("Tax before", FormatCurrency(r.TaxBefore))
	s.add("Tax after", FormatCurrency(r.TaxAfter))
	s.add("Incremental tax", FormatCurrency(r.IncrementalTax))
	s.add("Effective rate", FormatRate(r.EffectiveRate))
	s.add("Marginal rate", fmt.Sprintf("%s to %s", FormatRate(r.MarginalBefore), FormatRate(r.MarginalAfter)))
	if r.BracketHeadroom != nil {
		s.add("Bracket headroom", FormatCurrency(*r.BracketHeadroom))
	} else {
		s.add("Bracket headroom", "top bracket")
	}
	s.add("Crosses bracket", yesNo(r.CrossesBracket))
	return s
}

func rmdSection(r *domain.RMDResult) Section {
	s := Section{Title: "Required Minimum Distribution"}
	s.add("Age", strconv.Itoa(r.Age))
	s.add("Start age", strconv.Itoa(r.StartAge))
	s.add("Balance", FormatCurrency(r.Balance))
	s.add("Required", yesNo(r.Required))
	if r.Required {
		s.add("Divisor", r.Divisor.String())
	}
	s.add("RMD", FormatCurrency(r.Amount))
	return s
}

func piaSection(p *domain.PIAResult, claim *domain.ClaimingAdjustment) Section {
	s := Section{Title: "Social Security PIA"}
	s.add("AIME", FormatCurrency(p.AIME))
	s.add("Bend points", fmt.Sprintf("%s / %s", FormatCurrency(p.BendPoints[0]), FormatCurrency(p.BendPoints[1])))
	s.add("PIA", FormatCurrency(p.PIA))
	if claim != nil {
		s.add("Claiming age", fmt.Sprintf("%d years %d months", claim.ClaimAgeMonths/12, claim.ClaimAgeMonths%12))
		s.add("Full retirement age", fmt.Sprintf("%d years %d months", claim.FRAMonths/12, claim.FRAMonths%12))
		s.add("Adjustment factor", claim.Factor.String())
		s.add("Monthly benefit", FormatCurrency(claim.MonthlyBenefit))
	}
	t := &Table{Headers: []string{"Factor", "Amount", "Credit"}}
	for _, seg := range p.Segments {
		t.Rows = append(t.Rows, []string{FormatRate(seg.Factor), FormatCurrency(seg.Amount), FormatCurrency(seg.Credit)})
	}
	s.Table = t
	return s
}

func estateSection(e *domain.EstateTaxResult) Section {
	s := Section{Title: "Federal Estate Tax"}
	s.add("Estate", FormatCurrency(e.Estate))
	s.add("Married", yesNo(e.Married))
	s.add("Exemption", FormatCurrency(e.Exemption))
	s.add("Taxable estate", FormatCurrency(e.TaxableEstate))
	s.add("Rate", FormatRate(e.Rate))
	s.add("Tax", FormatCurrency(e.Tax))
	s.add("Effective rate", FormatRate(e.EffectiveRate))
	return s
}

func simulationSection(b *domain.BatchSummary) Section {
	s := Section{Title: "Monte Carlo Simulation"}
	s.add("Paths", strconv.Itoa(b.Paths))
	s.add("Years", strconv.Itoa(b.Years))
	s.add("Seed", strconv.FormatInt(b.Seed, 10))
	s.add("Returns", string(b.ReturnModel))
	s.add("Spending", string(b.Spending))
	s.add("Success rate", FormatRate(b.SuccessRate))
	s.add("Ruin rate", FormatRate(b.RuinRate))
	s.add("Ending balance P10", FormatCurrency(b.EndingBalance.P10))
	s.add("Ending balance P50", FormatCurrency(b.EndingBalance.P50))
	s.add("Ending balance P90", FormatCurrency(b.EndingBalance.P90))
	if b.MedianDepletionYear != nil {
		s.add("Median depletion year", strconv.Itoa(*b.MedianDepletionYear))
	} else {
		s.add("Median depletion year", "none")
	}
	s.add("Median max drawdown", FormatRate(b.MaxDrawdown.Median))
	s.add("Worst max drawdown", FormatRate(b.MaxDrawdown.Worst))
	s.add("Average withdrawn", FormatCurrency(b.AverageWithdrawn))
	if g := b.Guardrails; g != nil {
		s.add("Paths with spending cuts", strconv.Itoa(g.PathsCut))
		s.add("Paths with spending raises", strconv.Itoa(g.PathsRaised))
		s.add("Average cuts per path", g.AverageCuts.StringFixed(2))
		s.add("Average raises per path", g.AverageRaises.StringFixed(2))
	}

	t := &Table{Headers: []string{"Year", "P10", "P25", "P50", "P75", "P90"}}
	for i, band := range b.Bands {
		if band.Year%5 != 0 && i != len(b.Bands)-1 {
			continue
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(band.Year),
			FormatCurrency(band.P10),
			FormatCurrency(band.P25),
			FormatCurrency(band.P50),
			FormatCurrency(band.P75),
			FormatCurrency(band.P90),
		})
	}
	s.Table = t
	return s
}

func guardrailsSection(g *domain.GuardrailsResult) Section {
	s := Section{Title: "Guardrail Spending"}
	s.add("Initial withdrawal rate", FormatRate(g.InitialRate))
	s.add("Spending cuts", strconv.Itoa(g.Cuts))
	s.add("Spending raises", strconv.Itoa(g.Raises))
	s.add("Final withdrawal", FormatCurrency(g.FinalWithdrawal))
	s.add("Depleted", yesNo(g.Depleted))

	t := &Table{Headers: []string{"Year", "Withdrawal", "Balance"}}
	for i := range g.Withdrawals {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1),
			FormatCurrency(g.Withdrawals[i]),
			FormatCurrency(g.Balances[i]),
		})
	}
	s.Table = t
	return s
}

package compare

import (
	"fmt"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// Lasts labels.
const (
	LastsLifetime = "lifetime"
	LastsNever    = "never depletes"
)

// MetricsCalculator turns quotes and simulations into comparable rows
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// AnnuityRow summarizes a quote. The annuity leaves no balance, so its value at
// each age is the income paid so far.
func (mc *MetricsCalculator) AnnuityRow(quote domain.SPIAQuote) domain.ComparisonRow {
	name := "SPIA (single life)"
	if quote.JointLife {
		name = "SPIA (joint life)"
	}
	return domain.ComparisonRow{
		Strategy:              name,
		AnnualIncome:          quote.AnnualIncome,
		MonthlyIncome:         quote.MonthlyIncome,
		Lasts:                 LastsLifetime,
		ValueAt:               quote.LifetimeValue,
		IncomeDiffFromAnnuity: decimal.Zero,
	}
}

// WithdrawalRow summarizes a simulation. Its value at each age is the withdrawals
// taken through that age plus the remaining portfolio.
func (mc *MetricsCalculator) WithdrawalRow(sim domain.WithdrawalComparison) domain.ComparisonRow {
	row := domain.ComparisonRow{
		Strategy:      sim.RatePercent.String() + "% withdrawal",
		AnnualIncome:  sim.AnnualIncome,
		MonthlyIncome: sim.MonthlyIncome,
		Lasts:         LastsNever,
	}
	if sim.DepletionAge != nil {
		row.Lasts = fmt.Sprintf("age %d", *sim.DepletionAge)
	}

	for _, target := range domain.SnapshotAges {
		received := decimal.Zero
		balance := decimal.Zero
		for _, y := range sim.Path {
			if y.Age > target {
				break
			}
			received = received.Add(y.Withdrawal)
			balance = y.Balance
		}
		if len(sim.Path) == 0 || sim.StartAge >= target {
			balance = sim.Principal
		}
		row.ValueAt.Set(target, received.Add(balance))
	}
	return row
}

// CalculateComparison fills the income difference against the annuity row.
func (mc *MetricsCalculator) CalculateComparison(row, annuity domain.ComparisonRow) domain.ComparisonRow {
	row.IncomeDiffFromAnnuity = row.AnnualIncome.Sub(annuity.AnnualIncome)
	return row
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *domain.ComparisonSet) []string {
	recommendations := []string{}
	if len(compSet.Withdrawals) == 0 {
		return recommendations
	}

	// Highest sustainable rate: the largest income that never depletes
	var best *domain.WithdrawalComparison
	for i := range compSet.Withdrawals {
		w := &compSet.Withdrawals[i]
		if w.Depleted() {
			continue
		}
		if best == nil || w.AnnualIncome.GreaterThan(best.AnnualIncome) {
			best = w
		}
	}

	annuityIncome := compSet.Annuity.AnnualIncome
	if best != nil {
		recommendations = append(recommendations,
			"Sustainable: a "+best.RatePercent.String()+"% withdrawal pays $"+best.AnnualIncome.StringFixed(0)+
				"/yr and never depletes")
		if diff := annuityIncome.Sub(best.AnnualIncome); diff.IsPositive() {
			recommendations = append(recommendations,
				"Income: the annuity pays $"+diff.StringFixed(0)+"/yr more than the "+
					best.RatePercent.String()+"% withdrawal, with no balance left to heirs")
		}
		legacy := best.PortfolioAt.At90
		if legacy.IsPositive() {
			recommendations = append(recommendations,
				"Legacy: the "+best.RatePercent.String()+"% withdrawal still holds $"+legacy.StringFixed(0)+" at age 90")
		}
	} else {
		recommendations = append(recommendations,
			"Longevity: every withdrawal rate compared runs out; the annuity is the only lifetime income")
	}

	for _, w := range compSet.Withdrawals {
		if w.DepletionAge != nil && *w.DepletionAge <= domain.SnapshotAges[len(domain.SnapshotAges)-1] {
			recommendations = append(recommendations,
				fmt.Sprintf("Risk: a %s%% withdrawal runs out at age %d", w.RatePercent.String(), *w.DepletionAge))
		}
	}

	return recommendations
}

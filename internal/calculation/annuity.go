package calculation

import (
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// AnnuityCalculator estimates SPIA payouts from the tabulated payout rates.
type AnnuityCalculator struct {
	Rules domain.SPIARules
}

// NewAnnuityCalculator creates an annuity calculator over one payout table
func NewAnnuityCalculator(rules domain.SPIARules) *AnnuityCalculator {
	return &AnnuityCalculator{Rules: rules}
}

// PayoutRate returns the rate for the tabulated age nearest to age. Ties go to the
// lower tabulated age; ages outside the table clamp to the nearest end.
func (ac *AnnuityCalculator) PayoutRate(age int, gender domain.Gender, jointLife bool) (rate decimal.Decimal, tableAge int) {
	table := ac.Rules.Table(gender)
	if len(table) == 0 {
		return decimal.Zero, age
	}
	best := table[0]
	bestDiff := absInt(age - best.Age)
	for _, row := range table[1:] {
		if diff := absInt(age - row.Age); diff < bestDiff {
			best, bestDiff = row, diff
		}
	}
	rate = best.Rate
	if jointLife {
		rate = rate.Mul(one.Sub(ac.Rules.JointLifeDiscount))
	}
	return rate, best.Age
}

// EstimateSPIA quotes a single premium immediate annuity bought with lumpSum at age.
func (ac *AnnuityCalculator) EstimateSPIA(lumpSum decimal.Decimal, age int, gender domain.Gender, jointLife bool) domain.SPIAQuote {
	rate, tableAge := ac.PayoutRate(age, gender, jointLife)
	annual := lumpSum.Mul(rate)

	quote := domain.SPIAQuote{
		LumpSum:       lumpSum,
		Age:           age,
		Gender:        gender,
		JointLife:     jointLife,
		TableAge:      tableAge,
		PayoutRate:    rate,
		AnnualIncome:  annual,
		MonthlyIncome: annual.Div(twelve),
	}

	if annual.IsPositive() {
		years := lumpSum.Div(annual)
		quote.BreakEvenYears = domain.Finite(years)
		quote.BreakEvenAge = domain.Finite(years.Add(decimal.NewFromInt(int64(age))))
	} else {
		quote.BreakEvenYears = domain.Never()
		quote.BreakEvenAge = domain.Never()
	}

	for _, target := range domain.SnapshotAges {
		years := target - age
		if years < 0 {
			years = 0
		}
		quote.LifetimeValue.Set(target, annual.Mul(decimal.NewFromInt(int64(years))))
	}
	return quote
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

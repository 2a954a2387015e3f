package compare

import (
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// Estimator supplies the two calculations a comparison is built from.
type Estimator interface {
	EstimateSPIA(lumpSum decimal.Decimal, age int, gender domain.Gender, jointLife bool) domain.SPIAQuote
	SimulateWithdrawal(principal, ratePercent decimal.Decimal, startAge int, annualReturn decimal.Decimal) domain.WithdrawalComparison
}

// Comparer orchestrates annuity versus withdrawal comparisons. Rates and
// AnnualReturn apply when a request leaves them unset.
type Comparer struct {
	Estimator    Estimator
	Metrics      *MetricsCalculator
	Rates        []decimal.Decimal
	AnnualReturn decimal.Decimal
}

// NewComparer creates a new comparer with the caller's default rates and return
func NewComparer(est Estimator, rates []decimal.Decimal, annualReturn decimal.Decimal) *Comparer {
	return &Comparer{
		Estimator:    est,
		Metrics:      NewMetricsCalculator(),
		Rates:        rates,
		AnnualReturn: annualReturn,
	}
}

// Compare quotes one annuity for the lump sum and simulates drawing the same lump
// sum down at each requested rate.
func (c *Comparer) Compare(req domain.ComparisonRequest) *domain.ComparisonSet {
	rates := req.RatesPercent
	if len(rates) == 0 {
		rates = c.Rates
	}
	annualReturn := c.AnnualReturn
	if req.AnnualReturn != nil {
		annualReturn = *req.AnnualReturn
	}

	quote := c.Estimator.EstimateSPIA(req.LumpSum, req.Age, req.Gender, req.JointLife)
	annuity := c.Metrics.AnnuityRow(quote)

	compSet := &domain.ComparisonSet{
		Request:      req,
		Annuity:      annuity,
		Alternatives: make([]domain.ComparisonRow, 0, len(rates)),
		Quote:        quote,
		Withdrawals:  make([]domain.WithdrawalComparison, 0, len(rates)),
	}

	for _, rate := range rates {
		sim := c.Estimator.SimulateWithdrawal(req.LumpSum, rate, req.Age, annualReturn)
		row := c.Metrics.CalculateComparison(c.Metrics.WithdrawalRow(sim), annuity)
		compSet.Alternatives = append(compSet.Alternatives, row)
		compSet.Withdrawals = append(compSet.Withdrawals, sim)
	}

	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}

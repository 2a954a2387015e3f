package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// Monte Carlo defaults.
const (
	DefaultSimulationPaths = 1000
	DefaultSimulationYears = 30
)

// MonteCarloSimulator runs sustainable-withdrawal simulations over randomized returns.
type MonteCarloSimulator struct {
	Market  domain.MarketRules
	Logger  Logger
	history []float64
}

// NewMonteCarloSimulator creates a simulator drawing from the given market assumptions
func NewMonteCarloSimulator(market domain.MarketRules) *MonteCarloSimulator {
	series := market.ReturnSeries()
	history := make([]float64, len(series))
	for i, r := range series {
		history[i] = r.InexactFloat64()
	}
	return &MonteCarloSimulator{
		Market:  market,
		Logger:  NopLogger{},
		history: history,
	}
}

// pathParams are the float inputs shared by every path of a run.
type pathParams struct {
	years      int
	balance    float64
	withdrawal float64
	inflation  float64
	mean       float64
	stdDev     float64
	model      domain.ReturnModel
	spending   domain.SpendingStrategy
	bands      domain.GuardrailBands
}

// withDefaults resolves zero-valued settings against the simulator's market rules.
func (mcs *MonteCarloSimulator) withDefaults(cfg domain.SimulationConfig) domain.SimulationConfig {
	if cfg.Paths <= 0 {
		cfg.Paths = DefaultSimulationPaths
	}
	if cfg.Years <= 0 {
		cfg.Years = DefaultSimulationYears
	}
	if cfg.MeanReturn.IsZero() {
		cfg.MeanReturn = mcs.Market.MeanReturn
	}
	if cfg.StdDev.IsZero() {
		cfg.StdDev = mcs.Market.StdDev
	}
	if cfg.ReturnModel == "" {
		cfg.ReturnModel = domain.DefaultReturnModel
	}
	if cfg.Spending == "" {
		cfg.Spending = domain.SpendingFixedReal
	}
	if cfg.Spending == domain.SpendingGuardrails {
		cfg.Guardrails = WithGuardrailDefaults(cfg.Guardrails)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg
}

// Run simulates cfg.Paths independent paths. Path i draws from its own source seeded
// with cfg.Seed+i, so a fixed seed reproduces the batch regardless of scheduling.
func (mcs *MonteCarloSimulator) Run(ctx context.Context, cfg domain.SimulationConfig) (*domain.BatchSummary, error) {
	if !cfg.InitialBalance.IsPositive() {
		return nil, fmt.Errorf("initial balance must be positive: %w", domain.ErrInvalidInput)
	}
	if cfg.AnnualWithdrawal.IsNegative() {
		return nil, fmt.Errorf("annual withdrawal must not be negative: %w", domain.ErrInvalidInput)
	}
	cfg = mcs.withDefaults(cfg)
	if cfg.ReturnModel == domain.ReturnsHistorical && len(mcs.history) == 0 {
		return nil, fmt.Errorf("historical return model needs a return series in the rules: %w", domain.ErrInvalidInput)
	}

	params := pathParams{
		years:      cfg.Years,
		balance:    cfg.InitialBalance.InexactFloat64(),
		withdrawal: cfg.AnnualWithdrawal.InexactFloat64(),
		inflation:  cfg.Inflation.InexactFloat64(),
		mean:       cfg.MeanReturn.InexactFloat64(),
		stdDev:     cfg.StdDev.InexactFloat64(),
		model:      cfg.ReturnModel,
		spending:   cfg.Spending,
		bands:      cfg.Guardrails,
	}
	mcs.Logger.Debugf("monte carlo: paths=%d years=%d workers=%d seed=%d model=%s spending=%s",
		cfg.Paths, cfg.Years, cfg.Workers, cfg.Seed, cfg.ReturnModel, cfg.Spending)

	// Balances are stored column-major as floats, one column per year, so the
	// percentile bands can be read without holding a decimal per path-year.
	columns := make([][]float64, cfg.Years)
	for year := range columns {
		columns[year] = make([]float64, cfg.Paths)
	}
	outcomes := make([]pathOutcome, cfg.Paths)

	paths := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(cfg.Workers, cfg.Paths); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				rng := rand.New(rand.NewSource(cfg.Seed + int64(path)))
				outcomes[path] = mcs.runPath(path, params, rng, columns)
			}
		}()
	}

feed:
	for i := 0; i < cfg.Paths; i++ {
		select {
		case paths <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(paths)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("monte carlo simulation cancelled: %w", err)
	}

	summary := summarize(outcomes, columns, cfg)
	mcs.Logger.Infof("monte carlo: success rate %s over %d paths", summary.SuccessRate.StringFixed(4), cfg.Paths)
	return summary, nil
}

// pathOutcome is what one path contributes to the summary besides its balances.
type pathOutcome struct {
	depletionYear int // 0 when the money lasted
	ending        float64
	maxDrawdown   float64
	withdrawn     float64
	cuts          int
	raises        int
}

// drawReturn samples one year's market return.
func (mcs *MonteCarloSimulator) drawReturn(p pathParams, rng *rand.Rand) float64 {
	if p.model == domain.ReturnsHistorical {
		return mcs.history[rng.Intn(len(mcs.history))]
	}
	return p.mean + p.stdDev*rng.NormFloat64()
}

// runPath simulates one path: each year the balance grows, then the withdrawal is
// taken, then drawdown from the running peak is tracked. The year-end balance goes
// into columns[year][path].
func (mcs *MonteCarloSimulator) runPath(path int, p pathParams, rng *rand.Rand, columns [][]float64) pathOutcome {
	var out pathOutcome
	balance := p.balance
	peak := balance

	var guard *guardrailState
	if p.spending == domain.SpendingGuardrails {
		guard = newGuardrailState(p.balance, p.withdrawal, p.bands)
	}
	withdrawal := p.withdrawal

	for year := 0; year < p.years; year++ {
		if out.depletionYear > 0 {
			columns[year][path] = 0
			continue
		}

		balance *= 1 + mcs.drawReturn(p, rng)
		if year > 0 {
			if guard != nil {
				var moved int
				withdrawal, moved = guard.next(balance, p.inflation)
				switch moved {
				case -1:
					out.cuts++
				case 1:
					out.raises++
				}
			} else {
				withdrawal *= 1 + p.inflation
			}
		}

		if withdrawal >= balance {
			out.withdrawn += math.Max(balance, 0)
			balance = 0
			out.depletionYear = year + 1
		} else {
			out.withdrawn += withdrawal
			balance -= withdrawal
		}

		if balance > peak {
			peak = balance
		}
		if peak > 0 {
			if dd := (peak - balance) / peak; dd > out.maxDrawdown {
				out.maxDrawdown = dd
			}
		}
		columns[year][path] = balance
	}
	out.ending = balance
	return out
}

// summarize aggregates per-path outcomes into success rates and percentile bands.
// It sorts the balance columns in place.
func summarize(outcomes []pathOutcome, columns [][]float64, cfg domain.SimulationConfig) *domain.BatchSummary {
	n := len(outcomes)
	successes := 0
	var depletions []int
	ending := make([]float64, n)
	drawdowns := make([]float64, n)
	withdrawn := 0.0
	var cuts, raises, pathsCut, pathsRaised int
	for i, o := range outcomes {
		if o.depletionYear == 0 {
			successes++
		} else {
			depletions = append(depletions, o.depletionYear)
		}
		ending[i] = o.ending
		drawdowns[i] = o.maxDrawdown
		withdrawn += o.withdrawn
		cuts += o.cuts
		raises += o.raises
		if o.cuts > 0 {
			pathsCut++
		}
		if o.raises > 0 {
			pathsRaised++
		}
	}

	successRate := decimal.Zero
	if n > 0 {
		successRate = decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(n)))
	}

	summary := &domain.BatchSummary{
		Paths:         n,
		Years:         cfg.Years,
		Seed:          cfg.Seed,
		Spending:      cfg.Spending,
		ReturnModel:   cfg.ReturnModel,
		SuccessRate:   successRate,
		RuinRate:      one.Sub(successRate),
		EndingBalance: percentiles(ending),
	}
	if n > 0 {
		sort.Float64s(drawdowns)
		summary.MaxDrawdown = domain.DrawdownStats{
			Median: decimal.NewFromFloat(percentile(drawdowns, 0.5)).Round(4),
			Worst:  decimal.NewFromFloat(drawdowns[n-1]).Round(4),
		}
		summary.AverageWithdrawn = cents(withdrawn / float64(n))
	}
	if cfg.Spending == domain.SpendingGuardrails && n > 0 {
		summary.Guardrails = &domain.GuardrailActivity{
			PathsCut:      pathsCut,
			PathsRaised:   pathsRaised,
			AverageCuts:   decimal.NewFromFloat(float64(cuts) / float64(n)).Round(2),
			AverageRaises: decimal.NewFromFloat(float64(raises) / float64(n)).Round(2),
		}
	}

	if len(depletions) > 0 {
		sort.Ints(depletions)
		median := depletions[(len(depletions)-1)/2]
		summary.MedianDepletionYear = &median
	}

	summary.Bands = make([]domain.YearBand, 0, len(columns))
	for year, column := range columns {
		sort.Float64s(column)
		summary.Bands = append(summary.Bands, domain.YearBand{Year: year + 1, Percentiles: sortedPercentiles(column)})
	}
	return summary
}

// percentiles sorts a copy of values and reads P10 through P90 by linear interpolation.
func percentiles(values []float64) domain.Percentiles {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sortedPercentiles(sorted)
}

func sortedPercentiles(sorted []float64) domain.Percentiles {
	return domain.Percentiles{
		P10: cents(percentile(sorted, 0.10)),
		P25: cents(percentile(sorted, 0.25)),
		P50: cents(percentile(sorted, 0.50)),
		P75: cents(percentile(sorted, 0.75)),
		P90: cents(percentile(sorted, 0.90)),
	}
}

func percentile(sorted []float64, p float64) float64 {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

package calculation

import (
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// Default Guyton-Klinger bands: act when the current withdrawal rate moves more than
// 20% away from the initial rate, and move spending by 10%.
var (
	DefaultGuardrailUpper      = decimal.NewFromFloat(1.20)
	DefaultGuardrailLower      = decimal.NewFromFloat(0.80)
	DefaultGuardrailAdjustment = decimal.NewFromFloat(0.10)
)

// WithGuardrailDefaults fills any zero band with its default.
func WithGuardrailDefaults(b domain.GuardrailBands) domain.GuardrailBands {
	if !b.Upper.IsPositive() {
		b.Upper = DefaultGuardrailUpper
	}
	if !b.Lower.IsPositive() {
		b.Lower = DefaultGuardrailLower
	}
	if !b.Adjustment.IsPositive() {
		b.Adjustment = DefaultGuardrailAdjustment
	}
	return b
}

// guardrailState carries spending from year to year along one path.
type guardrailState struct {
	initialRate float64
	withdrawal  float64
	upper       float64
	lower       float64
	adjustment  float64
}

func newGuardrailState(balance, withdrawal float64, bands domain.GuardrailBands) *guardrailState {
	bands = WithGuardrailDefaults(bands)
	g := &guardrailState{
		withdrawal: withdrawal,
		upper:      bands.Upper.InexactFloat64(),
		lower:      bands.Lower.InexactFloat64(),
		adjustment: bands.Adjustment.InexactFloat64(),
	}
	if balance > 0 {
		g.initialRate = withdrawal / balance
	}
	return g
}

// next inflates last year's withdrawal and applies the capital-preservation or
// prosperity rule against the current balance. It returns -1 on a cut, 1 on a raise.
func (g *guardrailState) next(balance, inflation float64) (float64, int) {
	g.withdrawal *= 1 + inflation
	if g.initialRate <= 0 || balance <= 0 {
		return g.withdrawal, 0
	}

	ratio := g.withdrawal / balance / g.initialRate
	switch {
	case ratio > g.upper:
		g.withdrawal *= 1 - g.adjustment
		return g.withdrawal, -1
	case ratio < g.lower:
		g.withdrawal *= 1 + g.adjustment
		return g.withdrawal, 1
	}
	return g.withdrawal, 0
}

// ApplyGuardrails runs one path against a known sequence of annual returns. Each year
// the balance grows first, then the withdrawal is taken; the first year's withdrawal
// is never adjusted.
func ApplyGuardrails(cfg domain.GuardrailsConfig, returns []decimal.Decimal) domain.GuardrailsResult {
	balance := cfg.InitialBalance.InexactFloat64()
	inflation := cfg.Inflation.InexactFloat64()
	state := newGuardrailState(balance, cfg.InitialWithdrawal.InexactFloat64(), cfg.Bands)

	result := domain.GuardrailsResult{
		InitialRate: decimal.NewFromFloat(state.initialRate).Round(6),
		Withdrawals: make([]decimal.Decimal, 0, len(returns)),
		Balances:    make([]decimal.Decimal, 0, len(returns)),
	}

	for year, r := range returns {
		balance *= 1 + r.InexactFloat64()
		withdrawal := state.withdrawal
		if year > 0 {
			var moved int
			withdrawal, moved = state.next(balance, inflation)
			switch moved {
			case -1:
				result.Cuts++
			case 1:
				result.Raises++
			}
		}

		if withdrawal >= balance {
			withdrawal = balance
			result.Depleted = true
		}
		balance -= withdrawal

		result.Withdrawals = append(result.Withdrawals, cents(withdrawal))
		result.Balances = append(result.Balances, cents(balance))
		if result.Depleted {
			break
		}
	}

	result.FinalWithdrawal = cents(state.withdrawal)
	if n := len(result.Withdrawals); n > 0 {
		result.FinalWithdrawal = result.Withdrawals[n-1]
	}
	return result
}

func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

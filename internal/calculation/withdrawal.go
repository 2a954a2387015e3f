package calculation

import (
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxWithdrawalYears bounds the fixed-rate withdrawal simulation.
const MaxWithdrawalYears = 50

var (
	// DefaultWithdrawalReturn is the constant annual return assumed when none is given.
	DefaultWithdrawalReturn = decimal.NewFromFloat(0.05)
	// DefaultWithdrawalRates are the rates compared against an annuity, in percent.
	DefaultWithdrawalRates = []decimal.Decimal{decimal.NewFromInt(3), decimal.NewFromInt(4), decimal.NewFromInt(5)}

	hundred = decimal.NewFromInt(100)
)

// SimulateWithdrawal draws ratePercent of the starting principal every year from a
// portfolio growing at annualReturn: each year the balance grows, then the
// withdrawal comes out. The first year the balance reaches zero is recorded as
// depletion and the simulation stops. Snapshot ages are taken at the end of the
// year in which they are reached; ages not reached report zero.
func SimulateWithdrawal(principal, ratePercent decimal.Decimal, startAge int, annualReturn decimal.Decimal) domain.WithdrawalComparison {
	withdrawal := principal.Mul(ratePercent).Div(hundred)
	growth := one.Add(annualReturn)

	result := domain.WithdrawalComparison{
		Principal:     principal,
		RatePercent:   ratePercent,
		AnnualReturn:  annualReturn,
		StartAge:      startAge,
		AnnualIncome:  withdrawal,
		MonthlyIncome: withdrawal.Div(twelve),
		Path:          make([]domain.WithdrawalYear, 0, MaxWithdrawalYears),
	}

	balance := principal
	for year := 1; year <= MaxWithdrawalYears; year++ {
		age := startAge + year
		balance = balance.Mul(growth).Sub(withdrawal)
		depleted := !balance.IsPositive()
		if depleted {
			balance = decimal.Zero
		}

		result.Path = append(result.Path, domain.WithdrawalYear{
			Year:       year,
			Age:        age,
			Withdrawal: withdrawal,
			Balance:    balance,
		})
		result.PortfolioAt.Set(age, balance)

		if depleted {
			y, a := year, age
			result.YearsUntilDepletion = &y
			result.DepletionAge = &a
			break
		}
	}
	return result
}

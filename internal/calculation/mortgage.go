package calculation

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// ExtraPaymentMonthCap bounds the extra-payment amortization loop.
const ExtraPaymentMonthCap = 360

var (
	// PointRateReduction is the rate cut bought by one discount point.
	PointRateReduction = decimal.NewFromFloat(0.0025)
	// PointCost is the share of the loan one point costs.
	PointCost = decimal.NewFromFloat(0.01)

	maxBreakevenMonths = decimal.NewFromInt(60)
	minRateReduction   = decimal.NewFromFloat(0.005)
	excellentBreakeven = decimal.NewFromInt(24)
	goodBreakeven      = decimal.NewFromInt(36)
)

// MonthlyPayment is the level payment that amortizes principal over months at
// annualRate, rounded to cents. A zero rate spreads principal evenly.
func MonthlyPayment(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return principal
	}
	n := decimal.NewFromInt(int64(months))
	if !annualRate.IsPositive() {
		return principal.Div(n).Round(2)
	}
	r := annualRate.Div(twelve)
	growth := decimal.NewFromFloat(math.Pow(1+r.InexactFloat64(), float64(months)))
	return principal.Mul(r).Mul(growth).Div(growth.Sub(one)).Round(2)
}

// TotalInterest is every payment over the term less the principal repaid.
func TotalInterest(payment, principal decimal.Decimal, months int) decimal.Decimal {
	return payment.Mul(decimal.NewFromInt(int64(months))).Sub(principal)
}

// BreakevenMonths divides an up-front cost by a monthly saving, unbounded when
// nothing is saved. The quotient is kept exact; rounding is left to display.
func BreakevenMonths(cost, monthlySavings decimal.Decimal) domain.Horizon {
	if !monthlySavings.IsPositive() {
		return domain.Never()
	}
	return domain.Finite(cost.Div(monthlySavings))
}

// PayoffWithExtra amortizes month by month paying the scheduled payment plus extra,
// stopping at payoff or after ExtraPaymentMonthCap months.
func PayoffWithExtra(principal, annualRate decimal.Decimal, months int, extra decimal.Decimal) domain.PayoffSchedule {
	scheduled := MonthlyPayment(principal, annualRate, months)
	payment := scheduled.Add(extra)
	r := annualRate.Div(twelve)

	balance := principal
	interestPaid := decimal.Zero
	month := 0
	for month < ExtraPaymentMonthCap && balance.IsPositive() {
		month++
		interest := balance.Mul(r).Round(2)
		interestPaid = interestPaid.Add(interest)
		balance = balance.Add(interest).Sub(payment)
	}

	result := domain.PayoffSchedule{
		ExtraMonthlyPayment: extra,
		MonthsToPayoff:      month,
		PaidOff:             !balance.IsPositive(),
		TotalInterest:       interestPaid.Round(2),
	}
	result.InterestSaved = TotalInterest(scheduled, principal, months).Sub(result.TotalInterest).Round(2)
	if result.PaidOff && months > month {
		result.MonthsSaved = months - month
	}
	return result
}

// CalculateRefinance compares keeping the current loan with the offered one.
func CalculateRefinance(in domain.RefinanceInput) domain.RefinanceAnalysis {
	newMonths := in.NewTermYears * 12
	principal := in.CurrentBalance.Add(in.CashOut)

	rate := in.NewRate.Sub(in.Points.Mul(PointRateReduction))
	if rate.IsNegative() {
		rate = decimal.Zero
	}
	pointsCost := principal.Mul(in.Points).Mul(PointCost).Round(2)

	currentPayment := MonthlyPayment(in.CurrentBalance, in.CurrentRate, in.RemainingMonths)
	newPayment := MonthlyPayment(principal, rate, newMonths)
	closing := in.ClosingCosts.Add(pointsCost)
	savings := currentPayment.Sub(newPayment)

	a := domain.RefinanceAnalysis{
		NewPrincipal:         principal,
		EffectiveNewRate:     rate,
		CurrentPayment:       currentPayment,
		NewPayment:           newPayment,
		MonthlySavings:       savings,
		TotalClosingCosts:    closing,
		BreakevenMonths:      BreakevenMonths(closing, savings),
		TotalInterestCurrent: TotalInterest(currentPayment, in.CurrentBalance, in.RemainingMonths),
		TotalInterestNew:     TotalInterest(newPayment, principal, newMonths),
	}
	a.BreakevenYears = a.BreakevenMonths.Div(twelve)
	a.InterestSavings = a.TotalInterestCurrent.Sub(a.TotalInterestNew)
	a.Term = analyzeTerm(in.RemainingMonths, newMonths, currentPayment, newPayment, closing)

	if in.Points.IsPositive() {
		withoutPoints := MonthlyPayment(principal, in.NewRate, newMonths)
		pointSavings := withoutPoints.Sub(newPayment)
		a.Points = &domain.PointsAnalysis{
			Points:          in.Points,
			Cost:            pointsCost,
			RateReduction:   in.NewRate.Sub(rate),
			MonthlySavings:  pointSavings,
			BreakevenMonths: BreakevenMonths(pointsCost, pointSavings),
		}
	}

	if in.CashOut.IsPositive() {
		withoutCash := MonthlyPayment(in.CurrentBalance, rate, newMonths)
		a.CashOut = &domain.CashOutAnalysis{
			Amount:              in.CashOut,
			AddedMonthlyPayment: newPayment.Sub(withoutCash),
			AddedTotalInterest:  a.TotalInterestNew.Sub(TotalInterest(withoutCash, in.CurrentBalance, newMonths)),
			BreakevenMonths:     BreakevenMonths(closing, currentPayment.Sub(withoutCash)),
		}
	}

	if in.ExtraMonthlyPayment.IsPositive() {
		p := PayoffWithExtra(principal, rate, newMonths, in.ExtraMonthlyPayment)
		a.ExtraPayment = &p
	}

	a.Recommendation = recommendRefinance(in, a)
	return a
}

func analyzeTerm(remaining, newMonths int, currentPayment, newPayment, closing decimal.Decimal) domain.TermAnalysis {
	t := domain.TermAnalysis{
		RemainingMonths:  remaining,
		NewTermMonths:    newMonths,
		ExtendsTerm:      newMonths > remaining,
		TotalCostCurrent: currentPayment.Mul(decimal.NewFromInt(int64(remaining))),
		TotalCostNew:     newPayment.Mul(decimal.NewFromInt(int64(newMonths))).Add(closing),
	}
	if t.ExtendsTerm {
		t.MonthsAdded = newMonths - remaining
	}

	diff := t.TotalCostCurrent.Sub(t.TotalCostNew).Abs().StringFixed(0)
	switch {
	case t.TotalCostNew.LessThan(t.TotalCostCurrent):
		t.Verdict = fmt.Sprintf("Refinancing lowers the total remaining cost by $%s", diff)
	case t.ExtendsTerm:
		t.Verdict = fmt.Sprintf("Lower payment, but %d extra months of payments raise the total cost by $%s", t.MonthsAdded, diff)
	default:
		t.Verdict = fmt.Sprintf("Refinancing raises the total remaining cost by $%s", diff)
	}
	return t
}

func recommendRefinance(in domain.RefinanceInput, a domain.RefinanceAnalysis) domain.Recommendation {
	if !a.BreakevenMonths.IsFinite() {
		return domain.Recommendation{ShouldRefi: false, Reason: "The new payment is not lower, so the closing costs are never recovered"}
	}
	if a.BreakevenMonths.Exceeds(maxBreakevenMonths) {
		return domain.Recommendation{
			ShouldRefi: false,
			Reason:     fmt.Sprintf("Breakeven takes %s months, longer than five years", a.BreakevenMonths.StringFixed(0)),
		}
	}
	if in.CurrentRate.Sub(a.EffectiveNewRate).LessThan(minRateReduction) && !in.CashOut.IsPositive() {
		return domain.Recommendation{ShouldRefi: false, Reason: "The rate drops by less than half a point; not worth the closing costs"}
	}

	months := a.BreakevenMonths.StringFixed(0)
	switch {
	case !a.BreakevenMonths.Exceeds(excellentBreakeven):
		return domain.Recommendation{ShouldRefi: true, Reason: fmt.Sprintf("Excellent: closing costs are recovered in %s months", months)}
	case !a.BreakevenMonths.Exceeds(goodBreakeven):
		return domain.Recommendation{ShouldRefi: true, Reason: fmt.Sprintf("Good: closing costs are recovered in %s months", months)}
	default:
		return domain.Recommendation{ShouldRefi: true, Reason: fmt.Sprintf("Worth it if you stay in the home longer than %s months", months)}
	}
}

package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal as USD with thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatPercentage formats a value that is already a percentage.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fraction (0.067) as a percentage (6.70%).
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Mul(hundred)) }

func formatHorizon(h domain.Horizon, unit string) string {
	if !h.IsFinite() {
		return "never"
	}
	if unit == "" {
		return h.StringFixed(1)
	}
	return fmt.Sprintf("%s %s", h.StringFixed(1), unit)
}

func formatDepletion(age *int) string {
	if age == nil {
		return "never"
	}
	return fmt.Sprintf("age %d", *age)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing the annuity with each withdrawal rate
func (tf *TableFormatter) Format(compSet *domain.ComparisonSet) string {
	var sb strings.Builder
	req := compSet.Request

	sb.WriteString("ANNUITY VS WITHDRAWAL COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Lump Sum: $%s at age %d (%s)\n", req.LumpSum.StringFixed(0), req.Age, req.Gender))
	sb.WriteString(fmt.Sprintf("Payout Rate: %s%% (table age %d)\n",
		compSet.Quote.PayoutRate.Mul(decimal.NewFromInt(100)).StringFixed(2), compSet.Quote.TableAge))
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Strategy",
		numWidth, "Annual",
		numWidth, "Monthly",
		numWidth, "Lasts",
		numWidth, "Value @ 90",
		numWidth, "vs Annuity"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	sb.WriteString(tf.formatRow(compSet.Annuity, nameWidth, numWidth, true))

	if len(compSet.Alternatives) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.Alternatives {
			sb.WriteString(tf.formatRow(alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single strategy row
func (tf *TableFormatter) formatRow(row domain.ComparisonRow, nameWidth, numWidth int, isAnnuity bool) string {
	diff := "-"
	if !isAnnuity {
		diff = tf.deltaSymbol(row.IncomeDiffFromAnnuity) + "$" + tf.formatDecimal(row.IncomeDiffFromAnnuity.Abs())
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(row.Strategy, nameWidth),
		numWidth, "$"+tf.formatDecimal(row.AnnualIncome),
		numWidth, "$"+row.MonthlyIncome.StringFixed(2),
		numWidth, tf.truncate(row.Lasts, numWidth),
		numWidth, "$"+tf.formatDecimal(row.ValueAt.At90),
		numWidth, diff)
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + or - symbol for deltas
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return ""
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary of each strategy
func (tf *TableFormatter) FormatCompact(compSet *domain.ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: $%s/yr", compSet.Annuity.Strategy, tf.formatDecimal(compSet.Annuity.AnnualIncome)))

	for _, alt := range compSet.Alternatives {
		sb.WriteString(" | ")
		sb.WriteString(fmt.Sprintf("%s: $%s/yr (%s)", alt.Strategy, tf.formatDecimal(alt.AnnualIncome), alt.Lasts))
	}

	return sb.String()
}

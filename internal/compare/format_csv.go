package compare

import (
	"encoding/csv"
	"strings"

	"github.com/rgehrsitz/rpkit/internal/domain"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *domain.ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Strategy",
		"Type",
		"Annual Income",
		"Monthly Income",
		"Lasts",
		"Value at 85",
		"Value at 90",
		"Value at 95",
		"Income Diff from Annuity",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.Annuity, "annuity")); err != nil {
		return "", err
	}

	for _, alt := range compSet.Alternatives {
		if err := writer.Write(cf.formatRow(alt, "withdrawal")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison row as a CSV record
func (cf *CSVFormatter) formatRow(row domain.ComparisonRow, rowType string) []string {
	return []string{
		row.Strategy,
		rowType,
		row.AnnualIncome.StringFixed(2),
		row.MonthlyIncome.StringFixed(2),
		row.Lasts,
		row.ValueAt.At85.StringFixed(2),
		row.ValueAt.At90.StringFixed(2),
		row.ValueAt.At95.StringFixed(2),
		row.IncomeDiffFromAnnuity.StringFixed(2),
	}
}

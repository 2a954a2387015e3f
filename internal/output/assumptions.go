package output

import "fmt"

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"SPIA quotes use the payout table for the nearest tabulated age at or below the buyer's age",
	"Withdrawal paths assume a constant nominal return and a level withdrawal",
	"FIRE projections use a real (after-inflation) return",
	"Tax brackets are not indexed beyond the loaded tax year",
	"Monte Carlo paths are independent; historical returns are resampled with replacement",
}

// assumptionsFor prefixes the defaults with the rules year the report was run against.
func assumptionsFor(taxYear int) []string {
	out := make([]string, 0, len(DefaultAssumptions)+1)
	if taxYear > 0 {
		out = append(out, fmt.Sprintf("Federal tables: %d rules", taxYear))
	}
	return append(out, DefaultAssumptions...)
}

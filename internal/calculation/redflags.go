package calculation

import (
	"fmt"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
)

// Red flag names, in evaluation order.
const (
	FlagHighCommission = "high_commission"
	FlagLongSurrender  = "long_surrender"
	FlagAnnuityInIRA   = "annuity_in_ira"
	FlagHighFees       = "high_fees"
	FlagConcentration  = "concentration"
	FlagPremiumBonus   = "premium_bonus"
)

var (
	commissionCritical    = decimal.NewFromInt(7)
	commissionWarning     = decimal.NewFromInt(5)
	feesCritical          = decimal.NewFromInt(3)
	feesWarning           = decimal.NewFromInt(2)
	concentrationCritical = decimal.NewFromInt(50)
	concentrationWarning  = decimal.NewFromInt(30)
	bonusWarning          = decimal.NewFromInt(10)
)

const (
	surrenderCriticalYears = 7
	surrenderWarningYears  = 5
)

// redFlagRule returns the flag it raises, or ok=false.
type redFlagRule func(c domain.AnnuityContract) (flag domain.RedFlag, ok bool)

var redFlagRules = []redFlagRule{
	commissionRule,
	surrenderRule,
	iraRule,
	feesRule,
	concentrationRule,
	premiumBonusRule,
}

// CheckRedFlags evaluates every rule independently and returns the triggered flags
// in rule order. The result is empty, not nil, when nothing triggers.
func CheckRedFlags(contract domain.AnnuityContract) []domain.RedFlag {
	flags := []domain.RedFlag{}
	for _, rule := range redFlagRules {
		if flag, ok := rule(contract); ok {
			flags = append(flags, flag)
		}
	}
	return flags
}

// HighestSeverity returns the worst severity in flags and false when flags is empty.
func HighestSeverity(flags []domain.RedFlag) (domain.Severity, bool) {
	if len(flags) == 0 {
		return domain.SeverityInfo, false
	}
	worst := flags[0].Severity
	for _, f := range flags[1:] {
		if f.Severity > worst {
			worst = f.Severity
		}
	}
	return worst, true
}

func commissionRule(c domain.AnnuityContract) (domain.RedFlag, bool) {
	var sev domain.Severity
	switch {
	case c.CommissionPercent.GreaterThanOrEqual(commissionCritical):
		sev = domain.SeverityCritical
	case c.CommissionPercent.GreaterThanOrEqual(commissionWarning):
		sev = domain.SeverityWarning
	default:
		return domain.RedFlag{}, false
	}
	return domain.RedFlag{
		Name:     FlagHighCommission,
		Severity: sev,
		Description: fmt.Sprintf("Agent commission of %s%% is paid out of your premium; the seller has a strong incentive to recommend this product.",
			c.CommissionPercent.StringFixed(1)),
	}, true
}

func surrenderRule(c domain.AnnuityContract) (domain.RedFlag, bool) {
	var sev domain.Severity
	switch {
	case c.SurrenderYears > surrenderCriticalYears:
		sev = domain.SeverityCritical
	case c.SurrenderYears > surrenderWarningYears:
		sev = domain.SeverityWarning
	default:
		return domain.RedFlag{}, false
	}
	return domain.RedFlag{
		Name:        FlagLongSurrender,
		Severity:    sev,
		Description: fmt.Sprintf("A %d-year surrender period locks up your money; early withdrawals above the free amount are penalised.", c.SurrenderYears),
	}, true
}

func iraRule(c domain.AnnuityContract) (domain.RedFlag, bool) {
	if !c.IsInIRA {
		return domain.RedFlag{}, false
	}
	return domain.RedFlag{
		Name:        FlagAnnuityInIRA,
		Severity:    domain.SeverityCritical,
		Description: "An IRA is already tax-deferred; buying an annuity inside it pays for tax deferral twice.",
	}, true
}

func feesRule(c domain.AnnuityContract) (domain.RedFlag, bool) {
	var sev domain.Severity
	switch {
	case c.AnnualFeesPercent.GreaterThanOrEqual(feesCritical):
		sev = domain.SeverityCritical
	case c.AnnualFeesPercent.GreaterThanOrEqual(feesWarning):
		sev = domain.SeverityWarning
	default:
		return domain.RedFlag{}, false
	}
	return domain.RedFlag{
		Name:        FlagHighFees,
		Severity:    sev,
		Description: fmt.Sprintf("Total annual fees of %s%% compound against you every year.", c.AnnualFeesPercent.StringFixed(2)),
	}, true
}

func concentrationRule(c domain.AnnuityContract) (domain.RedFlag, bool) {
	var sev domain.Severity
	switch {
	case c.ConcentrationPercent.GreaterThan(concentrationCritical):
		sev = domain.SeverityCritical
	case c.ConcentrationPercent.GreaterThan(concentrationWarning):
		sev = domain.SeverityWarning
	default:
		return domain.RedFlag{}, false
	}
	return domain.RedFlag{
		Name:        FlagConcentration,
		Severity:    sev,
		Description: fmt.Sprintf("%s%% of your portfolio would sit in a single illiquid contract.", c.ConcentrationPercent.StringFixed(0)),
	}, true
}

func premiumBonusRule(c domain.AnnuityContract) (domain.RedFlag, bool) {
	var sev domain.Severity
	switch {
	case c.PremiumBonusPercent.GreaterThanOrEqual(bonusWarning):
		sev = domain.SeverityWarning
	case c.PremiumBonusPercent.IsPositive():
		sev = domain.SeverityInfo
	default:
		return domain.RedFlag{}, false
	}
	return domain.RedFlag{
		Name:        FlagPremiumBonus,
		Severity:    sev,
		Description: fmt.Sprintf("A %s%% premium bonus is usually recovered through longer surrender periods or lower caps.", c.PremiumBonusPercent.StringFixed(1)),
	}, true
}

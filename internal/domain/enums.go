package domain

import (
	"fmt"
	"strings"
)

// FilingStatus selects the federal bracket schedule.
type FilingStatus string

const (
	FilingSingle               FilingStatus = "single"
	FilingMarriedFilingJointly FilingStatus = "married_filing_jointly"
)

// ParseFilingStatus accepts the canonical names plus the short forms used on the
// command line ("mfj", "married").
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "":
		return FilingSingle, nil
	case "married_filing_jointly", "mfj", "married", "joint":
		return FilingMarriedFilingJointly, nil
	default:
		return "", fmt.Errorf("filing status %q: %w", s, ErrUnknownEnum)
	}
}

func (f FilingStatus) String() string { return string(f) }

// Gender selects the SPIA payout column.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("gender %q: %w", s, ErrUnknownEnum)
	}
}

// WithdrawalRule is the safe-withdrawal assumption behind a FIRE number.
type WithdrawalRule string

const (
	FourPercentRule  WithdrawalRule = "4_percent"
	ThreePercentRule WithdrawalRule = "3_percent"
)

func ParseWithdrawalRule(s string) (WithdrawalRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "4_percent", "4", "4%", "":
		return FourPercentRule, nil
	case "3_percent", "3", "3%":
		return ThreePercentRule, nil
	default:
		return "", fmt.Errorf("withdrawal rule %q: %w", s, ErrUnknownEnum)
	}
}

// FIREVariant changes how the target number is derived.
type FIREVariant string

const (
	FIRETraditional FIREVariant = "traditional"
	FIRECoast       FIREVariant = "coast"
	FIREBarista     FIREVariant = "barista"
)

func ParseFIREVariant(s string) (FIREVariant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "traditional", "":
		return FIRETraditional, nil
	case "coast":
		return FIRECoast, nil
	case "barista":
		return FIREBarista, nil
	default:
		return "", fmt.Errorf("FIRE variant %q: %w", s, ErrUnknownEnum)
	}
}

// Severity orders red flags. Higher is worse.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalText renders the severity by name in JSON and YAML.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "critical":
		*s = SeverityCritical
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("severity %q: %w", string(b), ErrUnknownEnum)
	}
	return nil
}

// SpendingStrategy selects how the Monte Carlo engine sets each year's withdrawal.
type SpendingStrategy string

const (
	SpendingFixedReal  SpendingStrategy = "fixed_real"
	SpendingGuardrails SpendingStrategy = "guardrails"
)

func ParseSpendingStrategy(s string) (SpendingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed_real", "fixed", "inflation_adjusted", "":
		return SpendingFixedReal, nil
	case "guardrails", "guyton_klinger":
		return SpendingGuardrails, nil
	default:
		return "", fmt.Errorf("spending strategy %q: %w", s, ErrUnknownEnum)
	}
}

// ReturnModel selects how annual market returns are drawn.
type ReturnModel string

const (
	ReturnsHistorical  ReturnModel = "historical"
	ReturnsStatistical ReturnModel = "statistical"
)

// DefaultReturnModel applies wherever a request leaves the model unset.
const DefaultReturnModel = ReturnsHistorical

func ParseReturnModel(s string) (ReturnModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultReturnModel, nil
	case "historical", "bootstrap":
		return ReturnsHistorical, nil
	case "statistical", "normal":
		return ReturnsStatistical, nil
	default:
		return "", fmt.Errorf("return model %q: %w", s, ErrUnknownEnum)
	}
}

// UnmarshalText lets request files use any accepted spelling.
func (f *FilingStatus) UnmarshalText(b []byte) error {
	v, err := ParseFilingStatus(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (g *Gender) UnmarshalText(b []byte) error {
	v, err := ParseGender(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

func (w *WithdrawalRule) UnmarshalText(b []byte) error {
	v, err := ParseWithdrawalRule(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

func (v *FIREVariant) UnmarshalText(b []byte) error {
	p, err := ParseFIREVariant(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}

func (s *SpendingStrategy) UnmarshalText(b []byte) error {
	v, err := ParseSpendingStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (m *ReturnModel) UnmarshalText(b []byte) error {
	v, err := ParseReturnModel(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

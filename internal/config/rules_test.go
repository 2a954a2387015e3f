package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedTaxYears(t *testing.T) {
	assert.Equal(t, []int{2025, 2026}, SupportedTaxYears())
}

func TestLoadRules_2026(t *testing.T) {
	rules, err := LoadRules(2026)
	require.NoError(t, err)

	assert.Equal(t, 2026, rules.Metadata.TaxYear)
	single := rules.FederalTax.Single
	assert.True(t, single.StandardDeduction.Equal(decimal.NewFromInt(16100)))
	require.Len(t, single.Brackets, 7)
	assert.True(t, single.Brackets[0].UpTo.Equal(decimal.NewFromInt(12400)))
	assert.True(t, single.Brackets[2].Rate.Equal(decimal.RequireFromString("0.22")))
	assert.Nil(t, single.Brackets[6].UpTo)

	mfj := rules.FederalTax.MarriedFilingJointly
	assert.True(t, mfj.StandardDeduction.Equal(decimal.NewFromInt(32200)))
	assert.True(t, mfj.Brackets[5].UpTo.Equal(decimal.NewFromInt(768700)))

	assert.True(t, rules.RMD.UniformLifetime[75].Equal(decimal.RequireFromString("24.6")))
	assert.True(t, rules.RMD.UniformLifetime[120].Equal(decimal.RequireFromString("2.0")))
	assert.Equal(t, 73, rules.RMD.StartAge)

	require.Len(t, rules.SPIA.Male, 6)
	assert.Equal(t, 65, rules.SPIA.Male[1].Age)
	assert.True(t, rules.SPIA.Male[1].Rate.Equal(decimal.RequireFromString("0.067")))
	assert.True(t, rules.SPIA.JointLifeDiscount.Equal(decimal.RequireFromString("0.15")))

	assert.True(t, rules.SocialSecurity.FirstBendPoint.Equal(decimal.NewFromInt(1286)))
	assert.True(t, rules.Estate.Exemption.Equal(decimal.NewFromInt(15000000)))
	assert.True(t, rules.NIIT.Rate.Equal(decimal.RequireFromString("0.038")))
	assert.Len(t, rules.Markets.ReturnSeries(), 55)
	assert.True(t, rules.Markets.HistoricalReturns[2008].Equal(decimal.RequireFromString("-0.37")))
}

func TestLoadRules_2025(t *testing.T) {
	rules, err := LoadRules(2025)
	require.NoError(t, err)
	assert.True(t, rules.FederalTax.Single.StandardDeduction.Equal(decimal.NewFromInt(15750)))
	assert.True(t, rules.CapitalGains.MarriedFilingJointly[0].UpTo.Equal(decimal.NewFromInt(96700)))
}

func TestLoadRules_Unsupported(t *testing.T) {
	_, err := LoadRules(1999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedTaxYear))
}

func TestLoadRulesFile(t *testing.T) {
	data, err := rulesFS.ReadFile("rules/2026.yaml")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	rules, err := LoadRulesFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2026, rules.Metadata.TaxYear)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("federal_tax: {}\n"), 0o600))
	_, err = LoadRulesFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rules validation failed")
}

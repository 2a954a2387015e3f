package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultTaxYear is used when neither the request nor the settings pick a year.
const DefaultTaxYear = 2026

//go:embed rules/*.yaml
var rulesFS embed.FS

// SupportedTaxYears lists the years with an embedded rules table, ascending.
func SupportedTaxYears() []int {
	entries, err := fs.ReadDir(rulesFS, "rules")
	if err != nil {
		return nil
	}
	var years []int
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if y, err := strconv.Atoi(name); err == nil {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// LoadRules returns the embedded tables for a tax year.
func LoadRules(year int) (*domain.Rules, error) {
	data, err := rulesFS.ReadFile(fmt.Sprintf("rules/%d.yaml", year))
	if err != nil {
		return nil, fmt.Errorf("tax year %d (have %v): %w", year, SupportedTaxYears(), domain.ErrUnsupportedTaxYear)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("embedded rules for %d: %w", year, err)
	}
	if rules.Metadata.TaxYear != year {
		return nil, fmt.Errorf("embedded rules for %d declare tax year %d", year, rules.Metadata.TaxYear)
	}
	return rules, nil
}

// LoadRulesFile loads an override tables file from disk.
func LoadRulesFile(filename string) (*domain.Rules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", filename, err)
	}
	return rules, nil
}

// ParseRules decodes and validates a rules document.
func ParseRules(data []byte) (*domain.Rules, error) {
	var rules domain.Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules validation failed: %w", err)
	}
	return &rules, nil
}

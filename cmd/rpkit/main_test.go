package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	if cmd.Use != "rpkit" {
		t.Errorf("Expected root command use to be 'rpkit', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("Expected root command to have short and long descriptions")
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("Expected no error for help command, got %v", err)
	}
	if !strings.Contains(out, "rpkit") {
		t.Error("Expected help command to show help text")
	}
}

func TestCommandSubcommands(t *testing.T) {
	expectedCommands := []string{
		"spia", "withdraw", "red-flags", "fire", "refi", "tax", "rmd", "pia",
		"estate", "roth", "simulate", "guardrails", "compare", "calculate", "validate",
		"serve", "rules", "version",
	}
	registered := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expectedCommands {
		if !registered[name] {
			t.Errorf("Expected command %s to be registered", name)
		}
	}
}

func TestSPIACommand_JSON(t *testing.T) {
	out, err := execute(t, "spia", "--lump-sum", "200000", "--age", "65", "--format", "json")
	if err != nil {
		t.Fatalf("spia failed: %v\n%s", err, out)
	}
	var report struct {
		TaxYear int `json:"taxYear"`
		SPIA    struct {
			AnnualIncome string `json:"annualIncome"`
		} `json:"spia"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Expected JSON output, got %v\n%s", err, out)
	}
	if report.TaxYear != 2026 {
		t.Errorf("Expected tax year 2026, got %d", report.TaxYear)
	}
	if report.SPIA.AnnualIncome != "13400" {
		t.Errorf("Expected annual income 13400, got %s", report.SPIA.AnnualIncome)
	}
}

func TestTaxCommand_Console(t *testing.T) {
	out, err := execute(t, "tax", "--status", "single", "--income", "100000")
	if err != nil {
		t.Fatalf("tax failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Federal Income Tax 2026") {
		t.Errorf("Expected tax section in console output, got:\n%s", out)
	}
}

func TestCommand_InvalidInput(t *testing.T) {
	if _, err := execute(t, "spia", "--lump-sum", "-1"); err == nil {
		t.Error("Expected an error for a negative lump sum")
	}
	if _, err := execute(t, "spia", "--lump-sum", "abc"); err == nil {
		t.Error("Expected an error for a non-numeric lump sum")
	}
	if _, err := execute(t, "tax", "--status", "widowed", "--income", "1"); err == nil {
		t.Error("Expected an error for an unknown filing status")
	}
}

func TestCommand_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rmd.csv")

	if _, err := execute(t, "rmd", "--balance", "1000000", "--age", "75", "--format", "csv", "-o", path); err != nil {
		t.Fatalf("rmd failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if !strings.HasPrefix(string(data), "section,label,value") {
		t.Errorf("Expected CSV header, got:\n%s", data)
	}
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "--lump-sum", "200000", "--format", "csv")
	if err != nil {
		t.Fatalf("compare failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, ",annuity,") {
		t.Errorf("Expected annuity row, got:\n%s", out)
	}
}

func TestGuardrailsCommand(t *testing.T) {
	out, err := execute(t, "guardrails", "--balance", "1000000", "--withdrawal", "50000",
		"--returns", "-0.30,0", "--format", "json")
	if err != nil {
		t.Fatalf("guardrails failed: %v\n%s", err, out)
	}
	var report struct {
		Guardrails struct {
			Cuts            int    `json:"cuts"`
			FinalWithdrawal string `json:"finalWithdrawal"`
		} `json:"guardrails"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Expected JSON output, got %v\n%s", err, out)
	}
	if report.Guardrails.Cuts != 1 {
		t.Errorf("Expected one spending cut, got %d", report.Guardrails.Cuts)
	}
	if report.Guardrails.FinalWithdrawal != "45000" {
		t.Errorf("Expected final withdrawal 45000, got %s", report.Guardrails.FinalWithdrawal)
	}

	if _, err := execute(t, "guardrails", "--balance", "1000000"); err == nil {
		t.Error("Expected an error when no returns are given")
	}
}

func TestPIACommand_BirthYear(t *testing.T) {
	out, err := execute(t, "pia", "--aime", "6000", "--claim-age", "67", "--birth-year", "1958", "--format", "json")
	if err != nil {
		t.Fatalf("pia failed: %v\n%s", err, out)
	}
	var report struct {
		Claiming struct {
			MonthsDelayed int `json:"monthsDelayed"`
			MonthsEarly   int `json:"monthsEarly"`
		} `json:"claiming"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Expected JSON output, got %v\n%s", err, out)
	}
	if report.Claiming.MonthsDelayed != 4 {
		t.Errorf("Expected 4 delayed months past a 66y8m FRA, got %d", report.Claiming.MonthsDelayed)
	}
}

func TestValidateAndCalculate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")
	input := `rmd:
  balance: 500000
  age: 80
estate:
  estate: 20000000
`
	if err := os.WriteFile(path, []byte(input), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "validate", path)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "rmd") || !strings.Contains(out, "estate") {
		t.Errorf("Expected the present sections to be listed, got:\n%s", out)
	}

	out, err = execute(t, "calculate", path, "--format", "json")
	if err != nil {
		t.Fatalf("calculate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"rmd"`) || !strings.Contains(out, `"estate"`) {
		t.Errorf("Expected rmd and estate in the report, got:\n%s", out)
	}
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, "rules")
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}
	if !strings.Contains(out, "Supported tax years") || !strings.Contains(out, "2026") {
		t.Errorf("Expected supported years, got:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "rpkit dev") {
		t.Errorf("Expected version line, got %q", out)
	}
}

func TestDecimalListValue(t *testing.T) {
	var ds []decimal.Decimal
	v := decimalListValue{&ds}

	if err := v.Set("3, 4.5,,5"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if len(ds) != 3 || !ds[1].Equal(decimal.RequireFromString("4.5")) {
		t.Errorf("Expected [3 4.5 5], got %v", ds)
	}
	if err := v.Set("x"); err == nil {
		t.Error("Expected an error for a non-numeric rate")
	}
}

package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/rpkit/internal/config"
	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/rgehrsitz/rpkit/internal/output"
	"github.com/spf13/cobra"
)

func rulesCmd(a *app) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the supported tax years and a summary of the loaded rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := a.settings.Rules(year)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Supported tax years: %v\n", config.SupportedTaxYears())
			if a.settings.RulesFile != "" {
				fmt.Fprintf(out, "Rules file: %s\n", a.settings.RulesFile)
			}
			fmt.Fprintln(out, rulesTable(rules))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Tax year to summarize (default the configured year)")
	return cmd
}

func rulesTable(r *domain.Rules) string {
	single := r.FederalTax.Single
	mfj := r.FederalTax.MarriedFilingJointly
	rows := [][]string{
		{"Tax year", strconv.Itoa(r.Metadata.TaxYear)},
		{"Last updated", r.Metadata.LastUpdated},
		{"Standard deduction (single)", output.FormatCurrency(single.StandardDeduction)},
		{"Standard deduction (joint)", output.FormatCurrency(mfj.StandardDeduction)},
		{"Ordinary brackets", strconv.Itoa(len(single.Brackets))},
		{"RMD start age", strconv.Itoa(r.RMD.StartAge)},
		{"PIA bend points", output.FormatCurrency(r.SocialSecurity.FirstBendPoint) + " / " + output.FormatCurrency(r.SocialSecurity.SecondBendPoint)},
		{"Estate exemption", output.FormatCurrency(r.Estate.Exemption)},
		{"Estate rate", output.FormatRate(r.Estate.Rate)},
	}
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7D7D")).Padding(0, 1)
	value := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return label
			}
			return value
		}).
		Rows(rows...).
		String()
}

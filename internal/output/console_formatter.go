package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/rpkit/internal/domain"
)

var (
	colorPrimary = lipgloss.Color("#5A56E0")
	colorMuted   = lipgloss.Color("#7D7D7D")
	colorBorder  = lipgloss.Color("#444444")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	noteStyle    = lipgloss.NewStyle().Italic(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// ConsoleFormatter renders the report as styled text with lipgloss tables.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, titleStyle.Render("RETIREMENT PLANNING REPORT"))

	sections := Sections(report)
	if len(sections) == 0 {
		fmt.Fprintln(&buf, noteStyle.Render("Nothing to report"))
		return buf.Bytes(), nil
	}
	for _, s := range sections {
		fmt.Fprintln(&buf, renderSection(s))
	}

	fmt.Fprintln(&buf, sectionStyle.Render("Assumptions"))
	for _, a := range assumptionsFor(report.TaxYear) {
		fmt.Fprintf(&buf, "  • %s\n", a)
	}
	return buf.Bytes(), nil
}

func renderSection(s Section) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(s.Title))
	b.WriteByte('\n')

	width := 0
	for _, f := range s.Fields {
		width = max(width, len(f.Label))
	}
	for _, f := range s.Fields {
		label := labelStyle.Render(fmt.Sprintf("%-*s", width+1, f.Label+":"))
		fmt.Fprintf(&b, "  %s %s\n", label, valueStyle.Render(f.Value))
	}
	if s.Table != nil && len(s.Table.Rows) > 0 {
		b.WriteString(renderTable(s.Table))
		b.WriteByte('\n')
	}
	for _, n := range s.Notes {
		fmt.Fprintf(&b, "  %s\n", noteStyle.Render(n))
	}
	return b.String()
}

func renderTable(t *Table) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col > 0 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		}).
		Headers(t.Headers...).
		Rows(t.Rows...).
		String()
}

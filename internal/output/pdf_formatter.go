package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/rgehrsitz/rpkit/internal/domain"
)

const (
	pageWidth    = 215.9 // US Letter
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
	labelWidth   = 70.0
)

// PDFFormatter renders the report as a printable PDF document.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *domain.Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle("Retirement Planning Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 12, "Retirement Planning Report", "", 1, "C", false, 0, "")
	if report != nil && report.TaxYear > 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Tax year %d", report.TaxYear), "", 1, "C", false, 0, "")
	}

	for _, s := range Sections(report) {
		writeSection(pdf, s)
	}

	taxYear := 0
	if report != nil {
		taxYear = report.TaxYear
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 7, "Assumptions", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(80, 80, 80)
	for _, a := range assumptionsFor(taxYear) {
		pdf.MultiCell(contentWidth, 4.5, "- "+a, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *fpdf.Fpdf, s Section) {
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 8, s.Title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetTextColor(50, 50, 50)
	for _, f := range s.Fields {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(labelWidth, 6, f.Label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentWidth-labelWidth, 6, f.Value, "", 1, "L", false, 0, "")
	}

	if s.Table != nil && len(s.Table.Rows) > 0 {
		pdf.Ln(2)
		writeTable(pdf, s.Table)
	}

	if len(s.Notes) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		for _, n := range s.Notes {
			pdf.MultiCell(contentWidth, 5, n, "", "L", false)
		}
	}
}

func writeTable(pdf *fpdf.Fpdf, t *Table) {
	colWidth := contentWidth / float64(len(t.Headers))

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 235, 245)
	pdf.SetDrawColor(200, 200, 200)
	for _, h := range t.Headers {
		pdf.CellFormat(colWidth, 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for i, row := range t.Rows {
		fill := i%2 == 1
		pdf.SetFillColor(248, 248, 248)
		for col, cell := range row {
			align := "R"
			if col == 0 {
				align = "L"
			}
			pdf.CellFormat(colWidth, 5.5, cell, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

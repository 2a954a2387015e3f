package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rgehrsitz/rpkit/internal/domain"
)

// CSVFormatter writes one record per figure: section, label, value. Table rows
// follow their section as section, "row", cells...; the table header uses "header".
// Records therefore vary in width.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"section", "label", "value"}); err != nil {
		return nil, err
	}
	for _, s := range Sections(report) {
		for _, f := range s.Fields {
			if err := w.Write([]string{s.Title, f.Label, f.Value}); err != nil {
				return nil, err
			}
		}
		if s.Table != nil {
			if err := w.Write(append([]string{s.Title, "header"}, s.Table.Headers...)); err != nil {
				return nil, err
			}
			for _, row := range s.Table.Rows {
				if err := w.Write(append([]string{s.Title, "row"}, row...)); err != nil {
					return nil, err
				}
			}
		}
		for _, n := range s.Notes {
			if err := w.Write([]string{s.Title, "note", n}); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

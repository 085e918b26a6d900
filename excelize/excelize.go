// Package excelize reads company lists from and writes results to XLSX
// workbooks.
package excelize

import (
	"context"
	"fmt"

	"github.com/fwojciec/sitefind"
	"github.com/xuri/excelize/v2"
)

// ResultsSheet is the sheet name of written workbooks.
const ResultsSheet = "Results"

var (
	_ sitefind.CompanySource = (*Source)(nil)
	_ sitefind.ResultSink    = (*Sink)(nil)
)

// Source reads company names from the first sheet of a workbook. The first
// row is the header.
type Source struct {
	path string
}

// NewSource creates a Source reading path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Companies implements sitefind.CompanySource.
func (s *Source) Companies(ctx context.Context) ([]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, sitefind.Errorf(sitefind.EINVALID, "read sheet: %v", err)
	}
	if len(rows) == 0 {
		return nil, sitefind.Errorf(sitefind.EINVALID, "company list is empty")
	}

	col := sitefind.CompanyColumn(rows[0])
	names := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if col < len(row) {
			names = append(names, row[col])
		}
	}

	return sitefind.CleanCompanies(names), nil
}

// Sink writes results to a workbook with a single two-column sheet.
type Sink struct {
	path string
}

// NewSink creates a Sink writing path.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// WriteResults implements sitefind.ResultSink.
func (s *Sink) WriteResults(ctx context.Context, results *sitefind.ResultMap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return err
	}

	rows := [][]any{{sitefind.CompanyHeader, sitefind.WebsiteHeader}}
	for _, r := range results.Results() {
		rows = append(rows, []any{r.Company, r.Outcome.Label()})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(ResultsSheet, "A", "A", 45); err != nil {
		return err
	}
	if err := f.SetColWidth(ResultsSheet, "B", "B", 40); err != nil {
		return err
	}
	if err := f.SetPanes(ResultsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	return f.SaveAs(s.path)
}

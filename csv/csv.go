// Package csv reads company lists from and writes results to CSV files.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitefind"
)

// bom is the UTF-8 byte order mark Excel uses to detect UTF-8 CSV files.
const bom = "\ufeff"

var (
	_ sitefind.CompanySource = (*Source)(nil)
	_ sitefind.ResultSink    = (*Sink)(nil)
)

// Source reads company names from a CSV file with a header row. The company
// column is detected from the header; comma and semicolon separators are
// both accepted.
type Source struct {
	path string
}

// NewSource creates a Source reading path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Companies implements sitefind.CompanySource.
func (s *Source) Companies(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open company list: %w", err)
	}
	defer f.Close()

	return ReadCompanies(ctx, f)
}

// ReadCompanies reads company names from CSV data.
func ReadCompanies(ctx context.Context, r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(data), bom)

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = separator(text)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, sitefind.Errorf(sitefind.EINVALID, "company list is empty")
	}
	if err != nil {
		return nil, sitefind.Errorf(sitefind.EINVALID, "read header: %v", err)
	}
	col := sitefind.CompanyColumn(header)

	var names []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, sitefind.Errorf(sitefind.EINVALID, "read row: %v", err)
		}
		if col < len(record) {
			names = append(names, record[col])
		}
	}

	return sitefind.CleanCompanies(names), nil
}

// separator picks ';' when the header line has semicolons but no commas.
func separator(data string) rune {
	line, _, _ := strings.Cut(data, "\n")
	if strings.Contains(line, ";") && !strings.Contains(line, ",") {
		return ';'
	}
	return ','
}

// Sink writes results as a two-column CSV with a UTF-8 byte order mark, so
// spreadsheet applications open Cyrillic text correctly.
type Sink struct {
	path string
}

// NewSink creates a Sink writing path.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// WriteResults implements sitefind.ResultSink. The file is replaced
// atomically.
func (s *Sink) WriteResults(ctx context.Context, results *sitefind.ResultMap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteResults(tmp, results); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// WriteResults writes results as CSV to w.
func WriteResults(w io.Writer, results *sitefind.ResultMap) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{sitefind.CompanyHeader, sitefind.WebsiteHeader}); err != nil {
		return err
	}
	for _, r := range results.Results() {
		if err := cw.Write([]string{r.Company, r.Outcome.Label()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

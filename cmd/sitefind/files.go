package main

import (
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitefind"
	"github.com/fwojciec/sitefind/csv"
	"github.com/fwojciec/sitefind/excelize"
)

// openSource returns the company source for path, chosen by extension.
func openSource(path string) (sitefind.CompanySource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return csv.NewSource(path), nil
	case ".xlsx":
		return excelize.NewSource(path), nil
	}
	return nil, sitefind.Errorf(sitefind.EINVALID, "unsupported input file %q (want .csv or .xlsx)", filepath.Base(path))
}

// openSink returns the result sink for path, chosen by extension.
func openSink(path string) (sitefind.ResultSink, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csv.NewSink(path), nil
	case ".xlsx":
		return excelize.NewSink(path), nil
	}
	return nil, sitefind.Errorf(sitefind.EINVALID, "unsupported output file %q (want .csv or .xlsx)", filepath.Base(path))
}

// defaultOutput derives the result path from the input path.
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_results.csv"
}

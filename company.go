package sitefind

import "strings"

// Column headers of a results table.
const (
	CompanyHeader = "Company Name"
	WebsiteHeader = "Website"
)

// companyColumns are recognized header names of the company column, in
// order of preference.
var companyColumns = []string{
	CompanyHeader,
	"CompanyName",
	"company_name",
	"Название",
	"название",
	"Компания",
	"компания",
}

// CompanyColumn returns the index of the company name column in header.
// It falls back to the first column when no known name is present.
func CompanyColumn(header []string) int {
	for _, name := range companyColumns {
		for i, h := range header {
			if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == name {
				return i
			}
		}
	}
	return 0
}

// missingValues are spreadsheet placeholders for an empty cell.
var missingValues = map[string]bool{
	"nan":  true,
	"na":   true,
	"n/a":  true,
	"#n/a": true,
	"null": true,
	"none": true,
}

// CleanCompanies trims names, drops blank and placeholder values and
// removes duplicates, keeping the first occurrence.
func CleanCompanies(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || missingValues[strings.ToLower(name)] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

package sitefind

import (
	"regexp"
	"strings"
)

var (
	querySymbols    = regexp.MustCompile("[\"'`\\\\/%@#$^&*()_+=\\[\\]{}|<>~]")
	queryWhitespace = regexp.MustCompile(`\s+`)
)

// FormatQuery turns a raw company name into a search query. Quotes and
// symbols that break search syntax become spaces, whitespace runs collapse
// to one space and the result is trimmed. An empty result means the name
// cannot be searched.
func FormatQuery(name string) string {
	query := querySymbols.ReplaceAllString(name, " ")
	query = queryWhitespace.ReplaceAllString(query, " ")
	return strings.TrimSpace(query)
}

// QueryOptions controls query augmentation.
type QueryOptions struct {
	// AddKeywords appends Keywords, e.g. "официальный сайт".
	AddKeywords bool
	Keywords    string
}

// BuildQuery formats name and applies opts. It returns EFORMAT when the
// formatted name is empty; keywords alone are never searched.
func BuildQuery(name string, opts QueryOptions) (string, error) {
	query := FormatQuery(name)
	if query == "" {
		return "", Errorf(EFORMAT, "company name %q has nothing searchable", name)
	}
	if opts.AddKeywords {
		if kw := FormatQuery(opts.Keywords); kw != "" {
			query += " " + kw
		}
	}
	return query, nil
}

package sitefind

import "context"

// NotFoundLabel is written in place of a URL for unresolved companies.
const NotFoundLabel = "Не найден"

// Outcome is the result of resolving one company. An empty URL means not
// found. A found URL is always normalized and starts with a scheme.
type Outcome struct {
	URL      string
	Attempts int
}

// IsFound reports whether a website was resolved.
func (o Outcome) IsFound() bool {
	return o.URL != ""
}

// Label returns the URL, or NotFoundLabel.
func (o Outcome) Label() string {
	if o.IsFound() {
		return o.URL
	}
	return NotFoundLabel
}

// Resolver finds the website of a single company.
type Resolver interface {
	// Resolve runs the full attempt sequence for company. Expected
	// failures (nothing searchable, fetch errors, no candidates) end in a
	// not-found Outcome with a nil error; a non-nil error is unexpected.
	Resolve(ctx context.Context, company string) (Outcome, error)
}

// Result pairs a company with its outcome.
type Result struct {
	Company string
	Outcome Outcome
}

// ResultMap maps company names to outcomes in processing order. It is
// written by a single owner and not safe for concurrent writes.
type ResultMap struct {
	order    []string
	outcomes map[string]Outcome
}

// NewResultMap returns an empty ResultMap.
func NewResultMap() *ResultMap {
	return &ResultMap{outcomes: make(map[string]Outcome)}
}

// Set records the outcome for company. An outcome, once assigned, is
// immutable: Set returns false and changes nothing if company is present.
func (m *ResultMap) Set(company string, outcome Outcome) bool {
	if _, ok := m.outcomes[company]; ok {
		return false
	}
	m.order = append(m.order, company)
	m.outcomes[company] = outcome
	return true
}

// Get returns the outcome recorded for company.
func (m *ResultMap) Get(company string) (Outcome, bool) {
	o, ok := m.outcomes[company]
	return o, ok
}

// Len returns the number of recorded companies.
func (m *ResultMap) Len() int {
	return len(m.order)
}

// Found returns the number of companies with a resolved website.
func (m *ResultMap) Found() int {
	var n int
	for _, o := range m.outcomes {
		if o.IsFound() {
			n++
		}
	}
	return n
}

// Results returns all results in processing order.
func (m *ResultMap) Results() []Result {
	results := make([]Result, 0, len(m.order))
	for _, company := range m.order {
		results = append(results, Result{Company: company, Outcome: m.outcomes[company]})
	}
	return results
}

// Progress reports progress during a batch.
type Progress struct {
	Company   string
	Completed int
	Total     int
	Outcome   Outcome
	Error     error
}

// ProgressFunc is called after each company is resolved.
// It must return quickly and never panic.
type ProgressFunc func(Progress)

// Pacer blocks between requests to avoid a fixed request cadence.
type Pacer interface {
	// Wait returns early with the context error if ctx is canceled.
	Wait(ctx context.Context) error
}

// CompanySource yields the company names of a batch.
type CompanySource interface {
	// Companies returns non-empty, de-duplicated names in input order.
	Companies(ctx context.Context) ([]string, error)
}

// ResultSink persists the results of a batch.
type ResultSink interface {
	WriteResults(ctx context.Context, results *ResultMap) error
}

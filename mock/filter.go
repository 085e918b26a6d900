package mock

import "github.com/fwojciec/sitefind"

var _ sitefind.DomainFilter = (*DomainFilter)(nil)

// DomainFilter is a mock implementation of sitefind.DomainFilter.
type DomainFilter struct {
	AllowedFn func(rawURL string, engine sitefind.SearchEngine) bool
}

func (f *DomainFilter) Allowed(rawURL string, engine sitefind.SearchEngine) bool {
	return f.AllowedFn(rawURL, engine)
}

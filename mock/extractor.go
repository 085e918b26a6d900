package mock

import "github.com/fwojciec/sitefind"

var _ sitefind.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitefind.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, engine sitefind.SearchEngine) ([]sitefind.Candidate, error)
	HasResultsFn   func(html string, engine sitefind.SearchEngine) bool
}

func (e *LinkExtractor) ExtractLinks(html string, engine sitefind.SearchEngine) ([]sitefind.Candidate, error) {
	return e.ExtractLinksFn(html, engine)
}

func (e *LinkExtractor) HasResults(html string, engine sitefind.SearchEngine) bool {
	return e.HasResultsFn(html, engine)
}

package sitefind

// Candidate is a URL found on a results page. Position is the discovery
// order within one extraction; lower positions win.
type Candidate struct {
	URL      string
	Position int
}

// LinkExtractor recovers candidate result links from results page markup.
type LinkExtractor interface {
	// ExtractLinks returns valid candidate URLs in discovery order, without
	// duplicates. Returns EPARSE if the markup cannot be parsed at all.
	ExtractLinks(html string, engine SearchEngine) ([]Candidate, error)

	// HasResults reports whether the engine's result indicator is present.
	HasResults(html string, engine SearchEngine) bool
}

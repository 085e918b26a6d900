package sitefind

import "context"

// Fetcher retrieves the markup of a search results page.
// Implementations may use browser automation or plain HTTP.
type Fetcher interface {
	// Fetch runs query against engine and returns the results page HTML.
	// Failures (network, navigation, timeout) are reported as EFETCH.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, engine SearchEngine, query string) (html string, err error)

	// Close releases session resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

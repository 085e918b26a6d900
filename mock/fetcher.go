package mock

import (
	"context"

	"github.com/fwojciec/sitefind"
)

var _ sitefind.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitefind.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, engine sitefind.SearchEngine, query string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, engine sitefind.SearchEngine, query string) (string, error) {
	return f.FetchFn(ctx, engine, query)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

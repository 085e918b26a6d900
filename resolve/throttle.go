package resolve

import (
	"context"
	"sync"

	"github.com/fwojciec/sitefind"
	"golang.org/x/time/rate"
)

// EngineLimiter rate limits requests per search engine using token
// buckets. One limiter shared by all sessions of a Pool bounds the request
// rate an engine sees regardless of the number of sessions.
type EngineLimiter struct {
	mu       sync.Mutex
	limiters map[sitefind.SearchEngine]*rate.Limiter
	rps      float64
}

// NewEngineLimiter creates an EngineLimiter allowing rps requests per
// second to each engine, with no bursting.
func NewEngineLimiter(rps float64) *EngineLimiter {
	return &EngineLimiter{
		limiters: make(map[sitefind.SearchEngine]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until a request to engine is allowed.
// Returns an error if the context is canceled before the wait completes.
func (l *EngineLimiter) Wait(ctx context.Context, engine sitefind.SearchEngine) error {
	l.mu.Lock()
	limiter, ok := l.limiters[engine]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), 1)
		l.limiters[engine] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}

var _ sitefind.Fetcher = (*ThrottledFetcher)(nil)

// ThrottledFetcher waits on a shared EngineLimiter before every fetch.
type ThrottledFetcher struct {
	Next    sitefind.Fetcher
	Limiter *EngineLimiter
}

// Fetch implements sitefind.Fetcher.
func (f *ThrottledFetcher) Fetch(ctx context.Context, engine sitefind.SearchEngine, query string) (string, error) {
	if err := f.Limiter.Wait(ctx, engine); err != nil {
		return "", err
	}
	return f.Next.Fetch(ctx, engine, query)
}

// Close closes the wrapped fetcher.
func (f *ThrottledFetcher) Close() error {
	return f.Next.Close()
}

package resolve

import (
	"context"
	"log/slog"

	"github.com/fwojciec/sitefind"
)

var _ sitefind.Resolver = (*CachedResolver)(nil)

// CachedResolver returns a previously found website for the company
// without searching again. Misses and lookup failures fall through to Next.
type CachedResolver struct {
	Next   sitefind.Resolver
	Cache  sitefind.OutcomeCache
	Engine sitefind.SearchEngine
	Logger *slog.Logger
}

// Resolve implements sitefind.Resolver.
func (r *CachedResolver) Resolve(ctx context.Context, company string) (sitefind.Outcome, error) {
	outcome, err := r.Cache.FindOutcome(ctx, company, r.Engine)
	switch {
	case err == nil && outcome.IsFound():
		r.logger().Debug("reused outcome", "company", company, "url", outcome.URL)
		return sitefind.Outcome{URL: outcome.URL}, nil
	case err != nil && sitefind.ErrorCode(err) != sitefind.ENOTFOUND:
		r.logger().Warn("outcome lookup", "company", company, "err", err)
	}
	return r.Next.Resolve(ctx, company)
}

func (r *CachedResolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

package mock

import (
	"context"

	"github.com/fwojciec/sitefind"
)

var _ sitefind.Resolver = (*Resolver)(nil)

// Resolver is a mock implementation of sitefind.Resolver.
type Resolver struct {
	ResolveFn func(ctx context.Context, company string) (sitefind.Outcome, error)
}

func (r *Resolver) Resolve(ctx context.Context, company string) (sitefind.Outcome, error) {
	return r.ResolveFn(ctx, company)
}

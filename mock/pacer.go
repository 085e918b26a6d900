package mock

import (
	"context"

	"github.com/fwojciec/sitefind"
)

var _ sitefind.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of sitefind.Pacer.
type Pacer struct {
	WaitFn func(ctx context.Context) error
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.WaitFn(ctx)
}

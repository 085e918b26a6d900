package resolve

import (
	"context"
	"sync"

	"github.com/fwojciec/sitefind"
	"golang.org/x/sync/errgroup"
)

// Pool spreads a batch over several Runners, each owning its own Fetcher
// session and processing its share sequentially. Companies are dealt
// round-robin; outcomes are assembled in input order.
type Pool struct {
	Runners []*Runner

	// Progress receives events from all runners, one at a time, with
	// Completed and Total counted over the whole batch. Optional.
	Progress sitefind.ProgressFunc
}

// Run resolves companies across all runners. The first runner error
// cancels the others; outcomes recorded before that are still returned.
func (p *Pool) Run(ctx context.Context, companies []string) (*sitefind.ResultMap, error) {
	if len(p.Runners) == 0 {
		return nil, sitefind.Errorf(sitefind.EINVALID, "pool has no runners")
	}

	companies = unique(companies)
	shards := make([][]string, len(p.Runners))
	for i, company := range companies {
		shards[i%len(shards)] = append(shards[i%len(shards)], company)
	}

	var (
		mu        sync.Mutex
		completed int
	)
	total := len(companies)
	progress := func(pr sitefind.Progress) {
		mu.Lock()
		defer mu.Unlock()
		completed++
		pr.Completed = completed
		pr.Total = total
		if p.Progress != nil {
			p.Progress(pr)
		}
	}

	partial := make([]*sitefind.ResultMap, len(p.Runners))
	g, gctx := errgroup.WithContext(ctx)
	for i, runner := range p.Runners {
		if len(shards[i]) == 0 {
			continue
		}
		r := *runner
		r.Progress = progress
		g.Go(func() error {
			results, err := r.Run(gctx, shards[i])
			partial[i] = results
			return err
		})
	}
	err := g.Wait()

	results := sitefind.NewResultMap()
	for i, company := range companies {
		shard := partial[i%len(partial)]
		if shard == nil {
			continue
		}
		if outcome, ok := shard.Get(company); ok {
			results.Set(company, outcome)
		}
	}
	return results, err
}

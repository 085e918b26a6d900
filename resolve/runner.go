package resolve

import (
	"context"
	"log/slog"

	"github.com/fwojciec/sitefind"
)

// Runner resolves a batch of companies strictly sequentially through one
// Resolver. A failing company is recorded as not found and never aborts
// the batch.
type Runner struct {
	Resolver sitefind.Resolver

	// Progress is called after each company. Optional.
	Progress sitefind.ProgressFunc

	// Pacer delays between companies, skipped after the last. Optional.
	Pacer sitefind.Pacer

	Logger *slog.Logger
}

// Run resolves companies in input order, skipping repeated names, and
// returns one outcome per distinct company. Cancellation is checked between
// companies; on cancellation the outcomes recorded so far are returned
// together with the context error, and a company whose resolution was cut
// short is left out.
func (r *Runner) Run(ctx context.Context, companies []string) (*sitefind.ResultMap, error) {
	companies = unique(companies)
	results := sitefind.NewResultMap()
	total := len(companies)

	for i, company := range companies {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		outcome, err := r.resolve(ctx, company)
		if ctxErr := ctx.Err(); ctxErr != nil {
			// An aborted company is neither found nor not found.
			return results, ctxErr
		}
		if err != nil {
			r.logger().Error("resolve company", "company", company, "err", err)
			outcome = sitefind.Outcome{Attempts: outcome.Attempts}
		}
		results.Set(company, outcome)

		if r.Progress != nil {
			r.Progress(sitefind.Progress{
				Company:   company,
				Completed: i + 1,
				Total:     total,
				Outcome:   outcome,
				Error:     err,
			})
		}

		if i < total-1 && r.Pacer != nil {
			if err := r.Pacer.Wait(ctx); err != nil {
				return results, err
			}
		}
	}

	return results, nil
}

// resolve turns a panic in the resolver into an error.
func (r *Runner) resolve(ctx context.Context, company string) (outcome sitefind.Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = sitefind.Outcome{}
			err = sitefind.Errorf(sitefind.EINTERNAL, "panic resolving %q: %v", company, rec)
		}
	}()
	return r.Resolver.Resolve(ctx, company)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// unique returns companies without repeats, keeping first occurrences.
func unique(companies []string) []string {
	seen := make(map[string]bool, len(companies))
	out := make([]string, 0, len(companies))
	for _, c := range companies {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

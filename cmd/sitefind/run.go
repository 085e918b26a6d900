package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/sitefind"
	"github.com/fwojciec/sitefind/sqlite"
)

// Run executes the run command.
//
// Results are written even when the batch is interrupted, so a long run
// stopped with Ctrl-C keeps what it resolved.
func (c *RunCmd) Run(deps *Dependencies) error {
	output := c.Output
	if output == "" {
		output = defaultOutput(c.Input)
	}
	sink, err := openSink(output)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	source, err := openSource(c.Input)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	companies, err := source.Companies(deps.Ctx)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	if len(companies) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no company names in %s\n", c.Input)
		return sitefind.Errorf(sitefind.EINVALID, "no company names in %s", c.Input)
	}
	fmt.Fprintf(deps.Stdout, "Loaded %d companies from %s\n", len(companies), c.Input)

	pool, closeFetchers, err := newPool(deps)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	results, runErr := pool.Run(deps.Ctx, companies)
	closeFetchers()
	if runErr != nil && !interrupted(runErr) {
		printError(deps.Stderr, runErr)
		return runErr
	}
	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "Interrupted after %d of %d companies\n", results.Len(), len(companies))
	}

	// The interrupted context must not abort the writes.
	ctx := context.WithoutCancel(deps.Ctx)

	if err := sink.WriteResults(ctx, results); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	printSummary(deps.Stdout, results)
	fmt.Fprintf(deps.Stdout, "Results written to %s\n", output)

	if !c.NoHistory && deps.Runs != nil {
		engine, _ := sitefind.ParseEngine(deps.Config.Engine)
		history := sqlite.NewRunSink(deps.Runs, engine, c.Input)
		if err := history.WriteResults(ctx, results); err != nil {
			deps.Logger.Warn("record run", "err", err)
		} else {
			fmt.Fprintf(deps.Stdout, "Recorded as run %s\n", history.Run.ID)
		}
	}

	return runErr
}

package main

import (
	"fmt"

	"github.com/fwojciec/sitefind"
)

// Run executes the resolve command.
func (c *ResolveCmd) Run(deps *Dependencies) error {
	companies := sitefind.CleanCompanies(c.Names)
	if len(companies) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no company names given")
		return sitefind.Errorf(sitefind.EINVALID, "no company names given")
	}

	pool, closeFetchers, err := newPool(deps)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	results, err := pool.Run(deps.Ctx, companies)
	closeFetchers()
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	printSummary(deps.Stdout, results)
	return nil
}

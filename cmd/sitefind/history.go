package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/sitefind"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.RunID == "" {
		if c.Delete {
			fmt.Fprintln(deps.Stderr, "error: --delete needs a run ID")
			return sitefind.Errorf(sitefind.EINVALID, "--delete needs a run ID")
		}
		return c.list(deps)
	}

	if c.Delete {
		if err := deps.Runs.DeleteRun(deps.Ctx, c.RunID); err != nil {
			printError(deps.Stderr, err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.RunID)
		return nil
	}

	return c.show(deps)
}

func (c *HistoryCmd) list(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, sitefind.RunFilter{Limit: c.Limit})
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'sitefind run' to process a company list.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-10s  %d/%d found  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Engine, r.Found, r.Total, r.Source)
	}
	return nil
}

func (c *HistoryCmd) show(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	results, err := deps.Runs.FindResults(deps.Ctx, run.ID)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s (%s, %s): %d/%d found\n",
		run.ID, run.Engine, run.Source, run.Found, run.Total)
	for _, r := range results {
		label := r.URL
		if label == "" {
			label = sitefind.NotFoundLabel
		}
		fmt.Fprintf(deps.Stdout, "%s\t%s\n", r.Company, label)
	}
	return nil
}

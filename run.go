package sitefind

import (
	"context"
	"time"
)

// Run records one completed batch.
type Run struct {
	ID         string       `json:"id"`
	Engine     SearchEngine `json:"engine"`
	Source     string       `json:"source"`
	Total      int          `json:"total"`
	Found      int          `json:"found"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Engine == "" {
		return Errorf(EINVALID, "run engine required")
	}
	return nil
}

// StoredResult is one persisted company outcome of a run.
type StoredResult struct {
	RunID    string `json:"runId"`
	Position int    `json:"position"`
	Company  string `json:"company"`
	URL      string `json:"url"`
	Domain   string `json:"domain"`
	Attempts int    `json:"attempts"`
}

// RunService represents a service for managing run history.
type RunService interface {
	// CreateRun stores run and its results. ID, Total and Found are set
	// from results.
	CreateRun(ctx context.Context, run *Run, results *ResultMap) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindResults retrieves the results of a run in processing order.
	FindResults(ctx context.Context, runID string) ([]*StoredResult, error)

	// DeleteRun removes a run and its results.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Engine *SearchEngine `json:"engine"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// OutcomeCache looks up previously resolved websites.
type OutcomeCache interface {
	// FindOutcome returns the most recent found outcome for company on
	// engine. Returns ENOTFOUND if there is none.
	FindOutcome(ctx context.Context, company string, engine SearchEngine) (Outcome, error)
}

// SearchPage is a fetched results page kept for diagnosis.
type SearchPage struct {
	Engine     SearchEngine
	Company    string
	Query      string
	HTML       string
	HasResults bool
	FetchedAt  time.Time
}

// PageArchive stores results pages that produced no website, so selector
// drift can be investigated offline.
type PageArchive interface {
	Archive(ctx context.Context, page *SearchPage) error
}

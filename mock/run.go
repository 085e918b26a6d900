package mock

import (
	"context"

	"github.com/fwojciec/sitefind"
)

var (
	_ sitefind.RunService   = (*RunService)(nil)
	_ sitefind.OutcomeCache = (*OutcomeCache)(nil)
	_ sitefind.PageArchive  = (*PageArchive)(nil)
)

// RunService is a mock implementation of sitefind.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *sitefind.Run, results *sitefind.ResultMap) error
	FindRunByIDFn func(ctx context.Context, id string) (*sitefind.Run, error)
	FindRunsFn    func(ctx context.Context, filter sitefind.RunFilter) ([]*sitefind.Run, error)
	FindResultsFn func(ctx context.Context, runID string) ([]*sitefind.StoredResult, error)
	DeleteRunFn   func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *sitefind.Run, results *sitefind.ResultMap) error {
	return s.CreateRunFn(ctx, run, results)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*sitefind.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter sitefind.RunFilter) ([]*sitefind.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindResults(ctx context.Context, runID string) ([]*sitefind.StoredResult, error) {
	return s.FindResultsFn(ctx, runID)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}

// OutcomeCache is a mock implementation of sitefind.OutcomeCache.
type OutcomeCache struct {
	FindOutcomeFn func(ctx context.Context, company string, engine sitefind.SearchEngine) (sitefind.Outcome, error)
}

func (c *OutcomeCache) FindOutcome(ctx context.Context, company string, engine sitefind.SearchEngine) (sitefind.Outcome, error) {
	return c.FindOutcomeFn(ctx, company, engine)
}

// PageArchive is a mock implementation of sitefind.PageArchive.
type PageArchive struct {
	ArchiveFn func(ctx context.Context, page *sitefind.SearchPage) error
}

func (a *PageArchive) Archive(ctx context.Context, page *sitefind.SearchPage) error {
	return a.ArchiveFn(ctx, page)
}

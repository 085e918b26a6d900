package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/sitefind"
)

var _ sitefind.ResultSink = (*RunSink)(nil)

// RunSink records each written batch as a run.
type RunSink struct {
	runs      sitefind.RunService
	engine    sitefind.SearchEngine
	source    string
	startedAt time.Time

	// Run is the last stored run.
	Run *sitefind.Run
}

// NewRunSink creates a RunSink for a batch started now.
func NewRunSink(runs sitefind.RunService, engine sitefind.SearchEngine, source string) *RunSink {
	return &RunSink{
		runs:      runs,
		engine:    engine,
		source:    source,
		startedAt: time.Now().UTC(),
	}
}

// WriteResults implements sitefind.ResultSink.
func (s *RunSink) WriteResults(ctx context.Context, results *sitefind.ResultMap) error {
	run := &sitefind.Run{
		Engine:     s.engine,
		Source:     s.source,
		StartedAt:  s.startedAt,
		FinishedAt: time.Now().UTC(),
	}
	if err := s.runs.CreateRun(ctx, run, results); err != nil {
		return err
	}
	s.Run = run
	return nil
}

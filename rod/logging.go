package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitefind"
)

// Ensure LoggingFetcher implements sitefind.Fetcher.
var _ sitefind.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   sitefind.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sitefind.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the engine and query and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, engine sitefind.SearchEngine, query string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"engine", string(engine),
			"query", query,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, engine, query)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/sitefind"
)

// Ensure LoggingExtractor implements sitefind.LinkExtractor.
var _ sitefind.LinkExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a LinkExtractor with debug logging.
type LoggingExtractor struct {
	next   sitefind.LinkExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next sitefind.LinkExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractLinks delegates to the wrapped extractor and logs the candidate count.
func (e *LoggingExtractor) ExtractLinks(html string, engine sitefind.SearchEngine) (candidates []sitefind.Candidate, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("extract links",
			"engine", string(engine),
			"count", len(candidates),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractLinks(html, engine)
}

// HasResults delegates to the wrapped extractor.
func (e *LoggingExtractor) HasResults(html string, engine sitefind.SearchEngine) bool {
	return e.next.HasResults(html, engine)
}

// SelectorErrorLogger returns a callback logging selectors that failed
// during extraction.
func SelectorErrorLogger(logger *slog.Logger) func(engine sitefind.SearchEngine, selector string, err error) {
	return func(engine sitefind.SearchEngine, selector string, err error) {
		logger.Warn("selector skipped",
			"engine", string(engine),
			"selector", selector,
			"err", err,
		)
	}
}

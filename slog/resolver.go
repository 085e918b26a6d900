// Package slog provides log/slog decorators for sitefind services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitefind"
)

// Ensure LoggingResolver implements sitefind.Resolver.
var _ sitefind.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver with logging.
type LoggingResolver struct {
	next   sitefind.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next sitefind.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the outcome.
func (r *LoggingResolver) Resolve(ctx context.Context, company string) (outcome sitefind.Outcome, err error) {
	defer func(begin time.Time) {
		r.logger.Info("resolve",
			"company", company,
			"url", outcome.Label(),
			"attempts", outcome.Attempts,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(ctx, company)
}

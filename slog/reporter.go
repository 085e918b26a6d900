package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/sitefind"
)

// NewProgressLogger returns a ProgressFunc logging one line per company.
func NewProgressLogger(logger *slog.Logger) sitefind.ProgressFunc {
	return func(p sitefind.Progress) {
		level := slog.LevelInfo
		if p.Error != nil {
			level = slog.LevelWarn
		}
		logger.Log(context.Background(), level, "progress",
			"completed", p.Completed,
			"total", p.Total,
			"company", p.Company,
			"url", p.Outcome.Label(),
			"err", p.Error,
		)
	}
}

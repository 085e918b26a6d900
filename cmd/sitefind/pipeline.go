package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/sitefind"
	"github.com/fwojciec/sitefind/goquery"
	"github.com/fwojciec/sitefind/resolve"
	"github.com/fwojciec/sitefind/rod"
	sfslog "github.com/fwojciec/sitefind/slog"
)

// newPool opens one fetcher per session and builds the resolution
// pipeline around each. The returned close function releases all
// fetchers. Failing to open a fetcher is fatal.
func newPool(deps *Dependencies) (*resolve.Pool, func(), error) {
	cfg := deps.Config

	engine, err := sitefind.ParseEngine(cfg.Engine)
	if err != nil {
		return nil, nil, err
	}
	profile, err := deps.Profiles.Profile(engine)
	if err != nil {
		return nil, nil, err
	}

	query := sitefind.QueryOptions{AddKeywords: cfg.Keywords, Keywords: profile.Keywords}
	if cfg.KeywordText != "" {
		query.Keywords = cfg.KeywordText
	}

	extractor := sfslog.NewLoggingExtractor(
		goquery.NewExtractor(deps.Profiles,
			goquery.WithSelectorErrorFunc(sfslog.SelectorErrorLogger(deps.Logger)),
		),
		deps.Logger,
	)
	filter := sitefind.NewDenylist(deps.Profiles)

	var fetchers []sitefind.Fetcher
	closeAll := func() {
		for _, f := range fetchers {
			if err := f.Close(); err != nil {
				deps.Logger.Warn("close fetcher", "err", err)
			}
		}
	}

	var limiter *resolve.EngineLimiter
	if cfg.Rate > 0 {
		limiter = resolve.NewEngineLimiter(cfg.Rate)
	}
	pacer := resolve.Jitter{Min: cfg.Delay, Max: cfg.Delay + cfg.Jitter}

	pool := &resolve.Pool{Progress: progressPrinter(deps.Stdout, deps.Logger)}
	for range max(cfg.Sessions, 1) {
		fetcher, err := deps.NewFetcher()
		if err != nil {
			closeAll()
			if cfg.Fetcher != "http" {
				fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			}
			return nil, nil, fmt.Errorf("failed to start fetcher: %w", err)
		}
		fetchers = append(fetchers, fetcher)
		if limiter != nil {
			fetcher = &resolve.ThrottledFetcher{Next: fetcher, Limiter: limiter}
		}

		var resolver sitefind.Resolver = &resolve.Resolver{
			Fetcher:    rod.NewLoggingFetcher(fetcher, deps.Logger),
			Extractor:  extractor,
			Filter:     filter,
			Engine:     engine,
			Query:      query,
			MaxRetries: cfg.Retries,
			Pacer:      pacer,
			Archive:    deps.Archive,
			Logger:     deps.Logger,
		}
		if cfg.Reuse && deps.Cache != nil {
			resolver = &resolve.CachedResolver{
				Next:   resolver,
				Cache:  deps.Cache,
				Engine: engine,
				Logger: deps.Logger,
			}
		}

		pool.Runners = append(pool.Runners, &resolve.Runner{
			Resolver: sfslog.NewLoggingResolver(resolver, deps.Logger),
			Pacer:    pacer,
			Logger:   deps.Logger,
		})
	}

	return pool, closeAll, nil
}

// progressPrinter prints one line per company to w and logs the event.
func progressPrinter(w io.Writer, logger *slog.Logger) sitefind.ProgressFunc {
	log := sfslog.NewProgressLogger(logger)
	return func(p sitefind.Progress) {
		fmt.Fprintf(w, "[%d/%d] %s: %s\n", p.Completed, p.Total, p.Company, p.Outcome.Label())
		log(p)
	}
}

// printSummary prints the found/not-found counts of results.
func printSummary(w io.Writer, results *sitefind.ResultMap) {
	total := results.Len()
	found := results.Found()
	var percent float64
	if total > 0 {
		percent = float64(found) / float64(total) * 100
	}
	fmt.Fprintf(w, "Found %d websites for %d companies (%.1f%%), not found: %d\n",
		found, total, percent, total-found)
}

// interrupted reports whether err means the batch was stopped early.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

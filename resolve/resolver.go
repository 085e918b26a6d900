// Package resolve finds company websites by orchestrating a Fetcher, a
// LinkExtractor and a DomainFilter. It contains the per-company attempt
// loop, the sequential batch runner and a multi-session pool.
package resolve

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/fwojciec/sitefind"
)

// Ensure Resolver implements sitefind.Resolver at compile time.
var _ sitefind.Resolver = (*Resolver)(nil)

// Resolver runs up to MaxRetries independent attempts for one company.
// Each attempt fetches a fresh results page, extracts candidates in
// discovery order, and returns the first one that survives normalization,
// validation and filtering.
type Resolver struct {
	Fetcher   sitefind.Fetcher
	Extractor sitefind.LinkExtractor
	Filter    sitefind.DomainFilter
	Engine    sitefind.SearchEngine
	Query     sitefind.QueryOptions

	// MaxRetries is the total number of attempts. Values below 1 mean 1.
	MaxRetries int

	// Pacer delays between attempts. Optional.
	Pacer sitefind.Pacer

	// Archive receives pages that produced no website. Optional.
	Archive sitefind.PageArchive

	// Logger receives a debug line per state transition. Optional.
	Logger *slog.Logger
}

// Resolve implements sitefind.Resolver.
//
// Fetch and parse failures consume an attempt. A company name that formats
// to an empty query ends immediately as not found. Any other error aborts
// the sequence and is returned with the attempts made so far.
func (r *Resolver) Resolve(ctx context.Context, company string) (sitefind.Outcome, error) {
	logger := r.logger().With("company", company, "engine", string(r.Engine))

	query, err := sitefind.BuildQuery(company, r.Query)
	if err != nil {
		if sitefind.ErrorCode(err) == sitefind.EFORMAT {
			logger.Debug("cannot search", "err", err)
			return sitefind.Outcome{}, nil
		}
		return sitefind.Outcome{}, err
	}

	maxAttempts := max(r.MaxRetries, 1)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		log := logger.With("attempt", attempt, "of", maxAttempts)

		url, err := r.attempt(ctx, log, company, query)
		if err != nil {
			if !sitefind.IsRetryable(err) {
				return sitefind.Outcome{Attempts: attempt}, err
			}
			log.Debug("attempt failed", "err", err)
		}
		if url != "" {
			log.Debug("resolved", "url", url)
			return sitefind.Outcome{URL: url, Attempts: attempt}, nil
		}

		if attempt < maxAttempts && r.Pacer != nil {
			log.Debug("idle")
			if err := r.Pacer.Wait(ctx); err != nil {
				return sitefind.Outcome{Attempts: attempt}, err
			}
		}
	}

	logger.Debug("resolved", "url", nil)
	return sitefind.Outcome{Attempts: maxAttempts}, nil
}

// attempt runs one Querying, Extracting, Filtering pass and returns the
// winning URL, or "" if there is none.
func (r *Resolver) attempt(ctx context.Context, log *slog.Logger, company, query string) (string, error) {
	log.Debug("querying", "query", query)
	html, err := r.Fetcher.Fetch(ctx, r.Engine, query)
	if err != nil {
		return "", err
	}

	log.Debug("extracting", "bytes", len(html))
	candidates, err := r.Extractor.ExtractLinks(html, r.Engine)
	if err != nil {
		return "", err
	}
	slices.SortStableFunc(candidates, func(a, b sitefind.Candidate) int {
		return a.Position - b.Position
	})

	log.Debug("filtering", "candidates", len(candidates))
	for _, c := range candidates {
		url := sitefind.NormalizeURL(c.URL)
		if !sitefind.IsValidWebsite(url) {
			continue
		}
		if r.Filter != nil && !r.Filter.Allowed(url, r.Engine) {
			continue
		}
		return url, nil
	}

	r.archive(ctx, log, company, query, html)
	return "", nil
}

func (r *Resolver) archive(ctx context.Context, log *slog.Logger, company, query, html string) {
	if r.Archive == nil {
		return
	}
	page := &sitefind.SearchPage{
		Engine:     r.Engine,
		Company:    company,
		Query:      query,
		HTML:       html,
		HasResults: r.Extractor.HasResults(html, r.Engine),
		FetchedAt:  time.Now(),
	}
	if err := r.Archive.Archive(ctx, page); err != nil {
		log.Warn("archive page", "err", err)
	}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// Package rod implements sitefind.Fetcher with a Chrome browser driven by
// go-rod.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/sitefind"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements sitefind.Fetcher at compile time.
var _ sitefind.Fetcher = (*Fetcher)(nil)

// Default timings.
const (
	DefaultFetchTimeout  = 30 * time.Second
	DefaultResultsWait   = 10 * time.Second
	DefaultScrollPasses  = 3
	DefaultScrollSettles = 800 * time.Millisecond
)

// Fetcher loads search result pages in a browser Session. Each Fetch opens
// a fresh tab, so every attempt starts without page state.
type Fetcher struct {
	session      *Session
	profiles     *sitefind.Profiles
	fetchTimeout time.Duration
	resultsWait  time.Duration
	thorough     bool
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds one Fetch, including navigation and waiting.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.fetchTimeout = d
	}
}

// WithResultsWait sets how long to wait for the engine's result indicator.
// A page without it is still returned.
func WithResultsWait(d time.Duration) Option {
	return func(f *Fetcher) {
		f.resultsWait = d
	}
}

// WithThorough scrolls each results page to load lazy results and waits
// longer for them.
func WithThorough(thorough bool) Option {
	return func(f *Fetcher) {
		f.thorough = thorough
	}
}

// NewFetcher creates a Fetcher using session and the search URL templates
// of profiles. The Fetcher owns session and closes it.
func NewFetcher(session *Session, profiles *sitefind.Profiles, opts ...Option) *Fetcher {
	f := &Fetcher{
		session:      session,
		profiles:     profiles,
		fetchTimeout: DefaultFetchTimeout,
		resultsWait:  DefaultResultsWait,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements sitefind.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, engine sitefind.SearchEngine, query string) (string, error) {
	if f.closed.Load() {
		return "", sitefind.Errorf(sitefind.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	profile, err := f.profiles.Profile(engine)
	if err != nil {
		return "", err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	page, err := f.session.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fetchError(ctx, "open page", err)
	}
	defer page.Close()
	defer f.session.IncrementPageCount()

	page = page.Context(fetchCtx)

	if err := page.Navigate(profile.QueryURL(query)); err != nil {
		return "", fetchError(ctx, "navigate", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fetchError(ctx, "wait load", err)
	}

	if profile.ResultIndicator != "" {
		wait := f.resultsWait
		if f.thorough {
			wait *= 2
		}
		// Captcha and empty pages never show the indicator; they are
		// returned as is and yield no candidates.
		_, _ = page.Timeout(wait).Element(profile.ResultIndicator)
	}

	if f.thorough {
		if err := scroll(fetchCtx, page.Eval); err != nil {
			return "", fetchError(ctx, "scroll", err)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", fetchError(ctx, "read html", err)
	}
	return html, nil
}

// Close releases the browser session. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.session.Close()
}

type evalFunc func(js string, args ...any) (*proto.RuntimeRemoteObject, error)

// scroll moves to the bottom of the page several times, pausing after each
// pass for lazy results to render.
func scroll(ctx context.Context, eval evalFunc) error {
	for range DefaultScrollPasses {
		if _, err := eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(DefaultScrollSettles):
		}
	}
	return nil
}

// fetchError reports cancellation of the caller's context as is, and every
// other failure, including the fetch timeout, as retryable EFETCH.
func fetchError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return sitefind.Errorf(sitefind.EFETCH, "%s: %v", op, err)
}

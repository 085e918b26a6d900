// Package goquery implements sitefind.LinkExtractor with CSS selector
// cascades evaluated by goquery and cascadia.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/sitefind"
)

// Ensure Extractor implements sitefind.LinkExtractor at compile time.
var _ sitefind.LinkExtractor = (*Extractor)(nil)

// SelectorErrorFunc is called when a single selector fails. The failure is
// otherwise swallowed and extraction continues with the next selector.
type SelectorErrorFunc func(engine sitefind.SearchEngine, selector string, err error)

// Extractor recovers organic result links using the selector cascade of
// each engine profile.
type Extractor struct {
	profiles *sitefind.Profiles
	onError  SelectorErrorFunc
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSelectorErrorFunc sets the handler for failing selectors.
func WithSelectorErrorFunc(fn SelectorErrorFunc) Option {
	return func(e *Extractor) {
		e.onError = fn
	}
}

// NewExtractor creates an Extractor driven by profiles.
func NewExtractor(profiles *sitefind.Profiles, opts ...Option) *Extractor {
	e := &Extractor{profiles: profiles}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractLinks returns candidate URLs from a results page.
//
// Every selector of the engine's cascade is evaluated in order and all
// hrefs are accumulated; a matched node that is not an anchor contributes
// the href of its nearest enclosing anchor. Only when the cascade yields
// no valid URL at all is every absolute http(s) link on the page
// collected instead, in document order. Engine redirect links are
// unwrapped, invalid websites dropped and duplicates removed keeping the
// first occurrence.
func (e *Extractor) ExtractLinks(html string, engine sitefind.SearchEngine) ([]sitefind.Candidate, error) {
	profile, err := e.profiles.Profile(engine)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitefind.Errorf(sitefind.EPARSE, "failed to parse HTML: %v", err)
	}

	base, err := url.Parse(profile.BaseURL)
	if err != nil || !base.IsAbs() {
		base = nil
	}

	var links linkSet
	for _, selector := range profile.Selectors {
		hrefs, err := selectHrefs(doc, selector)
		if err != nil {
			if e.onError != nil {
				e.onError(engine, selector, err)
			}
			continue
		}
		for _, href := range hrefs {
			if resolved := resolveHref(base, href); resolved != "" {
				links.add(unwrapRedirect(profile, base, resolved))
			}
		}
	}

	if links.len() == 0 {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			if !isAbsoluteHTTP(href) {
				return
			}
			if resolved := resolveHref(base, href); resolved != "" {
				links.add(unwrapRedirect(profile, base, resolved))
			}
		})
	}

	return links.candidates(), nil
}

// HasResults reports whether the engine's result indicator matches the page.
func (e *Extractor) HasResults(html string, engine sitefind.SearchEngine) bool {
	profile, err := e.profiles.Profile(engine)
	if err != nil || profile.ResultIndicator == "" {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	matches, err := selectNodes(doc, profile.ResultIndicator)
	return err == nil && matches.Length() > 0
}

// selectHrefs evaluates one selector inside its own fault boundary.
func selectHrefs(doc *goquery.Document, selector string) (hrefs []string, err error) {
	matches, err := selectNodes(doc, selector)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			hrefs, err = nil, sitefind.Errorf(sitefind.EEXTRACT, "selector %q: %v", selector, r)
		}
	}()

	matches.Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Closest("a").Attr("href")
		if ok && strings.TrimSpace(href) != "" {
			hrefs = append(hrefs, strings.TrimSpace(href))
		}
	})
	return hrefs, nil
}

// selectNodes compiles selector explicitly so that a broken selector is
// reported instead of silently matching nothing.
func selectNodes(doc *goquery.Document, selector string) (matches *goquery.Selection, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches, err = nil, sitefind.Errorf(sitefind.EEXTRACT, "selector %q: %v", selector, r)
		}
	}()

	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, sitefind.Errorf(sitefind.EEXTRACT, "selector %q: %v", selector, err)
	}
	return doc.FindMatcher(m), nil
}

// resolveHref resolves href against base and returns it only if the result
// is an http(s) URL. Absolute hrefs are returned as written so unicode hosts
// are not percent-encoded.
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	switch {
	case ref.IsAbs():
		if ref.Scheme != "http" && ref.Scheme != "https" {
			return ""
		}
		return href
	case strings.HasPrefix(href, "//"):
		if ref.Host == "" {
			return ""
		}
		return "https:" + href
	case base == nil:
		return ""
	}
	return base.ResolveReference(ref).String()
}

// unwrapRedirect replaces an engine redirect link with its target.
func unwrapRedirect(profile *sitefind.EngineProfile, base *url.URL, link string) string {
	if len(profile.Redirects) == 0 {
		return link
	}
	u, err := url.Parse(link)
	if err != nil || !isEngineHost(base, u.Hostname()) {
		return link
	}
	for _, r := range profile.Redirects {
		if !redirectPathMatches(u.Path, r.Path) {
			continue
		}
		target := strings.TrimSpace(u.Query().Get(r.Param))
		if target == "" {
			continue
		}
		if strings.HasPrefix(target, "//") {
			target = "https:" + target
		}
		return target
	}
	return link
}

func redirectPathMatches(path, pattern string) bool {
	if strings.HasSuffix(pattern, "/") {
		return strings.HasPrefix(path, pattern)
	}
	return path == pattern
}

// isEngineHost reports whether host belongs to the engine's base domain,
// including subdomains such as html.duckduckgo.com.
func isEngineHost(base *url.URL, host string) bool {
	if base == nil {
		return false
	}
	engineHost := strings.TrimPrefix(strings.ToLower(base.Hostname()), "www.")
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return host == engineHost || strings.HasSuffix(host, "."+engineHost)
}

// isAbsoluteHTTP reports whether href names an http(s) target on its own,
// including scheme-relative "//host" links.
func isAbsoluteHTTP(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "//")
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// linkSet accumulates valid website URLs in first-seen order.
type linkSet struct {
	seen  map[string]bool
	links []string
}

func (s *linkSet) add(link string) {
	if !sitefind.IsValidWebsite(link) {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[link] {
		return
	}
	s.seen[link] = true
	s.links = append(s.links, link)
}

func (s *linkSet) len() int {
	return len(s.links)
}

func (s *linkSet) candidates() []sitefind.Candidate {
	candidates := make([]sitefind.Candidate, 0, len(s.links))
	for i, link := range s.links {
		candidates = append(candidates, sitefind.Candidate{URL: link, Position: i})
	}
	return candidates
}

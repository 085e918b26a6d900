package sitefind

import "strings"

// DomainFilter decides whether a candidate URL may be a company website.
type DomainFilter interface {
	// Allowed returns false if the URL's host is denylisted for engine.
	Allowed(rawURL string, engine SearchEngine) bool
}

// Ensure Denylist implements DomainFilter at compile time.
var _ DomainFilter = (*Denylist)(nil)

// Denylist rejects hosts matching the engine's own denylist or the shared
// cross-engine denylist of a Profiles table.
type Denylist struct {
	match   string
	shared  []string
	engines map[SearchEngine][]string
}

// NewDenylist builds a Denylist from profiles. Entries are lower-cased once
// here; a nil profiles yields a filter that allows everything.
func NewDenylist(profiles *Profiles) *Denylist {
	d := &Denylist{
		match:   MatchSubstring,
		engines: make(map[SearchEngine][]string),
	}
	if profiles == nil {
		return d
	}
	if profiles.Match != "" {
		d.match = profiles.Match
	}
	d.shared = lowerAll(profiles.Shared)
	for engine, profile := range profiles.Engines {
		d.engines[engine] = lowerAll(profile.Denylist)
	}
	return d
}

// Allowed normalizes rawURL, extracts its host and checks it against the
// engine and shared entries. URLs without a host are not allowed.
func (d *Denylist) Allowed(rawURL string, engine SearchEngine) bool {
	host := HostOf(rawURL)
	if host == "" {
		return false
	}
	for _, entry := range d.engines[engine] {
		if d.matches(host, entry) {
			return false
		}
	}
	for _, entry := range d.shared {
		if d.matches(host, entry) {
			return false
		}
	}
	return true
}

func (d *Denylist) matches(host, entry string) bool {
	if d.match == MatchDomain {
		return host == entry || strings.HasSuffix(host, "."+entry)
	}
	return strings.Contains(host, entry)
}

func lowerAll(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

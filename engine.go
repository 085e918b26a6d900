package sitefind

import (
	"net/url"
	"strings"
)

// SearchEngine identifies a supported search engine.
type SearchEngine string

// Supported search engines.
const (
	EngineGoogle     SearchEngine = "google"
	EngineYandex     SearchEngine = "yandex"
	EngineDuckDuckGo SearchEngine = "duckduckgo"
)

// Engines returns every supported engine in a stable order.
func Engines() []SearchEngine {
	return []SearchEngine{EngineGoogle, EngineYandex, EngineDuckDuckGo}
}

// ParseEngine converts a user-supplied name into a SearchEngine.
// Matching is case-insensitive; "ddg" is accepted for DuckDuckGo.
func ParseEngine(name string) (SearchEngine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "google":
		return EngineGoogle, nil
	case "yandex":
		return EngineYandex, nil
	case "duckduckgo", "ddg":
		return EngineDuckDuckGo, nil
	}
	return "", Errorf(EINVALID, "unsupported search engine %q (want google, yandex or duckduckgo)", name)
}

// Match modes for denylist entries.
const (
	// MatchSubstring rejects a host containing the entry anywhere.
	MatchSubstring = "substring"
	// MatchDomain rejects a host equal to the entry or ending in "."+entry.
	MatchDomain = "domain"
)

// Redirect describes an engine-internal redirect link whose real target is
// carried in a query parameter, e.g. Google's /url?q=<target>.
type Redirect struct {
	Path  string `yaml:"path"`
	Param string `yaml:"param"`
}

// EngineProfile is the data that drives extraction and filtering for one
// engine. Result markup drifts over time, so everything that has to follow
// it lives here rather than in code.
type EngineProfile struct {
	Engine SearchEngine `yaml:"-"`

	// SearchURL is a template in which "{query}" is replaced by the
	// URL-encoded query.
	SearchURL string `yaml:"search_url"`

	// BaseURL resolves relative hrefs found on the results page.
	BaseURL string `yaml:"base_url"`

	// ResultIndicator matches when the page holds organic results.
	ResultIndicator string `yaml:"result_indicator"`

	// Selectors are ordered most specific and modern first.
	Selectors []string `yaml:"selectors"`

	Redirects []Redirect `yaml:"redirects"`

	// Denylist holds the engine's own domains and near-variants.
	Denylist []string `yaml:"denylist"`

	// Keywords are appended to the query when keyword augmentation is on.
	Keywords string `yaml:"keywords"`
}

// QueryURL returns the results page URL for query.
func (p *EngineProfile) QueryURL(query string) string {
	return strings.ReplaceAll(p.SearchURL, "{query}", url.QueryEscape(query))
}

// Validate returns an error if the profile cannot drive a search.
func (p *EngineProfile) Validate() error {
	if p.Engine == "" {
		return Errorf(EINVALID, "engine profile name required")
	}
	if p.SearchURL == "" || !strings.Contains(p.SearchURL, "{query}") {
		return Errorf(EINVALID, "engine %s: search URL must contain {query}", p.Engine)
	}
	if len(p.Selectors) == 0 {
		return Errorf(EINVALID, "engine %s: at least one selector required", p.Engine)
	}
	return nil
}

// Profiles is the full configuration table: one profile per engine plus the
// denylist shared by all engines.
type Profiles struct {
	Engines map[SearchEngine]*EngineProfile
	Shared  []string
	Match   string
}

// Profile returns the profile for engine.
// Returns ENOTFOUND if no profile is configured.
func (p *Profiles) Profile(engine SearchEngine) (*EngineProfile, error) {
	if p != nil {
		if profile, ok := p.Engines[engine]; ok {
			return profile, nil
		}
	}
	return nil, Errorf(ENOTFOUND, "no profile configured for engine %q", engine)
}

// Validate returns an error if any profile is invalid or the match mode is unknown.
func (p *Profiles) Validate() error {
	switch p.Match {
	case "", MatchSubstring, MatchDomain:
	default:
		return Errorf(EINVALID, "unknown denylist match mode %q", p.Match)
	}
	for _, engine := range Engines() {
		profile, err := p.Profile(engine)
		if err != nil {
			continue
		}
		if err := profile.Validate(); err != nil {
			return err
		}
	}
	return nil
}

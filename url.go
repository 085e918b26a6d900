package sitefind

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// trackingParams are query keys added by analytics tooling. Keys starting
// with "utm_" are matched by prefix.
var trackingParams = map[string]bool{
	"fbclid":     true,
	"gclid":      true,
	"yclid":      true,
	"dclid":      true,
	"zanpid":     true,
	"msclkid":    true,
	"_openstat":  true,
	"ysclid":     true,
	"mkt_tok":    true,
	"vero_id":    true,
	"ref":        true,
	"referrer":   true,
	"source":     true,
	"source_id":  true,
	"tracking":   true,
	"trackingid": true,
	"sessionid":  true,
	"_ga":        true,
	"_gl":        true,
	"_bta_tid":   true,
	"_bta_c":     true,
	"trk":        true,
	"mc_cid":     true,
	"mc_eid":     true,
}

// IsTrackingParam reports whether a query key is a tracking parameter.
func IsTrackingParam(key string) bool {
	key = strings.ToLower(key)
	return strings.HasPrefix(key, "utm_") || trackingParams[key]
}

// NormalizeURL canonicalizes a candidate URL: it adds https:// when the
// scheme is missing (https: for scheme-relative "//host"), drops the
// fragment and tracking parameters, lower-cases the host, strips a leading
// "www." and drops the slash of a bare root path. It never fails; input
// that cannot be parsed is returned unchanged.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}
	switch {
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	case !schemePrefix.MatchString(s):
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return raw
	}

	query, ok := stripTracking(u.RawQuery)
	if !ok {
		return raw
	}

	// Stripping repeatedly keeps the function idempotent for www.www.x.com.
	host := strings.ToLower(u.Host)
	for strings.HasPrefix(host, "www.") && len(host) > len("www.") {
		host = host[len("www."):]
	}

	path := u.EscapedPath()
	if path == "/" && query == "" {
		path = ""
	}

	// Assembled by hand: url.URL.String percent-encodes unicode hosts.
	var b strings.Builder
	b.WriteString(strings.ToLower(u.Scheme))
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	b.WriteString(host)
	b.WriteString(path)
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	return b.String()
}

// stripTracking removes tracking keys from a raw query string. Remaining
// values are grouped by key in order of first appearance and re-encoded.
// The bool result is false if the query cannot be decoded.
func stripTracking(rawQuery string) (string, bool) {
	if rawQuery == "" {
		return "", true
	}

	type value struct {
		text string
		bare bool
	}
	var keys []string
	values := make(map[string][]value)

	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, hasValue := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return "", false
		}
		val, err := url.QueryUnescape(rawValue)
		if err != nil {
			return "", false
		}
		if key == "" || IsTrackingParam(key) {
			continue
		}
		if _, ok := values[key]; !ok {
			keys = append(keys, key)
		}
		values[key] = append(values[key], value{text: val, bare: !hasValue})
	}

	var parts []string
	for _, key := range keys {
		for _, v := range values[key] {
			if v.bare {
				parts = append(parts, url.QueryEscape(key))
				continue
			}
			parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(v.text))
		}
	}
	return strings.Join(parts, "&"), true
}

// bareDomain matches a scheme-less "label.label" prefix with a final label
// of two or more letters.
var bareDomain = regexp.MustCompile(`^[\p{L}\p{N}][-\p{L}\p{N}]*\.\p{L}{2,}`)

// validTLDs are accepted regardless of length. Anything else must be at
// most five characters long.
var validTLDs = map[string]bool{
	"com": true, "ru": true, "org": true, "net": true, "edu": true,
	"gov": true, "io": true, "co": true, "info": true, "biz": true,
	"рф": true, "ua": true, "uk": true, "de": true, "fr": true,
	"es": true, "it": true, "cn": true, "jp": true, "kr": true,
	"br": true, "au": true, "nz": true, "ca": true, "eu": true,
	"me": true, "tv": true, "pro": true, "online": true, "store": true,
	"shop": true, "app": true, "blog": true, "dev": true, "tech": true,
	"site": true, "web": true, "club": true, "xyz": true, "agency": true,
	"su": true, "by": true, "kz": true, "am": true, "az": true,
	"ge": true, "kg": true, "md": true, "tj": true, "tm": true,
	"uz": true, "cymru": true, "london": true, "moscow": true, "рус": true,
	"tatar": true, "移动": true, "健康": true, "娱乐": true,
}

var hostChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// IsValidWebsite reports whether raw is structurally plausible as a company
// website: an http(s) URL, or a bare domain, whose host has at least two
// non-empty labels and a plausible top-level label. Internationalized hosts
// are checked in their punycode form. It never fails.
func IsValidWebsite(raw string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(raw)) < 5 {
		return false
	}

	s := raw
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		if !bareDomain.MatchString(s) {
			return false
		}
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return validHost(u.Hostname())
}

func validHost(host string) bool {
	if host == "" || !utf8.ValidString(host) {
		return false
	}

	ascii := host
	if !isASCII(host) {
		converted, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return false
		}
		ascii = converted
	}

	if hostChars.MatchString(ascii) && !strings.HasPrefix(ascii, "xn--") {
		return false
	}

	labels := strings.Split(ascii, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" {
			return false
		}
	}

	tld := strings.ToLower(labels[len(labels)-1])
	if strings.HasPrefix(tld, "xn--") {
		if display, err := idna.ToUnicode(tld); err == nil {
			tld = display
		}
	}
	return validTLDs[tld] || utf8.RuneCountInString(tld) <= 5
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// HostOf returns the lower-cased host of a normalized rawURL, or "" if it
// has none.
func HostOf(rawURL string) string {
	u, err := url.Parse(NormalizeURL(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// RegistrableDomain returns the effective TLD plus one label of rawURL's
// host (e.g. "shop.acme.co.uk" becomes "acme.co.uk"). Hosts the public
// suffix list cannot split are returned as is.
func RegistrableDomain(rawURL string) string {
	host := HostOf(rawURL)
	if host == "" {
		return ""
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(ascii)
	if err != nil {
		return host
	}
	if display, err := idna.ToUnicode(domain); err == nil {
		return display
	}
	return domain
}

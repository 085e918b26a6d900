// Package sitefind resolves the official website of a company from its name.
// It queries a web search engine, extracts organic result links from the
// results page, normalizes them and filters out non-company domains
// (search engines, social networks, marketplaces, news portals).
//
// This package contains domain types, interfaces and the pure URL and query
// algorithms, following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, rod/, sqlite/).
package sitefind

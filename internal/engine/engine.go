package engine

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Link is a single organic search hit.
type Link struct {
	Title  string
	URL    string
	Domain string
}

// Query carries the validated search parameters shared by both engines.
// Callers are expected to validate Text and Limit before extraction.
type Query struct {
	Text     string
	Limit    int
	Language string // optional BCP-47 hint passed to the engine
}

// Result is the ordered outcome of one engine's extraction. Links appear
// in page display order, which downstream aggregation treats as priority
// order.
type Result struct {
	Engine   string
	Links    []Link
	Duration time.Duration
}

// Count reports how many organic links were actually obtained, which may
// be fewer than requested when the page runs out of organic results.
func (r Result) Count() int { return len(r.Links) }

// PageRequest describes one results-page load.
type PageRequest struct {
	URL string
	// WaitSelector identifies the organic-results region; the fetcher waits
	// for it before returning HTML.
	WaitSelector string
	// ConsentSelectors are clicked best-effort to dismiss cookie/consent
	// interstitials. Absence of a match is not an error.
	ConsentSelectors []string
	// DebugName labels debug HTML dumps when the fetcher runs in debug mode.
	DebugName string
}

// Fetcher loads a results page and returns its rendered HTML.
type Fetcher interface {
	Load(ctx context.Context, req PageRequest) (string, error)
}

// Extractor produces organic links from one search engine.
type Extractor interface {
	Extract(ctx context.Context, q Query) (Result, error)
	Name() string
}

// fetchPadding is how many extra results we request beyond the caller's
// limit, so that filtering out ads and other noise still leaves enough
// organic candidates.
const fetchPadding = 5

// domainOf derives the display domain from an absolute URL: host lowercased
// with any "www." prefix stripped. Returns "" for unparseable input.
func domainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// isAbsoluteHTTP reports whether href is an absolute http(s) URL; anything
// else (relative paths, javascript:, fragments) has no extractable target.
func isAbsoluteHTTP(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

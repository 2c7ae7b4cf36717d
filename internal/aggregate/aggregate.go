package aggregate

import (
	"net/url"
	"strings"
	"time"

	"github.com/FunctionFreak/link-scraper/internal/engine"
)

// Report is the final, deduplicated, per-engine-bucketed result set for
// one run. Invariant: no normalized URL appears more than once across all
// buckets.
type Report struct {
	ByEngine          map[string]engine.Result
	TotalLinks        int
	DuplicatesDropped int
	GeneratedAt       time.Time
}

// Merge dedupes Bing's list against Google's by normalized URL. Google is
// the authoritative set: its list is never mutated, and any Bing entry
// whose normalized URL Google already claims is dropped (not replaced).
// Kept Bing entries claim their normalized URL too, so surface variants
// of the same page within Bing's own list collapse to the first seen.
func Merge(google, bing engine.Result) Report {
	claimed := make(map[string]struct{}, len(google.Links))
	for _, l := range google.Links {
		claimed[NormalizeURL(l.URL)] = struct{}{}
	}

	kept := make([]engine.Link, 0, len(bing.Links))
	dropped := 0
	for _, l := range bing.Links {
		norm := NormalizeURL(l.URL)
		if _, ok := claimed[norm]; ok {
			dropped++
			continue
		}
		claimed[norm] = struct{}{}
		kept = append(kept, l)
	}
	bing.Links = kept

	return Report{
		ByEngine: map[string]engine.Result{
			google.Engine: google,
			bing.Engine:   bing,
		},
		TotalLinks:        len(google.Links) + len(kept),
		DuplicatesDropped: dropped,
		GeneratedAt:       time.Now(),
	}
}

// trackingParams are query parameters that vary per click without changing
// the target page.
var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id",
	"gclid", "fbclid",
}

// NormalizeURL produces the canonical string used solely for duplicate
// comparison, never for display. The rule is deliberately conservative:
// lowercase scheme and host, strip a "www." host prefix and default ports,
// drop the fragment and known tracking parameters, and trim trailing
// slashes from the path. Remaining query parameters are kept (re-encoded
// in sorted order) since dropping them would collapse distinct pages.
// Normalizing an already-normalized URL yields the same string.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch {
	case u.Scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	u.Fragment = ""
	if u.RawQuery != "" {
		q := u.Query()
		for _, p := range trackingParams {
			q.Del(p)
		}
		u.RawQuery = q.Encode()
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}

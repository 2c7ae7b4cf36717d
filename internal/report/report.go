// Package report renders an aggregated search report to the terminal or to
// a timestamped JSON or PDF file. Rendering never mutates the report.
package report

import (
	"time"

	"github.com/FunctionFreak/link-scraper/internal/aggregate"
	"github.com/FunctionFreak/link-scraper/internal/engine"
)

// engineOrder fixes the bucket order in every renderer: Google first, as
// the authoritative set.
var engineOrder = []string{"google", "bing"}

// document mirrors the fixed JSON file shape. The shape is a stable
// interface; field names and nesting must not change between runs.
type document struct {
	SearchResults map[string]engineDocument `json:"search_results"`
	TotalLinks    int                       `json:"total_links"`
	Timestamp     string                    `json:"timestamp"`
}

type engineDocument struct {
	Count int            `json:"count"`
	Links []linkDocument `json:"links"`
}

type linkDocument struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

func toDocument(rep aggregate.Report) document {
	doc := document{
		SearchResults: make(map[string]engineDocument, len(engineOrder)),
		TotalLinks:    rep.TotalLinks,
		Timestamp:     rep.GeneratedAt.Format(time.RFC3339),
	}
	for _, name := range engineOrder {
		res := rep.ByEngine[name]
		ed := engineDocument{Count: res.Count(), Links: make([]linkDocument, 0, len(res.Links))}
		for _, l := range res.Links {
			ed.Links = append(ed.Links, linkDocument{Title: l.Title, URL: l.URL, Domain: l.Domain})
		}
		doc.SearchResults[name] = ed
	}
	return doc
}

// orderedResults returns the per-engine buckets in fixed render order.
func orderedResults(rep aggregate.Report) []engine.Result {
	out := make([]engine.Result, 0, len(engineOrder))
	for _, name := range engineOrder {
		res := rep.ByEngine[name]
		if res.Engine == "" {
			res.Engine = name
		}
		out = append(out, res)
	}
	return out
}

// timestampBase builds the per-run filename stem. One file per run: the
// second-resolution stamp makes reruns land in fresh files, and writers
// refuse to overwrite on collision.
func timestampBase(t time.Time) string {
	return "search_results_" + t.Format("20060102_150405")
}

package engine

import (
	"context"
	"strings"
	"testing"
)

func bingEntry(href, title string) string {
	return `<li class="b_algo"><h2><a href="` + href + `">` + title + `</a></h2><div class="b_caption"><p>snippet</p></div></li>`
}

func bingPage(entries ...string) string {
	return `<html><body><ol id="b_results">` + strings.Join(entries, "\n") + `</ol></body></html>`
}

func TestBingParse_OrganicInOrder(t *testing.T) {
	page := bingPage(
		bingEntry("https://one.example.com/", "One"),
		bingEntry("https://two.example.com/post", "Two"),
	)
	b := &Bing{}
	links, err := b.Parse(page, 5)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	if links[0].URL != "https://one.example.com/" || links[1].URL != "https://two.example.com/post" {
		t.Fatalf("page order not preserved: %+v", links)
	}
	if links[1].Domain != "two.example.com" {
		t.Fatalf("domain = %q", links[1].Domain)
	}
}

// Two sponsored entries mixed into five organic ones: with a limit of five
// the extractor must return exactly the organic five, in page order.
func TestBingParse_SponsoredNeverAppears(t *testing.T) {
	page := bingPage(
		bingEntry("https://org1.example.com/", "Organic 1"),
		`<li class="b_algo b_adTop"><h2><a href="https://ad1.example.com/">Ad 1</a></h2></li>`,
		bingEntry("https://org2.example.com/", "Organic 2"),
		bingEntry("https://org3.example.com/", "Organic 3"),
		`<li class="b_algo"><div class="b_adSlug">Ad</div><h2><a href="https://ad2.example.com/">Ad 2</a></h2></li>`,
		bingEntry("https://org4.example.com/", "Organic 4"),
		bingEntry("https://org5.example.com/", "Organic 5"),
	)
	b := &Bing{}
	links, err := b.Parse(page, 5)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(links) != 5 {
		t.Fatalf("got %d links, want 5", len(links))
	}
	for i, l := range links {
		if strings.Contains(l.Domain, "ad1") || strings.Contains(l.Domain, "ad2") {
			t.Fatalf("sponsored entry leaked at %d: %+v", i, l)
		}
	}
	if links[4].URL != "https://org5.example.com/" {
		t.Fatalf("last organic = %q", links[4].URL)
	}
}

func TestBingParse_FiltersAIAndInternal(t *testing.T) {
	page := bingPage(
		`<div class="b_ai"><li class="b_algo"><h2><a href="https://summary.example.com/">Copilot pick</a></h2></li></div>`,
		`<li class="b_algo carousel"><h2><a href="https://video.example.com/">Video row</a></h2></li>`,
		bingEntry("https://www.bing.com/images/search?q=x", "Bing images"),
		bingEntry("https://support.microsoft.com/help", "Microsoft help"),
		bingEntry("https://kept.example.com/", "Kept"),
	)
	b := &Bing{}
	links, err := b.Parse(page, 10)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(links) != 1 || links[0].URL != "https://kept.example.com/" {
		t.Fatalf("want single organic survivor, got %+v", links)
	}
}

func TestBingParse_SkipsMissingURL(t *testing.T) {
	page := bingPage(
		`<li class="b_algo"><h2>No anchor</h2></li>`,
		`<li class="b_algo"><h2><a href="javascript:void(0)">Script link</a></h2></li>`,
		bingEntry("https://kept.example.com/", "Kept"),
	)
	b := &Bing{}
	links, err := b.Parse(page, 5)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(links) != 1 || links[0].URL != "https://kept.example.com/" {
		t.Fatalf("anomalous nodes must be skipped silently, got %+v", links)
	}
}

func TestBingParse_RespectsLimit(t *testing.T) {
	entries := make([]string, 0, 8)
	for _, host := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		entries = append(entries, bingEntry("https://"+host+".example.com/", host))
	}
	b := &Bing{}
	links, err := b.Parse(bingPage(entries...), 3)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("got %d links, want 3", len(links))
	}
}

func TestBingExtract_BuildsRequest(t *testing.T) {
	f := &fakeFetcher{page: bingPage(bingEntry("https://a.example.com/", "A"))}
	b := &Bing{Fetcher: f}

	res, err := b.Extract(context.Background(), Query{Text: "golang testing", Limit: 4, Language: "en"})
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if res.Engine != "bing" {
		t.Fatalf("engine = %q", res.Engine)
	}
	if !strings.Contains(f.req.URL, "bing.com/search") {
		t.Fatalf("unexpected URL: %q", f.req.URL)
	}
	if !strings.Contains(f.req.URL, "count=9") {
		t.Fatalf("expected padded result count in URL: %q", f.req.URL)
	}
	if f.req.WaitSelector != "#b_results" {
		t.Fatalf("wait selector = %q", f.req.WaitSelector)
	}
}

package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeFetcher serves a canned page and records the request.
type fakeFetcher struct {
	page string
	err  error
	req  PageRequest
}

func (f *fakeFetcher) Load(_ context.Context, req PageRequest) (string, error) {
	f.req = req
	return f.page, f.err
}

func googleEntry(href, title string) string {
	return `<div class="g"><div class="yuRUbf"><a href="` + href + `"><h3>` + title + `</h3></a></div></div>`
}

func googlePage(entries ...string) string {
	return `<html><body><div id="search"><div id="rso">` + strings.Join(entries, "\n") + `</div></div></body></html>`
}

func TestGoogleParse_OrganicInOrder(t *testing.T) {
	page := googlePage(
		googleEntry("https://golang.org/doc/", "Go Documentation"),
		googleEntry("https://example.com/post", "Example Post"),
		googleEntry("https://blog.example.org/entry", "Blog Entry"),
	)
	g := &Google{}
	links, err := g.Parse(page, 5)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	wantURLs := []string{"https://golang.org/doc/", "https://example.com/post", "https://blog.example.org/entry"}
	if len(links) != len(wantURLs) {
		t.Fatalf("got %d links, want %d", len(links), len(wantURLs))
	}
	for i, want := range wantURLs {
		if links[i].URL != want {
			t.Fatalf("link %d = %q, want %q (page order must be preserved)", i, links[i].URL, want)
		}
	}
	if links[0].Domain != "golang.org" {
		t.Fatalf("domain = %q, want golang.org", links[0].Domain)
	}
}

func TestGoogleParse_RespectsLimit(t *testing.T) {
	page := googlePage(
		googleEntry("https://a.example.com/", "A"),
		googleEntry("https://b.example.com/", "B"),
		googleEntry("https://c.example.com/", "C"),
	)
	g := &Google{}
	links, err := g.Parse(page, 2)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("got %d links, want at most 2", len(links))
	}
}

func TestGoogleParse_FiltersNonOrganic(t *testing.T) {
	page := googlePage(
		// Paid placement: ad marker inside the block.
		`<div class="g"><span data-text-ad="1">Sponsored</span><div class="yuRUbf"><a href="https://ads.example.com/buy"><h3>Buy Now</h3></a></div></div>`,
		// AI overview container wrapping a candidate.
		`<div class="M8OgIe"><div class="g"><div class="yuRUbf"><a href="https://summarized.example.com/"><h3>AI answer source</h3></a></div></div></div>`,
		// Video carousel row.
		`<div class="X7NTVe"><div class="g"><div class="yuRUbf"><a href="https://videos.example.com/clip"><h3>Clip</h3></a></div></div></div>`,
		// Google-internal navigation.
		googleEntry("https://www.google.com/search?q=related", "Related searches"),
		googleEntry("https://maps.google.com/place/1", "Map result"),
		// Plain organic survivor.
		googleEntry("https://kept.example.com/page", "Kept"),
	)
	g := &Google{}
	links, err := g.Parse(page, 10)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1 organic survivor: %+v", len(links), links)
	}
	if links[0].URL != "https://kept.example.com/page" {
		t.Fatalf("survivor = %q", links[0].URL)
	}
}

func TestGoogleParse_UnwrapsRedirects(t *testing.T) {
	page := googlePage(
		googleEntry("/url?q=https://target.example.com/article&amp;sa=U", "Wrapped"),
	)
	g := &Google{}
	links, err := g.Parse(page, 5)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
	if links[0].URL != "https://target.example.com/article" {
		t.Fatalf("url = %q, want unwrapped target", links[0].URL)
	}
}

func TestGoogleParse_SkipsMissingURL(t *testing.T) {
	page := googlePage(
		`<div class="g"><h3>No link here</h3></div>`,
		`<div class="g"><a href="/relative/path"><h3>Relative</h3></a></div>`,
		googleEntry("https://kept.example.com/", "Kept"),
	)
	g := &Google{}
	links, err := g.Parse(page, 5)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(links) != 1 || links[0].URL != "https://kept.example.com/" {
		t.Fatalf("anomalous nodes must be skipped silently, got %+v", links)
	}
}

func TestGoogleParse_InternalDuplicateFirstSeenWins(t *testing.T) {
	page := googlePage(
		googleEntry("https://same.example.com/", "First"),
		googleEntry("https://same.example.com/", "Second"),
	)
	g := &Google{}
	links, err := g.Parse(page, 5)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(links) != 1 || links[0].Title != "First" {
		t.Fatalf("want single first-seen entry, got %+v", links)
	}
}

func TestGoogleExtract_BuildsRequest(t *testing.T) {
	f := &fakeFetcher{page: googlePage(googleEntry("https://a.example.com/", "A"))}
	g := &Google{Fetcher: f}

	res, err := g.Extract(context.Background(), Query{Text: "site:example.com", Limit: 3, Language: "en"})
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if res.Engine != "google" {
		t.Fatalf("engine = %q", res.Engine)
	}
	if !strings.Contains(f.req.URL, "q=site%3Aexample.com") {
		t.Fatalf("query not encoded into URL: %q", f.req.URL)
	}
	if !strings.Contains(f.req.URL, "num=8") {
		t.Fatalf("expected padded result count in URL: %q", f.req.URL)
	}
	if f.req.WaitSelector != "#search" {
		t.Fatalf("wait selector = %q", f.req.WaitSelector)
	}
	if len(f.req.ConsentSelectors) == 0 {
		t.Fatalf("consent selectors missing")
	}
}

func TestGoogleExtract_LoadFailure(t *testing.T) {
	f := &fakeFetcher{err: errors.New("net down")}
	g := &Google{Fetcher: f}

	res, err := g.Extract(context.Background(), Query{Text: "q", Limit: 3})
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Engine != "google" || res.Count() != 0 {
		t.Fatalf("failed extraction must yield empty tagged result, got %+v", res)
	}
}

func TestUnwrapGoogleRedirect(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/url?q=https://x.example.com/a&sa=U", "https://x.example.com/a"},
		{"https://www.google.com/url?q=https://y.example.com/b", "https://y.example.com/b"},
		{"/url?url=https://z.example.com/c", "https://z.example.com/c"},
		{"http://www.google.com/url?q=https://p.example.com/d", "https://p.example.com/d"},
		{"https://google.com/url?q=https://q.example.com/e", "https://q.example.com/e"},
		{"https://attacker.example.com/url?q=https://evil.example.com/", "https://attacker.example.com/url?q=https://evil.example.com/"},
		{"https://plain.example.com/", "https://plain.example.com/"},
		{"/search?q=internal", "/search?q=internal"},
	}
	for _, tc := range cases {
		if got := unwrapGoogleRedirect(tc.in); got != tc.want {
			t.Fatalf("unwrapGoogleRedirect(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

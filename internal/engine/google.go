package engine

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Google extracts organic results from a Google search page.
type Google struct {
	Fetcher Fetcher
}

func (g *Google) Name() string { return "google" }

// googleRules identifies Google's non-organic blocks: ad units, AI
// overviews, video carousels, and Google's own properties.
func googleRules() ruleSet {
	return ruleSet{
		adMarkers: ".uEierd, .commercial-unit-desktop-top, [data-text-ad]",
		blockedAncestors: []string{
			"ueierd", "commercial-unit", // ad slots
			"m8ogie",                                        // AI overview container
			"x7ntve", "scrolling-carousel", "video-voyager", // video/shorts rows
			"related-question-pair", // "people also ask"
		},
		labelKeywords: append(append([]string{}, sponsoredKeywords...), aiKeywords...),
		internalHosts: []string{"google.com", "googleapis.com", "googleusercontent.com"},
	}
}

func (g *Google) searchURL(q Query) string {
	v := url.Values{}
	v.Set("q", q.Text)
	v.Set("num", strconv.Itoa(q.Limit+fetchPadding))
	v.Set("pws", "0")
	if q.Language != "" {
		v.Set("hl", q.Language)
	}
	return "https://www.google.com/search?" + v.Encode()
}

func (g *Google) Extract(ctx context.Context, q Query) (Result, error) {
	start := time.Now()
	page, err := g.Fetcher.Load(ctx, PageRequest{
		URL:          g.searchURL(q),
		WaitSelector: "#search",
		ConsentSelectors: []string{
			"#L2AGLb",
			"button[aria-label='Accept all']",
		},
		DebugName: g.Name(),
	})
	if err != nil {
		return Result{Engine: g.Name()}, fmt.Errorf("load google results: %w", err)
	}
	links, err := g.Parse(page, q.Limit)
	if err != nil {
		return Result{Engine: g.Name()}, err
	}
	return Result{Engine: g.Name(), Links: links, Duration: time.Since(start)}, nil
}

// Parse walks the organic-results region of a rendered Google page in
// display order and collects up to limit organic links.
func (g *Google) Parse(page string, limit int) ([]Link, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse google page: %w", err)
	}
	rules := googleRules()
	links := make([]Link, 0, limit)
	seen := make(map[string]struct{})

	doc.Find("#search .g, #rso .g, #search .MjjYud, #rso .MjjYud").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Find("h3").First().Text())
		if title == "" {
			return true
		}
		anchor := s.Find(".yuRUbf a").First()
		if anchor.Length() == 0 {
			anchor = s.Find("a[href]").First()
		}
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			return true
		}
		href = unwrapGoogleRedirect(href)
		if !isAbsoluteHTTP(href) {
			return true
		}
		domain := domainOf(href)
		if domain == "" || rules.excluded(s, title, domain) {
			return true
		}
		if _, dup := seen[href]; dup {
			return true
		}
		seen[href] = struct{}{}
		links = append(links, Link{Title: title, URL: href, Domain: domain})
		return len(links) < limit
	})
	return links, nil
}

// unwrapGoogleRedirect resolves Google's /url?q=... redirect wrappers to
// the external target, whether the href is relative or carries any
// scheme/host variant of google.com. Non-redirect hrefs pass through
// unchanged.
func unwrapGoogleRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Path != "/url" {
		return href
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "" && host != "google.com" {
		return href
	}
	params := u.Query()
	if q := params.Get("q"); q != "" {
		return q
	}
	if target := params.Get("url"); target != "" {
		return target
	}
	return href
}

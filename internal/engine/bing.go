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

// Bing extracts organic results from a Bing search page.
type Bing struct {
	Fetcher Fetcher
}

func (b *Bing) Name() string { return "bing" }

// bingRules identifies Bing's non-organic blocks: ad slots, Copilot/AI
// answers, carousels and sidebars, and Microsoft's own properties.
func bingRules() ruleSet {
	return ruleSet{
		adMarkers: ".b_adSlug, .b_ad .b_adLastChild",
		blockedAncestors: []string{
			"b_ad", "b_sponsored", "b_promotion", // paid placements
			"b_ai", "b_copilot", "b_summary", // AI-generated answers
			"carousel", "b_slidebar", // video/shorts rows
			"sidebar", "b_context", "related", // non-organic page furniture
		},
		labelKeywords: append(append([]string{}, sponsoredKeywords...), aiKeywords...),
		internalHosts: []string{"bing.com", "microsoft.com", "msn.com"},
	}
}

func (b *Bing) searchURL(q Query) string {
	v := url.Values{}
	v.Set("q", q.Text)
	v.Set("count", strconv.Itoa(q.Limit+fetchPadding))
	if q.Language != "" {
		v.Set("setlang", q.Language)
	}
	return "https://www.bing.com/search?" + v.Encode()
}

func (b *Bing) Extract(ctx context.Context, q Query) (Result, error) {
	start := time.Now()
	page, err := b.Fetcher.Load(ctx, PageRequest{
		URL:          b.searchURL(q),
		WaitSelector: "#b_results",
		ConsentSelectors: []string{
			"#bnp_btn_accept",
			"button[aria-label='Accept']",
		},
		DebugName: b.Name(),
	})
	if err != nil {
		return Result{Engine: b.Name()}, fmt.Errorf("load bing results: %w", err)
	}
	links, err := b.Parse(page, q.Limit)
	if err != nil {
		return Result{Engine: b.Name()}, err
	}
	return Result{Engine: b.Name(), Links: links, Duration: time.Since(start)}, nil
}

// Parse walks Bing's #b_results list in display order and collects up to
// limit organic links. Bing marks organic hits with the b_algo class, so
// candidates outside it never enter the walk.
func (b *Bing) Parse(page string, limit int) ([]Link, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse bing page: %w", err)
	}
	rules := bingRules()
	links := make([]Link, 0, limit)
	seen := make(map[string]struct{})

	doc.Find("li.b_algo").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		heading := s.Find("h2").First()
		title := strings.TrimSpace(heading.Text())
		if title == "" {
			return true
		}
		anchor := heading.Find("a[href]").First()
		if anchor.Length() == 0 {
			anchor = s.Find("a[href]").First()
		}
		href, ok := anchor.Attr("href")
		if !ok || !isAbsoluteHTTP(href) {
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

package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ruleSet holds the per-engine predicates that identify non-organic
// candidate nodes: sponsored blocks, AI-generated overviews, video
// carousels, and the engine's own navigation links.
type ruleSet struct {
	// adMarkers is a selector matched inside a candidate; a hit marks it
	// as a paid placement.
	adMarkers string
	// blockedAncestors are lowercase class/id fragments; a candidate with
	// any of these on an ancestor element is not organic.
	blockedAncestors []string
	// labelKeywords are matched against the candidate's title and badge
	// text, lowercased.
	labelKeywords []string
	// internalHosts are domains belonging to the engine itself; links to
	// them are navigation, not results.
	internalHosts []string
}

// excluded applies every predicate to one candidate node and its extracted
// link. A single match is enough to reject.
func (r ruleSet) excluded(s *goquery.Selection, title, linkDomain string) bool {
	if r.adMarkers != "" && s.Find(r.adMarkers).Length() > 0 {
		return true
	}
	if hasBlockedAncestor(s, r.blockedAncestors) {
		return true
	}
	label := strings.ToLower(title)
	for _, kw := range r.labelKeywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	for _, h := range r.internalHosts {
		if linkDomain == h || strings.HasSuffix(linkDomain, "."+h) {
			return true
		}
	}
	return false
}

// hasBlockedAncestor climbs from the candidate node to the document root
// checking class and id attributes against the blocked fragments.
func hasBlockedAncestor(s *goquery.Selection, blocked []string) bool {
	if len(blocked) == 0 || len(s.Nodes) == 0 {
		return false
	}
	for n := s.Nodes[0]; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		for _, attr := range n.Attr {
			if attr.Key != "class" && attr.Key != "id" {
				continue
			}
			val := strings.ToLower(attr.Val)
			for _, b := range blocked {
				if strings.Contains(val, b) {
					return true
				}
			}
		}
	}
	return false
}

// Shared between engines: badge text that marks paid or AI-generated
// placements regardless of DOM structure.
var sponsoredKeywords = []string{"sponsored", "advertisement", "promoted"}

var aiKeywords = []string{"ai overview", "ai summary", "ai-generated", "generated by ai", "copilot answer"}

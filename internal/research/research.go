// Package research plans and runs the information-gathering phase: research
// queries are derived per expert, deduplicated, prioritized, and resolved
// into sources through a Searcher.
package research

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Item is one planned research query.
type Item struct {
	Query    string   `json:"query"`
	Category string   `json:"category"`
	Priority int      `json:"priority"` // 1-10
	Keywords []string `json:"keywords,omitempty"`
}

// Source is one collected reference.
type Source struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Snippet     string  `json:"snippet"`
	Relevance   float64 `json:"relevance_score"`
	Reliability float64 `json:"reliability_score"`
	Type        string  `json:"source_type"`
}

// Result is the outcome of one gathering run.
type Result struct {
	Items    []Item   `json:"research_items"`
	Sources  []Source `json:"sources"`
	Keywords []string `json:"keywords"`
	// TotalQueries counts planned queries before the cap.
	TotalQueries int `json:"total_queries"`
}

// Searcher resolves a research query into sources. rank is the query's
// zero-based position within the current gathering run. The production
// implementation is backed by a generation backend; tests and fallback mode
// use StubSearcher.
type Searcher interface {
	Search(ctx context.Context, query string, rank int) ([]Source, error)
}

const (
	// maxItems caps the research plan.
	maxItems = 10
	// maxExperts bounds how many experts contribute research areas.
	maxExperts = 3
	// maxKeywords caps extracted request keywords.
	maxKeywords = 10
	// maxSearches bounds how many planned items are actually searched.
	maxSearches = 5
)

// stopwords are excluded from keyword extraction.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "to": true, "in": true, "on": true, "for": true,
	"with": true, "is": true, "are": true, "was": true, "be": true,
	"this": true, "that": true, "it": true, "as": true, "at": true,
	"by": true, "from": true, "we": true, "our": true, "my": true,
}

// area is one templated research direction for an expert role.
type area struct {
	suffix   string
	category string
	priority int
}

// areaTemplates maps an expert-role fragment to its research directions.
// Matched by substring against the expert role name; unmatched roles fall
// back to a single general query.
var areaTemplates = []struct {
	roleFragment string
	areas        []area
}{
	{"Domain", []area{
		{"best practices", "Best Practices", 9},
		{"guidelines", "Guidelines", 8},
	}},
	{"Subdomain", []area{
		{"recommended approach", "Technical", 9},
		{"worked examples", "Examples", 7},
	}},
	{"Category", []area{
		{"requirements analysis", "Requirements", 9},
		{"project planning", "Planning", 8},
	}},
}

var generalArea = []area{{"overview guide", "General", 5}}

// Gatherer plans and executes research.
type Gatherer struct {
	searcher Searcher
}

// NewGatherer creates a Gatherer backed by the given Searcher.
func NewGatherer(searcher Searcher) *Gatherer {
	return &Gatherer{searcher: searcher}
}

// Plan derives the research items for a request and expert roster: per-expert
// areas from the role templates, request keywords attached, sorted by
// priority (stable), deduplicated by query, capped at maxItems.
func (g *Gatherer) Plan(request string, expertRoles []string) ([]Item, []string, int) {
	keywords := ExtractKeywords(request)

	if len(expertRoles) > maxExperts {
		expertRoles = expertRoles[:maxExperts]
	}

	var items []Item
	for _, role := range expertRoles {
		for _, a := range areasFor(role) {
			items = append(items, Item{
				Query:    request + " " + a.suffix,
				Category: a.category,
				Priority: a.priority,
				Keywords: keywords,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority > items[j].Priority
	})
	items = dedupe(items)
	total := len(items)
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items, keywords, total
}

// Gather plans the research and resolves the top planned items into sources.
func (g *Gatherer) Gather(ctx context.Context, request string, expertRoles []string) (*Result, error) {
	items, keywords, total := g.Plan(request, expertRoles)

	var sources []Source
	searched := items
	if len(searched) > maxSearches {
		searched = searched[:maxSearches]
	}
	for i, item := range searched {
		found, err := g.searcher.Search(ctx, item.Query, i)
		if err != nil {
			return nil, fmt.Errorf("searching %q: %w", item.Query, err)
		}
		sources = append(sources, found...)
	}

	return &Result{
		Items:        items,
		Sources:      sources,
		Keywords:     keywords,
		TotalQueries: total,
	}, nil
}

// ExtractKeywords pulls the leading significant words from the request:
// stopwords and single characters are dropped, the first maxKeywords kept.
func ExtractKeywords(request string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(request)) {
		if len(w) <= 1 || stopwords[w] {
			continue
		}
		out = append(out, w)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

func areasFor(role string) []area {
	for _, tmpl := range areaTemplates {
		if strings.Contains(role, tmpl.roleFragment) {
			return tmpl.areas
		}
	}
	return generalArea
}

func dedupe(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, item := range items {
		if seen[item.Query] {
			continue
		}
		seen[item.Query] = true
		out = append(out, item)
	}
	return out
}

// StubSearcher is the deterministic Searcher used in fallback mode and in
// tests: every query yields one synthetic source whose scores decay with the
// query's rank in the run. Stateless, so one instance can serve concurrent
// sessions.
type StubSearcher struct{}

// Search implements Searcher.
func (StubSearcher) Search(_ context.Context, query string, rank int) ([]Source, error) {
	title := query
	if len(title) > 30 {
		title = title[:30] + "..."
	}
	return []Source{{
		Title:       "Reference: " + title,
		URL:         fmt.Sprintf("https://example.com/source-%d", rank+1),
		Snippet:     fmt.Sprintf("Summary of findings for %q.", query),
		Relevance:   0.9 - float64(rank)*0.1,
		Reliability: 8.0 - float64(rank)*0.5,
		Type:        "web",
	}}, nil
}

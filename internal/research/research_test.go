package research

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name    string
		request string
		want    []string
	}{
		{
			name:    "stopwords and single chars dropped",
			request: "Analyze the support workflow for a b team",
			want:    []string{"analyze", "support", "workflow", "team"},
		},
		{
			name:    "capped at ten",
			request: "one two three four five six seven eight nine ten eleven twelve",
			want:    []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"},
		},
		{
			name:    "empty request",
			request: "",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractKeywords(tt.request); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeywords = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlan_AreasPerRole(t *testing.T) {
	g := NewGatherer(&StubSearcher{})

	items, _, _ := g.Plan("improve onboarding", []string{"Domain Expert"})
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 for a domain expert", len(items))
	}
	if items[0].Category != "Best Practices" || items[0].Priority != 9 {
		t.Errorf("top item = %s/%d, want Best Practices/9", items[0].Category, items[0].Priority)
	}
	if items[1].Category != "Guidelines" {
		t.Errorf("second item = %s, want Guidelines", items[1].Category)
	}
}

func TestPlan_UnknownRoleGetsGeneralArea(t *testing.T) {
	g := NewGatherer(&StubSearcher{})

	items, _, _ := g.Plan("improve onboarding", []string{"Mystery Consultant"})
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Category != "General" || items[0].Priority != 5 {
		t.Errorf("item = %s/%d, want General/5", items[0].Category, items[0].Priority)
	}
}

func TestPlan_PrioritySorted(t *testing.T) {
	g := NewGatherer(&StubSearcher{})

	items, _, _ := g.Plan("improve onboarding", []string{"Category Expert", "Domain Expert"})
	for i := 1; i < len(items); i++ {
		if items[i].Priority > items[i-1].Priority {
			t.Fatalf("items not sorted by priority: %v", items)
		}
	}
	// Priority 9 tie between Requirements (Category, listed first) and Best
	// Practices (Domain): stable sort keeps roster order.
	if items[0].Category != "Requirements" {
		t.Errorf("top category = %s, want Requirements", items[0].Category)
	}
}

func TestPlan_DeduplicatesByQuery(t *testing.T) {
	g := NewGatherer(&StubSearcher{})

	// Two domain experts produce identical queries.
	items, _, _ := g.Plan("improve onboarding", []string{"Domain Expert", "Domain Expert"})
	if len(items) != 2 {
		t.Errorf("items = %d, want 2 after dedupe", len(items))
	}
}

func TestPlan_ExpertCapAtThree(t *testing.T) {
	g := NewGatherer(&StubSearcher{})

	roles := []string{"Domain Expert", "Subdomain Specialist", "Category Expert", "Task Specialist"}
	items, _, total := g.Plan("improve onboarding", roles)
	// First three roles contribute two areas each; the fourth is ignored.
	if total != 6 {
		t.Errorf("total queries = %d, want 6", total)
	}
	if len(items) != 6 {
		t.Errorf("items = %d, want 6", len(items))
	}
}

func TestPlan_KeywordsAttached(t *testing.T) {
	g := NewGatherer(&StubSearcher{})

	items, keywords, _ := g.Plan("analyze support tickets", []string{"Domain Expert"})
	if len(keywords) == 0 {
		t.Fatal("expected extracted keywords")
	}
	if !reflect.DeepEqual(items[0].Keywords, keywords) {
		t.Errorf("item keywords = %v, want %v", items[0].Keywords, keywords)
	}
}

func TestGather_CollectsSources(t *testing.T) {
	g := NewGatherer(&StubSearcher{})

	res, err := g.Gather(context.Background(), "improve onboarding", []string{"Domain Expert"})
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(res.Sources) != 2 {
		t.Fatalf("sources = %d, want one per planned item", len(res.Sources))
	}
	if res.Sources[0].Relevance != 0.9 {
		t.Errorf("first relevance = %v, want 0.9", res.Sources[0].Relevance)
	}
	if res.Sources[1].Relevance != 0.8 {
		t.Errorf("second relevance = %v, want 0.8 (decaying)", res.Sources[1].Relevance)
	}
	if !strings.HasPrefix(res.Sources[0].Title, "Reference: ") {
		t.Errorf("title = %q", res.Sources[0].Title)
	}
}

func TestGather_ScoresRestartPerRun(t *testing.T) {
	g := NewGatherer(&StubSearcher{})

	first, err := g.Gather(context.Background(), "improve onboarding", []string{"Domain Expert"})
	if err != nil {
		t.Fatalf("first Gather: %v", err)
	}
	second, err := g.Gather(context.Background(), "improve onboarding", []string{"Domain Expert"})
	if err != nil {
		t.Fatalf("second Gather: %v", err)
	}

	if !reflect.DeepEqual(first.Sources, second.Sources) {
		t.Errorf("consecutive runs diverged:\n first: %+v\nsecond: %+v", first.Sources, second.Sources)
	}
	if second.Sources[0].Relevance != 0.9 || second.Sources[0].Reliability != 8.0 {
		t.Errorf("second run top source = %.1f/%.1f, want the decay to restart at 0.9/8.0",
			second.Sources[0].Relevance, second.Sources[0].Reliability)
	}
}

type failingSearcher struct{}

func (failingSearcher) Search(context.Context, string, int) ([]Source, error) {
	return nil, errors.New("backend down")
}

func TestGather_SearchErrorPropagates(t *testing.T) {
	g := NewGatherer(failingSearcher{})

	if _, err := g.Gather(context.Background(), "improve onboarding", []string{"Domain Expert"}); err == nil {
		t.Error("expected search error to propagate")
	}
}

package selection

import (
	"strings"
	"testing"

	"github.com/HendryAvila/insight/internal/llm"
)

func TestDeriveProfile(t *testing.T) {
	tests := []struct {
		name       string
		sections   []string
		complexity int
		budget     llm.CostTier
		want       TaskProfile
	}{
		{
			name:       "plain sections",
			sections:   []string{"overview of the plan", "rollout schedule"},
			complexity: 3,
			want: TaskProfile{
				Complexity: 3,
				BudgetTier: llm.CostMedium,
			},
		},
		{
			name:       "reasoning above complexity five",
			sections:   []string{"overview"},
			complexity: 6,
			want: TaskProfile{
				Complexity:        6,
				RequiresReasoning: true,
				BudgetTier:        llm.CostMedium,
			},
		},
		{
			name:       "code keyword",
			sections:   []string{"Implement the ingestion API"},
			complexity: 2,
			want: TaskProfile{
				Complexity:   2,
				RequiresCode: true,
				BudgetTier:   llm.CostMedium,
			},
		},
		{
			name:       "creative keyword",
			sections:   []string{"brand voice and visual identity"},
			complexity: 2,
			want: TaskProfile{
				Complexity:         2,
				RequiresCreativity: true,
				BudgetTier:         llm.CostMedium,
			},
		},
		{
			name:       "long context above five sections",
			sections:   []string{"a", "b", "c", "d", "e", "f"},
			complexity: 2,
			want: TaskProfile{
				Complexity:          2,
				RequiresLongContext: true,
				BudgetTier:          llm.CostMedium,
			},
		},
		{
			name:       "explicit budget kept",
			sections:   nil,
			complexity: 0,
			budget:     llm.CostLow,
			want: TaskProfile{
				BudgetTier: llm.CostLow,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveProfile(tt.sections, tt.complexity, tt.budget)
			if got != tt.want {
				t.Errorf("DeriveProfile = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSelect_ScoreAccumulation(t *testing.T) {
	catalog := []llm.Profile{
		{
			Model:     "all-rounder",
			Provider:  "anthropic",
			Backend:   "claude",
			Strengths: []llm.Strength{llm.StrengthReasoning, llm.StrengthCode, llm.StrengthCreative, llm.StrengthLongContext},
			CostTier:  llm.CostHigh,
		},
	}
	s := NewScorerWithCatalog(catalog)

	res := s.Select(TaskProfile{
		Complexity:          7,
		RequiresReasoning:   true,
		RequiresCode:        true,
		RequiresCreativity:  true,
		RequiresLongContext: true,
		BudgetTier:          llm.CostHigh,
	})

	// 3 + 3 + 2 + 2 + 1.
	if got := res.Ranking[0].Score; got != 11 {
		t.Errorf("score = %d, want 11", got)
	}
	if got := res.Selections[0].Confidence; got != 1.0 {
		t.Errorf("primary confidence = %v, want capped at 1.0", got)
	}
}

func TestSelect_PrimaryConfidence(t *testing.T) {
	catalog := []llm.Profile{
		{Model: "m1", Provider: "openai", Backend: "gpt", Strengths: []llm.Strength{llm.StrengthCode}},
	}
	s := NewScorerWithCatalog(catalog)

	res := s.Select(TaskProfile{RequiresCode: true, BudgetTier: llm.CostMedium})
	if got := res.Selections[0].Confidence; got != 0.3 {
		t.Errorf("confidence = %v, want 0.3 (score 3 / 10)", got)
	}
	if res.Selections[0].Role != RolePrimary {
		t.Errorf("role = %s, want primary", res.Selections[0].Role)
	}
}

func TestSelect_TiePreservesDeclarationOrder(t *testing.T) {
	catalog := []llm.Profile{
		{Model: "first", Provider: "openai", Backend: "gpt"},
		{Model: "second", Provider: "google", Backend: "gemini"},
	}
	s := NewScorerWithCatalog(catalog)

	// No requirements: both score 0.
	res := s.Select(TaskProfile{BudgetTier: llm.CostMedium})
	if res.Ranking[0].Profile.Model != "first" || res.Ranking[1].Profile.Model != "second" {
		t.Errorf("tie order not preserved: %s, %s",
			res.Ranking[0].Profile.Model, res.Ranking[1].Profile.Model)
	}
	if res.Selections[0].Model != "first" {
		t.Errorf("primary = %s, want first", res.Selections[0].Model)
	}
}

func TestSelect_FallbackAboveComplexitySix(t *testing.T) {
	s := NewScorer()

	res := s.Select(TaskProfile{Complexity: 7, RequiresReasoning: true, BudgetTier: llm.CostMedium})
	if len(res.Selections) != 2 {
		t.Fatalf("selections = %d, want primary + fallback", len(res.Selections))
	}
	fb := res.Selections[1]
	if fb.Role != RoleFallback {
		t.Errorf("second role = %s, want fallback", fb.Role)
	}
	if fb.Confidence != 0.7 {
		t.Errorf("fallback confidence = %v, want 0.7", fb.Confidence)
	}
}

func TestSelect_NoFallbackAtOrBelowComplexitySix(t *testing.T) {
	s := NewScorer()

	res := s.Select(TaskProfile{Complexity: 6, RequiresReasoning: true, BudgetTier: llm.CostMedium})
	if len(res.Selections) != 1 {
		t.Errorf("selections = %d, want primary only at complexity 6", len(res.Selections))
	}
}

func TestSelect_CatalogRanking(t *testing.T) {
	s := NewScorer()

	// Reasoning + long context: claude (3+2=5) and gemini (3+2=5) tie,
	// claude wins by declaration order.
	res := s.Select(TaskProfile{
		Complexity:          7,
		RequiresReasoning:   true,
		RequiresLongContext: true,
		BudgetTier:          llm.CostMedium,
	})
	if got := res.Selections[0].Model; got != "claude-3-5-sonnet-20241022" {
		t.Errorf("primary = %s, want claude-3-5-sonnet-20241022", got)
	}
	if got := res.Selections[1].Model; got != "gemini-1.5-pro" {
		t.Errorf("fallback = %s, want gemini-1.5-pro", got)
	}
}

func TestSelect_CostTierAlignment(t *testing.T) {
	s := NewScorer()

	// Low budget, no other requirements: only gpt-3.5-turbo scores (+1).
	res := s.Select(TaskProfile{BudgetTier: llm.CostLow})
	if got := res.Selections[0].Model; got != "gpt-3.5-turbo" {
		t.Errorf("primary = %s, want gpt-3.5-turbo on low budget", got)
	}

	// Medium budget awards nothing: full tie, catalog order wins.
	res = s.Select(TaskProfile{BudgetTier: llm.CostMedium})
	if got := res.Selections[0].Model; got != "claude-3-5-sonnet-20241022" {
		t.Errorf("primary = %s, want catalog head on full tie", got)
	}
}

func TestSelect_OptimizedPromptsPerProvider(t *testing.T) {
	catalog := []llm.Profile{
		{Model: "claude-x", Provider: "anthropic", Backend: "claude", Strengths: []llm.Strength{llm.StrengthReasoning}},
		{Model: "gpt-x", Provider: "openai", Backend: "gpt"},
	}
	s := NewScorerWithCatalog(catalog)

	res := s.Select(TaskProfile{Complexity: 7, RequiresReasoning: true, BudgetTier: llm.CostMedium})
	if len(res.OptimizedPrompts) != 2 {
		t.Fatalf("prompts = %d, want one per selection", len(res.OptimizedPrompts))
	}
	if p := res.OptimizedPrompts["claude-x"]; !strings.Contains(p, "step by step") {
		t.Errorf("anthropic prompt missing structured instruction: %q", p)
	}
	if p := res.OptimizedPrompts["gpt-x"]; !strings.Contains(p, "precisely") {
		t.Errorf("openai prompt missing direct instruction: %q", p)
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(Selection{
		Model:      "claude-3-5-sonnet-20241022",
		Provider:   "anthropic",
		Role:       RolePrimary,
		Confidence: 0.8,
	})
	want := "claude-3-5-sonnet-20241022 (anthropic, primary, confidence 0.80)"
	if got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
}

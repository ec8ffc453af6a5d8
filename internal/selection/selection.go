// Package selection ranks candidate generation models for a task and picks
// the primary (and, for very complex work, fallback) backend.
package selection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/HendryAvila/insight/internal/llm"
)

// Role marks a selection's place in the execution plan.
type Role string

const (
	RolePrimary  Role = "primary"
	RoleFallback Role = "fallback"
)

// fallbackConfidence is the fixed confidence of a fallback selection.
const fallbackConfidence = 0.7

// TaskProfile captures what the task demands of a model. It is derived from
// the design artifact, never supplied by the caller directly.
type TaskProfile struct {
	Complexity           int          `json:"complexity"`
	RequiresReasoning    bool         `json:"requires_reasoning"`
	RequiresCode         bool         `json:"requires_code"`
	RequiresCreativity   bool         `json:"requires_creativity"`
	RequiresLongContext  bool         `json:"requires_long_context"`
	BudgetTier           llm.CostTier `json:"budget_tier"`
}

// Reason names one criterion a candidate scored on.
type Reason struct {
	Criterion string  `json:"criterion"`
	Weight    float64 `json:"weight"`
	Score     float64 `json:"score"`
}

// Selection is one ranked model choice.
type Selection struct {
	Model      string         `json:"model"`
	Provider   string         `json:"provider"`
	Backend    string         `json:"backend"`
	Role       Role           `json:"role"`
	Strengths  []llm.Strength `json:"strengths,omitempty"`
	Reasons    []Reason       `json:"reasons,omitempty"`
	Confidence float64        `json:"confidence"`
}

// Candidate is a scored catalog entry; exposed so callers can inspect the
// full ranking, not just the selections.
type Candidate struct {
	Profile llm.Profile `json:"profile"`
	Score   int         `json:"score"`
	Reasons []string    `json:"reasons,omitempty"`
}

// Result is the full output of one selection run.
type Result struct {
	Selections       []Selection       `json:"selections"`
	Ranking          []Candidate       `json:"ranking"`
	Profile          TaskProfile       `json:"task_profile"`
	OptimizedPrompts map[string]string `json:"optimized_prompts"`
}

var (
	codeTokens     = []string{"code", "implement", "develop", "program", "script", "api"}
	creativeTokens = []string{"creative", "design", "story", "brand", "visual"}
)

// DeriveProfile builds the task profile from the design artifact's section
// contents and the request's complexity total. Reasoning is demanded above
// complexity 5, long context above five sections; code and creativity are
// keyword-driven.
func DeriveProfile(sectionContents []string, complexityTotal int, budget llm.CostTier) TaskProfile {
	if budget == "" {
		budget = llm.CostMedium
	}
	p := TaskProfile{
		Complexity:        complexityTotal,
		RequiresReasoning: complexityTotal > 5,
		BudgetTier:        budget,
	}
	if len(sectionContents) > 5 {
		p.RequiresLongContext = true
	}
	for _, content := range sectionContents {
		lowered := strings.ToLower(content)
		if !p.RequiresCode && containsAny(lowered, codeTokens) {
			p.RequiresCode = true
		}
		if !p.RequiresCreativity && containsAny(lowered, creativeTokens) {
			p.RequiresCreativity = true
		}
	}
	return p
}

// Scorer ranks models from a fixed catalog against a task profile.
type Scorer struct {
	catalog []llm.Profile
}

// NewScorer uses the standard model catalog.
func NewScorer() *Scorer {
	return &Scorer{catalog: llm.Catalog()}
}

// NewScorerWithCatalog is the injectable variant used in tests.
func NewScorerWithCatalog(catalog []llm.Profile) *Scorer {
	return &Scorer{catalog: catalog}
}

// Select scores every catalog candidate, ranks them, and assigns roles. The
// top candidate is primary with confidence min(score/10, 1.0); when the task
// complexity exceeds 6 and a second candidate exists, it joins as fallback.
// Ties keep catalog declaration order.
func (s *Scorer) Select(profile TaskProfile) Result {
	ranking := make([]Candidate, 0, len(s.catalog))
	for _, model := range s.catalog {
		ranking = append(ranking, s.score(model, profile))
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})

	var selections []Selection
	if len(ranking) > 0 {
		top := ranking[0]
		reasons := make([]Reason, 0, len(top.Reasons))
		for _, r := range top.Reasons {
			reasons = append(reasons, Reason{
				Criterion: r,
				Weight:    0.8,
				Score:     float64(top.Score) / 10.0,
			})
		}
		confidence := float64(top.Score) / 10.0
		if confidence > 1.0 {
			confidence = 1.0
		}
		selections = append(selections, Selection{
			Model:      top.Profile.Model,
			Provider:   top.Profile.Provider,
			Backend:    top.Profile.Backend,
			Role:       RolePrimary,
			Strengths:  top.Profile.Strengths,
			Reasons:    reasons,
			Confidence: confidence,
		})
	}
	if profile.Complexity > 6 && len(ranking) > 1 {
		second := ranking[1]
		selections = append(selections, Selection{
			Model:      second.Profile.Model,
			Provider:   second.Profile.Provider,
			Backend:    second.Profile.Backend,
			Role:       RoleFallback,
			Confidence: fallbackConfidence,
		})
	}

	return Result{
		Selections:       selections,
		Ranking:          ranking,
		Profile:          profile,
		OptimizedPrompts: optimizePrompts(selections),
	}
}

// score accumulates a candidate's points against the profile: +3 reasoning,
// +3 code, +2 creative, +2 long context, +1 cost-tier alignment at the low
// and high budget ends.
func (s *Scorer) score(model llm.Profile, profile TaskProfile) Candidate {
	c := Candidate{Profile: model}

	if profile.RequiresReasoning && model.HasStrength(llm.StrengthReasoning) {
		c.Score += 3
		c.Reasons = append(c.Reasons, "strong reasoning capability")
	}
	if profile.RequiresCode && model.HasStrength(llm.StrengthCode) {
		c.Score += 3
		c.Reasons = append(c.Reasons, "specialized in code generation")
	}
	if profile.RequiresCreativity && model.HasStrength(llm.StrengthCreative) {
		c.Score += 2
		c.Reasons = append(c.Reasons, "suited to creative work")
	}
	if profile.RequiresLongContext && model.HasStrength(llm.StrengthLongContext) {
		c.Score += 2
		c.Reasons = append(c.Reasons, "handles long documents")
	}
	switch {
	case profile.BudgetTier == llm.CostLow && model.CostTier == llm.CostLow:
		c.Score++
		c.Reasons = append(c.Reasons, "cost efficient")
	case profile.BudgetTier == llm.CostHigh && model.CostTier == llm.CostHigh:
		c.Score++
	}

	return c
}

// optimizePrompts produces a per-provider execution prompt tuned to each
// provider's preferred instruction style.
func optimizePrompts(selections []Selection) map[string]string {
	const base = "Carry out the task described by the following design document:\n\n"

	prompts := make(map[string]string, len(selections))
	for _, sel := range selections {
		var optimized string
		switch sel.Provider {
		case "anthropic":
			optimized = base + "Work through the task step by step and explain the rationale behind each step."
		case "openai":
			optimized = base + "Follow the requirements precisely and complete the task."
		case "google":
			optimized = base + "Implement the contents of the design document faithfully."
		default:
			optimized = base
		}
		prompts[sel.Model] = optimized
	}
	return prompts
}

func containsAny(lowered string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(lowered, tok) {
			return true
		}
	}
	return false
}

// Describe renders a one-line summary of a selection for status output.
func Describe(sel Selection) string {
	return fmt.Sprintf("%s (%s, %s, confidence %.2f)", sel.Model, sel.Provider, sel.Role, sel.Confidence)
}

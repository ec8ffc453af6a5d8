// Package llm is the boundary to natural-language generation backends.
//
// The pipeline never generates text itself: phases that need prose consume
// the Generator interface, and everything else in this package exists to
// decide which concrete generator stands behind it — directly configured
// SDK clients when credentials are present, or the fallback passthrough
// that hands the prompt to the hosting LLM when none are.
package llm

import "context"

// Options tunes a single generation call.
type Options struct {
	System      string
	MaxTokens   int
	Temperature float64
}

// DefaultMaxTokens is used when Options.MaxTokens is zero.
const DefaultMaxTokens = 4096

// Generator produces text from a prompt. Implementations may fail or be
// unavailable; callers own retry policy.
type Generator interface {
	// Name identifies the backend ("claude", "gpt", "gemini", "grok",
	// or "fallback").
	Name() string
	// Generate fills the prompt and returns the produced text.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Strength tags a capability a backend advertises.
type Strength string

const (
	StrengthReasoning   Strength = "reasoning"
	StrengthCode        Strength = "code"
	StrengthCreative    Strength = "creative"
	StrengthAnalysis    Strength = "analysis"
	StrengthLongContext Strength = "long_context"
	StrengthSpeed       Strength = "speed"
	StrengthGeneral     Strength = "general"
	StrengthMultimodal  Strength = "multimodal"
)

// CostTier buckets a backend's relative price.
type CostTier string

const (
	CostLow    CostTier = "low"
	CostMedium CostTier = "medium"
	CostHigh   CostTier = "high"
)

// Profile describes a candidate model for backend selection.
type Profile struct {
	Model         string     `json:"model"`
	Provider      string     `json:"provider"`
	Backend       string     `json:"backend"` // registry backend id serving this model
	Strengths     []Strength `json:"strengths"`
	ContextWindow int        `json:"context_window"`
	CostTier      CostTier   `json:"cost_tier"`
}

// HasStrength reports whether the profile advertises the given strength.
func (p Profile) HasStrength(s Strength) bool {
	for _, got := range p.Strengths {
		if got == s {
			return true
		}
	}
	return false
}

// Catalog returns the known candidate models in declaration order.
// Order matters: the selection scorer breaks ties by catalog position.
func Catalog() []Profile {
	return []Profile{
		{
			Model:         "claude-3-5-sonnet-20241022",
			Provider:      "anthropic",
			Backend:       BackendClaude,
			Strengths:     []Strength{StrengthReasoning, StrengthCode, StrengthAnalysis, StrengthLongContext},
			ContextWindow: 200000,
			CostTier:      CostHigh,
		},
		{
			Model:         "gpt-4-turbo",
			Provider:      "openai",
			Backend:       BackendGPT,
			Strengths:     []Strength{StrengthCreative, StrengthGeneral, StrengthMultimodal},
			ContextWindow: 128000,
			CostTier:      CostHigh,
		},
		{
			Model:         "gpt-3.5-turbo",
			Provider:      "openai",
			Backend:       BackendGPT,
			Strengths:     []Strength{StrengthSpeed, StrengthGeneral},
			ContextWindow: 16000,
			CostTier:      CostLow,
		},
		{
			Model:         "gemini-1.5-pro",
			Provider:      "google",
			Backend:       BackendGemini,
			Strengths:     []Strength{StrengthMultimodal, StrengthLongContext, StrengthReasoning},
			ContextWindow: 1000000,
			CostTier:      CostMedium,
		},
	}
}

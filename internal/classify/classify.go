// Package classify scores a free-form request for clarity and complexity
// and assigns it one of three request types.
//
// This is the entry gate of the pipeline: everything downstream — expert
// assignment, clarification, design depth — keys off the type produced here.
// Scoring is purely heuristic (curated token sets + length thresholds from
// the vocab package) and fully deterministic: the same text always yields
// the same classification.
package classify

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/insight/internal/vocab"
)

// RequestType is the three-way classification of a request.
type RequestType string

const (
	// Type1 is a simple, clear request: short pipeline, standard quality.
	Type1 RequestType = "Type 1"
	// Type2 is a complex but clear request: full pipeline with validation.
	Type2 RequestType = "Type 2"
	// Type3 is an ambiguous request: requires clarification before design.
	Type3 RequestType = "Type 3"
)

// ClarityScore holds the five independent clarity indicators.
// The total and the clear/unclear decision are always derived from the
// indicators — they are never stored separately.
type ClarityScore struct {
	SpecificSituation   bool `json:"specific_situation"`
	PurposeStated       bool `json:"purpose_stated"`
	TargetSpecified     bool `json:"target_specified"`
	BackgroundKnowledge bool `json:"background_knowledge"`
	ScopeDefined        bool `json:"scope_defined"`
}

// Total counts the true indicators (0-5).
func (s ClarityScore) Total() int {
	total := 0
	for _, b := range []bool{
		s.SpecificSituation,
		s.PurposeStated,
		s.TargetSpecified,
		s.BackgroundKnowledge,
		s.ScopeDefined,
	} {
		if b {
			total++
		}
	}
	return total
}

// IsClear reports whether the request meets the clarity threshold.
func (s ClarityScore) IsClear() bool {
	return s.Total() >= 4
}

// ComplexityScore holds the four bounded complexity indicators.
type ComplexityScore struct {
	Creativity     int `json:"creativity"`      // 0-2
	Analysis       int `json:"analysis"`        // 0-2
	Integration    int `json:"integration"`     // 0-1
	CriticalDomain int `json:"critical_domain"` // 0-2
}

// Total sums the indicators (0-7).
func (s ComplexityScore) Total() int {
	return s.Creativity + s.Analysis + s.Integration + s.CriticalDomain
}

// IsComplex reports whether the request meets the complexity threshold.
func (s ComplexityScore) IsComplex() bool {
	return s.Total() >= 4
}

// Classification is the outcome of analyzing a request.
type Classification struct {
	Type       RequestType      `json:"request_type"`
	Clarity    ClarityScore     `json:"clarity_score"`
	Complexity *ComplexityScore `json:"complexity_score,omitempty"`
	Confidence float64          `json:"confidence"`
	Rationale  string           `json:"rationale"`
}

// Classifier scores and classifies requests using a vocabulary table.
type Classifier struct {
	vocab *vocab.Tables
}

// New creates a Classifier. A nil table falls back to the default vocabulary.
func New(t *vocab.Tables) *Classifier {
	if t == nil {
		t = vocab.Default()
	}
	return &Classifier{vocab: t}
}

// Length thresholds for the situation and background indicators.
const (
	situationMinLen  = 30
	backgroundMinLen = 100
)

// ScoreClarity evaluates the five clarity indicators. Each indicator is a
// disjunction of token matches and, for situation/background, a length
// threshold, so absence of every signal yields zero.
func (c *Classifier) ScoreClarity(request string) ClarityScore {
	lowered := strings.ToLower(request)
	cv := c.vocab.Clarity

	return ClarityScore{
		SpecificSituation:   len(request) > situationMinLen || containsAny(lowered, cv.Situation),
		PurposeStated:       containsAny(lowered, cv.Purpose),
		TargetSpecified:     containsAny(lowered, cv.Target),
		BackgroundKnowledge: len(request) > backgroundMinLen || containsAny(lowered, cv.Background),
		ScopeDefined:        containsAny(lowered, cv.Scope),
	}
}

// ScoreComplexity evaluates the four complexity indicators. Strong token
// sets award the indicator's maximum, weak sets a single point.
func (c *Classifier) ScoreComplexity(request string) ComplexityScore {
	lowered := strings.ToLower(request)
	cv := c.vocab.Complexity

	var score ComplexityScore

	switch {
	case containsAny(lowered, cv.CreativityStrong):
		score.Creativity = 2
	case containsAny(lowered, cv.CreativityWeak):
		score.Creativity = 1
	}

	switch {
	case containsAny(lowered, cv.AnalysisStrong):
		score.Analysis = 2
	case containsAny(lowered, cv.AnalysisWeak):
		score.Analysis = 1
	}

	if containsAny(lowered, cv.Integration) {
		score.Integration = 1
	}

	switch {
	case containsAny(lowered, cv.CriticalStrong):
		score.CriticalDomain = 2
	case containsAny(lowered, cv.CriticalWeak):
		score.CriticalDomain = 1
	}

	return score
}

// Confidence maps a clarity total to classification confidence.
// The extremes are unambiguous; the middle of the scale is not.
func Confidence(clarityTotal int) float64 {
	switch clarityTotal {
	case 0, 5:
		return 1.0
	case 1, 4:
		return 0.8
	default:
		return 0.6
	}
}

// Classify analyzes a request and assigns a type.
//
// Complexity is only scored when the request is clear, or when reclassify
// is set — the latter forces a second look after a clarification round
// regardless of the clarity outcome. Classify has no failure mode: absence
// of every signal classifies as ambiguous (Type 3).
func (c *Classifier) Classify(request string, reclassify bool) Classification {
	clarity := c.ScoreClarity(request)

	var complexity *ComplexityScore
	if clarity.IsClear() || reclassify {
		s := c.ScoreComplexity(request)
		complexity = &s
	}

	result := Classification{
		Clarity:    clarity,
		Complexity: complexity,
		Confidence: Confidence(clarity.Total()),
	}

	switch {
	case !clarity.IsClear() && !reclassify:
		result.Type = Type3
		result.Rationale = fmt.Sprintf("clarity %d/5 — ambiguous request", clarity.Total())
	case complexity != nil && complexity.IsComplex():
		result.Type = Type2
		result.Rationale = fmt.Sprintf("complexity %d/7 — complex but clear", complexity.Total())
	default:
		result.Type = Type1
		result.Rationale = "simple and clear request"
	}

	return result
}

// containsAny reports whether s contains any of the tokens.
// Substring matching keeps the heuristic language-agnostic.
func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if tok != "" && strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

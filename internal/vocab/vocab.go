// Package vocab holds the keyword vocabularies that drive the heuristic
// scoring throughout the pipeline.
//
// Every indicator in the classifier, every hierarchy layer, and every
// clarification category matches against a curated token set. Keeping the
// sets here — loadable from YAML, with compiled-in defaults — means the
// scoring rules stay data, not code: tests can substitute tiny deterministic
// vocabularies and operators can tune matching without a rebuild.
package vocab

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvFile names the environment variable that points at an optional
// vocabulary override file.
const EnvFile = "INSIGHT_VOCAB_FILE"

// ClarityVocab lists the token sets behind the five clarity indicators.
type ClarityVocab struct {
	Situation  []string `yaml:"situation"`
	Purpose    []string `yaml:"purpose"`
	Target     []string `yaml:"target"`
	Background []string `yaml:"background"`
	Scope      []string `yaml:"scope"`
}

// ComplexityVocab lists the token sets behind the four complexity indicators.
// Strong sets award the indicator's maximum, weak sets a single point.
type ComplexityVocab struct {
	CreativityStrong []string `yaml:"creativity_strong"`
	CreativityWeak   []string `yaml:"creativity_weak"`
	AnalysisStrong   []string `yaml:"analysis_strong"`
	AnalysisWeak     []string `yaml:"analysis_weak"`
	Integration      []string `yaml:"integration"`
	CriticalStrong   []string `yaml:"critical_strong"`
	CriticalWeak     []string `yaml:"critical_weak"`
}

// HierarchyVocab lists the token sets that flag each hierarchy layer present.
type HierarchyVocab struct {
	Domain    []string `yaml:"domain"`
	Subdomain []string `yaml:"subdomain"`
	Category  []string `yaml:"category"`
	Task      []string `yaml:"task"`
}

// Tables is the full vocabulary configuration.
type Tables struct {
	Clarity    ClarityVocab    `yaml:"clarity"`
	Complexity ComplexityVocab `yaml:"complexity"`
	Hierarchy  HierarchyVocab  `yaml:"hierarchy"`

	// Clarification maps a clarification category to the tokens that mark
	// the category as already covered by upstream context.
	Clarification map[string][]string `yaml:"clarification"`
}

// Default returns the compiled-in vocabulary.
func Default() *Tables {
	return &Tables{
		Clarity: ClarityVocab{
			Situation:  []string{"when", "where", "because", "situation", "problem"},
			Purpose:    []string{"to", "for", "want", "need", "purpose", "goal", "aim"},
			Target:     []string{"user", "customer", "student", "patient", "employee", "product", "service", "system", "app", "website"},
			Background: []string{"currently", "existing", "current", "past"},
			Scope:      []string{"scope", "limit", "exclude", "include", "only", "just"},
		},
		Complexity: ComplexityVocab{
			CreativityStrong: []string{"creative", "innovative", "new", "unique", "novel"},
			CreativityWeak:   []string{"idea", "concept"},
			AnalysisStrong:   []string{"analyze", "evaluate", "compare", "review", "research"},
			AnalysisWeak:     []string{"check", "verify"},
			Integration:      []string{"integrate", "combine", "synthesize", "merge"},
			CriticalStrong:   []string{"legal", "medical", "financial", "safety", "security"},
			CriticalWeak:     []string{"health", "money"},
		},
		Hierarchy: HierarchyVocab{
			Domain:    []string{"field", "domain", "industry", "sector"},
			Subdomain: []string{"specific", "specialized", "sub"},
			Category:  []string{"category", "type", "kind", "class"},
			Task:      []string{"task", "work", "job", "do"},
		},
		Clarification: map[string][]string{
			"purpose":     {"purpose", "goal", "aim", "objective"},
			"scope":       {"scope", "boundary", "range", "extent"},
			"constraints": {"constraint", "budget", "deadline", "limitation", "restriction"},
			"deliverable": {"deliverable", "output", "artifact", "document", "report"},
			"audience":    {"audience", "reader", "stakeholder", "user"},
			"background":  {"background", "context", "history", "existing"},
			"priority":    {"priority", "important", "urgent", "critical"},
			"schedule":    {"schedule", "timeline", "milestone", "date"},
		},
	}
}

// Load returns the default tables overridden by the YAML file at path.
// Empty sections in the file keep their defaults.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary file: %w", err)
	}

	t := Default()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parsing vocabulary file %s: %w", path, err)
	}
	return t, nil
}

// FromEnv loads the override file named by INSIGHT_VOCAB_FILE, or the
// defaults when the variable is unset.
func FromEnv() (*Tables, error) {
	path := os.Getenv(EnvFile)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

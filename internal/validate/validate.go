// Package validate scores a produced artifact against the quality rubric:
// completeness, accuracy, consistency, and usability, each with its own
// severity level, rolled up into overall metrics and improvement suggestions.
package validate

import (
	"fmt"
	"strings"
	"time"
)

// Level is the severity a check carries when it degrades.
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
)

// levelWeight maps a level to its contribution in the confidence roll-up.
func levelWeight(l Level) float64 {
	switch l {
	case LevelCritical:
		return 1.0
	case LevelHigh:
		return 0.8
	case LevelMedium:
		return 0.6
	case LevelLow:
		return 0.4
	default:
		return 0.5
	}
}

// Check is one rubric dimension's verdict.
type Check struct {
	Name   string   `json:"check_name"`
	Level  Level    `json:"level"`
	Passed bool     `json:"passed"`
	Score  float64  `json:"score"`
	Issues []string `json:"issues,omitempty"`
}

// Metrics is the per-dimension and rolled-up quality scoring.
type Metrics struct {
	Overall      float64 `json:"overall_score"`
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Consistency  float64 `json:"consistency"`
	Usability    float64 `json:"usability"`
	Confidence   float64 `json:"confidence"`
}

// Result is the full validation verdict for one artifact.
type Result struct {
	Passed       bool      `json:"passed"`
	Checks       []Check   `json:"checks"`
	Issues       []string  `json:"issues,omitempty"`
	Severity     Level     `json:"severity"`
	Metrics      Metrics   `json:"quality_metrics"`
	Improvements []string  `json:"improvements"`
	ValidatedAt  time.Time `json:"validated_at"`
}

var timeNow = time.Now

const (
	checkCompleteness = "completeness"
	checkAccuracy     = "accuracy"
	checkConsistency  = "consistency"
	checkUsability    = "usability"
)

// Validator runs the rubric. Stateless.
type Validator struct{}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate scores the artifact against the original request and the number
// of sections the design called for. expectedSections 0 skips the
// completeness ratio (nothing was designed, so nothing can be missing).
func (v *Validator) Validate(artifact, originalRequest string, expectedSections int) Result {
	checks := []Check{
		checkCompletenessOf(artifact, expectedSections),
		checkAccuracyOf(artifact, originalRequest),
		checkConsistencyOf(artifact),
		checkUsabilityOf(artifact),
	}

	metrics := rollUp(checks)

	passed := true
	var issues []string
	for _, c := range checks {
		if !c.Passed {
			passed = false
		}
		issues = append(issues, c.Issues...)
	}

	return Result{
		Passed:       passed,
		Checks:       checks,
		Issues:       issues,
		Severity:     severityOf(metrics.Overall),
		Metrics:      metrics,
		Improvements: improvements(metrics),
		ValidatedAt:  timeNow(),
	}
}

// checkCompletenessOf estimates the artifact's section count from structural
// breaks and compares it to what the design expected. Below 70% coverage the
// check fails with the achieved ratio as its score.
func checkCompletenessOf(artifact string, expectedSections int) Check {
	c := Check{Name: checkCompleteness, Level: LevelCritical, Passed: true, Score: 1.0}

	if expectedSections > 0 {
		got := strings.Count(artifact, "\n\n") + 1
		if float64(got) < float64(expectedSections)*0.7 {
			c.Passed = false
			c.Score = float64(got) / float64(expectedSections)
			c.Issues = append(c.Issues,
				fmt.Sprintf("fewer than 70%% of the %d expected sections present", expectedSections))
		}
	}
	return c
}

// checkAccuracyOf measures how many of the request's leading keywords
// (length > 2, first ten) appear in the artifact. Below half the check fails.
func checkAccuracyOf(artifact, originalRequest string) Check {
	c := Check{Name: checkAccuracy, Level: LevelHigh, Passed: true, Score: 1.0}

	lowered := strings.ToLower(artifact)
	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(originalRequest)) {
		if len(w) > 2 {
			keywords = append(keywords, w)
			if len(keywords) == 10 {
				break
			}
		}
	}
	if len(keywords) == 0 {
		return c
	}

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			matched++
		}
	}
	c.Score = float64(matched) / float64(len(keywords))
	if c.Score < 0.5 {
		c.Passed = false
		c.Issues = append(c.Issues,
			fmt.Sprintf("only %d of %d request keywords reflected", matched, len(keywords)))
	}
	return c
}

// checkConsistencyOf penalizes a missing paragraph structure and strongly
// unbalanced paragraph lengths (outside 0.3x-3x of the mean for more than
// 30% of paragraphs).
func checkConsistencyOf(artifact string) Check {
	c := Check{Name: checkConsistency, Level: LevelMedium, Passed: true, Score: 1.0}

	paragraphs := strings.Split(artifact, "\n\n")
	if len(paragraphs) < 2 {
		c.Issues = append(c.Issues, "paragraph structure is lacking")
		c.Score *= 0.8
	}

	if len(paragraphs) > 0 {
		total := 0
		for _, p := range paragraphs {
			total += len(p)
		}
		mean := float64(total) / float64(len(paragraphs))

		unbalanced := 0
		for _, p := range paragraphs {
			l := float64(len(p))
			if l < mean*0.3 || l > mean*3 {
				unbalanced++
			}
		}
		if float64(unbalanced) > float64(len(paragraphs))*0.3 {
			c.Issues = append(c.Issues, "paragraph lengths are unbalanced")
			c.Score *= 0.9
		}
	}

	c.Passed = len(c.Issues) == 0
	return c
}

// checkUsabilityOf fails artifacts under 100 characters and penalizes the
// absence of any structural marker (heading, bullet, or numbered list).
func checkUsabilityOf(artifact string) Check {
	c := Check{Name: checkUsability, Level: LevelMedium, Passed: true, Score: 1.0}

	if len(artifact) < 100 {
		c.Passed = false
		c.Score = float64(len(artifact)) / 100
		c.Issues = append(c.Issues, "artifact too short (minimum 100 characters)")
	}

	structured := strings.Contains(artifact, "\n#") ||
		strings.Contains(artifact, "\n-") ||
		strings.Contains(artifact, "\n1.")
	if !structured {
		c.Issues = append(c.Issues, "structured formatting is lacking")
		c.Score *= 0.9
	}
	return c
}

// rollUp computes the overall mean and the severity-weighted confidence.
func rollUp(checks []Check) Metrics {
	m := Metrics{}
	if len(checks) == 0 {
		return m
	}

	sum := 0.0
	weighted := 0.0
	for _, c := range checks {
		sum += c.Score
		weighted += c.Score * levelWeight(c.Level)

		switch c.Name {
		case checkCompleteness:
			m.Completeness = c.Score
		case checkAccuracy:
			m.Accuracy = c.Score
		case checkConsistency:
			m.Consistency = c.Score
		case checkUsability:
			m.Usability = c.Score
		}
	}
	m.Overall = sum / float64(len(checks))
	m.Confidence = weighted / float64(len(checks))
	return m
}

// severityOf buckets the overall score.
func severityOf(overall float64) Level {
	switch {
	case overall >= 0.9:
		return LevelLow
	case overall >= 0.7:
		return LevelMedium
	case overall >= 0.5:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// improvements suggests one fix per dimension below its threshold, or a
// single affirmation when every dimension holds up.
func improvements(m Metrics) []string {
	var out []string
	if m.Completeness < 0.8 {
		out = append(out, "Add the missing sections or expand the existing content to improve completeness.")
	}
	if m.Accuracy < 0.7 {
		out = append(out, "Reflect the original request's key terms and intent more directly.")
	}
	if m.Consistency < 0.8 {
		out = append(out, "Keep the paragraph structure and style consistent throughout.")
	}
	if m.Usability < 0.8 {
		out = append(out, "Structure the result with headings and lists to make it easier to read.")
	}
	if len(out) == 0 {
		out = append(out, "Validation passed with a strong result; no further improvements needed.")
	}
	return out
}

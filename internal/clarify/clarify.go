// Package clarify runs the bounded question/answer loop that turns an
// ambiguous request into one the classifier can score confidently.
//
// The dialog is a small state machine: a question is issued, an answer is
// recorded, and the loop either continues or completes. Completion is
// guaranteed — the category list is finite, the iteration cap is hard, and
// the satisfaction shortcut only ever ends the loop earlier.
package clarify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/insight/internal/vocab"
)

// State is the dialog's position in the question/answer loop.
type State string

const (
	// StateAwaitingQuestion means no question is pending; the caller may
	// request the next one.
	StateAwaitingQuestion State = "awaiting_question"
	// StateAwaitingAnswer means a question was issued and must be answered
	// before anything else happens.
	StateAwaitingAnswer State = "awaiting_answer"
	// StateComplete means the dialog has terminated.
	StateComplete State = "complete"
)

const (
	// MaxIterations caps the number of questions a dialog may issue.
	MaxIterations = 10
	// minAnswers is the floor before satisfaction can complete the dialog.
	minAnswers = 3
	// satisfiedTarget ends the dialog early once this fraction of answers
	// is satisfying.
	satisfiedTarget = 0.80
	// minAnswerLen is the single satisfaction threshold: a trimmed answer
	// longer than this counts as satisfying.
	minAnswerLen = 5
)

// ErrNoPendingQuestion is returned when an answer arrives with no question
// outstanding, or after the dialog completed.
var ErrNoPendingQuestion = errors.New("no clarification question is pending")

// Question is one clarification question issued to the caller.
type Question struct {
	Text      string   `json:"question"`
	Category  string   `json:"category"`
	Priority  int      `json:"priority"` // 1-10
	Choices   []string `json:"choices,omitempty"`
	Context   string   `json:"context,omitempty"`
	Iteration int      `json:"iteration"`
}

// Key is the composite identity used to store the eventual answer.
func (q Question) Key() string {
	return fmt.Sprintf("%s:%d", q.Category, q.Iteration)
}

// Response records an answer to a question.
type Response struct {
	QuestionKey string `json:"question_id"` // category:iteration
	Category    string `json:"category"`
	Iteration   int    `json:"iteration"`
	Answer      string `json:"answer"`
	Satisfied   bool   `json:"satisfied"`
}

// Dialog is the serializable state of one clarification loop. It is owned
// by the session; all mutation goes through Engine methods.
type Dialog struct {
	State     State      `json:"state"`
	Pending   *Question  `json:"pending,omitempty"`
	Responses []Response `json:"responses"`
	// Iteration counts questions issued so far.
	Iteration int    `json:"iteration"`
	Reason    string `json:"reason,omitempty"`
}

// NewDialog starts an empty dialog.
func NewDialog() *Dialog {
	return &Dialog{State: StateAwaitingQuestion}
}

// AnsweredCategories returns the set of categories already answered.
func (d *Dialog) AnsweredCategories() map[string]bool {
	out := make(map[string]bool, len(d.Responses))
	for _, r := range d.Responses {
		out[r.Category] = true
	}
	return out
}

// satisfiedFraction is the share of answers that met the length threshold.
func (d *Dialog) satisfiedFraction() float64 {
	if len(d.Responses) == 0 {
		return 0
	}
	satisfied := 0
	for _, r := range d.Responses {
		if r.Satisfied {
			satisfied++
		}
	}
	return float64(satisfied) / float64(len(d.Responses))
}

// candidate is one entry of the fixed category order.
type candidate struct {
	category string
	text     string
	priority int
	choices  []string
}

// candidates is the fixed ordered category list, highest priority first.
// Order doubles as the tie-break.
var candidates = []candidate{
	{"purpose", "What is the main purpose or goal you want to achieve?", 10, nil},
	{"scope", "How far should the work extend? Describe the boundaries.", 9, nil},
	{"constraints", "Are there constraints to respect (budget, deadline, technology)?", 8, []string{"budget", "deadline", "technology", "none"}},
	{"deliverable", "What form should the final output take?", 7, []string{"document", "plan", "prototype", "analysis"}},
	{"audience", "Who will consume the result?", 6, nil},
	{"background", "What is the current situation or relevant history?", 5, nil},
	{"priority", "Which aspects matter most if trade-offs are needed?", 4, nil},
	{"schedule", "Is there a timeline or milestone to meet?", 3, nil},
}

// Engine issues questions and records answers against a Dialog.
type Engine struct {
	vocab *vocab.Tables
}

// NewEngine creates an Engine. A nil table falls back to the default
// vocabulary.
func NewEngine(t *vocab.Tables) *Engine {
	if t == nil {
		t = vocab.Default()
	}
	return &Engine{vocab: t}
}

// NextQuestion issues at most one question. It returns nil once the
// category list is exhausted, the iteration cap is hit, upstream context
// already covers every remaining category, or the dialog completed — in
// each case the dialog transitions to complete with a reason.
//
// Calling NextQuestion while a question is pending returns that same
// question again, so the operation is idempotent for retrying callers.
func (e *Engine) NextQuestion(d *Dialog, request string, priorInsights []string) *Question {
	if d.State == StateComplete {
		return nil
	}
	if d.Pending != nil {
		return d.Pending
	}

	if done, reason := e.IsComplete(d); done {
		d.complete(reason)
		return nil
	}

	if d.Iteration >= MaxIterations {
		d.complete("iteration cap reached")
		return nil
	}

	answered := d.AnsweredCategories()
	for _, c := range candidates {
		if answered[c.category] {
			continue
		}
		if e.coveredByContext(c.category, priorInsights) {
			continue
		}

		q := &Question{
			Text:      c.text,
			Category:  c.category,
			Priority:  c.priority,
			Choices:   c.choices,
			Context:   snippet(request),
			Iteration: d.Iteration,
		}
		d.Pending = q
		d.State = StateAwaitingAnswer
		d.Iteration++
		return q
	}

	d.complete("all categories answered or covered by context")
	return nil
}

// RecordAnswer stores the answer to the pending question. Submitting an
// answer with no pending question, or after completion, is a usage error.
func (e *Engine) RecordAnswer(d *Dialog, answer string) (*Response, error) {
	if d.State != StateAwaitingAnswer || d.Pending == nil {
		return nil, ErrNoPendingQuestion
	}

	q := d.Pending
	resp := Response{
		QuestionKey: q.Key(),
		Category:    q.Category,
		Iteration:   q.Iteration,
		Answer:      answer,
		Satisfied:   len(strings.TrimSpace(answer)) > minAnswerLen,
	}
	d.Responses = append(d.Responses, resp)
	d.Pending = nil
	d.State = StateAwaitingQuestion

	if done, reason := e.IsComplete(d); done {
		d.complete(reason)
	}

	return &resp, nil
}

// IsComplete decides whether the dialog can stop, and why (or why not).
// At least minAnswers answers are required; after that the satisfaction
// shortcut applies; the iteration cap forces completion regardless of
// answer quality.
func (e *Engine) IsComplete(d *Dialog) (bool, string) {
	if d.Iteration >= MaxIterations-1 && d.Pending == nil && len(d.Responses) > 0 {
		return true, "iteration cap reached"
	}
	if len(d.Responses) < minAnswers {
		return false, fmt.Sprintf("need %d more answer(s)", minAnswers-len(d.Responses))
	}
	if frac := d.satisfiedFraction(); frac >= satisfiedTarget {
		return true, fmt.Sprintf("satisfaction %.0f%% reached", frac*100)
	}
	return false, "satisfaction below target"
}

// Enhance appends every recorded answer, tagged by category, to the
// original request. The result feeds re-classification; the concatenation
// is deterministic for a given dialog.
func (e *Engine) Enhance(original string, d *Dialog) string {
	if len(d.Responses) == 0 {
		return original
	}

	var sb strings.Builder
	sb.WriteString(original)
	sb.WriteString("\n\n[additional context]\n")
	for _, r := range d.Responses {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", r.Category, r.Answer))
	}
	return sb.String()
}

// coveredByContext reports whether any upstream insight already answers the
// category, via the category's coverage token set.
func (e *Engine) coveredByContext(category string, insights []string) bool {
	tokens := e.vocab.Clarification[category]
	if len(tokens) == 0 {
		return false
	}
	for _, insight := range insights {
		lowered := strings.ToLower(insight)
		for _, tok := range tokens {
			if tok != "" && strings.Contains(lowered, tok) {
				return true
			}
		}
	}
	return false
}

func (d *Dialog) complete(reason string) {
	d.State = StateComplete
	d.Pending = nil
	d.Reason = reason
}

// snippet trims the request to a short contextual excerpt for the question.
func snippet(request string) string {
	const maxLen = 100
	if len(request) <= maxLen {
		return request
	}
	return request[:maxLen] + "..."
}

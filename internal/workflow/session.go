package workflow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/HendryAvila/insight/internal/clarify"
	"github.com/HendryAvila/insight/internal/classify"
)

// DefaultTimeout is the session budget from start to timeout.
const DefaultTimeout = 30 * time.Minute

// Session is the unit of pipeline state: one request, one phase cursor, one
// optional result slot per phase. Mutated only through Engine calls.
type Session struct {
	ID      string `json:"id"`
	Request string `json:"request"`
	// EnhancedRequest is the clarification-enriched request, set when the
	// phase-3 dialog completes. Later phases prefer it over Request.
	EnhancedRequest string `json:"enhanced_request,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// CurrentPhase is the last completed phase; empty before phase 0
	// completes, PhaseTimedOut after the budget elapses.
	CurrentPhase Phase         `json:"current_phase"`
	Timeout      time.Duration `json:"timeout"`

	// Results holds the serialized output of each completed phase.
	Results map[Phase]json.RawMessage `json:"results"`

	// RequestType and ComplexityTotal are recorded at classification and
	// drive the phase-3 branch and downstream decisions.
	RequestType     classify.RequestType `json:"request_type,omitempty"`
	ComplexityTotal int                  `json:"complexity_total"`

	// Clarification is the dialog state while phase 3 is in progress.
	Clarification *clarify.Dialog `json:"clarification,omitempty"`
}

// EffectiveRequest is the request later phases work from: the
// clarification-enhanced text when present, the original otherwise.
func (s *Session) EffectiveRequest() string {
	if s.EnhancedRequest != "" {
		return s.EnhancedRequest
	}
	return s.Request
}

// CompletedPhases lists the phases whose result slots are filled, in
// pipeline order.
func (s *Session) CompletedPhases() []Phase {
	var out []Phase
	for _, p := range phaseOrder {
		if s.HasResult(p) {
			out = append(out, p)
		}
	}
	return out
}

// WaitingForAnswer reports whether a clarification question is outstanding.
func (s *Session) WaitingForAnswer() bool {
	return s.Clarification != nil && s.Clarification.State == clarify.StateAwaitingAnswer
}

// TimedOut reports whether the session reached the terminal timeout state.
func (s *Session) TimedOut() bool {
	return s.CurrentPhase == PhaseTimedOut
}

// ExpiresAt is the instant the session budget runs out.
func (s *Session) ExpiresAt() time.Time {
	return s.StartedAt.Add(s.Timeout)
}

// HasResult reports whether the phase's result slot is filled.
func (s *Session) HasResult(p Phase) bool {
	_, ok := s.Results[p]
	return ok
}

// SetResult stores a phase's result in its slot.
func (s *Session) SetResult(p Phase, result any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding phase %s result: %w", p, err)
	}
	if s.Results == nil {
		s.Results = make(map[Phase]json.RawMessage)
	}
	s.Results[p] = data
	return nil
}

// Result decodes the phase's result slot into out.
func (s *Session) Result(p Phase, out any) error {
	data, ok := s.Results[p]
	if !ok {
		return fmt.Errorf("phase %s has no result", p)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding phase %s result: %w", p, err)
	}
	return nil
}

// Clone deep-copies the session through its JSON form, so stored state never
// aliases what callers mutate.
func (s *Session) Clone() (*Session, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding session %s: %w", s.ID, err)
	}
	var out Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", s.ID, err)
	}
	return &out, nil
}

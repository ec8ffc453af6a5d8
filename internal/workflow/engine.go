// Package workflow orchestrates the phase pipeline across sessions: it
// tracks the current phase, enforces preconditions and the timeout budget,
// and persists phase results through a SessionStore.
package workflow

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/HendryAvila/insight/internal/classify"
)

// Engine is the workflow state machine. Per-session mutation is serialized
// by a session-keyed mutex; the store below only needs to be individually
// thread-safe.
type Engine struct {
	store SessionStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates an Engine over the given store.
func NewEngine(store SessionStore) *Engine {
	return &Engine{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// CreateSession starts a new session for the request with the default
// timeout budget.
func (e *Engine) CreateSession(request string) (*Session, error) {
	now := timeNow()
	s := &Session{
		ID:        uuid.NewString(),
		Request:   request,
		CreatedAt: now,
		StartedAt: now,
		UpdatedAt: now,
		Timeout:   DefaultTimeout,
	}
	if err := e.store.Put(s); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return s, nil
}

// Status returns the session without guards. Inspection stays allowed after
// timeout; the terminal state is still recorded on the way out.
func (e *Engine) Status(id string) (*Session, error) {
	unlock := e.lock(id)
	defer unlock()

	s, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}
	if !s.TimedOut() && timeNow().Sub(s.StartedAt) > s.Timeout {
		if err := e.markTimedOut(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// EnterPhase runs the entry guards for a phase: timeout first, then pending
// clarification, then the prior-phase precondition. On success it returns
// the session for the caller to execute the phase against.
func (e *Engine) EnterPhase(id string, phase Phase) (*Session, error) {
	unlock := e.lock(id)
	defer unlock()

	s, err := e.loadLive(id)
	if err != nil {
		return nil, err
	}
	if err := e.guardPhase(s, phase); err != nil {
		return nil, err
	}
	return s, nil
}

// CompletePhase stores the phase's result, advances the phase cursor, and
// persists the session. The same guards as EnterPhase apply, so a phase
// cannot complete out of order or after timeout.
func (e *Engine) CompletePhase(id string, phase Phase, result any) (*Session, error) {
	return e.update(id, func(s *Session) error {
		if err := e.guardPhase(s, phase); err != nil {
			return err
		}
		if err := s.SetResult(phase, result); err != nil {
			return err
		}
		advanceCursor(s, phase)
		return nil
	})
}

// RecordClassification completes phase 0 (or re-runs it after clarification)
// and pins the request type and complexity the later branch rules read.
func (e *Engine) RecordClassification(id string, c *classify.Classification) (*Session, error) {
	return e.update(id, func(s *Session) error {
		if err := e.guardPhase(s, PhaseClassify); err != nil {
			return err
		}
		if err := s.SetResult(PhaseClassify, c); err != nil {
			return err
		}
		advanceCursor(s, PhaseClassify)
		s.RequestType = c.Type
		if c.Complexity != nil {
			s.ComplexityTotal = c.Complexity.Total()
		}
		return nil
	})
}

// UpdateClarification runs fn against the session's clarification dialog
// under the session lock. Only valid once phase 3 is enterable; the dialog
// is created on first use.
func (e *Engine) UpdateClarification(id string, fn func(s *Session) error) (*Session, error) {
	return e.update(id, func(s *Session) error {
		if s.Clarification == nil {
			// Entering the dialog obeys the phase-3 guards, except that a
			// pending question is exactly what fn is here to handle.
			if err := e.guardPrecondition(s, PhaseClarify); err != nil {
				return err
			}
		}
		return fn(s)
	})
}

// Delete evicts the session and drops its mutex. A caller racing Delete may
// mint a fresh mutex for the id; it only guards a not-found lookup.
func (e *Engine) Delete(id string) error {
	unlock := e.lock(id)
	defer unlock()

	if err := e.store.Delete(id); err != nil {
		return err
	}
	e.mu.Lock()
	delete(e.locks, id)
	e.mu.Unlock()
	return nil
}

// CollectExpired deletes every session whose budget elapsed and returns how
// many were removed.
func (e *Engine) CollectExpired() (int, error) {
	ids, err := e.store.ListExpired(timeNow())
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := e.Delete(id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// update loads the session, applies fn, stamps UpdatedAt, and persists.
func (e *Engine) update(id string, fn func(s *Session) error) (*Session, error) {
	unlock := e.lock(id)
	defer unlock()

	s, err := e.loadLive(id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = timeNow()
	if err := e.store.Put(s); err != nil {
		return nil, fmt.Errorf("saving session %s: %w", id, err)
	}
	return s, nil
}

// loadLive loads the session and applies the timeout guard. Called with the
// session lock held.
func (e *Engine) loadLive(id string) (*Session, error) {
	s, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}
	if s.TimedOut() {
		return nil, ErrSessionTimedOut
	}
	if timeNow().Sub(s.StartedAt) > s.Timeout {
		if err := e.markTimedOut(s); err != nil {
			return nil, err
		}
		return nil, ErrSessionTimedOut
	}
	return s, nil
}

// guardPhase applies the non-timeout entry guards: pending clarification,
// then the prior-phase precondition.
func (e *Engine) guardPhase(s *Session, phase Phase) error {
	if !phase.Known() {
		return fmt.Errorf("unknown phase %q", phase)
	}
	if s.WaitingForAnswer() {
		return ErrPendingClarification
	}
	return e.guardPrecondition(s, phase)
}

// guardPrecondition enforces the prior-phase-result rule. Phase 3 is the
// branch point: Type 3 requests enter it straight from phase 1.5, every
// other type skips it, which in turn lets phase 4 start from phase 2.
func (e *Engine) guardPrecondition(s *Session, phase Phase) error {
	required := predecessor(phase)

	switch phase {
	case PhaseClarify:
		if s.RequestType != classify.Type3 {
			return fmt.Errorf("%w: clarification only applies to Type 3 requests", ErrInvalidClarificationState)
		}
		if !s.HasResult(PhaseResearch) {
			required = PhaseEnvironment
		}
	case PhaseDesign:
		if s.RequestType != classify.Type3 {
			required = PhaseResearch
		}
	}

	if required == "" || s.HasResult(required) {
		return nil
	}
	return preconditionError(phase, required)
}

// advanceCursor moves the phase marker forward, never back: a Type 3
// reclassification re-fills the phase 0 slot without rewinding the cursor.
func advanceCursor(s *Session, phase Phase) {
	if phaseIndex(phase) >= phaseIndex(s.CurrentPhase) {
		s.CurrentPhase = phase
	}
}

func phaseIndex(p Phase) int {
	for i, known := range phaseOrder {
		if p == known {
			return i
		}
	}
	return -1
}

// markTimedOut transitions the session to the terminal state.
func (e *Engine) markTimedOut(s *Session) error {
	s.CurrentPhase = PhaseTimedOut
	s.UpdatedAt = timeNow()
	if err := e.store.Put(s); err != nil {
		return fmt.Errorf("saving timed-out session %s: %w", s.ID, err)
	}
	return nil
}

// lock acquires the session's mutex, creating it on first use.
func (e *Engine) lock(id string) func() {
	e.mu.Lock()
	m, ok := e.locks[id]
	if !ok {
		m = &sync.Mutex{}
		e.locks[id] = m
	}
	e.mu.Unlock()

	m.Lock()
	return m.Unlock
}

package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors of the pipeline. Handlers match with errors.Is and decide
// whether the condition is a caller mistake or an infrastructure failure.
var (
	// ErrSessionNotFound means the session id is unknown (or was evicted).
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionTimedOut means the session exceeded its timeout budget;
	// every call except status inspection fails with it from then on.
	ErrSessionTimedOut = errors.New("session timed out")
	// ErrPendingClarification rejects phase entry while a clarification
	// question awaits its answer.
	ErrPendingClarification = errors.New("a clarification question is pending")
	// ErrPhasePreconditionUnmet rejects phase entry when the prior phase's
	// result is missing.
	ErrPhasePreconditionUnmet = errors.New("phase precondition unmet")
	// ErrNoBackendAvailable is the hard stop when execution mode resolves
	// to unavailable.
	ErrNoBackendAvailable = errors.New("no generation backend available")
	// ErrInvalidClarificationState flags answering with no question pending
	// or outside the clarification phase.
	ErrInvalidClarificationState = errors.New("invalid clarification state")
)

// preconditionError wraps ErrPhasePreconditionUnmet with the phase whose
// result is missing.
func preconditionError(entering, missing Phase) error {
	return fmt.Errorf("%w: phase %s requires the result of phase %s", ErrPhasePreconditionUnmet, entering, missing)
}

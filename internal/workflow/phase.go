package workflow

// Phase identifies one step of the pipeline. Phases advance in declaration
// order; PhaseTimedOut is terminal and outside the order.
type Phase string

const (
	// PhaseClassify scores and classifies the request.
	PhaseClassify Phase = "0"
	// PhaseHierarchy detects the topic hierarchy and assigns experts.
	PhaseHierarchy Phase = "1"
	// PhaseEnvironment probes backend availability and execution modes.
	PhaseEnvironment Phase = "1.5"
	// PhaseResearch gathers information per expert.
	PhaseResearch Phase = "2"
	// PhaseClarify runs the clarification dialog (Type 3 only).
	PhaseClarify Phase = "3"
	// PhaseDesign assembles the design document.
	PhaseDesign Phase = "4"
	// PhaseSelection ranks and picks generation backends.
	PhaseSelection Phase = "5"
	// PhaseExecute runs the task against the selected backend.
	PhaseExecute Phase = "6"
	// PhaseValidate scores the produced artifact.
	PhaseValidate Phase = "7"
	// PhaseTimedOut is the terminal state after the session budget elapses.
	PhaseTimedOut Phase = "timed_out"
)

// phaseOrder is the linear pipeline order. PhaseClarify sits between
// research and design but is only traversed by Type 3 requests.
var phaseOrder = []Phase{
	PhaseClassify,
	PhaseHierarchy,
	PhaseEnvironment,
	PhaseResearch,
	PhaseClarify,
	PhaseDesign,
	PhaseSelection,
	PhaseExecute,
	PhaseValidate,
}

// Known reports whether p names a pipeline phase (terminal state excluded).
func (p Phase) Known() bool {
	for _, known := range phaseOrder {
		if p == known {
			return true
		}
	}
	return false
}

// predecessor returns the phase immediately before p in the linear order,
// or "" for the first phase.
func predecessor(p Phase) Phase {
	for i, known := range phaseOrder {
		if p == known {
			if i == 0 {
				return ""
			}
			return phaseOrder[i-1]
		}
	}
	return ""
}

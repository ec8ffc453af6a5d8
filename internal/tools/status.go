package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/insight/internal/classify"
	"github.com/HendryAvila/insight/internal/selection"
	"github.com/HendryAvila/insight/internal/workflow"
)

// StatusTool handles get_workflow_status: a read-only view of the session.
// Unlike the phase tools it stays usable after timeout, so callers can see
// the terminal state instead of an error.
type StatusTool struct {
	engine *workflow.Engine
}

// NewStatusTool creates a StatusTool with its dependencies.
func NewStatusTool(engine *workflow.Engine) *StatusTool {
	return &StatusTool{engine: engine}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("get_workflow_status",
		mcp.WithDescription(
			"Inspect a session: current phase, completed phases, classification, "+
				"pending clarification, and timing. Works even after the session "+
				"timed out.",
		),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("The session to inspect."),
		),
	)
}

// Handle processes the get_workflow_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s, err := t.engine.Status(sessionID)
	if err != nil {
		return pipelineError(err)
	}

	return jsonResult(struct {
		SessionID        string               `json:"session_id"`
		Request          string               `json:"request"`
		EnhancedRequest  string               `json:"enhanced_request,omitempty"`
		RequestType      classify.RequestType `json:"request_type,omitempty"`
		ComplexityTotal  int                  `json:"complexity_total"`
		CurrentPhase     workflow.Phase       `json:"current_phase"`
		CompletedPhases  []workflow.Phase     `json:"completed_phases"`
		SelectedBackend  string               `json:"selected_backend,omitempty"`
		TimedOut         bool                 `json:"timed_out"`
		WaitingForAnswer bool                 `json:"waiting_for_answer"`
		CreatedAt        time.Time            `json:"created_at"`
		UpdatedAt        time.Time            `json:"updated_at"`
		ExpiresAt        time.Time            `json:"expires_at"`
	}{
		SessionID:        s.ID,
		Request:          s.Request,
		EnhancedRequest:  s.EnhancedRequest,
		RequestType:      s.RequestType,
		ComplexityTotal:  s.ComplexityTotal,
		CurrentPhase:     s.CurrentPhase,
		CompletedPhases:  s.CompletedPhases(),
		SelectedBackend:  selectedBackend(s),
		TimedOut:         s.TimedOut(),
		WaitingForAnswer: s.WaitingForAnswer(),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		ExpiresAt:        s.ExpiresAt(),
	})
}

// selectedBackend summarizes the primary selection once phase 5 completed.
func selectedBackend(s *workflow.Session) string {
	var sel selection.Result
	if err := s.Result(workflow.PhaseSelection, &sel); err != nil {
		return ""
	}
	for _, choice := range sel.Selections {
		if choice.Role == selection.RolePrimary {
			return selection.Describe(choice)
		}
	}
	return ""
}

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/insight/internal/design"
	"github.com/HendryAvila/insight/internal/llm"
	"github.com/HendryAvila/insight/internal/validate"
	"github.com/HendryAvila/insight/internal/workflow"
)

// ValidateTool handles validate_output (phase 7): it scores the execution
// artifact on completeness, accuracy, consistency, and usability.
type ValidateTool struct {
	engine    *workflow.Engine
	validator *validate.Validator
}

// NewValidateTool creates a ValidateTool with its dependencies.
func NewValidateTool(engine *workflow.Engine, validator *validate.Validator) *ValidateTool {
	return &ValidateTool{engine: engine, validator: validator}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_output",
		mcp.WithDescription(
			"Validate the execution artifact against the original request and the "+
				"design document's section count, producing per-dimension checks, an "+
				"overall verdict with severity, and improvement suggestions. "+
				"Requires an executed task (execute_task first).",
		),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("The session whose output to validate."),
		),
		mcp.WithString("artifact",
			mcp.Description("Override artifact text. Defaults to the phase-6 output."),
		),
	)
}

// Handle processes the validate_output tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s, err := t.engine.EnterPhase(sessionID, workflow.PhaseValidate)
	if err != nil {
		return pipelineError(err)
	}

	artifact := req.GetString("artifact", "")
	if artifact == "" {
		var exec llm.ExecutionResult
		if err := s.Result(workflow.PhaseExecute, &exec); err != nil {
			return nil, err
		}
		artifact = exec.Output
	}

	var doc design.Document
	if err := s.Result(workflow.PhaseDesign, &doc); err != nil {
		return nil, err
	}

	// Validation scores against the user's original words, not the
	// clarification-enhanced text.
	result := t.validator.Validate(artifact, s.Request, len(doc.Sections))

	if _, err := t.engine.CompletePhase(sessionID, workflow.PhaseValidate, result); err != nil {
		return pipelineError(err)
	}

	return jsonResult(result)
}

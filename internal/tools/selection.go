package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/insight/internal/design"
	"github.com/HendryAvila/insight/internal/llm"
	"github.com/HendryAvila/insight/internal/selection"
	"github.com/HendryAvila/insight/internal/workflow"
)

// SelectionTool handles select_backend (phase 5): it derives the task
// profile from the design document and scores the model catalog against it.
type SelectionTool struct {
	engine *workflow.Engine
	scorer *selection.Scorer
}

// NewSelectionTool creates a SelectionTool with its dependencies.
func NewSelectionTool(engine *workflow.Engine, scorer *selection.Scorer) *SelectionTool {
	return &SelectionTool{engine: engine, scorer: scorer}
}

// Definition returns the MCP tool definition for registration.
func (t *SelectionTool) Definition() mcp.Tool {
	return mcp.NewTool("select_backend",
		mcp.WithDescription(
			"Score every model in the catalog against the task profile derived "+
				"from the design document, rank them, and pick a primary (plus a "+
				"fallback for high-complexity tasks) with per-provider optimized "+
				"prompts. Requires a generated design (generate_design first).",
		),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("The session to select a backend for."),
		),
		mcp.WithString("budget",
			mcp.Description("Budget tier: low, medium, or high. Defaults to medium."),
			mcp.Enum("low", "medium", "high"),
		),
	)
}

// Handle processes the select_backend tool call.
func (t *SelectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	budget := llm.CostTier(req.GetString("budget", ""))
	switch budget {
	case "", llm.CostLow, llm.CostMedium, llm.CostHigh:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown budget tier %q", budget)), nil
	}

	s, err := t.engine.EnterPhase(sessionID, workflow.PhaseSelection)
	if err != nil {
		return pipelineError(err)
	}

	var doc design.Document
	if err := s.Result(workflow.PhaseDesign, &doc); err != nil {
		return nil, err
	}

	profile := selection.DeriveProfile(doc.SectionContents(), s.ComplexityTotal, budget)
	result := t.scorer.Select(profile)

	if _, err := t.engine.CompletePhase(sessionID, workflow.PhaseSelection, result); err != nil {
		return pipelineError(err)
	}

	return jsonResult(result)
}

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/insight/internal/envcheck"
	"github.com/HendryAvila/insight/internal/hierarchy"
	"github.com/HendryAvila/insight/internal/research"
	"github.com/HendryAvila/insight/internal/workflow"
)

// ResearchTool handles gather_information (phase 2): it plans per-expert
// research queries and runs the top ones through the searcher.
type ResearchTool struct {
	engine   *workflow.Engine
	gatherer *research.Gatherer
}

// NewResearchTool creates a ResearchTool with its dependencies.
func NewResearchTool(engine *workflow.Engine, gatherer *research.Gatherer) *ResearchTool {
	return &ResearchTool{engine: engine, gatherer: gatherer}
}

// Definition returns the MCP tool definition for registration.
func (t *ResearchTool) Definition() mcp.Tool {
	return mcp.NewTool("gather_information",
		mcp.WithDescription(
			"Build prioritized research queries from the request keywords and the "+
				"assigned expert roles, then gather sources for the highest-priority "+
				"ones. Requires the environment check (check_environment first).",
		),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("The session to gather information for."),
		),
	)
}

// Handle processes the gather_information tool call.
func (t *ResearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s, err := t.engine.EnterPhase(sessionID, workflow.PhaseResearch)
	if err != nil {
		return pipelineError(err)
	}

	var snap envcheck.Snapshot
	if err := s.Result(workflow.PhaseEnvironment, &snap); err != nil {
		return nil, err
	}
	if snap.InfoMode == envcheck.ModeUnavailable {
		return pipelineError(workflow.ErrNoBackendAvailable)
	}

	var assignment hierarchy.Assignment
	var roles []string
	if err := s.Result(workflow.PhaseHierarchy, &assignment); err == nil {
		for _, expert := range assignment.Experts {
			roles = append(roles, expert.Name)
		}
	}

	result, err := t.gatherer.Gather(ctx, s.EffectiveRequest(), roles)
	if err != nil {
		return nil, err
	}

	if _, err := t.engine.CompletePhase(sessionID, workflow.PhaseResearch, result); err != nil {
		return pipelineError(err)
	}

	return jsonResult(struct {
		ExecutionMode envcheck.ExecutionMode `json:"execution_mode"`
		*research.Result
	}{snap.InfoMode, result})
}

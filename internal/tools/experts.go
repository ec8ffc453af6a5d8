package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/insight/internal/hierarchy"
	"github.com/HendryAvila/insight/internal/llm"
	"github.com/HendryAvila/insight/internal/workflow"
)

// ExpertsTool handles assign_experts (phase 1): it derives the topic
// hierarchy, builds the expert roster, and decides the processing mode.
type ExpertsTool struct {
	engine   *workflow.Engine
	assigner *hierarchy.Assigner
	registry *llm.Registry
}

// NewExpertsTool creates an ExpertsTool with its dependencies.
func NewExpertsTool(engine *workflow.Engine, assigner *hierarchy.Assigner, registry *llm.Registry) *ExpertsTool {
	return &ExpertsTool{engine: engine, assigner: assigner, registry: registry}
}

// Definition returns the MCP tool definition for registration.
func (t *ExpertsTool) Definition() mcp.Tool {
	return mcp.NewTool("assign_experts",
		mcp.WithDescription(
			"Detect the request's topic hierarchy (domain, subdomain, category, task), "+
				"assign one expert per detected layer, and decide solo vs collaborative "+
				"processing. Requires a classified session (classify_request first).",
		),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("The session to assign experts for."),
		),
	)
}

// Handle processes the assign_experts tool call.
func (t *ExpertsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s, err := t.engine.EnterPhase(sessionID, workflow.PhaseHierarchy)
	if err != nil {
		return pipelineError(err)
	}

	backends := t.registry.Available()
	if len(backends) == 0 && t.registry.FallbackAvailable() {
		backends = []string{llm.BackendFallback}
	}

	assignment := t.assigner.Assign(s.EffectiveRequest(), s.ComplexityTotal, backends)
	if _, err := t.engine.CompletePhase(sessionID, workflow.PhaseHierarchy, assignment); err != nil {
		return pipelineError(err)
	}

	return jsonResult(assignment)
}

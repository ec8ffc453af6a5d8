package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/insight/internal/envcheck"
	"github.com/HendryAvila/insight/internal/workflow"
)

// EnvironmentTool handles check_environment (phase 1.5): it probes backend
// availability and resolves the execution mode for the later phases. The
// snapshot is cached per session with a TTL, so repeated calls are cheap.
type EnvironmentTool struct {
	engine   *workflow.Engine
	resolver *envcheck.Resolver
}

// NewEnvironmentTool creates an EnvironmentTool with its dependencies.
func NewEnvironmentTool(engine *workflow.Engine, resolver *envcheck.Resolver) *EnvironmentTool {
	return &EnvironmentTool{engine: engine, resolver: resolver}
}

// Definition returns the MCP tool definition for registration.
func (t *EnvironmentTool) Definition() mcp.Tool {
	return mcp.NewTool("check_environment",
		mcp.WithDescription(
			"Probe which generation backends are configured, whether the fallback "+
				"path is available, and derive the execution mode (solo, multi, or "+
				"unavailable) for the information-gathering and design phases. "+
				"Results are cached per session for five minutes.",
		),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("The session to check the environment for."),
		),
	)
}

// Handle processes the check_environment tool call.
func (t *EnvironmentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := t.engine.EnterPhase(sessionID, workflow.PhaseEnvironment); err != nil {
		return pipelineError(err)
	}

	snap := t.resolver.Resolve(sessionID)
	if _, err := t.engine.CompletePhase(sessionID, workflow.PhaseEnvironment, snap); err != nil {
		return pipelineError(err)
	}

	return jsonResult(snap)
}

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/insight/internal/design"
	"github.com/HendryAvila/insight/internal/envcheck"
	"github.com/HendryAvila/insight/internal/llm"
	"github.com/HendryAvila/insight/internal/research"
	"github.com/HendryAvila/insight/internal/workflow"
)

// DesignTool handles generate_design (phase 4): it picks the quality level
// from the classification and produces the sectioned design document.
type DesignTool struct {
	engine   *workflow.Engine
	registry *llm.Registry
}

// NewDesignTool creates a DesignTool with its dependencies.
func NewDesignTool(engine *workflow.Engine, registry *llm.Registry) *DesignTool {
	return &DesignTool{engine: engine, registry: registry}
}

// Definition returns the MCP tool definition for registration.
func (t *DesignTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_design",
		mcp.WithDescription(
			"Generate the design document for the session: standard quality for "+
				"simple requests, critical quality (extra QA, risk, and operations "+
				"sections) for Type 2 or high-complexity ones. Section content is "+
				"written by a configured backend when one is available.",
		),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("The session to generate the design for."),
		),
	)
}

// Handle processes the generate_design tool call.
func (t *DesignTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s, err := t.engine.EnterPhase(sessionID, workflow.PhaseDesign)
	if err != nil {
		return pipelineError(err)
	}

	var snap envcheck.Snapshot
	if err := s.Result(workflow.PhaseEnvironment, &snap); err != nil {
		return nil, err
	}
	if snap.DesignMode == envcheck.ModeUnavailable {
		return pipelineError(workflow.ErrNoBackendAvailable)
	}

	// Multi mode writes sections with the preferred backend; solo mode keeps
	// the template text, which the fallback path fills in at execution.
	var gen llm.Generator
	if snap.DesignMode == envcheck.ModeMulti {
		gen, err = t.registry.Default()
		if err != nil {
			return nil, err
		}
	}

	// Research may have been skipped for Type 3 sessions that branched
	// through clarification; the document just carries no references then.
	var sources []research.Source
	var res research.Result
	if err := s.Result(workflow.PhaseResearch, &res); err == nil {
		sources = res.Sources
	}

	doc, err := design.NewGenerator(gen).Generate(ctx, s.EffectiveRequest(), s.RequestType, s.ComplexityTotal, sources)
	if err != nil {
		return nil, err
	}

	if _, err := t.engine.CompletePhase(sessionID, workflow.PhaseDesign, doc); err != nil {
		return pipelineError(err)
	}

	return jsonResult(struct {
		ExecutionMode envcheck.ExecutionMode `json:"execution_mode"`
		*design.Document
	}{snap.DesignMode, doc})
}

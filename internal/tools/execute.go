package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/insight/internal/design"
	"github.com/HendryAvila/insight/internal/llm"
	"github.com/HendryAvila/insight/internal/selection"
	"github.com/HendryAvila/insight/internal/workflow"
)

// ExecuteTool handles execute_task (phase 6): it runs the selected backend's
// optimized prompt over the rendered design document.
type ExecuteTool struct {
	engine   *workflow.Engine
	registry *llm.Registry
}

// NewExecuteTool creates an ExecuteTool with its dependencies.
func NewExecuteTool(engine *workflow.Engine, registry *llm.Registry) *ExecuteTool {
	return &ExecuteTool{engine: engine, registry: registry}
}

// Definition returns the MCP tool definition for registration.
func (t *ExecuteTool) Definition() mcp.Tool {
	return mcp.NewTool("execute_task",
		mcp.WithDescription(
			"Execute the task: feed the design document, wrapped in the primary "+
				"selection's optimized prompt, to the selected backend and record "+
				"the produced artifact. Requires a backend selection "+
				"(select_backend first).",
		),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("The session to execute."),
		),
		mcp.WithString("backend",
			mcp.Description("Override the selected backend (claude, gpt, gemini, grok, fallback)."),
		),
	)
}

// Handle processes the execute_task tool call.
func (t *ExecuteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s, err := t.engine.EnterPhase(sessionID, workflow.PhaseExecute)
	if err != nil {
		return pipelineError(err)
	}

	var sel selection.Result
	if err := s.Result(workflow.PhaseSelection, &sel); err != nil {
		return nil, err
	}
	if len(sel.Selections) == 0 {
		return nil, fmt.Errorf("session %s: selection result has no candidates", sessionID)
	}
	var doc design.Document
	if err := s.Result(workflow.PhaseDesign, &doc); err != nil {
		return nil, err
	}

	primary := sel.Selections[0]
	var gen llm.Generator
	if override := req.GetString("backend", ""); override != "" {
		gen, err = t.registry.Generator(override)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else if gen, err = t.registry.Generator(primary.Backend); err != nil {
		// The selected backend may have lost its credential since phase 5.
		gen, err = t.registry.Default()
		if err != nil {
			return pipelineError(workflow.ErrNoBackendAvailable)
		}
	}

	prompt := sel.OptimizedPrompts[primary.Model]
	if prompt == "" {
		prompt = "Carry out the task described by the following design document:\n\n"
	}
	prompt += "\n\n" + renderDocument(&doc)

	result, err := llm.Execute(ctx, gen, prompt, llm.Options{})
	if err != nil {
		return nil, err
	}

	if _, err := t.engine.CompletePhase(sessionID, workflow.PhaseExecute, result); err != nil {
		return pipelineError(err)
	}

	return jsonResult(result)
}

// renderDocument flattens the design document to markdown for the prompt.
func renderDocument(doc *design.Document) string {
	var sb strings.Builder
	sb.WriteString("# " + doc.Title + "\n")
	for _, section := range doc.Sections {
		sb.WriteString("\n## " + section.Name + "\n")
		sb.WriteString(section.Content + "\n")
	}
	return sb.String()
}

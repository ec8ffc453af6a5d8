// Package tools implements the MCP tool surface of the pipeline: one tool
// per operation, each a struct with a Definition for registration and a
// Handle for execution.
//
// Error convention: pipeline conditions the caller can act on (unknown
// session, unmet precondition, pending clarification, timeout, no backend)
// come back as tool-result errors; anything else is an infrastructure
// failure returned as a Go error.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/insight/internal/research"
	"github.com/HendryAvila/insight/internal/workflow"
)

// jsonResult renders v as an indented JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// usageSentinels are conditions surfaced to the MCP caller rather than
// treated as server failures.
var usageSentinels = []error{
	workflow.ErrSessionNotFound,
	workflow.ErrSessionTimedOut,
	workflow.ErrPendingClarification,
	workflow.ErrPhasePreconditionUnmet,
	workflow.ErrNoBackendAvailable,
	workflow.ErrInvalidClarificationState,
}

// pipelineError maps sentinel errors to tool-result errors and passes
// everything else through as an infrastructure failure.
func pipelineError(err error) (*mcp.CallToolResult, error) {
	for _, sentinel := range usageSentinels {
		if errors.Is(err, sentinel) {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return nil, err
}

// priorInsights collects context snippets from the research phase, if it
// ran, for the clarification coverage check.
func priorInsights(s *workflow.Session) []string {
	var res research.Result
	if err := s.Result(workflow.PhaseResearch, &res); err != nil {
		return nil
	}
	var out []string
	for _, src := range res.Sources {
		out = append(out, src.Snippet)
	}
	return out
}

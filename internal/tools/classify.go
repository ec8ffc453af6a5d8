package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/insight/internal/classify"
	"github.com/HendryAvila/insight/internal/workflow"
)

// ClassifyTool handles classify_request: it opens a session for a new
// request (phase 0) or reclassifies an existing one after clarification.
type ClassifyTool struct {
	engine     *workflow.Engine
	classifier *classify.Classifier
}

// NewClassifyTool creates a ClassifyTool with its dependencies.
func NewClassifyTool(engine *workflow.Engine, classifier *classify.Classifier) *ClassifyTool {
	return &ClassifyTool{engine: engine, classifier: classifier}
}

// Definition returns the MCP tool definition for registration.
func (t *ClassifyTool) Definition() mcp.Tool {
	return mcp.NewTool("classify_request",
		mcp.WithDescription(
			"Score a request's clarity (0-5) and complexity (0-7) and classify it as "+
				"Type 1 (simple/clear), Type 2 (complex/clear), or Type 3 (ambiguous). "+
				"Without a session_id this starts a new session; with one it reclassifies "+
				"the session's request, including clarification answers gathered so far.",
		),
		mcp.WithString("request",
			mcp.Description("The request text to classify. Required when starting a new session."),
		),
		mcp.WithString("session_id",
			mcp.Description("Existing session to reclassify. Omit to start a new session."),
		),
	)
}

// Handle processes the classify_request tool call.
func (t *ClassifyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	request := req.GetString("request", "")
	sessionID := req.GetString("session_id", "")

	if sessionID == "" {
		if strings.TrimSpace(request) == "" {
			return mcp.NewToolResultError("request text is required to start a session"), nil
		}
		s, err := t.engine.CreateSession(request)
		if err != nil {
			return nil, err
		}
		sessionID = s.ID
	}

	s, err := t.engine.Status(sessionID)
	if err != nil {
		return pipelineError(err)
	}

	reclassify := s.HasResult(workflow.PhaseClassify)
	c := t.classifier.Classify(s.EffectiveRequest(), reclassify)

	if _, err := t.engine.RecordClassification(sessionID, &c); err != nil {
		return pipelineError(err)
	}

	complexityTotal := 0
	if c.Complexity != nil {
		complexityTotal = c.Complexity.Total()
	}

	return jsonResult(struct {
		SessionID       string                  `json:"session_id"`
		Reclassified    bool                    `json:"reclassified"`
		ClarityTotal    int                     `json:"clarity_total"`
		ComplexityTotal int                     `json:"complexity_total"`
		Classification  classify.Classification `json:"classification"`
	}{sessionID, reclassify, c.Clarity.Total(), complexityTotal, c})
}

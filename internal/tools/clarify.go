package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/insight/internal/clarify"
	"github.com/HendryAvila/insight/internal/classify"
	"github.com/HendryAvila/insight/internal/workflow"
)

// ClarificationSummary is the phase-3 result slot: the finished dialog plus
// the enhanced request that feeds re-classification.
type ClarificationSummary struct {
	Dialog          *clarify.Dialog `json:"dialog"`
	EnhancedRequest string          `json:"enhanced_request"`
}

// ClarifyIntentTool handles clarify_user_intent (phase 3): it opens the
// dialog for a Type 3 session and issues the next question, or finishes the
// dialog when no question remains.
type ClarifyIntentTool struct {
	engine     *workflow.Engine
	dialog     *clarify.Engine
	classifier *classify.Classifier
}

// NewClarifyIntentTool creates a ClarifyIntentTool with its dependencies.
func NewClarifyIntentTool(engine *workflow.Engine, dialog *clarify.Engine, classifier *classify.Classifier) *ClarifyIntentTool {
	return &ClarifyIntentTool{engine: engine, dialog: dialog, classifier: classifier}
}

// Definition returns the MCP tool definition for registration.
func (t *ClarifyIntentTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_user_intent",
		mcp.WithDescription(
			"Ask the next clarification question for an ambiguous (Type 3) session. "+
				"Repeating the call while a question is pending returns the same "+
				"question. Once the dialog completes, the answers are folded into an "+
				"enhanced request and the session is re-classified; calling again "+
				"after that reports the completion status.",
		),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("The session to clarify."),
		),
	)
}

// Handle processes the clarify_user_intent tool call.
func (t *ClarifyIntentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var question *clarify.Question
	s, err := t.engine.UpdateClarification(sessionID, func(s *workflow.Session) error {
		if s.Clarification == nil {
			s.Clarification = clarify.NewDialog()
		}
		question = t.dialog.NextQuestion(s.Clarification, s.EffectiveRequest(), priorInsights(s))
		if question == nil && s.Clarification.State == clarify.StateComplete {
			s.EnhancedRequest = t.dialog.Enhance(s.Request, s.Clarification)
		}
		return nil
	})
	if err != nil {
		return pipelineError(err)
	}

	if question != nil {
		return jsonResult(struct {
			SessionID string            `json:"session_id"`
			Complete  bool              `json:"complete"`
			Question  *clarify.Question `json:"question"`
		}{sessionID, false, question})
	}

	// Phase 3 already closed on an earlier call: the session may have been
	// re-classified away from Type 3 since, so report the completion status
	// instead of finishing again.
	if s.HasResult(workflow.PhaseClarify) {
		return jsonResult(struct {
			SessionID       string               `json:"session_id"`
			Complete        bool                 `json:"complete"`
			Reason          string               `json:"reason"`
			EnhancedRequest string               `json:"enhanced_request"`
			RequestType     classify.RequestType `json:"request_type"`
		}{sessionID, true, s.Clarification.Reason, s.EnhancedRequest, s.RequestType})
	}

	return finishClarification(t.engine, t.classifier, sessionID, s)
}

// AnswerClarificationTool handles answer_clarification_question: it records
// the answer to the pending question and, when the dialog completes, runs the
// same finish path as clarify_user_intent.
type AnswerClarificationTool struct {
	engine     *workflow.Engine
	dialog     *clarify.Engine
	classifier *classify.Classifier
}

// NewAnswerClarificationTool creates an AnswerClarificationTool with its
// dependencies.
func NewAnswerClarificationTool(engine *workflow.Engine, dialog *clarify.Engine, classifier *classify.Classifier) *AnswerClarificationTool {
	return &AnswerClarificationTool{engine: engine, dialog: dialog, classifier: classifier}
}

// Definition returns the MCP tool definition for registration.
func (t *AnswerClarificationTool) Definition() mcp.Tool {
	return mcp.NewTool("answer_clarification_question",
		mcp.WithDescription(
			"Record the answer to the session's pending clarification question. "+
				"If enough satisfying answers have accumulated the dialog completes, "+
				"the request is enhanced with the answers, and the session is "+
				"re-classified; otherwise call clarify_user_intent for the next question.",
		),
		mcp.WithString("session_id", mcp.Required(),
			mcp.Description("The session whose pending question is being answered."),
		),
		mcp.WithString("answer", mcp.Required(),
			mcp.Description("The answer to the pending question."),
		),
	)
}

// Handle processes the answer_clarification_question tool call.
func (t *AnswerClarificationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	answer, err := req.RequireString("answer")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response *clarify.Response
	s, err := t.engine.UpdateClarification(sessionID, func(s *workflow.Session) error {
		if s.Clarification == nil {
			return fmt.Errorf("%w: %v", workflow.ErrInvalidClarificationState, clarify.ErrNoPendingQuestion)
		}
		resp, err := t.dialog.RecordAnswer(s.Clarification, answer)
		if err != nil {
			return fmt.Errorf("%w: %v", workflow.ErrInvalidClarificationState, err)
		}
		response = resp
		if s.Clarification.State == clarify.StateComplete {
			s.EnhancedRequest = t.dialog.Enhance(s.Request, s.Clarification)
		}
		return nil
	})
	if err != nil {
		return pipelineError(err)
	}

	if s.Clarification.State != clarify.StateComplete {
		return jsonResult(struct {
			SessionID string            `json:"session_id"`
			Complete  bool              `json:"complete"`
			Response  *clarify.Response `json:"response"`
		}{sessionID, false, response})
	}

	return finishClarification(t.engine, t.classifier, sessionID, s)
}

// finishClarification closes phase 3 for a completed dialog: it stores the
// summary while the session is still Type 3, then re-classifies the enhanced
// request, which may demote the session to Type 1 or 2.
func finishClarification(engine *workflow.Engine, classifier *classify.Classifier, sessionID string, s *workflow.Session) (*mcp.CallToolResult, error) {
	summary := ClarificationSummary{
		Dialog:          s.Clarification,
		EnhancedRequest: s.EnhancedRequest,
	}
	if _, err := engine.CompletePhase(sessionID, workflow.PhaseClarify, summary); err != nil {
		return pipelineError(err)
	}

	c := classifier.Classify(s.EffectiveRequest(), true)
	if _, err := engine.RecordClassification(sessionID, &c); err != nil {
		return pipelineError(err)
	}

	return jsonResult(struct {
		SessionID        string                  `json:"session_id"`
		Complete         bool                    `json:"complete"`
		Reason           string                  `json:"reason"`
		EnhancedRequest  string                  `json:"enhanced_request"`
		Reclassification classify.Classification `json:"reclassification"`
	}{sessionID, true, s.Clarification.Reason, s.EnhancedRequest, c})
}

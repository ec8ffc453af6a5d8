// Package server wires the pipeline components and creates the MCP server
// instance.
//
// This is the composition root: it builds the concrete stores, engines, and
// scorers and injects them into the tools. No business logic lives here —
// only wiring.
package server

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/insight/internal/clarify"
	"github.com/HendryAvila/insight/internal/classify"
	"github.com/HendryAvila/insight/internal/envcheck"
	"github.com/HendryAvila/insight/internal/hierarchy"
	"github.com/HendryAvila/insight/internal/llm"
	"github.com/HendryAvila/insight/internal/research"
	"github.com/HendryAvila/insight/internal/selection"
	"github.com/HendryAvila/insight/internal/tools"
	"github.com/HendryAvila/insight/internal/validate"
	"github.com/HendryAvila/insight/internal/vocab"
	"github.com/HendryAvila/insight/internal/workflow"
)

// Version is set at build time via ldflags.
var Version = "dev"

// EnvDataDir overrides the directory holding the session database.
const EnvDataDir = "INSIGHT_DATA_DIR"

// New creates and configures the MCP server with every pipeline tool
// registered.
//
// The returned cleanup function drops the environment cache and closes the
// session database; it must be called on shutdown (typically via defer). It
// is always non-nil and safe to call even when persistence fell back to
// memory.
func New() (*server.MCPServer, func(), error) {
	tables, err := vocab.FromEnv()
	if err != nil {
		return nil, noop, fmt.Errorf("loading vocabulary: %w", err)
	}

	registry := llm.NewRegistry()

	// Session persistence is best-effort: when the database cannot be opened
	// the pipeline still works, sessions just do not survive a restart.
	closeStore := noop
	var store workflow.SessionStore
	sqlStore, storeErr := workflow.NewSQLiteStore(dataDir())
	if storeErr != nil {
		log.Printf("WARNING: session persistence disabled: %v", storeErr)
		store = workflow.NewMemoryStore()
	} else {
		store = sqlStore
		closeStore = func() {
			if err := sqlStore.Close(); err != nil {
				log.Printf("WARNING: session store close: %v", err)
			}
		}
	}

	engine := workflow.NewEngine(store)
	classifier := classify.New(tables)
	dialog := clarify.NewEngine(tables)
	resolver := envcheck.NewResolver(registry)

	cleanup := func() {
		resolver.Clear()
		closeStore()
	}

	s := server.NewMCPServer(
		"insight",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	classifyTool := tools.NewClassifyTool(engine, classifier)
	s.AddTool(classifyTool.Definition(), classifyTool.Handle)

	expertsTool := tools.NewExpertsTool(engine, hierarchy.New(tables), registry)
	s.AddTool(expertsTool.Definition(), expertsTool.Handle)

	envTool := tools.NewEnvironmentTool(engine, resolver)
	s.AddTool(envTool.Definition(), envTool.Handle)

	researchTool := tools.NewResearchTool(engine, research.NewGatherer(&research.StubSearcher{}))
	s.AddTool(researchTool.Definition(), researchTool.Handle)

	clarifyTool := tools.NewClarifyIntentTool(engine, dialog, classifier)
	s.AddTool(clarifyTool.Definition(), clarifyTool.Handle)

	answerTool := tools.NewAnswerClarificationTool(engine, dialog, classifier)
	s.AddTool(answerTool.Definition(), answerTool.Handle)

	designTool := tools.NewDesignTool(engine, registry)
	s.AddTool(designTool.Definition(), designTool.Handle)

	selectionTool := tools.NewSelectionTool(engine, selection.NewScorer())
	s.AddTool(selectionTool.Definition(), selectionTool.Handle)

	executeTool := tools.NewExecuteTool(engine, registry)
	s.AddTool(executeTool.Definition(), executeTool.Handle)

	validateTool := tools.NewValidateTool(engine, validate.New())
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	statusTool := tools.NewStatusTool(engine)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	return s, cleanup, nil
}

// noop is the store closer when persistence is disabled.
func noop() {}

// dataDir picks the directory for the session database: the override
// variable when set, ~/.insight otherwise.
func dataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".insight"
	}
	return filepath.Join(home, ".insight")
}

// serverInstructions tells the hosting model how to drive the pipeline.
func serverInstructions() string {
	return `You have access to Insight, a request-classification and phase-orchestration MCP server.

Insight breaks a user request into a phased pipeline. Each phase is one tool
call; the server enforces the order and tells you (as a tool error) when a
phase is attempted too early, when a clarification answer is missing, or when
the session's 30-minute budget has run out.

## Pipeline

1. classify_request — start here. Pass the user's request text; the tool
   returns a session_id plus a classification:
   - Type 1: simple and clear — the fast path
   - Type 2: complex but clear — gets a critical-quality design
   - Type 3: ambiguous — must go through clarification
2. assign_experts — derive the topic hierarchy and expert roster.
3. check_environment — probe backends and decide the execution mode.
4. gather_information — run the prioritized research queries.
   Type 3 sessions may skip straight to clarification instead.
5. clarify_user_intent / answer_clarification_question — Type 3 only.
   Ask the returned question to the user verbatim, then submit their answer.
   Repeat until the dialog reports complete; the session is re-classified
   automatically from the enhanced request. Run gather_information afterwards.
6. generate_design — produce the sectioned design document.
7. select_backend — rank the model catalog and pick primary (and fallback)
   with optimized prompts. Pass budget=low|medium|high if the user stated one.
8. execute_task — run the design through the selected backend. In fallback
   mode the result is a prompt for YOU to complete: do the work it describes.
9. validate_output — score the artifact; act on the improvement suggestions
   before presenting the result.

get_workflow_status works at any time, including after a timeout.

## Rules
- Always pass the session_id returned by classify_request to every later call.
- Never invent answers to clarification questions — relay them to the user.
- When a tool error says a phase's precondition is unmet, run the named phase
  first instead of retrying.
- When execution mode is unavailable, tell the user a backend credential is
  required (ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, or GROK_API_KEY).`
}

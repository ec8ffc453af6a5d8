// Insight: request-classification and phase-orchestration MCP server.
//
// Insight guides a hosting model through a phased pipeline: classify the
// request, assign experts, check the environment, gather information,
// clarify ambiguous intent, design, select a backend, execute, and validate.
//
// Usage:
//
//	insight serve    # Start MCP server (stdio transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	insightserver "github.com/HendryAvila/insight/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("insight v%s\n", insightserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := insightserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Insight v%s — request-classification and phase-orchestration MCP server

Usage:
  insight serve    Start the MCP server (stdio transport)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "insight": {
        "command": "insight",
        "args": ["serve"]
      }
    }
  }

Environment:
  ANTHROPIC_API_KEY / OPENAI_API_KEY / GEMINI_API_KEY / GROK_API_KEY
                              Backend credentials (any subset; none required)
  INSIGHT_DATA_DIR            Session database directory (default ~/.insight)
  INSIGHT_VOCAB_FILE          YAML vocabulary override
  INSIGHT_DISABLE_FALLBACK    Disable the host-LLM fallback path
`, insightserver.Version)
}

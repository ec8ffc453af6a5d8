package llm

import (
	"context"
	"fmt"
)

// FallbackGenerator is the host-LLM passthrough used when no backend
// credential is configured. Under the MCP transport the tool result is read
// by the hosting model, so "generating" means formatting the prompt for it
// to act on — no API call is made here.
type FallbackGenerator struct{}

func (g *FallbackGenerator) Name() string { return BackendFallback }

func (g *FallbackGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full := prompt
	if opts.System != "" {
		full = fmt.Sprintf("System: %s\n\nUser: %s", opts.System, prompt)
	}
	return fmt.Sprintf("[fallback mode]\n\n%s\n\n(to be completed by the hosting model)", full), nil
}

// StaticGenerator returns a fixed response for every prompt. It is the
// deterministic test double injected wherever a phase needs generation.
type StaticGenerator struct {
	Response string
	Err      error

	// Prompts records every prompt received, for assertions.
	Prompts []string
}

func (g *StaticGenerator) Name() string { return "static" }

func (g *StaticGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return "", g.Err
	}
	return g.Response, nil
}

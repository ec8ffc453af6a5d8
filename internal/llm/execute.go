package llm

import (
	"context"
	"fmt"
	"time"
)

// ExecutionResult records one task execution against a generator.
type ExecutionResult struct {
	Output    string        `json:"output"`
	Backend   string        `json:"backend"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Execute runs the prompt against the generator and records timing.
func Execute(ctx context.Context, gen Generator, prompt string, opts Options) (*ExecutionResult, error) {
	start := time.Now()
	output, err := gen.Generate(ctx, prompt, opts)
	if err != nil {
		return nil, fmt.Errorf("executing on %s: %w", gen.Name(), err)
	}
	return &ExecutionResult{
		Output:    output,
		Backend:   gen.Name(),
		StartedAt: start,
		Duration:  time.Since(start),
	}, nil
}

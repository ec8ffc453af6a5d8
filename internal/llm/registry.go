package llm

import (
	"fmt"
	"os"
	"sort"
)

// Backend ids, matched to the credential that unlocks them.
const (
	BackendClaude   = "claude"
	BackendGPT      = "gpt"
	BackendGemini   = "gemini"
	BackendGrok     = "grok"
	BackendFallback = "fallback"
)

// credentialVars maps each backend to its credential environment variable.
var credentialVars = map[string]string{
	BackendClaude: "ANTHROPIC_API_KEY",
	BackendGPT:    "OPENAI_API_KEY",
	BackendGemini: "GEMINI_API_KEY",
	BackendGrok:   "GROK_API_KEY",
}

// EnvDisableFallback disables the host-LLM passthrough when set, which
// makes the pipeline hard-stop if no backend credential is present either.
const EnvDisableFallback = "INSIGHT_DISABLE_FALLBACK"

// Registry probes the environment for usable generation backends and
// constructs generators on demand. It is cheap to create; clients are
// built lazily per call.
type Registry struct {
	getenv func(string) string
}

// NewRegistry creates a registry reading the process environment.
func NewRegistry() *Registry {
	return &Registry{getenv: os.Getenv}
}

// NewRegistryFromEnv creates a registry with an injected environment,
// used by tests to simulate credential layouts.
func NewRegistryFromEnv(getenv func(string) string) *Registry {
	return &Registry{getenv: getenv}
}

// Available returns the backend ids with configured credentials, in a
// stable order.
func (r *Registry) Available() []string {
	var out []string
	for backend, envVar := range credentialVars {
		if r.getenv(envVar) != "" {
			out = append(out, backend)
		}
	}
	sort.Strings(out)
	return out
}

// FallbackAvailable reports whether the host-LLM passthrough can be used.
// Under the MCP transport the hosting model is always reachable, so the
// passthrough is available unless explicitly disabled.
func (r *Registry) FallbackAvailable() bool {
	return r.getenv(EnvDisableFallback) == ""
}

// Generator returns a generator for the named backend. The fallback backend
// is always constructible; the others need their credential.
func (r *Registry) Generator(backend string) (Generator, error) {
	if backend == BackendFallback {
		if !r.FallbackAvailable() {
			return nil, fmt.Errorf("fallback passthrough is disabled")
		}
		return &FallbackGenerator{}, nil
	}

	envVar, ok := credentialVars[backend]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
	key := r.getenv(envVar)
	if key == "" {
		return nil, fmt.Errorf("backend %q has no credential (%s unset)", backend, envVar)
	}

	switch backend {
	case BackendClaude:
		return newAnthropicGenerator(key), nil
	case BackendGPT:
		return newOpenAIGenerator(key), nil
	case BackendGemini:
		return newGeminiGenerator(key), nil
	case BackendGrok:
		return newGrokGenerator(key), nil
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

// Default returns the preferred generator: the first available configured
// backend, else the fallback passthrough, else an error.
func (r *Registry) Default() (Generator, error) {
	if available := r.Available(); len(available) > 0 {
		return r.Generator(available[0])
	}
	if r.FallbackAvailable() {
		return r.Generator(BackendFallback)
	}
	return nil, fmt.Errorf("no generation backend available")
}

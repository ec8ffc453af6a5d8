package llm

import (
	"context"
	"strings"
	"testing"
)

func envOf(pairs map[string]string) func(string) string {
	return func(key string) string { return pairs[key] }
}

func TestRegistry_AvailableEmpty(t *testing.T) {
	r := NewRegistryFromEnv(envOf(nil))
	if got := r.Available(); len(got) != 0 {
		t.Errorf("Available = %v, want empty", got)
	}
}

func TestRegistry_AvailableStableOrder(t *testing.T) {
	r := NewRegistryFromEnv(envOf(map[string]string{
		"OPENAI_API_KEY":    "k",
		"ANTHROPIC_API_KEY": "k",
		"GEMINI_API_KEY":    "k",
	}))
	got := r.Available()
	want := []string{"claude", "gemini", "gpt"}
	if len(got) != len(want) {
		t.Fatalf("Available = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRegistry_FallbackToggle(t *testing.T) {
	r := NewRegistryFromEnv(envOf(nil))
	if !r.FallbackAvailable() {
		t.Error("fallback should be available by default")
	}

	r = NewRegistryFromEnv(envOf(map[string]string{EnvDisableFallback: "1"}))
	if r.FallbackAvailable() {
		t.Error("fallback should honor the disable flag")
	}
}

func TestRegistry_GeneratorNeedsCredential(t *testing.T) {
	r := NewRegistryFromEnv(envOf(nil))
	if _, err := r.Generator(BackendClaude); err == nil {
		t.Error("expected error for backend without credential")
	}

	r = NewRegistryFromEnv(envOf(map[string]string{"ANTHROPIC_API_KEY": "k"}))
	gen, err := r.Generator(BackendClaude)
	if err != nil {
		t.Fatalf("Generator(claude) error: %v", err)
	}
	if gen.Name() != BackendClaude {
		t.Errorf("Name = %s, want claude", gen.Name())
	}
}

func TestRegistry_UnknownBackend(t *testing.T) {
	r := NewRegistryFromEnv(envOf(nil))
	if _, err := r.Generator("mystery"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestRegistry_DefaultPrefersConfigured(t *testing.T) {
	r := NewRegistryFromEnv(envOf(map[string]string{"ANTHROPIC_API_KEY": "k"}))
	gen, err := r.Default()
	if err != nil {
		t.Fatalf("Default error: %v", err)
	}
	if gen.Name() != BackendClaude {
		t.Errorf("Default = %s, want claude", gen.Name())
	}
}

func TestRegistry_DefaultFallsBack(t *testing.T) {
	r := NewRegistryFromEnv(envOf(nil))
	gen, err := r.Default()
	if err != nil {
		t.Fatalf("Default error: %v", err)
	}
	if gen.Name() != BackendFallback {
		t.Errorf("Default = %s, want fallback", gen.Name())
	}
}

func TestRegistry_DefaultHardStop(t *testing.T) {
	r := NewRegistryFromEnv(envOf(map[string]string{EnvDisableFallback: "1"}))
	if _, err := r.Default(); err == nil {
		t.Error("expected error with no backends and fallback disabled")
	}
}

func TestFallbackGenerator_WrapsPrompt(t *testing.T) {
	g := &FallbackGenerator{}
	out, err := g.Generate(context.Background(), "write a plan", Options{System: "be brief"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !strings.Contains(out, "write a plan") || !strings.Contains(out, "be brief") {
		t.Errorf("fallback output should embed prompt and system text, got %q", out)
	}
}

func TestCatalog_DeclarationOrder(t *testing.T) {
	catalog := Catalog()
	if len(catalog) != 4 {
		t.Fatalf("catalog size = %d, want 4", len(catalog))
	}
	if catalog[0].Model != "claude-3-5-sonnet-20241022" {
		t.Errorf("first model = %s", catalog[0].Model)
	}
	if !catalog[0].HasStrength(StrengthReasoning) {
		t.Error("claude profile should advertise reasoning")
	}
	if catalog[2].CostTier != CostLow {
		t.Errorf("gpt-3.5 cost tier = %s, want low", catalog[2].CostTier)
	}
}

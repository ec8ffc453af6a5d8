package envcheck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/insight/internal/classify"
)

type fakeProber struct {
	backends []string
	fallback bool
	probes   int
}

func (p *fakeProber) Available() []string {
	p.probes++
	return p.backends
}

func (p *fakeProber) FallbackAvailable() bool { return p.fallback }

func freezeTime(t *testing.T, at time.Time) func(time.Time) {
	t.Helper()
	orig := timeNow
	current := at
	timeNow = func() time.Time { return current }
	t.Cleanup(func() { timeNow = orig })
	return func(next time.Time) { current = next }
}

func TestResolve_FallbackSolo(t *testing.T) {
	freezeTime(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	r := NewResolver(&fakeProber{fallback: true})

	snap := r.Resolve("s1")
	assert.Equal(t, ModeSolo, snap.InfoMode)
	assert.Equal(t, ModeSolo, snap.DesignMode)
	assert.True(t, snap.FallbackConnected)
	assert.Equal(t, 0, snap.BackendCount)
	assert.Contains(t, snap.ModeDescription, "fallback")
}

func TestResolve_Unavailable(t *testing.T) {
	freezeTime(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	r := NewResolver(&fakeProber{})

	snap := r.Resolve("s1")
	assert.Equal(t, ModeUnavailable, snap.InfoMode)
	assert.Equal(t, ModeUnavailable, snap.DesignMode)
}

func TestResolve_MultiRegardlessOfCount(t *testing.T) {
	freezeTime(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	for _, backends := range [][]string{
		{"claude"},
		{"claude", "gpt"},
		{"claude", "gemini", "gpt", "grok"},
	} {
		r := NewResolver(&fakeProber{backends: backends, fallback: true})
		snap := r.Resolve("s1")
		assert.Equalf(t, ModeMulti, snap.InfoMode, "backends=%v", backends)
		assert.Equal(t, len(backends), snap.BackendCount)
	}
}

func TestResolve_CostTableIsStatic(t *testing.T) {
	freezeTime(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	r := NewResolver(&fakeProber{fallback: true})

	snap := r.Resolve("s1")
	require.NotNil(t, snap.EstimatedCosts)
	assert.Equal(t, "$0.5-2", snap.EstimatedCosts[classify.Type1])
	assert.Equal(t, "$2-10", snap.EstimatedCosts[classify.Type2])
	assert.Equal(t, "$5-20", snap.EstimatedCosts[classify.Type3])
}

func TestResolve_CacheHitWithinTTL(t *testing.T) {
	advance := freezeTime(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	prober := &fakeProber{fallback: true}
	r := NewResolver(prober)

	first := r.Resolve("s1")
	advance(time.Date(2026, 3, 1, 10, 4, 59, 0, time.UTC))
	second := r.Resolve("s1")

	// Same object state — no recomputation.
	require.Same(t, first, second)
	assert.Equal(t, 1, prober.probes)
}

func TestResolve_ExpiryTriggersRecompute(t *testing.T) {
	advance := freezeTime(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	prober := &fakeProber{fallback: true}
	r := NewResolver(prober)

	first := r.Resolve("s1")
	advance(time.Date(2026, 3, 1, 10, 5, 1, 0, time.UTC))
	second := r.Resolve("s1")

	require.NotSame(t, first, second)
	assert.Equal(t, 2, prober.probes)
	assert.True(t, second.CheckedAt.After(first.CheckedAt),
		"recomputed snapshot must carry a fresh CheckedAt")
}

func TestResolve_SessionsAreIndependent(t *testing.T) {
	freezeTime(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	prober := &fakeProber{fallback: true}
	r := NewResolver(prober)

	r.Resolve("s1")
	r.Resolve("s2")
	assert.Equal(t, 2, prober.probes, "each session probes independently")
}

func TestInvalidate(t *testing.T) {
	freezeTime(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	prober := &fakeProber{fallback: true}
	r := NewResolver(prober)

	r.Resolve("s1")
	r.Invalidate("s1")
	r.Resolve("s1")
	assert.Equal(t, 2, prober.probes)
}

func TestClear(t *testing.T) {
	freezeTime(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	prober := &fakeProber{fallback: true}
	r := NewResolver(prober)

	r.Resolve("s1")
	r.Resolve("s2")
	r.Clear()
	r.Resolve("s1")
	r.Resolve("s2")
	assert.Equal(t, 4, prober.probes, "clearing drops every cached snapshot")
}

// Package envcheck probes which generation backends are usable and decides
// the per-phase execution mode for the session.
//
// Probing is cheap but the result is consulted by several phases, so
// snapshots are cached per session with a fixed TTL. The cache is bounded:
// entries beyond the session cap are evicted LRU-first, and stale entries
// are evicted lazily on the next lookup.
package envcheck

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/HendryAvila/insight/internal/classify"
)

// ExecutionMode is the per-phase decision of how many backends participate.
type ExecutionMode string

const (
	// ModeUnavailable means no backend and no fallback: a hard stop.
	ModeUnavailable ExecutionMode = "unavailable"
	// ModeSolo means a single generation path (the fallback passthrough).
	ModeSolo ExecutionMode = "solo"
	// ModeMulti means one or more configured backends collaborate.
	ModeMulti ExecutionMode = "multi"
)

// Snapshot is the cached result of one environment probe.
type Snapshot struct {
	FallbackConnected bool     `json:"fallback_connected"`
	FallbackMessage   string   `json:"fallback_message"`
	BackendCount      int      `json:"backend_count"`
	Backends          []string `json:"backends,omitempty"`

	// InfoMode and DesignMode are the execution modes for the
	// information-gathering and design phases. The rule produces the same
	// mode for both; they are kept separate because callers consume them
	// independently.
	InfoMode        ExecutionMode `json:"info_mode"`
	DesignMode      ExecutionMode `json:"design_mode"`
	ModeDescription string        `json:"mode_description"`

	// EstimatedCosts is a static table keyed by request type, not a live
	// pricing computation.
	EstimatedCosts map[classify.RequestType]string `json:"estimated_costs"`

	CheckedAt time.Time `json:"checked_at"`
}

// Prober supplies backend availability. Satisfied by llm.Registry.
type Prober interface {
	Available() []string
	FallbackAvailable() bool
}

const (
	// TTL is how long a snapshot stays valid.
	TTL = 5 * time.Minute
	// maxSessions bounds the cache.
	maxSessions = 100
)

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// Resolver caches environment snapshots per session.
type Resolver struct {
	prober Prober
	ttl    time.Duration
	cache  *lru.Cache[string, *Snapshot]
}

// NewResolver creates a Resolver with the standard TTL and session cap.
func NewResolver(prober Prober) *Resolver {
	// Size is a positive constant, so construction cannot fail.
	cache, err := lru.New[string, *Snapshot](maxSessions)
	if err != nil {
		panic(fmt.Sprintf("envcheck: creating cache: %v", err))
	}
	return &Resolver{prober: prober, ttl: TTL, cache: cache}
}

// Resolve returns the session's snapshot, recomputing it on a cache miss or
// after expiry. A fresh hit is returned unchanged — callers comparing
// CheckedAt can rely on it to detect recomputation.
func (r *Resolver) Resolve(sessionID string) *Snapshot {
	if snap, ok := r.cache.Get(sessionID); ok {
		if timeNow().Sub(snap.CheckedAt) < r.ttl {
			return snap
		}
		r.cache.Remove(sessionID)
	}

	snap := r.probe()
	r.cache.Add(sessionID, snap)
	return snap
}

// Invalidate drops the session's cached snapshot, if any.
func (r *Resolver) Invalidate(sessionID string) {
	r.cache.Remove(sessionID)
}

// Clear drops every cached snapshot.
func (r *Resolver) Clear() {
	r.cache.Purge()
}

// probe performs the actual environment check.
func (r *Resolver) probe() *Snapshot {
	backends := r.prober.Available()
	fallback := r.prober.FallbackAvailable()

	snap := &Snapshot{
		FallbackConnected: fallback,
		BackendCount:      len(backends),
		Backends:          backends,
		EstimatedCosts:    estimatedCosts(),
		CheckedAt:         timeNow(),
	}

	if fallback {
		snap.FallbackMessage = "fallback path connected — solo mode available"
	} else {
		snap.FallbackMessage = "fallback path unavailable — backend credential required"
	}

	switch {
	case len(backends) == 0 && fallback:
		snap.InfoMode = ModeSolo
		snap.DesignMode = ModeSolo
		snap.ModeDescription = "no backends configured — fallback mode (solo)"
	case len(backends) == 0:
		snap.InfoMode = ModeUnavailable
		snap.DesignMode = ModeUnavailable
		snap.ModeDescription = "no backends and no fallback — execution unavailable"
	default:
		// One or more backends: multi either way. The count only changes
		// the estimated cost, never the mode.
		snap.InfoMode = ModeMulti
		snap.DesignMode = ModeMulti
		snap.ModeDescription = fmt.Sprintf("%d backend(s) configured — multi mode", len(backends))
	}

	return snap
}

// estimatedCosts is the static per-type cost table.
func estimatedCosts() map[classify.RequestType]string {
	return map[classify.RequestType]string{
		classify.Type1: "$0.5-2",
		classify.Type2: "$2-10",
		classify.Type3: "$5-20",
	}
}

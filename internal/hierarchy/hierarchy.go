// Package hierarchy derives a layered topic hierarchy from a request and
// assigns one expert role per active layer.
//
// Layer detection only decides presence: the detected values are placeholders
// that a generation backend enriches later. The package also decides whether
// the request is processed solo or collaboratively.
package hierarchy

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/insight/internal/vocab"
)

// Layer names one level of the topic hierarchy, broadest first.
type Layer string

const (
	LayerDomain    Layer = "Domain"
	LayerSubdomain Layer = "Subdomain"
	LayerCategory  Layer = "Category"
	LayerTask      Layer = "Task"
)

// Structure holds the four optional hierarchy layers. An empty value means
// the layer was not detected in the request.
type Structure struct {
	Domain    string `json:"domain,omitempty"`
	Subdomain string `json:"subdomain,omitempty"`
	Category  string `json:"category,omitempty"`
	Task      string `json:"task,omitempty"`
}

// ActiveLayers returns the ordered subset of layers that are non-empty.
func (s Structure) ActiveLayers() []Layer {
	var layers []Layer
	if s.Domain != "" {
		layers = append(layers, LayerDomain)
	}
	if s.Subdomain != "" {
		layers = append(layers, LayerSubdomain)
	}
	if s.Category != "" {
		layers = append(layers, LayerCategory)
	}
	if s.Task != "" {
		layers = append(layers, LayerTask)
	}
	return layers
}

// Expert is a role assigned to cover one or more hierarchy layers.
type Expert struct {
	Name      string  `json:"name"`
	Layers    []Layer `json:"layers"`
	Expertise string  `json:"expertise"`
	Backend   string  `json:"assigned_backend,omitempty"`
}

// ProcessingMode decides how many experts work a request.
type ProcessingMode string

const (
	ModeSolo          ProcessingMode = "solo"
	ModeCollaborative ProcessingMode = "collaborative"
)

// Assignment is the full output of the assigner.
type Assignment struct {
	Hierarchy Structure      `json:"hierarchy"`
	Experts   []Expert       `json:"experts"`
	Mode      ProcessingMode `json:"processing_mode"`
}

// Assigner detects hierarchy layers and builds the expert roster.
type Assigner struct {
	vocab *vocab.Tables
}

// New creates an Assigner. A nil table falls back to the default vocabulary.
func New(t *vocab.Tables) *Assigner {
	if t == nil {
		t = vocab.Default()
	}
	return &Assigner{vocab: t}
}

// Placeholder values recorded when a layer is detected. A generation backend
// replaces these with real content in a later phase.
const (
	placeholderDomain    = "Detected Domain"
	placeholderSubdomain = "Detected Subdomain"
	placeholderCategory  = "Detected Category"
	placeholderTask      = "Detected Task"
)

// DetectHierarchy flags each layer present when the request contains any of
// that layer's vocabulary tokens.
func (a *Assigner) DetectHierarchy(request string) Structure {
	lowered := strings.ToLower(request)
	hv := a.vocab.Hierarchy

	var s Structure
	if containsAny(lowered, hv.Domain) {
		s.Domain = placeholderDomain
	}
	if containsAny(lowered, hv.Subdomain) {
		s.Subdomain = placeholderSubdomain
	}
	if containsAny(lowered, hv.Category) {
		s.Category = placeholderCategory
	}
	if containsAny(lowered, hv.Task) {
		s.Task = placeholderTask
	}
	return s
}

// AssignExperts creates one expert per active layer, or a single generic
// expert when no layer was detected.
func AssignExperts(s Structure) []Expert {
	active := s.ActiveLayers()
	if len(active) == 0 {
		return []Expert{{
			Name:      "General Expert",
			Layers:    nil,
			Expertise: "General problem solving",
		}}
	}

	var experts []Expert
	for _, layer := range active {
		switch layer {
		case LayerDomain:
			experts = append(experts, Expert{
				Name:      "Domain Expert",
				Layers:    []Layer{LayerDomain},
				Expertise: fmt.Sprintf("Expertise in %s", s.Domain),
			})
		case LayerSubdomain:
			experts = append(experts, Expert{
				Name:      "Subdomain Specialist",
				Layers:    []Layer{LayerSubdomain},
				Expertise: fmt.Sprintf("Specialized in %s", s.Subdomain),
			})
		case LayerCategory:
			experts = append(experts, Expert{
				Name:      "Category Expert",
				Layers:    []Layer{LayerCategory},
				Expertise: fmt.Sprintf("Expert in %s", s.Category),
			})
		case LayerTask:
			experts = append(experts, Expert{
				Name:      "Task Specialist",
				Layers:    []Layer{LayerTask},
				Expertise: fmt.Sprintf("Specialized in %s", s.Task),
			})
		}
	}
	return experts
}

// Mode returns solo for low-complexity or single-expert requests,
// collaborative otherwise.
func Mode(complexityTotal, expertCount int) ProcessingMode {
	if complexityTotal <= 3 || expertCount == 1 {
		return ModeSolo
	}
	return ModeCollaborative
}

// Assign runs the full process: detect layers, build the roster, pick the
// processing mode, and give each expert a backend from the caller's list
// (first entry; empty list leaves the field unset).
func (a *Assigner) Assign(request string, complexityTotal int, backends []string) Assignment {
	structure := a.DetectHierarchy(request)
	experts := AssignExperts(structure)

	if len(backends) > 0 {
		for i := range experts {
			experts[i].Backend = backends[0]
		}
	}

	return Assignment{
		Hierarchy: structure,
		Experts:   experts,
		Mode:      Mode(complexityTotal, len(experts)),
	}
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if tok != "" && strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

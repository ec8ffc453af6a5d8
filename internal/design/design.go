// Package design assembles the design artifact: a titled document of
// templated sections, optionally filled in through a generation backend,
// with references carried over from the research phase.
package design

import (
	"context"
	"fmt"
	"time"

	"github.com/HendryAvila/insight/internal/classify"
	"github.com/HendryAvila/insight/internal/llm"
	"github.com/HendryAvila/insight/internal/research"
)

// QualityLevel selects how thorough the document template is.
type QualityLevel string

const (
	// Lv1Standard covers simple, clear requests with the base template.
	Lv1Standard QualityLevel = "Lv1 Standard"
	// Lv2Critical adds quality, security, and maintainability sections.
	Lv2Critical QualityLevel = "Lv2 Critical"
)

// Section is one titled part of the document.
type Section struct {
	Name    string `json:"section_name"`
	Content string `json:"content"`
}

// Document is the produced design artifact.
type Document struct {
	Title        string            `json:"title"`
	QualityLevel QualityLevel      `json:"quality_level"`
	Sections     []Section         `json:"sections"`
	References   []research.Source `json:"references,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	Revision     int               `json:"revision_count"`
}

// SectionContents returns the content of every section, in order. Feeds the
// backend-selection task profile.
func (d *Document) SectionContents() []string {
	out := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		out[i] = s.Content
	}
	return out
}

var timeNow = time.Now

// DetermineQualityLevel picks the template depth: Type 2 requests and any
// request of complexity 4 or above get the critical template.
func DetermineQualityLevel(requestType classify.RequestType, complexityTotal int) QualityLevel {
	if requestType == classify.Type2 || complexityTotal >= 4 {
		return Lv2Critical
	}
	return Lv1Standard
}

func standardSections() []Section {
	return []Section{
		{"1. Project Overview", "Defines the background, purpose, and scope of the project."},
		{"2. Requirements Analysis", "Organizes user requirements and functional/non-functional requirements."},
		{"3. System Design", "Covers the architecture, data model, and interface design."},
		{"4. Implementation Plan", "Defines the development schedule, resources, and milestones."},
		{"5. Risk Management", "Identifies anticipated risks and the strategies to address them."},
	}
}

func criticalSections() []Section {
	return append(standardSections(),
		Section{"6. Quality Assurance", "Defines the test strategy, quality criteria, and verification methods."},
		Section{"7. Security & Compliance", "Addresses security requirements and legal/regulatory obligations."},
		Section{"8. Maintainability & Scalability", "Considers long-term maintenance planning and room to grow."},
	)
}

// Generator produces design documents. A nil text generator leaves the
// template content in place (solo/fallback mode).
type Generator struct {
	gen llm.Generator
}

// NewGenerator creates a Generator. gen may be nil.
func NewGenerator(gen llm.Generator) *Generator {
	return &Generator{gen: gen}
}

// Generate assembles the document for the request: quality level from type
// and complexity, template sections, per-section content generation when a
// backend participates, references from the research sources.
func (g *Generator) Generate(ctx context.Context, request string, requestType classify.RequestType, complexityTotal int, sources []research.Source) (*Document, error) {
	level := DetermineQualityLevel(requestType, complexityTotal)

	var sections []Section
	if level == Lv2Critical {
		sections = criticalSections()
	} else {
		sections = standardSections()
	}

	if g.gen != nil {
		for i := range sections {
			prompt := fmt.Sprintf("User request: %s\nSection: %s\n\nWrite the detailed content for this section.",
				request, sections[i].Name)
			content, err := g.gen.Generate(ctx, prompt, llm.Options{
				System: "You are drafting one section of a design document. Stay within the section's topic.",
			})
			if err != nil {
				return nil, fmt.Errorf("generating section %q: %w", sections[i].Name, err)
			}
			sections[i].Content = content
		}
	}

	return &Document{
		Title:        "Design Document: " + truncate(request, 50),
		QualityLevel: level,
		Sections:     sections,
		References:   sources,
		CreatedAt:    timeNow(),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

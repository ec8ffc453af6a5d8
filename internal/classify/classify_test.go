package classify

import (
	"reflect"
	"strings"
	"testing"

	"github.com/HendryAvila/insight/internal/vocab"
)

// testVocab is a minimal deterministic vocabulary so tests don't depend on
// the curated default token sets.
func testVocab() *vocab.Tables {
	return &vocab.Tables{
		Clarity: vocab.ClarityVocab{
			Situation:  []string{"situationword"},
			Purpose:    []string{"purposeword"},
			Target:     []string{"targetword"},
			Background: []string{"backgroundword"},
			Scope:      []string{"scopeword"},
		},
		Complexity: vocab.ComplexityVocab{
			CreativityStrong: []string{"creativestrong"},
			CreativityWeak:   []string{"creativeweak"},
			AnalysisStrong:   []string{"analysisstrong"},
			AnalysisWeak:     []string{"analysisweak"},
			Integration:      []string{"integrationword"},
			CriticalStrong:   []string{"criticalstrong"},
			CriticalWeak:     []string{"criticalweak"},
		},
	}
}

// --- ClarityScore invariants ---

func TestClarityTotal_AllCombinations(t *testing.T) {
	// Total must equal the count of true indicators for every combination,
	// and IsClear exactly when total >= 4.
	for mask := 0; mask < 32; mask++ {
		score := ClarityScore{
			SpecificSituation:   mask&1 != 0,
			PurposeStated:       mask&2 != 0,
			TargetSpecified:     mask&4 != 0,
			BackgroundKnowledge: mask&8 != 0,
			ScopeDefined:        mask&16 != 0,
		}

		want := 0
		for i := 0; i < 5; i++ {
			if mask&(1<<i) != 0 {
				want++
			}
		}

		if got := score.Total(); got != want {
			t.Errorf("mask %05b: Total = %d, want %d", mask, got, want)
		}
		if got := score.IsClear(); got != (want >= 4) {
			t.Errorf("mask %05b: IsClear = %v, want %v", mask, got, want >= 4)
		}
	}
}

func TestComplexityTotal(t *testing.T) {
	score := ComplexityScore{Creativity: 2, Analysis: 2, Integration: 1, CriticalDomain: 2}
	if got := score.Total(); got != 7 {
		t.Errorf("Total = %d, want 7", got)
	}
	if !score.IsComplex() {
		t.Error("IsComplex = false for total 7, want true")
	}

	score = ComplexityScore{Creativity: 1, Analysis: 2}
	if got := score.Total(); got != 3 {
		t.Errorf("Total = %d, want 3", got)
	}
	if score.IsComplex() {
		t.Error("IsComplex = true for total 3, want false")
	}
}

// --- Confidence step function ---

func TestConfidence_Steps(t *testing.T) {
	cases := []struct {
		total int
		want  float64
	}{
		{0, 1.0},
		{1, 0.8},
		{2, 0.6},
		{3, 0.6},
		{4, 0.8},
		{5, 1.0},
	}
	for _, tc := range cases {
		if got := Confidence(tc.total); got != tc.want {
			t.Errorf("Confidence(%d) = %v, want %v", tc.total, got, tc.want)
		}
	}
}

// --- ScoreClarity ---

func TestScoreClarity_LengthThresholds(t *testing.T) {
	c := New(testVocab())

	// Short text with no tokens: nothing fires.
	score := c.ScoreClarity("hi")
	if got := score.Total(); got != 0 {
		t.Errorf("Total for %q = %d, want 0", "hi", got)
	}

	// Length > 30 fires the situation indicator even without tokens.
	score = c.ScoreClarity(strings.Repeat("x", 31))
	if !score.SpecificSituation {
		t.Error("SpecificSituation = false for 31-char text, want true")
	}
	if score.BackgroundKnowledge {
		t.Error("BackgroundKnowledge = true for 31-char text, want false")
	}

	// Length > 100 fires background as well.
	score = c.ScoreClarity(strings.Repeat("x", 101))
	if !score.BackgroundKnowledge {
		t.Error("BackgroundKnowledge = false for 101-char text, want true")
	}
}

func TestScoreClarity_TokenMatch(t *testing.T) {
	c := New(testVocab())

	score := c.ScoreClarity("purposeword targetword scopeword")
	if !score.PurposeStated || !score.TargetSpecified || !score.ScopeDefined {
		t.Errorf("indicators not set from tokens: %+v", score)
	}
	if score.BackgroundKnowledge {
		t.Error("BackgroundKnowledge fired without token or length")
	}
}

func TestScoreClarity_CaseInsensitive(t *testing.T) {
	c := New(testVocab())
	score := c.ScoreClarity("PURPOSEWORD")
	if !score.PurposeStated {
		t.Error("token matching should be case-insensitive")
	}
}

// --- ScoreComplexity ---

func TestScoreComplexity_StrongBeatsWeak(t *testing.T) {
	c := New(testVocab())

	score := c.ScoreComplexity("creativestrong creativeweak")
	if score.Creativity != 2 {
		t.Errorf("Creativity = %d, want 2 (strong token present)", score.Creativity)
	}

	score = c.ScoreComplexity("creativeweak")
	if score.Creativity != 1 {
		t.Errorf("Creativity = %d, want 1 (weak token only)", score.Creativity)
	}

	score = c.ScoreComplexity("analysisstrong integrationword criticalweak")
	if score.Analysis != 2 || score.Integration != 1 || score.CriticalDomain != 1 {
		t.Errorf("unexpected score: %+v", score)
	}
}

// --- Classify decision table ---

func TestClassify_AmbiguousDefault(t *testing.T) {
	c := New(testVocab())

	got := c.Classify("hi", false)
	if got.Type != Type3 {
		t.Errorf("Type = %s, want Type 3", got.Type)
	}
	if got.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", got.Confidence)
	}
	if got.Complexity != nil {
		t.Error("Complexity scored for unclear request without reclassify")
	}
}

func TestClassify_UnclearIsType3RegardlessOfComplexity(t *testing.T) {
	c := New(testVocab())

	// Complexity tokens present, but clarity stays below threshold.
	got := c.Classify("creativestrong analysisstrong criticalstrong", false)
	if got.Type != Type3 {
		t.Errorf("Type = %s, want Type 3 for unclear request", got.Type)
	}
}

func TestClassify_ClearAndComplexIsType2(t *testing.T) {
	c := New(testVocab())

	req := "situationword purposeword targetword backgroundword scopeword " +
		"analysisstrong integrationword creativeweak"
	got := c.Classify(req, false)

	if got.Clarity.Total() != 5 {
		t.Fatalf("clarity total = %d, want 5", got.Clarity.Total())
	}
	if got.Complexity == nil {
		t.Fatal("Complexity = nil for clear request")
	}
	if got.Complexity.Total() != 4 {
		t.Errorf("complexity total = %d, want 4", got.Complexity.Total())
	}
	if got.Type != Type2 {
		t.Errorf("Type = %s, want Type 2", got.Type)
	}
	if got.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", got.Confidence)
	}
}

func TestClassify_ClearAndSimpleIsType1(t *testing.T) {
	c := New(testVocab())

	req := "situationword purposeword targetword backgroundword scopeword"
	got := c.Classify(req, false)

	if got.Type != Type1 {
		t.Errorf("Type = %s, want Type 1", got.Type)
	}
}

func TestClassify_ReclassifyScoresComplexityWhenUnclear(t *testing.T) {
	c := New(testVocab())

	got := c.Classify("analysisstrong integrationword creativestrong", true)
	if got.Complexity == nil {
		t.Fatal("Complexity = nil in reclassify mode")
	}
	if got.Type != Type2 {
		t.Errorf("Type = %s, want Type 2 (reclassify with complexity %d)", got.Type, got.Complexity.Total())
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := New(testVocab())
	req := "purposeword situationword analysisstrong"

	first := c.Classify(req, false)
	for i := 0; i < 5; i++ {
		got := c.Classify(req, false)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("classification changed between identical calls: %+v vs %+v", got, first)
		}
	}
}

// --- End-to-end scenarios against the default vocabulary ---

func TestClassify_DefaultVocab_ScenarioA(t *testing.T) {
	c := New(vocab.Default())

	got := c.Classify("hi", false)
	if got.Clarity.Total() != 0 {
		t.Errorf("clarity total = %d, want 0", got.Clarity.Total())
	}
	if got.Type != Type3 || got.Confidence != 1.0 {
		t.Errorf("got type %s confidence %v, want Type 3 / 1.0", got.Type, got.Confidence)
	}
}

func TestClassify_DefaultVocab_ScenarioB(t *testing.T) {
	c := New(vocab.Default())

	req := "We need to analyze and integrate our existing customer support system " +
		"because response times are a problem; the scope includes only the ticketing workflow."
	got := c.Classify(req, false)

	if got.Clarity.Total() != 5 {
		t.Fatalf("clarity total = %d, want 5 (%+v)", got.Clarity.Total(), got.Clarity)
	}
	if got.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", got.Confidence)
	}
	if got.Complexity == nil || got.Complexity.Total() < 3 {
		t.Fatalf("complexity = %+v, want total >= 3", got.Complexity)
	}
}

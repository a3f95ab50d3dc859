package detect

import (
	"testing"

	"github.com/ppiankov/contrafact/internal/model"
)

func scoredPair(entity, attribute string, scores model.Scores) model.ScoredPair {
	return model.ScoredPair{
		CandidatePair: model.CandidatePair{
			A: model.Claim{Entity: entity, Attribute: attribute, Value: "alive", TimeContext: "Chapter 1", SourceText: "premise", ChunkIndex: 0, Confidence: 0.8},
			B: model.Claim{Entity: entity, Attribute: attribute, Value: "dead", TimeContext: "Chapter 5", SourceText: "hypothesis", ChunkIndex: 4, Confidence: 0.8},
		},
		Scores: scores,
		Delta:  scores.Delta(),
	}
}

func TestDecide_Policy(t *testing.T) {
	tests := []struct {
		name   string
		scores model.Scores
		want   model.Label
	}{
		{"clear contradiction", model.Scores{Contradiction: 0.92, Entailment: 0.11, Neutral: 0.12}, model.LabelContradiction},
		{"clear entailment", model.Scores{Contradiction: 0.05, Entailment: 0.90, Neutral: 0.10}, model.LabelConsistent},
		{"high contradiction but high entailment too", model.Scores{Contradiction: 0.9, Entailment: 0.85, Neutral: 0.1}, model.LabelConsistent},
		{"exactly at threshold", model.Scores{Contradiction: 0.75, Entailment: 0.25, Neutral: 0.1}, model.LabelContradiction},
		{"just under threshold", model.Scores{Contradiction: 0.74, Entailment: 0.25, Neutral: 0.1}, model.LabelConsistent},
		{"neutral", model.Scores{Contradiction: 0.1, Entailment: 0.1, Neutral: 0.8}, model.LabelConsistent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(scoredPair("Gregor", model.AttrVitalStatus, tt.scores), 0.5); got != tt.want {
				t.Errorf("delta %f: expected %s, got %s", tt.scores.Delta(), tt.want, got)
			}
		})
	}
}

// Raising the threshold can only shrink the set of contradictions.
func TestDecide_ThresholdMonotonic(t *testing.T) {
	pair := scoredPair("Gregor", model.AttrVitalStatus, model.Scores{Contradiction: 0.8, Entailment: 0.2})

	wasContradiction := true
	for _, threshold := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		is := Decide(pair, threshold) == model.LabelContradiction
		if is && !wasContradiction {
			t.Errorf("threshold %f: contradiction reappeared after disappearing", threshold)
		}
		wasContradiction = is
	}
}

func TestVerdictFor_Fields(t *testing.T) {
	pair := scoredPair("Lord Edmund", model.AttrVitalStatus, model.Scores{Contradiction: 0.95, Entailment: 0.14, Neutral: 0.05})
	v := VerdictFor(pair, 0.5)

	if v.Label != model.LabelContradiction {
		t.Errorf("expected CONTRADICTION, got %s", v.Label)
	}
	if v.Entity != "Lord Edmund" || v.Attribute != model.AttrVitalStatus {
		t.Errorf("entity/attribute lost: %+v", v)
	}
	if v.Values != [2]string{"alive", "dead"} {
		t.Errorf("values lost: %v", v.Values)
	}
	if v.Locations != [2]string{"Chapter 1", "Chapter 5"} {
		t.Errorf("locations lost: %v", v.Locations)
	}
	if v.SourceTexts != [2]string{"premise", "hypothesis"} {
		t.Errorf("source texts lost: %v", v.SourceTexts)
	}
	if v.Delta != pair.Delta {
		t.Errorf("delta lost: %f vs %f", v.Delta, pair.Delta)
	}
}

// The documented scenario: opposing vital-status claims score 0.81 and
// are reported; a paraphrase pair scores negative and is not.
func TestDecide_ReferenceScenarios(t *testing.T) {
	edmund := scoredPair("Lord Edmund", model.AttrVitalStatus, model.Scores{Contradiction: 0.95, Entailment: 0.14, Neutral: 0.05})
	if edmund.Delta < 0.80 || edmund.Delta > 0.82 {
		t.Fatalf("unexpected delta: %f", edmund.Delta)
	}
	if Decide(edmund, 0.5) != model.LabelContradiction {
		t.Error("opposing vital-status pair must be a contradiction")
	}

	isabella := scoredPair("Isabella", model.AttrWealthStatus, model.Scores{Contradiction: 0.05, Entailment: 0.90, Neutral: 0.10})
	if isabella.Delta > -0.8 {
		t.Fatalf("unexpected delta: %f", isabella.Delta)
	}
	if Decide(isabella, 0.5) != model.LabelConsistent {
		t.Error("paraphrase pair must be consistent")
	}
}

func TestSortVerdicts(t *testing.T) {
	verdicts := []model.Verdict{
		{Entity: "zora", Delta: 0.6},
		{Entity: "abel", Delta: 0.9},
		{Entity: "mira", Delta: 0.6},
	}
	SortVerdicts(verdicts)

	if verdicts[0].Entity != "abel" {
		t.Errorf("highest delta should sort first, got %v", verdicts)
	}
	if verdicts[1].Entity != "mira" || verdicts[2].Entity != "zora" {
		t.Errorf("equal deltas should tie-break on entity, got %v", verdicts)
	}
}

func TestSummarize(t *testing.T) {
	verdicts := []model.Verdict{
		{Entity: "gregor", Attribute: model.AttrVitalStatus, Delta: 0.6, Label: model.LabelContradiction},
		{Entity: "gregor", Attribute: model.AttrVitalStatus, Delta: 0.9, Label: model.LabelContradiction},
		{Entity: "gregor", Attribute: model.AttrWealthStatus, Delta: 0.7, Label: model.LabelContradiction},
	}

	summary := Summarize(verdicts)
	if len(summary) != 2 {
		t.Fatalf("expected one verdict per (entity, attribute), got %d", len(summary))
	}
	if summary[0].Attribute != model.AttrVitalStatus || summary[0].Delta != 0.9 {
		t.Errorf("expected the strongest vital-status verdict first, got %+v", summary[0])
	}
}

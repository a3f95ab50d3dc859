package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/contrafact/internal/model"
	"github.com/ppiankov/contrafact/internal/nlp"
)

// stubParser returns canned relations.
type stubParser struct {
	relations []nlp.Relation
	err       error
}

func (s *stubParser) Parse(ctx context.Context, text string) ([]nlp.Relation, error) {
	return s.relations, s.err
}

func TestParserExtractor_StateRelations(t *testing.T) {
	parser := &stubParser{relations: []nlp.Relation{
		{Subject: "Lord Edmund", Predicate: "was", Object: "alive", Confidence: 0.9},
		{Subject: "Lord Edmund", Predicate: "died", Object: "", Confidence: 0.9},
		{Subject: "Lady Mira", Predicate: "married", Object: "the duke", Confidence: 0.9},
		{Subject: "Baron Vex", Predicate: "owned", Object: "a gold mine", Confidence: 0.9},
	}}

	e := NewParserExtractor(parser, 0.7)
	claims := claimsFor(t, e, "Lord Edmund was alive. Later Lord Edmund died.", 2)

	if len(claims) != 4 {
		t.Fatalf("expected 4 claims, got %d: %v", len(claims), claims)
	}

	if c, ok := findClaim(claims, "Lord Edmund", model.AttrVitalStatus); !ok || c.Value != "alive" {
		t.Errorf("expected alive claim from copular relation, got %v", claims)
	}
	if c, ok := findClaim(claims, "Lady Mira", model.AttrMaritalStatus); !ok || c.Value != "married" {
		t.Errorf("'married' predicate should map to marital status, got %v", claims)
	}
	if c, ok := findClaim(claims, "Baron Vex", "own"); !ok || c.Value != "a gold mine" {
		t.Errorf("expected lemma attribute for open-ended relations, got %v", claims)
	}

	// Both vital-status relations exist; the second must be "dead".
	dead := 0
	for _, c := range claims {
		if c.Attribute == model.AttrVitalStatus && c.Value == "dead" {
			dead++
		}
	}
	if dead != 1 {
		t.Errorf("'died' should produce exactly one dead claim, got %d", dead)
	}
}

func TestParserExtractor_SourceTextIsSentence(t *testing.T) {
	parser := &stubParser{relations: []nlp.Relation{
		{Subject: "Gregor", Predicate: "was", Object: "rich", Confidence: 0.9},
	}}

	e := NewParserExtractor(parser, 0.7)
	claims := claimsFor(t, e, "The rain fell all night. Gregor was rich beyond counting.", 0)

	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %v", claims)
	}
	if claims[0].SourceText != "Gregor was rich beyond counting." {
		t.Errorf("source text should be the containing sentence, got %q", claims[0].SourceText)
	}
}

func TestParserExtractor_SkipsNonStateAndWeak(t *testing.T) {
	parser := &stubParser{relations: []nlp.Relation{
		{Subject: "Gregor", Predicate: "walked", Object: "home", Confidence: 0.9},
		{Subject: "she", Predicate: "was", Object: "old", Confidence: 0.9},
		{Subject: "Gregor", Predicate: "was", Object: "dead", Confidence: 0.5},
		{Subject: "Gregor", Predicate: "was", Object: "", Confidence: 0.9},
	}}

	e := NewParserExtractor(parser, 0.7)
	claims := claimsFor(t, e, "Gregor walked home.", 0)
	if len(claims) != 0 {
		t.Errorf("expected everything skipped, got %v", claims)
	}
}

func TestParserExtractor_PropagatesError(t *testing.T) {
	e := NewParserExtractor(&stubParser{err: errors.New("model offline")}, 0.7)
	if _, err := e.Extract(context.Background(), "Gregor was rich.", 0); err == nil {
		t.Error("expected parser error to surface")
	}
}

func TestParserExtractor_TimeContext(t *testing.T) {
	parser := &stubParser{relations: []nlp.Relation{
		{Subject: "Gregor", Predicate: "was", Object: "alive", Confidence: 0.9},
	}}

	e := NewParserExtractor(parser, 0.7)
	claims := claimsFor(t, e, "Act III began. Gregor was alive.", 1)
	if len(claims) != 1 || claims[0].TimeContext != "Act III" {
		t.Errorf("expected Act III context, got %v", claims)
	}
}

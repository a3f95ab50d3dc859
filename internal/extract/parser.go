package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/contrafact/internal/model"
	"github.com/ppiankov/contrafact/internal/nlp"
)

// Parser is the external analysis capability the full strategy needs.
type Parser = nlp.Parser

// State-changing predicates the full strategy extracts from. Anything
// else is skipped; extraction favors omission over guessing.
var stateVerbs = map[string]string{
	"is": "be", "was": "be", "were": "be", "am": "be", "are": "be", "been": "be",
	"became": "become", "becomes": "become",
	"died": "die", "dies": "die", "dead": "die",
	"killed": "kill", "kills": "kill",
	"married": "marry", "marries": "marry",
	"left": "leave", "leaves": "leave",
	"arrived": "arrive", "arrives": "arrive",
	"owned": "own", "owns": "own",
	"possessed": "possess", "possesses": "possess",
}

// ParserExtractor is the full strategy: it delegates entity recognition
// and dependency parsing to an external parser and maps the resulting
// relations onto the claim schema.
type ParserExtractor struct {
	parser        Parser
	minConfidence float64
	timeContext   string
}

// NewParserExtractor creates the parser-backed strategy.
func NewParserExtractor(parser Parser, minConfidence float64) *ParserExtractor {
	return &ParserExtractor{
		parser:        parser,
		minConfidence: minConfidence,
		timeContext:   model.UnknownContext,
	}
}

// Extract parses the chunk and converts state-verb relations to claims.
func (e *ParserExtractor) Extract(ctx context.Context, text string, chunkIndex int) ([]model.Claim, error) {
	if detected := detectTimeContext(text); detected != "" {
		e.timeContext = detected
	}

	relations, err := e.parser.Parse(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("parse chunk %d: %w", chunkIndex, err)
	}

	var claims []model.Claim
	for _, rel := range relations {
		claim, ok := e.claimFromRelation(rel, text, chunkIndex)
		if ok {
			claims = append(claims, claim)
		}
	}
	return claims, nil
}

// claimFromRelation maps one subject-predicate-object relation onto the
// claim schema. Relations with non-state predicates, implausible
// subjects, or sub-floor confidence yield nothing.
func (e *ParserExtractor) claimFromRelation(rel nlp.Relation, chunkText string, chunkIndex int) (model.Claim, bool) {
	subject := strings.TrimSpace(rel.Subject)
	if !likelyName(subject) {
		return model.Claim{}, false
	}

	lemma, isState := stateVerbs[strings.ToLower(strings.TrimSpace(rel.Predicate))]
	if !isState {
		return model.Claim{}, false
	}

	value := strings.TrimSpace(rel.Object)
	attribute := lemma

	switch lemma {
	case "die", "kill":
		// The verb itself carries the state; the object (if any) is noise.
		attribute, value = model.AttrVitalStatus, "dead"
	case "marry":
		attribute, value = model.AttrMaritalStatus, "married"
	default:
		if value == "" {
			return model.Claim{}, false
		}
		if attr, canonical, ok := canonicalAttribute(value); ok {
			attribute, value = attr, canonical
		} else {
			value = strings.ToLower(value)
		}
	}

	sentence := sentenceContaining(chunkText, subject)
	confidence := adjustConfidence(rel.Confidence, sentence)
	if confidence < e.minConfidence {
		return model.Claim{}, false
	}

	return model.Claim{
		Entity:      subject,
		Attribute:   attribute,
		Value:       value,
		TimeContext: e.timeContext,
		SourceText:  sentence,
		ChunkIndex:  chunkIndex,
		Confidence:  confidence,
	}, true
}

// sentenceContaining finds the chunk sentence that mentions the subject,
// so the claim's source text stays a literal sentence for audit. Falls
// back to the whole chunk when the parser normalized the name away.
func sentenceContaining(chunkText, subject string) string {
	for _, sentence := range sentencesOf(chunkText) {
		if strings.Contains(sentence, subject) {
			return strings.TrimSpace(sentence)
		}
	}
	return strings.TrimSpace(chunkText)
}

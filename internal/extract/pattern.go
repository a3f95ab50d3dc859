package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/ppiankov/contrafact/internal/model"

	"github.com/ppiankov/contrafact/internal/stream"
)

const namePattern = `([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`

// patternBaseConfidence is the starting confidence for regex matches,
// before uncertainty penalties.
const patternBaseConfidence = 0.8

type statePattern struct {
	re            *regexp.Regexp
	attribute     string
	implicitValue string // Set when the verb itself carries the state ("died")
}

// PatternExtractor matches a closed set of attribute polarities with no
// external model. It is the degraded-accuracy mode that must always
// remain usable.
type PatternExtractor struct {
	minConfidence float64
	timeContext   string
	patterns      []statePattern
	generic       *regexp.Regexp
}

// NewPatternExtractor creates the model-free fallback strategy.
func NewPatternExtractor(minConfidence float64) *PatternExtractor {
	return &PatternExtractor{
		minConfidence: minConfidence,
		timeContext:   model.UnknownContext,
		patterns: []statePattern{
			{
				re:        regexp.MustCompile(namePattern + `\s+(?:was|is|were)\s+(alive|dead|living|deceased)\b`),
				attribute: model.AttrVitalStatus,
			},
			{
				re:            regexp.MustCompile(namePattern + `\s+(?:died|perished)\b`),
				attribute:     model.AttrVitalStatus,
				implicitValue: "dead",
			},
			{
				re:        regexp.MustCompile(namePattern + `\s+(?:was|is|were)\s+(wealthy|rich|poor|destitute|penniless)\b`),
				attribute: model.AttrWealthStatus,
			},
			{
				re:        regexp.MustCompile(namePattern + `\s+(?:was|is|were)\s+(young|old|aged|elderly)\b`),
				attribute: model.AttrAgeState,
			},
			{
				re:        regexp.MustCompile(namePattern + `\s+(?:was|is|were)\s+(married|single|unmarried|widowed)\b`),
				attribute: model.AttrMaritalStatus,
			},
		},
		generic: regexp.MustCompile(namePattern + `\s+(?:was|is)\s+(?:a\s+|an\s+|the\s+)?([a-z]+)\b`),
	}
}

// Extract matches the closed pattern set against each sentence of the
// chunk. The context argument is unused; pattern matching never blocks.
func (e *PatternExtractor) Extract(_ context.Context, text string, chunkIndex int) ([]model.Claim, error) {
	var claims []model.Claim

	for _, sentence := range sentencesOf(text) {
		if len(sentence) < 10 {
			continue
		}

		// Location markers update the running context before any claim
		// in the same sentence is recorded.
		if detected := detectTimeContext(sentence); detected != "" {
			e.timeContext = detected
		}

		matched := make(map[string]bool) // Entities claimed by a specific pattern

		for _, p := range e.patterns {
			for _, m := range p.re.FindAllStringSubmatch(sentence, -1) {
				entity := strings.TrimSpace(m[1])
				if !likelyName(entity) {
					continue
				}

				value := p.implicitValue
				if value == "" {
					value = strings.ToLower(strings.TrimSpace(m[2]))
					if _, canonical, ok := canonicalAttribute(value); ok {
						value = canonical
					}
				}

				if claim, ok := e.build(entity, p.attribute, value, sentence, chunkIndex); ok {
					claims = append(claims, claim)
					matched[claim.EntityKey()] = true
				}
			}
		}

		// Generic "entity is/was value" only when no closed pattern
		// already claimed the entity in this sentence.
		for _, m := range e.generic.FindAllStringSubmatch(sentence, -1) {
			entity := strings.TrimSpace(m[1])
			value := strings.ToLower(strings.TrimSpace(m[2]))
			if !likelyName(entity) || matched[strings.ToLower(entity)] {
				continue
			}

			attribute := "state"
			if attr, canonical, ok := canonicalAttribute(value); ok {
				attribute, value = attr, canonical
			}

			if claim, ok := e.build(entity, attribute, value, sentence, chunkIndex); ok {
				claims = append(claims, claim)
			}
		}
	}

	return claims, nil
}

func (e *PatternExtractor) build(entity, attribute, value, sentence string, chunkIndex int) (model.Claim, bool) {
	confidence := adjustConfidence(patternBaseConfidence, sentence)
	if confidence < e.minConfidence {
		return model.Claim{}, false
	}
	return model.Claim{
		Entity:      entity,
		Attribute:   attribute,
		Value:       value,
		TimeContext: e.timeContext,
		SourceText:  strings.TrimSpace(sentence),
		ChunkIndex:  chunkIndex,
		Confidence:  confidence,
	}, true
}

// sentencesOf re-splits a chunk into its sentences. Chunks arrive
// sentence-aligned, so the remainder is only non-empty for a final
// unterminated sentence, which is still worth scanning.
func sentencesOf(text string) []string {
	sentences, remainder := stream.SplitSentences(text)
	if strings.TrimSpace(remainder) != "" {
		sentences = append(sentences, strings.TrimSpace(remainder))
	}
	return sentences
}

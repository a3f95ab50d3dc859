// Package extract converts text chunks into structured claims. Two
// strategies sit behind one contract: a pattern matcher that needs no
// external model, and a parser-backed extractor that delegates entity
// and dependency analysis. Both favor omission over guessing.
package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/contrafact/internal/model"
)

// Extractor is the claim extraction contract. Implementations are
// stateful only for the running time-context; claims themselves carry
// everything downstream stages need. An extractor serves one document
// at a time and is not safe for concurrent use.
type Extractor interface {
	// Extract returns zero or more claims for one chunk. Ambiguous
	// sentences produce no claims and no error.
	Extract(ctx context.Context, text string, chunkIndex int) ([]model.Claim, error)
}

// New selects an extraction strategy by name.
func New(strategy string, minConfidence float64, parser Parser) (Extractor, error) {
	switch strategy {
	case "pattern", "":
		return NewPatternExtractor(minConfidence), nil
	case "parser":
		if parser == nil {
			return nil, fmt.Errorf("parser strategy requires an NLP provider")
		}
		return NewParserExtractor(parser, minConfidence), nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy: %s (supported: pattern, parser)", strategy)
	}
}

// Narrative location markers ("Chapter 5", "Act II", ...).
var temporalKeywords = []string{"chapter", "act", "scene", "part", "book", "section"}

var temporalPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(temporalKeywords))
	for i, kw := range temporalKeywords {
		patterns[i] = regexp.MustCompile(`(?i)\b` + kw + `\s+([IVXivx\d]+)\b`)
	}
	return patterns
}()

// detectTimeContext scans a sentence for a narrative location marker.
// Returns "" when none is present.
func detectTimeContext(text string) string {
	for i, pattern := range temporalPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			kw := temporalKeywords[i]
			return strings.ToUpper(kw[:1]) + kw[1:] + " " + m[1]
		}
	}
	return ""
}

var (
	uncertaintyMarkers = []string{"maybe", "perhaps", "possibly", "might", "could", "seemed"}
	metaphorMarkers    = []string{"like a", "as if", "metaphorically", "figuratively"}
)

// adjustConfidence lowers a base confidence for linguistic signals of
// uncertainty. Claims that drop below the extractor floor are discarded
// before storage, never surfaced.
func adjustConfidence(base float64, sentence string) float64 {
	lower := strings.ToLower(sentence)
	confidence := base

	for _, marker := range uncertaintyMarkers {
		if strings.Contains(lower, marker) {
			confidence -= 0.3
		}
	}
	for _, marker := range metaphorMarkers {
		if strings.Contains(lower, marker) {
			confidence -= 0.4
		}
	}
	if strings.HasSuffix(strings.TrimSpace(sentence), "?") {
		confidence -= 0.5
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// Words that start noun phrases which are not names.
var nonNameStarters = map[string]bool{
	"The": true, "A": true, "An": true, "This": true, "That": true,
	"These": true, "Those": true, "It": true, "He": true, "She": true,
	"They": true, "What": true, "When": true, "Where": true, "There": true,
}

// likelyName reports whether text plausibly names a narrative subject.
func likelyName(text string) bool {
	if text == "" || len(text) > 50 {
		return false
	}
	first, _, _ := strings.Cut(text, " ")
	if first == "" || nonNameStarters[first] {
		return false
	}
	r := rune(first[0])
	return r >= 'A' && r <= 'Z'
}

// canonicalAttribute maps a state word to its coarse attribute dimension
// and canonical value. Unrecognized values return ok=false so the caller
// can fall back to an open-ended attribute.
func canonicalAttribute(value string) (attribute, canonical string, ok bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "alive", "living":
		return model.AttrVitalStatus, "alive", true
	case "dead", "deceased":
		return model.AttrVitalStatus, "dead", true
	case "rich", "wealthy":
		return model.AttrWealthStatus, "rich", true
	case "poor", "destitute", "penniless":
		return model.AttrWealthStatus, "poor", true
	case "young":
		return model.AttrAgeState, "young", true
	case "old", "aged", "elderly":
		return model.AttrAgeState, "old", true
	case "married":
		return model.AttrMaritalStatus, "married", true
	case "single", "unmarried", "widowed":
		return model.AttrMaritalStatus, strings.ToLower(strings.TrimSpace(value)), true
	default:
		return "", "", false
	}
}

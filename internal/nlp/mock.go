package nlp

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/ppiankov/contrafact/internal/model"
)

// MockProvider is a deterministic, model-free backend. It keeps the
// pipeline fully runnable (and testable) without any external service,
// trading accuracy for availability.
type MockProvider struct{}

// NewMockProvider creates the deterministic provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// IsAvailable always succeeds; there is nothing to reach.
func (p *MockProvider) IsAvailable(ctx context.Context) bool {
	return true
}

const mockDims = 64

// Embed produces bag-of-words hash vectors. Texts sharing vocabulary
// land close in cosine space, which is all the semantic filter needs.
func (p *MockProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, mockDims)
		for _, word := range tokenize(text) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(word))
			vec[h.Sum32()%mockDims]++
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Opposing state pairs the mock classifier recognizes.
var opposingValues = [][2]string{
	{"alive", "dead"},
	{"living", "dead"},
	{"rich", "poor"},
	{"wealthy", "poor"},
	{"wealthy", "destitute"},
	{"rich", "destitute"},
	{"married", "single"},
	{"married", "widowed"},
	{"young", "old"},
	{"present", "absent"},
}

// Classify applies rule-based entailment: opposing state words mean
// contradiction, heavily overlapping texts mean entailment, anything
// else is neutral.
func (p *MockProvider) Classify(ctx context.Context, premise, hypothesis string) (model.Scores, error) {
	pTokens := tokenSet(premise)
	hTokens := tokenSet(hypothesis)

	for _, pair := range opposingValues {
		if (pTokens[pair[0]] && hTokens[pair[1]]) || (pTokens[pair[1]] && hTokens[pair[0]]) {
			return model.Scores{Contradiction: 0.95, Entailment: 0.14, Neutral: 0.05}, nil
		}
	}

	if overlap(pTokens, hTokens) >= 0.8 {
		return model.Scores{Contradiction: 0.05, Entailment: 0.9, Neutral: 0.1}, nil
	}

	return model.Scores{Contradiction: 0.1, Entailment: 0.1, Neutral: 0.8}, nil
}

var mockRelationPattern = regexp.MustCompile(
	`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(is|was|were|became|married|owned)\s+([a-zA-Z]+(?:\s+[a-zA-Z]+)?)`)

// Parse extracts simple copular relations by pattern. Enough fidelity
// for exercising the parser-backed extraction path offline.
func (p *MockProvider) Parse(ctx context.Context, text string) ([]Relation, error) {
	var relations []Relation
	for _, m := range mockRelationPattern.FindAllStringSubmatch(text, -1) {
		relations = append(relations, Relation{
			Subject:    m[1],
			Predicate:  m[2],
			Object:     strings.TrimSpace(m[3]),
			Confidence: 0.85,
		})
	}
	return relations, nil
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range tokenize(text) {
		set[strings.Trim(t, ".,;:!?\"'")] = true
	}
	return set
}

func overlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for t := range a {
		if b[t] {
			shared++
		}
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	return float64(shared) / float64(smaller)
}

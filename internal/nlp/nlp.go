// Package nlp defines the narrow capability interfaces the pipeline
// consumes from external language models: text embedding, entailment
// classification, and relation parsing. The core treats all three as
// pure functions; no particular model family is assumed.
package nlp

import (
	"context"

	"github.com/ppiankov/contrafact/internal/model"
)

// Embedder computes fixed-size vectors for claim texts. Implementations
// should accept a batch so the filter can amortize model calls.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Classifier scores a (premise, hypothesis) pair for logical
// relationship. Scores are treated as independently meaningful
// probabilities in [0,1].
type Classifier interface {
	Classify(ctx context.Context, premise, hypothesis string) (model.Scores, error)
}

// Relation is one grammatical subject-predicate-object triple found by
// the parser, with spans resolved to plain strings.
type Relation struct {
	Subject    string  `json:"subject"`
	Predicate  string  `json:"predicate"`
	Object     string  `json:"object"`
	Confidence float64 `json:"confidence"`
}

// Parser performs entity recognition and dependency analysis on a text
// chunk, returning subject-predicate-object relations.
type Parser interface {
	Parse(ctx context.Context, text string) ([]Relation, error)
}

// Provider bundles the three capabilities behind one backend.
type Provider interface {
	Embedder
	Classifier
	Parser

	// Name returns the provider name.
	Name() string

	// IsAvailable checks the backend is configured and reachable.
	// Called once at startup; a false result is fatal for the
	// strategies that need the provider.
	IsAvailable(ctx context.Context) bool
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "ollama", "mock"
	Provider string

	// APIKey for hosted providers.
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama).
	BaseURL string

	// EmbeddingModel and ClassifierModel name the models used for the
	// two capabilities (provider-specific defaults apply when empty).
	EmbeddingModel  string
	ClassifierModel string

	// Timeout per API request, seconds.
	Timeout int

	// RequestsPerSecond and Burst throttle outbound model calls.
	RequestsPerSecond float64
	Burst             int
}

// ConfigFromModel converts the pipeline configuration section.
func ConfigFromModel(c model.NLPConfig) Config {
	return Config{
		Provider:          c.Provider,
		APIKey:            c.APIKey,
		BaseURL:           c.BaseURL,
		EmbeddingModel:    c.EmbeddingModel,
		ClassifierModel:   c.ClassifierModel,
		Timeout:           c.Timeout,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
	}
}

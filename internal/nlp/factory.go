package nlp

import (
	"fmt"
	"strings"
)

// NewProvider creates a model provider based on configuration. An
// unknown or misconfigured provider is a startup failure; the caller
// can still fall back to pattern extraction with the mock provider.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "mock", "":
		return NewMockProvider(), nil

	default:
		return nil, fmt.Errorf("unknown NLP provider: %s (supported: openai, ollama, mock)", config.Provider)
	}
}

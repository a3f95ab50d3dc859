package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/contrafact/internal/model"
)

// OllamaProvider backs the model capabilities with a local Ollama
// instance. No API key required.
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
	throttle   *throttle
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // Local models can be slow
	}

	return &OllamaProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		config:     config,
		throttle:   newThrottle(config.RequestsPerSecond, config.Burst),
	}, nil
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks if Ollama is running.
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ollama availability check failed (connection to %s): %v\n", p.baseURL, err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Embed computes embedding vectors one text at a time; the Ollama
// embeddings endpoint is single-input.
func (p *OllamaProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := p.throttle.wait(ctx); err != nil {
			return nil, err
		}

		embModel := p.config.EmbeddingModel
		if embModel == "" {
			embModel = "nomic-embed-text"
		}

		body, err := p.post(ctx, "/api/embeddings", ollamaEmbedRequest{Model: embModel, Prompt: text})
		if err != nil {
			return nil, fmt.Errorf("ollama embeddings: %w", err)
		}

		var embResp ollamaEmbedResponse
		if err := json.Unmarshal(body, &embResp); err != nil {
			return nil, fmt.Errorf("ollama embeddings: decode response: %w", err)
		}
		if len(embResp.Embedding) == 0 {
			return nil, fmt.Errorf("ollama embeddings: empty vector for text %d", i)
		}
		vectors[i] = embResp.Embedding
	}
	return vectors, nil
}

// Classify scores a premise/hypothesis pair.
func (p *OllamaProvider) Classify(ctx context.Context, premise, hypothesis string) (model.Scores, error) {
	response, err := p.generate(ctx, classifySystemPrompt, buildClassifyPrompt(premise, hypothesis))
	if err != nil {
		return model.Scores{}, err
	}
	return parseScores(response)
}

// Parse extracts subject-predicate-object relations.
func (p *OllamaProvider) Parse(ctx context.Context, text string) ([]Relation, error) {
	response, err := p.generate(ctx, parseSystemPrompt, buildParsePrompt(text))
	if err != nil {
		return nil, err
	}
	return parseRelations(response)
}

func (p *OllamaProvider) generate(ctx context.Context, system, prompt string) (string, error) {
	if err := p.throttle.wait(ctx); err != nil {
		return "", err
	}

	genModel := p.config.ClassifierModel
	if genModel == "" {
		genModel = "llama3.2"
	}

	body, err := p.post(ctx, "/api/generate", ollamaGenerateRequest{
		Model:  genModel,
		Prompt: prompt,
		System: system,
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	var genResp ollamaGenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("ollama generate: decode response: %w", err)
	}
	return genResp.Response, nil
}

func (p *OllamaProvider) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return body, nil
}

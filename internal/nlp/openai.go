package nlp

import (
	"context"
	"fmt"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ppiankov/contrafact/internal/model"
)

// OpenAIProvider backs all three capabilities with the OpenAI API:
// the embeddings endpoint for Stage A vectors, chat completions for
// entailment scoring and relation parsing.
type OpenAIProvider struct {
	client   *openai.Client
	config   Config
	throttle *throttle
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client:   openai.NewClientWithConfig(clientConfig),
		config:   config,
		throttle: newThrottle(config.RequestsPerSecond, config.Burst),
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Embed computes embedding vectors for a batch of texts.
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := p.throttle.wait(ctx); err != nil {
		return nil, err
	}

	embModel := p.config.EmbeddingModel
	if embModel == "" {
		embModel = string(openai.SmallEmbedding3)
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(embModel),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("OpenAI embeddings: got %d vectors for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("OpenAI embeddings: index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// Classify scores a premise/hypothesis pair via chat completion.
func (p *OpenAIProvider) Classify(ctx context.Context, premise, hypothesis string) (model.Scores, error) {
	response, err := p.chat(ctx, classifySystemPrompt, buildClassifyPrompt(premise, hypothesis))
	if err != nil {
		return model.Scores{}, err
	}
	return parseScores(response)
}

// Parse extracts subject-predicate-object relations via chat completion.
func (p *OpenAIProvider) Parse(ctx context.Context, text string) ([]Relation, error) {
	response, err := p.chat(ctx, parseSystemPrompt, buildParsePrompt(text))
	if err != nil {
		return nil, err
	}
	return parseRelations(response)
}

func (p *OpenAIProvider) chat(ctx context.Context, system, user string) (string, error) {
	if err := p.throttle.wait(ctx); err != nil {
		return "", err
	}

	chatModel := p.config.ClassifierModel
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0, // Deterministic scoring
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

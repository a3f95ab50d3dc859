package model

import "time"

// Config carries every tunable the pipeline needs. It is built once by
// the CLI and threaded through component constructors; no component
// reads ambient global state, so tests can construct their own.
type Config struct {
	Stream      StreamConfig      `yaml:"stream" mapstructure:"stream"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Detect      DetectConfig      `yaml:"detect" mapstructure:"detect"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	NLP         NLPConfig         `yaml:"nlp" mapstructure:"nlp"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// StreamConfig controls chunked ingestion.
type StreamConfig struct {
	ChunkSize      int `yaml:"chunk_size" mapstructure:"chunk_size"`           // Bytes per read window
	SentenceBuffer int `yaml:"sentence_buffer" mapstructure:"sentence_buffer"` // Sentences per emitted chunk
}

// ExtractConfig controls claim extraction.
type ExtractConfig struct {
	Strategy      string  `yaml:"strategy" mapstructure:"strategy"` // "pattern" or "parser"
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
}

// DetectConfig controls the two-stage detection pipeline.
type DetectConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	DeltaThreshold      float64 `yaml:"delta_threshold" mapstructure:"delta_threshold"`
	BatchSize           int     `yaml:"batch_size" mapstructure:"batch_size"` // Embedding/classification batch
	IncludeConsistent   bool    `yaml:"include_consistent" mapstructure:"include_consistent"`
}

// StoreConfig controls claim persistence.
type StoreConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	ReuseClaims bool   `yaml:"reuse_claims" mapstructure:"reuse_claims"`
}

// NLPConfig selects and configures the external model provider.
type NLPConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // openai, ollama, mock
	APIKey            string  `yaml:"-" mapstructure:"-"`               // Never persisted
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	EmbeddingModel    string  `yaml:"embedding_model" mapstructure:"embedding_model"`
	ClassifierModel   string  `yaml:"classifier_model" mapstructure:"classifier_model"`
	Timeout           int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig controls the embedding cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}

// HTTPConfig controls document fetching when scanning URLs.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// ConcurrencyConfig controls worker counts.
type ConcurrencyConfig struct {
	ScoreWorkers int `yaml:"score_workers" mapstructure:"score_workers"` // Stage B parallelism
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"` // Documents in flight
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // json, pretty, summary
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Stream: StreamConfig{
			ChunkSize:      4096,
			SentenceBuffer: 5,
		},
		Extract: ExtractConfig{
			Strategy:      "pattern",
			MinConfidence: 0.7,
		},
		Detect: DetectConfig{
			SimilarityThreshold: 0.6,
			DeltaThreshold:      0.5,
			BatchSize:           16,
		},
		Store: StoreConfig{
			Dir: "data/claims",
		},
		NLP: NLPConfig{
			Provider:          "mock",
			Timeout:           30,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".contrafact-cache",
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Contrafact/0.1 (+https://github.com/ppiankov/contrafact)",
			MaxBodyBytes: 10_000_000,
		},
		Concurrency: ConcurrencyConfig{
			ScoreWorkers: 1,
			BatchWorkers: 4,
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

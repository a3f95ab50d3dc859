package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/contrafact/internal/model"
	"github.com/ppiankov/contrafact/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	deltaThreshold      float64
	similarityThreshold float64
	chunkSize           int
	sentenceBuffer      int
	batchSize           int
	minConfidence       float64
	strategy            string
	provider            string
	embeddingModel      string
	classifierModel     string
	claimsDir           string
	reuseClaims         bool
	includeConsistent   bool
	outputFormat        string
	noCache             bool
	timeout             time.Duration
	userAgent           string
	maxBytes            int64
	scoreWorkers        int
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <file-or-url>",
	Short: "Scan a document for internal contradictions",
	Long: `Scan reads a document in sentence-aligned chunks, extracts factual
claims about named entities, and reports claim pairs that contradict
each other.

Claims are persisted per document content, so a rescan with
--reuse-claims skips extraction and goes straight to detection.

Example:
  contrafact scan novel.txt
  contrafact scan novel.txt --output pretty --delta-threshold 0.6
  contrafact scan https://example.com/story.html --provider openai
  contrafact scan novel.txt --reuse-claims --include-consistent`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Detection flags
	scanCmd.Flags().Float64Var(&deltaThreshold, "delta-threshold", 0.5, "minimum contradiction-entailment margin to report")
	scanCmd.Flags().Float64Var(&similarityThreshold, "similarity-threshold", 0.6, "minimum cosine similarity for a pair to be judged")
	scanCmd.Flags().IntVar(&batchSize, "batch-size", 16, "embedding batch size")
	scanCmd.Flags().BoolVar(&includeConsistent, "include-consistent", false, "include consistent pairs in the report")

	// Extraction flags
	scanCmd.Flags().StringVar(&strategy, "extractor", "pattern", "extraction strategy (pattern, parser)")
	scanCmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.7, "minimum claim confidence to keep")
	scanCmd.Flags().IntVar(&chunkSize, "chunk-size", 4096, "read window size in bytes")
	scanCmd.Flags().IntVar(&sentenceBuffer, "sentence-buffer", 5, "sentences per emitted chunk")

	// Store flags
	scanCmd.Flags().StringVar(&claimsDir, "claims-dir", "data/claims", "directory for persisted claims")
	scanCmd.Flags().BoolVar(&reuseClaims, "reuse-claims", false, "reuse persisted claims when available")

	// Provider flags
	scanCmd.Flags().StringVar(&provider, "provider", "mock", "NLP provider (openai, ollama, mock)")
	scanCmd.Flags().StringVar(&embeddingModel, "embedding-model", "", "embedding model name (provider default if empty)")
	scanCmd.Flags().StringVar(&classifierModel, "classifier-model", "", "classifier model name (provider default if empty)")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	scanCmd.Flags().IntVar(&scoreWorkers, "score-workers", 1, "concurrent pair-scoring workers")

	// HTTP flags
	scanCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall scan timeout")
	scanCmd.Flags().StringVar(&userAgent, "ua", "Contrafact/0.1 (+https://github.com/ppiankov/contrafact)", "HTTP User-Agent")
	scanCmd.Flags().Int64Var(&maxBytes, "max-bytes", 10_000_000, "max response bytes to read when scanning URLs")

	// Output flags
	scanCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format (json, pretty, summary)")
}

// configFromFlags assembles the pipeline configuration shared by scan
// and batch.
func configFromFlags() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Stream.ChunkSize = chunkSize
	cfg.Stream.SentenceBuffer = sentenceBuffer
	cfg.Extract.Strategy = strategy
	cfg.Extract.MinConfidence = minConfidence
	cfg.Detect.SimilarityThreshold = similarityThreshold
	cfg.Detect.DeltaThreshold = deltaThreshold
	cfg.Detect.BatchSize = batchSize
	cfg.Detect.IncludeConsistent = includeConsistent
	cfg.Store.Dir = claimsDir
	cfg.Store.ReuseClaims = reuseClaims
	cfg.Cache.Enabled = !noCache
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.Concurrency.ScoreWorkers = scoreWorkers
	cfg.Output.Format = outputFormat
	cfg.Output.Verbose = verbose

	cfg.NLP.Provider = provider
	cfg.NLP.EmbeddingModel = embeddingModel
	cfg.NLP.ClassifierModel = classifierModel

	// Get credentials from environment
	switch provider {
	case "openai":
		cfg.NLP.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.NLP.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.NLP.BaseURL = baseURL
		}
	}

	return cfg, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	document := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := configFromFlags()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", document)
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.NLP.Provider)
		fmt.Fprintf(os.Stderr, "Thresholds: similarity %.2f, delta %.2f\n",
			cfg.Detect.SimilarityThreshold, cfg.Detect.DeltaThreshold)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	report, err := p.Scan(ctx, document)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Processed %d chunks\n", report.Stats.Chunks)
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims across %d entities\n",
			report.Stats.Claims, report.Stats.Entities)
		fmt.Fprintf(os.Stderr, "✓ Judged %d candidate pairs\n", report.Stats.ScoredPairs)
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(verbose)
	return renderer.Render(report, cfg.Output.Format, os.Stdout)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ppiankov/contrafact/internal/pipeline"
	"github.com/ppiankov/contrafact/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Scan multiple documents from a list file in parallel",
	Long: `Batch scans multiple documents concurrently:
- Read document paths or URLs from the input file (one per line)
- Scan documents in parallel with a configurable worker count
- Write one JSON report per document

Example:
  contrafact batch documents.txt
  contrafact batch documents.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./contrafact-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 30*time.Minute, "total timeout for batch processing")

	// Shared with scan
	batchCmd.Flags().Float64Var(&deltaThreshold, "delta-threshold", 0.5, "minimum contradiction-entailment margin to report")
	batchCmd.Flags().Float64Var(&similarityThreshold, "similarity-threshold", 0.6, "minimum cosine similarity for a pair to be judged")
	batchCmd.Flags().IntVar(&batchSize, "batch-size", 16, "embedding batch size")
	batchCmd.Flags().BoolVar(&includeConsistent, "include-consistent", false, "include consistent pairs in reports")
	batchCmd.Flags().StringVar(&strategy, "extractor", "pattern", "extraction strategy (pattern, parser)")
	batchCmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.7, "minimum claim confidence to keep")
	batchCmd.Flags().IntVar(&chunkSize, "chunk-size", 4096, "read window size in bytes")
	batchCmd.Flags().IntVar(&sentenceBuffer, "sentence-buffer", 5, "sentences per emitted chunk")
	batchCmd.Flags().StringVar(&claimsDir, "claims-dir", "data/claims", "directory for persisted claims")
	batchCmd.Flags().BoolVar(&reuseClaims, "reuse-claims", false, "reuse persisted claims when available")
	batchCmd.Flags().StringVar(&provider, "provider", "mock", "NLP provider (openai, ollama, mock)")
	batchCmd.Flags().StringVar(&embeddingModel, "embedding-model", "", "embedding model name (provider default if empty)")
	batchCmd.Flags().StringVar(&classifierModel, "classifier-model", "", "classifier model name (provider default if empty)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	batchCmd.Flags().IntVar(&scoreWorkers, "score-workers", 1, "concurrent pair-scoring workers")
	batchCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "timeout for individual scans")
	batchCmd.Flags().StringVar(&userAgent, "ua", "Contrafact/0.1 (+https://github.com/ppiankov/contrafact)", "HTTP User-Agent")
	batchCmd.Flags().Int64Var(&maxBytes, "max-bytes", 10_000_000, "max response bytes to read when scanning URLs")
	batchCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "per-document stderr format (summary) plus JSON files")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := configFromFlags()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = concurrency

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Contrafact Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create pipeline
	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	// Create batch processor; --timeout bounds each document scan
	processor := worker.NewBatchProcessor(p, concurrency).WithScanTimeout(timeout)

	fmt.Fprintf(os.Stderr, "⚙️  Reading documents from file...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")

	renderer := pipeline.NewRenderer(verbose)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Document, result.Error)
			continue
		}

		successCount++

		slug := sanitizeFilename(result.Document)
		jsonPath := filepath.Join(outputDir, slug+".json")
		if err := renderer.WriteJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Document, err)
			continue
		}

		if result.Report.Stats.Contradictions == 0 {
			fmt.Fprintf(os.Stderr, "✓ %s: consistent\n", result.Document)
		} else {
			fmt.Fprintf(os.Stderr, "✗ %s: %d contradiction(s)\n",
				result.Document, result.Report.Stats.Contradictions)
		}
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename sanitizes a document path or URL for use as a
// report filename.
func sanitizeFilename(s string) string {
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimSuffix(s, filepath.Ext(s))

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "report"
	}
	return s
}

package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/contrafact/internal/model"
)

// Scanner scans one document (path or URL) into a report.
type Scanner interface {
	Scan(ctx context.Context, document string) (*model.Report, error)
}

// DocumentJob scans a single document. A non-zero Timeout bounds this
// scan alone; the batch deadline still applies through ctx.
type DocumentJob struct {
	Document string
	Scanner  Scanner
	Timeout  time.Duration
}

// Execute runs the scan.
func (j *DocumentJob) Execute(ctx context.Context) Result {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}
	report, err := j.Scanner.Scan(ctx, j.Document)
	return &DocumentResult{Document: j.Document, Report: report, Error: err}
}

// DocumentResult is the outcome of one document scan.
type DocumentResult struct {
	Document string
	Report   *model.Report
	Error    error
}

// GetError returns the scan error, if any.
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor scans multiple documents concurrently. Each document
// is an independent pipeline invocation; nothing is shared across them.
type BatchProcessor struct {
	scanner     Scanner
	concurrency int
	scanTimeout time.Duration
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(scanner Scanner, concurrency int) *BatchProcessor {
	return &BatchProcessor{scanner: scanner, concurrency: concurrency}
}

// WithScanTimeout bounds each individual document scan. A slow document
// then fails alone instead of eating the whole batch deadline.
func (b *BatchProcessor) WithScanTimeout(d time.Duration) *BatchProcessor {
	b.scanTimeout = d
	return b
}

// ProcessDocuments scans the given documents in parallel.
func (b *BatchProcessor) ProcessDocuments(ctx context.Context, documents []string) []*DocumentResult {
	if len(documents) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, doc := range documents {
		pool.Submit(&DocumentJob{Document: doc, Scanner: b.scanner, Timeout: b.scanTimeout})
	}

	results := pool.Wait()

	out := make([]*DocumentResult, len(results))
	for i, result := range results {
		out[i] = result.(*DocumentResult)
	}
	return out
}

// ProcessFile reads document paths from a list file and scans them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*DocumentResult, error) {
	documents, err := ReadDocumentList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read document list: %w", err)
	}
	return b.ProcessDocuments(ctx, documents), nil
}

// ReadDocumentList reads documents from a file, one per line, skipping
// blanks, comments, and duplicates.
func ReadDocumentList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open list file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var documents []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			documents = append(documents, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan list file: %w", err)
	}
	return documents, nil
}

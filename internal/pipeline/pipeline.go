// Package pipeline wires the full scan: chunked ingestion, claim
// extraction, persistence, and the two-stage contradiction detector.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/contrafact/internal/detect"
	"github.com/ppiankov/contrafact/internal/embedcache"
	"github.com/ppiankov/contrafact/internal/extract"
	"github.com/ppiankov/contrafact/internal/model"
	"github.com/ppiankov/contrafact/internal/nlp"
	"github.com/ppiankov/contrafact/internal/store"
	"github.com/ppiankov/contrafact/internal/stream"
)

// Pipeline orchestrates one document scan end to end. Construction is
// where model availability is checked: a missing provider is fatal at
// startup, not halfway through a document.
type Pipeline struct {
	cfg      *model.Config
	provider nlp.Provider
	detector *detect.Detector
	fetcher  *Fetcher
	logger   *zap.Logger
}

// NewPipeline builds a pipeline from configuration.
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := nlp.NewProvider(nlp.ConfigFromModel(cfg.NLP))
	if err != nil {
		return nil, fmt.Errorf("nlp provider: %w", err)
	}

	availCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if !provider.IsAvailable(availCtx) {
		return nil, fmt.Errorf("nlp provider %q is not available", provider.Name())
	}

	// Extractors carry a running time-context, so each scan gets its
	// own (see extractAll). Validate the strategy once up front.
	if _, err := extract.New(cfg.Extract.Strategy, cfg.Extract.MinConfidence, provider); err != nil {
		return nil, fmt.Errorf("extractor: %w", err)
	}

	var cache embedcache.Cache
	if cfg.Cache.Enabled {
		cache = embedcache.NewLayered(cfg.Cache.Dir)
	}

	cacheTag := provider.Name() + "/" + cfg.NLP.EmbeddingModel
	filter := detect.NewFilter(provider, cache, cacheTag,
		cfg.Detect.SimilarityThreshold, cfg.Detect.BatchSize, logger)
	judge := detect.NewJudge(provider, cfg.Concurrency.ScoreWorkers)
	detector := detect.NewDetector(filter, judge, cfg.Detect.DeltaThreshold, logger)

	return &Pipeline{
		cfg:      cfg,
		provider: provider,
		detector: detector,
		fetcher:  NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes),
		logger:   logger,
	}, nil
}

// Scan processes one document, given as a local path or an http(s) URL.
func (p *Pipeline) Scan(ctx context.Context, document string) (*model.Report, error) {
	if strings.HasPrefix(document, "http://") || strings.HasPrefix(document, "https://") {
		return p.ScanURL(ctx, document)
	}
	return p.ScanFile(ctx, document)
}

// ScanFile processes a local document.
func (p *Pipeline) ScanFile(ctx context.Context, path string) (*model.Report, error) {
	storePath, err := store.PathFor(p.cfg.Store.Dir, path)
	if err != nil {
		return nil, fmt.Errorf("claims store key: %w", err)
	}

	claims, chunks, reused, err := p.claimsFor(ctx, storePath, func() (*stream.Reader, error) {
		return stream.NewReader(path, p.cfg.Stream.ChunkSize, p.cfg.Stream.SentenceBuffer)
	})
	if err != nil {
		return nil, err
	}

	return p.finish(ctx, path, claims, chunks, reused)
}

// ScanURL fetches a remote document, extracts its visible text when it
// is HTML, and runs the same pipeline. The claims store is keyed by the
// fetched content, so a changed page never silently reuses old claims.
func (p *Pipeline) ScanURL(ctx context.Context, rawURL string) (*model.Report, error) {
	body, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}

	text := string(body)
	if looksLikeHTML(body) {
		text, err = stream.VisibleText(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("extract text: %w", err)
		}
	}

	storePath := store.PathForContent(p.cfg.Store.Dir, body)
	claims, chunks, reused, err := p.claimsFor(ctx, storePath, func() (*stream.Reader, error) {
		return stream.NewReaderFrom(strings.NewReader(text),
			p.cfg.Stream.ChunkSize, p.cfg.Stream.SentenceBuffer), nil
	})
	if err != nil {
		return nil, err
	}

	return p.finish(ctx, rawURL, claims, chunks, reused)
}

// claimsFor loads the persisted store when reuse is enabled, otherwise
// extracts fresh claims and persists them. A missing store file falls
// back to extraction; a corrupt one is surfaced, never papered over.
func (p *Pipeline) claimsFor(ctx context.Context, storePath string, open func() (*stream.Reader, error)) (*store.Store, int, bool, error) {
	if p.cfg.Store.ReuseClaims {
		claims, err := store.Load(storePath)
		switch {
		case err == nil:
			p.logger.Info("reusing persisted claims",
				zap.String("path", storePath), zap.Int("claims", claims.Len()))
			return claims, 0, true, nil
		case errors.Is(err, fs.ErrNotExist):
			p.logger.Debug("no persisted claims, extracting", zap.String("path", storePath))
		default:
			return nil, 0, false, fmt.Errorf("load claims: %w", err)
		}
	}

	reader, err := open()
	if err != nil {
		return nil, 0, false, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = reader.Close() }()

	claims, chunks, err := p.extractAll(ctx, reader)
	if err != nil {
		return nil, 0, false, err
	}

	if err := claims.Save(storePath); err != nil {
		return nil, 0, false, fmt.Errorf("persist claims: %w", err)
	}
	return claims, chunks, false, nil
}

// extractAll streams sentence-aligned chunks through the extractor and
// appends every claim to a fresh store. The extractor is built per
// document: its running time-context must not leak into the next
// document, or race when batch mode scans documents concurrently.
func (p *Pipeline) extractAll(ctx context.Context, reader *stream.Reader) (*store.Store, int, error) {
	extractor, err := extract.New(p.cfg.Extract.Strategy, p.cfg.Extract.MinConfidence, p.provider)
	if err != nil {
		return nil, 0, fmt.Errorf("extractor: %w", err)
	}

	claims := store.New()
	estimated := reader.EstimatedChunks()

	chunkIndex := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, fmt.Errorf("extraction interrupted: %w", err)
		}

		chunk, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read chunk %d: %w", chunkIndex, err)
		}

		extracted, err := extractor.Extract(ctx, chunk, chunkIndex)
		if err != nil {
			return nil, 0, fmt.Errorf("extract chunk %d: %w", chunkIndex, err)
		}
		for _, claim := range extracted {
			claims.Add(claim)
		}

		p.logger.Debug("processed chunk",
			zap.Int("chunk", chunkIndex),
			zap.Int("estimated_total", estimated),
			zap.Int("claims", len(extracted)))
		chunkIndex++
	}

	p.logger.Info("extraction complete",
		zap.Int("chunks", chunkIndex), zap.Int("claims", claims.Len()))
	return claims, chunkIndex, nil
}

// finish runs detection and assembles the report.
func (p *Pipeline) finish(ctx context.Context, document string, claims *store.Store, chunks int, reused bool) (*model.Report, error) {
	verdicts, stats, err := p.detector.Detect(ctx, claims)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	report := model.NewReport(document)
	report.Stats = model.Stats{
		Chunks:         chunks,
		Claims:         claims.Len(),
		Entities:       len(claims.Entities()),
		CandidatePairs: stats.CandidatePairs,
		ScoredPairs:    stats.ScoredPairs,
		Contradictions: stats.Contradictions,
		ReusedClaims:   reused,
	}
	report.Thresholds = model.Thresholds{
		Similarity: p.cfg.Detect.SimilarityThreshold,
		Delta:      p.cfg.Detect.DeltaThreshold,
	}

	if p.cfg.Detect.IncludeConsistent {
		report.Verdicts = verdicts
	} else {
		// Consistent pairs stay computed and logged, never surfaced.
		for _, v := range verdicts {
			if v.Label == model.LabelContradiction {
				report.Verdicts = append(report.Verdicts, v)
			}
		}
	}

	return report, nil
}

func looksLikeHTML(body []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(body))
	if len(head) > 256 {
		head = head[:256]
	}
	return bytes.Contains(head, []byte("<html")) || bytes.Contains(head, []byte("<!doctype html"))
}

// Package detect implements the two-stage contradiction pipeline:
// a semantic candidate filter over same-entity claim pairs, a logical
// entailment judge over the survivors, and the binary decision policy.
package detect

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/ppiankov/contrafact/internal/embedcache"
	"github.com/ppiankov/contrafact/internal/model"
	"github.com/ppiankov/contrafact/internal/nlp"
)

// Filter is Stage A: it prunes the O(n²) pair space per entity down to
// topically related pairs. It bounds cost only; it never decides
// contradiction itself.
type Filter struct {
	embedder  nlp.Embedder
	cache     embedcache.Cache // nil disables caching
	cacheTag  string           // embedding model name, part of the cache key
	threshold float64
	batchSize int
	logger    *zap.Logger
}

// NewFilter creates the semantic filter.
func NewFilter(embedder nlp.Embedder, cache embedcache.Cache, cacheTag string, threshold float64, batchSize int, logger *zap.Logger) *Filter {
	if batchSize <= 0 {
		batchSize = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{
		embedder:  embedder,
		cache:     cache,
		cacheTag:  cacheTag,
		threshold: threshold,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Pairs proposes candidate pairs for one entity group. A group with
// fewer than two claims yields nothing. Claims sharing a chunk index
// are never paired (a claim is never paired with itself).
func (f *Filter) Pairs(ctx context.Context, claims []model.Claim) ([]model.CandidatePair, error) {
	if len(claims) < 2 {
		return nil, nil
	}

	ordered := make([]model.Claim, len(claims))
	copy(ordered, claims)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ChunkIndex < ordered[j].ChunkIndex
	})

	vectors, err := f.embed(ctx, ordered)
	if err != nil {
		return nil, fmt.Errorf("semantic filter: %w", err)
	}

	var pairs []model.CandidatePair
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[i].ChunkIndex == ordered[j].ChunkIndex {
				continue
			}
			similarity := cosine(vectors[i], vectors[j])
			if similarity >= f.threshold {
				pairs = append(pairs, model.CandidatePair{
					A:          ordered[i],
					B:          ordered[j],
					Similarity: similarity,
				})
			}
		}
	}

	f.logger.Debug("semantic filter",
		zap.String("entity", ordered[0].EntityKey()),
		zap.Int("claims", len(ordered)),
		zap.Int("candidate_pairs", len(pairs)))

	return pairs, nil
}

// embed returns one vector per claim, computed once each: cache hits
// first, then the misses in batches.
func (f *Filter) embed(ctx context.Context, claims []model.Claim) ([][]float32, error) {
	vectors := make([][]float32, len(claims))

	var missing []int
	for i, claim := range claims {
		if f.cache != nil {
			if vec, found := f.cache.Get(embedcache.Key(f.cacheTag, claim.SourceText)); found {
				vectors[i] = vec
				continue
			}
		}
		missing = append(missing, i)
	}

	for start := 0; start < len(missing); start += f.batchSize {
		end := start + f.batchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]

		texts := make([]string, len(batch))
		for k, idx := range batch {
			texts[k] = claims[idx].SourceText
		}

		computed, err := f.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(computed) != len(batch) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(computed), len(batch))
		}

		for k, idx := range batch {
			vectors[idx] = computed[k]
			if f.cache != nil {
				f.cache.Set(embedcache.Key(f.cacheTag, claims[idx].SourceText), computed[k])
			}
		}
	}

	return vectors, nil
}

// cosine computes cosine similarity; zero vectors compare as 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

package detect

import (
	"context"

	"go.uber.org/zap"

	"github.com/ppiankov/contrafact/internal/model"
	"github.com/ppiankov/contrafact/internal/store"
)

// Detector runs the two-stage pipeline over every entity group in a
// claims store and applies the decision policy.
type Detector struct {
	filter    *Filter
	judge     *Judge
	threshold float64
	logger    *zap.Logger
}

// Stats counts pipeline volume for reporting.
type Stats struct {
	CandidatePairs int
	ScoredPairs    int
	Contradictions int
}

// NewDetector wires the filter and judge under one decision threshold.
func NewDetector(filter *Filter, judge *Judge, threshold float64, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		filter:    filter,
		judge:     judge,
		threshold: threshold,
		logger:    logger,
	}
}

// Detect produces verdicts for every judged pair, both labels included;
// the caller decides which labels to surface. Entity groups are
// processed in sorted order so reruns are deterministic.
func (d *Detector) Detect(ctx context.Context, claims *store.Store) ([]model.Verdict, Stats, error) {
	var verdicts []model.Verdict
	var stats Stats

	for _, entity := range claims.Entities() {
		group := claims.ByEntity(entity)
		if len(group) < 2 {
			continue
		}

		pairs, err := d.filter.Pairs(ctx, group)
		if err != nil {
			return nil, Stats{}, err
		}
		stats.CandidatePairs += len(pairs)
		if len(pairs) == 0 {
			continue
		}

		scored, err := d.judge.Score(ctx, pairs)
		if err != nil {
			return nil, Stats{}, err
		}
		stats.ScoredPairs += len(scored)

		for _, sp := range scored {
			verdict := VerdictFor(sp, d.threshold)
			if verdict.Label == model.LabelContradiction {
				stats.Contradictions++
				d.logger.Debug("contradiction",
					zap.String("entity", verdict.Entity),
					zap.String("attribute", verdict.Attribute),
					zap.Float64("delta", verdict.Delta))
			}
			verdicts = append(verdicts, verdict)
		}
	}

	SortVerdicts(verdicts)
	return verdicts, stats, nil
}

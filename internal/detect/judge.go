package detect

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppiankov/contrafact/internal/model"
	"github.com/ppiankov/contrafact/internal/nlp"
	"github.com/ppiankov/contrafact/internal/worker"
)

// Judge is Stage B: the sole source of the decision signal. The claim
// with the earlier chunk index is always the premise, the later one the
// hypothesis, so reruns are reproducible.
type Judge struct {
	classifier nlp.Classifier
	workers    int
}

// NewJudge creates the logic judge. workers <= 1 scores sequentially;
// pairs are independent, so higher counts fan out over a pool.
func NewJudge(classifier nlp.Classifier, workers int) *Judge {
	if workers <= 0 {
		workers = 1
	}
	return &Judge{classifier: classifier, workers: workers}
}

// Score judges every candidate pair. Any classifier failure aborts the
// document; partial verdicts are never returned as complete.
func (j *Judge) Score(ctx context.Context, pairs []model.CandidatePair) ([]model.ScoredPair, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	var scored []model.ScoredPair
	var err error
	if j.workers <= 1 {
		scored, err = j.scoreSequential(ctx, pairs)
	} else {
		scored, err = j.scoreParallel(ctx, pairs)
	}
	if err != nil {
		return nil, err
	}

	// Pool results arrive unordered; restore deterministic order.
	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].A.ChunkIndex != scored[b].A.ChunkIndex {
			return scored[a].A.ChunkIndex < scored[b].A.ChunkIndex
		}
		return scored[a].B.ChunkIndex < scored[b].B.ChunkIndex
	})
	return scored, nil
}

func (j *Judge) scoreSequential(ctx context.Context, pairs []model.CandidatePair) ([]model.ScoredPair, error) {
	scored := make([]model.ScoredPair, 0, len(pairs))
	for _, pair := range pairs {
		sp, err := j.scoreOne(ctx, pair)
		if err != nil {
			return nil, err
		}
		scored = append(scored, sp)
	}
	return scored, nil
}

func (j *Judge) scoreParallel(ctx context.Context, pairs []model.CandidatePair) ([]model.ScoredPair, error) {
	pool := worker.NewPool(j.workers)
	pool.Start()

	for _, pair := range pairs {
		pool.Submit(&scoreJob{judge: j, pair: pair})
	}

	results := pool.Wait()

	scored := make([]model.ScoredPair, 0, len(results))
	for _, result := range results {
		r := result.(*scoreResult)
		if r.err != nil {
			return nil, r.err
		}
		scored = append(scored, r.pair)
	}
	return scored, nil
}

// scoreOne frames the pair as premise/hypothesis and computes the delta.
func (j *Judge) scoreOne(ctx context.Context, pair model.CandidatePair) (model.ScoredPair, error) {
	scores, err := j.classifier.Classify(ctx, pair.A.SourceText, pair.B.SourceText)
	if err != nil {
		return model.ScoredPair{}, fmt.Errorf("logic judge: %w", err)
	}
	return model.ScoredPair{
		CandidatePair: pair,
		Scores:        scores,
		Delta:         scores.Delta(),
	}, nil
}

// scoreJob adapts one pair judgment to the worker pool contract.
type scoreJob struct {
	judge *Judge
	pair  model.CandidatePair
}

func (sj *scoreJob) Execute(ctx context.Context) worker.Result {
	sp, err := sj.judge.scoreOne(ctx, sj.pair)
	return &scoreResult{pair: sp, err: err}
}

type scoreResult struct {
	pair model.ScoredPair
	err  error
}

func (r *scoreResult) GetError() error {
	return r.err
}

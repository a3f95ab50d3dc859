package detect

import (
	"sort"

	"github.com/ppiankov/contrafact/internal/model"
)

// Decide applies the threshold policy to one scored pair. The
// comparison is inclusive: delta exactly at the threshold is a
// contradiction. Strictly binary, no hedging labels.
func Decide(pair model.ScoredPair, threshold float64) model.Label {
	if pair.Delta >= threshold {
		return model.LabelContradiction
	}
	return model.LabelConsistent
}

// VerdictFor builds the full verdict record for a scored pair.
func VerdictFor(pair model.ScoredPair, threshold float64) model.Verdict {
	return model.Verdict{
		Entity:           pair.A.Entity,
		Attribute:        pair.A.Attribute,
		Values:           [2]string{pair.A.Value, pair.B.Value},
		Locations:        [2]string{pair.A.TimeContext, pair.B.TimeContext},
		Delta:            pair.Delta,
		Label:            Decide(pair, threshold),
		SourceTexts:      [2]string{pair.A.SourceText, pair.B.SourceText},
		ConfidenceScores: [2]float64{pair.A.Confidence, pair.B.Confidence},
	}
}

// SortVerdicts orders for reporting: delta descending, entity name as
// tie-break.
func SortVerdicts(verdicts []model.Verdict) {
	sort.SliceStable(verdicts, func(i, j int) bool {
		if verdicts[i].Delta != verdicts[j].Delta {
			return verdicts[i].Delta > verdicts[j].Delta
		}
		return verdicts[i].Entity < verdicts[j].Entity
	})
}

// Summarize keeps only the highest-delta verdict per (entity,
// attribute) for human consumption. The full verdict list remains the
// machine-readable record; nothing is deduplicated there.
func Summarize(verdicts []model.Verdict) []model.Verdict {
	type key struct{ entity, attribute string }
	best := make(map[key]model.Verdict)
	var order []key

	for _, v := range verdicts {
		k := key{v.Entity, v.Attribute}
		current, seen := best[k]
		if !seen {
			order = append(order, k)
		}
		if !seen || v.Delta > current.Delta {
			best[k] = v
		}
	}

	out := make([]model.Verdict, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	SortVerdicts(out)
	return out
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Report is the complete result of scanning one document.
type Report struct {
	RunID     string    `json:"run_id"`
	Document  string    `json:"document"` // Path or URL that was scanned
	ScannedAt time.Time `json:"scanned_at"`

	Stats      Stats      `json:"stats"`
	Thresholds Thresholds `json:"thresholds"`

	// Verdicts contains CONTRADICTION entries only unless the scan was
	// asked to include consistent pairs for audit.
	Verdicts []Verdict `json:"verdicts"`
}

// Stats summarizes pipeline volume per stage.
type Stats struct {
	Chunks         int  `json:"chunks"`
	Claims         int  `json:"claims"`
	Entities       int  `json:"entities"`
	CandidatePairs int  `json:"candidate_pairs"` // Pairs surviving Stage A
	ScoredPairs    int  `json:"scored_pairs"`    // Pairs judged by Stage B
	Contradictions int  `json:"contradictions"`
	ReusedClaims   bool `json:"reused_claims"` // Store was loaded, extraction skipped
}

// Thresholds records the decision parameters the scan ran with.
type Thresholds struct {
	Similarity float64 `json:"similarity"` // Stage A acceptance
	Delta      float64 `json:"delta"`      // Decision engine
}

// NewReport creates a report shell for a document scan.
func NewReport(document string) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Document:  document,
		ScannedAt: time.Now().UTC(),
	}
}

// Contradictions returns only the CONTRADICTION verdicts.
func (r *Report) Contradictions() []Verdict {
	var out []Verdict
	for _, v := range r.Verdicts {
		if v.Label == LabelContradiction {
			out = append(out, v)
		}
	}
	return out
}

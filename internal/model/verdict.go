package model

// CandidatePair is two same-entity claims that survived the semantic
// filter. A is always the claim with the lower chunk index.
type CandidatePair struct {
	A          Claim   `json:"a"`
	B          Claim   `json:"b"`
	Similarity float64 `json:"similarity"` // Stage A cosine similarity
}

// Scores holds the three-way output of the entailment classifier for a
// (premise, hypothesis) pair. The values are treated as independently
// meaningful probabilities; they need not sum to 1.
type Scores struct {
	Contradiction float64 `json:"contradiction"`
	Entailment    float64 `json:"entailment"`
	Neutral       float64 `json:"neutral"`
}

// Delta is the core decision signal: contradiction minus entailment.
func (s Scores) Delta() float64 {
	return s.Contradiction - s.Entailment
}

// ScoredPair is a candidate pair after Stage B judgment.
type ScoredPair struct {
	CandidatePair
	Scores Scores  `json:"scores"`
	Delta  float64 `json:"delta"`
}

// Label is the binary outcome of the decision engine. No hedging labels.
type Label string

const (
	LabelContradiction Label = "CONTRADICTION"
	LabelConsistent    Label = "CONSISTENT"
)

// Verdict is the decision output for one scored pair.
type Verdict struct {
	Entity           string     `json:"entity"`
	Attribute        string     `json:"attribute"`
	Values           [2]string  `json:"values"`
	Locations        [2]string  `json:"locations"`
	Delta            float64    `json:"delta"`
	Label            Label      `json:"verdict"`
	SourceTexts      [2]string  `json:"source_texts"`
	ConfidenceScores [2]float64 `json:"confidence_scores"`
}

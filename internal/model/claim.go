package model

import "strings"

// Claim is an atomic factual assertion about a narrative entity.
// Schema: <entity, attribute, value, time_context>. Claims are immutable
// once created; the store only ever appends new ones.
type Claim struct {
	Entity      string  `json:"entity"`       // Character, place, or object name
	Attribute   string  `json:"attribute"`    // Semantic dimension being asserted
	Value       string  `json:"value"`        // Asserted state for that attribute
	TimeContext string  `json:"time_context"` // Chapter/act/section marker, reporting only
	SourceText  string  `json:"source_text"`  // Original sentence, retained for audit
	ChunkIndex  int     `json:"chunk_index"`  // Extraction order, stable tie-break
	Confidence  float64 `json:"confidence"`   // Extractor-assigned, 0-1
}

// Well-known attribute dimensions emitted by both extraction strategies.
// Open-ended attributes (arbitrary strings) are also valid.
const (
	AttrVitalStatus   = "vital-status"
	AttrWealthStatus  = "wealth-status"
	AttrAgeState      = "age-state"
	AttrMaritalStatus = "marital-status"
)

// EntityKey returns the normalized grouping key for the claim's entity.
// Pairs are only ever formed between claims sharing this key.
func (c Claim) EntityKey() string {
	return strings.ToLower(strings.TrimSpace(c.Entity))
}

// Text renders the claim as a short natural-language statement, used as
// input to the semantic and entailment models.
func (c Claim) Text() string {
	var b strings.Builder
	b.WriteString(c.Entity)
	b.WriteByte(' ')
	b.WriteString(c.Attribute)
	b.WriteByte(' ')
	b.WriteString(c.Value)
	if c.TimeContext != "" && c.TimeContext != UnknownContext {
		b.WriteString(" in ")
		b.WriteString(c.TimeContext)
	}
	return b.String()
}

// UnknownContext marks claims whose narrative location could not be detected.
const UnknownContext = "Unknown"

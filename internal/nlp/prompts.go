package nlp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/contrafact/internal/model"
)

// Prompt builders and response parsers shared by the chat-backed
// providers (OpenAI, Ollama). Both providers request strict JSON so the
// responses stay machine-parseable.

const classifySystemPrompt = `You are a natural language inference classifier. ` +
	`Given a premise and a hypothesis, score the logical relationship. ` +
	`Respond with ONLY a JSON object: {"contradiction": <0-1>, "entailment": <0-1>, "neutral": <0-1>}.`

func buildClassifyPrompt(premise, hypothesis string) string {
	return fmt.Sprintf("Premise: %s\nHypothesis: %s", premise, hypothesis)
}

const parseSystemPrompt = `You extract factual subject-predicate-object relations from narrative text. ` +
	`Only extract explicit statements about named entities; skip ambiguous, metaphorical, or uncertain sentences. ` +
	`Respond with ONLY a JSON array: [{"subject": "...", "predicate": "...", "object": "...", "confidence": <0-1>}].`

func buildParsePrompt(text string) string {
	return "Text:\n" + text
}

// parseScores decodes a classifier JSON response, tolerating markdown
// code fences some models wrap around JSON output.
func parseScores(response string) (model.Scores, error) {
	var scores model.Scores
	if err := json.Unmarshal([]byte(stripFences(response)), &scores); err != nil {
		return model.Scores{}, fmt.Errorf("parse classifier response: %w", err)
	}
	if !validScore(scores.Contradiction) || !validScore(scores.Entailment) || !validScore(scores.Neutral) {
		return model.Scores{}, fmt.Errorf("classifier scores out of range: %+v", scores)
	}
	return scores, nil
}

// parseRelations decodes a parser JSON response.
func parseRelations(response string) ([]Relation, error) {
	var relations []Relation
	if err := json.Unmarshal([]byte(stripFences(response)), &relations); err != nil {
		return nil, fmt.Errorf("parse relations response: %w", err)
	}
	return relations, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func validScore(v float64) bool {
	return v >= 0 && v <= 1
}

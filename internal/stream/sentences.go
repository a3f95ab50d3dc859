package stream

import "strings"

// Sentence-terminal runes. A boundary inside a sentence is pushed forward
// until one of these is seen.
func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Common abbreviations that end with a period but do not end a sentence.
var abbreviations = []string{
	"Mr.", "Mrs.", "Dr.", "Ms.", "Prof.", "Sr.", "Jr.",
	"vs.", "etc.", "i.e.", "e.g.", "Inc.", "Ltd.", "St.",
}

// endsWithAbbreviation reports whether the text ends in an abbreviation
// or an unfinished prefix of one ("i." on the way to "i.e."), so
// multi-period abbreviations hold the boundary at every inner period.
func endsWithAbbreviation(s string) bool {
	trimmed := strings.TrimRight(s, " \t")
	token := trimmed[strings.LastIndexAny(trimmed, " \t\n\r")+1:]
	if token == "" {
		return false
	}
	for _, a := range abbreviations {
		if token == a || (len(token) < len(a) && strings.HasPrefix(a, token)) {
			return true
		}
	}
	return false
}

// SplitSentences splits text into complete sentences plus the trailing
// remainder that has not yet reached a sentence terminal. The remainder
// is carried into the next window so the extractor never sees a
// truncated sentence.
func SplitSentences(text string) (sentences []string, remainder string) {
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if isTerminal(r) && current.Len() > 1 && !endsWithAbbreviation(current.String()) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	return sentences, strings.TrimLeft(current.String(), " \t\n\r")
}

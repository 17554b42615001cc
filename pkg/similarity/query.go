package similarity

import (
	"strings"
)

// Query-level scores.
const (
	// ContainmentScore applies when the whole query and label contain one another.
	ContainmentScore float32 = 0.95
)

// stopWords are action verbs and filler dropped from queries before
// word-by-word comparison. Read only.
var stopWords = map[string]struct{}{
	"tap": {}, "click": {}, "press": {}, "enter": {}, "type": {}, "input": {},
	"select": {}, "choose": {}, "find": {}, "locate": {},
	"the": {}, "a": {}, "an": {}, "on": {}, "in": {}, "to": {}, "for": {},
	"field": {},
}

// IsStopWord reports whether w is dropped from queries.
func IsStopWord(w string) bool {
	_, ok := stopWords[strings.ToLower(w)]
	return ok
}

// QueryTokens lower-cases query, splits it on whitespace and removes stop words.
func QueryTokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// QueryScore scores a query against a label with the built-in synonym table.
func QueryScore(query, label string) float32 {
	return Scorer{}.QueryScore(query, label)
}

// QueryScore returns how well query describes label, in [0,1].
// Label word order does not matter.
func (s Scorer) QueryScore(query, label string) float32 {
	q := strings.ToLower(query)
	l := strings.ToLower(label)

	// A blank side would otherwise count as contained in anything.
	if strings.TrimSpace(q) == "" || strings.TrimSpace(l) == "" {
		return 0
	}

	if q == l {
		return ExactScore
	}
	if strings.Contains(l, q) || strings.Contains(q, l) {
		return ContainmentScore
	}

	queryWords := QueryTokens(q)
	labelWords := strings.Fields(l)
	if len(queryWords) == 0 || len(labelWords) == 0 {
		return 0
	}

	var total float32
	for _, qw := range queryWords {
		var best float32
		for _, lw := range labelWords {
			if score := s.WordSimilarity(qw, lw); score > best {
				best = score
			}
		}
		total += best
	}

	score := total / float32(len(queryWords))
	if score > 1 {
		score = 1
	}
	return score
}

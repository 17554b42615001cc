package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Word-level scores. The values are empirically tuned; keep them stable so
// confidences stay comparable across releases.
const (
	ExactScore     float32 = 1.0
	SynonymScore   float32 = 0.9
	SubstringScore float32 = 0.7
	FuzzyScore     float32 = 0.5

	// MinFuzzyLength is exclusive: both words need more code points than this.
	MinFuzzyLength   = 3
	MaxFuzzyDistance = 2
)

// Scorer compares words and queries against a synonym table.
// The zero value uses the built-in table.
type Scorer struct {
	Synonyms *SynonymTable
}

func (s Scorer) table() *SynonymTable {
	if s.Synonyms == nil {
		return defaultTable
	}
	return s.Synonyms
}

// WordSimilarity scores two words with the built-in synonym table.
func WordSimilarity(a, b string) float32 {
	return Scorer{}.WordSimilarity(a, b)
}

// WordSimilarity returns a score in [0,1] for two single words.
func (s Scorer) WordSimilarity(a, b string) float32 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == b {
		return ExactScore
	}

	if s.table().Has(a, b) {
		return SynonymScore
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return SubstringScore
	}

	if utf8.RuneCountInString(a) > MinFuzzyLength &&
		utf8.RuneCountInString(b) > MinFuzzyLength &&
		Distance(a, b) <= MaxFuzzyDistance {
		return FuzzyScore
	}

	return 0
}

// Distance returns the Levenshtein edit distance between a and b, counted
// in Unicode code points with unit insert, delete and substitute costs.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

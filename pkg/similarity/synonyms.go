package similarity

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed synonyms.yaml
var synonymsYAML []byte

// SynonymTable maps a canonical UI term to the words treated as equivalent.
// A table is immutable once built.
type SynonymTable struct {
	entries map[string]map[string]struct{}
}

// defaultTable is decoded once at package init and only read afterwards.
var defaultTable = mustLoadSynonyms(synonymsYAML)

// ParseSynonyms decodes a YAML mapping of term -> list of equivalents.
// Keys and values are lower-cased and trimmed.
func ParseSynonyms(data []byte) (*SynonymTable, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse synonyms: %w", err)
	}

	t := &SynonymTable{entries: make(map[string]map[string]struct{}, len(raw))}
	for term, words := range raw {
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" {
			continue
		}
		set := t.entries[key]
		if set == nil {
			set = make(map[string]struct{}, len(words))
			t.entries[key] = set
		}
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				set[w] = struct{}{}
			}
		}
	}
	return t, nil
}

func mustLoadSynonyms(data []byte) *SynonymTable {
	t, err := ParseSynonyms(data)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultSynonyms returns the built-in UI vocabulary table.
func DefaultSynonyms() *SynonymTable {
	return defaultTable
}

// Related reports whether b is listed as a synonym of a. Lookup is one
// directional; callers that want symmetry check both orders.
func (t *SynonymTable) Related(a, b string) bool {
	set, ok := t.entries[a]
	if !ok {
		return false
	}
	_, ok = set[b]
	return ok
}

// Has reports whether either word lists the other as a synonym.
func (t *SynonymTable) Has(a, b string) bool {
	return t.Related(a, b) || t.Related(b, a)
}

// Lookup returns the sorted equivalents of term, or nil if it is not a key.
func (t *SynonymTable) Lookup(term string) []string {
	set, ok := t.entries[strings.ToLower(term)]
	if !ok {
		return nil
	}
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Terms returns the sorted canonical terms.
func (t *SynonymTable) Terms() []string {
	terms := make([]string, 0, len(t.entries))
	for term := range t.entries {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

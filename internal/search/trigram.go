package search

import "strings"

// Trigram similarity with pg_trgm semantics: the input is lowercased and
// split into words, each word is padded with two leading and one trailing
// space, and similarity is the Jaccard ratio of the two trigram sets.
// Identical strings score 1.0; disjoint strings score 0.

// DefaultThreshold is the minimum similarity a fuzzy-search hit must clear.
const DefaultThreshold = 0.3

// Similarity reports the trigram similarity of a and b in [0,1].
func Similarity(a, b string) float64 {
	ta := Trigrams(a)
	tb := Trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for g := range ta {
		if _, ok := tb[g]; ok {
			shared++
		}
	}

	union := len(ta) + len(tb) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

// Trigrams returns the padded trigram set of s.
func Trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(s)) {
		padded := []rune("  " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

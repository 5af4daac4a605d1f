package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigrams(t *testing.T) {
	set := Trigrams("cat")
	expected := []string{"  c", " ca", "cat", "at "}
	assert.Len(t, set, len(expected))
	for _, g := range expected {
		_, ok := set[g]
		assert.True(t, ok, "missing trigram %q", g)
	}

	// case folding and word splitting
	assert.Equal(t, Trigrams("CAT"), Trigrams("cat"))
	assert.Len(t, Trigrams(""), 0)

	multi := Trigrams("big cat")
	_, ok := multi["big"]
	assert.True(t, ok)
	_, ok = multi["cat"]
	assert.True(t, ok)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("yawa", "yawa"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("Yawa", "yawa"), 1e-9)
	assert.Equal(t, 0.0, Similarity("", "yawa"))
	assert.Equal(t, 0.0, Similarity("yawa", ""))

	// near match clears the threshold, unrelated text does not
	assert.GreaterOrEqual(t, Similarity("yawa", "yawá"), DefaultThreshold)
	assert.Less(t, Similarity("yawa", "entsa"), DefaultThreshold)

	// symmetric
	assert.Equal(t, Similarity("kaya", "kayamas"), Similarity("kayamas", "kaya"))
}

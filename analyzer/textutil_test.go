package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeWords(t *testing.T) {
	words := tokenizeWords("This guide covers THE audit process and more")
	// "this", "more" are stop words; "the", "and" are under four letters.
	assert.Equal(t, []string{"guide", "covers", "audit", "process"}, words)
}

func TestTopKeywords(t *testing.T) {
	t.Run("ranks by frequency with density", func(t *testing.T) {
		keywords := TopKeywords("alpha alpha beta", 5)
		require.Len(t, keywords, 2)

		assert.Equal(t, "alpha", keywords[0].Word)
		assert.Equal(t, 2, keywords[0].Count)
		assert.InDelta(t, 66.67, keywords[0].Density, 0.01)

		assert.Equal(t, "beta", keywords[1].Word)
		assert.InDelta(t, 33.33, keywords[1].Density, 0.01)
	})

	t.Run("ties keep first-seen order", func(t *testing.T) {
		keywords := TopKeywords("zebra apple zebra apple", 5)
		require.Len(t, keywords, 2)
		assert.Equal(t, "zebra", keywords[0].Word)
		assert.Equal(t, "apple", keywords[1].Word)
	})

	t.Run("respects limit", func(t *testing.T) {
		keywords := TopKeywords("alpha beta gamma delta", 2)
		assert.Len(t, keywords, 2)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, TopKeywords("", 5))
	})
}

func TestExtractEntityCandidates(t *testing.T) {
	t.Run("multi-word entities aggregate", func(t *testing.T) {
		entities, unique := extractEntityCandidates(
			"Acme Robotics shipped new arms. Acme Robotics also opened a lab in New York last spring.")
		require.NotEmpty(t, entities)
		assert.Equal(t, "Acme Robotics", entities[0].Name)
		assert.Equal(t, 2, entities[0].Count)
		assert.GreaterOrEqual(t, unique, 2)
	})

	t.Run("closed-class-only candidates dropped", func(t *testing.T) {
		_, unique := extractEntityCandidates("The And What This")
		assert.Equal(t, 0, unique)
	})

	t.Run("no capitalized words yields nothing", func(t *testing.T) {
		entities, unique := extractEntityCandidates("all lowercase text without any proper nouns here")
		assert.Empty(t, entities)
		assert.Equal(t, 0, unique)
	})
}

func TestEntityCoverageScore(t *testing.T) {
	cases := []struct {
		unique int
		want   int
	}{
		{30, 95}, {25, 95}, {20, 85}, {15, 85}, {12, 75},
		{10, 75}, {8, 60}, {6, 60}, {4, 45}, {3, 45}, {2, 30}, {0, 30},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, entityCoverageScore(c.unique), "unique=%d", c.unique)
	}
}

func TestApproxPixelWidth(t *testing.T) {
	// m=10, i=4, space=3, A=9, 9=9, space=3, x=7
	assert.Equal(t, 45, approxPixelWidth("mi A9 x"))
	assert.Equal(t, 0, approxPixelWidth(""))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", normalizeWhitespace("  a\n\tb   c "))
}

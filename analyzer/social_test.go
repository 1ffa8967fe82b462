package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeSocial(t *testing.T) {
	t.Run("full og and twitter set", func(t *testing.T) {
		p := mustPage(t, "https://example.com", `<html><head>
			<meta property="og:title" content="Guide">
			<meta property="og:description" content="A guide.">
			<meta property="og:image" content="https://example.com/og.png">
			<meta property="og:type" content="article">
			<meta name="twitter:card" content="summary_large_image">
			<meta name="twitter:title" content="Guide">
		</head></html>`, nil)

		social := analyzeSocial(p)
		assert.Equal(t, 100, social.Score)
		assert.Empty(t, social.Issues)
		assert.Equal(t, "Guide", social.OGTitle)
		assert.Equal(t, "article", social.OGType)
		assert.Equal(t, "summary_large_image", social.TwitterCard)
	})

	t.Run("missing image and card", func(t *testing.T) {
		p := mustPage(t, "https://example.com", `<html><head>
			<meta property="og:title" content="Guide">
			<meta property="og:description" content="A guide.">
		</head></html>`, nil)

		social := analyzeSocial(p)
		assert.Equal(t, 60, social.Score) // -25 image, -15 card
		assert.Len(t, social.Issues, 2)
	})

	t.Run("nothing set", func(t *testing.T) {
		p := mustPage(t, "https://example.com", `<html><head></head></html>`, nil)
		assert.Equal(t, 15, analyzeSocial(p).Score)
	})
}

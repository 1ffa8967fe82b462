package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCrawl(t *testing.T) {
	t.Run("noindex nofollow page", func(t *testing.T) {
		p := mustPage(t, "https://example.com",
			`<html><head><meta name="robots" content="noindex, nofollow"></head><body></body></html>`, nil)
		crawl := analyzeCrawl(p, 10)
		assert.False(t, crawl.Indexable)
		assert.True(t, crawl.RobotsBlocked)
		assert.True(t, crawl.NofollowPage)
		assert.Equal(t, 30, crawl.Score) // -50 noindex, -20 nofollow
	})

	t.Run("canonical trailing slash tolerated", func(t *testing.T) {
		p := mustPage(t, "https://example.com/",
			`<html><head><link rel="canonical" href="https://example.com"></head><body></body></html>`, nil)
		assert.True(t, analyzeCrawl(p, 10).CanonicalCorrect)
	})

	t.Run("foreign canonical flagged", func(t *testing.T) {
		p := mustPage(t, "https://example.com/page",
			`<html><head><link rel="canonical" href="https://example.com/other"></head><body></body></html>`, nil)
		crawl := analyzeCrawl(p, 10)
		assert.False(t, crawl.CanonicalCorrect)
		assert.Equal(t, 80, crawl.Score)
	})

	t.Run("few internal links penalized", func(t *testing.T) {
		p := mustPage(t, "https://example.com", `<html><body></body></html>`, nil)
		crawl := analyzeCrawl(p, 1)
		assert.Equal(t, 85, crawl.Score)
	})

	t.Run("internal link sample is capped", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("<html><body>")
		for i := 0; i < 40; i++ {
			fmt.Fprintf(&b, `<a href="/page-%d">Page %d</a>`, i, i)
		}
		b.WriteString("</body></html>")
		p := mustPage(t, "https://example.com", b.String(), nil)

		crawl := analyzeCrawl(p, 40)
		require.Len(t, crawl.InternalLinks, crawlLinkSampleSize)
		assert.Equal(t, "https://example.com/page-0", crawl.InternalLinks[0].Href)
		assert.Equal(t, "Page 0", crawl.InternalLinks[0].Text)
	})

	t.Run("amp version detected from link", func(t *testing.T) {
		p := mustPage(t, "https://example.com",
			`<html><head><link rel="amphtml" href="https://example.com/amp"></head><body></body></html>`, nil)
		assert.True(t, analyzeCrawl(p, 10).AMPVersion)
	})
}

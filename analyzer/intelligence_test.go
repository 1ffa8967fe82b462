package analyzer

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestAnalyzeIntelligenceEntitiesOnLowercaseText(t *testing.T) {
	html := `<html><head><title>notes</title></head>
<body><p>all of this text stays lowercase so nothing can look like a proper noun at all.</p></body></html>`

	report := AnalyzeIntelligence(mustDoc(t, html), html, "https://example.com/notes")

	assert.Equal(t, 0, report.Entities.UniqueCount)
	assert.Empty(t, report.Entities.TopEntities)
	assert.Equal(t, 30, report.Entities.CoverageScore)
	assert.NotEmpty(t, report.Entities.Hints)
}

func TestClassifyIntent(t *testing.T) {
	t.Run("transactional page", func(t *testing.T) {
		html := `<html><head>
			<title>Buy cheap widgets online at the best price</title>
		</head><body><form action="/order"></form></body></html>`
		doc := mustDoc(t, html)

		intent := classifyIntent(doc,
			"Buy cheap widgets online at the best price", "", "", "https://shop.example/checkout")

		assert.Equal(t, "transactional", intent.Intent)
		assert.Equal(t, "low", intent.MismatchRisk)
		assert.Greater(t, intent.Scores.Transactional, intent.Scores.Commercial)
	})

	t.Run("informational page", func(t *testing.T) {
		doc := mustDoc(t, `<html><body></body></html>`)
		intent := classifyIntent(doc,
			"What is crawl budget? A beginner guide and tutorial", "", "", "https://example.com/blog/crawl-budget")

		assert.Equal(t, "informational", intent.Intent)
		assert.Equal(t, "low", intent.MismatchRisk)
	})

	t.Run("no signals means mixed with medium risk", func(t *testing.T) {
		doc := mustDoc(t, `<html><body></body></html>`)
		intent := classifyIntent(doc, "Untitled", "", "", "https://example.com/x")

		assert.Equal(t, "mixed", intent.Intent)
		assert.Equal(t, "medium", intent.MismatchRisk)
	})

	t.Run("add to cart CTA counts as transactional", func(t *testing.T) {
		doc := mustDoc(t, `<html><body><button>Add to Cart</button></body></html>`)
		intent := classifyIntent(doc, "Widget", "", "", "https://example.com/widget")
		assert.GreaterOrEqual(t, intent.Scores.Transactional, 2)
	})
}

func TestAssessEEAT(t *testing.T) {
	t.Run("signals add up", func(t *testing.T) {
		html := `<html><head>
			<meta name="author" content="Jordan Smith">
			<script type="application/ld+json">{"@type":"Article"}</script>
		</head><body>
			<a href="/about">About us</a>
			<a href="/contact">Contact</a>
			<a href="/privacy">Privacy policy</a>
			<a href="https://a.example/paper">original study</a>
			<a href="https://b.example/data">industry report</a>
		</body></html>`

		eeat := assessEEAT(mustDoc(t, html))

		assert.True(t, eeat.Signals.HasAuthorMeta)
		assert.True(t, eeat.Signals.HasArticleSchema)
		assert.True(t, eeat.Signals.HasAbout)
		assert.True(t, eeat.Signals.HasContact)
		assert.True(t, eeat.Signals.HasPolicy)
		assert.Equal(t, 2, eeat.Signals.CitationsCount)
		// 10 author + 20 article + 10 about + 10 contact + 10 policy + 15 citations
		assert.Equal(t, 75, eeat.Score)
		assert.NotEmpty(t, eeat.Gaps)
	})

	t.Run("bare page scores zero with full gap list", func(t *testing.T) {
		eeat := assessEEAT(mustDoc(t, `<html><body><p>text</p></body></html>`))
		assert.Equal(t, 0, eeat.Score)
		assert.Len(t, eeat.Gaps, 8)
	})
}

func TestAssessLinkQuality(t *testing.T) {
	t.Run("generic anchors tank the score", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("<html><body>")
		for i := 0; i < 10; i++ {
			b.WriteString(`<a href="/p">read more</a>`)
		}
		b.WriteString("</body></html>")

		lq := assessLinkQuality(mustDoc(t, b.String()))

		assert.Equal(t, 10, lq.Totals.Total)
		assert.Equal(t, 10, lq.Totals.Contextual)
		assert.Equal(t, 100, lq.GenericAnchorRatio)
		assert.Equal(t, 10, lq.AnchorDiversity)
		// contextual 40 + diversity 10/60*30=5 + generic 0
		assert.Equal(t, 45, lq.Score)
		assert.NotEmpty(t, lq.Hints)
	})

	t.Run("nav links are not contextual", func(t *testing.T) {
		html := `<html><body>
			<nav><a href="/a">Products</a><a href="/b">Pricing</a></nav>
			<p><a href="/guide">full audit guide</a></p>
			<footer><a href="/c">Imprint</a></footer>
		</body></html>`

		lq := assessLinkQuality(mustDoc(t, html))
		assert.Equal(t, 4, lq.Totals.Total)
		assert.Equal(t, 3, lq.Totals.NavFooter)
		assert.Equal(t, 1, lq.Totals.Contextual)
	})

	t.Run("top anchors ranked by count", func(t *testing.T) {
		html := `<html><body>
			<a href="/a">audit guide</a>
			<a href="/b">audit guide</a>
			<a href="/c">pricing</a>
		</body></html>`

		lq := assessLinkQuality(mustDoc(t, html))
		require.NotEmpty(t, lq.TopAnchors)
		assert.Equal(t, "audit guide", lq.TopAnchors[0].Text)
		assert.Equal(t, 2, lq.TopAnchors[0].Count)
	})
}

func TestTruncationRisk(t *testing.T) {
	assert.Equal(t, "low", truncationRisk(500, 580))   // ~86%
	assert.Equal(t, "medium", truncationRisk(580, 580))
	assert.Equal(t, "medium", truncationRisk(600, 580)) // ~103%
	assert.Equal(t, "high", truncationRisk(640, 580))
}

func TestBuildSerpPreview(t *testing.T) {
	serp := buildSerpPreview("Short title", "")
	assert.Equal(t, "low", serp.TitleTruncationRisk)
	assert.Equal(t, serpTitlePixelBudget, serp.TitleMaxPixels)
	assert.Equal(t, 0, serp.DescriptionPixels)
	assert.Equal(t, "low", serp.DescriptionTruncationRisk)
}

func TestVisibleTextStripsNonContent(t *testing.T) {
	html := `<html><body>
		<p>visible words</p>
		<script>var hidden = "nope";</script>
		<style>.x{color:red}</style>
		<noscript>fallback</noscript>
	</body></html>`

	text := visibleText(mustDoc(t, html))
	assert.Contains(t, text, "visible words")
	assert.NotContains(t, text, "hidden")
	assert.NotContains(t, text, "color:red")
}

func TestAnalyzeIntelligenceComposite(t *testing.T) {
	html := `<html><head><title>Acme Widgets review and comparison</title></head>
<body><p>Acme Widgets builds tools. Acme Widgets ships from Berlin.</p></body></html>`

	report := AnalyzeIntelligence(mustDoc(t, html), html, "https://example.com/review")

	assert.GreaterOrEqual(t, report.Score, 0)
	assert.LessOrEqual(t, report.Score, 100)
	assert.NotEmpty(t, report.Entities.TopEntities)
	assert.NotEmpty(t, report.Serp.Title)
}

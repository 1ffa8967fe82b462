package analyzer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustPage builds the internal page bundle from raw HTML, the way the
// analyzers receive it after a fetch.
func mustPage(t *testing.T, rawURL, html string, headers map[string]string) *page {
	t.Helper()
	parsed, err := normalizeURL(rawURL)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	if headers == nil {
		headers = map[string]string{}
	}
	return &page{doc: doc, html: html, url: parsed, rawURL: parsed.String(), headers: headers}
}

func TestGrade(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "A+"}, {90, "A+"}, {89, "A"}, {80, "A"},
		{79, "B"}, {70, "B"}, {69, "C"}, {60, "C"},
		{59, "D"}, {50, "D"}, {49, "F"}, {0, "F"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Grade(c.score), "score %d", c.score)
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Run("adds https scheme", func(t *testing.T) {
		u, err := normalizeURL("example.com/page")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/page", u.String())
	})

	t.Run("keeps explicit http", func(t *testing.T) {
		u, err := normalizeURL("http://example.com")
		require.NoError(t, err)
		assert.Equal(t, "http", u.Scheme)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		u, err := normalizeURL("  example.com  ")
		require.NoError(t, err)
		assert.Equal(t, "example.com", u.Hostname())
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := normalizeURL("   ")
		assert.Error(t, err)
	})

	t.Run("rejects scheme-only input", func(t *testing.T) {
		_, err := normalizeURL("https://")
		assert.Error(t, err)
	})
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 100, clampScore(150))
	assert.Equal(t, 0, clampScore(-5))
	assert.Equal(t, 50, clampScore(49.5))
	assert.Equal(t, 49, clampScore(49.4))
	assert.Equal(t, 0, clampScore(-0.4))
}

func TestAnalyzeWithContext(t *testing.T) {
	const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="description" content="A thorough walkthrough of auditing page structure, metadata and crawlability for teams running their own site health checks.">
<title>Complete Field Guide to Practical Website Health Audits</title>
<link rel="canonical" href="https://example.com/guide">
</head>
<body>
<h1>Website Health Audits</h1>
<h2>Why audits matter</h2>
<p>Search engines reward pages that are fast, crawlable and well described.</p>
<p>Audits catch regressions before rankings drop.</p>
<p>Run them on every significant release.</p>
<a href="/start">Getting started</a>
<a href="/checklist">Audit checklist</a>
<a href="https://other.example/ref">External reference</a>
</body>
</html>`

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(pageHTML))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	report, err := New().AnalyzeWithContext(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.NotEmpty(t, report.Timestamp)
	assert.GreaterOrEqual(t, report.OverallScore, 0)
	assert.LessOrEqual(t, report.OverallScore, 100)
	assert.Equal(t, Grade(report.OverallScore), report.Grade)

	assert.Equal(t, 100, report.OnPage.Title.Score)
	assert.True(t, report.Technical.RobotsTxt.Accessible)
	assert.True(t, report.Technical.RobotsTxt.RootAllowed)
	assert.False(t, report.Security.HTTPS) // httptest serves plain HTTP
	assert.Equal(t, "Run separately", report.Performance.Error)
	assert.False(t, report.AMP.HasAMP)
}

func TestAnalyzePropagatesFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New().AnalyzeWithContext(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestAnalyzeHTMLSkipsPageFetch(t *testing.T) {
	// No server for the page itself; only the robots probe may fail silently.
	report, err := New().AnalyzeHTML(context.Background(), "https://unreachable.invalid",
		`<html><head><title>Offline snapshot analysis of a stored document</title></head><body><p>text</p></body></html>`, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://unreachable.invalid", report.URL)
	assert.False(t, report.Technical.RobotsTxt.Accessible)
}

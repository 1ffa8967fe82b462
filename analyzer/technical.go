package analyzer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/temoto/robotstxt"
)

var charsetPattern = regexp.MustCompile(`charset=([^\s;]+)`)

// robotsTxtMaxContent caps how much of the robots.txt body is echoed back
// in the report.
const robotsTxtMaxContent = 2000

// analyzeTechnical collects the crawl-infrastructure metadata: canonical,
// robots meta, viewport, charset, lang, JSON-LD types, hreflang alternates
// and the robots.txt probe result supplied by the caller.
func analyzeTechnical(p *page, robotsTxt RobotsTxtCheck) TechnicalSEO {
	doc := p.doc

	canonical := doc.Find(`link[rel="canonical"]`).AttrOr("href", "")
	robots := doc.Find(`meta[name="robots"]`).AttrOr("content", "")
	viewport := doc.Find(`meta[name="viewport"]`).AttrOr("content", "")
	lang := doc.Find("html").AttrOr("lang", "")

	charset := doc.Find("meta[charset]").AttrOr("charset", "")
	if charset == "" {
		httpEquiv := doc.Find(`meta[http-equiv="Content-Type"]`).AttrOr("content", "")
		if m := charsetPattern.FindStringSubmatch(httpEquiv); m != nil {
			charset = m[1]
		}
	}

	sdTypes := structuredDataTypes(doc)

	hreflang := []string{}
	doc.Find(`link[rel="alternate"][hreflang]`).Each(func(_ int, s *goquery.Selection) {
		hreflang = append(hreflang, s.AttrOr("hreflang", ""))
	})

	sitemapLinked := doc.Find(`link[rel="sitemap"]`).Length() > 0
	https := p.url.Scheme == "https"

	issues := []string{}
	score := 100
	if canonical == "" {
		issues = append(issues, "No canonical URL — risk of duplicate content penalties")
		score -= 15
	}
	if viewport == "" {
		issues = append(issues, "Missing viewport meta — critical for mobile-first indexing")
		score -= 20
	}
	if lang == "" {
		issues = append(issues, "No lang attribute on <html> — affects multilingual SEO")
		score -= 10
	}
	if len(sdTypes) == 0 && doc.Find(`script[type="application/ld+json"]`).Length() == 0 {
		issues = append(issues, "No structured data (JSON-LD) — missing rich snippet opportunities")
		score -= 10
	}
	if !robotsTxt.Accessible {
		issues = append(issues, "robots.txt not found or inaccessible")
		score -= 10
	}
	if !sitemapLinked {
		issues = append(issues, `Sitemap not linked in HTML (use <link rel="sitemap">)`)
	}
	if !https {
		issues = append(issues, "Page served over HTTP — switch to HTTPS immediately")
		score -= 25
	}

	return TechnicalSEO{
		Score:          clampScore(float64(score)),
		Canonical:      canonical,
		Robots:         robots,
		Viewport:       viewport,
		Charset:        charset,
		Lang:           lang,
		StructuredData: StructuredData{Found: doc.Find(`script[type="application/ld+json"]`).Length() > 0, Types: sdTypes},
		Hreflang:       hreflang,
		SitemapLinked:  sitemapLinked,
		RobotsTxt:      robotsTxt,
		HTTPToHTTPS:    https,
		WWW:            strings.HasPrefix(p.url.Hostname(), "www."),
		Issues:         issues,
	}
}

// structuredDataTypes decodes every JSON-LD block optimistically and pulls
// out @type, which may be a string or an array of strings. Blocks that fail
// to parse are skipped, never fatal.
func structuredDataTypes(doc *goquery.Document) []string {
	types := []string{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var blob map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &blob); err != nil {
			return
		}
		switch t := blob["@type"].(type) {
		case string:
			types = append(types, t)
		case []any:
			parts := make([]string, 0, len(t))
			for _, v := range t {
				if str, ok := v.(string); ok {
					parts = append(parts, str)
				}
			}
			if len(parts) > 0 {
				types = append(types, strings.Join(parts, ", "))
			}
		}
	})
	return types
}

// probeRobotsTxt fetches {origin}/robots.txt with a short budget. Any
// failure marks the file inaccessible instead of propagating an error.
func (a *Analyzer) probeRobotsTxt(ctx context.Context, base *url.URL) RobotsTxtCheck {
	robotsURL := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/robots.txt"}

	reqCtx, cancel := context.WithTimeout(ctx, robotsFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return RobotsTxtCheck{}
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return RobotsTxtCheck{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RobotsTxtCheck{}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return RobotsTxtCheck{}
	}

	check := RobotsTxtCheck{Accessible: true, Content: truncate(string(body), robotsTxtMaxContent)}
	if data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body); err == nil {
		check.RootAllowed = data.FindGroup(a.userAgent).Test("/")
	}
	return check
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Timeouts per network call. Every secondary fetch degrades gracefully on
// failure; only the primary page fetch is fatal to the report.
const (
	pageFetchTimeout   = 20 * time.Second
	ampFetchTimeout    = 12 * time.Second
	robotsFetchTimeout = 5 * time.Second
)

const defaultUserAgent = "Mozilla/5.0 (compatible; DeepSEOBot/2.0; +https://deepseo.example)"

// overallWeights combines the sub-scores into the overall score. The
// intelligence sub-score is computed and reported but intentionally not
// part of the weighted sum; flip includeIntelligence to fold it in.
var overallWeights = map[string]float64{
	"onPage":    0.18,
	"technical": 0.14,
	"security":  0.11,
	"crawl":     0.12,
	"content":   0.14,
	"social":    0.09,
	"rendering": 0.09,
	"backlinks": 0.05,
	"amp":       0.08,
}

const includeIntelligence = false

// Analyzer runs the full battery of SEO checks against a single URL.
type Analyzer struct {
	client    *http.Client
	userAgent string
}

// New creates an Analyzer with a pooled HTTP transport. Per-call timeouts
// are applied through request contexts, so the client itself has none.
func New() *Analyzer {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Analyzer{
		client:    &http.Client{Transport: transport},
		userAgent: defaultUserAgent,
	}
}

// page bundles everything the per-section analyzers read: the parsed
// document, the raw HTML, the normalized request URL and the response
// headers with lowercased names. Analyzers never mutate it.
type page struct {
	doc     *goquery.Document
	html    string
	url     *url.URL
	rawURL  string
	headers map[string]string
}

// Analyze fetches the page and runs every analyzer over it.
func (a *Analyzer) Analyze(rawURL string) (*SEOReport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()
	return a.AnalyzeWithContext(ctx, rawURL)
}

// AnalyzeWithContext is Analyze with caller-controlled cancellation.
func (a *Analyzer) AnalyzeWithContext(ctx context.Context, rawURL string) (*SEOReport, error) {
	parsed, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	html, headers, err := a.fetchPage(ctx, parsed.String(), pageFetchTimeout)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	p := &page{doc: doc, html: html, url: parsed, rawURL: parsed.String(), headers: headers}

	// The robots.txt probe is independent of the DOM work; run it while the
	// other analyzers chew on the already-fetched HTML.
	robotsCh := make(chan RobotsTxtCheck, 1)
	go func() { robotsCh <- a.probeRobotsTxt(ctx, parsed) }()

	return a.buildReport(ctx, p, robotsCh), nil
}

// AnalyzeHTML runs the analyzers over caller-supplied HTML and headers.
// The robots.txt probe and AMP secondary fetch still go over the network.
func (a *Analyzer) AnalyzeHTML(ctx context.Context, rawURL, html string, headers map[string]string) (*SEOReport, error) {
	parsed, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	if headers == nil {
		headers = map[string]string{}
	}

	p := &page{doc: doc, html: html, url: parsed, rawURL: parsed.String(), headers: headers}
	robotsCh := make(chan RobotsTxtCheck, 1)
	go func() { robotsCh <- a.probeRobotsTxt(ctx, parsed) }()

	return a.buildReport(ctx, p, robotsCh), nil
}

func (a *Analyzer) buildReport(ctx context.Context, p *page, robotsCh <-chan RobotsTxtCheck) *SEOReport {
	onPage := analyzeOnPage(p)
	crawl := analyzeCrawl(p, onPage.Links.Internal)
	security := analyzeSecurity(p)
	social := analyzeSocial(p)
	content := analyzeContent(p)
	backlinks := analyzeBacklinks(p, onPage.Links)
	rendering := analyzeRendering(p, onPage.Images.Total)
	technical := analyzeTechnical(p, <-robotsCh)
	amp := a.AnalyzeAMP(ctx, p.rawURL, p.html)
	intelligence := AnalyzeIntelligence(p.doc, p.html, p.rawURL)

	overall := clampScore(
		float64(onPage.Score)*overallWeights["onPage"] +
			float64(technical.Score)*overallWeights["technical"] +
			float64(security.Score)*overallWeights["security"] +
			float64(crawl.Score)*overallWeights["crawl"] +
			float64(content.Score)*overallWeights["content"] +
			float64(social.Score)*overallWeights["social"] +
			float64(rendering.Score)*overallWeights["rendering"] +
			float64(backlinks.Score)*overallWeights["backlinks"] +
			float64(amp.Score)*overallWeights["amp"])

	return &SEOReport{
		ID:           uuid.NewString(),
		URL:          p.rawURL,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		OverallScore: overall,
		Grade:        Grade(overall),
		OnPage:       onPage,
		Technical:    technical,
		Performance:  deferredPerformance(rendering),
		Crawl:        crawl,
		Security:     security,
		Social:       social,
		Content:      content,
		Backlinks:    backlinks,
		Rendering:    rendering,
		AMP:          amp,
		Intelligence: intelligence,
	}
}

// Grade buckets an overall score into a letter grade.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// deferredPerformance is the placeholder shape returned inside the full
// report; live Lighthouse numbers come from the separate /pagespeed call.
func deferredPerformance(rendering RenderingSEO) PerformanceSEO {
	return PerformanceSEO{
		FCP: "—", LCP: "—", TBT: "—", CLS: "—", TTI: "—", SpeedIndex: "—",
		ResourceCount: rendering.CSSBlocking + rendering.JSBlocking,
		TotalSize:     "—",
		Issues:        []string{},
		Error:         "Run separately",
	}
}

// normalizeURL trims the input, defaults the scheme to https and rejects
// anything that does not parse to an absolute HTTP(S) URL.
func normalizeURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, fmt.Errorf("empty URL")
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Hostname() == "" {
		return nil, fmt.Errorf("invalid URL %q: no hostname", rawURL)
	}
	return parsed, nil
}

// fetchPage retrieves the page body and response headers. A non-2xx status
// is an error; callers decide whether that is fatal.
func (a *Analyzer) fetchPage(ctx context.Context, pageURL string, timeout time.Duration) (string, map[string]string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return "", nil, fmt.Errorf("read body of %s: %w", pageURL, err)
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[strings.ToLower(name)] = resp.Header.Get(name)
	}
	return buf.String(), headers, nil
}

package competitor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/deepseo/backend/analyzer"
)

const (
	fetchTimeout     = 12 * time.Second
	topKeywordsCount = 10
)

// Comparer fetches two pages side by side and reduces each to a comparable
// snapshot.
type Comparer struct {
	client    *http.Client
	userAgent string
}

func New(userAgent string) *Comparer {
	return &Comparer{
		client:    &http.Client{},
		userAgent: userAgent,
	}
}

// Snapshot is the per-page half of a comparison.
type Snapshot struct {
	URL               string             `json:"url"`
	Title             string             `json:"title"`
	MetaDescription   string             `json:"metaDesc"`
	H1Count           int                `json:"h1Count"`
	H2Count           int                `json:"h2Count"`
	WordCount         int                `json:"wordCount"`
	ImgCount          int                `json:"imgCount"`
	InternalLinks     int                `json:"internalLinks"`
	HasStructuredData bool               `json:"hasStructuredData"`
	HasOG             bool               `json:"hasOg"`
	TopKeywords       []analyzer.Keyword `json:"topKeywords"`
}

// Comparison pairs the requesting page with its competitor.
type Comparison struct {
	Main       Snapshot `json:"main"`
	Competitor Snapshot `json:"competitor"`
}

// Compare fetches both URLs concurrently. Either fetch failing fails the
// comparison; half a comparison has no value.
func (c *Comparer) Compare(ctx context.Context, mainURL, competitorURL string) (*Comparison, error) {
	var (
		wg      sync.WaitGroup
		main    Snapshot
		comp    Snapshot
		mainErr error
		compErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		main, mainErr = c.snapshot(ctx, mainURL)
	}()
	go func() {
		defer wg.Done()
		comp, compErr = c.snapshot(ctx, competitorURL)
	}()
	wg.Wait()

	if mainErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", mainURL, mainErr)
	}
	if compErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", competitorURL, compErr)
	}
	return &Comparison{Main: main, Competitor: comp}, nil
}

func (c *Comparer) snapshot(ctx context.Context, rawURL string) (Snapshot, error) {
	pageURL, err := normalizeURL(rawURL)
	if err != nil {
		return Snapshot{}, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return Snapshot{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return Snapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Snapshot{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return Snapshot{}, err
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse HTML: %w", err)
	}

	return buildSnapshot(doc, pageURL), nil
}

func buildSnapshot(doc *goquery.Document, pageURL *url.URL) Snapshot {
	bodyText := doc.Find("body").Text()

	internal := 0
	host := pageURL.Hostname()
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		ref, err := url.Parse(strings.TrimSpace(s.AttrOr("href", "")))
		if err != nil {
			return
		}
		if pageURL.ResolveReference(ref).Hostname() == host {
			internal++
		}
	})

	keywords := analyzer.TopKeywords(bodyText, topKeywordsCount)
	if keywords == nil {
		keywords = []analyzer.Keyword{}
	}

	return Snapshot{
		URL:               pageURL.String(),
		Title:             strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription:   strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")),
		H1Count:           doc.Find("h1").Length(),
		H2Count:           doc.Find("h2").Length(),
		WordCount:         len(strings.Fields(bodyText)),
		ImgCount:          doc.Find("img").Length(),
		InternalLinks:     internal,
		HasStructuredData: doc.Find(`script[type="application/ld+json"]`).Length() > 0,
		HasOG:             doc.Find(`meta[property="og:title"]`).Length() > 0,
		TopKeywords:       keywords,
	}
}

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

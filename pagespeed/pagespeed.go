package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

const (
	defaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"
	requestTimeout  = 25 * time.Second
)

// Strategies queried per run. Both results are returned keyed by name.
var strategies = []string{"mobile", "desktop"}

// Client queries the PageSpeed Insights API. The zero key is valid: Google
// serves unauthenticated requests with a lower quota.
type Client struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
}

func New(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
	}
}

// StrategyResult is the narrow slice of a Lighthouse run the report cares
// about. Category scores are 0-100; audit values are display strings.
type StrategyResult struct {
	Performance   int           `json:"performance"`
	Accessibility int           `json:"accessibility"`
	BestPractices int           `json:"bestPractices"`
	SEO           int           `json:"seo"`
	FCP           string        `json:"fcp"`
	LCP           string        `json:"lcp"`
	TBT           string        `json:"tbt"`
	CLS           string        `json:"cls"`
	TTI           string        `json:"tti"`
	SpeedIndex    string        `json:"speedIndex"`
	Opportunities []Opportunity `json:"opportunities"`
}

// Opportunity is a failing or improvable audit, score 0-100.
type Opportunity struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Score        int    `json:"score"`
	DisplayValue string `json:"displayValue"`
}

// Report maps strategy name to its result.
type Report map[string]StrategyResult

// apiResponse decodes only the fields used; everything else in the (large)
// API payload is ignored.
type apiResponse struct {
	LighthouseResult struct {
		Categories map[string]struct {
			Score *float64 `json:"score"`
		} `json:"categories"`
		Audits map[string]audit `json:"audits"`
	} `json:"lighthouseResult"`
}

type audit struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Score        *float64 `json:"score"`
	DisplayValue string   `json:"displayValue"`
}

// Run queries the API for every strategy. A failure on any strategy fails
// the whole run; partial PageSpeed data is more confusing than none.
func (c *Client) Run(ctx context.Context, pageURL string) (Report, error) {
	report := make(Report, len(strategies))
	for _, strategy := range strategies {
		result, err := c.runStrategy(ctx, pageURL, strategy)
		if err != nil {
			return nil, fmt.Errorf("pagespeed %s: %w", strategy, err)
		}
		report[strategy] = result
	}
	return report, nil
}

func (c *Client) runStrategy(ctx context.Context, pageURL, strategy string) (StrategyResult, error) {
	query := url.Values{}
	query.Set("url", pageURL)
	query.Set("strategy", strategy)
	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return StrategyResult{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StrategyResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return StrategyResult{}, fmt.Errorf("API returned HTTP %d", resp.StatusCode)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return StrategyResult{}, fmt.Errorf("decode response: %w", err)
	}

	return buildResult(decoded), nil
}

func buildResult(decoded apiResponse) StrategyResult {
	categories := decoded.LighthouseResult.Categories
	audits := decoded.LighthouseResult.Audits

	categoryScore := func(name string) int {
		if cat, ok := categories[name]; ok && cat.Score != nil {
			return int(*cat.Score*100 + 0.5)
		}
		return 0
	}
	auditValue := func(name string) string {
		if a, ok := audits[name]; ok && a.DisplayValue != "" {
			return a.DisplayValue
		}
		return "N/A"
	}

	return StrategyResult{
		Performance:   categoryScore("performance"),
		Accessibility: categoryScore("accessibility"),
		BestPractices: categoryScore("best-practices"),
		SEO:           categoryScore("seo"),
		FCP:           auditValue("first-contentful-paint"),
		LCP:           auditValue("largest-contentful-paint"),
		TBT:           auditValue("total-blocking-time"),
		CLS:           auditValue("cumulative-layout-shift"),
		TTI:           auditValue("interactive"),
		SpeedIndex:    auditValue("speed-index"),
		Opportunities: topOpportunities(audits),
	}
}

// topOpportunities returns the eight worst-scoring improvable audits
// (score below 0.9), worst first.
func topOpportunities(audits map[string]audit) []Opportunity {
	candidates := []audit{}
	for _, a := range audits {
		if a.Score != nil && *a.Score < 0.9 {
			candidates = append(candidates, a)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if *candidates[i].Score != *candidates[j].Score {
			return *candidates[i].Score < *candidates[j].Score
		}
		return candidates[i].ID < candidates[j].ID
	})
	if len(candidates) > 8 {
		candidates = candidates[:8]
	}

	opportunities := make([]Opportunity, 0, len(candidates))
	for _, a := range candidates {
		opportunities = append(opportunities, Opportunity{
			ID:           a.ID,
			Title:        a.Title,
			Score:        int(*a.Score*100 + 0.5),
			DisplayValue: a.DisplayValue,
		})
	}
	return opportunities
}

package pagespeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "lighthouseResult": {
    "categories": {
      "performance": {"score": 0.87},
      "accessibility": {"score": 0.95},
      "best-practices": {"score": 1.0},
      "seo": {"score": 0.92}
    },
    "audits": {
      "first-contentful-paint": {"id": "first-contentful-paint", "title": "FCP", "score": 0.9, "displayValue": "1.2 s"},
      "largest-contentful-paint": {"id": "largest-contentful-paint", "title": "LCP", "score": 0.6, "displayValue": "3.4 s"},
      "total-blocking-time": {"id": "total-blocking-time", "title": "TBT", "score": 0.3, "displayValue": "450 ms"},
      "cumulative-layout-shift": {"id": "cumulative-layout-shift", "title": "CLS", "score": 0.95, "displayValue": "0.02"},
      "unused-css-rules": {"id": "unused-css-rules", "title": "Reduce unused CSS", "score": 0.5, "displayValue": "Potential savings of 40 KiB"},
      "uses-http2": {"id": "uses-http2", "title": "Use HTTP/2", "score": null}
    }
  }
}`

func newTestClient(baseURL string) *Client {
	c := New("")
	c.endpoint = baseURL
	return c
}

func TestRun(t *testing.T) {
	var gotStrategies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStrategies = append(gotStrategies, r.URL.Query().Get("strategy"))
		assert.Equal(t, "https://example.com", r.URL.Query().Get("url"))
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	report, err := newTestClient(srv.URL).Run(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"mobile", "desktop"}, gotStrategies)

	mobile, ok := report["mobile"]
	require.True(t, ok)
	assert.Equal(t, 87, mobile.Performance)
	assert.Equal(t, 95, mobile.Accessibility)
	assert.Equal(t, 100, mobile.BestPractices)
	assert.Equal(t, 92, mobile.SEO)
	assert.Equal(t, "1.2 s", mobile.FCP)
	assert.Equal(t, "3.4 s", mobile.LCP)
	assert.Equal(t, "N/A", mobile.TTI) // audit absent in payload

	// Worst score first; null-scored audits never qualify.
	require.Len(t, mobile.Opportunities, 3)
	assert.Equal(t, "total-blocking-time", mobile.Opportunities[0].ID)
	assert.Equal(t, 30, mobile.Opportunities[0].Score)
	assert.Equal(t, "unused-css-rules", mobile.Opportunities[1].ID)
	assert.Equal(t, "largest-contentful-paint", mobile.Opportunities[2].ID)
}

func TestRunAPIKeyForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := New("secret")
	c.endpoint = srv.URL
	_, err := c.Run(context.Background(), "https://example.com")
	require.NoError(t, err)
}

func TestRunAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Run(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestRunEmptyPayloadDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	report, err := newTestClient(srv.URL).Run(context.Background(), "https://example.com")
	require.NoError(t, err)

	mobile := report["mobile"]
	assert.Equal(t, 0, mobile.Performance)
	assert.Equal(t, "N/A", mobile.FCP)
	assert.Empty(t, mobile.Opportunities)
}

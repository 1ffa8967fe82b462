package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepseo/backend/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterAllow(t *testing.T) {
	t.Run("burst then reject", func(t *testing.T) {
		rl := NewRateLimiter(1, 3)
		now := time.Now()

		for i := 0; i < 3; i++ {
			assert.True(t, rl.allow("1.2.3.4", now), "request %d within burst", i)
		}
		assert.False(t, rl.allow("1.2.3.4", now))
	})

	t.Run("refills over time", func(t *testing.T) {
		rl := NewRateLimiter(2, 2)
		now := time.Now()

		rl.allow("1.2.3.4", now)
		rl.allow("1.2.3.4", now)
		assert.False(t, rl.allow("1.2.3.4", now))

		// 2 tokens/s -> one token back after half a second.
		assert.True(t, rl.allow("1.2.3.4", now.Add(500*time.Millisecond)))
	})

	t.Run("buckets are per client", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		now := time.Now()

		assert.True(t, rl.allow("1.1.1.1", now))
		assert.False(t, rl.allow("1.1.1.1", now))
		assert.True(t, rl.allow("2.2.2.2", now))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(1, 1).RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Rate limit exceeded")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(_ *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}

func TestUsageTracksAnalysisRequests(t *testing.T) {
	usage := logging.Initialize()
	before := usage.TotalRequests()

	r := gin.New()
	r.Use(Usage(usage))
	r.POST("/api/analyze", func(c *gin.Context) {
		c.Set(TargetURLKey, "https://tracked.example/page")
		c.Status(http.StatusOK)
	})
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{}")))
	require.Equal(t, http.StatusOK, w.Code)

	// Health checks are never tracked.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, before+1, usage.TotalRequests())
	assert.Contains(t, usage.GetPopularURLs(10), "https://tracked.example/page")
}

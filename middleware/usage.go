package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deepseo/backend/logging"
)

// TargetURLKey is set by handlers that analyze a remote URL so the usage
// layer can track which sites get analyzed, not just which endpoint ran.
const TargetURLKey = "targetURL"

// trackedEndpoints are the analysis POST routes that count toward usage
// statistics.
var trackedEndpoints = map[string]bool{
	"/api/analyze":      true,
	"/api/amp":          true,
	"/api/intelligence": true,
	"/api/competitor":   true,
	"/api/pagespeed":    true,
}

// Usage records unique visitors and per-endpoint request statistics.
func Usage(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		stats.TrackVisitor(c.ClientIP())

		c.Next()

		if c.Request.Method == http.MethodPost && trackedEndpoints[c.Request.URL.Path] {
			loadTime := float64(time.Since(start).Milliseconds())
			stats.TrackRequest(c.Request.URL.Path, c.GetString(TargetURLKey),
				loadTime, c.Writer.Status() >= 400)
		}

		// Persist every 100 tracked requests; the save is cheap but not free.
		if n := stats.TotalRequests(); n > 0 && n%100 == 0 {
			go stats.Save()
		}
	}
}

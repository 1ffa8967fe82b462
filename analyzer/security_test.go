package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeSecurity(t *testing.T) {
	t.Run("plain http page", func(t *testing.T) {
		p := mustPage(t, "http://example.com", `<html><body></body></html>`, nil)
		sec := analyzeSecurity(p)
		assert.False(t, sec.HTTPS)
		assert.Equal(t, 20, sec.Score) // -40 https, -15 hsts, -15 csp, -10 xfo
		assert.LessOrEqual(t, sec.Score, 60)
		assert.Contains(t, sec.Issues[0], "HTTPS")
	})

	t.Run("hardened https page", func(t *testing.T) {
		headers := map[string]string{
			"strict-transport-security": "max-age=63072000",
			"content-security-policy":   "default-src 'self'",
			"x-frame-options":           "DENY",
			"x-content-type-options":    "nosniff",
		}
		p := mustPage(t, "https://example.com", `<html><body></body></html>`, headers)
		sec := analyzeSecurity(p)
		assert.Equal(t, 100, sec.Score)
		assert.Empty(t, sec.Issues)
		assert.Equal(t, "max-age=63072000", sec.SafeHeaders["Strict-Transport-Security"])
		assert.Equal(t, "nosniff", sec.SafeHeaders["X-Content-Type-Options"])
	})

	t.Run("mixed content on https", func(t *testing.T) {
		headers := map[string]string{
			"strict-transport-security": "max-age=1",
			"content-security-policy":   "default-src 'self'",
			"x-frame-options":           "DENY",
		}
		p := mustPage(t, "https://example.com",
			`<html><body><img src="http://cdn.example/x.png"></body></html>`, headers)
		sec := analyzeSecurity(p)
		assert.True(t, sec.MixedContent)
		assert.Equal(t, 80, sec.Score)
	})
}

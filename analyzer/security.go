package analyzer

import "strings"

// securityHeaderNames lists the response headers the security check reports
// verbatim; presence is what scores, values are not validated.
var securityHeaderNames = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-Content-Type-Options",
	"Referrer-Policy",
	"Permissions-Policy",
}

// analyzeSecurity checks HTTPS, the standard security response headers and
// a textual mixed-content heuristic (an src="http:// occurrence in the raw
// HTML of an HTTPS page).
func analyzeSecurity(p *page) SecuritySEO {
	https := p.url.Scheme == "https"
	hsts := p.headers["strict-transport-security"] != ""
	csp := p.headers["content-security-policy"] != ""
	xfo := p.headers["x-frame-options"] != ""
	mixedContent := https && strings.Contains(p.html, `src="http://`)

	safeHeaders := make(map[string]string, len(securityHeaderNames))
	for _, name := range securityHeaderNames {
		safeHeaders[name] = p.headers[strings.ToLower(name)]
	}

	issues := []string{}
	score := 100
	if !https {
		issues = append(issues, "Not using HTTPS — massive SEO and trust penalty")
		score -= 40
	}
	if !hsts {
		issues = append(issues, "Missing HSTS header — browsers may allow HTTP downgrade")
		score -= 15
	}
	if !csp {
		issues = append(issues, "No Content-Security-Policy — XSS vulnerability risk")
		score -= 15
	}
	if !xfo {
		issues = append(issues, "No X-Frame-Options header — clickjacking risk")
		score -= 10
	}
	if mixedContent {
		issues = append(issues, "Mixed content detected — HTTP resources on HTTPS page")
		score -= 20
	}

	return SecuritySEO{
		Score:         clampScore(float64(score)),
		HTTPS:         https,
		HSTS:          hsts,
		MixedContent:  mixedContent,
		CSP:           csp,
		XFrameOptions: xfo,
		SafeHeaders:   safeHeaders,
		Issues:        issues,
	}
}

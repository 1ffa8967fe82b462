package analyzer

import (
	"fmt"
	"regexp"
)

var scriptTagPattern = regexp.MustCompile(`(?i)<script\b[^>]*>`)

// analyzeRendering looks for JS-dependency and render-blocking proxies
// without executing anything: lazy-load hints, script/stylesheet counts,
// iframes and legacy plugin embeds.
func analyzeRendering(p *page, totalImages int) RenderingSEO {
	doc := p.doc

	lazyLoad := doc.Find(`img[loading="lazy"]`).Length() > 0
	// A script-heavy page with almost no rendered paragraphs is the classic
	// client-side-rendered shell.
	rawScriptCount := len(scriptTagPattern.FindAllString(p.html, -1))
	jsRenderRequired := rawScriptCount > 10 && doc.Find("body p").Length() < 3

	iframes := doc.Find("iframe").Length()
	flash := doc.Find("object, embed").Length() > 0
	cssBlocking := doc.Find(`link[rel="stylesheet"]`).Length()
	jsBlocking := doc.Find(`script:not([async]):not([defer]):not([type="application/ld+json"])`).Length()
	inlineStyles := doc.Find("[style]").Length()

	issues := []string{}
	score := 100
	if !lazyLoad && totalImages > 3 {
		issues = append(issues, `Images not lazy-loaded — add loading="lazy" attribute`)
		score -= 20
	}
	if jsRenderRequired {
		issues = append(issues, "Page may require JS rendering — Googlebot may miss content")
		score -= 25
	}
	if iframes > 0 {
		issues = append(issues, fmt.Sprintf("%d iframe(s) — Googlebot may not index iframe content", iframes))
		score -= 10
	}
	if flash {
		issues = append(issues, "Flash/Object content detected — incompatible with modern crawlers")
		score -= 30
	}
	if cssBlocking > 5 {
		issues = append(issues, fmt.Sprintf("%d render-blocking CSS files — consider inlining critical CSS", cssBlocking))
		score -= 10
	}
	if jsBlocking > 5 {
		issues = append(issues, fmt.Sprintf("%d blocking JS scripts — add async/defer attributes", jsBlocking))
		score -= 15
	}

	return RenderingSEO{
		Score:            clampScore(float64(score)),
		LazyLoadImages:   lazyLoad,
		JSRenderRequired: jsRenderRequired,
		Iframes:          iframes,
		FlashContent:     flash,
		CSSBlocking:      cssBlocking,
		JSBlocking:       jsBlocking,
		InlineStyles:     inlineStyles,
		Issues:           issues,
	}
}

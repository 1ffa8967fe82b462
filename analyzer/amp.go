package analyzer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ampForbiddenTags are disallowed in AMP documents. <script> is handled
// separately because the runtime and JSON-LD exceptions apply.
var ampForbiddenTags = []string{"frame", "frameset", "object", "param", "applet", "base"}

// ampAllowedScriptHosts whitelists script src origins inside AMP pages.
var ampAllowedScriptHosts = []string{"cdn.ampproject.org"}

// ampComponents is the known component/extension tag inventory probed on
// the AMP document.
var ampComponents = []string{
	"amp-img", "amp-video", "amp-iframe", "amp-audio", "amp-anim",
	"amp-carousel", "amp-accordion", "amp-lightbox", "amp-sidebar",
	"amp-analytics", "amp-ad", "amp-social-share", "amp-twitter",
	"amp-instagram", "amp-youtube", "amp-facebook", "amp-pixel",
	"amp-list", "amp-bind", "amp-form", "amp-fit-text", "amp-font",
	"amp-install-serviceworker", "amp-live-list", "amp-selector",
	"amp-story", "amp-access", "amp-subscriptions", "amp-geo",
}

var ampSocialComponents = []string{
	"amp-twitter", "amp-instagram", "amp-facebook", "amp-pinterest", "amp-tiktok", "amp-youtube",
}

const (
	ampRuntimeSrc     = "cdn.ampproject.org/v0.js"
	ampCustomCSSLimit = 75000 // bytes, per AMP spec
)

// AnalyzeAMP runs the standalone AMP sub-analysis for a page. When the page
// links a distinct AMP URL, that document is fetched (short budget) and
// analyzed; on fetch failure the canonical HTML is analyzed as if it were
// the AMP document, a documented approximation.
func (a *Analyzer) AnalyzeAMP(ctx context.Context, canonicalURL, html string) AMPAnalysis {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}

	issues := []string{}
	recommendations := []string{}

	// Detection: an amphtml link on the canonical page, or the page itself
	// carrying the amp/⚡ attribute.
	ampHref := doc.Find(`link[rel="amphtml"]`).AttrOr("href", "")
	isAMPPage := hasAMPAttribute(doc, html)
	hasAMP := isAMPPage || ampHref != ""

	ampURL := ""
	if ampHref != "" {
		if base, err := normalizeURL(canonicalURL); err == nil {
			if resolved := resolveHref(base, ampHref); resolved != nil {
				ampURL = resolved.String()
			}
		}
	} else if isAMPPage {
		ampURL = canonicalURL
	}

	// Fetch and re-parse the AMP document when it lives at its own URL.
	ampHTML := html
	ampDoc := doc
	ampFetched := false
	if ampURL != "" && ampURL != canonicalURL {
		if body, _, err := a.fetchPage(ctx, ampURL, ampFetchTimeout); err == nil {
			if parsed, perr := goquery.NewDocumentFromReader(strings.NewReader(body)); perr == nil {
				ampHTML = body
				ampDoc = parsed
				ampFetched = true
			}
		}
	}

	isActuallyAMP := hasAMPAttribute(ampDoc, ampHTML)

	validation := validateAMP(ampDoc, ampHTML, isActuallyAMP)
	technical := ampTechnicalChecks(ampDoc, ampURL)
	content := ampContentChecks(ampDoc)
	performance := ampPerformanceChecks(ampDoc, validation)

	var comparison *AMPComparison
	if ampFetched {
		comparison = compareSnapshots(
			snapshotPage(doc, canonicalURL),
			snapshotPage(ampDoc, ampURL),
			canonicalURL,
		)
	}

	if !hasAMP {
		recommendations = append(recommendations,
			"Consider adding AMP version — improves mobile load speed and can boost SERP visibility",
			"Use amp-html to create AMP pages from existing content")
	}
	if hasAMP && !validation.HasAMPBoilerplate {
		recommendations = append(recommendations, "Add required AMP boilerplate CSS to pass AMP validation")
	}
	if hasAMP && !technical.StructuredData.Found {
		recommendations = append(recommendations, "Add JSON-LD structured data to AMP page for rich results eligibility")
	}
	if hasAMP && content.RegularImgCount > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Replace %d <img> with <amp-img> — required for AMP compliance", content.RegularImgCount))
	}
	if hasAMP && validation.CustomCSSSize > 50000 {
		recommendations = append(recommendations, "Reduce custom CSS — consider removing unused styles to stay under 75KB limit")
	}
	if hasAMP && len(technical.AMPExtensions) < 2 {
		recommendations = append(recommendations, "Explore AMP components: amp-analytics, amp-social-share, amp-carousel for richer pages")
	}
	if comparison != nil && comparison.SEOEquivalence < 80 {
		recommendations = append(recommendations, "Improve content parity between canonical and AMP — search engines index both")
	}

	score := 0
	if !hasAMP {
		// Flat floor when no AMP exists at all; sub-scores are not meaningful.
		score = 20
		issues = append(issues, `No AMP version found — add <link rel="amphtml"> and create an AMP page`)
	} else {
		score = clampScore(
			float64(validation.Score)*0.30 +
				float64(technical.Score)*0.25 +
				float64(content.Score)*0.20 +
				float64(performance.Score)*0.25)
		issues = append(issues, headOf(validation.Issues, 3)...)
		issues = append(issues, headOf(technical.Issues, 2)...)
	}

	return AMPAnalysis{
		Score:                  score,
		HasAMP:                 hasAMP,
		IsAMPPage:              isAMPPage,
		AMPURL:                 ampURL,
		AMPHTMLTag:             validation.HasAMPHTMLAttr,
		AMPBoilerplate:         validation.HasAMPBoilerplate,
		AMPCanonical:           technical.CanonicalURL,
		AMPLinkedFromCanonical: ampHref != "",
		Validation:             validation,
		Technical:              technical,
		Content:                content,
		Performance:            performance,
		Comparison:             comparison,
		Issues:                 issues,
		Recommendations:        recommendations,
	}
}

// AnalyzeAMPURL fetches rawURL and runs the AMP analysis on its own, for
// callers that want the AMP report without the full battery.
func (a *Analyzer) AnalyzeAMPURL(ctx context.Context, rawURL string) (AMPAnalysis, error) {
	parsed, err := normalizeURL(rawURL)
	if err != nil {
		return AMPAnalysis{}, err
	}
	html, _, err := a.fetchPage(ctx, parsed.String(), pageFetchTimeout)
	if err != nil {
		return AMPAnalysis{}, err
	}
	return a.AnalyzeAMP(ctx, parsed.String(), html), nil
}

// hasAMPAttribute checks the <html> element for the amp or ⚡ boolean
// attribute, falling back to a raw substring scan for parsers that drop
// exotic attribute names.
func hasAMPAttribute(doc *goquery.Document, html string) bool {
	found := false
	doc.Find("html").Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			for _, attr := range node.Attr {
				if attr.Key == "amp" || attr.Key == "⚡" {
					found = true
				}
			}
		}
	})
	return found || strings.Contains(html, "<html amp") || strings.Contains(html, "<html ⚡")
}

func validateAMP(doc *goquery.Document, html string, isActuallyAMP bool) AMPValidation {
	issues := []string{}
	score := 100

	lower := strings.ToLower(html)
	hasCharsetUTF8 := doc.Find(`meta[charset="utf-8"]`).Length() > 0 ||
		strings.Contains(lower, `charset="utf-8"`) ||
		strings.Contains(lower, "charset='utf-8'")
	hasViewport := doc.Find(`meta[name="viewport"]`).AttrOr("content", "") != ""
	hasBoilerplate := strings.Contains(html, "amp-boilerplate")
	hasRuntime := strings.Contains(html, ampRuntimeSrc)
	hasCanonical := doc.Find(`link[rel="canonical"]`).AttrOr("href", "") != ""

	forbiddenScripts := 0
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		typ := s.AttrOr("type", "")
		custom := s.AttrOr("custom-element", s.AttrOr("custom-template", ""))
		if src == "" && typ != "application/ld+json" && typ != "application/json" {
			forbiddenScripts++
		} else if src != "" && !allowedAMPScriptSrc(src) && custom == "" {
			forbiddenScripts++
		}
	})
	noCustomJS := forbiddenScripts == 0

	inlineStyles := doc.Find("[style]").Length()
	noInlineStyles := inlineStyles == 0

	formCount := doc.Find("form").Length()
	hasAMPForm := doc.Find("amp-form").Length() > 0

	regularImgs := doc.Find("img").Length()
	ampImgs := doc.Find("amp-img").Length()
	usesAMPImg := ampImgs > 0 || regularImgs == 0
	usesAMPVideo := doc.Find("amp-video").Length() > 0 || doc.Find("video").Length() == 0
	usesAMPIframe := doc.Find("amp-iframe").Length() > 0 || doc.Find("iframe").Length() == 0

	foundForbidden := []string{}
	for _, tag := range ampForbiddenTags {
		if n := doc.Find(tag).Length(); n > 0 {
			foundForbidden = append(foundForbidden, fmt.Sprintf("<%s> (%dx)", tag, n))
		}
	}

	customCSSSize := len(doc.Find("style[amp-custom]").Text())

	if !isActuallyAMP {
		issues = append(issues, "Missing ⚡ or amp attribute on <html> tag")
		score -= 25
	}
	if !hasCharsetUTF8 {
		issues = append(issues, `Missing <meta charset="utf-8"> — required in AMP`)
		score -= 15
	}
	if !hasViewport {
		issues = append(issues, "Missing viewport meta tag — required in AMP")
		score -= 10
	}
	if !hasBoilerplate {
		issues = append(issues, "Missing AMP boilerplate CSS — required for valid AMP")
		score -= 20
	}
	if !hasRuntime {
		issues = append(issues, "Missing AMP runtime script (cdn.ampproject.org/v0.js)")
		score -= 20
	}
	if !hasCanonical {
		issues = append(issues, "Missing canonical link — AMP page must point to canonical")
		score -= 15
	}
	if !noCustomJS {
		issues = append(issues, fmt.Sprintf("%d custom JS script(s) found — not allowed in AMP", forbiddenScripts))
		score -= 20
	}
	if !noInlineStyles {
		issues = append(issues, fmt.Sprintf("%d inline style(s) on elements — use <style amp-custom> instead", inlineStyles))
		score -= 10
	}
	if formCount > 0 && !hasAMPForm {
		issues = append(issues, "Raw <form> tags found — use <amp-form> extension instead")
		score -= 10
	}
	if !usesAMPImg && regularImgs > 0 {
		issues = append(issues, fmt.Sprintf("%d <img> tag(s) found — replace with <amp-img>", regularImgs))
		score -= 15
	}
	if len(foundForbidden) > 0 {
		issues = append(issues, "Forbidden tags found: "+strings.Join(foundForbidden, ", "))
		score -= len(foundForbidden) * 5
	}
	if customCSSSize > ampCustomCSSLimit {
		issues = append(issues, fmt.Sprintf("Custom CSS too large (%dKB) — AMP limit is 75KB", customCSSSize/1000))
		score -= 20
	}

	return AMPValidation{
		Score:              clampScore(float64(score)),
		HasAMPHTMLAttr:     isActuallyAMP,
		HasCharsetUTF8:     hasCharsetUTF8,
		HasViewport:        hasViewport,
		HasAMPBoilerplate:  hasBoilerplate,
		HasAMPRuntime:      hasRuntime,
		HasCanonicalLink:   hasCanonical,
		NoCustomJS:         noCustomJS,
		NoInlineStyles:     noInlineStyles,
		NoFormElements:     formCount == 0 || hasAMPForm,
		UsesAMPImg:         usesAMPImg,
		UsesAMPVideo:       usesAMPVideo,
		UsesAMPIframe:      usesAMPIframe,
		ForbiddenTagsFound: foundForbidden,
		CustomCSSSize:      customCSSSize,
		CustomCSSSizeLimit: ampCustomCSSLimit,
		Issues:             issues,
	}
}

func allowedAMPScriptSrc(src string) bool {
	for _, host := range ampAllowedScriptHosts {
		if strings.Contains(src, host) {
			return true
		}
	}
	return false
}

func ampTechnicalChecks(doc *goquery.Document, ampURL string) AMPTechnical {
	issues := []string{}
	score := 100

	runtimeSrc := doc.Find(`script[src*="cdn.ampproject.org/v0.js"]`).AttrOr("src", "")

	usedComponents := []string{}
	for _, comp := range ampComponents {
		if doc.Find(comp).Length() > 0 {
			usedComponents = append(usedComponents, comp)
		}
	}

	extensions := []string{}
	doc.Find("script[custom-element], script[custom-template]").Each(func(_ int, s *goquery.Selection) {
		if ext := s.AttrOr("custom-element", s.AttrOr("custom-template", "")); ext != "" {
			extensions = append(extensions, ext)
		}
	})

	sdTypes := structuredDataTypes(doc)

	canonical := doc.Find(`link[rel="canonical"]`).AttrOr("href", "")
	canonicalPointsToNonAMP := canonical != "" && canonical != ampURL
	selfCanonical := canonical != "" && canonical == ampURL

	metaCharset := doc.Find("meta[charset]").AttrOr("charset", "")
	metaViewport := doc.Find(`meta[name="viewport"]`).AttrOr("content", "")

	hreflang := []string{}
	doc.Find(`link[rel="alternate"][hreflang]`).Each(func(_ int, s *goquery.Selection) {
		hreflang = append(hreflang, s.AttrOr("hreflang", ""))
	})

	robotsMeta := doc.Find(`meta[name="robots"]`).AttrOr("content", "")
	indexable := !strings.Contains(robotsMeta, "noindex")

	if runtimeSrc == "" {
		issues = append(issues, "AMP runtime script not found")
		score -= 20
	}
	if canonical == "" {
		issues = append(issues, `Missing <link rel="canonical"> — links AMP to main page`)
		score -= 20
	}
	if selfCanonical {
		// A true AMP page must never canonicalize to itself.
		issues = append(issues, "Critical: AMP page canonical points to itself — should point to non-AMP")
		score -= 15
	}
	if len(sdTypes) == 0 {
		issues = append(issues, "No structured data on AMP page — add JSON-LD for rich results")
		score -= 10
	}
	if !indexable {
		issues = append(issues, "AMP page has noindex — Google will not index it")
		score -= 30
	}
	if len(extensions) > 10 {
		issues = append(issues, fmt.Sprintf("Many AMP extensions (%d) may impact load speed", len(extensions)))
	}

	return AMPTechnical{
		Score:                   clampScore(float64(score)),
		AMPRuntimeSrc:           runtimeSrc,
		AMPComponents:           usedComponents,
		AMPExtensions:           extensions,
		StructuredData:          StructuredData{Found: len(sdTypes) > 0, Types: sdTypes},
		CanonicalPointsToNonAMP: canonicalPointsToNonAMP,
		CanonicalURL:            canonical,
		SelfCanonical:           selfCanonical,
		MetaCharset:             metaCharset,
		MetaViewport:            metaViewport,
		Hreflang:                hreflang,
		RobotsMeta:              robotsMeta,
		IsIndexable:             indexable,
		Issues:                  issues,
	}
}

func ampContentChecks(doc *goquery.Document) AMPContent {
	issues := []string{}
	score := 100

	wordCount := len(strings.Fields(doc.Find("body").Text()))
	ampImgs := doc.Find("amp-img").Length()
	regularImgs := doc.Find("img").Length()
	ampVideos := doc.Find("amp-video, amp-youtube, amp-vimeo").Length()
	regularVideos := doc.Find("video").Length()
	ampIframes := doc.Find("amp-iframe").Length()
	regularIframes := doc.Find("iframe").Length()

	foundSocial := []string{}
	for _, comp := range ampSocialComponents {
		if doc.Find(comp).Length() > 0 {
			foundSocial = append(foundSocial, comp)
		}
	}
	hasAd := doc.Find("amp-ad").Length() > 0

	if regularImgs > 0 {
		issues = append(issues, fmt.Sprintf("%d <img> tag(s) — replace with <amp-img> for AMP compliance", regularImgs))
		score -= regularImgs * 5
	}
	if regularVideos > 0 {
		issues = append(issues, fmt.Sprintf("%d <video> tag(s) — replace with <amp-video>", regularVideos))
		score -= 10
	}
	if regularIframes > 0 {
		issues = append(issues, fmt.Sprintf("%d <iframe> tag(s) — replace with <amp-iframe>", regularIframes))
		score -= 10
	}

	return AMPContent{
		Score:                 clampScore(float64(score)),
		WordCount:             wordCount,
		ImgCount:              ampImgs + regularImgs,
		AMPImgCount:           ampImgs,
		RegularImgCount:       regularImgs,
		VideoCount:            ampVideos + regularVideos,
		AMPVideoCount:         ampVideos,
		IframeCount:           ampIframes + regularIframes,
		AMPIframeCount:        ampIframes,
		HasAd:                 hasAd,
		HasSocialEmbed:        len(foundSocial) > 0,
		SocialEmbedComponents: foundSocial,
		Issues:                issues,
	}
}

func ampPerformanceChecks(doc *goquery.Document, validation AMPValidation) AMPPerformance {
	issues := []string{}
	score := 100

	scripts := doc.Find("script")
	allowed, blocked := 0, 0
	scripts.Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		custom := s.AttrOr("custom-element", s.AttrOr("custom-template", ""))
		typ := s.AttrOr("type", "")
		if strings.Contains(src, "cdn.ampproject.org") || custom != "" ||
			typ == "application/ld+json" || typ == "application/json" {
			allowed++
		} else {
			blocked++
		}
	})

	extensionCount := doc.Find("script[custom-element], script[custom-template]").Length()
	criticalPathOK := validation.HasAMPBoilerplate && validation.HasAMPRuntime && validation.NoCustomJS

	if blocked > 0 {
		issues = append(issues, fmt.Sprintf("%d non-AMP scripts blocked by AMP runtime", blocked))
		score -= blocked * 10
	}
	if !criticalPathOK {
		issues = append(issues, "Critical render path not fully AMP-optimized")
		score -= 15
	}
	if validation.CustomCSSSize > 50000 {
		issues = append(issues, fmt.Sprintf("Large custom CSS (%dKB) — keep under 50KB for best performance", validation.CustomCSSSize/1000))
		score -= 10
	}
	if extensionCount > 8 {
		issues = append(issues, fmt.Sprintf("High number of AMP extensions (%d) — each adds load time", extensionCount))
		score -= 5
	}

	return AMPPerformance{
		Score:                  clampScore(float64(score)),
		InlineStylesCount:      doc.Find("[style]").Length(),
		CustomCSSKb:            round2(float64(validation.CustomCSSSize) / 1000),
		ScriptTagsCount:        scripts.Length(),
		AllowedScriptCount:     allowed,
		ExternalScriptsBlocked: blocked,
		CriticalPathOptimized:  criticalPathOK,
		Issues:                 issues,
	}
}

// snapshotPage builds the minimal fingerprint used for the canonical↔AMP
// diff.
func snapshotPage(doc *goquery.Document, pageURL string) AMPPageSnapshot {
	baseHost := ""
	if u, err := normalizeURL(pageURL); err == nil {
		baseHost = u.Hostname()
	}

	internal := 0
	if base, err := normalizeURL(pageURL); err == nil {
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			if resolved := resolveHref(base, s.AttrOr("href", "")); resolved != nil && resolved.Hostname() == baseHost {
				internal++
			}
		})
	}

	return AMPPageSnapshot{
		URL:             pageURL,
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription: strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")),
		WordCount:       len(strings.Fields(doc.Find("body").Text())),
		H1:              strings.TrimSpace(doc.Find("h1").First().Text()),
		Canonical:       doc.Find(`link[rel="canonical"]`).AttrOr("href", ""),
		StructuredData:  doc.Find(`script[type="application/ld+json"]`).Length() > 0,
		ImgCount:        doc.Find("img, amp-img").Length(),
		InternalLinks:   internal,
	}
}

// compareSnapshots diffs the canonical and AMP fingerprints. Critical diffs
// cost 25 equivalence points, warnings 10; info diffs are advisory only.
func compareSnapshots(canonical, amp AMPPageSnapshot, canonicalURL string) *AMPComparison {
	diffs := []AMPDiff{}

	if canonical.Title != amp.Title {
		diffs = append(diffs, AMPDiff{
			Field: "Title", Canonical: canonical.Title, AMP: amp.Title,
			Severity: "critical",
			Message:  "Title mismatch between canonical and AMP page — affects SEO consistency",
		})
	}
	if canonical.MetaDescription != amp.MetaDescription {
		diffs = append(diffs, AMPDiff{
			Field: "Meta Description", Canonical: canonical.MetaDescription, AMP: amp.MetaDescription,
			Severity: "warning",
			Message:  "Meta description differs — keep consistent for unified SERP appearance",
		})
	}
	if canonical.H1 != amp.H1 {
		diffs = append(diffs, AMPDiff{
			Field: "H1", Canonical: canonical.H1, AMP: amp.H1,
			Severity: "critical",
			Message:  "H1 mismatch — main heading should be identical on both versions",
		})
	}
	if amp.Canonical != canonicalURL {
		diffs = append(diffs, AMPDiff{
			Field: "AMP Canonical", Canonical: canonicalURL, AMP: amp.Canonical,
			Severity: "critical",
			Message:  "AMP page canonical must point to the non-AMP URL",
		})
	}

	wordPct := 0.0
	if canonical.WordCount > 0 {
		wordPct = math.Abs(float64(canonical.WordCount-amp.WordCount)) / float64(canonical.WordCount) * 100
	}
	if wordPct > 20 {
		severity := "warning"
		if wordPct > 40 {
			severity = "critical"
		}
		diffs = append(diffs, AMPDiff{
			Field: "Word Count", Canonical: fmt.Sprint(canonical.WordCount), AMP: fmt.Sprint(amp.WordCount),
			Severity: severity,
			Message:  fmt.Sprintf("Content parity issue: %d%% word count difference — AMP should mirror canonical content", int(wordPct+0.5)),
		})
	}
	if canonical.StructuredData != amp.StructuredData {
		diffs = append(diffs, AMPDiff{
			Field: "Structured Data", Canonical: fmt.Sprint(canonical.StructuredData), AMP: fmt.Sprint(amp.StructuredData),
			Severity: "warning",
			Message:  "Structured data presence differs — duplicate on AMP for full rich result coverage",
		})
	}
	if linkDiff := abs(canonical.InternalLinks - amp.InternalLinks); linkDiff > 5 {
		diffs = append(diffs, AMPDiff{
			Field: "Internal Links", Canonical: fmt.Sprint(canonical.InternalLinks), AMP: fmt.Sprint(amp.InternalLinks),
			Severity: "info",
			Message:  fmt.Sprintf("Link count differs by %d — some variation is normal but avoid hiding navigation", linkDiff),
		})
	}

	critical, warning := 0, 0
	for _, d := range diffs {
		switch d.Severity {
		case "critical":
			critical++
		case "warning":
			warning++
		}
	}

	return &AMPComparison{
		Canonical:      canonical,
		AMP:            amp,
		Differences:    diffs,
		ContentParity:  clampScore(100 - wordPct),
		SEOEquivalence: clampScore(float64(100 - critical*25 - warning*10)),
	}
}

func headOf(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Intent classification signal tables. Each hit adds the listed weight to
// its bucket; the dominant bucket wins.
var (
	navigationalPaths = []string{
		"/login", "/signin", "/sign-in", "/account", "/dashboard",
		"/cart", "/checkout", "/pricing", "/plans",
	}
	transactionalWords = []string{
		"buy", "purchase", "checkout", "order", "add to cart", "subscribe",
		"book", "get started", "start free trial", "free trial", "coupon",
		"discount", "offer", "price", "pricing", "plans",
	}
	commercialWords = []string{
		"best", "top", "vs", "compare", "comparison", "review", "reviews",
		"alternatives", "features", "pricing", "plans", "cheap",
	}
	informationalWords = []string{
		"what is", "how to", "guide", "tutorial", "learn", "explained",
		"meaning", "definition", "tips", "examples", "benefits",
	}
)

// genericAnchors are anchor texts that carry no topical signal.
var genericAnchors = map[string]bool{
	"click here": true, "here": true, "read more": true, "learn more": true,
	"more": true, "this": true, "link": true, "view": true, "see more": true,
	"details": true, "continue": true, "explore": true,
}

var entityLegalSuffixes = []string{"Inc", "LLC", "Ltd", "Corp", "GmbH", "Co", "Company", "Group"}

var monthNames = map[string]bool{
	"January": true, "February": true, "March": true, "April": true,
	"May": true, "June": true, "July": true, "August": true,
	"September": true, "October": true, "November": true, "December": true,
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

const (
	serpTitlePixelBudget = 580
	serpDescPixelBudget  = 920
)

// AnalyzeIntelligence runs the content-intelligence layer: search intent,
// entity coverage, E-E-A-T signals, internal link quality and SERP preview.
// It is DOM-only and never touches the network.
func AnalyzeIntelligence(doc *goquery.Document, html, pageURL string) IntelligenceReport {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	metaDesc := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	h1 := strings.TrimSpace(doc.Find("h1").First().Text())

	intent := classifyIntent(doc, title, metaDesc, h1, pageURL)
	entities := extractEntities(doc, title, h1)
	eeat := assessEEAT(doc)
	linkQuality := assessLinkQuality(doc)
	serp := buildSerpPreview(title, metaDesc)

	intentProxy := 70
	if intent.MismatchRisk == "low" {
		intentProxy = 85
	}

	score := clampScore(
		float64(entities.CoverageScore)*0.28 +
			float64(eeat.Score)*0.28 +
			float64(linkQuality.Score)*0.22 +
			float64(intentProxy)*0.22)

	return IntelligenceReport{
		Score:       score,
		Intent:      intent,
		Entities:    entities,
		EEAT:        eeat,
		LinkQuality: linkQuality,
		Serp:        serp,
	}
}

// AnalyzeIntelligenceURL fetches rawURL and runs just the intelligence
// layer over it.
func (a *Analyzer) AnalyzeIntelligenceURL(ctx context.Context, rawURL string) (IntelligenceReport, error) {
	parsed, err := normalizeURL(rawURL)
	if err != nil {
		return IntelligenceReport{}, err
	}
	html, _, err := a.fetchPage(ctx, parsed.String(), pageFetchTimeout)
	if err != nil {
		return IntelligenceReport{}, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return IntelligenceReport{}, fmt.Errorf("parse HTML: %w", err)
	}
	return AnalyzeIntelligence(doc, html, parsed.String()), nil
}

func classifyIntent(doc *goquery.Document, title, metaDesc, h1, pageURL string) IntentReport {
	bag := strings.ToLower(title + " " + metaDesc + " " + h1 + " " + pageURL)

	scores := IntentScores{}
	if u, err := url.Parse(pageURL); err == nil {
		path := strings.ToLower(u.Path)
		for _, p := range navigationalPaths {
			if strings.Contains(path, p) {
				scores.Navigational += 2
			}
		}
	}
	for _, w := range transactionalWords {
		if strings.Contains(bag, w) {
			scores.Transactional += 2
		}
	}
	for _, w := range commercialWords {
		if strings.Contains(bag, w) {
			scores.Commercial++
		}
	}
	for _, w := range informationalWords {
		if strings.Contains(bag, w) {
			scores.Informational += 2
		}
	}
	if doc.Find("form").Length() > 0 {
		scores.Transactional++
	}
	hasCartCTA := false
	doc.Find("button, a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.Text()), "add to cart") {
			hasCartCTA = true
			return false
		}
		return true
	})
	if hasCartCTA {
		scores.Transactional += 2
	}

	type bucket struct {
		name  string
		score int
	}
	buckets := []bucket{
		{"informational", scores.Informational},
		{"commercial", scores.Commercial},
		{"transactional", scores.Transactional},
		{"navigational", scores.Navigational},
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].score > buckets[j].score })

	intent := buckets[0].name
	mixed := buckets[0].score == 0 ||
		(buckets[1].score > 0 && buckets[0].score-buckets[1].score <= 1)
	if mixed {
		intent = "mixed"
	}

	risk := "low"
	switch {
	case mixed:
		risk = "medium"
	case buckets[0].score <= 2:
		risk = "medium"
	}

	return IntentReport{Intent: intent, Scores: scores, MismatchRisk: risk}
}

func extractEntities(doc *goquery.Document, title, h1 string) EntityReport {
	text := visibleText(doc)
	candidates, uniqueCount := extractEntityCandidates(text)

	siteName := strings.TrimSpace(doc.Find(`meta[property="og:site_name"]`).AttrOr("content", ""))
	for i := range candidates {
		candidates[i].Type = classifyEntity(candidates[i].Name, siteName, h1)
	}

	coverage := entityCoverageScore(uniqueCount)

	hints := []string{}
	if uniqueCount < 6 {
		hints = append(hints, "Few named entities detected — mention relevant people, products, places or organizations explicitly")
	}
	if uniqueCount < 15 {
		hints = append(hints, "Add specific proper nouns (brands, locations, standards) to strengthen topical authority")
	}
	if siteName == "" {
		hints = append(hints, "Set og:site_name so search engines can associate content with your brand entity")
	}
	if title != "" && len(candidates) > 0 && !strings.Contains(title, candidates[0].Name) {
		hints = append(hints, fmt.Sprintf("Top entity %q does not appear in the title — consider aligning them", candidates[0].Name))
	}

	return EntityReport{
		TopEntities:   candidates,
		UniqueCount:   uniqueCount,
		CoverageScore: coverage,
		Hints:         hints,
	}
}

// classifyEntity assigns a coarse type from surface features only; no
// knowledge base is consulted.
func classifyEntity(name, siteName, h1 string) string {
	words := strings.Fields(name)
	last := words[len(words)-1]

	for _, suffix := range entityLegalSuffixes {
		if last == suffix {
			return "organization"
		}
	}
	if monthNames[words[0]] {
		return "time"
	}
	if siteName != "" && strings.EqualFold(name, siteName) {
		return "brand"
	}
	if h1 != "" && strings.Contains(h1, name) {
		return "concept"
	}
	return "other"
}

func assessEEAT(doc *goquery.Document) EEATReport {
	sdTypes := structuredDataTypes(doc)
	hasType := func(names ...string) bool {
		for _, t := range sdTypes {
			for _, n := range names {
				if strings.EqualFold(t, n) {
					return true
				}
			}
		}
		return false
	}

	hrefContains := func(fragments ...string) bool {
		found := false
		doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href := strings.ToLower(s.AttrOr("href", ""))
			for _, f := range fragments {
				if strings.Contains(href, f) {
					found = true
					return false
				}
			}
			return true
		})
		return found
	}

	citations := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		text := strings.ToLower(s.Text())
		if strings.Contains(text, "source") || strings.Contains(text, "study") ||
			strings.Contains(text, "report") || strings.Contains(text, "research") {
			citations++
		}
	})

	signals := EEATSignals{
		HasAuthorMeta: doc.Find(`meta[name="author"]`).Length() > 0 ||
			doc.Find(`[rel="author"]`).Length() > 0,
		HasArticleSchema: hasType("Article", "NewsArticle", "BlogPosting"),
		HasOrgSchema:     hasType("Organization"),
		HasAbout:         hrefContains("/about"),
		HasContact:       hrefContains("/contact"),
		HasPolicy:        hrefContains("privacy", "/terms", "policy"),
		HasReviews:       hasType("Review", "AggregateRating"),
		CitationsCount:   citations,
	}

	score := 0
	gaps := []string{}
	if signals.HasAuthorMeta {
		score += 10
	} else {
		gaps = append(gaps, "No author attribution — add an author meta tag or rel=author link")
	}
	if signals.HasArticleSchema {
		score += 20
	} else {
		gaps = append(gaps, "No Article/BlogPosting schema — structured authorship builds trust")
	}
	if signals.HasOrgSchema {
		score += 15
	} else {
		gaps = append(gaps, "No Organization schema — identify the publisher entity")
	}
	if signals.HasAbout {
		score += 10
	} else {
		gaps = append(gaps, "No About page linked — establishes who is behind the content")
	}
	if signals.HasContact {
		score += 10
	} else {
		gaps = append(gaps, "No Contact page linked — a reachable publisher signals accountability")
	}
	if signals.HasPolicy {
		score += 10
	} else {
		gaps = append(gaps, "No privacy/terms link found")
	}
	if signals.HasReviews {
		score += 10
	} else {
		gaps = append(gaps, "No review/rating markup found")
	}
	if citations >= 2 {
		score += 15
	} else {
		gaps = append(gaps, "Few outbound citations — link to sources, studies or reports")
	}

	return EEATReport{Score: clampScore(float64(score)), Signals: signals, Gaps: gaps}
}

func assessLinkQuality(doc *goquery.Document) LinkQualityReport {
	anchorCounts := map[string]int{}
	total := 0
	navFooter := 0
	generic := 0

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		text := strings.ToLower(normalizeWhitespace(s.Text()))
		if text == "" {
			return
		}
		total++
		anchorCounts[text]++
		if genericAnchors[text] {
			generic++
		}
		if s.Closest("nav, header, footer").Length() > 0 {
			navFooter++
		}
	})

	contextual := total - navFooter

	diversity := 0
	genericRatio := 0
	if total > 0 {
		diversity = int(float64(len(anchorCounts)) / float64(total) * 100)
		genericRatio = int(float64(generic) / float64(total) * 100)
	}

	// Contextual depth, anchor diversity and non-generic anchors each carry a
	// fixed share of the link quality score.
	contextualPart := 40.0
	if contextual < 10 {
		contextualPart = float64(contextual) * 4
	}
	diversityPart := 30.0
	if diversity < 60 {
		diversityPart = float64(diversity) / 60 * 30
	}
	genericPart := 30.0
	if genericRatio > 10 {
		genericPart = float64(30 - (genericRatio-10)*2)
		if genericPart < 0 {
			genericPart = 0
		}
	}

	type anchorFreq struct {
		text  string
		count int
	}
	freqs := make([]anchorFreq, 0, len(anchorCounts))
	for text, count := range anchorCounts {
		freqs = append(freqs, anchorFreq{text, count})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].count != freqs[j].count {
			return freqs[i].count > freqs[j].count
		}
		return freqs[i].text < freqs[j].text
	})
	if len(freqs) > 8 {
		freqs = freqs[:8]
	}
	topAnchors := make([]AnchorText, 0, len(freqs))
	for _, f := range freqs {
		topAnchors = append(topAnchors, AnchorText{Text: f.text, Count: f.count})
	}

	hints := []string{}
	if contextual < 10 {
		hints = append(hints, "Few contextual (in-content) links — link related pages from body copy, not just navigation")
	}
	if genericRatio > 10 {
		hints = append(hints, `Too many generic anchors ("click here", "read more") — use descriptive anchor text`)
	}
	if diversity < 60 && total > 0 {
		hints = append(hints, "Low anchor text diversity — repeated identical anchors dilute relevance signals")
	}

	return LinkQualityReport{
		Score:              clampScore(contextualPart + diversityPart + genericPart),
		Totals:             LinkTotals{Total: total, Contextual: contextual, NavFooter: navFooter},
		AnchorDiversity:    diversity,
		GenericAnchorRatio: genericRatio,
		TopAnchors:         topAnchors,
		Hints:              hints,
	}
}

func buildSerpPreview(title, metaDesc string) SerpPreviewReport {
	titlePixels := approxPixelWidth(title)
	descPixels := approxPixelWidth(metaDesc)

	return SerpPreviewReport{
		Title:                     title,
		MetaDescription:           metaDesc,
		TitlePixels:               titlePixels,
		TitleMaxPixels:            serpTitlePixelBudget,
		TitleTruncationRisk:       truncationRisk(titlePixels, serpTitlePixelBudget),
		DescriptionPixels:         descPixels,
		DescriptionMaxPixels:      serpDescPixelBudget,
		DescriptionTruncationRisk: truncationRisk(descPixels, serpDescPixelBudget),
	}
}

func truncationRisk(pixels, budget int) string {
	switch {
	case float64(pixels) <= float64(budget)*0.90:
		return "low"
	case float64(pixels) <= float64(budget)*1.05:
		return "medium"
	default:
		return "high"
	}
}

// visibleText approximates the rendered text of a page: the body with
// non-content subtrees stripped.
func visibleText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, svg, canvas, iframe").Remove()
	return normalizeWhitespace(body.Text())
}

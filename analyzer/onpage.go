package analyzer

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// analyzeOnPage scores the classic on-page tags: title, meta description,
// heading hierarchy, image alt coverage, keyword distribution and link
// counts. The composite score is the mean of the first four checks.
func analyzeOnPage(p *page) OnPageSEO {
	title := analyzeTitle(p.doc)
	meta := analyzeMetaDescription(p.doc)
	headings := analyzeHeadings(p.doc)
	images := analyzeImages(p.doc)
	keywords := analyzeKeywords(p.doc)
	links := countLinks(p)

	composite := float64(title.Score+meta.Score+headings.Score+images.Score) / 4

	return OnPageSEO{
		Score:           clampScore(composite),
		Title:           title,
		MetaDescription: meta,
		Headings:        headings,
		Images:          images,
		Keywords:        keywords,
		Links:           links,
	}
}

func analyzeTitle(doc *goquery.Document) TitleCheck {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	length := utf8.RuneCountInString(title)
	issues := []string{}
	score := 100

	if title == "" {
		issues = append(issues, "Missing <title> tag — critical SEO issue")
		score = 0
	} else if length < 30 {
		issues = append(issues, fmt.Sprintf("Title too short (%d chars). Aim for 50–60.", length))
		score -= 35
	} else if length > 60 {
		issues = append(issues, fmt.Sprintf("Title too long (%d chars). Google truncates past 60.", length))
		score -= 25
	}

	return TitleCheck{Content: title, Length: length, Issues: issues, Score: clampScore(float64(score))}
}

func analyzeMetaDescription(doc *goquery.Document) TitleCheck {
	content, exists := doc.Find(`meta[name="description"]`).Attr("content")
	content = strings.TrimSpace(content)
	length := utf8.RuneCountInString(content)
	issues := []string{}
	score := 100

	if !exists || content == "" {
		issues = append(issues, "Missing meta description — major ranking signal")
		score = 0
	} else if length < 120 {
		issues = append(issues, fmt.Sprintf("Meta too short (%d chars). Aim 150–160.", length))
		score -= 30
	} else if length > 160 {
		issues = append(issues, fmt.Sprintf("Meta too long (%d chars). Google truncates at 160.", length))
		score -= 15
	}

	return TitleCheck{Content: content, Length: length, Issues: issues, Score: clampScore(float64(score))}
}

func headingTexts(doc *goquery.Document, selector string) []string {
	texts := []string{}
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			texts = append(texts, t)
		}
	})
	return texts
}

func analyzeHeadings(doc *goquery.Document) HeadingsCheck {
	h1 := headingTexts(doc, "h1")
	h2 := headingTexts(doc, "h2")
	h3 := headingTexts(doc, "h3")
	h4 := headingTexts(doc, "h4")
	issues := []string{}
	score := 100

	if len(h1) == 0 {
		issues = append(issues, "No H1 tag — every page needs exactly one H1")
		score -= 40
	}
	if len(h1) > 1 {
		issues = append(issues, fmt.Sprintf("Multiple H1s (%d). Use only one for clear hierarchy.", len(h1)))
		score -= 20
	}
	if len(h2) == 0 {
		issues = append(issues, "No H2 tags — add subheadings for structure & crawlability")
		score -= 15
	}
	if len(h2) == 1 {
		// advisory only, no deduction
		issues = append(issues, "Only 1 H2 — consider adding more subheadings")
	}

	return HeadingsCheck{H1: h1, H2: h2, H3: h3, H4: h4, Issues: issues, Score: clampScore(float64(score))}
}

func analyzeImages(doc *goquery.Document) ImagesCheck {
	imgs := doc.Find("img")
	total := imgs.Length()
	withAlt, withoutAlt, large := 0, 0, 0

	imgs.Each(func(_ int, s *goquery.Selection) {
		if alt, ok := s.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			withAlt++
		} else {
			withoutAlt++
		}
		w, _ := strconv.Atoi(s.AttrOr("width", "0"))
		h, _ := strconv.Atoi(s.AttrOr("height", "0"))
		if w > 1500 || h > 1500 {
			large++
		}
	})

	issues := []string{}
	score := 100
	if withoutAlt > 0 {
		issues = append(issues, fmt.Sprintf("%d image(s) missing alt text — hurts accessibility & SEO", withoutAlt))
		penalty := withoutAlt * 8
		if penalty > 60 {
			penalty = 60
		}
		score -= penalty
	}
	if large > 0 {
		issues = append(issues, fmt.Sprintf("%d potentially oversized image(s) — resize & compress", large))
		score -= 10
	}
	if total == 0 {
		issues = append(issues, "No images found — visual content improves engagement")
	}

	return ImagesCheck{
		Total: total, WithAlt: withAlt, WithoutAlt: withoutAlt, LargeImages: large,
		Issues: issues, Score: clampScore(float64(score)),
	}
}

func analyzeKeywords(doc *goquery.Document) KeywordsCheck {
	words := tokenizeWords(doc.Find("body").Text())
	top := rankKeywords(words, 20)
	if top == nil {
		top = []Keyword{}
	}

	score := 100
	if len(words) <= 300 {
		score = clampScore(float64(len(words)) / 300 * 100)
	}
	return KeywordsCheck{TopKeywords: top, Score: score}
}

// countLinks classifies every anchor by hostname against the page's own
// hostname. Unparseable hrefs are skipped entirely (counted neither way).
func countLinks(p *page) LinkCountsCheck {
	links := LinkCountsCheck{Issues: []string{}}
	base := p.url.Hostname()

	p.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(s.AttrOr("rel", ""), "nofollow") {
			links.Nofollow++
		}
		resolved := resolveHref(p.url, s.AttrOr("href", ""))
		if resolved == nil {
			return
		}
		if resolved.Hostname() == base {
			links.Internal++
		} else {
			links.External++
		}
	})
	return links
}

// resolveHref resolves href against the page URL, returning nil for
// malformed values.
func resolveHref(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil
	}
	return base.ResolveReference(ref)
}

package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// crawlLinkSampleSize limits how many internal links the report carries for
// display.
const crawlLinkSampleSize = 30

// analyzeCrawl derives indexability from the robots meta directives and
// checks canonical self-consistency. Broken-link and redirect-chain fields
// are part of the wire shape but stay empty; resolving them would need a
// crawl beyond this single page.
func analyzeCrawl(p *page, internalLinkCount int) CrawlSEO {
	doc := p.doc

	robotsMeta := doc.Find(`meta[name="robots"]`).AttrOr("content", "")
	robotsBlocked := strings.Contains(robotsMeta, "noindex")
	nofollowPage := strings.Contains(robotsMeta, "nofollow")
	indexable := !robotsBlocked

	canonical := doc.Find(`link[rel="canonical"]`).AttrOr("href", "")
	canonicalCorrect := canonical == "" ||
		canonical == p.rawURL ||
		canonical == strings.TrimSuffix(p.rawURL, "/")

	paginationTags := doc.Find(`link[rel="next"], link[rel="prev"]`).Length() > 0
	ampVersion := doc.Find(`link[rel="amphtml"]`).AttrOr("href", "") != "" ||
		doc.Find("html[amp]").Length() > 0

	base := p.url.Hostname()
	sample := []CrawlLink{}
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		resolved := resolveHref(p.url, s.AttrOr("href", ""))
		if resolved == nil || resolved.Hostname() != base {
			return true
		}
		text := strings.TrimSpace(s.Text())
		if len(text) > 60 {
			text = text[:60]
		}
		sample = append(sample, CrawlLink{
			Href: resolved.String(),
			Text: text,
			Rel:  s.AttrOr("rel", ""),
		})
		return len(sample) < crawlLinkSampleSize
	})

	issues := []string{}
	score := 100
	if !indexable {
		issues = append(issues, "Page has noindex — Google will NOT index this page")
		score -= 50
	}
	if nofollowPage {
		issues = append(issues, "nofollow on page — PageRank not passing through links")
		score -= 20
	}
	if !canonicalCorrect {
		issues = append(issues, "Canonical URL mismatch — may cause duplicate content")
		score -= 20
	}
	if !paginationTags && internalLinkCount > 50 {
		issues = append(issues, "No rel=next/prev for pagination — consider adding")
	}
	if internalLinkCount < 3 {
		issues = append(issues, "Very few internal links — add more for better crawlability")
		score -= 15
	}

	return CrawlSEO{
		Score:            clampScore(float64(score)),
		Indexable:        indexable,
		RobotsBlocked:    robotsBlocked,
		NofollowPage:     nofollowPage,
		CanonicalCorrect: canonicalCorrect,
		InternalLinks:    sample,
		BrokenLinks:      []string{},
		RedirectChains:   []string{},
		PaginationTags:   paginationTags,
		AMPVersion:       ampVersion,
		Issues:           issues,
	}
}

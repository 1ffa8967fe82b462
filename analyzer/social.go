package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// analyzeSocial reads the Open Graph and Twitter Card tags into suffix-keyed
// maps and scores their completeness.
func analyzeSocial(p *page) SocialSEO {
	og := map[string]string{}
	p.doc.Find(`meta[property^="og:"]`).Each(func(_ int, s *goquery.Selection) {
		prop := s.AttrOr("property", "")
		og[strings.TrimPrefix(prop, "og:")] = s.AttrOr("content", "")
	})

	tw := map[string]string{}
	p.doc.Find(`meta[name^="twitter:"]`).Each(func(_ int, s *goquery.Selection) {
		name := s.AttrOr("name", "")
		tw[strings.TrimPrefix(name, "twitter:")] = s.AttrOr("content", "")
	})

	issues := []string{}
	score := 100
	if og["title"] == "" {
		issues = append(issues, "Missing og:title — social shares will look broken")
		score -= 25
	}
	if og["description"] == "" {
		issues = append(issues, "Missing og:description — poor social preview")
		score -= 20
	}
	if og["image"] == "" {
		issues = append(issues, "Missing og:image — no image in social shares")
		score -= 25
	}
	if tw["card"] == "" {
		issues = append(issues, "No Twitter Card meta — tweets will show plain link")
		score -= 15
	}

	return SocialSEO{
		Score:              clampScore(float64(score)),
		OGTitle:            og["title"],
		OGDescription:      og["description"],
		OGImage:            og["image"],
		OGType:             og["type"],
		TwitterCard:        tw["card"],
		TwitterTitle:       tw["title"],
		TwitterDescription: tw["description"],
		TwitterImage:       tw["image"],
		Issues:             issues,
	}
}

package analyzer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// stopWords filters connective/common English words out of keyword and
// density statistics. Matching tokens are already lowercased.
var stopWords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "have": {}, "from": {}, "they": {},
	"been": {}, "were": {}, "their": {}, "there": {}, "what": {}, "when": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "which": {}, "about": {},
	"these": {}, "those": {}, "then": {}, "than": {}, "into": {}, "your": {},
	"more": {}, "also": {}, "some": {}, "such": {}, "only": {}, "other": {},
	"after": {}, "before": {}, "between": {}, "very": {}, "just": {}, "make": {},
	"know": {}, "time": {}, "over": {}, "even": {}, "most": {}, "well": {},
	"back": {}, "come": {}, "does": {}, "here": {}, "each": {}, "much": {},
	"many": {}, "them": {}, "itself": {},
}

// closedClassWords are capitalized function words that never form an entity
// on their own (articles, pronouns, conjunctions, auxiliaries). Lowercased.
var closedClassWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"it": {}, "he": {}, "she": {}, "they": {}, "we": {}, "you": {}, "i": {},
	"and": {}, "or": {}, "but": {}, "if": {}, "then": {}, "so": {}, "as": {},
	"at": {}, "by": {}, "for": {}, "from": {}, "in": {}, "of": {}, "on": {},
	"to": {}, "with": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"not": {}, "no": {}, "our": {}, "your": {}, "their": {}, "his": {}, "her": {},
	"its": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"how": {}, "why": {}, "will": {}, "would": {}, "can": {}, "could": {},
	"should": {}, "may": {}, "do": {}, "does": {}, "did": {}, "have": {},
	"has": {}, "had": {}, "there": {}, "here": {},
}

var (
	wordPattern   = regexp.MustCompile(`\b[a-z]{4,}\b`)
	entityPattern = regexp.MustCompile(`[A-Z][a-z]+(?: [A-Z][a-z]+){0,3}`)
)

// maxEntityCandidates caps how many aggregated entities are reported.
const maxEntityCandidates = 25

// normalizeWhitespace collapses whitespace runs to single spaces and trims.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tokenizeWords lowercases the text, keeps alphabetic runs of four or more
// characters and drops stop words.
func tokenizeWords(text string) []string {
	matches := wordPattern.FindAllString(strings.ToLower(text), -1)
	words := make([]string, 0, len(matches))
	for _, w := range matches {
		if _, skip := stopWords[w]; skip {
			continue
		}
		words = append(words, w)
	}
	return words
}

// TopKeywords frequency-ranks the filtered words of text and returns up to
// limit entries. Density is count/totalFilteredWords*100 rounded to two
// decimals. Ties keep first-seen order.
func TopKeywords(text string, limit int) []Keyword {
	return rankKeywords(tokenizeWords(text), limit)
}

func rankKeywords(words []string, limit int) []Keyword {
	total := len(words)
	if total == 0 {
		return nil
	}

	counts := make(map[string]int, total)
	order := make(map[string]int, total)
	for i, w := range words {
		if _, seen := counts[w]; !seen {
			order[w] = i
		}
		counts[w]++
	}

	unique := make([]string, 0, len(counts))
	for w := range counts {
		unique = append(unique, w)
	}
	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return order[unique[i]] < order[unique[j]]
	})

	if len(unique) > limit {
		unique = unique[:limit]
	}
	keywords := make([]Keyword, 0, len(unique))
	for _, w := range unique {
		density := float64(counts[w]) / float64(total) * 100
		keywords = append(keywords, Keyword{
			Word:    w,
			Count:   counts[w],
			Density: round2(density),
		})
	}
	return keywords
}

// extractEntityCandidates finds sequences of one to four consecutive
// capitalized words and aggregates them by exact string. Candidates whose
// every component word is a closed-class function word are discarded.
// Results are sorted by count descending, first-seen order on ties, capped
// at maxEntityCandidates. uniqueCount is the number of distinct keys before
// capping.
func extractEntityCandidates(text string) (entities []Entity, uniqueCount int) {
	matches := entityPattern.FindAllString(text, -1)

	counts := make(map[string]int)
	order := make(map[string]int)
	for i, m := range matches {
		if allClosedClass(m) {
			continue
		}
		if _, seen := counts[m]; !seen {
			order[m] = i
		}
		counts[m]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return order[names[i]] < order[names[j]]
	})

	uniqueCount = len(names)
	if len(names) > maxEntityCandidates {
		names = names[:maxEntityCandidates]
	}
	for _, name := range names {
		entities = append(entities, Entity{Name: name, Count: counts[name]})
	}
	return entities, uniqueCount
}

func allClosedClass(candidate string) bool {
	for _, w := range strings.Fields(candidate) {
		if _, ok := closedClassWords[strings.ToLower(w)]; !ok {
			return false
		}
	}
	return true
}

// entityCoverageScore maps the number of distinct entities to a 0-100 score.
//
//	>=25 -> 95, >=15 -> 85, >=10 -> 75, >=6 -> 60, >=3 -> 45, else 30
func entityCoverageScore(uniqueCount int) int {
	switch {
	case uniqueCount >= 25:
		return 95
	case uniqueCount >= 15:
		return 85
	case uniqueCount >= 10:
		return 75
	case uniqueCount >= 6:
		return 60
	case uniqueCount >= 3:
		return 45
	default:
		return 30
	}
}

// approxPixelWidth estimates the rendered width of text using a coarse
// per-character lookup. It is a deterministic proxy for SERP truncation
// checks, not a font-accurate measurement.
func approxPixelWidth(text string) int {
	width := 0
	for _, r := range text {
		switch {
		case r == 'm' || r == 'w' || r == 'M' || r == 'W':
			width += 10
		case r == 'i' || r == 'l' || r == 'I' || r == '|':
			width += 4
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			width += 9
		case unicode.IsSpace(r):
			width += 3
		default:
			width += 7
		}
	}
	return width
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func clampScore(n float64) int {
	r := int(n + 0.5)
	if n < 0 {
		r = int(n - 0.5)
	}
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

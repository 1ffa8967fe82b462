package analyzer

import (
	"fmt"
	"math"
	"strings"
)

// assumedSyllablesPerWord is the fixed constant in the Flesch approximation;
// counting real syllables is not worth the cost for a coarse band label.
const assumedSyllablesPerWord = 1.5

// analyzeContent measures word and paragraph counts, a Flesch-style
// readability approximation and the text-to-markup ratio.
func analyzeContent(p *page) ContentSEO {
	bodyText := p.doc.Find("body").Text()
	words := strings.Fields(bodyText)
	wordCount := len(words)
	paragraphs := p.doc.Find("p").Length()

	sentences := 0
	for _, frag := range strings.FieldsFunc(bodyText, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if len(strings.TrimSpace(frag)) > 10 {
			sentences++
		}
	}

	avgSentenceLen := 0.0
	if sentences > 0 {
		avgSentenceLen = float64(wordCount) / float64(sentences)
	}

	flesch := 206.835 - 1.015*avgSentenceLen - 84.6*assumedSyllablesPerWord
	readability := clampScore(flesch)
	grade := "Difficult"
	switch {
	case readability >= 70:
		grade = "Easy"
	case readability >= 60:
		grade = "Standard"
	case readability >= 50:
		grade = "Fairly Difficult"
	}

	codeRatio := 0
	if len(p.html) > 0 {
		codeRatio = clampScore(float64(wordCount) * 6 / float64(len(p.html)) * 100)
	}

	issues := []string{}
	score := 100
	if wordCount < 300 {
		issues = append(issues, fmt.Sprintf("Low word count (%d). Aim for 600+ for better rankings", wordCount))
		score -= 40
	} else if wordCount < 600 {
		issues = append(issues, fmt.Sprintf("Moderate word count (%d). 600+ is better for competitive topics", wordCount))
		score -= 15
	}
	if paragraphs < 3 {
		issues = append(issues, "Very few paragraphs — structure content better")
		score -= 15
	}
	if codeRatio < 10 {
		issues = append(issues, "Low text-to-code ratio — too much code relative to content")
		score -= 10
	}

	return ContentSEO{
		Score:              clampScore(float64(score)),
		WordCount:          wordCount,
		ParagraphCount:     paragraphs,
		ReadabilityScore:   readability,
		ReadabilityGrade:   grade,
		AvgSentenceLength:  math.Round(avgSentenceLen*10) / 10,
		ContentToCodeRatio: codeRatio,
		DuplicateContent:   false,
		Issues:             issues,
	}
}

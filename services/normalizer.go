package services

import (
	"regexp"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	markupTagRegex  = regexp.MustCompile(`<[^>]+>`)
)

// NormalizeText lower-cases, collapses runs of whitespace to a single space
// and trims. Total function: empty input yields the empty string.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	return strings.ToLower(whitespaceRegex.ReplaceAllString(strings.TrimSpace(text), " "))
}

// SanitizeText cleans a fragment for display or storage. Case is preserved;
// angle-bracket markup (e.g. JATS tags in Crossref abstracts) is stripped,
// whole lines of copyright boilerplate are dropped and whitespace is
// collapsed. Not used before fingerprinting.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}
	text = markupTagRegex.ReplaceAllString(text, " ")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "copyright") || strings.Contains(lower, "all rights reserved") {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, "\n")

	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// TrimToLastSentence truncates the text at the last sentence-ending
// punctuation mark. Texts without one are returned unchanged; this handles
// LLM output cut off mid-sentence by a token limit.
func TrimToLastSentence(text string) string {
	if text == "" {
		return text
	}
	last := -1
	for _, punc := range []string{".", "?", "!"} {
		if idx := strings.LastIndex(text, punc); idx > last {
			last = idx
		}
	}
	if last == -1 {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:last+1])
}

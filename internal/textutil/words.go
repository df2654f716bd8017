package textutil

import (
	"regexp"
	"strings"
)

// wordPattern matches alphanumeric runs. Punctuation-only fragments such as
// "&" or "!" are not words, so "AT&T" counts as two.
var wordPattern = regexp.MustCompile(`\b[a-zA-Z0-9]+\b`)

// Words returns the alphanumeric word tokens of text, in order.
func Words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// WordCount returns the number of alphanumeric words in text.
// Empty and punctuation-only strings count zero.
func WordCount(text string) int {
	return len(wordPattern.FindAllString(text, -1))
}

// CollapseWhitespace trims text and folds internal whitespace runs, including
// non-breaking spaces common in scraped HTML cells, into single spaces.
func CollapseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

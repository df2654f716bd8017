package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// FoldKey returns a case-folded form of text suitable for caseless comparison.
func FoldKey(text string) string {
	return foldCaser.String(strings.TrimSpace(text))
}

// ContainsFold reports whether needle occurs within haystack under Unicode
// case folding. An empty needle never matches.
func ContainsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return false
	}
	return strings.Contains(foldCaser.String(haystack), foldCaser.String(needle))
}

// EqualFold reports whether a and b are equal under Unicode case folding
// after trimming surrounding whitespace.
func EqualFold(a, b string) bool {
	return FoldKey(a) == FoldKey(b)
}

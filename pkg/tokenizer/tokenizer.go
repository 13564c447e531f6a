// Package tokenizer estimates model token counts for plain text.
package tokenizer

import (
	"strings"
	"unicode"
)

// Count estimates the token count of text at roughly four tokens per three
// words. Empty text counts as zero.
func Count(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return max(words*4/3, 1)
}

// Truncate returns the longest prefix of text whose estimate does not exceed
// limit, cut on a word boundary. The second result reports whether anything
// was dropped.
func Truncate(text string, limit int) (string, bool) {
	if limit <= 0 || Count(text) <= limit {
		return text, false
	}
	maxWords := limit * 3 / 4
	words := 0
	inWord := false
	for i, r := range text {
		space := unicode.IsSpace(r)
		if !space && !inWord {
			if words == maxWords {
				return strings.TrimRightFunc(text[:i], unicode.IsSpace), true
			}
			words++
		}
		inWord = !space
	}
	return text, false
}

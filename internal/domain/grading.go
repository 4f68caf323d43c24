package domain

import (
	"strings"
	"unicode"
)

// normalizeAnswer lowercases, collapses whitespace and strips surrounding punctuation.
func normalizeAnswer(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.TrimFunc(s, func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSpace(r) })
}

// GradeChoice compares a submitted answer with the correct one. A single
// option letter is resolved against options first.
func GradeChoice(submitted, correct string, options []string) bool {
	sub := strings.TrimSpace(submitted)
	if len(sub) == 1 {
		if idx := int(unicode.ToUpper(rune(sub[0])) - 'A'); idx >= 0 && idx < len(options) {
			sub = options[idx]
		}
	}
	return normalizeAnswer(sub) == normalizeAnswer(correct)
}

package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeText normalizes free-form user text before it reaches a prompt or a document.
// Line endings become \n, control characters other than \n and \t are dropped,
// invalid UTF-8 is replaced and surrounding whitespace is trimmed.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || r == '\u2028' || r == '\u2029' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// RuneLen reports the length of s in characters.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

package stringutils

import (
	"strings"
	"unicode"
)

// TruncateTitle truncates a title to at most maxLen characters. Titles that
// exceed the limit are hard-cut to maxLen-3 characters plus an ellipsis so
// the result never exceeds maxLen.
func TruncateTitle(title string, maxLen int) string {
	if len(title) <= maxLen {
		return title
	}

	ellipsis := "..."
	contentLimit := maxLen - len(ellipsis)
	if contentLimit < 0 {
		contentLimit = 0
	}

	return title[:contentLimit] + ellipsis
}

// StripWrappingQuotes removes a single leading and trailing quote character
// (single or double) from s.
func StripWrappingQuotes(s string) string {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}

// CapitalizeFirst upper-cases the first rune of s.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// TrimTrailingPeriod removes a single trailing period.
func TrimTrailingPeriod(s string) string {
	return strings.TrimSuffix(s, ".")
}

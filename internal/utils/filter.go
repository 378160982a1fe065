package utils

import (
	"strings"
	"unicode"
)

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsURLShaped checks if a token looks like a URL or domain rather than
// a word the user would want corrected
func IsURLShaped(s string) bool {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "www.") || strings.HasPrefix(lower, "ftp://") {
		return true
	}
	// bare domains: letters around a dot with a short tail
	if i := strings.LastIndex(lower, "."); i > 0 && i < len(lower)-1 {
		tail := lower[i+1:]
		if len(tail) >= 2 && len(tail) <= 6 && !strings.ContainsAny(lower, " ") {
			alpha := true
			for _, r := range tail {
				if !unicode.IsLetter(r) {
					alpha = false
					break
				}
			}
			return alpha
		}
	}
	return false
}

// IsAcronym checks for all-caps tokens like "NASA" or "HTML"
func IsAcronym(s string) bool {
	runes := []rune(s)
	if len(runes) < 2 {
		return false
	}
	for _, r := range runes {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// ShouldIgnoreToken decides if a committed token should bypass the
// correction pipeline entirely. Returns true for pure digits,
// URL-shaped strings, single characters and all-caps acronyms.
func ShouldIgnoreToken(s string) bool {
	if len([]rune(s)) <= 1 {
		return true
	}
	if IsOnlyNumbers(s) {
		return true
	}
	if IsURLShaped(s) {
		return true
	}
	if IsAcronym(s) {
		return true
	}
	return false
}

// IsValidCustomWord checks a word against the custom-dictionary rules:
// at least 2 runes, lowercase letters, apostrophes and hyphens only.
func IsValidCustomWord(s string) bool {
	runes := []rune(s)
	if len(runes) < 2 {
		return false
	}
	for _, r := range runes {
		if r == '\'' || r == '-' {
			continue
		}
		if !unicode.IsLetter(r) || unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// IsWordRune checks if a rune belongs inside a word buffer
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || r == '\''
}

package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var space = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace and trims the result
func CleanText(text string) string {
	return strings.TrimSpace(space.ReplaceAllString(text, " "))
}

// WordCount returns the number of whitespace separated tokens in text
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Length returns the character length of s, counted in runes
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// IsBlank reports whether s is empty or only whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// TruncateText truncates text to a maximum length, preserving word boundaries
func TruncateText(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	truncated := string([]rune(text)[:maxLength])
	lastSpace := strings.LastIndex(truncated, " ")

	if lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

// NormalizeURL drops the fragment and any trailing slash so that the same
// page always maps to one key.
func NormalizeURL(url string) string {
	if idx := strings.Index(url, "#"); idx >= 0 {
		url = url[:idx]
	}
	return strings.TrimRight(url, "/")
}

// ResolveLink joins a site-relative link onto the base URL and normalizes it
func ResolveLink(baseURL, link string) string {
	return NormalizeURL(NormalizeURL(baseURL) + link)
}

// FormatSigned renders n with an explicit plus sign when it is positive
func FormatSigned(n int64) string {
	if n > 0 {
		return "+" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

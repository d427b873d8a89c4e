package utils

import (
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// specialCharRes caches the character-class pattern per allowed set;
	// only a handful of sets ever occur.
	specialCharRes sync.Map
)

func specialCharPattern(allowed string) *regexp.Regexp {
	if cached, ok := specialCharRes.Load(allowed); ok {
		return cached.(*regexp.Regexp)
	}
	pattern := regexp.MustCompile(`[^\p{L}\p{N}_\s` + regexp.QuoteMeta(allowed) + `]`)
	actual, _ := specialCharRes.LoadOrStore(allowed, pattern)
	return actual.(*regexp.Regexp)
}

// CleanSpecialChars removes every character that is not a letter, digit,
// underscore, or whitespace, except for the punctuation listed in allowed.
// Removed characters are replaced with a space and runs of whitespace are
// collapsed, so sentence structure survives.
func CleanSpecialChars(text string, allowed string) string {
	if text == "" {
		return ""
	}

	cleaned := specialCharPattern(allowed).ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))
}

// ContainsLetter reports whether s contains at least one letter.
// Texts made of digits and symbols only are not worth learning.
func ContainsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// TruncateString shortens a string to a maximum length.
func TruncateString(s string, maxLength int) string {
	if len(s) > maxLength {
		return s[:maxLength]
	}
	return s
}

// SplitAndTrim splits a string by a separator, trimming whitespace and
// dropping empty parts.
func SplitAndTrim(s string, sep string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetEnvOrDefault returns the value of an environment variable, or a
// fallback when unset or empty.
func GetEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Package cache provides the translation result cache, keyed by
// (source language, target language, source text).
package cache

import "fmt"

// Cache stores final translations for exact-text repeat requests.
type Cache interface {
	// Get returns the cached translation and whether it was present.
	Get(sourceLang, targetLang, text string) (string, bool)
	// Set stores a translation. Failures are swallowed; the cache is an
	// optimization, never a source of truth.
	Set(sourceLang, targetLang, text, translation string)
	Close() error
}

// Key builds the cache key for a translation request.
func Key(sourceLang, targetLang, text string) string {
	return fmt.Sprintf("%s:%s:%s", sourceLang, targetLang, text)
}

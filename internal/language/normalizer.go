// Package language maps arbitrary language identifiers to canonical
// ISO 639-1 codes and English display names.
package language

import "strings"

// codeAliases maps full language names and common 3-letter codes to
// canonical 2-letter codes.
var codeAliases = map[string]string{
	"korean":     "ko",
	"english":    "en",
	"japanese":   "ja",
	"chinese":    "zh",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"russian":    "ru",
	"portuguese": "pt",
	"arabic":     "ar",
	"kor":        "ko",
	"eng":        "en",
	"jpn":        "ja",
	"chn":        "zh",
	"esp":        "es",
	"fra":        "fr",
	"deu":        "de",
	"rus":        "ru",
	"por":        "pt",
	"ara":        "ar",
}

var displayNames = map[string]string{
	"en": "English",
	"ko": "Korean",
	"ja": "Japanese",
	"zh": "Chinese",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"ru": "Russian",
	"pt": "Portuguese",
	"ar": "Arabic",
	"hi": "Hindi",
	"it": "Italian",
	"nl": "Dutch",
	"pl": "Polish",
	"tr": "Turkish",
	"vi": "Vietnamese",
	"th": "Thai",
}

// Normalize converts a language identifier to its canonical 2-letter code.
// Unknown 2-letter alphabetic inputs pass through as-is; anything else is
// lowercased and returned unchanged. Normalization never fails and is
// idempotent.
func Normalize(code string) string {
	if code == "" {
		return ""
	}

	normalized := strings.ToLower(strings.TrimSpace(code))

	if mapped, ok := codeAliases[normalized]; ok {
		return mapped
	}

	if len(normalized) == 2 && isAlpha(normalized) {
		return normalized
	}

	return normalized
}

// DisplayName returns the English name for a language code, or "Unknown"
// for unmapped codes.
func DisplayName(code string) string {
	if name, ok := displayNames[Normalize(code)]; ok {
		return name
	}
	return "Unknown"
}

// Normalizer is the injectable form of the package's normalization
// functions.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts a language identifier to its canonical 2-letter code.
func (n *Normalizer) Normalize(code string) string {
	return Normalize(code)
}

// DisplayName returns the English name for a language code.
func (n *Normalizer) DisplayName(code string) string {
	return DisplayName(code)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

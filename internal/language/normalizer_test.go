package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"full name", "Korean", "ko"},
		{"three letter code", "eng", "en"},
		{"two letter passthrough", "ko", "ko"},
		{"unknown two letter", "xx", "xx"},
		{"mixed case with spaces", "  ENGLISH  ", "en"},
		{"unknown long name", "klingon", "klingon"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Korean", "eng", "ko", "xx", "klingon", ""}
	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "normalizing %q twice changed the result", input)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Korean", DisplayName("ko"))
	assert.Equal(t, "English", DisplayName("english"))
	assert.Equal(t, "Unknown", DisplayName("xx"))
	assert.Equal(t, "Unknown", DisplayName(""))
}

func TestNormalizerWrapper(t *testing.T) {
	n := NewNormalizer()
	assert.Equal(t, "ko", n.Normalize("Korean"))
	assert.Equal(t, "English", n.DisplayName("en"))
}

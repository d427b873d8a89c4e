package backend

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"lingo-gate/internal/utils"

	"github.com/tidwall/gjson"
)

var (
	fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	jsonObjectRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON recovers a JSON object from a model reply. Models wrap their
// output in markdown fences, prepend prose, or double-escape the payload;
// the extraction is tolerant of all three. The returned error carries a
// truncated copy of the offending content for diagnosis.
func ExtractJSON(content string) (gjson.Result, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return gjson.Result{}, fmt.Errorf("empty model response")
	}

	if m := fencedBlockRe.FindStringSubmatch(trimmed); m != nil {
		trimmed = strings.TrimSpace(m[1])
	}

	if span := jsonObjectRe.FindString(trimmed); span != "" {
		trimmed = span
	}

	if gjson.Valid(trimmed) {
		return gjson.Parse(trimmed), nil
	}

	// Some models return the object with its quotes escaped, e.g.
	// {\"score\": 90}. Resolving the escapes once often yields valid JSON.
	if strings.Contains(trimmed, `\"`) || strings.Contains(trimmed, `\n`) || strings.Contains(trimmed, `\\`) {
		if unquoted, err := strconv.Unquote(`"` + trimmed + `"`); err == nil && gjson.Valid(unquoted) {
			return gjson.Parse(unquoted), nil
		}
	}

	return gjson.Result{}, fmt.Errorf("unparseable model response: %s", utils.TruncateString(trimmed, 200))
}

// ParseWordMappings reads the word_mapping array from a parsed model reply,
// dropping entries with an empty word or translation.
func ParseWordMappings(result gjson.Result) []WordMapping {
	var mappings []WordMapping
	for _, item := range result.Get("word_mapping").Array() {
		word := strings.TrimSpace(item.Get("word").String())
		translation := strings.TrimSpace(item.Get("translation").String())
		if word == "" || translation == "" {
			continue
		}
		mappings = append(mappings, WordMapping{
			Word:        word,
			Translation: translation,
			Category:    item.Get("category").String(),
		})
	}
	return mappings
}

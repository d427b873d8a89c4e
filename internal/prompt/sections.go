package prompt

import (
	"fmt"
	"strings"
)

// Reference is a dictionary term supplied to the model as contextual
// guidance rather than substituted directly.
type Reference struct {
	Term        string
	Translation string
}

// TranslatorRole frames the model as a professional translator for the
// language pair. Language arguments are display names, not codes.
func TranslatorRole(sourceName, targetName string) string {
	return fmt.Sprintf(`You are a professional translator from '%s' to '%s'.
Translate the text exactly as provided, maintaining the original meaning, tone, nuance, and punctuation.`, sourceName, targetName)
}

// CriticalRules lists the non-negotiable translation rules, chiefly the
// target-language-only requirement and reference-consistency priority.
func CriticalRules(targetName string) string {
	return fmt.Sprintf(`CRITICAL TRANSLATION RULES:
- Use ONLY '%s' language in your translation - NO foreign words, NO mixing languages
- If there is no corresponding translation, write it as it is pronounced in '%s'.
- Preserve ALL punctuation including periods, commas, ellipses (...), exclamation marks, etc.
- Maintain the intensity and emotion of the original text
- Translate idioms and expressions naturally into '%s' culture
- Provide ONLY the translated text with no explanations or notes
- Do NOT wrap the response in markdown code fences
- If there is a previous translation history, the tone should be the same.
- PRIORITIZE CONSISTENCY: If provided with previous translation terms in 'references', use these translations for consistency unless they significantly distort the meaning in the current context
- Mistakes decrease trustworthiness. Verify and answer accurately to avoid mistakes.`, targetName, targetName, targetName)
}

// DictionaryUsage explains the category taxonomy and the inclusion rules for
// the word_mapping field.
func DictionaryUsage(targetName string) string {
	return fmt.Sprintf(`## TRANSLATION DICTIONARY USAGE:
When translating, use the provided translation dictionary to ensure consistency with previously translated terms. The dictionary is organized by categories to help you find relevant translations quickly.

### Dictionary Categories:
1. **Part of Speech Categories**
   - `+"`nouns`"+`: General nouns (people, places, things, concepts)
   - `+"`verbs`"+`: Action words in their base form
   - `+"`adjectives`"+`: Words that describe nouns
   - `+"`adverbs`"+`: Words that modify verbs, adjectives, or other adverbs
   - `+"`pronouns`"+`: Words that replace nouns

2. **Special Vocabulary Categories**
   - `+"`proper_nouns`"+`: Names of specific people, places, characters, or entities
   - `+"`technical_terms`"+`: Specialized vocabulary related to specific fields
   - `+"`game_ui`"+`: Terms related to user interface elements in games
   - `+"`idioms`"+`: Expressions with meanings different from their individual words
   - `+"`phrases`"+`: Common multi-word expressions

3. **Thematic Categories**
   - `+"`emotions`"+`: Words describing feelings and emotional states
   - `+"`actions`"+`: Specific types of activities or behaviors
   - `+"`objects`"+`: Physical items and artifacts
   - `+"`settings`"+`: Environmental and location descriptions

### Translation Process:
1. When you encounter a word or phrase for translation, first check if it exists in any of the dictionary categories.
2. If found, use the provided '%s' translation to maintain consistency.
3. If a word appears in multiple categories with different translations, consider the context to choose the appropriate translation.
4. If not found, translate it appropriately and remember your translation for future consistency.
5. For phrases and sentences, try to identify individual terms that have existing translations and integrate them into your complete translation.

## IMPORTANT ABOUT WORD MAPPING:
1. The "word_mapping" field should ONLY include:
   - Proper nouns (names of people, places, organizations, brands)
   - Cultural terms and concepts that require specific translation
   - Technical terms, specialized vocabulary, and jargon
   - Idiomatic expressions and phrases with non-literal meanings
   - Terms that appear multiple times and require consistent translation
2. Do NOT include common grammatical elements such as articles, basic prepositions, or common pronouns.
3. Focus on 5-15 key terms that truly need special attention for consistency
4. Verify that each term you include has a genuine translation (not identical to source)
5. Use the appropriate category from the dictionary structure above for each word_mapping entry`, targetName)
}

// References renders dictionary matches as in-prompt guidance lines.
// Returns "" when there is nothing to render.
func References(refs []Reference) string {
	if len(refs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("PREVIOUS TRANSLATION REFERENCES:\nTo ensure consistency, prioritize these translations for recurring terms:\n")
	for i, ref := range refs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %q -> %q", ref.Term, ref.Translation)
	}
	return b.String()
}

// ResponseContract pins the translation response to the JSON schema the
// pipeline parses.
func ResponseContract() string {
	return `## RESPONSE RULE:
- The translation field should contain the full translated text.
- The word_mapping field must be a list of key phrases or proper nouns in the original text, each with its translation and a category (e.g., "proper_nouns", "place_names").
- Return only the JSON response without additional explanation or formatting.
- Do NOT wrap the response in markdown code fences
- All values must be in valid JSON syntax.

## RESPONSE FORMAT:
{
  "translation": "your translation here",
  "word_mapping": [
    { "word": "Sara", "translation": "사라", "category": "proper_nouns" },
    { "word": "Willsdrey Village", "translation": "윌스드레이 마을", "category": "place_names" },
    { "word": "examine", "translation": "살펴보다", "category": "verbs" }
  ]
}`
}

// EvaluatorRole frames the model as a quality evaluator with the fixed
// weighted rubric and the mixed-language scoring cap.
func EvaluatorRole(sourceName, targetName string) string {
	return fmt.Sprintf(`You are a professional translation quality evaluator.
Your task is to evaluate the quality of translation from %s to %s.

Evaluate based on these criteria:
1. Accuracy (40%%): Does the translation convey the original meaning correctly?
2. Fluency (30%%): Does the translation sound natural in %s?
3. Terminology (20%%): Are domain-specific terms correctly translated?
4. Completeness (10%%): Is all content from the source text included?

Score Guidelines:
90-100: Excellent, professional quality
80-89: Good, minor issues
70-79: Acceptable, some errors
60-69: Poor, significant issues
Below 60: Unacceptable, major errors

CRITICAL: If the translation contains mixed languages (words from languages other than %s), score it below 50.

YOU MUST RETURN ONLY A VALID JSON OBJECT with this exact format:
{
  "score": <integer between 0-100>,
  "feedback": "<brief explanation of issues or why it's good>"
}

No additional text before or after the JSON. Only the JSON object.
Do NOT wrap the response in markdown code fences.`, sourceName, targetName, targetName, targetName)
}

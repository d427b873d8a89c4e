// Package backend provides the chat client for the LLM backend and the
// structured response contracts the translation pipeline requests from it.
package backend

// Message roles accepted by the backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	RoleFunction  = "function"
)

// Message is an immutable chat message passed to the backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// WordMapping is one learned term emitted by the model alongside a translation.
type WordMapping struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
	Category    string `json:"category"`
}

// TranslationResult is the structured translation response contract.
type TranslationResult struct {
	Translation string        `json:"translation"`
	WordMapping []WordMapping `json:"word_mapping"`
}

// EvaluationResult is the structured evaluation response contract.
type EvaluationResult struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// TranslationSchema is the JSON schema sent as the response format for
// translation requests.
var TranslationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"translation": map[string]any{"type": "string"},
		"word_mapping": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"word":        map[string]any{"type": "string"},
					"translation": map[string]any{"type": "string"},
					"category":    map[string]any{"type": "string"},
				},
				"required": []string{"word", "translation", "category"},
			},
		},
	},
	"required": []string{"translation"},
}

// EvaluationSchema is the JSON schema sent as the response format for
// evaluation requests.
var EvaluationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"score":    map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
		"feedback": map[string]any{"type": "string"},
	},
	"required": []string{"score", "feedback"},
}

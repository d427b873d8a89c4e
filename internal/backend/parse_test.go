package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
		want    string
	}{
		{
			"plain object",
			`{"translation": "사라"}`,
			"translation", "사라",
		},
		{
			"fenced block",
			"```json\n{\"translation\": \"사라\"}\n```",
			"translation", "사라",
		},
		{
			"fenced block without language tag",
			"```\n{\"score\": 85}\n```",
			"score", "85",
		},
		{
			"surrounding prose",
			`Here is the result: {"translation": "hello"} hope that helps`,
			"translation", "hello",
		},
		{
			"escaped quotes",
			`{\"score\": 90, \"feedback\": \"good\"}`,
			"score", "90",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExtractJSON(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Get(tt.field).String())
		})
	}
}

func TestExtractJSONErrors(t *testing.T) {
	_, err := ExtractJSON("")
	assert.Error(t, err)

	_, err = ExtractJSON("   \n  ")
	assert.Error(t, err)

	_, err = ExtractJSON("no json here at all")
	assert.Error(t, err)

	_, err = ExtractJSON("{broken: json")
	assert.Error(t, err)
}

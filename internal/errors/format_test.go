package errors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_IncludesHintAndCode(t *testing.T) {
	// Given: a search failure with a suggestion
	err := New(ErrCodeNoAlignment, "no complete alignment found", nil).
		WithSuggestion("try a larger beam")

	// When: formatting for CLI
	result := FormatForCLI(err)

	// Then: message, hint and code are all present
	assert.Contains(t, result, "Error: no complete alignment found")
	assert.Contains(t, result, "Hint: try a larger beam")
	assert.Contains(t, result, "Code: ERR_506_NO_ALIGNMENT")
}

func TestFormatForCLI_StandardErrorWrappedAsInternal(t *testing.T) {
	result := FormatForCLI(errors.New("boom"))

	assert.Contains(t, result, "Error: boom")
	assert.Contains(t, result, ErrCodeInternal)
	assert.Equal(t, "", FormatForCLI(nil))
}

func TestFormatJSON_RoundTripsFields(t *testing.T) {
	// Given: an error with cause and detail
	err := New(ErrCodeFileNotFound, "refs.txt missing", errors.New("no such file")).
		WithDetail("path", "refs.txt")

	// When: formatting as JSON
	data, jsonErr := FormatJSON(err)
	require.NoError(t, jsonErr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Then: structured fields are present
	assert.Equal(t, ErrCodeFileNotFound, decoded["code"])
	assert.Equal(t, "IO", decoded["category"])
	assert.Equal(t, "no such file", decoded["cause"])
	assert.Equal(t, "refs.txt", decoded["details"].(map[string]any)["path"])
}

func TestFormatForLog_PlainAndStructured(t *testing.T) {
	plain := FormatForLog(errors.New("plain"))
	assert.Equal(t, []any{"error", "plain"}, plain)

	attrs := FormatForLog(New(ErrCodeNoAlignment, "exhausted", nil).WithSuggestion("widen beam"))
	assert.Contains(t, attrs, "error_code")
	assert.Contains(t, attrs, ErrCodeNoAlignment)
	assert.Contains(t, attrs, "widen beam")

	assert.Nil(t, FormatForLog(nil))
}

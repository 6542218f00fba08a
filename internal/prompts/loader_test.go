package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownPrompts(t *testing.T) {
	keys := []string{
		"format-system",
		"format-user",
		"summary-system",
		"summary-user",
		"enhance-system",
		"enhance-user",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			prompt, err := Get("formatting.json", key)
			require.NoError(t, err)
			assert.NotEmpty(t, prompt)
		})
	}
}

func TestGetUnknownKey(t *testing.T) {
	_, err := Get("formatting.json", "does-not-exist")
	assert.Error(t, err)
}

func TestGetUnknownFile(t *testing.T) {
	_, err := Get("missing.json", "format-system")
	assert.Error(t, err)
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("formatting.json", "does-not-exist")
	})
}

func TestFormat(t *testing.T) {
	template := "Position: {{.Title}} at {{.Company}}"
	result := Format(template, map[string]string{
		"Title":   "Engineer",
		"Company": "Acme",
	})
	assert.Equal(t, "Position: Engineer at Acme", result)
}

func TestFormatLeavesUnknownPlaceholders(t *testing.T) {
	result := Format("Hello {{.Name}}", map[string]string{"Other": "x"})
	assert.Equal(t, "Hello {{.Name}}", result)
}

func TestFormatUserPromptContainsSchema(t *testing.T) {
	prompt := MustGet("formatting.json", "format-user")
	// The literal target schema must be embedded in the user prompt
	assert.True(t, strings.Contains(prompt, `"personalInfo"`))
	assert.True(t, strings.Contains(prompt, `"category": "technical"`))
	assert.True(t, strings.Contains(prompt, "{{.CVText}}"))
}

func TestFormatSystemPromptConstraints(t *testing.T) {
	prompt := MustGet("formatting.json", "format-system")
	assert.Contains(t, prompt, "DO NOT OMIT")
	assert.Contains(t, prompt, "RETURN JSON ONLY")
}

package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("cover_letter.json", "compose-cover-letter")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "cover letter")
	assert.Contains(t, prompt, "{{.Company}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("cover_letter.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("email.json", "analyze-email")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Applying to {{.Company}} for the {{.Position}} role."
	data := map[string]string{
		"Company":  "Acme Corp",
		"Position": "Data Engineer",
	}

	result := Format(template, data)
	assert.Equal(t, "Applying to Acme Corp for the Data Engineer role.", result)
}

func TestFormat_MissingKeyLeftIntact(t *testing.T) {
	template := "Hello {{.Name}}, status is {{.Status}}."
	data := map[string]string{"Name": "Jean"}

	result := Format(template, data)
	assert.Equal(t, "Hello Jean, status is {{.Status}}.", result)
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("cover_letter.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "compose-cover-letter")
	assert.Contains(t, keys, "tone-casual")
	assert.Contains(t, keys, "tone-formal")
}

func TestEmailPrompt_CarriesStatusPlaceholders(t *testing.T) {
	ClearCache()

	prompt := MustGet("email.json", "analyze-email")
	assert.Contains(t, prompt, "{{.Statuses}}")
	assert.Contains(t, prompt, "{{.EmailText}}")
	assert.Contains(t, prompt, "suggested_status")
}

package llm

import (
	"testing"
)

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"title\": \"Data Engineer\"}\n```",
			expected: `{"title": "Data Engineer"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"title\": \"Data Engineer\"}\n```",
			expected: `{"title": "Data Engineer"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"title\": \"Data Engineer\"}\n```",
			expected: `{"title": "Data Engineer"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"title": "Data Engineer"}`,
			expected: `{"title": "Data Engineer"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanJSONBlock_PreambleText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON object",
			input:    "As requested, here is the JSON:\n{\"company\": \"Acme\"}",
			expected: `{"company": "Acme"}`,
		},
		{
			name:     "conversational preamble",
			input:    "Based on the posting provided, I've extracted the fields. Here's the structured output:\n\n{\"company\": \"Acme\", \"contract_type\": \"CDI\"}",
			expected: `{"company": "Acme", "contract_type": "CDI"}`,
		},
		{
			name:     "preamble with multiple sentences",
			input:    "I analyzed the email. It mentions an interview. Here is the result: {\"suggested_status\": \"interview_scheduled\"}",
			expected: `{"suggested_status": "interview_scheduled"}`,
		},
		{
			name:     "preamble before JSON array",
			input:    "Here are the keywords:\n[\"python\", \"spark\"]",
			expected: `["python", "spark"]`,
		},
		{
			name:     "JSON with trailing text",
			input:    "{\"title\": \"Data Engineer\"}\n\nLet me know if you need anything else!",
			expected: `{"title": "Data Engineer"}`,
		},
		{
			name:     "nested objects",
			input:    "Output:\n{\"posting\": {\"title\": \"Data Engineer\"}}",
			expected: `{"posting": {"title": "Data Engineer"}}`,
		},
		{
			name:     "JSON with escaped quotes",
			input:    "Result: {\"hook\": \"Your \\\"data first\\\" pitch caught my eye\"}",
			expected: `{"hook": "Your \"data first\" pitch caught my eye"}`,
		},
		{
			name:     "deeply nested",
			input:    "Here: {\"a\": {\"b\": {\"c\": {\"d\": \"deep\"}}}}",
			expected: `{"a": {"b": {"c": {"d": "deep"}}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple object",
			input:    `{"status": "submitted"}`,
			expected: `{"status": "submitted"}`,
		},
		{
			name:     "nested objects",
			input:    `{"outer": {"inner": "value"}}`,
			expected: `{"outer": {"inner": "value"}}`,
		},
		{
			name:     "object with array",
			input:    `{"keywords": ["python", "sql"]}`,
			expected: `{"keywords": ["python", "sql"]}`,
		},
		{
			name:     "object with trailing text",
			input:    `{"status": "submitted"} and some more text`,
			expected: `{"status": "submitted"}`,
		},
		{
			name:     "string with braces inside",
			input:    `{"template": "Hello {name}!"}`,
			expected: `{"template": "Hello {name}!"}`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "not starting with brace",
			input:    "not json",
			expected: "",
		},
		{
			name:     "unbalanced object",
			input:    `{"status": "submitted"`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONObject(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple array",
			input:    `["a", "b", "c"]`,
			expected: `["a", "b", "c"]`,
		},
		{
			name:     "nested arrays",
			input:    `[[1, 2], [3, 4]]`,
			expected: `[[1, 2], [3, 4]]`,
		},
		{
			name:     "array of objects",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "array with trailing text",
			input:    `[1, 2, 3] extra stuff`,
			expected: `[1, 2, 3]`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "not starting with bracket",
			input:    "not array",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONArray(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONArray() = %q, want %q", result, tt.expected)
			}
		})
	}
}

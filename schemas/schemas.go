// Package schemas embeds the JSON Schema files used to validate
// LLM-produced artifacts before they are unmarshaled.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// JobPosting returns the schema for extracted job postings.
func JobPosting() string {
	return mustRead("job_posting.schema.json")
}

// EmailProposal returns the schema for email analysis proposals.
func EmailProposal() string {
	return mustRead("email_proposal.schema.json")
}

// CoverLetter returns the schema for generated cover letter bodies.
func CoverLetter() string {
	return mustRead("cover_letter.schema.json")
}

// Content returns the raw content of a named schema file.
func Content(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read schema %s: %w", name, err)
	}
	return string(data), nil
}

func mustRead(name string) string {
	content, err := Content(name)
	if err != nil {
		panic(err)
	}
	return content
}

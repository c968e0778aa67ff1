// Package types provides type definitions for structured data used throughout the application assistant.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// JobPosting represents a structured job posting extracted from a fetched page.
// It is immutable once extracted; one instance exists per analysis request.
type JobPosting struct {
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location,omitempty"`
	Salary       string   `json:"salary,omitempty"`
	ContractType string   `json:"contract_type,omitempty"`
	Description  string   `json:"description"`
	Language     string   `json:"language"` // "fr" or "en"
	Keywords     []string `json:"keywords"` // sorted, deduplicated vocabulary hits
}

// HasKeyword reports whether the posting's keyword set contains k (case-insensitive).
func (p *JobPosting) HasKeyword(k string) bool {
	k = strings.ToLower(k)
	for _, kw := range p.Keywords {
		if strings.ToLower(kw) == k {
			return true
		}
	}
	return false
}

// KeywordSet returns the posting keywords as a lowercase lookup set.
func (p *JobPosting) KeywordSet() map[string]bool {
	set := make(map[string]bool, len(p.Keywords))
	for _, kw := range p.Keywords {
		set[strings.ToLower(kw)] = true
	}
	return set
}

// Package parsing turns ingested job posting pages into structured postings.
// Field extraction is model-driven with URL and page-metadata heuristics as
// fallback; language detection and keyword tagging are deterministic and
// always run locally.
package parsing

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mathieu/apply-pilot/internal/ingestion"
	"github.com/mathieu/apply-pilot/internal/llm"
	"github.com/mathieu/apply-pilot/internal/schemas"
	"github.com/mathieu/apply-pilot/internal/types"
	schemafiles "github.com/mathieu/apply-pilot/schemas"
)

// maxPromptChars bounds how much page content goes into the extraction
// prompt. Postings fit comfortably; the bound only trims pages where
// content selection failed and the whole site came along.
const maxPromptChars = 24000

// postingFields is the wire shape of the model's extraction response.
type postingFields struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Salary       string `json:"salary"`
	ContractType string `json:"contract_type"`
	Description  string `json:"description"`
}

// ExtractPosting turns ingested page content into a structured JobPosting.
//
// With a client, fields come from model extraction over the page markdown;
// responses that fail schema validation degrade to URL and metadata
// heuristics rather than failing the request. With a nil client the
// heuristics run directly. Model transport errors are returned as-is so
// callers can tell a service outage from an unparseable page; a page that
// yields no title or company either way returns an ExtractionError.
func ExtractPosting(ctx context.Context, client llm.Client, content *ingestion.Content, sourceURL string) (*types.JobPosting, error) {
	if content == nil || (strings.TrimSpace(content.Text) == "" && strings.TrimSpace(content.Markdown) == "") {
		return nil, &ExtractionError{URL: sourceURL, Message: "page content is empty"}
	}

	var posting *types.JobPosting
	if client != nil {
		raw, err := generateExtraction(ctx, client, content)
		if err != nil {
			return nil, err
		}
		if fields, ok := decodePostingFields(raw, sourceURL); ok {
			posting = &types.JobPosting{
				URL:          sourceURL,
				Title:        fields.Title,
				Company:      fields.Company,
				Location:     fields.Location,
				Salary:       fields.Salary,
				ContractType: fields.ContractType,
				Description:  fields.Description,
			}
		}
	}
	if posting == nil {
		posting = fallbackPosting(content, sourceURL)
	}

	if strings.TrimSpace(posting.Description) == "" {
		posting.Description = content.Text
	}
	NormalizePosting(posting)

	if posting.Title == "" || posting.Company == "" {
		merged := fallbackPosting(content, sourceURL)
		NormalizePosting(merged)
		if posting.Title == "" {
			posting.Title = merged.Title
		}
		if posting.Company == "" {
			posting.Company = merged.Company
		}
		if posting.Location == "" {
			posting.Location = merged.Location
		}
	}
	if posting.Title == "" || posting.Company == "" {
		return nil, &ExtractionError{URL: sourceURL, Message: "no usable title or company in page content"}
	}

	hint := ""
	if content.Meta != nil {
		hint = content.Meta.LangHint
	}
	posting.Language = DetectLanguageWithHint(posting.Description, hint)
	posting.Keywords = ExtractKeywords(posting.Title + "\n" + posting.Description)

	log.Debug().
		Str("url", sourceURL).
		Str("title", posting.Title).
		Str("company", posting.Company).
		Str("language", posting.Language).
		Int("keywords", len(posting.Keywords)).
		Msg("posting extracted")
	return posting, nil
}

// generateExtraction runs the model extraction call, retrying once on
// transient failures.
func generateExtraction(ctx context.Context, client llm.Client, content *ingestion.Content) (string, error) {
	input := content.Markdown
	if strings.TrimSpace(input) == "" {
		input = content.Text
	}
	input = truncateForPrompt(input, maxPromptChars)

	prompt := llm.BuildExtractionPrompt(llm.JobPostingSchema(), input)
	return llm.WithRetry(ctx, "posting extraction", func(ctx context.Context) (string, error) {
		return client.GenerateJSON(ctx, prompt, llm.TierStandard)
	})
}

// decodePostingFields validates the model response against the posting
// schema and unmarshals it. Responses that fail either step are logged and
// discarded so the caller can fall back to page heuristics.
func decodePostingFields(raw, sourceURL string) (postingFields, bool) {
	var fields postingFields
	if err := schemas.ValidateBytes(schemafiles.JobPosting(), []byte(raw)); err != nil {
		log.Warn().Err(err).Str("url", sourceURL).Msg("model extraction failed schema validation, using page heuristics")
		return fields, false
	}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		log.Warn().Err(err).Str("url", sourceURL).Msg("model extraction is not valid JSON, using page heuristics")
		return fields, false
	}
	return fields, true
}

// truncateForPrompt cuts s to at most max bytes, preferring a line boundary
// and never splitting a multibyte rune.
func truncateForPrompt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndexByte(cut, '\n'); i > max/2 {
		cut = cut[:i]
	}
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return strings.TrimRight(cut, " \n")
}

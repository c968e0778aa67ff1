package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mathieu/apply-pilot/internal/compose"
	"github.com/mathieu/apply-pilot/internal/llm"
	"github.com/mathieu/apply-pilot/internal/prompts"
	"github.com/mathieu/apply-pilot/internal/schemas"
	"github.com/mathieu/apply-pilot/internal/types"
	schemafiles "github.com/mathieu/apply-pilot/schemas"
)

// maxDescriptionChars bounds how much posting description goes into the
// cover letter prompt.
const maxDescriptionChars = 12000

// coverFields is the wire shape of the model's cover letter response.
type coverFields struct {
	Hook    string `json:"hook"`
	Company string `json:"company"`
	Me      string `json:"me"`
	Us      string `json:"us"`
	Closing string `json:"closing"`
}

// enrichCover replaces the template cover paragraphs with model-written
// prose. The template draft is already complete, so every failure here
// degrades to it: transport errors and invalid responses are logged and the
// draft is left as composed. Tone and language decided by the composer are
// kept either way.
func (p *Pipeline) enrichCover(ctx context.Context, posting *types.JobPosting, match *types.MatchResult, cv *types.CVDraft, cover *types.CoverDraft) {
	if p.llm == nil {
		return
	}

	prompt := p.buildCoverPrompt(posting, match, cv, cover)
	raw, err := llm.WithRetry(ctx, "cover letter", func(ctx context.Context) (string, error) {
		return p.llm.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	})
	if err != nil {
		log.Warn().Err(err).Msg("cover letter generation failed, keeping template draft")
		return
	}

	if err := schemas.ValidateBytes(schemafiles.CoverLetter(), []byte(raw)); err != nil {
		log.Warn().Err(err).Msg("cover letter failed schema validation, keeping template draft")
		return
	}
	var fields coverFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		log.Warn().Err(err).Msg("cover letter is not valid JSON, keeping template draft")
		return
	}

	cover.Hook = strings.TrimSpace(fields.Hook)
	cover.Company = strings.TrimSpace(fields.Company)
	cover.Me = strings.TrimSpace(fields.Me)
	cover.Us = strings.TrimSpace(fields.Us)
	cover.Closing = strings.TrimSpace(fields.Closing)

	log.Debug().Str("company", posting.Company).Msg("cover letter prose generated")
}

func (p *Pipeline) buildCoverPrompt(posting *types.JobPosting, match *types.MatchResult, cv *types.CVDraft, cover *types.CoverDraft) string {
	toneKey := "tone-formal"
	if cover.Tone == compose.ToneCasual {
		toneKey = "tone-casual"
	}

	template := prompts.MustGet("cover_letter.json", "compose-cover-letter")
	return prompts.Format(template, map[string]string{
		"Title":           posting.Title,
		"Company":         posting.Company,
		"Location":        posting.Location,
		"ContractType":    posting.ContractType,
		"Description":     truncateForPrompt(posting.Description, maxDescriptionChars),
		"Name":            p.profile.Identity.Name,
		"CandidateTitle":  p.profile.Identity.Title,
		"Summary":         cv.Summary,
		"MatchedKeywords": strings.Join(match.MatchedKeywords, ", "),
		"TopExperience":   topExperience(match, posting.Language),
		"LanguageName":    languageName(posting.Language),
		"ToneGuidance":    prompts.MustGet("cover_letter.json", toneKey),
	})
}

// topExperience describes the highest-scored experience for the prompt.
func topExperience(match *types.MatchResult, lang string) string {
	if len(match.SelectedExperiences) == 0 {
		return ""
	}
	exp := match.SelectedExperiences[0].Experience
	return fmt.Sprintf("%s at %s (%s)", exp.LocalizedRole(lang), exp.Org, exp.Period)
}

func languageName(lang string) string {
	if lang == "en" {
		return "English"
	}
	return "French"
}

// truncateForPrompt cuts s to at most max bytes, preferring a line boundary
// near the limit.
func truncateForPrompt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndexByte(cut, '\n'); idx > max/2 {
		cut = cut[:idx]
	}
	return cut
}

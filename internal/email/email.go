// Package email analyzes inbound recruiter emails into status-change
// proposals. Analysis never commits anything: the proposal goes back to
// the caller, and a separate explicit apply action performs the mutation.
package email

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mathieu/apply-pilot/internal/llm"
	"github.com/mathieu/apply-pilot/internal/prompts"
	"github.com/mathieu/apply-pilot/internal/schemas"
	"github.com/mathieu/apply-pilot/internal/status"
	"github.com/mathieu/apply-pilot/internal/types"
	schemafiles "github.com/mathieu/apply-pilot/schemas"
)

// maxEmailChars bounds how much email text goes into the prompt.
const maxEmailChars = 8000

// ErrEmptyEmail is returned when there is no text to analyze.
var ErrEmptyEmail = errors.New("email text is empty")

// ApplicationContext is what the analyzer knows about the application the
// email concerns.
type ApplicationContext struct {
	Company       string
	Position      string
	CurrentStatus string
}

// Analyzer turns raw recruiter-email text into status proposals. With a
// nil client only the phrase heuristics run.
type Analyzer struct {
	client llm.Client
	now    func() time.Time
}

// NewAnalyzer creates an analyzer over the given model client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client, now: time.Now}
}

// proposalFields is the wire shape of the model's response.
type proposalFields struct {
	SuggestedStatus string  `json:"suggested_status"`
	InterviewDate   string  `json:"interview_date"`
	RecruiterName   string  `json:"recruiter_name"`
	Confidence      float64 `json:"confidence"`
	Excerpt         string  `json:"excerpt"`
}

// Analyze produces a status proposal for the given email text. Model
// responses that fail schema validation degrade to the phrase heuristics
// rather than failing the request; model transport errors are returned
// as-is so callers can tell a service outage from an unclassifiable email.
func (a *Analyzer) Analyze(ctx context.Context, app ApplicationContext, emailText string) (*types.EmailProposal, error) {
	emailText = strings.TrimSpace(emailText)
	if emailText == "" {
		return nil, ErrEmptyEmail
	}

	current := app.CurrentStatus
	if !status.Known(current) {
		current = status.Submitted
	}

	if a.client != nil {
		raw, err := a.generateProposal(ctx, app, current, emailText)
		if err != nil {
			return nil, err
		}
		if proposal, ok := a.decodeProposal(raw, emailText); ok {
			log.Debug().
				Str("status", proposal.SuggestedStatus).
				Float64("confidence", proposal.Confidence).
				Msg("email analyzed")
			return proposal, nil
		}
	}

	return heuristicProposal(emailText, current, a.now()), nil
}

// generateProposal runs the model triage call, retrying once on transient
// failures.
func (a *Analyzer) generateProposal(ctx context.Context, app ApplicationContext, current, emailText string) (string, error) {
	template := prompts.MustGet("email.json", "analyze-email")
	prompt := prompts.Format(template, map[string]string{
		"Company":       app.Company,
		"Position":      app.Position,
		"CurrentStatus": current,
		"EmailText":     truncateEmail(emailText, maxEmailChars),
		"Statuses":      strings.Join(status.All, ", "),
	})

	return llm.WithRetry(ctx, "email analysis", func(ctx context.Context) (string, error) {
		return a.client.GenerateJSON(ctx, prompt, llm.TierLite)
	})
}

// decodeProposal validates the model response against the proposal schema
// and converts it. When the model proposes an interview without a date,
// the date is backfilled from the email text. Invalid responses are logged
// and discarded so the caller falls back to the phrase heuristics.
func (a *Analyzer) decodeProposal(raw, emailText string) (*types.EmailProposal, bool) {
	if err := schemas.ValidateBytes(schemafiles.EmailProposal(), []byte(raw)); err != nil {
		log.Warn().Err(err).Msg("email analysis failed schema validation, using phrase heuristics")
		return nil, false
	}

	var fields proposalFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		log.Warn().Err(err).Msg("email analysis is not valid JSON, using phrase heuristics")
		return nil, false
	}

	canonical, ok := status.Normalize(fields.SuggestedStatus)
	if !ok {
		log.Warn().Str("status", fields.SuggestedStatus).Msg("email analysis proposed an unknown status, using phrase heuristics")
		return nil, false
	}

	proposal := &types.EmailProposal{
		SuggestedStatus: canonical,
		RecruiterName:   strings.TrimSpace(fields.RecruiterName),
		Confidence:      fields.Confidence,
		Excerpt:         strings.TrimSpace(fields.Excerpt),
	}
	if fields.InterviewDate != "" {
		if d, err := time.Parse("2006-01-02", fields.InterviewDate); err == nil {
			proposal.InterviewDate = &d
		}
	}
	if proposal.SuggestedStatus == status.InterviewScheduled && proposal.InterviewDate == nil {
		proposal.InterviewDate = ExtractInterviewDate(emailText, a.now())
	}

	return proposal, true
}

// truncateEmail cuts s to at most max bytes without splitting a rune.
func truncateEmail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

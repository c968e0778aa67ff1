//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// EmailProposal is the result of analyzing an inbound recruiter email.
// Analysis never commits state by itself: the proposal is returned to the
// caller, and a separate explicit apply action performs the mutation.
type EmailProposal struct {
	SuggestedStatus string     `json:"suggested_status"`
	InterviewDate   *time.Time `json:"interview_date,omitempty"`
	RecruiterName   string     `json:"recruiter_name,omitempty"`
	Confidence      float64    `json:"confidence"`
	Excerpt         string     `json:"excerpt,omitempty"`
}

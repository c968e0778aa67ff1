// Package status defines the application status workflow vocabulary.
package status

import "strings"

// The seven tracked statuses, in workflow order. A manual update may move
// an application from any status to any other; there is no enforced
// transition graph.
const (
	Submitted          = "submitted"
	AckReceived        = "ack_received"
	UnderReview        = "under_review"
	InterviewScheduled = "interview_scheduled"
	Shortlisted        = "shortlisted"
	Offer              = "offer"
	Rejected           = "rejected"
)

// All lists every status in workflow order.
var All = []string{
	Submitted,
	AckReceived,
	UnderReview,
	InterviewScheduled,
	Shortlisted,
	Offer,
	Rejected,
}

// Known reports whether s is exactly one of the seven statuses.
func Known(s string) bool {
	for _, status := range All {
		if s == status {
			return true
		}
	}
	return false
}

// Normalize maps loose user input ("Offer", "interview scheduled") onto the
// canonical status string. ok is false for anything outside the vocabulary.
func Normalize(s string) (canonical string, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if !Known(s) {
		return "", false
	}
	return s, true
}

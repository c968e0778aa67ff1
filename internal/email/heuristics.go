package email

import (
	"strings"
	"time"

	"github.com/mathieu/apply-pilot/internal/status"
	"github.com/mathieu/apply-pilot/internal/types"
)

// statusRule maps trigger phrases to a proposed status. Rules are checked
// in order and the first phrase found wins, so rejection outranks the
// positive rules: recruiters soften refusals with upbeat sentences that
// would otherwise trip them.
type statusRule struct {
	status     string
	confidence float64
	phrases    []string
}

var statusRules = []statusRule{
	{status: status.Rejected, confidence: 0.8, phrases: []string{
		"ne donnons pas suite", "ne pas donner suite", "pas été retenue", "pas été retenu",
		"autres candidatures", "malheureusement",
		"not moving forward", "not to move forward", "decided not to proceed",
		"regret to inform", "other candidates", "unfortunately",
	}},
	{status: status.Offer, confidence: 0.85, phrases: []string{
		"proposition d'embauche", "vous proposer le poste", "heureux de vous proposer",
		"pleased to offer", "happy to offer", "extend an offer", "offer you the position",
	}},
	{status: status.InterviewScheduled, confidence: 0.75, phrases: []string{
		"entretien", "interview", "échange téléphonique", "echange telephonique",
		"appel téléphonique", "phone call", "video call",
	}},
	{status: status.Shortlisted, confidence: 0.7, phrases: []string{
		"présélection", "preselection", "retenu pour la suite", "retenue pour la suite",
		"shortlist", "next round", "prochaine étape",
	}},
	{status: status.UnderReview, confidence: 0.6, phrases: []string{
		"en cours d'étude", "en cours d'examen", "est à l'étude",
		"being reviewed", "under review", "reviewing your application",
	}},
	{status: status.AckReceived, confidence: 0.6, phrases: []string{
		"bien reçu votre candidature", "accusons réception", "bien pris en compte",
		"received your application", "thank you for applying", "thank you for your application",
	}},
}

// heuristicProposal classifies an email by trigger phrases when the model
// path is unavailable. An interview mention without a concrete date
// downgrades to under_review; when nothing matches, the current status is
// kept with low confidence.
func heuristicProposal(text, currentStatus string, ref time.Time) *types.EmailProposal {
	normalized := normalizeForMatch(text)

	for _, rule := range statusRules {
		for _, phrase := range rule.phrases {
			if !strings.Contains(normalized, phrase) {
				continue
			}

			proposal := &types.EmailProposal{
				SuggestedStatus: rule.status,
				Confidence:      rule.confidence,
				Excerpt:         sentenceWith(text, phrase),
			}
			if rule.status == status.InterviewScheduled {
				proposal.InterviewDate = ExtractInterviewDate(text, ref)
				if proposal.InterviewDate == nil {
					proposal.SuggestedStatus = status.UnderReview
					proposal.Confidence = 0.5
				}
			}
			return proposal
		}
	}

	return &types.EmailProposal{
		SuggestedStatus: currentStatus,
		Confidence:      0.2,
	}
}

// normalizeForMatch lowercases text and folds typographic apostrophes so
// "n’a pas été retenue" matches the ASCII trigger phrases.
func normalizeForMatch(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "’", "'"))
}

// sentenceWith returns the first sentence of text whose normalized form
// contains phrase.
func sentenceWith(text, phrase string) string {
	for _, sentence := range splitSentences(text) {
		if strings.Contains(normalizeForMatch(sentence), phrase) {
			return sentence
		}
	}
	return ""
}

// splitSentences cuts text on sentence punctuation and newlines, keeping
// the punctuation with its sentence.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?', '\n':
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

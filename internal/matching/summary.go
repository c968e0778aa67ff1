package matching

import (
	"strings"

	"github.com/mathieu/apply-pilot/internal/types"
)

// selectSummaryTag picks the summary template whose tag vocabulary best
// covers the posting text. Scoring counts template tags present in the
// lowercased title and description; the first declared template wins ties,
// including the all-zero case, so a profile's leading template doubles as
// its default summary.
func selectSummaryTag(profile *types.Profile, posting *types.JobPosting) string {
	if len(profile.SummaryTemplates) == 0 {
		return ""
	}

	jobText := strings.ToLower(posting.Title + "\n" + posting.Description)

	bestIdx := 0
	bestScore := -1
	for i, tmpl := range profile.SummaryTemplates {
		score := 0
		for _, tag := range tmpl.Tags {
			if tag = strings.ToLower(strings.TrimSpace(tag)); tag == "" {
				continue
			}
			if strings.Contains(jobText, tag) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	return profile.SummaryTemplates[bestIdx].Tag
}

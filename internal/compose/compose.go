// Package compose builds editable CV and cover letter drafts from a match
// selection. Composition is pure and deterministic: identical profile,
// posting and match inputs yield identical drafts. Model-written cover
// prose, when available, replaces the deterministic paragraphs upstream;
// the drafts built here are always a valid fallback.
package compose

import (
	"strings"

	"github.com/mathieu/apply-pilot/internal/types"
)

// maxRenderedSkillGroups bounds the skills block of the CV. The matcher
// may select one more group than fits the single-page layout.
const maxRenderedSkillGroups = 6

// BuildDrafts assembles the CV and cover letter drafts for a posting.
func BuildDrafts(profile *types.Profile, posting *types.JobPosting, match *types.MatchResult) (types.CVDraft, types.CoverDraft) {
	return buildCV(profile, posting, match), buildCover(posting, match)
}

func buildCV(profile *types.Profile, posting *types.JobPosting, match *types.MatchResult) types.CVDraft {
	lang := normalizeLang(posting.Language)

	cv := types.CVDraft{
		DisplayTitle: displayTitle(profile, posting),
		Summary:      summaryText(profile, match, lang),
		Language:     lang,
	}

	groups := match.SelectedSkills
	if len(groups) > maxRenderedSkillGroups {
		groups = groups[:maxRenderedSkillGroups]
	}
	cv.Skills = make([]types.SkillSection, 0, len(groups))
	for _, g := range groups {
		cv.Skills = append(cv.Skills, types.SkillSection{
			Label: g.Group.LocalizedLabel(lang),
			Items: g.Group.Items,
		})
	}

	cv.Experiences = make([]types.ExperienceSection, 0, len(match.SelectedExperiences))
	for _, e := range match.SelectedExperiences {
		cv.Experiences = append(cv.Experiences, types.ExperienceSection{
			Role:     e.Experience.LocalizedRole(lang),
			Org:      e.Experience.Org,
			Period:   e.Experience.Period,
			Location: e.Experience.Location,
			Bullets:  e.Experience.LocalizedBullets(lang),
		})
	}

	cv.Projects = make([]types.ProjectSection, 0, len(match.SelectedProjects))
	for _, p := range match.SelectedProjects {
		cv.Projects = append(cv.Projects, types.ProjectSection{
			Name:         p.Project.Name,
			Description:  p.Project.LocalizedDescription(lang),
			Technologies: p.Project.Technologies,
		})
	}

	cv.Certifications = make([]string, 0, len(match.SelectedCertifications))
	for _, c := range match.SelectedCertifications {
		name := c.Certification.Name
		if c.Certification.Year != "" {
			name += " (" + c.Certification.Year + ")"
		}
		cv.Certifications = append(cv.Certifications, name)
	}

	return cv
}

// displayTitle uses the posting's own title at the top of the CV when the
// posting is in the candidate's field, so the document mirrors the offer's
// wording. A posting from another field keeps the profile's default title.
func displayTitle(profile *types.Profile, posting *types.JobPosting) string {
	title := strings.TrimSpace(posting.Title)
	if title == "" {
		return profile.Identity.Title
	}
	titleLower := strings.ToLower(title)

	for _, w := range strings.Fields(strings.ToLower(profile.Identity.Title)) {
		if len(w) >= 2 && strings.Contains(titleLower, w) {
			return title
		}
	}
	for _, tmpl := range profile.SummaryTemplates {
		for _, tag := range tmpl.Tags {
			if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" && strings.Contains(titleLower, tag) {
				return title
			}
		}
	}
	return profile.Identity.Title
}

func summaryText(profile *types.Profile, match *types.MatchResult, lang string) string {
	for _, tmpl := range profile.SummaryTemplates {
		if tmpl.Tag == match.SummaryTag {
			return tmpl.LocalizedText(lang)
		}
	}
	if len(profile.SummaryTemplates) > 0 {
		return profile.SummaryTemplates[0].LocalizedText(lang)
	}
	return ""
}

func normalizeLang(lang string) string {
	if lang == "en" {
		return "en"
	}
	return "fr"
}

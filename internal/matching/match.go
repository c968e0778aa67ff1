package matching

import (
	"sort"
	"strings"

	"github.com/mathieu/apply-pilot/internal/types"
)

const (
	maxBulletsPerExperience = 4
	maxCertifications       = 5
	maxProjects             = 3
)

// Match ranks the profile against a posting and returns the full selection:
// matched keywords, ordered skill groups, experiences with capped bullets,
// projects, certifications, the summary template tag and the 0-100 score.
//
// Match is pure: it reads the profile and posting, touches nothing else,
// and returns identical results for identical inputs.
func Match(profile *types.Profile, posting *types.JobPosting) *types.MatchResult {
	weights := TagWeights(profile)
	keywordSet := posting.KeywordSet()

	matched := matchedKeywords(profile, posting)

	overlap := 0.0
	for _, k := range matched {
		overlap += weightFor(weights, k)
	}

	return &types.MatchResult{
		Score:                  overallScore(overlap),
		MatchedKeywords:        matched,
		SelectedSkills:         selectSkills(profile, posting, keywordSet, weights),
		SelectedExperiences:    selectExperiences(profile, keywordSet, weights),
		SelectedProjects:       selectProjects(profile, keywordSet, weights),
		SelectedCertifications: selectCertifications(profile, keywordSet, weights),
		SummaryTag:             selectSummaryTag(profile, posting),
	}
}

// matchedKeywords returns the posting keywords the profile can speak to,
// either through an item tag or through a skill item naming the keyword.
// The result is sorted for stable output.
func matchedKeywords(profile *types.Profile, posting *types.JobPosting) []string {
	profileTags := make(map[string]bool)
	addTags := func(tags []string) {
		for _, t := range tags {
			if lt := strings.ToLower(strings.TrimSpace(t)); lt != "" {
				profileTags[lt] = true
			}
		}
	}
	for _, g := range profile.Skills {
		addTags(g.Tags)
		for _, item := range g.Items {
			profileTags[strings.ToLower(item)] = true
			profileTags[compactToken(strings.ToLower(item))] = true
		}
	}
	for _, e := range profile.Experiences {
		addTags(e.Tags)
	}
	for _, p := range profile.Projects {
		addTags(p.Tags)
	}
	for _, c := range profile.Certifications {
		addTags(c.Tags)
	}

	matched := make([]string, 0, len(posting.Keywords))
	seen := make(map[string]bool, len(posting.Keywords))
	for _, k := range posting.Keywords {
		lk := strings.ToLower(k)
		if seen[lk] {
			continue
		}
		seen[lk] = true
		if profileTags[lk] || profileTags[compactToken(lk)] {
			matched = append(matched, lk)
		}
	}
	sort.Strings(matched)
	return matched
}

// selectExperiences scores every experience and returns all of them in
// relevance order, each with its bullet lists capped per language. The
// render layer decides how many entries fit the page.
func selectExperiences(profile *types.Profile, keywordSet map[string]bool, weights map[string]float64) []types.SelectedExperience {
	selected := make([]types.SelectedExperience, 0, len(profile.Experiences))
	for i, exp := range profile.Experiences {
		capped := exp
		if len(exp.Bullets) > 0 {
			capped.Bullets = make(map[string][]string, len(exp.Bullets))
			for lang, bullets := range exp.Bullets {
				if len(bullets) > maxBulletsPerExperience {
					bullets = bullets[:maxBulletsPerExperience]
				}
				capped.Bullets[lang] = bullets
			}
		}

		selected = append(selected, types.SelectedExperience{
			Experience: capped,
			Score:      weightedTagOverlap(exp.Tags, keywordSet, weights),
			Index:      i,
		})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Score != selected[j].Score {
			return selected[i].Score > selected[j].Score
		}
		return selected[i].Index < selected[j].Index
	})
	return selected
}

func selectProjects(profile *types.Profile, keywordSet map[string]bool, weights map[string]float64) []types.SelectedProject {
	selected := make([]types.SelectedProject, 0, len(profile.Projects))
	for i, project := range profile.Projects {
		selected = append(selected, types.SelectedProject{
			Project: project,
			Score:   weightedTagOverlap(project.Tags, keywordSet, weights),
			Index:   i,
		})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Score != selected[j].Score {
			return selected[i].Score > selected[j].Score
		}
		return selected[i].Index < selected[j].Index
	})

	if len(selected) > maxProjects {
		selected = selected[:maxProjects]
	}
	return selected
}

func selectCertifications(profile *types.Profile, keywordSet map[string]bool, weights map[string]float64) []types.SelectedCertification {
	selected := make([]types.SelectedCertification, 0, len(profile.Certifications))
	for i, cert := range profile.Certifications {
		selected = append(selected, types.SelectedCertification{
			Certification: cert,
			Score:         weightedTagOverlap(cert.Tags, keywordSet, weights),
			Index:         i,
		})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Score != selected[j].Score {
			return selected[i].Score > selected[j].Score
		}
		return selected[i].Index < selected[j].Index
	})

	if len(selected) > maxCertifications {
		selected = selected[:maxCertifications]
	}
	return selected
}

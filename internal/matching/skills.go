package matching

import (
	"sort"
	"strings"

	"github.com/mathieu/apply-pilot/internal/types"
)

const (
	maxSkillGroups    = 7
	maxItemsPerGroup  = 6
	fallbackItemCount = 5
	exactMatchBonus   = 5.0
	textMatchBonus    = 2.0
)

// selectSkills scores every skill group against the posting and returns the
// top groups with their items reordered by relevance. Items that exactly
// match a posting keyword come first, items mentioned in the posting text
// next, the rest after; a group with no relevant items keeps its leading
// items so the CV skills block never collapses.
func selectSkills(profile *types.Profile, posting *types.JobPosting, keywordSet map[string]bool, weights map[string]float64) []types.SelectedSkillGroup {
	jobText := strings.ToLower(posting.Title + "\n" + posting.Description)
	jobTextCompact := compactToken(jobText)

	selected := make([]types.SelectedSkillGroup, 0, len(profile.Skills))
	for i, group := range profile.Skills {
		exact, text, other := partitionItems(group.Items, keywordSet, jobText, jobTextCompact)

		items := make([]string, 0, len(group.Items))
		items = append(items, exact...)
		items = append(items, text...)
		items = append(items, other...)
		if len(exact) == 0 && len(text) == 0 {
			items = group.Items
			if len(items) > fallbackItemCount {
				items = items[:fallbackItemCount]
			}
		}
		if len(items) > maxItemsPerGroup {
			items = items[:maxItemsPerGroup]
		}

		ranked := group
		ranked.Items = items

		score := weightedTagOverlap(group.Tags, keywordSet, weights) +
			exactMatchBonus*float64(len(exact)) +
			textMatchBonus*float64(len(text))

		selected = append(selected, types.SelectedSkillGroup{
			Group:        ranked,
			Score:        score,
			ExactMatches: len(exact),
			Index:        i,
		})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Score != selected[j].Score {
			return selected[i].Score > selected[j].Score
		}
		if selected[i].ExactMatches != selected[j].ExactMatches {
			return selected[i].ExactMatches > selected[j].ExactMatches
		}
		return selected[i].Index < selected[j].Index
	})

	if len(selected) > maxSkillGroups {
		selected = selected[:maxSkillGroups]
	}
	return selected
}

// partitionItems splits a group's items into exact keyword matches, items
// mentioned in the posting text, and the rest. Comparison ignores case,
// spaces and hyphens so "Power BI" matches "power bi" and "CI-CD" matches
// "ci/cd" variants written without the slash.
func partitionItems(items []string, keywordSet map[string]bool, jobText, jobTextCompact string) (exact, text, other []string) {
	compactKeywords := make(map[string]bool, len(keywordSet))
	for k := range keywordSet {
		compactKeywords[compactToken(k)] = true
	}

	for _, item := range items {
		itemLower := strings.ToLower(item)
		itemCompact := compactToken(itemLower)

		switch {
		case keywordSet[itemLower] || compactKeywords[itemCompact]:
			exact = append(exact, item)
		case strings.Contains(jobText, itemLower) || strings.Contains(jobTextCompact, itemCompact):
			text = append(text, item)
		case keywordInItem(itemLower, keywordSet):
			text = append(text, item)
		default:
			other = append(other, item)
		}
	}
	return exact, text, other
}

func keywordInItem(itemLower string, keywordSet map[string]bool) bool {
	for k := range keywordSet {
		if strings.Contains(itemLower, k) {
			return true
		}
	}
	return false
}

func compactToken(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}

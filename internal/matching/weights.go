// Package matching ranks profile content against a job posting. Selection
// is deterministic: identical profile and posting inputs produce identical
// ordered selections, with ties broken by profile declaration order.
package matching

import (
	"math"
	"strings"

	"github.com/mathieu/apply-pilot/internal/types"
)

// TagWeights computes a specificity weight for every tag in the profile.
// A tag carried by a single item weighs 1.0 and the weight decays with the
// number of items carrying it, so matching a rare tag says more about fit
// than matching one that appears everywhere. Keys are lowercased.
func TagWeights(profile *types.Profile) map[string]float64 {
	freq := make(map[string]int)

	countTags := func(tags []string) {
		seen := make(map[string]bool, len(tags))
		for _, t := range tags {
			lt := strings.ToLower(strings.TrimSpace(t))
			if lt == "" || seen[lt] {
				continue
			}
			seen[lt] = true
			freq[lt]++
		}
	}

	for _, g := range profile.Skills {
		countTags(g.Tags)
	}
	for _, e := range profile.Experiences {
		countTags(e.Tags)
	}
	for _, p := range profile.Projects {
		countTags(p.Tags)
	}
	for _, c := range profile.Certifications {
		countTags(c.Tags)
	}
	for _, s := range profile.SummaryTemplates {
		countTags(s.Tags)
	}

	weights := make(map[string]float64, len(freq))
	for t, n := range freq {
		weights[t] = 1.0 / float64(n)
	}
	return weights
}

// weightFor returns the specificity weight of a keyword. Keywords the
// profile never tags are the rarest of all and get full weight.
func weightFor(weights map[string]float64, keyword string) float64 {
	if w, ok := weights[strings.ToLower(keyword)]; ok {
		return w
	}
	return 1.0
}

// weightedTagOverlap sums the weights of the item tags that appear in the
// posting keyword set. Tags are deduplicated before summing.
func weightedTagOverlap(tags []string, keywordSet map[string]bool, weights map[string]float64) float64 {
	sum := 0.0
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		lt := strings.ToLower(strings.TrimSpace(t))
		if lt == "" || seen[lt] {
			continue
		}
		seen[lt] = true
		if keywordSet[lt] {
			sum += weightFor(weights, lt)
		}
	}
	return sum
}

// overallScore maps the weighted keyword overlap onto the stored 0-100
// match score. The formula is monotonic in the overlap and bounded: no
// overlap scores 60, and no posting scores above 95.
func overallScore(weightedOverlap float64) int {
	score := 60 + int(math.Round(5*weightedOverlap))
	if score > 95 {
		return 95
	}
	return score
}

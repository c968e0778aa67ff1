//nolint:revive // types is a standard Go package name pattern
package types

// MatchResult is the derived output of matching a Profile against a JobPosting.
// It is recomputed per job and never persisted independently of the
// Application it produced.
type MatchResult struct {
	Score                  int                     `json:"score"` // 0..100
	MatchedKeywords        []string                `json:"matched_keywords"`
	SelectedSkills         []SelectedSkillGroup    `json:"selected_skills"`
	SelectedExperiences    []SelectedExperience    `json:"selected_experiences"`
	SelectedProjects       []SelectedProject       `json:"selected_projects"`
	SelectedCertifications []SelectedCertification `json:"selected_certifications"`
	SummaryTag             string                  `json:"summary_tag"`
}

// SelectedSkillGroup is a skill group chosen by the matcher, with its score
// and original profile index for stable ordering.
type SelectedSkillGroup struct {
	Group        SkillGroup `json:"group"`
	Score        float64    `json:"score"`
	ExactMatches int        `json:"exact_matches"`
	Index        int        `json:"index"`
}

// SelectedExperience is an experience entry chosen by the matcher.
type SelectedExperience struct {
	Experience Experience `json:"experience"`
	Score      float64    `json:"score"`
	Index      int        `json:"index"`
}

// SelectedProject is a project entry chosen by the matcher.
type SelectedProject struct {
	Project Project `json:"project"`
	Score   float64 `json:"score"`
	Index   int     `json:"index"`
}

// SelectedCertification is a certification chosen by the matcher.
type SelectedCertification struct {
	Certification Certification `json:"certification"`
	Score         float64       `json:"score"`
	Index         int           `json:"index"`
}

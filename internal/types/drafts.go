//nolint:revive // types is a standard Go package name pattern
package types

// CVDraft is the editable field set for a CV before compilation. Once a
// draft has been handed to the editing step, regeneration re-renders the
// edited draft verbatim; the matcher is never re-invoked for it.
type CVDraft struct {
	DisplayTitle   string              `json:"display_title"`
	Summary        string              `json:"summary"`
	Skills         []SkillSection      `json:"skills"`
	Experiences    []ExperienceSection `json:"experiences"`
	Projects       []ProjectSection    `json:"projects"`
	Certifications []string            `json:"certifications"`
	Language       string              `json:"language"`
}

// SkillSection is one rendered skills row: a label and its items.
type SkillSection struct {
	Label string   `json:"label"`
	Items []string `json:"items"`
}

// ExperienceSection is one rendered experience block.
type ExperienceSection struct {
	Role     string   `json:"role"`
	Org      string   `json:"org"`
	Period   string   `json:"period"`
	Location string   `json:"location,omitempty"`
	Bullets  []string `json:"bullets"`
}

// ProjectSection is one rendered project block.
type ProjectSection struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// CoverDraft is the editable field set for a cover letter: five paragraphs
// in reading order plus tone and language.
type CoverDraft struct {
	Hook     string `json:"hook"`
	Company  string `json:"company"`
	Me       string `json:"me"`
	Us       string `json:"us"`
	Closing  string `json:"closing"`
	Tone     string `json:"tone"` // "casual" or "formal"
	Language string `json:"language"`
}

// Paragraphs returns the cover letter body paragraphs in reading order,
// skipping empty ones.
func (d *CoverDraft) Paragraphs() []string {
	all := []string{d.Hook, d.Company, d.Me, d.Us, d.Closing}
	out := make([]string, 0, len(all))
	for _, p := range all {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

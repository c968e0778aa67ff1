//nolint:revive // types is a standard Go package name pattern
package types

// Profile is the static personal profile loaded once at startup.
// It is read-only input to matching; every operation receives it as an
// explicit value rather than reading ambient global state.
type Profile struct {
	Identity         Identity          `yaml:"identity" json:"identity"`
	SummaryTemplates []SummaryTemplate `yaml:"summary_templates" json:"summary_templates"`
	Skills           []SkillGroup      `yaml:"skills" json:"skills"`
	Experiences      []Experience      `yaml:"experiences" json:"experiences"`
	Projects         []Project         `yaml:"projects" json:"projects"`
	Certifications   []Certification   `yaml:"certifications" json:"certifications"`
}

// Identity holds the candidate's contact block rendered at the top of documents.
type Identity struct {
	Name     string `yaml:"name" json:"name"`
	Title    string `yaml:"title" json:"title"`
	Email    string `yaml:"email" json:"email"`
	Phone    string `yaml:"phone" json:"phone"`
	Location string `yaml:"location" json:"location,omitempty"`
	LinkedIn string `yaml:"linkedin" json:"linkedin,omitempty"`
	Website  string `yaml:"website" json:"website,omitempty"`
}

// SummaryTemplate is one candidate summary paragraph variant. The matcher
// picks the template whose tags overlap most with the posting keywords,
// breaking ties by declaration order.
type SummaryTemplate struct {
	Tag  string            `yaml:"tag" json:"tag"`
	Text map[string]string `yaml:"text" json:"text"` // language -> paragraph
	Tags []string          `yaml:"tags" json:"tags"`
}

// SkillGroup is a labeled group of related skill items (one CV skills row).
type SkillGroup struct {
	Label map[string]string `yaml:"label" json:"label"` // language -> label
	Items []string          `yaml:"items" json:"items"`
	Tags  []string          `yaml:"tags" json:"tags"`
}

// Experience is one work experience entry.
type Experience struct {
	Role     map[string]string   `yaml:"role" json:"role"` // language -> role title
	Org      string              `yaml:"org" json:"org"`
	Period   string              `yaml:"period" json:"period"`
	Location string              `yaml:"location" json:"location,omitempty"`
	Bullets  map[string][]string `yaml:"bullets" json:"bullets"` // language -> bullet lines
	Tags     []string            `yaml:"tags" json:"tags"`
}

// Project is one personal or professional project entry.
type Project struct {
	Name         string            `yaml:"name" json:"name"`
	Description  map[string]string `yaml:"description" json:"description"` // language -> text
	Technologies []string          `yaml:"technologies" json:"technologies"`
	Tags         []string          `yaml:"tags" json:"tags"`
}

// Certification is a named certification with matching tags.
type Certification struct {
	Name string   `yaml:"name" json:"name"`
	Year string   `yaml:"year" json:"year,omitempty"`
	Tags []string `yaml:"tags" json:"tags"`
}

// localized returns the language variant for lang, falling back to French,
// then to any defined variant.
func localized(m map[string]string, lang string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[lang]; ok && v != "" {
		return v
	}
	if v, ok := m["fr"]; ok && v != "" {
		return v
	}
	for _, v := range m {
		if v != "" {
			return v
		}
	}
	return ""
}

// LocalizedText returns the text variant for lang with French fallback.
func (t SummaryTemplate) LocalizedText(lang string) string { return localized(t.Text, lang) }

// LocalizedLabel returns the label variant for lang with French fallback.
func (g SkillGroup) LocalizedLabel(lang string) string { return localized(g.Label, lang) }

// LocalizedRole returns the role title variant for lang with French fallback.
func (e Experience) LocalizedRole(lang string) string { return localized(e.Role, lang) }

// LocalizedBullets returns the bullet lines for lang with French fallback.
func (e Experience) LocalizedBullets(lang string) []string {
	if e.Bullets == nil {
		return nil
	}
	if v, ok := e.Bullets[lang]; ok && len(v) > 0 {
		return v
	}
	if v, ok := e.Bullets["fr"]; ok && len(v) > 0 {
		return v
	}
	for _, v := range e.Bullets {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}

// LocalizedDescription returns the description variant for lang with French fallback.
func (p Project) LocalizedDescription(lang string) string { return localized(p.Description, lang) }

// Package config - profile.go loads and validates the static personal profile.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mathieu/apply-pilot/internal/types"
)

// LoadProfile reads the personal profile from a YAML file, normalizes it,
// and validates it. The returned profile is treated as immutable for the
// lifetime of the process.
func LoadProfile(path string) (*types.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	var profile types.Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}

	NormalizeProfile(&profile)

	if err := ValidateProfile(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// NormalizeProfile lowercases and trims every tag so matching is
// case-insensitive without per-call conversion.
func NormalizeProfile(p *types.Profile) {
	for i := range p.SummaryTemplates {
		p.SummaryTemplates[i].Tags = normalizeTags(p.SummaryTemplates[i].Tags)
	}
	for i := range p.Skills {
		p.Skills[i].Tags = normalizeTags(p.Skills[i].Tags)
	}
	for i := range p.Experiences {
		p.Experiences[i].Tags = normalizeTags(p.Experiences[i].Tags)
	}
	for i := range p.Projects {
		p.Projects[i].Tags = normalizeTags(p.Projects[i].Tags)
	}
	for i := range p.Certifications {
		p.Certifications[i].Tags = normalizeTags(p.Certifications[i].Tags)
	}
}

// ValidateProfile checks the profile has the minimum content the pipeline
// depends on.
func ValidateProfile(p *types.Profile) error {
	if p.Identity.Name == "" {
		return fmt.Errorf("profile error: identity.name is required")
	}
	if p.Identity.Email == "" {
		return fmt.Errorf("profile error: identity.email is required")
	}
	if len(p.SummaryTemplates) == 0 {
		return fmt.Errorf("profile error: at least one summary template is required")
	}
	if len(p.Skills) == 0 {
		return fmt.Errorf("profile error: at least one skill group is required")
	}
	for i, tmpl := range p.SummaryTemplates {
		if tmpl.Tag == "" {
			return fmt.Errorf("profile error: summary_templates[%d].tag is required", i)
		}
		if len(tmpl.Text) == 0 {
			return fmt.Errorf("profile error: summary_templates[%d].text is required", i)
		}
	}
	for i, group := range p.Skills {
		if len(group.Label) == 0 {
			return fmt.Errorf("profile error: skills[%d].label is required", i)
		}
		if len(group.Items) == 0 {
			return fmt.Errorf("profile error: skills[%d].items is required", i)
		}
	}
	for i, exp := range p.Experiences {
		if len(exp.Role) == 0 {
			return fmt.Errorf("profile error: experiences[%d].role is required", i)
		}
		if exp.Org == "" {
			return fmt.Errorf("profile error: experiences[%d].org is required", i)
		}
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

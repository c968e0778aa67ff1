package parsing

import (
	"regexp"
	"strings"

	"github.com/mathieu/apply-pilot/internal/types"
)

// Job boards decorate titles with contract suffixes and diversity markers
// that only add noise downstream: "Data Engineer - CDI - Paris (H/F)".
var (
	titleDashSuffix    = regexp.MustCompile(`\s*[-–—]\s+.*$`)
	titleParityMarker  = regexp.MustCompile(`\s*[\(\[]\s*[xXhHfFmM]\s*/?\s*[xXhHfFmM]\s*/?\s*[xXhHfFmM]?\s*[\)\]]?\s*$`)
	titleTrailingParts = regexp.MustCompile(`\s+[HhFf]\s*/?\s*[HhFf]\s*$`)
)

// placeholderValues are strings models and job boards emit for fields they
// could not fill. An optional field carrying one of these is treated as empty.
var placeholderValues = map[string]bool{
	"n/a":           true,
	"na":            true,
	"none":          true,
	"null":          true,
	"unknown":       true,
	"not specified": true,
	"non spécifié":  true,
	"non specifie":  true,
	"-":             true,
}

// CleanTitle strips board decorations from a raw posting title: everything
// after a spaced dash, parenthesized parity markers like (H/F) or (x/x/x),
// and bare trailing H/F pairs.
func CleanTitle(title string) string {
	title = titleDashSuffix.ReplaceAllString(title, "")
	title = titleParityMarker.ReplaceAllString(title, "")
	title = titleTrailingParts.ReplaceAllString(title, "")
	return collapseSpaces(title)
}

// NormalizePosting cleans field values in place: titles lose board
// decorations, single-line fields lose stray whitespace, and optional
// fields carrying placeholder values are blanked.
func NormalizePosting(p *types.JobPosting) {
	p.Title = CleanTitle(p.Title)
	p.Company = collapseSpaces(p.Company)
	p.Location = scrubPlaceholder(collapseSpaces(p.Location))
	p.Salary = scrubPlaceholder(collapseSpaces(p.Salary))
	p.ContractType = scrubPlaceholder(collapseSpaces(p.ContractType))
	p.Description = strings.TrimSpace(p.Description)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func scrubPlaceholder(s string) string {
	if placeholderValues[strings.ToLower(s)] {
		return ""
	}
	return s
}

// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mathieu/apply-pilot/internal/db"
	"github.com/mathieu/apply-pilot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobPosting outputs a human-readable summary of the extracted posting.
func (p *Printer) PrintJobPosting(posting *types.JobPosting) {
	if posting == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Company:   %s\n", posting.Company))
	sb.WriteString(fmt.Sprintf("Title:     %s\n", posting.Title))
	if posting.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:  %s\n", posting.Location))
	}
	if posting.ContractType != "" {
		sb.WriteString(fmt.Sprintf("Contract:  %s\n", posting.ContractType))
	}
	if posting.Salary != "" {
		sb.WriteString(fmt.Sprintf("Salary:    %s\n", posting.Salary))
	}
	sb.WriteString(fmt.Sprintf("Language:  %s\n", posting.Language))

	if len(posting.Keywords) > 0 {
		sb.WriteString("\nKeywords:\n")
		count := min(len(posting.Keywords), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", posting.Keywords[i]))
		}
		if len(posting.Keywords) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(posting.Keywords)-maxItemsToShow))
		}
	}

	p.printBox("EXTRACTED JOB POSTING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchResult outputs the match score and what the matcher selected.
// lang picks the display variant of localized profile labels.
func (p *Printer) PrintMatchResult(match *types.MatchResult, lang string) {
	if match == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Score:    %d/100\n", match.Score))
	if match.SummaryTag != "" {
		sb.WriteString(fmt.Sprintf("Summary:  %s\n", match.SummaryTag))
	}

	if len(match.MatchedKeywords) > 0 {
		sb.WriteString("\nMatched keywords:\n")
		count := min(len(match.MatchedKeywords), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", match.MatchedKeywords[i]))
		}
		if len(match.MatchedKeywords) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(match.MatchedKeywords)-maxItemsToShow))
		}
	}

	if len(match.SelectedSkills) > 0 {
		sb.WriteString("\nSkill groups:\n")
		count := min(len(match.SelectedSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sel := match.SelectedSkills[i]
			sb.WriteString(fmt.Sprintf("  • %s (%.2f", sel.Group.LocalizedLabel(lang), sel.Score))
			if sel.ExactMatches > 0 {
				sb.WriteString(fmt.Sprintf(", %d exact", sel.ExactMatches))
			}
			sb.WriteString(")\n")
		}
		if len(match.SelectedSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(match.SelectedSkills)-maxItemsToShow))
		}
	}

	if len(match.SelectedExperiences) > 0 {
		sb.WriteString("\nExperiences:\n")
		count := min(len(match.SelectedExperiences), 3)
		for i := 0; i < count; i++ {
			sel := match.SelectedExperiences[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s (%.2f)\n", sel.Experience.LocalizedRole(lang), sel.Experience.Org, sel.Score))
		}
		if len(match.SelectedExperiences) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(match.SelectedExperiences)-3))
		}
	}

	p.printBox("PROFILE MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintApplication outputs one tracked application record.
func (p *Printer) PrintApplication(app *db.Application) {
	if app == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ID:       %s\n", app.ID))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", app.Company))
	sb.WriteString(fmt.Sprintf("Position: %s\n", app.Position))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", app.Status))
	sb.WriteString(fmt.Sprintf("Applied:  %s\n", app.AppliedDate.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Match:    %d%%\n", app.MatchScore))
	if app.CVPath != "" {
		sb.WriteString(fmt.Sprintf("CV:       %s\n", app.CVPath))
	}
	if app.CoverPath != "" {
		sb.WriteString(fmt.Sprintf("Cover:    %s\n", app.CoverPath))
	}

	p.printBox("APPLICATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintApplicationList outputs every tracked application, one line each.
// Listing output is not truncated to maxItemsToShow; a list that hides
// rows is useless for the list command.
func (p *Printer) PrintApplicationList(apps []*db.Application) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tracking %d applications:\n\n", len(apps)))

	for _, app := range apps {
		sb.WriteString(fmt.Sprintf("%s  %-19s %s · %s\n", app.ID, app.Status, app.Company, app.Position))
	}

	p.printBox("TRACKED APPLICATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

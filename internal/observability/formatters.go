// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
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

// PrintExtractedText outputs a preview of the text extracted from the
// uploaded document along with basic length stats.
func (p *Printer) PrintExtractedText(text string) {
	if text == "" {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Characters: %d\n", len(text)))
	sb.WriteString(fmt.Sprintf("Words:      %d\n", len(strings.Fields(text))))
	sb.WriteString("\n")

	lines := strings.Split(text, "\n")
	count := min(len(lines), maxItemsToShow)
	for i := 0; i < count; i++ {
		line := strings.TrimSpace(lines[i])
		if len(line) > 50 {
			line = line[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", line))
	}
	if len(lines) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more lines", len(lines)-maxItemsToShow))
	}

	p.printBox("EXTRACTED TEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResume outputs a human-readable summary of the converted resume.
func (p *Printer) PrintResume(resume *types.Resume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	name := strings.TrimSpace(resume.PersonalInfo.FirstName + " " + resume.PersonalInfo.LastName)
	sb.WriteString(fmt.Sprintf("Name:     %s\n", name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", resume.PersonalInfo.Email))
	sb.WriteString(fmt.Sprintf("Template: %s\n", resume.Template))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Experience entries: %d\n", len(resume.Experience)))
	sb.WriteString(fmt.Sprintf("Education entries:  %d\n", len(resume.Education)))
	sb.WriteString(fmt.Sprintf("Skills:             %d\n", len(resume.Skills)))
	sb.WriteString(fmt.Sprintf("Projects:           %d\n", len(resume.Projects)))
	sb.WriteString(fmt.Sprintf("Awards:             %d", len(resume.Awards)))

	p.printBox("CONVERTED RESUME", sb.String())
}

// PrintExperience outputs the top experience entries with their companies.
func (p *Printer) PrintExperience(entries []types.Experience) {
	if len(entries) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		entry := entries[i]
		sb.WriteString(fmt.Sprintf("• %s", entry.Title))
		if entry.Company != "" {
			sb.WriteString(fmt.Sprintf(" at %s", entry.Company))
		}
		sb.WriteString("\n")
		if entry.StartDate != "" {
			end := entry.EndDate
			if entry.Current {
				end = "Present"
			}
			sb.WriteString(fmt.Sprintf("  %s - %s\n", entry.StartDate, end))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more entries", len(entries)-maxItemsToShow))
	}

	p.printBox("EXPERIENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs the extracted skills grouped by category.
func (p *Printer) PrintSkills(skills []types.Skill) {
	if len(skills) == 0 {
		return
	}

	byCategory := map[types.SkillCategory][]string{}
	for _, s := range skills {
		byCategory[s.Category] = append(byCategory[s.Category], s.Name)
	}

	var sb strings.Builder
	for _, cat := range []types.SkillCategory{types.SkillTechnical, types.SkillSoft, types.SkillLanguage} {
		names := byCategory[cat]
		if len(names) == 0 {
			continue
		}
		joined := strings.Join(names, ", ")
		if len(joined) > 40 {
			joined = joined[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("%-10s %s\n", string(cat)+":", joined))
	}

	p.printBox("SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDegraded warns that the conversion fell back to heuristics.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDegraded(cause error) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "⚠ DEGRADED CONVERSION (heuristic fallback)")
	if cause != nil {
		msg := cause.Error()
		if len(msg) > boxWidth-4 {
			msg = msg[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, msg)
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

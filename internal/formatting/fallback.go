package formatting

import (
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?[\d\s()-]{10,}`)
)

// Fallback placeholder name parts used when the text yields no name line.
const (
	fallbackFirstName = "Your"
	fallbackLastName  = "Name"
)

// FallbackResume reconstructs a Resume from raw extracted text with no
// network calls. Intentionally lossy in structure but lossless in
// content: the entire original text lands in the summary field, so the
// user can redistribute it in the editor. Fully deterministic apart
// from freshly generated identifiers and timestamps.
func FallbackResume(extractedText string) *types.Resume {
	resume := types.NewResume()
	resume.Title = "New Resume - Needs Review"
	resume.PersonalInfo = types.PersonalInfo{
		FirstName: fallbackFirstName,
		LastName:  fallbackLastName,
	}

	// The whole text goes into the summary as a last resort, so no data
	// is ever lost.
	resume.Summary = extractedText

	lines := nonEmptyLines(extractedText)
	if len(lines) > 0 {
		nameLine := lines[0]
		parts := strings.Fields(nameLine)
		if len(parts) > 0 {
			resume.PersonalInfo.FirstName = parts[0]
			if rest := strings.Join(parts[1:], " "); rest != "" {
				resume.PersonalInfo.LastName = rest
			} else {
				resume.PersonalInfo.LastName = fallbackLastName
			}
		}
		resume.Title = nameLine + " - Professional Style"
	}

	if email := emailPattern.FindString(extractedText); email != "" {
		resume.PersonalInfo.Email = email
	}
	if phone := phonePattern.FindString(extractedText); phone != "" {
		resume.PersonalInfo.Phone = strings.TrimSpace(phone)
	}

	// One placeholder entry so the editor's experience form is not empty.
	resume.Experience = append(resume.Experience, types.Experience{
		ID:        types.NewID(),
		Title:     "Please review and edit",
		Company:   "Your information has been saved in the summary",
		Location:  "And other sections if possible",
		StartDate: time.Now().UTC().Format("2006-01-02"),
		Current:   true,
		Description: "We couldn't fully categorize your resume automatically, but all the text " +
			"from your CV has been placed in the 'Professional Summary' section. Please use the " +
			"editor to move the text into the correct sections like Experience, Education, etc.",
		Achievements: []string{},
	})

	return resume
}

// nonEmptyLines splits text into lines, dropping blank ones.
func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// Package extraction produces a best-effort plain-text transcript from
// an uploaded CV file. It never fails outright: when nothing usable can
// be recovered it returns a placeholder string, so the conversion
// pipeline always has input to work with.
package extraction

import (
	"fmt"
	"strings"
)

// Supported upload MIME types
const (
	MIMEPDF  = "application/pdf"
	MIMEDoc  = "application/msword"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ExtractText converts an uploaded file into plain text based on its
// declared MIME type. The result is best-effort: degraded extractions
// return whatever readable text was found, and total failures return a
// placeholder instructing the user to enter their information manually.
func ExtractText(filename, mimeType string, data []byte) string {
	var text string
	switch mimeType {
	case MIMEPDF:
		text = extractPDF(filename, data)
	case MIMEDocx:
		text = extractDocx(filename, data)
	case MIMEDoc:
		text = extractDoc(data)
	default:
		return placeholder(filename, mimeType)
	}

	if strings.TrimSpace(text) == "" {
		return placeholder(filename, mimeType)
	}
	return text
}

// placeholder is the never-fail fallback string.
func placeholder(filename, mimeType string) string {
	return fmt.Sprintf("This is a %s file named %s. Please manually enter your CV information.",
		mimeType, filename)
}

// normalizeWhitespace collapses runs of whitespace while preserving
// line boundaries, which the fallback reconstructor relies on.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		out = append(out, strings.Join(fields, " "))
	}
	return strings.Join(out, "\n")
}

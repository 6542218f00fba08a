package extraction

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// minUsablePDFText is the threshold below which a structured parse is
// considered degraded and the raw byte scan takes over.
const minUsablePDFText = 50

var (
	parenStringPattern = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)
	tjOperatorPattern  = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*Tj`)
	octalEscapePattern = regexp.MustCompile(`\\([0-7]{3})`)
	nonPrintablePat    = regexp.MustCompile(`[^\x20-\x7E\n]`)
	multiSpacePattern  = regexp.MustCompile(`\s+`)
)

// extractPDF extracts text from a PDF, preferring the structured parser
// and falling back to a byte-pattern scan for files the parser cannot
// handle (encrypted, malformed, or exotic encodings).
func extractPDF(filename string, data []byte) string {
	if text := structuredPDFText(data); len(strings.TrimSpace(text)) >= minUsablePDFText {
		return text
	}

	if text := scanPDFBytes(data); len(text) >= minUsablePDFText {
		return text
	}

	return fmt.Sprintf("Unable to extract text from PDF: %s. "+
		"The file may be image-based or use complex encoding. "+
		"Please manually enter your CV information.", filename)
}

// structuredPDFText runs the real PDF parser. The parser panics on some
// malformed files; a recover here keeps the never-fail contract.
func structuredPDFText(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	rs, err := reader.GetPlainText()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return ""
	}
	return normalizeWhitespace(buf.String())
}

// scanPDFBytes is the best-effort heuristic for PDFs the parser rejects.
// It pattern-matches text-showing constructs in the raw bytes: literal
// strings in parentheses, Tj operators, and readable words inside
// content streams. Explicitly not a PDF parser.
func scanPDFBytes(data []byte) string {
	raw := string(data)
	var sb strings.Builder

	// Tj operators carry the actual page text when present
	for _, match := range tjOperatorPattern.FindAllStringSubmatch(raw, -1) {
		content := decodePDFString(match[1])
		if len(content) > 1 {
			sb.WriteString(content)
			sb.WriteString(" ")
		}
	}

	// Literal strings elsewhere in the document
	for _, match := range parenStringPattern.FindAllStringSubmatch(raw, -1) {
		content := decodePDFString(match[1])
		if len(content) > 1 && hasAlphanumeric(content) {
			sb.WriteString(content)
			sb.WriteString(" ")
		}
	}

	// Readable fragments inside uncompressed streams
	for _, stream := range streamSections(raw) {
		for _, word := range strings.Fields(stream) {
			if len(word) > 2 && isReadableWord(word) {
				sb.WriteString(word)
				sb.WriteString(" ")
			}
		}
	}

	text := nonPrintablePat.ReplaceAllString(sb.String(), " ")
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(text, " "))
}

// decodePDFString resolves common escape sequences in a PDF literal string.
func decodePDFString(s string) string {
	s = octalEscapePattern.ReplaceAllStringFunc(s, func(m string) string {
		code, err := strconv.ParseInt(m[1:], 8, 32)
		if err != nil || code < 0x20 || code > 0x7E {
			return " "
		}
		return string(rune(code))
	})
	replacer := strings.NewReplacer(
		`\r`, "\r",
		`\n`, "\n",
		`\t`, "\t",
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
	)
	return strings.TrimSpace(replacer.Replace(s))
}

// streamSections returns the content between stream/endstream markers.
func streamSections(raw string) []string {
	var sections []string
	rest := raw
	for {
		start := strings.Index(rest, "stream")
		if start < 0 {
			break
		}
		rest = rest[start+len("stream"):]
		end := strings.Index(rest, "endstream")
		if end < 0 {
			break
		}
		sections = append(sections, rest[:end])
		rest = rest[end+len("endstream"):]
	}
	return sections
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return true
		}
	}
	return false
}

func isReadableWord(word string) bool {
	for _, r := range word {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == ',' || r == '-' || r == '@':
		default:
			return false
		}
	}
	return true
}

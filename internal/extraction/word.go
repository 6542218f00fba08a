package extraction

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// extractDocx extracts text from an Open XML Word document by pulling
// word/document.xml out of the zip container and stripping the markup.
func extractDocx(filename string, data []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		// Not a zip container; treat like a legacy binary document
		return extractDoc(data)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			docXML = nil
		}
		break
	}
	if len(docXML) == 0 {
		return fmt.Sprintf("Unable to extract text from Word document: %s. "+
			"Please manually enter your CV information.", filename)
	}

	xml := string(docXML)
	// Paragraph and tab boundaries become whitespace before tags are dropped
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	txt := xmlTagPattern.ReplaceAllString(xml, " ")
	return normalizeWhitespace(txt)
}

// extractDoc scrapes printable text out of a legacy .doc binary. There
// is no real parser here; the goal is recovering enough words that the
// conversion pipeline and its fallback have something to preserve.
func extractDoc(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		if (b >= 0x20 && b <= 0x7E) || b == '\n' {
			sb.WriteByte(b)
		} else {
			sb.WriteByte(' ')
		}
	}
	return normalizeWhitespace(sb.String())
}

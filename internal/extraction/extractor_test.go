package extraction

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextUnsupportedType(t *testing.T) {
	text := ExtractText("notes.txt", "text/plain", []byte("hello"))
	assert.Contains(t, text, "text/plain")
	assert.Contains(t, text, "notes.txt")
	assert.Contains(t, text, "manually enter")
}

func TestExtractTextNeverEmpty(t *testing.T) {
	tests := []struct {
		name string
		mime string
		data []byte
	}{
		{"empty pdf", MIMEPDF, nil},
		{"garbage pdf", MIMEPDF, []byte{0x00, 0x01, 0x02}},
		{"empty docx", MIMEDocx, nil},
		{"garbage docx", MIMEDocx, []byte("not a zip")},
		{"empty doc", MIMEDoc, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := ExtractText("cv.bin", tt.mime, tt.data)
			assert.NotEmpty(t, strings.TrimSpace(text), "extraction must never fail outright")
		})
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDocx(t *testing.T) {
	docXML := `<?xml version="1.0"?><w:document><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>jane@example.com</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Software</w:t></w:r><w:tab/><w:r><w:t>Engineer</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text := ExtractText("cv.docx", MIMEDocx, buildDocx(t, docXML))

	lines := strings.Split(text, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "Jane Doe", lines[0], "paragraph boundaries must survive as line breaks")
	assert.Equal(t, "jane@example.com", lines[1])
	assert.Contains(t, lines[2], "Software")
	assert.Contains(t, lines[2], "Engineer")
	assert.NotContains(t, text, "<w:", "markup must be stripped")
}

func TestExtractDocxWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, _ = w.Write([]byte("<w:styles/>"))
	require.NoError(t, zw.Close())

	text := ExtractText("cv.docx", MIMEDocx, buf.Bytes())
	assert.Contains(t, text, "Unable to extract text from Word document")
}

func TestExtractDoc(t *testing.T) {
	// Legacy .doc scraping: printable runs survive, control bytes become spaces
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0}, []byte("Jane Doe Senior Engineer")...)
	data = append(data, 0x00, 0x01)

	text := ExtractText("cv.doc", MIMEDoc, data)
	assert.Contains(t, text, "Jane Doe Senior Engineer")
}

func TestExtractPDFHeuristicScan(t *testing.T) {
	// An uncompressed, hand-rolled PDF fragment with Tj text operators.
	// The structured parser will reject it; the byte scan must recover
	// the text content anyway.
	raw := `%PDF-1.4
1 0 obj
<< /Length 120 >>
stream
BT
(Jane Doe) Tj
(Senior Software Engineer with a decade of experience) Tj
(jane@example.com) Tj
ET
endstream
endobj
%%EOF`

	text := ExtractText("cv.pdf", MIMEPDF, []byte(raw))
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Senior Software Engineer")
	assert.Contains(t, text, "jane@example.com")
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Hello", "Hello"},
		{"escaped parens", `a \(b\) c`, "a (b) c"},
		{"escaped backslash", `a\\b`, `a\b`},
		{"octal escape", `caf\351`, "caf"},             // non-ASCII octal becomes a space, then trimmed
		{"printable octal", `A\102C`, "ABC"},           // \102 = 'B'
		{"tab escape", `a\tb`, "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, decodePDFString(tt.input))
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	input := "  Jane   Doe  \n\n\n  Engineer \t at   Acme  \n"
	assert.Equal(t, "Jane Doe\nEngineer at Acme", normalizeWhitespace(input))
}

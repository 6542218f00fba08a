// Package render turns resumes into printable HTML and PDF documents.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("resume").Funcs(template.FuncMap{
	"join": strings.Join,
	"dateRange": func(start, end string, current bool) string {
		switch {
		case current && start != "":
			return start + " - Present"
		case start != "" && end != "":
			return start + " - " + end
		case start != "":
			return start
		default:
			return end
		}
	},
}).ParseFS(templateFS, "templates/*.html.tmpl"))

// HTML renders a resume with its selected template. Unknown template
// values fall back to the professional layout rather than failing a
// whole export.
func HTML(resume *types.Resume) (string, error) {
	name := resume.Template
	if !name.Valid() {
		name = types.TemplateProfessional
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(name)+".html.tmpl", resume); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", name, err)
	}
	return buf.String(), nil
}

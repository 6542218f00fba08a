// Package schemas validates resume documents against the embedded JSON
// Schema before they are persisted or rendered.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var schemaFS embed.FS

var (
	resumeSchemaOnce sync.Once
	resumeSchema     *gojsonschema.Schema
	resumeSchemaErr  error
)

// ValidationError reports every field that failed schema validation.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation failure at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError reports a problem with the schema itself rather than
// the document being validated.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

func loadResumeSchema() (*gojsonschema.Schema, error) {
	resumeSchemaOnce.Do(func() {
		raw, err := schemaFS.ReadFile("resume.schema.json")
		if err != nil {
			resumeSchemaErr = &SchemaLoadError{
				Path:    "resume.schema.json",
				Message: "embedded schema missing",
				Cause:   err,
			}
			return
		}
		resumeSchema, resumeSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if resumeSchemaErr != nil {
			resumeSchemaErr = &SchemaLoadError{
				Path:    "resume.schema.json",
				Message: "schema failed to compile",
				Cause:   resumeSchemaErr,
			}
		}
	})
	return resumeSchema, resumeSchemaErr
}

// ValidateResume checks a serialized resume document against the
// embedded schema. A nil return means the document is structurally
// sound; a *ValidationError carries per-field detail otherwise.
func ValidateResume(document []byte) error {
	schema, err := loadResumeSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &SchemaLoadError{
			Path:    "resume.schema.json",
			Message: "document could not be validated",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

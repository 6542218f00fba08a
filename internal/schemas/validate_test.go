package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func TestValidateResumeAcceptsNewResume(t *testing.T) {
	resume := types.NewResume()
	resume.Title = "Jane Doe - Professional Style"
	resume.PersonalInfo.FirstName = "Jane"

	doc, err := json.Marshal(resume)
	require.NoError(t, err)

	assert.NoError(t, ValidateResume(doc))
}

func TestValidateResumeAcceptsFullDocument(t *testing.T) {
	resume := types.NewResume()
	resume.Title = "Jane Doe - Professional Style"
	resume.Summary = "Seasoned engineer."
	resume.Experience = append(resume.Experience, types.Experience{
		ID:           types.NewID(),
		Title:        "Engineer",
		Company:      "Acme Corp",
		Current:      true,
		Achievements: []string{"Shipped things"},
	})
	resume.Skills = append(resume.Skills, types.Skill{
		ID:       types.NewID(),
		Name:     "Go",
		Category: types.SkillTechnical,
		Level:    types.LevelAdvanced,
	})

	doc, err := json.Marshal(resume)
	require.NoError(t, err)

	assert.NoError(t, ValidateResume(doc))
}

func TestValidateResumeRejectsMissingSections(t *testing.T) {
	err := ValidateResume([]byte(`{"id": "r1", "title": "Untitled"}`))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateResumeRejectsBadEnums(t *testing.T) {
	resume := types.NewResume()
	resume.Title = "Untitled"
	doc, err := json.Marshal(resume)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(doc, &m))
	m["template"] = "glossy"
	m["skills"] = []map[string]any{{
		"id": "s1", "name": "Go", "category": "technical", "level": "wizard",
	}}
	doc, err = json.Marshal(m)
	require.NoError(t, err)

	validationErr := ValidateResume(doc)
	var ve *ValidationError
	require.ErrorAs(t, validationErr, &ve)

	fields := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "template")
	assert.Contains(t, fields, "skills.0.level")
}

func TestValidateResumeRejectsEmptyID(t *testing.T) {
	resume := types.NewResume()
	resume.ID = ""
	resume.Title = "Untitled"
	doc, err := json.Marshal(resume)
	require.NoError(t, err)

	var ve *ValidationError
	require.ErrorAs(t, ValidateResume(doc), &ve)
}

func TestValidateResumeRejectsMalformedJSON(t *testing.T) {
	err := ValidateResume([]byte(`{"id": `))

	var le *SchemaLoadError
	require.ErrorAs(t, err, &le)
}

func TestValidationErrorMessage(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "title", Message: "is required"},
	}}
	assert.Contains(t, ve.Error(), "title")
	assert.Contains(t, ve.Error(), "is required")
}

package formatting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCV = "Jane Doe\njane@example.com\n555-123-4567\nSoftware engineer with 5 years experience..."

func TestFallbackResumePreservesAllContent(t *testing.T) {
	resume := FallbackResume(sampleCV)

	assert.Equal(t, sampleCV, resume.Summary, "summary must contain the full input verbatim")
	assert.Equal(t, "Jane", resume.PersonalInfo.FirstName)
	assert.Equal(t, "Doe", resume.PersonalInfo.LastName)
	assert.Equal(t, "jane@example.com", resume.PersonalInfo.Email)
	assert.Contains(t, resume.PersonalInfo.Phone, "555-123-4567")
	assert.Equal(t, "Jane Doe - Professional Style", resume.Title)
}

func TestFallbackResumePlaceholderExperience(t *testing.T) {
	resume := FallbackResume(sampleCV)

	require.Len(t, resume.Experience, 1, "exactly one placeholder experience entry")
	exp := resume.Experience[0]
	assert.NotEmpty(t, exp.ID)
	assert.True(t, exp.Current)
	assert.Contains(t, exp.Description, "Professional Summary")
}

func TestFallbackResumeEmptyInput(t *testing.T) {
	resume := FallbackResume("")

	assert.Equal(t, "Your", resume.PersonalInfo.FirstName)
	assert.Equal(t, "Name", resume.PersonalInfo.LastName)
	assert.Equal(t, "New Resume - Needs Review", resume.Title)
	assert.Empty(t, resume.Summary)
	assert.Len(t, resume.Experience, 1)
}

func TestFallbackResumeSingleWordName(t *testing.T) {
	resume := FallbackResume("Prince\nsomewhere@example.org")

	assert.Equal(t, "Prince", resume.PersonalInfo.FirstName)
	assert.Equal(t, "Name", resume.PersonalInfo.LastName, "missing surname falls back to placeholder")
}

func TestFallbackResumeMultiWordSurname(t *testing.T) {
	resume := FallbackResume("Ana de la Cruz\nana@example.com")

	assert.Equal(t, "Ana", resume.PersonalInfo.FirstName)
	assert.Equal(t, "de la Cruz", resume.PersonalInfo.LastName)
}

func TestFallbackResumeDeterministic(t *testing.T) {
	first := FallbackResume(sampleCV)
	second := FallbackResume(sampleCV)

	// Identifiers may differ between calls; everything extracted must not.
	assert.Equal(t, first.PersonalInfo.FirstName, second.PersonalInfo.FirstName)
	assert.Equal(t, first.PersonalInfo.LastName, second.PersonalInfo.LastName)
	assert.Equal(t, first.PersonalInfo.Email, second.PersonalInfo.Email)
	assert.Equal(t, first.PersonalInfo.Phone, second.PersonalInfo.Phone)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Title, second.Title)
}

func TestFallbackResumeNoContactInfo(t *testing.T) {
	text := "John Smith\nA seasoned carpenter with two decades of experience building homes."
	resume := FallbackResume(text)

	assert.Empty(t, resume.PersonalInfo.Email)
	assert.Empty(t, resume.PersonalInfo.Phone)
	assert.Equal(t, text, resume.Summary)
}

func TestFallbackResumeStructurallyValid(t *testing.T) {
	resume := FallbackResume(sampleCV)

	seen := make(map[string]bool)
	for _, id := range resume.SubRecordIDs() {
		require.NotEmpty(t, id)
		require.False(t, seen[id], "sub-record identifiers must be unique")
		seen[id] = true
	}
	assert.NotNil(t, resume.Education)
	assert.NotNil(t, resume.Skills)
	assert.NotNil(t, resume.Projects)
	assert.NotNil(t, resume.Awards)
}

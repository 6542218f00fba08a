// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Template identifies the visual template a resume is rendered with.
type Template string

// Supported resume templates
const (
	TemplateProfessional Template = "professional"
	TemplateModern       Template = "modern"
	TemplateClassic      Template = "classic"
)

// Valid reports whether t is one of the supported templates.
func (t Template) Valid() bool {
	switch t {
	case TemplateProfessional, TemplateModern, TemplateClassic:
		return true
	}
	return false
}

// SkillCategory classifies a skill entry.
type SkillCategory string

// Supported skill categories
const (
	SkillTechnical SkillCategory = "technical"
	SkillSoft      SkillCategory = "soft"
	SkillLanguage  SkillCategory = "language"
)

// Valid reports whether c is a recognized category.
func (c SkillCategory) Valid() bool {
	switch c {
	case SkillTechnical, SkillSoft, SkillLanguage:
		return true
	}
	return false
}

// SkillLevel describes proficiency in a skill.
type SkillLevel string

// Supported skill levels
const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
	LevelExpert       SkillLevel = "expert"
)

// Valid reports whether l is a recognized level.
func (l SkillLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	}
	return false
}

// PersonalInfo holds name, contact, and link fields for a resume.
// The conversion pipeline does not enforce format invariants here;
// validation happens in the edit forms.
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Website   string `json:"website,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
}

// Experience represents a single employment entry.
// Dates are free-form strings; the pipeline never validates them as
// real dates. When Current is true the end date is kept as-is and
// ignored by consumers.
type Experience struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Current      bool     `json:"current"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

// Education represents a single education entry.
type Education struct {
	ID          string   `json:"id"`
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	GPA         string   `json:"gpa,omitempty"`
	Honors      []string `json:"honors,omitempty"`
}

// Skill represents a named skill with category and proficiency level.
type Skill struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
	Level    SkillLevel    `json:"level"`
}

// Project represents a personal or professional project entry.
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
	GitHub       string   `json:"github,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate,omitempty"`
}

// Award represents an award or recognition entry.
type Award struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

// Resume is the root aggregate produced by the conversion pipeline and
// edited by the builder UI. Every sub-list element carries a unique,
// non-empty identifier assigned at creation time; identifiers present
// in LLM output are always discarded and replaced.
type Resume struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	Title        string       `json:"title"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Summary      string       `json:"summary"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Skills       []Skill      `json:"skills"`
	Projects     []Project    `json:"projects"`
	Awards       []Award      `json:"awards"`
	Template     Template     `json:"template"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// NewID returns a fresh unique identifier for a resume or sub-record.
func NewID() string {
	return uuid.New().String()
}

// NewResume returns an empty resume with a fresh identifier, the
// professional template, and all collections initialized so no field
// is ever absent when serialized.
func NewResume() *Resume {
	now := time.Now().UTC()
	return &Resume{
		ID:         NewID(),
		Template:   TemplateProfessional,
		Experience: []Experience{},
		Education:  []Education{},
		Skills:     []Skill{},
		Projects:   []Project{},
		Awards:     []Award{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SubRecordIDs collects the identifiers of every sub-list element.
// Used to verify the uniqueness invariant.
func (r *Resume) SubRecordIDs() []string {
	ids := make([]string, 0,
		len(r.Experience)+len(r.Education)+len(r.Skills)+len(r.Projects)+len(r.Awards))
	for _, e := range r.Experience {
		ids = append(ids, e.ID)
	}
	for _, e := range r.Education {
		ids = append(ids, e.ID)
	}
	for _, s := range r.Skills {
		ids = append(ids, s.ID)
	}
	for _, p := range r.Projects {
		ids = append(ids, p.ID)
	}
	for _, a := range r.Awards {
		ids = append(ids, a.ID)
	}
	return ids
}

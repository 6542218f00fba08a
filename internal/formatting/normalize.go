package formatting

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/types"
)

// Wire types for the LLM's JSON output. Decoded field by field into the
// canonical Resume shape; the model's JSON is never trusted to match it.
// Any "id" fields the model invents are simply not decoded.

type wireResume struct {
	PersonalInfo wirePersonalInfo `json:"personalInfo"`
	Summary      string           `json:"summary"`
	Experience   []wireExperience `json:"experience"`
	Education    []wireEducation  `json:"education"`
	Skills       []wireSkill      `json:"skills"`
	Projects     []wireProject    `json:"projects"`
	Awards       []wireAward      `json:"awards"`
}

type wirePersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Website   string `json:"website"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
}

type wireExperience struct {
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
	Achievements stringList `json:"achievements"`
}

type wireEducation struct {
	Degree      string     `json:"degree"`
	Institution string     `json:"institution"`
	Location    string     `json:"location"`
	StartDate   string     `json:"startDate"`
	EndDate     string     `json:"endDate"`
	GPA         string     `json:"gpa"`
	Honors      stringList `json:"honors"`
}

type wireSkill struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Level    string `json:"level"`
}

type wireProject struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Technologies stringList `json:"technologies"`
	URL          string     `json:"url"`
	GitHub       string     `json:"github"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
}

type wireAward struct {
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// stringList decodes either a JSON array of strings or a single string.
// Models occasionally collapse one-element lists into a bare string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = []string{}
		} else {
			*l = []string{single}
		}
		return nil
	}
	// Unusable shape: drop rather than fail the whole response
	*l = []string{}
	return nil
}

// NormalizeResponse parses the LLM's raw output and maps it into a
// fully-populated Resume. Every sub-record receives a freshly generated
// identifier; missing collections become empty lists and missing
// scalars empty strings, so the output always conforms to the full
// Resume shape even when the model's JSON was partial.
func NormalizeResponse(raw string) (*types.Resume, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if cleaned == "" {
		return nil, &ParseError{Message: "provider returned an empty response"}
	}

	var wire wireResume
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, &ParseError{Message: "response is not valid JSON", Cause: err}
	}

	resume := types.NewResume()
	resume.PersonalInfo = types.PersonalInfo{
		FirstName: wire.PersonalInfo.FirstName,
		LastName:  wire.PersonalInfo.LastName,
		Email:     wire.PersonalInfo.Email,
		Phone:     wire.PersonalInfo.Phone,
		Address:   wire.PersonalInfo.Address,
		Website:   wire.PersonalInfo.Website,
		LinkedIn:  wire.PersonalInfo.LinkedIn,
		GitHub:    wire.PersonalInfo.GitHub,
	}
	resume.Summary = wire.Summary
	resume.Title = resumeTitle(wire.PersonalInfo.FirstName, wire.PersonalInfo.LastName)

	for _, exp := range wire.Experience {
		resume.Experience = append(resume.Experience, types.Experience{
			ID:           types.NewID(),
			Title:        exp.Title,
			Company:      exp.Company,
			Location:     exp.Location,
			StartDate:    exp.StartDate,
			EndDate:      exp.EndDate,
			Current:      exp.Current,
			Description:  exp.Description,
			Achievements: orEmpty(exp.Achievements),
		})
	}

	for _, edu := range wire.Education {
		resume.Education = append(resume.Education, types.Education{
			ID:          types.NewID(),
			Degree:      edu.Degree,
			Institution: edu.Institution,
			Location:    edu.Location,
			StartDate:   edu.StartDate,
			EndDate:     edu.EndDate,
			GPA:         edu.GPA,
			Honors:      orEmpty(edu.Honors),
		})
	}

	for _, skill := range wire.Skills {
		resume.Skills = append(resume.Skills, types.Skill{
			ID:       types.NewID(),
			Name:     skill.Name,
			Category: coerceCategory(skill.Category),
			Level:    coerceLevel(skill.Level),
		})
	}

	for _, proj := range wire.Projects {
		resume.Projects = append(resume.Projects, types.Project{
			ID:           types.NewID(),
			Name:         proj.Name,
			Description:  proj.Description,
			Technologies: orEmpty(proj.Technologies),
			URL:          proj.URL,
			GitHub:       proj.GitHub,
			StartDate:    proj.StartDate,
			EndDate:      proj.EndDate,
		})
	}

	for _, award := range wire.Awards {
		resume.Awards = append(resume.Awards, types.Award{
			ID:          types.NewID(),
			Title:       award.Title,
			Issuer:      award.Issuer,
			Date:        award.Date,
			Description: award.Description,
		})
	}

	resume.UpdatedAt = time.Now().UTC()
	return resume, nil
}

// resumeTitle builds the display title shown in the dashboard.
func resumeTitle(firstName, lastName string) string {
	if firstName == "" {
		firstName = "New"
	}
	if lastName == "" {
		lastName = "Resume"
	}
	return firstName + " " + lastName + " - Professional Style"
}

// coerceCategory maps an LLM-provided category onto the enum, defaulting
// to technical for absent or unrecognized values. Coercion rather than
// rejection is deliberate: a usable resume beats a hard failure here.
func coerceCategory(raw string) types.SkillCategory {
	c := types.SkillCategory(strings.ToLower(strings.TrimSpace(raw)))
	if c.Valid() {
		return c
	}
	return types.SkillTechnical
}

// coerceLevel maps an LLM-provided level onto the enum, defaulting to
// intermediate for absent or unrecognized values.
func coerceLevel(raw string) types.SkillLevel {
	l := types.SkillLevel(strings.ToLower(strings.TrimSpace(raw)))
	if l.Valid() {
		return l
	}
	return types.LevelIntermediate
}

func orEmpty(l stringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}

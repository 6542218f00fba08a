// Package enhance generates and improves resume content with LLM
// assistance. Every operation degrades to deterministic canned output
// when the provider is unavailable, so callers always get usable text.
package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	summaryMaxTokens    = 150
	experienceMaxTokens = 300
	polishMaxTokens     = 2000

	// enhanceConcurrency bounds parallel provider calls when improving
	// several experience entries in one request.
	enhanceConcurrency = 3

	// promptFile holds every prompt this package uses.
	promptFile = "formatting.json"
)

// Options narrows generated content toward a specific opening.
type Options struct {
	JobDescription  string `json:"jobDescription,omitempty"`
	Industry        string `json:"industry,omitempty"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
	TargetRole      string `json:"targetRole,omitempty"`
}

// Service wraps an LLM client with the enhancement operations.
type Service struct {
	client llm.Client
	retry  llm.RetryPolicy
}

func NewService(client llm.Client) *Service {
	return &Service{client: client, retry: llm.DefaultRetryPolicy()}
}

// WithRetryPolicy overrides the default backoff, mainly for tests.
func (s *Service) WithRetryPolicy(p llm.RetryPolicy) *Service {
	s.retry = p
	return s
}

// GenerateSummary writes a professional summary from the candidate's
// profile. Degraded reports whether the canned fallback was used.
func (s *Service) GenerateSummary(ctx context.Context, personal types.PersonalInfo, experience []types.Experience, skills []types.Skill, opts Options) (summary string, degraded bool) {
	skillNames := make([]string, 0, len(skills))
	for _, sk := range skills {
		skillNames = append(skillNames, sk.Name)
	}
	roles := make([]string, 0, len(experience))
	for _, exp := range experience {
		roles = append(roles, fmt.Sprintf("%s at %s", exp.Title, exp.Company))
	}

	jobDescription := ""
	if opts.JobDescription != "" {
		jobDescription = "Job Description: " + opts.JobDescription + "\n"
	}

	user := prompts.Format(prompts.MustGet(promptFile, "summary-user"), map[string]string{
		"Name":            strings.TrimSpace(personal.FirstName + " " + personal.LastName),
		"Skills":          strings.Join(skillNames, ", "),
		"Experience":      strings.Join(roles, ", "),
		"ExperienceLevel": orDefault(opts.ExperienceLevel, "professional"),
		"TargetRole":      orDefault(opts.TargetRole, "related position"),
		"Industry":        orDefault(opts.Industry, "general"),
		"JobDescription":  jobDescription,
	})

	text, err := s.complete(ctx, llm.Request{
		System:      prompts.MustGet(promptFile, "summary-system"),
		User:        user,
		Temperature: llm.TemperatureCreative,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		log.Printf("enhance: summary generation failed, using fallback: %v", err)
		return fallbackSummary(experience, skills, opts), true
	}
	return strings.TrimSpace(text), false
}

// fallbackSummary assembles a serviceable summary from whatever profile
// data is on hand.
func fallbackSummary(experience []types.Experience, skills []types.Skill, opts Options) string {
	technical := make([]string, 0, 3)
	for _, sk := range skills {
		if sk.Category == types.SkillTechnical {
			technical = append(technical, sk.Name)
		}
		if len(technical) == 3 {
			break
		}
	}
	expertise := strings.Join(technical, ", ")
	if expertise == "" {
		expertise = "their field"
	}

	company := "various organizations"
	if len(experience) > 0 && experience[0].Company != "" {
		company = experience[0].Company
	}

	return fmt.Sprintf(
		"Experienced professional with expertise in %s. Proven track record of delivering results in %s. Seeking to leverage expertise in %s to drive innovation and growth.",
		expertise, company, orDefault(opts.TargetRole, "a target role"))
}

// enhancedExperience is the shape the provider is asked to return for a
// single experience entry.
type enhancedExperience struct {
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

// EnhanceExperience rewrites one experience entry with stronger language
// and quantified achievements. The entry's identity fields are never
// touched; on provider failure the original text is kept and stock
// achievements are appended.
func (s *Service) EnhanceExperience(ctx context.Context, exp types.Experience) (types.Experience, bool) {
	user := prompts.Format(prompts.MustGet(promptFile, "enhance-user"), map[string]string{
		"Title":        exp.Title,
		"Company":      exp.Company,
		"Description":  exp.Description,
		"Achievements": strings.Join(exp.Achievements, ", "),
	})

	raw, err := s.complete(ctx, llm.Request{
		System:      prompts.MustGet(promptFile, "enhance-system"),
		User:        user,
		Temperature: llm.TemperatureCreative,
		MaxTokens:   experienceMaxTokens,
		JSONOnly:    true,
	})
	if err != nil {
		log.Printf("enhance: experience enhancement failed, using fallback: %v", err)
		return fallbackExperience(exp), true
	}

	var enhanced enhancedExperience
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &enhanced); err != nil {
		log.Printf("enhance: experience response was not valid JSON, using fallback: %v", err)
		return fallbackExperience(exp), true
	}

	if enhanced.Description != "" {
		exp.Description = enhanced.Description
	}
	if len(enhanced.Achievements) > 0 {
		exp.Achievements = enhanced.Achievements
	}
	return exp, false
}

func fallbackExperience(exp types.Experience) types.Experience {
	exp.Description = strings.TrimSpace(exp.Description + " Demonstrated expertise in cross-functional collaboration and strategic problem-solving.")
	exp.Achievements = append(exp.Achievements,
		"Improved operational efficiency by implementing streamlined processes",
		"Collaborated with cross-functional teams to deliver key initiatives on time",
	)
	return exp
}

// EnhanceAll improves every entry concurrently. Order is preserved and
// entries that fail individually fall back without aborting the rest.
func (s *Service) EnhanceAll(ctx context.Context, experience []types.Experience) []types.Experience {
	out := make([]types.Experience, len(experience))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(enhanceConcurrency)
	for i, exp := range experience {
		g.Go(func() error {
			out[i], _ = s.EnhanceExperience(ctx, exp)
			return nil
		})
	}
	// Workers never return errors; Wait only drains the group.
	_ = g.Wait()
	return out
}

// Polish rewrites a whole resume into a professional register in one
// provider call. Identity and timestamps survive whatever comes back;
// the original resume is returned untouched on failure.
func (s *Service) Polish(ctx context.Context, resume *types.Resume) (*types.Resume, bool) {
	encoded, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return resume, true
	}

	user := prompts.Format(prompts.MustGet(promptFile, "polish-user"), map[string]string{
		"ResumeJSON": string(encoded),
	})

	raw, err := s.complete(ctx, llm.Request{
		System:      prompts.MustGet(promptFile, "polish-system"),
		User:        user,
		Temperature: llm.TemperatureCreative,
		MaxTokens:   polishMaxTokens,
		JSONOnly:    true,
	})
	if err != nil {
		log.Printf("enhance: polish failed, returning resume unchanged: %v", err)
		return resume, true
	}

	polished := *resume
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &polished); err != nil {
		log.Printf("enhance: polish response was not valid JSON, returning resume unchanged: %v", err)
		return resume, true
	}
	polished.ID = resume.ID
	polished.CreatedAt = resume.CreatedAt
	polished.UpdatedAt = time.Now().UTC()
	return &polished, false
}

func (s *Service) complete(ctx context.Context, req llm.Request) (string, error) {
	return s.retry.Do(ctx, func() (string, error) {
		return s.client.Complete(ctx, req)
	})
}

// SuggestSkills proposes additions the resume does not already list.
// Comparison is case-insensitive on the skill name.
func SuggestSkills(current []types.Skill) []types.Skill {
	candidates := []types.Skill{
		{Name: "Project Management", Category: types.SkillSoft, Level: types.LevelIntermediate},
		{Name: "Data Analysis", Category: types.SkillTechnical, Level: types.LevelIntermediate},
		{Name: "Strategic Planning", Category: types.SkillSoft, Level: types.LevelIntermediate},
	}

	have := make(map[string]bool, len(current))
	for _, sk := range current {
		have[strings.ToLower(sk.Name)] = true
	}

	suggestions := make([]types.Skill, 0, len(candidates))
	for _, sk := range candidates {
		if have[strings.ToLower(sk.Name)] {
			continue
		}
		sk.ID = types.NewID()
		suggestions = append(suggestions, sk)
	}
	return suggestions
}

// ATSRecommendations returns the standing checklist for getting a resume
// past automated screening.
func ATSRecommendations() []string {
	return []string{
		"Add more industry-specific keywords",
		"Use standard section headers",
		"Include relevant technical skills",
		"Quantify achievements with numbers",
		"Use action verbs consistently",
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

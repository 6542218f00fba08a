package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/enhance"
	"github.com/jonathan/resume-builder/internal/extraction"
	"github.com/jonathan/resume-builder/internal/formatting"
	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/types"
)

// maxUploadBytes caps CV uploads; the prompt only carries the first
// few thousand characters anyway.
const maxUploadBytes = 10 << 20

// ResumeStore is the slice of the database the resume handlers need.
type ResumeStore interface {
	SaveResume(ctx context.Context, userID uuid.UUID, resume *types.Resume) error
	GetResume(ctx context.Context, userID uuid.UUID, resumeID string) (*types.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.ResumeSummary, error)
	DeleteResume(ctx context.Context, userID uuid.UUID, resumeID string) (bool, error)
}

// ResumeConverter runs the text-to-resume pipeline.
type ResumeConverter interface {
	Convert(ctx context.Context, extractedText string) *formatting.ResumeResult
}

// Enhancer covers the LLM-backed content improvement operations.
type Enhancer interface {
	GenerateSummary(ctx context.Context, personal types.PersonalInfo, experience []types.Experience, skills []types.Skill, opts enhance.Options) (string, bool)
	EnhanceExperience(ctx context.Context, exp types.Experience) (types.Experience, bool)
	Polish(ctx context.Context, resume *types.Resume) (*types.Resume, bool)
}

func (s *Server) userIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// handleListResumes returns the authenticated user's resumes
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFromRequest(w, r)
	if !ok {
		return
	}

	summaries, err := s.resumes.ListResumes(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing resumes: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list resumes")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": summaries})
}

// handleCreateResume stores a new resume after schema validation
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFromRequest(w, r)
	if !ok {
		return
	}

	resume, ok := s.decodeResume(w, r)
	if !ok {
		return
	}
	resume.UserID = userID.String()

	if err := s.resumes.SaveResume(r.Context(), userID, resume); err != nil {
		if errors.Is(err, db.ErrResumeIDTaken) {
			s.errorResponse(w, http.StatusConflict, err.Error())
			return
		}
		log.Printf("Error saving resume: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to save resume")
		return
	}
	s.jsonResponse(w, http.StatusCreated, resume)
}

// handleGetResume returns one resume owned by the user
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFromRequest(w, r)
	if !ok {
		return
	}
	resumeID := r.PathValue("id")

	resume, err := s.resumes.GetResume(r.Context(), userID, resumeID)
	if err != nil {
		log.Printf("Error getting resume: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get resume")
		return
	}
	if resume == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrResumeNotFound{ResumeID: resumeID}).Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleUpdateResume replaces a resume owned by the user
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFromRequest(w, r)
	if !ok {
		return
	}
	resumeID := r.PathValue("id")

	existing, err := s.resumes.GetResume(r.Context(), userID, resumeID)
	if err != nil {
		log.Printf("Error getting resume: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get resume")
		return
	}
	if existing == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrResumeNotFound{ResumeID: resumeID}).Error())
		return
	}

	resume, ok := s.decodeResume(w, r)
	if !ok {
		return
	}
	resume.ID = resumeID
	resume.UserID = userID.String()
	resume.CreatedAt = existing.CreatedAt

	if err := s.resumes.SaveResume(r.Context(), userID, resume); err != nil {
		log.Printf("Error saving resume: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to save resume")
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleDeleteResume removes a resume owned by the user
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFromRequest(w, r)
	if !ok {
		return
	}
	resumeID := r.PathValue("id")

	deleted, err := s.resumes.DeleteResume(r.Context(), userID, resumeID)
	if err != nil {
		log.Printf("Error deleting resume: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete resume")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, (&ErrResumeNotFound{ResumeID: resumeID}).Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportResume renders a resume to PDF through headless Chrome
func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFromRequest(w, r)
	if !ok {
		return
	}
	resumeID := r.PathValue("id")

	resume, err := s.resumes.GetResume(r.Context(), userID, resumeID)
	if err != nil {
		log.Printf("Error getting resume: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get resume")
		return
	}
	if resume == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrResumeNotFound{ResumeID: resumeID}).Error())
		return
	}

	pdf, err := render.PDF(r.Context(), s.renderer, resume)
	if err != nil {
		log.Printf("Error exporting resume %s: %v", resumeID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to export resume")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// conversionResponse is the payload for upload and format endpoints.
type conversionResponse struct {
	Resume        *types.Resume `json:"resume"`
	Degraded      bool          `json:"degraded"`
	ExtractedText string        `json:"extractedText,omitempty"`
}

// handleConversion accepts a multipart CV upload, extracts its text,
// runs the conversion pipeline, and stores the result.
func (s *Server) handleConversion(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFromRequest(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	text := extraction.ExtractText(header.Filename, header.Header.Get("Content-Type"), data)
	result := s.converter.Convert(r.Context(), text)

	result.Resume.UserID = userID.String()
	if err := s.resumes.SaveResume(r.Context(), userID, result.Resume); err != nil {
		log.Printf("Error saving converted resume: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to save resume")
		return
	}

	s.jsonResponse(w, http.StatusCreated, conversionResponse{
		Resume:   result.Resume,
		Degraded: result.Degraded,
	})
}

// handleFormatResume runs the conversion pipeline on already-extracted
// text without persisting the result.
func (s *Server) handleFormatResume(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userIDFromRequest(w, r); !ok {
		return
	}

	var req struct {
		ExtractedText string `json:"extractedText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := s.converter.Convert(r.Context(), req.ExtractedText)
	s.jsonResponse(w, http.StatusOK, conversionResponse{
		Resume:   result.Resume,
		Degraded: result.Degraded,
	})
}

// handleGenerateSummary writes a professional summary for the supplied
// profile data.
func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userIDFromRequest(w, r); !ok {
		return
	}

	var req struct {
		PersonalInfo types.PersonalInfo `json:"personalInfo"`
		Experience   []types.Experience `json:"experience"`
		Skills       []types.Skill      `json:"skills"`
		Options      enhance.Options    `json:"options"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, degraded := s.enhancer.GenerateSummary(r.Context(), req.PersonalInfo, req.Experience, req.Skills, req.Options)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"summary":  summary,
		"degraded": degraded,
	})
}

// handleEnhanceExperience improves one experience entry
func (s *Server) handleEnhanceExperience(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userIDFromRequest(w, r); !ok {
		return
	}

	var req struct {
		Experience types.Experience `json:"experience"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	enhanced, degraded := s.enhancer.EnhanceExperience(r.Context(), req.Experience)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"experience": enhanced,
		"degraded":   degraded,
	})
}

// handlePolishResume rewrites a whole resume in a professional register
func (s *Server) handlePolishResume(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userIDFromRequest(w, r); !ok {
		return
	}

	resume, ok := s.decodeResume(w, r)
	if !ok {
		return
	}

	polished, degraded := s.enhancer.Polish(r.Context(), resume)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resume":   polished,
		"degraded": degraded,
	})
}

// handleSuggestSkills proposes skills missing from the current list
func (s *Server) handleSuggestSkills(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userIDFromRequest(w, r); !ok {
		return
	}

	var req struct {
		Skills []types.Skill `json:"skills"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"suggestions": enhance.SuggestSkills(req.Skills),
	})
}

// handleATSRecommendations returns the standing ATS checklist
func (s *Server) handleATSRecommendations(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userIDFromRequest(w, r); !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"recommendations": enhance.ATSRecommendations(),
	})
}

// decodeResume reads a resume body, fills structural defaults, and checks
// the result against the embedded schema. Writes the error response
// itself when validation fails.
func (s *Server) decodeResume(w http.ResponseWriter, r *http.Request) (*types.Resume, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}

	var resume types.Resume
	if err := json.Unmarshal(body, &resume); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume JSON")
		return nil, false
	}

	// Clients may omit identity and empty sections; fill them before
	// validating so the schema only rejects genuinely bad documents.
	if resume.ID == "" {
		resume.ID = types.NewID()
	}
	if resume.Template == "" {
		resume.Template = types.TemplateProfessional
	}
	if resume.Experience == nil {
		resume.Experience = []types.Experience{}
	}
	if resume.Education == nil {
		resume.Education = []types.Education{}
	}
	if resume.Skills == nil {
		resume.Skills = []types.Skill{}
	}
	if resume.Projects == nil {
		resume.Projects = []types.Project{}
	}
	if resume.Awards == nil {
		resume.Awards = []types.Award{}
	}

	normalized, err := json.Marshal(&resume)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume JSON")
		return nil, false
	}
	if err := schemas.ValidateResume(normalized); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &resume, true
}

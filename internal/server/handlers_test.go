package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/enhance"
	"github.com/jonathan/resume-builder/internal/formatting"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/types"
)

// fakeResumeStore is an in-memory ResumeStore.
type fakeResumeStore struct {
	resumes map[string]*types.Resume
	owners  map[string]uuid.UUID
}

func newFakeResumeStore() *fakeResumeStore {
	return &fakeResumeStore{
		resumes: make(map[string]*types.Resume),
		owners:  make(map[string]uuid.UUID),
	}
}

func (f *fakeResumeStore) SaveResume(_ context.Context, userID uuid.UUID, resume *types.Resume) error {
	if owner, ok := f.owners[resume.ID]; ok && owner != userID {
		return db.ErrResumeIDTaken
	}
	copied := *resume
	f.resumes[resume.ID] = &copied
	f.owners[resume.ID] = userID
	return nil
}

func (f *fakeResumeStore) GetResume(_ context.Context, userID uuid.UUID, resumeID string) (*types.Resume, error) {
	if f.owners[resumeID] != userID {
		return nil, nil
	}
	r, ok := f.resumes[resumeID]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeResumeStore) ListResumes(_ context.Context, userID uuid.UUID) ([]db.ResumeSummary, error) {
	out := []db.ResumeSummary{}
	for id, r := range f.resumes {
		if f.owners[id] == userID {
			out = append(out, db.ResumeSummary{ID: id, Title: r.Title, Template: r.Template})
		}
	}
	return out, nil
}

func (f *fakeResumeStore) DeleteResume(_ context.Context, userID uuid.UUID, resumeID string) (bool, error) {
	if f.owners[resumeID] != userID {
		return false, nil
	}
	if _, ok := f.resumes[resumeID]; !ok {
		return false, nil
	}
	delete(f.resumes, resumeID)
	delete(f.owners, resumeID)
	return true, nil
}

// fakePipeline satisfies ResumeConverter and Enhancer with canned
// output.
type fakePipeline struct {
	converted *types.Resume
	degraded  bool
}

func (f *fakePipeline) Convert(_ context.Context, _ string) *formatting.ResumeResult {
	copied := *f.converted
	return &formatting.ResumeResult{Resume: &copied, Degraded: f.degraded}
}

func (f *fakePipeline) GenerateSummary(_ context.Context, _ types.PersonalInfo, _ []types.Experience, _ []types.Skill, _ enhance.Options) (string, bool) {
	return "A compelling summary.", f.degraded
}

func (f *fakePipeline) EnhanceExperience(_ context.Context, exp types.Experience) (types.Experience, bool) {
	exp.Description = "Enhanced: " + exp.Description
	return exp, f.degraded
}

func (f *fakePipeline) Polish(_ context.Context, resume *types.Resume) (*types.Resume, bool) {
	polished := *resume
	polished.Summary = "Polished summary."
	return &polished, f.degraded
}

type fakePDFRenderer struct{}

func (fakePDFRenderer) RenderHTMLToPDF(_ context.Context, _ string) ([]byte, error) {
	return []byte("%PDF-1.4 fake"), nil
}

func newTestServer() (*Server, *fakeResumeStore, *fakePipeline) {
	store := newFakeResumeStore()
	converted := types.NewResume()
	converted.Title = "Jane Doe - Professional Style"
	converted.PersonalInfo.FirstName = "Jane"
	pipeline := &fakePipeline{converted: converted}
	s := &Server{
		resumes:   store,
		converter: pipeline,
		enhancer:  pipeline,
		renderer:  fakePDFRenderer{},
	}
	return s, store, pipeline
}

func authedRequest(method, path string, body []byte, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey(), userID)
	return req.WithContext(ctx)
}

func validResumeBody(t *testing.T) []byte {
	resume := types.NewResume()
	resume.Title = "Jane Doe - Professional Style"
	resume.PersonalInfo.FirstName = "Jane"
	body, err := json.Marshal(resume)
	require.NoError(t, err)
	return body
}

func TestCreateResume(t *testing.T) {
	s, store, _ := newTestServer()
	userID := uuid.New()

	rec := httptest.NewRecorder()
	s.handleCreateResume(rec, authedRequest(http.MethodPost, "/resumes", validResumeBody(t), userID))

	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, userID.String(), created.UserID)
	assert.Contains(t, store.resumes, created.ID)
}

func TestCreateResumeWithoutIDGetsOne(t *testing.T) {
	s, _, _ := newTestServer()

	body := []byte(`{"title": "Minimal"}`)
	rec := httptest.NewRecorder()
	s.handleCreateResume(rec, authedRequest(http.MethodPost, "/resumes", body, uuid.New()))

	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, types.TemplateProfessional, created.Template)
}

func TestCreateResumeForeignIDConflicts(t *testing.T) {
	s, store, _ := newTestServer()
	body := validResumeBody(t)

	rec := httptest.NewRecorder()
	s.handleCreateResume(rec, authedRequest(http.MethodPost, "/resumes", body, uuid.New()))
	require.Equal(t, http.StatusCreated, rec.Code)

	// A second user posting the same id must not be told the write
	// succeeded.
	rec = httptest.NewRecorder()
	s.handleCreateResume(rec, authedRequest(http.MethodPost, "/resumes", body, uuid.New()))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already in use")
	assert.Len(t, store.resumes, 1)
}

func TestCreateResumeRejectsBadSchema(t *testing.T) {
	s, _, _ := newTestServer()

	body := []byte(`{"title": "Bad", "template": "glossy"}`)
	rec := httptest.NewRecorder()
	s.handleCreateResume(rec, authedRequest(http.MethodPost, "/resumes", body, uuid.New()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "template")
}

func TestCreateResumeUnauthenticated(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/resumes", bytes.NewReader(validResumeBody(t)))
	rec := httptest.NewRecorder()
	s.handleCreateResume(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetResumeOwnerScoped(t *testing.T) {
	s, _, _ := newTestServer()
	owner := uuid.New()

	rec := httptest.NewRecorder()
	s.handleCreateResume(rec, authedRequest(http.MethodPost, "/resumes", validResumeBody(t), owner))
	var created types.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Owner sees it
	req := authedRequest(http.MethodGet, "/resumes/"+created.ID, nil, owner)
	req.SetPathValue("id", created.ID)
	rec = httptest.NewRecorder()
	s.handleGetResume(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Anyone else gets a 404, not a 403
	req = authedRequest(http.MethodGet, "/resumes/"+created.ID, nil, uuid.New())
	req.SetPathValue("id", created.ID)
	rec = httptest.NewRecorder()
	s.handleGetResume(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateResumePreservesIdentity(t *testing.T) {
	s, store, _ := newTestServer()
	userID := uuid.New()

	rec := httptest.NewRecorder()
	s.handleCreateResume(rec, authedRequest(http.MethodPost, "/resumes", validResumeBody(t), userID))
	var created types.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	updated := created
	updated.ID = "attacker-chosen-id"
	updated.Title = "New Title"
	body, err := json.Marshal(&updated)
	require.NoError(t, err)

	req := authedRequest(http.MethodPut, "/resumes/"+created.ID, body, userID)
	req.SetPathValue("id", created.ID)
	rec = httptest.NewRecorder()
	s.handleUpdateResume(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result types.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	// The path ID wins over whatever the body claims
	assert.Equal(t, created.ID, result.ID)
	assert.Equal(t, "New Title", result.Title)
	assert.Equal(t, created.CreatedAt.UTC(), result.CreatedAt.UTC())
	assert.NotContains(t, store.resumes, "attacker-chosen-id")
}

func TestDeleteResume(t *testing.T) {
	s, _, _ := newTestServer()
	userID := uuid.New()

	rec := httptest.NewRecorder()
	s.handleCreateResume(rec, authedRequest(http.MethodPost, "/resumes", validResumeBody(t), userID))
	var created types.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := authedRequest(http.MethodDelete, "/resumes/"+created.ID, nil, userID)
	req.SetPathValue("id", created.ID)
	rec = httptest.NewRecorder()
	s.handleDeleteResume(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Second delete is a 404
	req = authedRequest(http.MethodDelete, "/resumes/"+created.ID, nil, userID)
	req.SetPathValue("id", created.ID)
	rec = httptest.NewRecorder()
	s.handleDeleteResume(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListResumes(t *testing.T) {
	s, _, _ := newTestServer()
	userID := uuid.New()

	rec := httptest.NewRecorder()
	s.handleListResumes(rec, authedRequest(http.MethodGet, "/resumes", nil, userID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"resumes":[]`)

	s.handleCreateResume(httptest.NewRecorder(), authedRequest(http.MethodPost, "/resumes", validResumeBody(t), userID))

	rec = httptest.NewRecorder()
	s.handleListResumes(rec, authedRequest(http.MethodGet, "/resumes", nil, userID))
	var resp struct {
		Resumes []db.ResumeSummary `json:"resumes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Resumes, 1)
}

func TestConversionUpload(t *testing.T) {
	s, store, _ := newTestServer()
	userID := uuid.New()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "resume.docx")
	require.NoError(t, err)
	_, _ = part.Write([]byte("not a real docx, extraction degrades gracefully"))
	require.NoError(t, mw.Close())

	req := authedRequest(http.MethodPost, "/conversions", buf.Bytes(), userID)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handleConversion(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp conversionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Resume)
	assert.Equal(t, "Jane", resp.Resume.PersonalInfo.FirstName)
	assert.Equal(t, userID.String(), resp.Resume.UserID)
	assert.Contains(t, store.resumes, resp.Resume.ID)
}

func TestConversionMissingFile(t *testing.T) {
	s, _, _ := newTestServer()

	req := authedRequest(http.MethodPost, "/conversions", nil, uuid.New())
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
	rec := httptest.NewRecorder()
	s.handleConversion(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormatResume(t *testing.T) {
	s, store, _ := newTestServer()

	body := []byte(`{"extractedText": "Jane Doe\njane@example.com"}`)
	rec := httptest.NewRecorder()
	s.handleFormatResume(rec, authedRequest(http.MethodPost, "/ai/format-resume", body, uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp conversionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Jane", resp.Resume.PersonalInfo.FirstName)
	// Formatting alone does not persist anything
	assert.Empty(t, store.resumes)
}

func TestGenerateSummaryEndpoint(t *testing.T) {
	s, _, _ := newTestServer()

	body := []byte(`{"personalInfo": {"firstName": "Jane"}, "skills": [], "experience": []}`)
	rec := httptest.NewRecorder()
	s.handleGenerateSummary(rec, authedRequest(http.MethodPost, "/ai/summary", body, uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A compelling summary.")
}

func TestEnhanceExperienceEndpoint(t *testing.T) {
	s, _, _ := newTestServer()

	body := []byte(`{"experience": {"id": "e1", "title": "Engineer", "company": "Acme", "description": "Built services."}}`)
	rec := httptest.NewRecorder()
	s.handleEnhanceExperience(rec, authedRequest(http.MethodPost, "/ai/enhance-experience", body, uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enhanced: Built services.")
}

func TestSuggestSkillsEndpoint(t *testing.T) {
	s, _, _ := newTestServer()

	body := []byte(`{"skills": [{"id": "s1", "name": "Data Analysis", "category": "technical", "level": "advanced"}]}`)
	rec := httptest.NewRecorder()
	s.handleSuggestSkills(rec, authedRequest(http.MethodPost, "/ai/suggest-skills", body, uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project Management")
	assert.NotContains(t, rec.Body.String(), `"Data Analysis"`)
}

func TestATSRecommendationsEndpoint(t *testing.T) {
	s, _, _ := newTestServer()

	rec := httptest.NewRecorder()
	s.handleATSRecommendations(rec, authedRequest(http.MethodGet, "/ai/ats-recommendations", nil, uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Quantify achievements with numbers")
}

func TestExportResume(t *testing.T) {
	s, _, _ := newTestServer()
	userID := uuid.New()

	rec := httptest.NewRecorder()
	s.handleCreateResume(rec, authedRequest(http.MethodPost, "/resumes", validResumeBody(t), userID))
	var created types.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := authedRequest(http.MethodGet, "/resumes/"+created.ID+"/export.pdf", nil, userID)
	req.SetPathValue("id", created.ID)
	rec = httptest.NewRecorder()
	s.handleExportResume(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "%PDF")
}

func TestPolishResumeEndpoint(t *testing.T) {
	s, _, _ := newTestServer()

	rec := httptest.NewRecorder()
	s.handlePolishResume(rec, authedRequest(http.MethodPost, "/ai/polish", validResumeBody(t), uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Polished summary.")
}

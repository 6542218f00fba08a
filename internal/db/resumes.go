package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-builder/internal/types"
)

// ErrResumeIDTaken reports a save whose id already belongs to another
// user's resume. The ownership guard on the upsert turns such writes
// into no-ops; this error keeps them from passing silently.
var ErrResumeIDTaken = errors.New("resume id already in use")

// ResumeSummary is the listing row returned without the JSONB sections.
type ResumeSummary struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Template  types.Template `json:"template"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// SaveResume inserts or updates a resume for the owning user. Section
// lists are stored as JSONB while identity and title stay scalar for
// cheap listing queries.
func (db *DB) SaveResume(ctx context.Context, userID uuid.UUID, resume *types.Resume) error {
	sections := make([][]byte, 0, 6)
	for _, v := range []any{
		resume.PersonalInfo, resume.Experience, resume.Education,
		resume.Skills, resume.Projects, resume.Awards,
	} {
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal resume section: %w", err)
		}
		sections = append(sections, encoded)
	}

	tag, err := db.pool.Exec(ctx,
		`INSERT INTO resumes (id, user_id, title, template, summary,
		                      personal_info, experience, education, skills, projects, awards,
		                      created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET
		     title = $3, template = $4, summary = $5,
		     personal_info = $6, experience = $7, education = $8,
		     skills = $9, projects = $10, awards = $11, updated_at = NOW()
		 WHERE resumes.user_id = $2`,
		resume.ID, userID, resume.Title, string(resume.Template), resume.Summary,
		sections[0], sections[1], sections[2], sections[3], sections[4], sections[5],
		resume.CreatedAt, resume.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save resume %s: %w", resume.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrResumeIDTaken
	}
	return nil
}

// GetResume retrieves one resume scoped to its owner. Returns nil
// without error when the resume does not exist or belongs to someone
// else.
func (db *DB) GetResume(ctx context.Context, userID uuid.UUID, resumeID string) (*types.Resume, error) {
	var (
		resume   types.Resume
		template string
		sections [6][]byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, template, summary,
		        personal_info, experience, education, skills, projects, awards,
		        created_at, updated_at
		 FROM resumes WHERE id = $1 AND user_id = $2`,
		resumeID, userID,
	).Scan(
		&resume.ID, &resume.UserID, &resume.Title, &template, &resume.Summary,
		&sections[0], &sections[1], &sections[2], &sections[3], &sections[4], &sections[5],
		&resume.CreatedAt, &resume.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume %s: %w", resumeID, err)
	}

	resume.Template = types.Template(template)
	targets := []any{
		&resume.PersonalInfo, &resume.Experience, &resume.Education,
		&resume.Skills, &resume.Projects, &resume.Awards,
	}
	for i, target := range targets {
		if err := json.Unmarshal(sections[i], target); err != nil {
			return nil, fmt.Errorf("failed to decode resume section: %w", err)
		}
	}
	return &resume, nil
}

// ListResumes returns the owner's resumes, newest first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]ResumeSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, template,
		        to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
		        to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		 FROM resumes WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	summaries := []ResumeSummary{}
	for rows.Next() {
		var (
			s        ResumeSummary
			template string
		)
		if err := rows.Scan(&s.ID, &s.Title, &template, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume row: %w", err)
		}
		s.Template = types.Template(template)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resume rows: %w", err)
	}
	return summaries, nil
}

// DeleteResume removes an owner's resume. Reports whether a row was
// actually deleted so handlers can distinguish not-found.
func (db *DB) DeleteResume(ctx context.Context, userID uuid.UUID, resumeID string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2`,
		resumeID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume %s: %w", resumeID, err)
	}
	return tag.RowsAffected() > 0, nil
}

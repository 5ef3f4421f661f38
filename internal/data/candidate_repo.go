package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// CandidateRepo provides database operations for candidate profiles.
type CandidateRepo struct {
	DB *sql.DB
}

// NewCandidateRepo creates a new CandidateRepo.
func NewCandidateRepo(db *sql.DB) *CandidateRepo {
	return &CandidateRepo{DB: db}
}

const candidateColumns = `user_id, headline, location, qualification, experience_years, skills,
	resume_url, resume_text, updated_at`

// Get returns the profile for userID, or an empty profile when none was saved yet.
func (r *CandidateRepo) Get(ctx context.Context, userID string) (*model.CandidateProfile, error) {
	p, err := queryOne[model.CandidateProfile](ctx, r.DB,
		`SELECT `+candidateColumns+` FROM candidate_profiles WHERE user_id = $1`, userID)
	if err != nil {
		if isNoRows(err) {
			return &model.CandidateProfile{UserID: userID, Skills: []string{}}, nil
		}
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}
	return p, nil
}

// Upsert replaces the editable profile fields. Resume text is kept unless the resume URL changes.
func (r *CandidateRepo) Upsert(
	ctx context.Context,
	userID string,
	req model.UpsertCandidateProfileRequest,
) (*model.CandidateProfile, error) {
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	p, err := queryOne[model.CandidateProfile](ctx, r.DB, `
		INSERT INTO candidate_profiles AS cp
			(user_id, headline, location, qualification, experience_years, skills, resume_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id) DO UPDATE SET
			headline = EXCLUDED.headline,
			location = EXCLUDED.location,
			qualification = EXCLUDED.qualification,
			experience_years = EXCLUDED.experience_years,
			skills = EXCLUDED.skills,
			resume_url = EXCLUDED.resume_url,
			resume_text = CASE WHEN cp.resume_url IS DISTINCT FROM EXCLUDED.resume_url
				THEN NULL ELSE cp.resume_text END,
			updated_at = now()
		RETURNING `+candidateColumns,
		userID, nullIfBlank(req.Headline), nullIfBlank(req.Location), nullIfBlank(req.Qualification),
		req.ExperienceYears, skills, nullIfBlank(req.ResumeURL))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to save candidate profile: %w", err)
	}
	return p, nil
}

// SetResume stores a newly uploaded resume reference and its extracted text.
func (r *CandidateRepo) SetResume(ctx context.Context, params core.SetResumeParams) error {
	_, err := execAffected(ctx, r.DB, `
		INSERT INTO candidate_profiles (user_id, resume_url, resume_text, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			resume_url = EXCLUDED.resume_url,
			resume_text = EXCLUDED.resume_text,
			updated_at = now()`,
		params.UserID, params.ResumeURL, params.Text)
	if err != nil {
		return fmt.Errorf("failed to set resume: %w", err)
	}
	return nil
}

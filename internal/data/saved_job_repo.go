package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// SavedJobRepo stores candidate bookmarks.
type SavedJobRepo struct {
	DB *sql.DB
}

// NewSavedJobRepo creates a new SavedJobRepo.
func NewSavedJobRepo(db *sql.DB) *SavedJobRepo {
	return &SavedJobRepo{DB: db}
}

// Save bookmarks a job. Saving twice is a no-op.
func (r *SavedJobRepo) Save(ctx context.Context, userID, jobID string) error {
	_, err := execAffected(ctx, r.DB, `
		INSERT INTO saved_jobs (user_id, job_id) VALUES ($1, $2)
		ON CONFLICT (user_id, job_id) DO NOTHING`, userID, jobID)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidID(err) {
			return ErrJobNotFound
		}
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// Remove deletes a bookmark. Removing a missing bookmark is a no-op.
func (r *SavedJobRepo) Remove(ctx context.Context, userID, jobID string) error {
	if _, err := execAffected(ctx, r.DB,
		`DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`, userID, jobID); err != nil && !isInvalidID(err) {
		return fmt.Errorf("failed to remove saved job: %w", err)
	}
	return nil
}

// List returns bookmarked jobs, most recently saved first.
func (r *SavedJobRepo) List(ctx context.Context, userID string, opts model.ListOptions) ([]*model.SavedJob, error) {
	limit, offset := pageBounds(opts.Limit, opts.Offset)
	out, err := queryAll[model.SavedJob](ctx, r.DB, `
		SELECT j.id, j.employer_id, j.company_name, j.title, j.description, j.specialization, j.location,
		       j.employment_type, j.experience_min, j.experience_max, j.salary_min, j.salary_max,
		       j.qualifications, j.skills, j.openings, j.status, j.deadline, j.view_count,
		       j.created_at, j.updated_at, s.saved_at
		FROM saved_jobs s
		JOIN job_listings j ON j.id = s.job_id
		WHERE s.user_id = $1
		ORDER BY s.saved_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved jobs: %w", err)
	}
	return out, nil
}

// ListIDs returns the IDs of every bookmarked job.
func (r *SavedJobRepo) ListIDs(ctx context.Context, userID string) ([]string, error) {
	type savedID struct {
		JobID string `db:"job_id"`
	}
	rows, err := queryAll[savedID](ctx, r.DB,
		`SELECT job_id::text AS job_id FROM saved_jobs WHERE user_id = $1 ORDER BY saved_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved job ids: %w", err)
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.JobID
	}
	return ids, nil
}

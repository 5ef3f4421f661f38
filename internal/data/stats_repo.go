package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// StatsRepo runs the aggregate queries behind the dashboards.
type StatsRepo struct {
	DB *sql.DB
}

// NewStatsRepo creates a new StatsRepo.
func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{DB: db}
}

// UsersByRole counts users per role.
func (r *StatsRepo) UsersByRole(ctx context.Context) ([]model.StatusCount, error) {
	return r.counts(ctx, `SELECT role AS status, COUNT(*) AS count FROM users GROUP BY role`)
}

// EmployersByStatus counts employers per verification status.
func (r *StatsRepo) EmployersByStatus(ctx context.Context) ([]model.StatusCount, error) {
	return r.counts(ctx,
		`SELECT verification_status AS status, COUNT(*) AS count FROM employers GROUP BY verification_status`)
}

// JobsByStatus counts jobs per status, optionally for one employer.
func (r *StatsRepo) JobsByStatus(ctx context.Context, employerID *string) ([]model.StatusCount, error) {
	return r.counts(ctx, `
		SELECT status, COUNT(*) AS count FROM jobs
		WHERE $1::uuid IS NULL OR employer_id = $1::uuid
		GROUP BY status`, employerID)
}

// ApplicationsByStatus counts applications per status within the filter.
func (r *StatsRepo) ApplicationsByStatus(
	ctx context.Context,
	filter core.ApplicationCountFilter,
) ([]model.StatusCount, error) {
	return r.counts(ctx, `
		SELECT a.status, COUNT(*) AS count
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE ($1::uuid IS NULL OR a.candidate_id = $1::uuid)
		  AND ($2::uuid IS NULL OR j.employer_id = $2::uuid)
		GROUP BY a.status`, filter.CandidateID, filter.EmployerID)
}

// UnreadNotifications counts unread notifications, optionally for one user.
func (r *StatsRepo) UnreadNotifications(ctx context.Context, userID *string) (int64, error) {
	n, err := queryScalar[int64](ctx, r.DB, `
		SELECT COUNT(*) FROM notifications
		WHERE NOT is_read AND ($1::uuid IS NULL OR user_id = $1::uuid)`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// SavedJobs counts a user's bookmarks.
func (r *StatsRepo) SavedJobs(ctx context.Context, userID string) (int64, error) {
	n, err := queryScalar[int64](ctx, r.DB, `SELECT COUNT(*) FROM saved_jobs WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count saved jobs: %w", err)
	}
	return n, nil
}

func (r *StatsRepo) counts(ctx context.Context, q string, args ...any) ([]model.StatusCount, error) {
	rows, err := queryAll[model.StatusCount](ctx, r.DB, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count: %w", err)
	}
	out := make([]model.StatusCount, len(rows))
	for i, row := range rows {
		out[i] = *row
	}
	return out, nil
}

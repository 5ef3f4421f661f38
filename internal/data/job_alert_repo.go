package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// JobAlertRepo provides database operations for saved job-search alerts.
type JobAlertRepo struct {
	DB *sql.DB
}

// NewJobAlertRepo creates a new JobAlertRepo.
func NewJobAlertRepo(db *sql.DB) *JobAlertRepo {
	return &JobAlertRepo{DB: db}
}

const jobAlertColumns = `id, user_id, name, filter, is_active, created_at, updated_at`

// Create inserts an alert.
func (r *JobAlertRepo) Create(ctx context.Context, req *model.CreateJobAlertRequest) (*model.JobAlert, error) {
	if req == nil {
		return nil, errors.New("create job alert request is required")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	a, err := queryOne[model.JobAlert](ctx, r.DB, `
		INSERT INTO job_alerts (user_id, name, filter, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+jobAlertColumns, req.UserID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Filter), active)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create job alert: %w", err)
	}
	return a, nil
}

// GetByID retrieves an alert by ID.
func (r *JobAlertRepo) GetByID(ctx context.Context, id string) (*model.JobAlert, error) {
	a, err := queryOne[model.JobAlert](ctx, r.DB, `SELECT `+jobAlertColumns+` FROM job_alerts WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrJobAlertNotFound
		}
		return nil, fmt.Errorf("failed to get job alert: %w", err)
	}
	return a, nil
}

// ListByUser returns a user's alerts, newest first.
func (r *JobAlertRepo) ListByUser(ctx context.Context, userID string) ([]*model.JobAlert, error) {
	out, err := queryAll[model.JobAlert](ctx, r.DB,
		`SELECT `+jobAlertColumns+` FROM job_alerts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job alerts: %w", err)
	}
	return out, nil
}

// Update applies a partial update.
func (r *JobAlertRepo) Update(ctx context.Context, id string, req model.UpdateJobAlertRequest) (*model.JobAlert, error) {
	var b setBuilder
	if req.Name != nil {
		b.add("name", *req.Name)
	}
	if req.Filter != nil {
		b.add("filter", *req.Filter)
	}
	if req.IsActive != nil {
		b.add("is_active", *req.IsActive)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	set, idArg, args := b.build(id)
	a, err := queryOne[model.JobAlert](ctx, r.DB,
		`UPDATE job_alerts SET `+set+` WHERE id = `+idArg+` RETURNING `+jobAlertColumns, args...)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrJobAlertNotFound
		}
		return nil, fmt.Errorf("failed to update job alert: %w", err)
	}
	return a, nil
}

// Delete deletes an alert by ID.
func (r *JobAlertRepo) Delete(ctx context.Context, id string) (bool, error) {
	n, err := execAffected(ctx, r.DB, `DELETE FROM job_alerts WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete job alert: %w", err)
	}
	return n > 0, nil
}

// ListActive pages through active alerts of active users in id order (keyset pagination).
func (r *JobAlertRepo) ListActive(ctx context.Context, afterID string, limit int) ([]*model.JobAlert, error) {
	if afterID == "" {
		afterID = "00000000-0000-0000-0000-000000000000"
	}
	out, err := queryAll[model.JobAlert](ctx, r.DB, `
		SELECT a.id, a.user_id, a.name, a.filter, a.is_active, a.created_at, a.updated_at
		FROM job_alerts a
		JOIN users u ON u.id = a.user_id
		WHERE a.is_active AND u.is_active AND a.id > $1::uuid
		ORDER BY a.id
		LIMIT $2`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active job alerts: %w", err)
	}
	return out, nil
}

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// PlanRepo provides database operations for subscription plans.
type PlanRepo struct {
	DB *sql.DB
}

// NewPlanRepo creates a new PlanRepo.
func NewPlanRepo(db *sql.DB) *PlanRepo {
	return &PlanRepo{DB: db}
}

const planColumns = `id, code, name, description, price_cents, currency, duration_days, job_post_limit,
	features, is_active, sort_order, created_at, updated_at`

// Create inserts a plan.
func (r *PlanRepo) Create(ctx context.Context, req *model.CreatePlanRequest) (*model.SubscriptionPlan, error) {
	if req == nil {
		return nil, errors.New("create plan request is required")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	features := req.Features
	if features == nil {
		features = []string{}
	}
	p, err := queryOne[model.SubscriptionPlan](ctx, r.DB, `
		INSERT INTO subscription_plans
			(code, name, description, price_cents, currency, duration_days, job_post_limit, features, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+planColumns,
		req.Code, req.Name, nullIfBlank(req.Description), req.PriceCents, req.Currency, req.DurationDays,
		req.JobPostLimit, features, active, req.SortOrder)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrPlanCodeExists
		}
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return p, nil
}

// GetByID retrieves a plan by ID.
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*model.SubscriptionPlan, error) {
	return r.getBy(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id)
}

// GetByCode retrieves a plan by its code.
func (r *PlanRepo) GetByCode(ctx context.Context, code string) (*model.SubscriptionPlan, error) {
	return r.getBy(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE code = $1`, code)
}

func (r *PlanRepo) getBy(ctx context.Context, q string, arg any) (*model.SubscriptionPlan, error) {
	p, err := queryOne[model.SubscriptionPlan](ctx, r.DB, q, arg)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return p, nil
}

// List returns plans ordered by sort_order.
func (r *PlanRepo) List(ctx context.Context, activeOnly bool) ([]*model.SubscriptionPlan, error) {
	out, err := queryAll[model.SubscriptionPlan](ctx, r.DB, `
		SELECT `+planColumns+` FROM subscription_plans
		WHERE is_active OR NOT $1
		ORDER BY sort_order, code`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return out, nil
}

// Update applies a partial update.
func (r *PlanRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdatePlanRequest,
) (*model.SubscriptionPlan, error) {
	var b setBuilder
	if req.Name != nil {
		b.add("name", *req.Name)
	}
	if req.Description != nil {
		b.add("description", nullIfBlank(req.Description))
	}
	if req.PriceCents != nil {
		b.add("price_cents", *req.PriceCents)
	}
	if req.Currency != nil {
		b.add("currency", *req.Currency)
	}
	if req.DurationDays != nil {
		b.add("duration_days", *req.DurationDays)
	}
	if req.JobPostLimit != nil {
		b.add("job_post_limit", *req.JobPostLimit)
	}
	if req.Features != nil {
		b.add("features", req.Features)
	}
	if req.IsActive != nil {
		b.add("is_active", *req.IsActive)
	}
	if req.SortOrder != nil {
		b.add("sort_order", *req.SortOrder)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	set, idArg, args := b.build(id)
	p, err := queryOne[model.SubscriptionPlan](ctx, r.DB,
		`UPDATE subscription_plans SET `+set+` WHERE id = `+idArg+` RETURNING `+planColumns, args...)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return p, nil
}

// Delete deletes a plan. Plans with subscribed employers return ErrPlanInUse.
func (r *PlanRepo) Delete(ctx context.Context, id string) (bool, error) {
	n, err := execAffected(ctx, r.DB, `DELETE FROM subscription_plans WHERE id = $1`, id)
	if err != nil {
		switch {
		case isNoRows(err):
			return false, nil
		case isForeignKeyViolation(err):
			return false, ErrPlanInUse
		}
		return false, fmt.Errorf("failed to delete plan: %w", err)
	}
	return n > 0, nil
}

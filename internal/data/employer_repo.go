package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/medexjob/medexjob-api/internal/data/database"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// EmployerRepo provides database operations for employers and their KYC state.
type EmployerRepo struct {
	DB *sql.DB
}

// NewEmployerRepo creates a new EmployerRepo.
func NewEmployerRepo(db *sql.DB) *EmployerRepo {
	return &EmployerRepo{DB: db}
}

var (
	employerColumnList = []string{
		"id", "user_id", "company_name", "company_website", "company_domain", "contact_phone", "address",
		"description", "logo_url", "verification_status", "aadhaar_encrypted", "pan_encrypted",
		"aadhaar_last4", "pan_masked", "kyc_document_url", "kyc_submitted_at", "reviewed_at", "reviewed_by",
		"rejection_reason", "subscription_plan_id", "subscription_expires_at", "created_at", "updated_at",
	}
	employerColumns = strings.Join(employerColumnList, ", ")
)

// Create inserts an employer for a user.
func (r *EmployerRepo) Create(ctx context.Context, req model.CreateEmployerRequest) (*model.Employer, error) {
	e, err := queryOne[model.Employer](ctx, r.DB, `
		INSERT INTO employers (user_id, company_name) VALUES ($1, $2)
		RETURNING `+employerColumns, req.UserID, strings.TrimSpace(req.CompanyName))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmployerExists
		}
		if isForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create employer: %w", err)
	}
	return e, nil
}

// GetByID retrieves an employer by ID.
func (r *EmployerRepo) GetByID(ctx context.Context, id string) (*model.Employer, error) {
	return r.getBy(ctx, `SELECT `+employerColumns+` FROM employers WHERE id = $1`, id)
}

// GetByUserID retrieves the employer owned by a user.
func (r *EmployerRepo) GetByUserID(ctx context.Context, userID string) (*model.Employer, error) {
	return r.getBy(ctx, `SELECT `+employerColumns+` FROM employers WHERE user_id = $1`, userID)
}

func (r *EmployerRepo) getBy(ctx context.Context, q string, arg any) (*model.Employer, error) {
	e, err := queryOne[model.Employer](ctx, r.DB, q, arg)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrEmployerNotFound
		}
		return nil, fmt.Errorf("failed to get employer: %w", err)
	}
	return e, nil
}

// List retrieves employers with optional filters and sorting.
// Notes:
// - Q matches company name and domain.
// - Sort supports "created_at", "company_name", "kyc_submitted_at".
func (r *EmployerRepo) List(ctx context.Context, opts model.EmployersListOptions) ([]*model.Employer, error) {
	limit, offset := pageBounds(opts.Limit, opts.Offset)
	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"created_at":       "created_at",
		"company_name":     "company_name",
		"kyc_submitted_at": "kyc_submitted_at",
	}, "created_at", sortDirDesc)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(employerColumnList...),
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy(sortCol, sortDir),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(database.WhereRawCond(
			`(company_name ILIKE $1 OR company_domain ILIKE $1)`, likePattern(*opts.Q))))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("verification_status", database.Equal, string(*opts.Status))))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("employers", queryOpts...))
	out, err := queryAll[model.Employer](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employers: %w", err)
	}
	return out, nil
}

// UpdateProfile applies a partial profile edit. Blank optional values clear the column.
func (r *EmployerRepo) UpdateProfile(
	ctx context.Context,
	id string,
	req model.UpdateEmployerProfileRequest,
) (*model.Employer, error) {
	var b setBuilder
	if req.CompanyName != nil {
		b.add("company_name", *req.CompanyName)
	}
	if req.CompanyWebsite != nil {
		b.add("company_website", nullIfBlank(req.CompanyWebsite))
		b.add("company_domain", nullIfBlank(req.CompanyDomain))
	}
	if req.ContactPhone != nil {
		b.add("contact_phone", nullIfBlank(req.ContactPhone))
	}
	if req.Address != nil {
		b.add("address", nullIfBlank(req.Address))
	}
	if req.Description != nil {
		b.add("description", nullIfBlank(req.Description))
	}
	if req.LogoURL != nil {
		b.add("logo_url", nullIfBlank(req.LogoURL))
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	set, idArg, args := b.build(id)
	return r.updateReturning(ctx, `UPDATE employers SET `+set+` WHERE id = `+idArg, args...)
}

// RecordKYC stores a submission and moves the employer back to pending.
func (r *EmployerRepo) RecordKYC(ctx context.Context, req model.RecordKYCRequest) (*model.Employer, error) {
	return r.updateReturning(ctx, `
		UPDATE employers SET
			aadhaar_encrypted = $2,
			pan_encrypted = $3,
			aadhaar_last4 = $4,
			pan_masked = $5,
			kyc_document_url = COALESCE($6, kyc_document_url),
			kyc_submitted_at = $7,
			verification_status = 'pending',
			rejection_reason = NULL,
			reviewed_at = NULL,
			reviewed_by = NULL
		WHERE id = $1`,
		req.EmployerID, req.AadhaarEncrypted, req.PANEncrypted, req.AadhaarLast4, req.PANMasked,
		req.DocumentURL, req.SubmittedAt.UTC())
}

// SetVerification sets the verification status without checking the current one.
func (r *EmployerRepo) SetVerification(ctx context.Context, req model.SetVerificationRequest) (*model.Employer, error) {
	var reason any
	if req.Status == model.VerificationRejected {
		reason = nullIfBlank(req.Reason)
	}
	return r.updateReturning(ctx, `
		UPDATE employers SET
			verification_status = $2,
			rejection_reason = $3,
			reviewed_by = $4,
			reviewed_at = $5
		WHERE id = $1`,
		req.EmployerID, string(req.Status), reason, req.ReviewerID, req.ReviewedAt.UTC())
}

// SetSubscription sets or clears the employer's plan.
func (r *EmployerRepo) SetSubscription(ctx context.Context, req model.SubscriptionRequest) (*model.Employer, error) {
	var expires any
	if req.ExpiresAt != nil {
		expires = req.ExpiresAt.UTC()
	}
	e, err := r.updateReturning(ctx, `
		UPDATE employers SET subscription_plan_id = $2, subscription_expires_at = $3 WHERE id = $1`,
		req.EmployerID, req.PlanID, expires)
	if err != nil && isForeignKeyViolation(err) {
		return nil, ErrPlanNotFound
	}
	return e, err
}

// ExpireSubscriptions clears plans that expired before now, in batches.
func (r *EmployerRepo) ExpireSubscriptions(ctx context.Context, now time.Time, batchSize int) (int64, error) {
	n, err := execAffected(ctx, r.DB, `
		UPDATE employers SET subscription_plan_id = NULL, subscription_expires_at = NULL
		WHERE id IN (
			SELECT id FROM employers
			WHERE subscription_plan_id IS NOT NULL AND subscription_expires_at < $1
			ORDER BY subscription_expires_at
			LIMIT $2
		)`, now.UTC(), batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	return n, nil
}

func (r *EmployerRepo) updateReturning(ctx context.Context, q string, args ...any) (*model.Employer, error) {
	e, err := queryOne[model.Employer](ctx, r.DB, q+` RETURNING `+employerColumns, args...)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrEmployerNotFound
		}
		return nil, fmt.Errorf("failed to update employer: %w", err)
	}
	return e, nil
}

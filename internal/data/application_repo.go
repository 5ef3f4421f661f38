package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/medexjob/medexjob-api/internal/data/database"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// ApplicationRepo provides database operations for job applications.
type ApplicationRepo struct {
	DB *sql.DB
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db}
}

var (
	applicationColumnList = []string{
		"id", "job_id", "candidate_id", "cover_letter", "resume_url", "status", "employer_notes",
		"created_at", "updated_at", "job_title", "employer_id", "company_name", "candidate_name",
		"candidate_email",
	}
	applicationColumns = strings.Join(applicationColumnList, ", ")
)

// Create inserts an application. A second application by the same candidate
// to the same job returns ErrApplicationExists.
func (r *ApplicationRepo) Create(ctx context.Context, req model.CreateApplicationRequest) (*model.Application, error) {
	id, err := queryScalar[string](ctx, r.DB, `
		INSERT INTO applications (job_id, candidate_id, cover_letter, resume_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text`,
		req.JobID, req.CandidateID, nullIfBlank(req.CoverLetter), nullIfBlank(req.ResumeURL))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, ErrApplicationExists
		case isForeignKeyViolation(err):
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves an application with its joined listing fields.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	a, err := queryOne[model.Application](ctx, r.DB,
		`SELECT `+applicationColumns+` FROM application_listings WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// List retrieves applications filtered by job, candidate, employer or status.
func (r *ApplicationRepo) List(ctx context.Context, opts model.ApplicationsListOptions) ([]*model.Application, error) {
	limit, offset := pageBounds(opts.Limit, opts.Offset)
	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"status":     "status",
	}, "created_at", sortDirDesc)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(applicationColumnList...),
		database.WithOrderBy(sortCol, sortDir),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	for _, f := range []struct {
		col string
		v   *string
	}{
		{"job_id", opts.JobID},
		{"candidate_id", opts.CandidateID},
		{"employer_id", opts.EmployerID},
	} {
		if f.v != nil && *f.v != "" {
			queryOpts = append(queryOpts, database.WithCondition(database.WhereCond(f.col, database.Equal, *f.v)))
		}
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status))))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("application_listings", queryOpts...))
	out, err := queryAll[model.Application](ctx, r.DB, query, args...)
	if err != nil {
		if isInvalidID(err) {
			return []*model.Application{}, nil
		}
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return out, nil
}

// UpdateStatus moves an application from req.From to req.To. When the row is
// no longer in req.From it returns ErrApplicationStatusConflict.
func (r *ApplicationRepo) UpdateStatus(
	ctx context.Context,
	req model.UpdateApplicationStatusRequest,
) (*model.Application, error) {
	n, err := execAffected(ctx, r.DB, `
		UPDATE applications
		SET status = $3, employer_notes = COALESCE($4, employer_notes)
		WHERE id = $1 AND status = $2`,
		req.ID, string(req.From), string(req.To), nullIfBlank(req.Notes))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	if n == 0 {
		if _, getErr := r.GetByID(ctx, req.ID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrApplicationStatusConflict
	}
	return r.GetByID(ctx, req.ID)
}

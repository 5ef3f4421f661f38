package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medexjob/medexjob-api/internal/data/database"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// JobRepo provides database operations for job postings.
// Reads go through the job_listings view, which adds the employer's company name.
type JobRepo struct {
	DB    *sql.DB
	clock Clock
}

// NewJobRepo creates a new JobRepo on the system clock.
func NewJobRepo(db *sql.DB) *JobRepo {
	return NewJobRepoWithClock(db, systemClock{})
}

// NewJobRepoWithClock creates a JobRepo that stamps rows from clock.
func NewJobRepoWithClock(db *sql.DB, clock Clock) *JobRepo {
	return &JobRepo{DB: db, clock: clock}
}

var (
	jobColumnList = []string{
		"id", "employer_id", "company_name", "title", "description", "specialization", "location",
		"employment_type", "experience_min", "experience_max", "salary_min", "salary_max", "qualifications",
		"skills", "openings", "status", "deadline", "view_count", "created_at", "updated_at",
	}
	jobColumns = strings.Join(jobColumnList, ", ")

	// jobReturning is used on writes against the jobs table.
	jobReturning = strings.Replace(jobColumns, "company_name",
		"(SELECT e.company_name FROM employers e WHERE e.id = jobs.employer_id) AS company_name", 1)

	jobSorts = map[string]string{
		"created_at": "created_at",
		"salary_max": "salary_max",
		"deadline":   "deadline",
		"title":      "title",
	}
)

// Create inserts a job.
func (r *JobRepo) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, errors.New("create job request is required")
	}
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	now := r.clock.Now().UTC()
	j, err := queryOne[model.Job](ctx, r.DB, `
		INSERT INTO jobs (
			employer_id, title, description, specialization, location, employment_type,
			experience_min, experience_max, salary_min, salary_max, qualifications, skills,
			openings, status, deadline, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		RETURNING `+jobReturning,
		req.EmployerID, req.Title, req.Description, nullIfBlank(req.Specialization), req.Location,
		string(req.EmploymentType), req.ExperienceMin, req.ExperienceMax, req.SalaryMin, req.SalaryMax,
		nullIfBlank(req.Qualifications), skills, req.Openings, string(req.Status), dateArg(req.Deadline), now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrEmployerNotFound
		}
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return j, nil
}

// GetByID retrieves a job by ID regardless of status.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	j, err := queryOne[model.Job](ctx, r.DB, `SELECT `+jobColumns+` FROM job_listings WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// Search lists jobs visible to the public at now.
func (r *JobRepo) Search(ctx context.Context, opts model.JobSearchOptions, now time.Time) ([]*model.Job, error) {
	limit, offset := pageBounds(opts.Limit, opts.Offset)
	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, jobSorts, "created_at", sortDirDesc)

	conds := []database.Condition{
		database.WhereCond("status", database.Equal, string(model.JobStatusOpen)),
		database.WhereCond("employer_status", database.Equal, string(model.VerificationApproved)),
		database.WhereRawCond(`(deadline IS NULL OR deadline >= $1::date)`, dateOf(now)),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		conds = append(conds, database.WhereRawCond(
			`(title ILIKE $1 OR description ILIKE $1 OR EXISTS (SELECT 1 FROM unnest(skills) AS s WHERE s ILIKE $1))`,
			likePattern(*opts.Q)))
	}
	if opts.Location != nil && strings.TrimSpace(*opts.Location) != "" {
		conds = append(conds, database.WhereCond("location", database.ILike, likePattern(*opts.Location)))
	}
	if opts.Specialization != nil && strings.TrimSpace(*opts.Specialization) != "" {
		conds = append(conds, database.WhereCond("specialization", database.ILike, likePattern(*opts.Specialization)))
	}
	if opts.EmploymentType != nil {
		conds = append(conds, database.WhereCond("employment_type", database.Equal, string(*opts.EmploymentType)))
	}
	if opts.Experience != nil {
		conds = append(conds, database.WhereRawCond(
			`(experience_min <= $1 AND (experience_max IS NULL OR experience_max >= $1))`, *opts.Experience))
	}
	if opts.SalaryMin != nil {
		conds = append(conds, database.WhereRawCond(`COALESCE(salary_max, salary_min) >= $1`, *opts.SalaryMin))
	}
	if opts.EmployerID != nil && *opts.EmployerID != "" {
		conds = append(conds, database.WhereCond("employer_id", database.Equal, *opts.EmployerID))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("job_listings",
		database.WithColumns(jobColumnList...),
		database.WithConditions(conds...),
		database.WithOrderBy(sortCol, sortDir),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))
	out, err := queryAll[model.Job](ctx, r.DB, query, args...)
	if err != nil {
		if isInvalidID(err) {
			return []*model.Job{}, nil
		}
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	return out, nil
}

// List retrieves jobs for employer and admin views.
func (r *JobRepo) List(ctx context.Context, opts model.JobsListOptions) ([]*model.Job, error) {
	limit, offset := pageBounds(opts.Limit, opts.Offset)
	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, jobSorts, "created_at", sortDirDesc)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(jobColumnList...),
		database.WithOrderBy(sortCol, sortDir),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.EmployerID != nil && *opts.EmployerID != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("employer_id", database.Equal, *opts.EmployerID)))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status))))
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(database.WhereRawCond(
			`(title ILIKE $1 OR company_name ILIKE $1)`, likePattern(*opts.Q))))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("job_listings", queryOpts...))
	out, err := queryAll[model.Job](ctx, r.DB, query, args...)
	if err != nil {
		if isInvalidID(err) {
			return []*model.Job{}, nil
		}
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return out, nil
}

// Update applies a partial update.
func (r *JobRepo) Update(ctx context.Context, id string, req model.UpdateJobRequest) (*model.Job, error) {
	var b setBuilder
	if req.Title != nil {
		b.add("title", *req.Title)
	}
	if req.Description != nil {
		b.add("description", *req.Description)
	}
	if req.Specialization != nil {
		b.add("specialization", nullIfBlank(req.Specialization))
	}
	if req.Location != nil {
		b.add("location", *req.Location)
	}
	if req.EmploymentType != nil {
		b.add("employment_type", string(*req.EmploymentType))
	}
	if req.ExperienceMin != nil {
		b.add("experience_min", *req.ExperienceMin)
	}
	if req.ExperienceMax != nil {
		b.add("experience_max", *req.ExperienceMax)
	}
	if req.SalaryMin != nil {
		b.add("salary_min", *req.SalaryMin)
	}
	if req.SalaryMax != nil {
		b.add("salary_max", *req.SalaryMax)
	}
	if req.Qualifications != nil {
		b.add("qualifications", nullIfBlank(req.Qualifications))
	}
	if req.Skills != nil {
		b.add("skills", req.Skills)
	}
	if req.Openings != nil {
		b.add("openings", *req.Openings)
	}
	if req.Status != nil {
		b.add("status", string(*req.Status))
	}
	if req.Deadline != nil {
		b.add("deadline", dateArg(req.Deadline))
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	b.add("updated_at", r.clock.Now().UTC())
	set, idArg, args := b.build(id)
	return r.updateReturning(ctx, `UPDATE jobs SET `+set+` WHERE id = `+idArg, args...)
}

// SetStatus changes the job status.
func (r *JobRepo) SetStatus(ctx context.Context, id string, status model.JobStatus) (*model.Job, error) {
	return r.updateReturning(ctx, `UPDATE jobs SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), r.clock.Now().UTC())
}

func (r *JobRepo) updateReturning(ctx context.Context, q string, args ...any) (*model.Job, error) {
	j, err := queryOne[model.Job](ctx, r.DB, q+` RETURNING `+jobReturning, args...)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return j, nil
}

// Delete deletes a job by ID. Applications and bookmarks cascade.
func (r *JobRepo) Delete(ctx context.Context, id string) (bool, error) {
	n, err := execAffected(ctx, r.DB, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return n > 0, nil
}

// IncrementViews bumps the view counter without touching updated_at.
func (r *JobRepo) IncrementViews(ctx context.Context, id string) error {
	if _, err := execAffected(ctx, r.DB, `UPDATE jobs SET view_count = view_count + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to increment job views: %w", err)
	}
	return nil
}

// CountOpenByEmployer counts the employer's open jobs.
func (r *JobRepo) CountOpenByEmployer(ctx context.Context, employerID string) (int, error) {
	n, err := queryScalar[int](ctx, r.DB,
		`SELECT COUNT(*) FROM jobs WHERE employer_id = $1 AND status = 'open'`, employerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count open jobs: %w", err)
	}
	return n, nil
}

// CloseExpired closes open jobs whose deadline day is before now's date.
func (r *JobRepo) CloseExpired(ctx context.Context, now time.Time, batchSize int) (int64, error) {
	n, err := execAffected(ctx, r.DB, `
		UPDATE jobs SET status = 'closed', updated_at = $1
		WHERE id IN (
			SELECT id FROM jobs
			WHERE status = 'open' AND deadline < $2::date
			ORDER BY deadline
			LIMIT $3
		)`, now.UTC(), dateOf(now), batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to close expired jobs: %w", err)
	}
	return n, nil
}

func dateArg(d *model.Date) any {
	if d == nil {
		return nil
	}
	return dateOf(d.Time)
}

// dateOf truncates t to its UTC calendar day for DATE columns.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

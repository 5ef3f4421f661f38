package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/ports"
)

// DefaultViewWindow is how long a viewer's visit to a job counts once.
const DefaultViewWindow = 30 * time.Minute

var errEmployerNotVerified = apperrors.Forbidden("employer verification is required to publish jobs").
	WithReason("employer_not_verified")

// jobSortColumns lists the sort keys accepted by the public search.
var jobSortColumns = map[string]bool{
	"created_at": true,
	"salary_max": true,
	"deadline":   true,
	"title":      true,
}

// openJobQuota checks whether an employer may have one more open job.
type openJobQuota interface {
	CheckOpenJobQuota(ctx context.Context, emp *model.Employer) error
}

// jobMatcher fans a newly opened job out to candidate alerts.
type jobMatcher interface {
	MatchJob(ctx context.Context, job *model.Job) (int64, error)
}

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Jobs      core.JobRepository      // Required
	Employers core.EmployerRepository // Required
	Quota     openJobQuota            // Optional: nil disables plan limits
	Alerts    jobMatcher              // Optional: job alert matching on publish
	Views     *core.ViewDeduper       // Optional: nil counts every view
	Events    ports.EventPublisher    // Optional
	Now       func() time.Time
	Logger    *slog.Logger
}

// JobService provides job search, employer job management and admin moderation.
//
// Publishing a job (creating it open, or moving it to open) emits a
// job.published event and runs alert matching in the background.
// Wait blocks until those background runs finish.
type JobService struct {
	jobs      core.JobRepository
	employers core.EmployerRepository
	quota     openJobQuota
	alerts    jobMatcher
	views     *core.ViewDeduper
	events    eventEmitter
	now       func() time.Time
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) *JobService {
	if opts.Jobs == nil {
		panic("JobRepository is required")
	}
	if opts.Employers == nil {
		panic("EmployerRepository is required")
	}
	logger := componentLogger(opts.Logger, "job_service")
	now := clockOrDefault(opts.Now)
	return &JobService{
		jobs:      opts.Jobs,
		employers: opts.Employers,
		quota:     opts.Quota,
		alerts:    opts.Alerts,
		views:     opts.Views,
		events:    eventEmitter{publisher: opts.Events, logger: logger, now: now},
		now:       now,
		logger:    logger,
	}
}

// Search lists publicly visible jobs.
func (s *JobService) Search(ctx context.Context, opts model.JobSearchOptions) ([]*model.Job, error) {
	opts.ListOptions = normalizeListOptions(opts.ListOptions)
	if opts.Sort != "" && !jobSortColumns[opts.Sort] {
		return nil, apperrors.ValidationField("sort", "sort must be one of: created_at, salary_max, deadline, title")
	}
	jobs, err := s.jobs.Search(ctx, opts, s.now())
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	return jobs, nil
}

// Viewer identifies who is reading a job. Key distinguishes anonymous
// visitors (typically the client IP) for view counting.
type Viewer struct {
	Session domainauth.Session
	Key     string
}

func (v Viewer) dedupeKey() string {
	if v.Session.UserID != "" {
		return "u:" + v.Session.UserID
	}
	return "a:" + v.Key
}

// Get returns a job the viewer may see. Public visitors see open jobs of
// approved employers; owners and admins see any of their jobs. Anything
// else is reported as not found.
func (s *JobService) Get(ctx context.Context, id string, viewer Viewer) (*model.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	emp, err := s.employers.GetByID(ctx, job.EmployerID)
	if err != nil {
		return nil, fmt.Errorf("get employer: %w", err)
	}
	owner := viewer.Session.UserID != "" && emp.UserID == viewer.Session.UserID
	if owner || viewer.Session.IsAdmin() {
		return job, nil
	}
	if !job.IsOpenAt(s.now()) || !emp.CanPostJobs() {
		return nil, data.ErrJobNotFound
	}
	if s.countView(ctx, job.ID, viewer) {
		job.ViewCount++
	}
	return job, nil
}

func (s *JobService) countView(ctx context.Context, jobID string, viewer Viewer) bool {
	first, err := s.views.FirstView(ctx, jobID, viewer.dedupeKey())
	if err != nil {
		s.logger.WarnContext(ctx, "view dedupe failed", "job_id", jobID, "error", err)
		return false
	}
	if !first {
		return false
	}
	if err := s.jobs.IncrementViews(ctx, jobID); err != nil {
		s.logger.WarnContext(ctx, "increment views failed", "job_id", jobID, "error", err)
		return false
	}
	return true
}

// CreateForEmployer posts a job for the caller's employer.
func (s *JobService) CreateForEmployer(
	ctx context.Context,
	userID string,
	req *model.CreateJobRequest,
) (*model.Job, error) {
	emp, err := employerForUser(ctx, s.employers, userID)
	if err != nil {
		return nil, err
	}
	if !emp.CanPostJobs() {
		return nil, errEmployerNotVerified
	}
	if err := req.Validate(s.now()); err != nil {
		return nil, err
	}
	if req.Status == model.JobStatusOpen {
		if err := s.checkQuota(ctx, emp); err != nil {
			return nil, err
		}
	}
	req.EmployerID = emp.ID
	job, err := s.jobs.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.logger.InfoContext(ctx, "job created", "job_id", job.ID, "employer_id", emp.ID, "status", job.Status)
	if job.Status == model.JobStatusOpen {
		s.published(ctx, job)
	}
	return job, nil
}

// ListForEmployer lists the caller's jobs, optionally by status.
func (s *JobService) ListForEmployer(
	ctx context.Context,
	userID string,
	opts model.JobsListOptions,
) ([]*model.Job, error) {
	emp, err := employerForUser(ctx, s.employers, userID)
	if err != nil {
		return nil, err
	}
	opts.EmployerID = &emp.ID
	opts.ListOptions = normalizeListOptions(opts.ListOptions)
	jobs, err := s.jobs.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// GetForEmployer returns one of the caller's jobs.
func (s *JobService) GetForEmployer(ctx context.Context, userID, id string) (*model.Job, error) {
	_, job, err := s.owned(ctx, userID, id)
	return job, err
}

// UpdateForEmployer applies a partial edit to one of the caller's jobs.
// Moving a job to open re-checks verification and the plan limit.
func (s *JobService) UpdateForEmployer(
	ctx context.Context,
	userID, id string,
	req model.UpdateJobRequest,
) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	emp, current, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := req.ValidateMerged(*current); err != nil {
		return nil, err
	}
	opening := req.Status != nil && *req.Status == model.JobStatusOpen && current.Status != model.JobStatusOpen
	if opening {
		if !emp.CanPostJobs() {
			return nil, errEmployerNotVerified
		}
		if err := s.checkQuota(ctx, emp); err != nil {
			return nil, err
		}
	}
	job, err := s.jobs.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	if opening {
		s.published(ctx, job)
	}
	return job, nil
}

// DeleteForEmployer removes one of the caller's jobs.
func (s *JobService) DeleteForEmployer(ctx context.Context, userID, id string) error {
	if _, _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.Delete(ctx, id)
}

// owned loads a job of the caller's employer. Jobs of other employers are
// reported as not found.
func (s *JobService) owned(ctx context.Context, userID, id string) (*model.Employer, *model.Job, error) {
	emp, err := employerForUser(ctx, s.employers, userID)
	if err != nil {
		return nil, nil, err
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get job: %w", err)
	}
	if job.EmployerID != emp.ID {
		return nil, nil, data.ErrJobNotFound
	}
	return emp, job, nil
}

// ListAll lists jobs for admins.
func (s *JobService) ListAll(ctx context.Context, opts model.JobsListOptions) ([]*model.Job, error) {
	opts.ListOptions = normalizeListOptions(opts.ListOptions)
	jobs, err := s.jobs.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// SetStatus is the admin status override. It skips verification and plan checks.
func (s *JobService) SetStatus(ctx context.Context, id string, req model.JobStatusRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	job, err := s.jobs.SetStatus(ctx, id, req.Status)
	if err != nil {
		return nil, fmt.Errorf("set job status: %w", err)
	}
	s.logger.InfoContext(ctx, "job status set", "job_id", id, "from", current.Status, "to", job.Status)
	if job.Status == model.JobStatusOpen && current.Status != model.JobStatusOpen {
		s.published(ctx, job)
	}
	return job, nil
}

// Delete removes a job and its applications.
func (s *JobService) Delete(ctx context.Context, id string) error {
	deleted, err := s.jobs.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if !deleted {
		return data.ErrJobNotFound
	}
	s.logger.InfoContext(ctx, "job deleted", "job_id", id)
	return nil
}

func (s *JobService) checkQuota(ctx context.Context, emp *model.Employer) error {
	if s.quota == nil {
		return nil
	}
	return s.quota.CheckOpenJobQuota(ctx, emp)
}

func (s *JobService) published(ctx context.Context, job *model.Job) {
	s.events.emit(ctx, ports.Event{
		Entity:     "job",
		Action:     "published",
		ResourceID: job.ID,
		Metadata:   map[string]string{"employer_id": job.EmployerID},
		Data:       job,
	})
	if s.alerts == nil {
		return
	}
	snapshot := *job
	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.alerts.MatchJob(bg, &snapshot); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.WarnContext(bg, "job alert matching failed", "job_id", snapshot.ID, "error", err)
		}
	}()
}

// Wait blocks until background alert matching has finished.
func (s *JobService) Wait() {
	s.wg.Wait()
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/observability/metrics"
	"github.com/medexjob/medexjob-api/internal/observability/statsd"
	"github.com/medexjob/medexjob-api/internal/ports"
)

var errJobClosed = apperrors.Conflict("this job is not accepting applications").WithReason("job_closed")

func errInvalidTransition(from, to model.ApplicationStatus) error {
	return apperrors.Conflict(fmt.Sprintf("cannot move an application from %s to %s", from, to)).
		WithReason("invalid_transition")
}

// ApplicationRepos groups the repositories ApplicationService reads and writes.
type ApplicationRepos struct {
	Applications  core.ApplicationRepository  // Required
	Jobs          core.JobRepository          // Required
	Employers     core.EmployerRepository     // Required
	Candidates    core.CandidateRepository    // Required: profile resume fallback
	Notifications core.NotificationRepository // Optional
}

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Repos    ApplicationRepos
	Events   ports.EventPublisher
	Metrics  statsd.Sink
	FileURLs FileURLResolver
	Now      func() time.Time
	Logger   *slog.Logger
}

// ApplicationService handles applying to jobs and moving applications
// through the hiring pipeline.
type ApplicationService struct {
	apps       core.ApplicationRepository
	jobs       core.JobRepository
	employers  core.EmployerRepository
	candidates core.CandidateRepository
	notifier   notifier
	events     eventEmitter
	metrics    statsd.Sink
	urls       FileURLResolver
	now        func() time.Time
	logger     *slog.Logger
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	r := opts.Repos
	if r.Applications == nil || r.Jobs == nil || r.Employers == nil || r.Candidates == nil {
		panic("application, job, employer and candidate repositories are required")
	}
	logger := componentLogger(opts.Logger, "application_service")
	now := clockOrDefault(opts.Now)
	return &ApplicationService{
		apps:       r.Applications,
		jobs:       r.Jobs,
		employers:  r.Employers,
		candidates: r.Candidates,
		notifier:   notifier{repo: r.Notifications, logger: logger},
		events:     eventEmitter{publisher: opts.Events, logger: logger, now: now},
		metrics:    opts.Metrics,
		urls:       opts.FileURLs,
		now:        now,
		logger:     logger,
	}
}

// Apply submits the candidate's application to an open job. Without an
// explicit resume the profile resume is attached.
func (s *ApplicationService) Apply(
	ctx context.Context,
	candidateID, jobID string,
	req model.ApplyRequest,
) (*model.Application, error) {
	app, err := s.apply(ctx, candidateID, jobID, req)
	metrics.EmitOperation(s.metrics, clientOperation("application.submitted", err))
	return app, err
}

func (s *ApplicationService) apply(
	ctx context.Context,
	candidateID, jobID string,
	req model.ApplyRequest,
) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	emp, err := s.employers.GetByID(ctx, job.EmployerID)
	if err != nil {
		return nil, fmt.Errorf("get employer: %w", err)
	}
	if !emp.CanPostJobs() {
		return nil, data.ErrJobNotFound
	}
	if !job.IsOpenAt(s.now()) {
		return nil, errJobClosed
	}

	resume := s.urls.RefPtr(req.ResumeURL)
	if resume == nil || *resume == "" {
		profile, err := s.candidates.Get(ctx, candidateID)
		if err != nil {
			return nil, fmt.Errorf("get candidate profile: %w", err)
		}
		resume = profile.ResumeURL
	}

	app, err := s.apps.Create(ctx, model.CreateApplicationRequest{
		JobID:       job.ID,
		CandidateID: candidateID,
		CoverLetter: req.CoverLetter,
		ResumeURL:   resume,
	})
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	s.logger.InfoContext(ctx, "application submitted",
		"application_id", app.ID,
		"job_id", job.ID,
		"candidate_id", candidateID,
	)

	s.notifier.notify(ctx, model.CreateNotificationRequest{
		UserID:  emp.UserID,
		Type:    model.NotificationApplicationReceived,
		Title:   "New application for " + job.Title,
		Message: applicantName(app) + " applied for " + job.Title + ".",
		Link:    strPtr("/employer/jobs/" + job.ID + "/applications"),
	})
	s.events.emit(ctx, ports.Event{
		Entity:     "application",
		Action:     "submitted",
		ResourceID: app.ID,
		Metadata:   map[string]string{"job_id": job.ID, "employer_id": emp.ID},
		Data:       app,
	})
	return s.urls.application(app), nil
}

// ListForCandidate lists the candidate's own applications.
func (s *ApplicationService) ListForCandidate(
	ctx context.Context,
	candidateID string,
	opts model.ApplicationsListOptions,
) ([]*model.Application, error) {
	opts.CandidateID = &candidateID
	opts.JobID, opts.EmployerID = nil, nil
	return s.list(ctx, opts)
}

// Withdraw lets a candidate pull out of any non-terminal application.
func (s *ApplicationService) Withdraw(ctx context.Context, candidateID, id string) (*model.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app.CandidateID != candidateID {
		return nil, data.ErrApplicationNotFound
	}
	if !app.Status.CanWithdraw() {
		return nil, errInvalidTransition(app.Status, model.ApplicationWithdrawn)
	}
	return s.transition(ctx, app, model.ApplicationWithdrawn, nil)
}

// ListForJob lists applications to one of the employer's jobs.
func (s *ApplicationService) ListForJob(
	ctx context.Context,
	userID, jobID string,
	opts model.ApplicationsListOptions,
) ([]*model.Application, error) {
	emp, err := employerForUser(ctx, s.employers, userID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.EmployerID != emp.ID {
		return nil, data.ErrJobNotFound
	}
	opts.JobID = &job.ID
	opts.CandidateID, opts.EmployerID = nil, nil
	return s.list(ctx, opts)
}

// UpdateStatus moves an application along the employer transition table.
func (s *ApplicationService) UpdateStatus(
	ctx context.Context,
	userID, id string,
	req model.ApplicationStatusRequest,
) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	emp, err := employerForUser(ctx, s.employers, userID)
	if err != nil {
		return nil, err
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app.EmployerID != emp.ID {
		return nil, data.ErrApplicationNotFound
	}
	if !app.Status.CanEmployerMoveTo(req.Status) {
		return nil, errInvalidTransition(app.Status, req.Status)
	}
	return s.transition(ctx, app, req.Status, req.Notes)
}

func (s *ApplicationService) transition(
	ctx context.Context,
	app *model.Application,
	to model.ApplicationStatus,
	notes *string,
) (*model.Application, error) {
	updated, err := s.apps.UpdateStatus(ctx, model.UpdateApplicationStatusRequest{
		ID:    app.ID,
		From:  app.Status,
		To:    to,
		Notes: notes,
	})
	metrics.EmitOperation(s.metrics, metrics.Operation{
		Name: "application.status_changed",
		Err:  err,
		Tags: map[string]string{"to": string(to)},
	})
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	s.logger.InfoContext(ctx, "application status changed",
		"application_id", app.ID,
		"from", app.Status,
		"to", to,
	)

	if to == model.ApplicationWithdrawn {
		s.notifyEmployerOfWithdrawal(ctx, updated)
	} else {
		s.notifier.notify(ctx, model.CreateNotificationRequest{
			UserID:  updated.CandidateID,
			Type:    model.NotificationApplicationStatus,
			Title:   "Application update: " + updated.JobTitle,
			Message: fmt.Sprintf("Your application to %s at %s is now %s.", updated.JobTitle, updated.CompanyName, to),
			Link:    strPtr("/candidate/applications"),
		})
	}
	s.events.emit(ctx, ports.Event{
		Entity:     "application",
		Action:     "status_changed",
		ResourceID: updated.ID,
		Metadata:   map[string]string{"from": string(app.Status), "to": string(to), "job_id": updated.JobID},
		Data:       updated,
	})
	return s.urls.application(updated), nil
}

func (s *ApplicationService) notifyEmployerOfWithdrawal(ctx context.Context, app *model.Application) {
	emp, err := s.employers.GetByID(ctx, app.EmployerID)
	if err != nil {
		s.logger.WarnContext(ctx, "withdrawal notification skipped", "application_id", app.ID, "error", err)
		return
	}
	s.notifier.notify(ctx, model.CreateNotificationRequest{
		UserID:  emp.UserID,
		Type:    model.NotificationApplicationStatus,
		Title:   "Application withdrawn",
		Message: applicantName(app) + " withdrew their application for " + app.JobTitle + ".",
		Link:    strPtr("/employer/jobs/" + app.JobID + "/applications"),
	})
}

func (s *ApplicationService) list(
	ctx context.Context,
	opts model.ApplicationsListOptions,
) ([]*model.Application, error) {
	opts.ListOptions = normalizeListOptions(opts.ListOptions)
	apps, err := s.apps.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return s.urls.applications(apps), nil
}

func applicantName(app *model.Application) string {
	if name := strings.TrimSpace(app.CandidateName); name != "" {
		return name
	}
	return "A candidate"
}

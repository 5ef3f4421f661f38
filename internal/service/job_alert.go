package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

const alertPageSize = 200

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// compiledExpr is a parsed JMESPath expression.
type compiledExpr interface {
	Search(data any) (any, error)
}

// compiledExprCacheSize bounds the parsed expressions kept between jobs.
const compiledExprCacheSize = 4096

// jmespathLibEvaluator evaluates with go-jmespath, reusing parsed
// expressions since every new job is matched against every active alert.
type jmespathLibEvaluator struct {
	compiled *core.LRU[string, compiledExpr]
}

func newJMESPathLibEvaluator() jmespathLibEvaluator {
	return jmespathLibEvaluator{compiled: core.NewLRU[string, compiledExpr](compiledExprCacheSize)}
}

func (e jmespathLibEvaluator) Validate(expr string) error {
	_, err := e.compile(expr)
	return err
}

func (e jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	c, err := e.compile(expr)
	if err != nil {
		return nil, err
	}
	return c.Search(data)
}

func (e jmespathLibEvaluator) compile(expr string) (compiledExpr, error) {
	return e.compiled.GetOrLoad(expr, func() (compiledExpr, error) {
		return jmespath.Compile(expr)
	})
}

// JobAlertServiceOptions groups dependencies for JobAlertService.
type JobAlertServiceOptions struct {
	Repo          core.JobAlertRepository     // Required
	Notifications core.NotificationRepository // Required for MatchJob
	Evaluator     JMESPathEvaluator           // Optional: defaults to go-jmespath
	BatchSize     int                         // Alerts loaded per page in MatchJob
	Logger        *slog.Logger
}

// JobAlertService manages candidate job alerts and matches new jobs against them.
type JobAlertService struct {
	repo          core.JobAlertRepository
	notifications core.NotificationRepository
	eval          JMESPathEvaluator
	pageSize      int
	logger        *slog.Logger
}

// NewJobAlertService constructs a new JobAlertService.
func NewJobAlertService(opts JobAlertServiceOptions) *JobAlertService {
	if opts.Repo == nil {
		panic("JobAlertRepository is required")
	}
	eval := opts.Evaluator
	if eval == nil {
		eval = newJMESPathLibEvaluator()
	}
	pageSize := opts.BatchSize
	if pageSize <= 0 {
		pageSize = alertPageSize
	}
	return &JobAlertService{
		repo:          opts.Repo,
		notifications: opts.Notifications,
		eval:          eval,
		pageSize:      pageSize,
		logger:        componentLogger(opts.Logger, "job_alert_service"),
	}
}

// List returns the caller's alerts.
func (s *JobAlertService) List(ctx context.Context, userID string) ([]*model.JobAlert, error) {
	alerts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list job alerts: %w", err)
	}
	return alerts, nil
}

// Create stores a new alert after checking the expression compiles.
func (s *JobAlertService) Create(
	ctx context.Context,
	userID string,
	req *model.CreateJobAlertRequest,
) (*model.JobAlert, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.eval.Validate(req.Filter); err != nil {
		return nil, model.ErrInvalidAlertFilter(err)
	}
	req.UserID = userID
	alert, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create job alert: %w", err)
	}
	return alert, nil
}

// Update edits one of the caller's alerts.
func (s *JobAlertService) Update(
	ctx context.Context,
	userID, id string,
	req model.UpdateJobAlertRequest,
) (*model.JobAlert, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Filter != nil {
		if err := s.eval.Validate(*req.Filter); err != nil {
			return nil, model.ErrInvalidAlertFilter(err)
		}
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	alert, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update job alert: %w", err)
	}
	return alert, nil
}

// Delete removes one of the caller's alerts.
func (s *JobAlertService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete job alert: %w", err)
	}
	if !deleted {
		return data.ErrJobAlertNotFound
	}
	return nil
}

// owned loads an alert and hides alerts of other users behind a 404.
func (s *JobAlertService) owned(ctx context.Context, userID, id string) (*model.JobAlert, error) {
	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job alert: %w", err)
	}
	if alert.UserID != userID {
		return nil, data.ErrJobAlertNotFound
	}
	return alert, nil
}

// MatchJob evaluates every active alert against job and notifies each
// matching user once. Alerts whose expression fails are logged and skipped.
func (s *JobAlertService) MatchJob(ctx context.Context, job *model.Job) (int64, error) {
	if s.notifications == nil {
		return 0, nil
	}
	doc, err := jobDocument(job)
	if err != nil {
		return 0, err
	}

	notified := make(map[string]struct{})
	var reqs []model.CreateNotificationRequest
	afterID := ""
	for {
		alerts, err := s.repo.ListActive(ctx, afterID, s.pageSize)
		if err != nil {
			return 0, fmt.Errorf("list active alerts: %w", err)
		}
		for _, alert := range alerts {
			if _, done := notified[alert.UserID]; done {
				continue
			}
			if !s.matches(ctx, alert, doc) {
				continue
			}
			notified[alert.UserID] = struct{}{}
			reqs = append(reqs, jobAlertNotification(alert, job))
		}
		if len(alerts) < s.pageSize {
			break
		}
		afterID = alerts[len(alerts)-1].ID
	}

	if len(reqs) == 0 {
		return 0, nil
	}
	n, err := s.notifications.CreateMany(ctx, reqs)
	if err != nil {
		return 0, fmt.Errorf("create alert notifications: %w", err)
	}
	s.logger.InfoContext(ctx, "job alerts matched", "job_id", job.ID, "notified", n)
	return n, nil
}

func (s *JobAlertService) matches(ctx context.Context, alert *model.JobAlert, doc any) bool {
	out, err := s.eval.Evaluate(alert.Filter, doc)
	if err != nil {
		s.logger.WarnContext(ctx, "job alert evaluation failed",
			"alert_id", alert.ID,
			"error", err,
		)
		return false
	}
	return truthy(out)
}

// jobDocument converts a job into the generic JSON shape that alert
// expressions are written against.
func jobDocument(job *model.Job) (any, error) {
	raw, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return doc, nil
}

// truthy follows JMESPath truthiness: false, null, and empty strings,
// arrays and objects are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func jobAlertNotification(alert *model.JobAlert, job *model.Job) model.CreateNotificationRequest {
	msg := job.Title + " at " + job.CompanyName
	if loc := strings.TrimSpace(job.Location); loc != "" {
		msg += " in " + loc
	}
	return model.CreateNotificationRequest{
		UserID:  alert.UserID,
		Type:    model.NotificationJobAlert,
		Title:   "New job matching \"" + alert.Name + "\"",
		Message: msg,
		Link:    strPtr("/jobs/" + job.ID),
	}
}

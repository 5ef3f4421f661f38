package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/medexjob/medexjob-api/config"
	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	obserrors "github.com/medexjob/medexjob-api/internal/observability/errors"
	"github.com/medexjob/medexjob-api/internal/observability/metrics"
	"github.com/medexjob/medexjob-api/internal/observability/statsd"
	"github.com/medexjob/medexjob-api/internal/ports"
)

type ReaperRepos struct {
	Jobs          core.JobRepository
	Notifications core.NotificationRepository
	Uploads       core.UploadRepository
	Employers     core.EmployerRepository
}

type ReaperServiceOptions struct {
	Repos   ReaperRepos
	Files   ports.FileStore // orphaned upload bodies are removed here
	Config  config.ReaperConfig
	Now     func() time.Time
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// ReaperService is the periodic housekeeping loop. A pass closes jobs past
// their deadline, prunes old read notifications, removes unreferenced
// uploads and lapses expired subscriptions.
type ReaperService struct {
	repos   ReaperRepos
	files   ports.FileStore
	cfg     config.ReaperConfig
	now     func() time.Time
	log     *slog.Logger
	metrics statsd.Sink
}

func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	r := opts.Repos
	switch {
	case r.Jobs == nil, r.Notifications == nil, r.Uploads == nil, r.Employers == nil:
		return nil, errors.New("reaper: job, notification, upload and employer repositories are required")
	case opts.Files == nil:
		return nil, errors.New("reaper: file store is required")
	case opts.Config.Interval <= 0:
		return nil, errors.New("reaper: interval must be positive")
	case opts.Config.BatchSize <= 0:
		return nil, errors.New("reaper: batch size must be positive")
	}

	return &ReaperService{
		repos:   r,
		files:   opts.Files,
		cfg:     opts.Config,
		now:     clockOrDefault(opts.Now),
		log:     componentLogger(opts.Logger, "reaper"),
		metrics: opts.Metrics,
	}, nil
}

// Run sweeps once after a random delay of up to a tenth of the interval,
// then on every tick. Cancellation is a clean stop.
func (s *ReaperService) Run(ctx context.Context) error {
	s.log.InfoContext(ctx, "reaper started", "interval", s.cfg.Interval, "batch_size", s.cfg.BatchSize)

	timer := time.NewTimer(s.startDelay())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "reaper stopped", "reason", context.Cause(ctx))
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-timer.C:
			s.report(ctx, s.RunOnce(ctx))
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *ReaperService) startDelay() time.Duration {
	spread := s.cfg.Interval / 10
	if spread <= 0 {
		return 0
	}
	return rand.N(spread)
}

func (s *ReaperService) report(ctx context.Context, err error) {
	switch {
	case err == nil:
	case isContextCancellation(err):
		s.log.DebugContext(ctx, "reaper pass interrupted", "error", err)
	default:
		s.log.ErrorContext(ctx, "reaper pass failed", "error", err)
	}
}

type sweep struct {
	op    string // metric operation tag
	label string // error prefix
	run   func(context.Context) (int64, error)
}

type sweepResult struct {
	op       string
	affected int64
	err      error
}

func (s *ReaperService) sweeps() []sweep {
	return []sweep{
		{op: "close_expired_jobs", label: "close expired jobs", run: s.closeExpiredJobs},
		{op: "prune_notifications", label: "prune read notifications", run: s.pruneNotifications},
		{op: "delete_orphaned_uploads", label: "delete orphaned uploads", run: s.deleteOrphanedUploads},
		{op: "expire_subscriptions", label: "expire subscriptions", run: s.expireSubscriptions},
	}
}

// RunOnce runs every sweep, even after one fails, and joins the failures.
// A pass that failed only through cancellation returns context.Canceled.
func (s *ReaperService) RunOnce(ctx context.Context) error {
	started := time.Now()
	var (
		results  []sweepResult
		failures []error
		canceled = true
	)
	for _, sw := range s.sweeps() {
		n, err := sw.run(ctx)
		results = append(results, sweepResult{op: sw.op, affected: n, err: suppressContextCancellation(err)})
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", sw.label, err))
			canceled = canceled && isContextCancellation(err)
		}
	}
	s.record(results, time.Since(started))

	switch {
	case len(failures) == 0:
		return nil
	case canceled:
		return context.Canceled
	default:
		return fmt.Errorf("reaper pass: %w", errors.Join(failures...))
	}
}

// inBatches repeats step until it touches no rows.
func inBatches(ctx context.Context, step func(context.Context) (int64, error)) (int64, error) {
	var total int64
	for {
		n, err := step(ctx)
		total += n
		if err != nil || n == 0 {
			return total, err
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
	}
}

func (s *ReaperService) closeExpiredJobs(ctx context.Context) (int64, error) {
	now := s.now()
	n, err := inBatches(ctx, func(ctx context.Context) (int64, error) {
		return s.repos.Jobs.CloseExpired(ctx, now, s.cfg.BatchSize)
	})
	if n > 0 {
		s.log.InfoContext(ctx, "closed expired jobs", "count", n)
	}
	return n, err
}

func (s *ReaperService) pruneNotifications(ctx context.Context) (int64, error) {
	if s.cfg.NotificationMaxAge <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.cfg.NotificationMaxAge)
	n, err := inBatches(ctx, func(ctx context.Context) (int64, error) {
		return s.repos.Notifications.DeleteReadBefore(ctx, cutoff, s.cfg.BatchSize)
	})
	if n > 0 {
		s.log.InfoContext(ctx, "pruned read notifications", "count", n, "max_age", s.cfg.NotificationMaxAge)
	}
	return n, err
}

func (s *ReaperService) expireSubscriptions(ctx context.Context) (int64, error) {
	now := s.now()
	n, err := inBatches(ctx, func(ctx context.Context) (int64, error) {
		return s.repos.Employers.ExpireSubscriptions(ctx, now, s.cfg.BatchSize)
	})
	if n > 0 {
		s.log.InfoContext(ctx, "expired employer subscriptions", "count", n)
	}
	return n, err
}

// deleteOrphanedUploads removes the stored body first; the record survives
// a failed removal and is retried next pass. The sweep ends on a short
// batch or on a batch in which nothing could be removed.
func (s *ReaperService) deleteOrphanedUploads(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.cfg.UploadGrace)
	var total int64
	for {
		batch, err := s.repos.Uploads.ListOrphaned(ctx, cutoff, s.cfg.BatchSize)
		if err != nil {
			return total, err
		}
		removed, err := s.removeUploads(ctx, batch)
		total += removed
		if err != nil {
			return total, err
		}
		if len(batch) < s.cfg.BatchSize || removed == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
	}
	if total > 0 {
		s.log.InfoContext(ctx, "deleted orphaned uploads", "count", total, "grace", s.cfg.UploadGrace)
	}
	return total, nil
}

func (s *ReaperService) removeUploads(ctx context.Context, batch []*model.Upload) (int64, error) {
	var removed int64
	for _, up := range batch {
		if err := s.files.Remove(ctx, up.Path); err != nil {
			s.log.WarnContext(ctx, "orphaned file not removed", "upload_id", up.ID, "error", err)
			continue
		}
		deleted, err := s.repos.Uploads.Delete(ctx, up.ID)
		if err != nil {
			return removed, err
		}
		if deleted {
			removed++
		}
	}
	return removed, nil
}

func (s *ReaperService) record(results []sweepResult, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}

	var (
		affected int64
		firstErr error
	)
	for _, r := range results {
		affected += r.affected
		if firstErr == nil {
			firstErr = r.err
		}
		s.metrics.Count("reaper.cleanup_operation", 1, resultTags(r.err, r.affected, "operation", r.op))
		if r.err == nil && r.affected > 0 {
			s.metrics.Count("reaper.rows_processed", r.affected, resultTags(nil, r.affected, "operation", r.op))
		}
	}

	s.metrics.Count("reaper.cleanup", 1, resultTags(firstErr, affected))
	if elapsed > 0 {
		s.metrics.Timing("reaper.cleanup_duration", elapsed, resultTags(firstErr, affected))
	}
	if firstErr == nil {
		s.metrics.Gauge("reaper.last_success_epoch", float64(s.now().Unix()), nil)
	}
}

// resultTags builds {result, error_class, extra...}; extra is key/value pairs.
func resultTags(err error, affected int64, extra ...string) map[string]string {
	tags := map[string]string{"result": metrics.ResultOf(err, affected)}
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}
	for i := 0; i+1 < len(extra); i += 2 {
		tags[extra[i]] = extra[i+1]
	}
	return tags
}

func isContextCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func suppressContextCancellation(err error) error {
	if isContextCancellation(err) {
		return nil
	}
	return err
}

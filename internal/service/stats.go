package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// StatsService assembles dashboard counts. Independent counts run concurrently.
type StatsService struct {
	stats     core.StatsRepository
	employers core.EmployerRepository
}

// NewStatsService constructs a new StatsService.
func NewStatsService(stats core.StatsRepository, employers core.EmployerRepository) *StatsService {
	if stats == nil || employers == nil {
		panic("StatsRepository and EmployerRepository are required")
	}
	return &StatsService{stats: stats, employers: employers}
}

// Admin returns platform-wide counts.
func (s *StatsService) Admin(ctx context.Context) (*model.AdminStats, error) {
	var (
		out  model.AdminStats
		apps []model.StatusCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(countsInto(gctx, &out.UsersByRole, "users by role", s.stats.UsersByRole))
	g.Go(countsInto(gctx, &out.EmployersByStatus, "employers by status", s.stats.EmployersByStatus))
	g.Go(func() error {
		rows, err := s.stats.JobsByStatus(gctx, nil)
		if err != nil {
			return fmt.Errorf("jobs by status: %w", err)
		}
		out.JobsByStatus = model.CountsByStatus(rows)
		return nil
	})
	g.Go(func() error {
		var err error
		apps, err = s.stats.ApplicationsByStatus(gctx, core.ApplicationCountFilter{})
		if err != nil {
			return fmt.Errorf("applications by status: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		n, err := s.stats.UnreadNotifications(gctx, nil)
		if err != nil {
			return fmt.Errorf("unread notifications: %w", err)
		}
		out.UnreadNotifications = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, row := range apps {
		out.Applications += row.Count
	}
	return &out, nil
}

// Employer returns the dashboard of the caller's employer.
func (s *StatsService) Employer(ctx context.Context, userID string) (*model.EmployerDashboard, error) {
	emp, err := employerForUser(ctx, s.employers, userID)
	if err != nil {
		return nil, err
	}
	out := model.EmployerDashboard{VerificationStatus: emp.VerificationStatus}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.stats.JobsByStatus(gctx, &emp.ID)
		if err != nil {
			return fmt.Errorf("jobs by status: %w", err)
		}
		out.JobsByStatus = model.CountsByStatus(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.stats.ApplicationsByStatus(gctx, core.ApplicationCountFilter{EmployerID: &emp.ID})
		if err != nil {
			return fmt.Errorf("applications by status: %w", err)
		}
		out.ApplicationsByStatus = model.CountsByStatus(rows)
		return nil
	})
	g.Go(func() error {
		n, err := s.stats.UnreadNotifications(gctx, &userID)
		if err != nil {
			return fmt.Errorf("unread notifications: %w", err)
		}
		out.UnreadNotifications = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Candidate returns the candidate's dashboard.
func (s *StatsService) Candidate(ctx context.Context, userID string) (*model.CandidateDashboard, error) {
	var out model.CandidateDashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.stats.ApplicationsByStatus(gctx, core.ApplicationCountFilter{CandidateID: &userID})
		if err != nil {
			return fmt.Errorf("applications by status: %w", err)
		}
		out.ApplicationsByStatus = model.CountsByStatus(rows)
		return nil
	})
	g.Go(func() error {
		n, err := s.stats.SavedJobs(gctx, userID)
		if err != nil {
			return fmt.Errorf("saved jobs: %w", err)
		}
		out.SavedJobs = n
		return nil
	})
	g.Go(func() error {
		n, err := s.stats.UnreadNotifications(gctx, &userID)
		if err != nil {
			return fmt.Errorf("unread notifications: %w", err)
		}
		out.UnreadNotifications = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func countsInto(
	ctx context.Context,
	dst *map[string]int64,
	what string,
	fetch func(context.Context) ([]model.StatusCount, error),
) func() error {
	return func() error {
		rows, err := fetch(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
		*dst = model.CountsByStatus(rows)
		return nil
	}
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

const (
	// DefaultFreePostLimit is the open-job allowance of employers without a plan.
	DefaultFreePostLimit = 2
	// DefaultPlanCacheTTL is how long the public plan list is cached.
	DefaultPlanCacheTTL = 5 * time.Minute
)

var errPlanLimitReached = apperrors.Forbidden("your plan does not allow more open jobs").
	WithReason("plan_limit_reached")

// PlanServiceOptions groups dependencies for PlanService.
type PlanServiceOptions struct {
	Plans         core.PlanRepository     // Required
	Employers     core.EmployerRepository // Required
	Jobs          core.JobRepository      // Required for posting quota checks
	Cache         *core.PlanCatalogCache  // Optional
	FreePostLimit int
	FileURLs      FileURLResolver
	Now           func() time.Time
	Logger        *slog.Logger
}

// PlanService manages the plan catalog, employer subscriptions and the
// open-job quota derived from them.
type PlanService struct {
	plans         core.PlanRepository
	employers     core.EmployerRepository
	jobs          core.JobRepository
	cache         *core.PlanCatalogCache
	freePostLimit int
	fileURLs      FileURLResolver
	now           func() time.Time
	logger        *slog.Logger
}

// NewPlanService constructs a new PlanService.
func NewPlanService(opts PlanServiceOptions) *PlanService {
	if opts.Plans == nil {
		panic("PlanRepository is required")
	}
	if opts.Employers == nil {
		panic("EmployerRepository is required")
	}
	if opts.Jobs == nil {
		panic("JobRepository is required")
	}
	limit := opts.FreePostLimit
	if limit < 0 {
		limit = DefaultFreePostLimit
	}
	return &PlanService{
		plans:         opts.Plans,
		employers:     opts.Employers,
		jobs:          opts.Jobs,
		cache:         opts.Cache,
		freePostLimit: limit,
		fileURLs:      opts.FileURLs,
		now:           clockOrDefault(opts.Now),
		logger:        componentLogger(opts.Logger, "plan_service"),
	}
}

// ListActive returns the public catalog, served from cache when possible.
func (s *PlanService) ListActive(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	cached, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "plan cache read failed", "error", err)
	}
	if cached != nil {
		return cached, nil
	}
	plans, err := s.plans.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	if err := s.cache.Put(ctx, plans); err != nil {
		s.logger.WarnContext(ctx, "plan cache write failed", "error", err)
	}
	return plans, nil
}

// ListAll returns every plan, including inactive ones, for admins.
func (s *PlanService) ListAll(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	plans, err := s.plans.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// Create adds a plan.
func (s *PlanService) Create(ctx context.Context, req *model.CreatePlanRequest) (*model.SubscriptionPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	plan, err := s.plans.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "plan created", "plan_id", plan.ID, "code", plan.Code)
	return plan, nil
}

// Update edits a plan.
func (s *PlanService) Update(
	ctx context.Context,
	id string,
	req model.UpdatePlanRequest,
) (*model.SubscriptionPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	plan, err := s.plans.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	s.invalidate(ctx)
	return plan, nil
}

// Delete removes a plan no employer is subscribed to.
func (s *PlanService) Delete(ctx context.Context, id string) error {
	deleted, err := s.plans.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if !deleted {
		return data.ErrPlanNotFound
	}
	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "plan deleted", "plan_id", id)
	return nil
}

func (s *PlanService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "plan cache invalidation failed", "error", err)
	}
}

// Subscribe puts the caller's employer on the plan with the given code.
// The subscription runs for the plan's duration from now.
func (s *PlanService) Subscribe(ctx context.Context, userID string, req model.SubscribeRequest) (*model.Employer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	emp, err := employerForUser(ctx, s.employers, userID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.GetByCode(ctx, req.PlanCode)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if !plan.IsActive {
		return nil, data.ErrPlanNotFound
	}
	expires := s.now().UTC().AddDate(0, 0, plan.DurationDays)
	updated, err := s.employers.SetSubscription(ctx, model.SubscriptionRequest{
		EmployerID: emp.ID,
		PlanID:     &plan.ID,
		ExpiresAt:  &expires,
	})
	if err != nil {
		return nil, fmt.Errorf("set subscription: %w", err)
	}
	s.logger.InfoContext(ctx, "employer subscribed",
		"employer_id", emp.ID,
		"plan", plan.Code,
		"expires_at", expires,
	)
	return s.fileURLs.employer(updated), nil
}

// OpenJobLimit returns how many open jobs the employer may have. 0 means unlimited.
func (s *PlanService) OpenJobLimit(ctx context.Context, emp *model.Employer) (int, error) {
	if !emp.HasActivePlan(s.now()) {
		return s.freePostLimit, nil
	}
	plan, err := s.plans.GetByID(ctx, *emp.SubscriptionPlanID)
	if err != nil {
		return 0, fmt.Errorf("get plan: %w", err)
	}
	return plan.JobPostLimit, nil
}

// CheckOpenJobQuota fails with plan_limit_reached when one more open job
// would exceed the employer's allowance.
func (s *PlanService) CheckOpenJobQuota(ctx context.Context, emp *model.Employer) error {
	limit, err := s.OpenJobLimit(ctx, emp)
	if err != nil {
		return err
	}
	if limit == 0 {
		return nil
	}
	open, err := s.jobs.CountOpenByEmployer(ctx, emp.ID)
	if err != nil {
		return fmt.Errorf("count open jobs: %w", err)
	}
	if !(model.SubscriptionPlan{JobPostLimit: limit}).AllowsOpenJobs(open) {
		return errPlanLimitReached
	}
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/mocks"
)

var planNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type planFixture struct {
	svc       *PlanService
	plans     *mocks.MockPlanRepository
	employers *mocks.MockEmployerRepository
	jobs      *mocks.MockJobRepository
	cache     *mocks.MockCacheRepository
}

func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &planFixture{
		plans:     mocks.NewMockPlanRepository(ctrl),
		employers: mocks.NewMockEmployerRepository(ctrl),
		jobs:      mocks.NewMockJobRepository(ctrl),
		cache:     mocks.NewMockCacheRepository(ctrl),
	}
	f.svc = NewPlanService(PlanServiceOptions{
		Plans:         f.plans,
		Employers:     f.employers,
		Jobs:          f.jobs,
		Cache:         core.NewPlanCatalogCache(f.cache, DefaultPlanCacheTTL),
		FreePostLimit: DefaultFreePostLimit,
		Now:           func() time.Time { return planNow },
	})
	return f
}

func TestPlanService_ListActive_CacheMissThenHit(t *testing.T) {
	f := newPlanFixture(t)
	plans := []*model.SubscriptionPlan{{ID: "p-1", Code: "free"}, {ID: "p-2", Code: "basic"}}
	raw, err := json.Marshal(plans)
	require.NoError(t, err)

	gomock.InOrder(
		f.cache.EXPECT().Get(gomock.Any(), "plans:active").Return(nil, nil),
		f.plans.EXPECT().List(gomock.Any(), true).Return(plans, nil),
		f.cache.EXPECT().Set(gomock.Any(), "plans:active", raw, DefaultPlanCacheTTL).Return(nil),
		f.cache.EXPECT().Get(gomock.Any(), "plans:active").Return(raw, nil),
	)

	first, err := f.svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := f.svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "basic", second[1].Code)
}

func TestPlanService_WritesInvalidateCache(t *testing.T) {
	f := newPlanFixture(t)
	name := "Basic Plus"

	f.plans.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&model.SubscriptionPlan{ID: "p-3", Code: "plus"}, nil)
	f.plans.EXPECT().Update(gomock.Any(), "p-3", gomock.Any()).Return(&model.SubscriptionPlan{ID: "p-3"}, nil)
	f.plans.EXPECT().Delete(gomock.Any(), "p-3").Return(true, nil)
	f.cache.EXPECT().Delete(gomock.Any(), "plans:active").Return(true, nil).Times(3)

	_, err := f.svc.Create(context.Background(), &model.CreatePlanRequest{
		Code: "plus", Name: "Plus", DurationDays: 30, JobPostLimit: 10,
	})
	require.NoError(t, err)
	_, err = f.svc.Update(context.Background(), "p-3", model.UpdatePlanRequest{Name: &name})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(context.Background(), "p-3"))
}

func TestPlanService_Delete_NotFound(t *testing.T) {
	f := newPlanFixture(t)
	f.plans.EXPECT().Delete(gomock.Any(), "missing").Return(false, nil)

	err := f.svc.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, data.ErrPlanNotFound)
}

func TestPlanService_Create_Invalid(t *testing.T) {
	f := newPlanFixture(t)

	_, err := f.svc.Create(context.Background(), &model.CreatePlanRequest{Code: "X", Name: "x", DurationDays: 30})

	assert.Equal(t, "code", apperrors.GetField(err))
}

func TestPlanService_Subscribe(t *testing.T) {
	f := newPlanFixture(t)
	f.employers.EXPECT().GetByUserID(gomock.Any(), "u-emp").Return(&model.Employer{ID: "e-1"}, nil)
	f.plans.EXPECT().GetByCode(gomock.Any(), "basic").
		Return(&model.SubscriptionPlan{ID: "p-2", Code: "basic", DurationDays: 30, IsActive: true}, nil)
	f.employers.EXPECT().
		SetSubscription(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req model.SubscriptionRequest) (*model.Employer, error) {
			assert.Equal(t, "e-1", req.EmployerID)
			assert.Equal(t, "p-2", *req.PlanID)
			assert.Equal(t, planNow.AddDate(0, 0, 30), *req.ExpiresAt)
			return &model.Employer{ID: "e-1", SubscriptionPlanID: req.PlanID, SubscriptionExpiresAt: req.ExpiresAt}, nil
		})

	e, err := f.svc.Subscribe(context.Background(), "u-emp", model.SubscribeRequest{PlanCode: " Basic "})

	require.NoError(t, err)
	assert.True(t, e.HasActivePlan(planNow))
}

func TestPlanService_Subscribe_InactivePlan(t *testing.T) {
	f := newPlanFixture(t)
	f.employers.EXPECT().GetByUserID(gomock.Any(), "u-emp").Return(&model.Employer{ID: "e-1"}, nil)
	f.plans.EXPECT().GetByCode(gomock.Any(), "legacy").Return(&model.SubscriptionPlan{ID: "p-9", IsActive: false}, nil)

	_, err := f.svc.Subscribe(context.Background(), "u-emp", model.SubscribeRequest{PlanCode: "legacy"})

	assert.ErrorIs(t, err, data.ErrPlanNotFound)
}

func TestPlanService_CheckOpenJobQuota(t *testing.T) {
	planID := "p-2"
	future := planNow.Add(24 * time.Hour)
	past := planNow.Add(-time.Hour)

	tests := []struct {
		name      string
		employer  model.Employer
		planLimit int
		open      int
		wantErr   bool
	}{
		{name: "free tier under limit", employer: model.Employer{ID: "e-1"}, open: 1},
		{name: "free tier at limit", employer: model.Employer{ID: "e-1"}, open: 2, wantErr: true},
		{
			name:      "plan under limit",
			employer:  model.Employer{ID: "e-1", SubscriptionPlanID: &planID, SubscriptionExpiresAt: &future},
			planLimit: 10,
			open:      9,
		},
		{
			name:      "plan at limit",
			employer:  model.Employer{ID: "e-1", SubscriptionPlanID: &planID, SubscriptionExpiresAt: &future},
			planLimit: 10,
			open:      10,
			wantErr:   true,
		},
		{
			name:     "expired plan falls back to free tier",
			employer: model.Employer{ID: "e-1", SubscriptionPlanID: &planID, SubscriptionExpiresAt: &past},
			open:     2,
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlanFixture(t)
			if tt.employer.HasActivePlan(planNow) {
				f.plans.EXPECT().GetByID(gomock.Any(), planID).
					Return(&model.SubscriptionPlan{ID: planID, JobPostLimit: tt.planLimit}, nil)
			}
			f.jobs.EXPECT().CountOpenByEmployer(gomock.Any(), "e-1").Return(tt.open, nil)

			emp := tt.employer
			err := f.svc.CheckOpenJobQuota(context.Background(), &emp)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsForbidden(err))
				assert.Equal(t, "plan_limit_reached", apperrors.GetReason(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPlanService_CheckOpenJobQuota_Unlimited(t *testing.T) {
	f := newPlanFixture(t)
	planID := "p-3"
	f.plans.EXPECT().GetByID(gomock.Any(), planID).Return(&model.SubscriptionPlan{ID: planID, JobPostLimit: 0}, nil)

	err := f.svc.CheckOpenJobQuota(context.Background(), &model.Employer{ID: "e-1", SubscriptionPlanID: &planID})

	require.NoError(t, err)
}
